package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/taller/internal/clock"
	"github.com/smallbiznis/taller/internal/config"
	"github.com/smallbiznis/taller/internal/document"
	"github.com/smallbiznis/taller/internal/orgcontext"
	sequencedomain "github.com/smallbiznis/taller/internal/sequence/domain"
	"github.com/smallbiznis/taller/internal/serviceorder/domain"
	"github.com/smallbiznis/taller/pkg/db/option"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultCurrency = "MXN"

type Params struct {
	fx.In

	DB        *gorm.DB
	Cfg       config.Config
	Log       *zap.Logger
	Clock     clock.Clock
	Node      *snowflake.Node
	Sequences sequencedomain.Allocator
	Repo      domain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	node      *snowflake.Node
	sequences sequencedomain.Allocator
	repo      domain.Repository
	taxRate   decimal.Decimal
}

func NewService(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("serviceorder.service"),
		clock:     p.Clock,
		node:      p.Node,
		sequences: p.Sequences,
		repo:      p.Repo,
		taxRate:   taxRateFromConfig(p.Cfg),
	}
}

func taxRateFromConfig(cfg config.Config) decimal.Decimal {
	if cfg.TaxRatePercent > 0 {
		return decimal.NewFromFloat(cfg.TaxRatePercent)
	}
	return document.DefaultTaxPercent
}

// Create allocates a folio for the intake and persists the order with
// its parts and computed totals. Folio allocation happens before the
// insert transaction: a failed insert leaves a gap in the sequence,
// which is acceptable; a duplicated folio is not.
func (s *Service) Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.ServiceOrder, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customer name is required", domain.ErrInvalidOrder)
	}
	if req.DeviceType == "" {
		req.DeviceType = domain.DeviceOther
	}

	now := s.clock.Now()
	order := &domain.ServiceOrder{
		ID:            s.node.Generate(),
		OrgID:         orgID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		DeviceType:    req.DeviceType,
		DeviceBrand:   req.DeviceBrand,
		DeviceModel:   req.DeviceModel,
		DeviceSerial:  req.DeviceSerial,
		Problem:       req.Problem,
		Status:        domain.OrderStatusReceived,
		LaborAmount:   req.LaborAmount,
		TaxEnabled:    req.TaxEnabled,
		TaxPercent:    s.taxRate,
		AdvancePaid:   req.AdvancePaid,
		Currency:      normalizeCurrency(req.Currency),
		Metadata:      datatypes.JSONMap(req.Metadata),
		ReceivedAt:    now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.CustomerID != "" {
		customerID, err := snowflake.ParseString(req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad customer id", domain.ErrInvalidOrder)
		}
		order.CustomerID = &customerID
	}
	order.Parts = s.buildParts(order, req.Parts, now)

	if err := s.applyTotals(order); err != nil {
		return nil, err
	}

	number, err := s.sequences.Next(ctx, orgID, string(document.KindServiceOrder), now.Year())
	if err != nil {
		return nil, err
	}
	order.FolioNumber = number
	order.Folio, err = document.FormatFolio(document.DefaultFolioTemplate, document.KindServiceOrder, now.Year(), number)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTrx(tx).Create(ctx, order)
	})
	if err != nil {
		s.log.Error("create service order failed",
			zap.String("org_id", orgID.String()),
			zap.String("folio", order.Folio),
			zap.Error(err),
		)
		return nil, err
	}

	s.log.Info("service order created",
		zap.String("org_id", orgID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("folio", order.Folio),
	)
	return order, nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*domain.ServiceOrder, error) {
	orgID, id, err := s.scope(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, req domain.ListOrdersRequest) ([]domain.ServiceOrder, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{Field: "created_at", Desc: true}),
	}
	if req.Status != "" {
		if !domain.ValidStatus(req.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidOrder, req.Status)
		}
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field: "status", Operator: option.EQ, Value: req.Status,
		}))
	}
	if req.Limit > 0 {
		opts = append(opts, option.WithLimit(req.Limit))
	}
	if req.Offset > 0 {
		opts = append(opts, option.WithOffset(req.Offset))
	}

	return s.repo.List(ctx, orgID, opts...)
}

// Update replaces the mutable fields and part lines, then recomputes
// and persists the totals in one transaction.
func (s *Service) Update(ctx context.Context, orderID string, req domain.UpdateOrderRequest) (*domain.ServiceOrder, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == domain.OrderStatusDelivered || order.Status == domain.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: order is %s", domain.ErrInvalidTransition, order.Status)
	}

	now := s.clock.Now()
	if req.CustomerName != nil {
		order.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.CustomerPhone != nil {
		order.CustomerPhone = strings.TrimSpace(*req.CustomerPhone)
	}
	if req.Diagnosis != nil {
		order.Diagnosis = *req.Diagnosis
	}
	if req.Problem != nil {
		order.Problem = *req.Problem
	}
	if req.LaborAmount != nil {
		order.LaborAmount = *req.LaborAmount
	}
	if req.TaxEnabled != nil {
		order.TaxEnabled = *req.TaxEnabled
	}
	if req.AdvancePaid != nil {
		order.AdvancePaid = *req.AdvancePaid
	}

	var parts []domain.ServiceOrderPart
	replaceParts := req.Parts != nil
	if replaceParts {
		parts = s.buildParts(order, req.Parts, now)
		order.Parts = parts
	}
	if err := s.applyTotals(order); err != nil {
		return nil, err
	}
	order.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)
		if replaceParts {
			if err := repo.ReplaceParts(ctx, order, parts); err != nil {
				return err
			}
		}
		return repo.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves the order along its lifecycle, stamping
// DeliveredAt on delivery. Delivered and cancelled are terminal.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.ServiceOrder, error) {
	if !domain.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidOrder, status)
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}
	if !order.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, order.Status, status)
	}

	now := s.clock.Now()
	order.Status = status
	order.UpdatedAt = now
	if status == domain.OrderStatusDelivered {
		order.DeliveredAt = &now
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("service order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(status)),
	)
	return order, nil
}

func (s *Service) Project(ctx context.Context, orderID string) (*document.Document, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	in, err := order.ProjectionInput()
	if err != nil {
		return nil, err
	}
	doc := document.Build(in)
	return &doc, nil
}

func (s *Service) scope(ctx context.Context, orderID string) (snowflake.ID, snowflake.ID, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return 0, 0, domain.ErrInvalidOrganization
	}
	id, err := snowflake.ParseString(strings.TrimSpace(orderID))
	if err != nil {
		return 0, 0, domain.ErrInvalidOrderID
	}
	return orgID, id, nil
}

func (s *Service) buildParts(order *domain.ServiceOrder, inputs []domain.PartInput, now time.Time) []domain.ServiceOrderPart {
	parts := make([]domain.ServiceOrderPart, 0, len(inputs))
	for _, in := range inputs {
		parts = append(parts, domain.ServiceOrderPart{
			ID:          s.node.Generate(),
			OrgID:       order.OrgID,
			OrderID:     order.ID,
			Description: strings.TrimSpace(in.Description),
			Quantity:    int64(in.Quantity),
			UnitPrice:   in.UnitPrice,
			UnitCost:    in.UnitCost,
			TaxPercent:  in.TaxPercent,
			CreatedAt:   now,
		})
	}
	return parts
}

// applyTotals recomputes the derived amount columns from the current
// labor, parts, tax flag, and advance.
func (s *Service) applyTotals(order *domain.ServiceOrder) error {
	totals, err := document.ComputeTotals(order.CalcItems(), order.CalcFlags())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidOrder, err)
	}
	order.Subtotal = totals.Subtotal
	order.TaxAmount = totals.TotalTax
	order.TotalAmount = totals.GrandTotal
	order.BalanceDue = totals.GrandTotal.Sub(order.AdvancePaid).Round(2)
	return nil
}

func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return defaultCurrency
	}
	return code
}
