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
	"github.com/smallbiznis/taller/internal/quote/domain"
	sequencedomain "github.com/smallbiznis/taller/internal/sequence/domain"
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
		log:       p.Log.Named("quote.service"),
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

// Create allocates a folio, computes totals, and persists the quote
// with its items. Issue and expiry dates default to now and now plus
// the standard validity window.
func (s *Service) Create(ctx context.Context, req domain.CreateQuoteRequest) (*domain.Quote, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	issuedAt, expiresAt := document.ResolveDates(now, req.IssuedAt, req.ExpiresAt, document.QuoteValidityDays)

	quote := &domain.Quote{
		ID:           s.node.Generate(),
		OrgID:        orgID,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Reference:    req.Reference,
		Status:       domain.QuoteStatusDraft,
		TaxEnabled:   req.TaxEnabled,
		TaxPercent:   s.effectiveTaxRate(req.TaxPercent),
		Currency:     normalizeCurrency(req.Currency),
		Notes:        req.Notes,
		Metadata:     datatypes.JSONMap(req.Metadata),
		IssuedAt:     issuedAt,
		ExpiresAt:    expiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.CustomerID != "" {
		customerID, err := snowflake.ParseString(req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad customer id", domain.ErrInvalidQuote)
		}
		quote.CustomerID = &customerID
	}
	quote.Items = s.buildItems(quote, req.Items, now)

	if err := s.applyTotals(quote); err != nil {
		return nil, err
	}

	number, err := s.sequences.Next(ctx, orgID, string(document.KindQuote), issuedAt.Year())
	if err != nil {
		return nil, err
	}
	quote.FolioNumber = number
	quote.Folio, err = document.FormatFolio(document.DefaultFolioTemplate, document.KindQuote, issuedAt.Year(), number)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTrx(tx).Create(ctx, quote)
	})
	if err != nil {
		s.log.Error("create quote failed",
			zap.String("org_id", orgID.String()),
			zap.String("folio", quote.Folio),
			zap.Error(err),
		)
		return nil, err
	}

	s.log.Info("quote created",
		zap.String("org_id", orgID.String()),
		zap.String("quote_id", quote.ID.String()),
		zap.String("folio", quote.Folio),
	)
	return quote, nil
}

func (s *Service) Get(ctx context.Context, quoteID string) (*domain.Quote, error) {
	orgID, id, err := s.scope(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	quote, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrNotFound
	}
	return quote, nil
}

func (s *Service) List(ctx context.Context, req domain.ListQuotesRequest) ([]domain.Quote, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{Field: "created_at", Desc: true}),
	}
	if req.Status != "" {
		if !domain.ValidStatus(req.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidQuote, req.Status)
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

// Update replaces the mutable fields and lines, then recomputes and
// persists the totals in one transaction. Only draft and sent quotes
// are editable.
func (s *Service) Update(ctx context.Context, quoteID string, req domain.UpdateQuoteRequest) (*domain.Quote, error) {
	quote, err := s.Get(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status != domain.QuoteStatusDraft && quote.Status != domain.QuoteStatusSent {
		return nil, fmt.Errorf("%w: quote is %s", domain.ErrInvalidTransition, quote.Status)
	}

	now := s.clock.Now()
	if req.CustomerName != nil {
		quote.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.Reference != nil {
		quote.Reference = *req.Reference
	}
	if req.Notes != nil {
		quote.Notes = *req.Notes
	}
	if req.TaxEnabled != nil {
		quote.TaxEnabled = *req.TaxEnabled
	}
	if req.TaxPercent != nil {
		quote.TaxPercent = *req.TaxPercent
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.IsZero() {
		quote.ExpiresAt = *req.ExpiresAt
	}

	var items []domain.QuoteItem
	replaceItems := req.Items != nil
	if replaceItems {
		items = s.buildItems(quote, req.Items, now)
		quote.Items = items
	}
	if err := s.applyTotals(quote); err != nil {
		return nil, err
	}
	quote.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)
		if replaceItems {
			if err := repo.ReplaceItems(ctx, quote, items); err != nil {
				return err
			}
		}
		return repo.Save(ctx, quote)
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func (s *Service) UpdateStatus(ctx context.Context, quoteID string, status domain.QuoteStatus) (*domain.Quote, error) {
	if !domain.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidQuote, status)
	}

	quote, err := s.Get(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status == status {
		return quote, nil
	}
	if !quote.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, quote.Status, status)
	}

	quote.Status = status
	quote.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, quote); err != nil {
		return nil, err
	}

	s.log.Info("quote status changed",
		zap.String("quote_id", quote.ID.String()),
		zap.String("status", string(status)),
	)
	return quote, nil
}

// Preview renders a document straight from request input. Nothing is
// allocated or stored, the folio stays empty, and the shorter
// standalone validity window applies.
func (s *Service) Preview(ctx context.Context, req domain.CreateQuoteRequest) (*document.Document, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	issuedAt, expiresAt := document.ResolveDates(now, req.IssuedAt, req.ExpiresAt, document.PreviewValidityDays)

	items := make([]document.LineItem, 0, len(req.Items))
	for _, in := range req.Items {
		items = append(items, document.LineItem{
			Description:     strings.TrimSpace(in.Description),
			Quantity:        in.Quantity,
			UnitPrice:       in.UnitPrice,
			UnitCost:        in.UnitCost,
			DiscountPercent: in.DiscountPercent,
		})
	}

	totals, err := document.ComputeTotals(items, document.CalcFlags{
		DocumentTax:        req.TaxEnabled,
		DocumentTaxPercent: req.TaxPercent,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidQuote, err)
	}

	doc := document.Build(document.BuildInput{
		Identity: document.Identity{
			Kind:      document.KindQuote,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
		Status:       string(domain.QuoteStatusDraft),
		StatusLabel:  domain.QuoteStatusDraft.Label(),
		CustomerName: strings.TrimSpace(req.CustomerName),
		Reference:    req.Reference,
		Currency:     normalizeCurrency(req.Currency),
		Items:        items,
		Totals:       totals,
		Notes:        req.Notes,
	})
	return &doc, nil
}

func (s *Service) Project(ctx context.Context, quoteID string) (*document.Document, error) {
	quote, err := s.Get(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	in, err := quote.ProjectionInput()
	if err != nil {
		return nil, err
	}
	doc := document.Build(in)
	return &doc, nil
}

func (s *Service) scope(ctx context.Context, quoteID string) (snowflake.ID, snowflake.ID, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return 0, 0, domain.ErrInvalidOrganization
	}
	id, err := snowflake.ParseString(strings.TrimSpace(quoteID))
	if err != nil {
		return 0, 0, domain.ErrInvalidQuoteID
	}
	return orgID, id, nil
}

func (s *Service) buildItems(quote *domain.Quote, inputs []domain.ItemInput, now time.Time) []domain.QuoteItem {
	items := make([]domain.QuoteItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, domain.QuoteItem{
			ID:              s.node.Generate(),
			OrgID:           quote.OrgID,
			QuoteID:         quote.ID,
			Description:     strings.TrimSpace(in.Description),
			Quantity:        int64(in.Quantity),
			UnitPrice:       in.UnitPrice,
			UnitCost:        in.UnitCost,
			DiscountPercent: in.DiscountPercent,
			CreatedAt:       now,
		})
	}
	return items
}

func (s *Service) applyTotals(quote *domain.Quote) error {
	totals, err := document.ComputeTotals(quote.CalcItems(), quote.CalcFlags())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidQuote, err)
	}
	quote.Subtotal = totals.Subtotal
	quote.TotalDiscount = totals.TotalDiscount
	quote.TaxAmount = totals.TotalTax
	quote.TotalAmount = totals.GrandTotal
	return nil
}

// effectiveTaxRate resolves the document rate: an explicit request
// rate wins, otherwise the configured shop rate is snapshotted.
func (s *Service) effectiveTaxRate(requested decimal.Decimal) decimal.Decimal {
	if requested.IsPositive() {
		return requested
	}
	return s.taxRate
}

func validateCreate(req domain.CreateQuoteRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", domain.ErrInvalidQuote)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", domain.ErrInvalidQuote)
	}
	return nil
}

func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return defaultCurrency
	}
	return code
}
