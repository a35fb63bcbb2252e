package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taller/internal/clock"
	"github.com/smallbiznis/taller/internal/customer/domain"
	"github.com/smallbiznis/taller/internal/orgcontext"
	"github.com/smallbiznis/taller/pkg/db/option"
	"github.com/smallbiznis/taller/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Node  *snowflake.Node
	Repo  repository.Repository[domain.Customer]
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	node  *snowflake.Node
	repo  repository.Repository[domain.Customer]
}

func NewService(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("customer.service"),
		clock: p.Clock,
		node:  p.Node,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (*domain.Customer, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidCustomer)
	}

	now := s.clock.Now()
	customer := &domain.Customer{
		ID:        s.node.Generate(),
		OrgID:     orgID,
		Name:      strings.TrimSpace(req.Name),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Notes:     req.Notes,
		Metadata:  datatypes.JSONMap(req.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.log.Info("customer created",
		zap.String("org_id", orgID.String()),
		zap.String("customer_id", customer.ID.String()),
	)
	return customer, nil
}

func (s *Service) Get(ctx context.Context, customerID string) (*domain.Customer, error) {
	orgID, id, err := s.scope(ctx, customerID)
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.FindOne(ctx, &domain.Customer{ID: id, OrgID: orgID})
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomersRequest) ([]*domain.Customer, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{Field: "created_at", Desc: true}),
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field: "name", Operator: option.LIKE, Value: "%" + search + "%",
		}))
	}
	if req.Limit > 0 {
		opts = append(opts, option.WithLimit(req.Limit))
	}
	if req.Offset > 0 {
		opts = append(opts, option.WithOffset(req.Offset))
	}

	return s.repo.Find(ctx, &domain.Customer{OrgID: orgID}, opts...)
}

func (s *Service) Update(ctx context.Context, customerID string, req domain.UpdateCustomerRequest) (*domain.Customer, error) {
	customer, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidCustomer)
		}
		customer.Name = name
	}
	if req.Phone != nil {
		customer.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		customer.Email = strings.TrimSpace(*req.Email)
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}
	customer.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, customer.ID.String(), customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *Service) scope(ctx context.Context, customerID string) (snowflake.ID, snowflake.ID, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return 0, 0, domain.ErrInvalidOrganization
	}
	id, err := snowflake.ParseString(strings.TrimSpace(customerID))
	if err != nil {
		return 0, 0, domain.ErrInvalidCustomerID
	}
	return orgID, id, nil
}
