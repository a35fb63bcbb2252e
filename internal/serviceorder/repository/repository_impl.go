package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taller/internal/serviceorder/domain"
	"github.com/smallbiznis/taller/pkg/db/option"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

type Params struct {
	fx.In

	DB *gorm.DB
}

func NewRepository(p Params) domain.Repository {
	return &repository{db: p.DB}
}

func (r *repository) WithTrx(tx *gorm.DB) domain.Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *domain.ServiceOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, orgID, orderID snowflake.ID) (*domain.ServiceOrder, error) {
	var order domain.ServiceOrder
	err := r.db.WithContext(ctx).
		Preload("Parts").
		Where("org_id = ? AND id = ?", orgID, orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]domain.ServiceOrder, error) {
	query := r.db.WithContext(ctx).
		Preload("Parts").
		Where("org_id = ?", orgID)
	for _, opt := range opts {
		query = opt.Apply(query)
	}

	var orders []domain.ServiceOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) Save(ctx context.Context, order *domain.ServiceOrder) error {
	return r.db.WithContext(ctx).
		Omit("Parts").
		Save(order).Error
}

// ReplaceParts swaps the order's part lines wholesale. Callers run it
// inside the same transaction as the totals update so readers never
// observe parts and totals from different revisions.
func (r *repository) ReplaceParts(ctx context.Context, order *domain.ServiceOrder, parts []domain.ServiceOrderPart) error {
	err := r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Delete(&domain.ServiceOrderPart{}).Error
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		order.Parts = nil
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&parts).Error; err != nil {
		return err
	}
	order.Parts = parts
	return nil
}
