package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taller/internal/quote/domain"
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

func (r *repository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *repository) FindByID(ctx context.Context, orgID, quoteID snowflake.ID) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("org_id = ? AND id = ?", orgID, quoteID).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]domain.Quote, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("org_id = ?", orgID)
	for _, opt := range opts {
		query = opt.Apply(query)
	}

	var quotes []domain.Quote
	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *repository) Save(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).
		Omit("Items").
		Save(quote).Error
}

// ReplaceItems swaps the quote's lines wholesale, inside the caller's
// transaction alongside the totals update.
func (r *repository) ReplaceItems(ctx context.Context, quote *domain.Quote, items []domain.QuoteItem) error {
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quote.ID).
		Delete(&domain.QuoteItem{}).Error
	if err != nil {
		return err
	}
	if len(items) == 0 {
		quote.Items = nil
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return err
	}
	quote.Items = items
	return nil
}
