package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taller/pkg/db/option"
	"gorm.io/gorm"
)

// Repository persists quotations and their items.
type Repository interface {
	WithTrx(tx *gorm.DB) Repository

	Create(ctx context.Context, quote *Quote) error
	FindByID(ctx context.Context, orgID, quoteID snowflake.ID) (*Quote, error)
	List(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]Quote, error)
	Save(ctx context.Context, quote *Quote) error
	ReplaceItems(ctx context.Context, quote *Quote, items []QuoteItem) error
}
