package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taller/pkg/db/option"
	"gorm.io/gorm"
)

// Repository persists service orders and their parts.
type Repository interface {
	WithTrx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *ServiceOrder) error
	FindByID(ctx context.Context, orgID, orderID snowflake.ID) (*ServiceOrder, error)
	List(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]ServiceOrder, error)
	Save(ctx context.Context, order *ServiceOrder) error
	ReplaceParts(ctx context.Context, order *ServiceOrder, parts []ServiceOrderPart) error
}
