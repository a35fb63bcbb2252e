package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	serviceorderdomain "github.com/smallbiznis/taller/internal/serviceorder/domain"
)

// Repository reads and writes the token column on service orders.
type Repository interface {
	// TokenByOrder returns the order's current token, or "" when none
	// is attached yet.
	TokenByOrder(ctx context.Context, orgID, orderID snowflake.ID) (string, error)

	// Attach sets the token if and only if the order has none. It
	// reports false without error when another writer got there first.
	Attach(ctx context.Context, orgID, orderID snowflake.ID, token string) (bool, error)

	// OrderByToken returns the order owning the token, or nil when the
	// token is unknown.
	OrderByToken(ctx context.Context, token string) (*serviceorderdomain.ServiceOrder, error)
}
