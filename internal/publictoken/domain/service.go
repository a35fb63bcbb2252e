// Package domain defines the public access token contract.
//
// A token is an opaque, crypto-strong string that grants anonymous
// read-only access to exactly one service order. Possession of the
// string is the entire credential; there is no expiry and no
// revocation short of deleting the order.
package domain

import (
	"context"
	"errors"

	serviceorderdomain "github.com/smallbiznis/taller/internal/serviceorder/domain"
)

// Service issues and resolves public tracking tokens.
type Service interface {
	// IssueOrReuse returns the order's tracking token, minting one on
	// first use. Repeated calls for the same order return the same
	// token, including under concurrent callers.
	IssueOrReuse(ctx context.Context, orderID string) (string, error)

	// Resolve maps a token to its order. Unknown, malformed, and empty
	// tokens all come back as ErrNotFound; callers must not reveal
	// which case occurred.
	Resolve(ctx context.Context, token string) (*serviceorderdomain.ServiceOrder, error)
}

var (
	// ErrNotFound covers every failed resolution uniformly so the
	// public surface cannot be used as an existence oracle.
	ErrNotFound = errors.New("record_not_found")

	// ErrInvalidOrder indicates IssueOrReuse was called for an order
	// outside the caller's organization or with a malformed ID.
	ErrInvalidOrder = errors.New("invalid_order_reference")
)
