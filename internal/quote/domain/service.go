package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/taller/internal/document"
)

// ItemInput is one quotation line captured from the back office.
type ItemInput struct {
	Description     string          `json:"description" binding:"required"`
	Quantity        float64         `json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price" binding:"required"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// CreateQuoteRequest captures a new quotation. IssuedAt and ExpiresAt
// are optional: issue defaults to now, expiry to issue plus the
// standard validity window.
type CreateQuoteRequest struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name" binding:"required"`
	Reference    string `json:"reference"`

	TaxEnabled bool            `json:"tax_enabled"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
	Currency   string          `json:"currency"`
	Notes      string          `json:"notes"`
	Items      []ItemInput     `json:"items" binding:"required"`

	IssuedAt  *time.Time `json:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at"`

	Metadata map[string]interface{} `json:"metadata"`
}

// UpdateQuoteRequest replaces the mutable fields of a quotation.
// Items are replaced wholesale; totals are recomputed from the new
// state.
type UpdateQuoteRequest struct {
	CustomerName *string `json:"customer_name"`
	Reference    *string `json:"reference"`
	Notes        *string `json:"notes"`

	TaxEnabled *bool            `json:"tax_enabled"`
	TaxPercent *decimal.Decimal `json:"tax_percent"`
	Items      []ItemInput      `json:"items"`

	ExpiresAt *time.Time `json:"expires_at"`
}

// ListQuotesRequest filters the quotation listing.
type ListQuotesRequest struct {
	Status QuoteStatus `form:"status"`
	Limit  int         `form:"limit"`
	Offset int         `form:"offset"`
}

// Service manages the quotation lifecycle.
type Service interface {
	Create(ctx context.Context, req CreateQuoteRequest) (*Quote, error)
	Get(ctx context.Context, quoteID string) (*Quote, error)
	List(ctx context.Context, req ListQuotesRequest) ([]Quote, error)
	Update(ctx context.Context, quoteID string, req UpdateQuoteRequest) (*Quote, error)
	UpdateStatus(ctx context.Context, quoteID string, status QuoteStatus) (*Quote, error)

	// Preview computes a document from unsaved input: no folio is
	// allocated, nothing is persisted, and the shorter standalone
	// validity window applies.
	Preview(ctx context.Context, req CreateQuoteRequest) (*document.Document, error)

	// Project builds the staff-facing document for a stored quote.
	Project(ctx context.Context, quoteID string) (*document.Document, error)
}
