package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/taller/internal/document"
)

// PartInput is one part or material line captured from the back office.
type PartInput struct {
	Description string          `json:"description" binding:"required"`
	Quantity    float64         `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
}

// CreateOrderRequest captures a new repair intake.
type CreateOrderRequest struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone"`

	DeviceType   DeviceType `json:"device_type" binding:"required"`
	DeviceBrand  string     `json:"device_brand"`
	DeviceModel  string     `json:"device_model"`
	DeviceSerial string     `json:"device_serial"`
	Problem      string     `json:"problem"`

	LaborAmount decimal.Decimal `json:"labor_amount"`
	TaxEnabled  bool            `json:"tax_enabled"`
	AdvancePaid decimal.Decimal `json:"advance_paid"`
	Currency    string          `json:"currency"`
	Parts       []PartInput     `json:"parts"`

	Metadata map[string]interface{} `json:"metadata"`
}

// UpdateOrderRequest replaces the mutable fields of an order. Parts
// are replaced wholesale; totals are recomputed from the new state.
type UpdateOrderRequest struct {
	CustomerName  *string `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone"`
	Diagnosis     *string `json:"diagnosis"`
	Problem       *string `json:"problem"`

	LaborAmount *decimal.Decimal `json:"labor_amount"`
	TaxEnabled  *bool            `json:"tax_enabled"`
	AdvancePaid *decimal.Decimal `json:"advance_paid"`
	Parts       []PartInput      `json:"parts"`
}

// ListOrdersRequest filters the order listing.
type ListOrdersRequest struct {
	Status OrderStatus `form:"status"`
	Limit  int         `form:"limit"`
	Offset int         `form:"offset"`
}

// Service manages the repair order lifecycle.
type Service interface {
	Create(ctx context.Context, req CreateOrderRequest) (*ServiceOrder, error)
	Get(ctx context.Context, orderID string) (*ServiceOrder, error)
	List(ctx context.Context, req ListOrdersRequest) ([]ServiceOrder, error)
	Update(ctx context.Context, orderID string, req UpdateOrderRequest) (*ServiceOrder, error)
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus) (*ServiceOrder, error)

	// Project builds the staff-facing document for the order,
	// including cost and margin figures.
	Project(ctx context.Context, orderID string) (*document.Document, error)
}
