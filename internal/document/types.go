// Package document contains the pure calculation and projection core
// for quotations and service orders: line-item totals, folio
// formatting, and the internal/public document projections.
//
// Everything in this package is deterministic and free of I/O.
package document

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Kind identifies the document family a folio belongs to.
type Kind string

const (
	KindQuote        Kind = "COT"
	KindServiceOrder Kind = "ORD"
)

// DefaultTaxPercent is the document-level tax rate applied when a
// document enables tax without an explicit rate (16% IVA).
var DefaultTaxPercent = decimal.NewFromInt(16)

// LineItem is one row of a quotation or service order.
//
// Quantity accepts non-integer form input and is truncated to a whole
// number before any arithmetic. UnitCost is the internal cost basis
// and never reaches customer-facing output.
type LineItem struct {
	Description     string
	Quantity        float64
	UnitPrice       decimal.Decimal
	UnitCost        decimal.Decimal
	DiscountPercent decimal.Decimal

	// TaxPercent applies per item in service-order contexts only.
	// Quotations use the document-level flag instead.
	TaxPercent decimal.Decimal
}

// CalcFlags selects how tax is applied across a document.
type CalcFlags struct {
	// DocumentTax applies a single document-level rate to the
	// subtotal, ignoring any per-item tax percentages.
	DocumentTax bool

	// DocumentTaxPercent overrides DefaultTaxPercent when positive.
	DocumentTaxPercent decimal.Decimal
}

// DocumentTotals is derived from line items and flags, never stored
// independently of them. All amounts are rounded to 2 decimals.
type DocumentTotals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	GrandTotal    decimal.Decimal `json:"grand_total"`

	// Profit and MarginPercent are internal-only and must never be
	// projected into customer-facing documents.
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
}

// ErrInvalidLineItem reports a line item violating its non-negativity
// or percent-range invariants. Capturing forms clamp input before it
// reaches the calculator; this error firing means a caller bug.
var ErrInvalidLineItem = errors.New("invalid_line_item")
