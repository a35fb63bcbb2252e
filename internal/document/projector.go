package document

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/taller/internal/money"
)

// Default validity windows for quotations, in days. Callers pick the
// one matching their flow: the main creation flow issues 30-day
// quotes; standalone previews use the shorter 15-day window.
const (
	QuoteValidityDays   = 30
	PreviewValidityDays = 15
)

// Identity carries the human-facing identifiers of a document.
type Identity struct {
	Folio     string    `json:"folio"`
	Kind      Kind      `json:"kind"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ResolveDates applies the default-date policy: issue date defaults
// to now, expiration defaults to issue + validityDays.
func ResolveDates(now time.Time, issuedAt, expiresAt *time.Time, validityDays int) (time.Time, time.Time) {
	issue := now
	if issuedAt != nil && !issuedAt.IsZero() {
		issue = *issuedAt
	}
	expire := issue.AddDate(0, 0, validityDays)
	if expiresAt != nil && !expiresAt.IsZero() {
		expire = *expiresAt
	}
	return issue, expire
}

// BuildInput is the single input shared by both projection variants.
type BuildInput struct {
	Identity     Identity
	Status       string
	StatusLabel  string
	CustomerName string
	// Reference describes the subject of the document: the device and
	// service for repair orders, free-form context for quotations.
	Reference   string
	Currency    string
	Items       []LineItem
	Totals      DocumentTotals
	AdvancePaid decimal.Decimal
	Notes       string
}

// DocumentLine is the internal rendering of one line item.
type DocumentLine struct {
	Description     string          `json:"description"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
}

// PublicLine is the customer-facing rendering of one line item.
// It has no cost field at all; the omission is structural, not a
// render-time filter.
type PublicLine struct {
	Description     string          `json:"description"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// Document is the full internal projection, ready for template
// rendering by authenticated staff. It includes cost and margin.
type Document struct {
	Identity     Identity        `json:"identity"`
	Status       string          `json:"status"`
	StatusLabel  string          `json:"status_label"`
	CustomerName string          `json:"customer_name"`
	Reference    string          `json:"reference"`
	Currency     string          `json:"currency"`
	Lines        []DocumentLine  `json:"lines"`
	Totals       DocumentTotals  `json:"totals"`
	AdvancePaid  decimal.Decimal `json:"advance_paid"`
	BalanceDue   decimal.Decimal `json:"balance_due"`
	Notes        string          `json:"notes,omitempty"`
}

// PublicDocument is the anonymous projection exposed through the
// tracking surface. It is a strict subset of Document: cost, profit,
// and margin do not exist on this type.
type PublicDocument struct {
	Folio        string          `json:"folio"`
	Status       string          `json:"status"`
	StatusLabel  string          `json:"status_label"`
	CustomerName string          `json:"customer_name"`
	Reference    string          `json:"reference"`
	Currency     string          `json:"currency"`
	IssuedAt     time.Time       `json:"issued_at"`
	Lines        []PublicLine    `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TotalTax     decimal.Decimal `json:"total_tax"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	AdvancePaid  decimal.Decimal `json:"advance_paid"`
	BalanceDue   decimal.Decimal `json:"balance_due"`
}

// Build assembles the internal document projection.
func Build(in BuildInput) Document {
	lines := make([]DocumentLine, 0, len(in.Items))
	for _, item := range in.Items {
		lines = append(lines, DocumentLine{
			Description:     item.Description,
			Quantity:        in64(item.WholeQuantity()),
			UnitPrice:       money.Round2(item.UnitPrice),
			DiscountPercent: item.DiscountPercent,
			LineTotal:       money.Round2(item.LineTotal()),
			UnitCost:        money.Round2(item.UnitCost),
		})
	}

	return Document{
		Identity:     in.Identity,
		Status:       in.Status,
		StatusLabel:  in.StatusLabel,
		CustomerName: in.CustomerName,
		Reference:    in.Reference,
		Currency:     in.Currency,
		Lines:        lines,
		Totals:       in.Totals,
		AdvancePaid:  money.Round2(in.AdvancePaid),
		BalanceDue:   balanceDue(in),
		Notes:        in.Notes,
	}
}

// BuildPublic assembles the customer-facing projection from the same
// input as Build. Internal-only fields cannot leak by omission here:
// they are mapped away at the type level.
func BuildPublic(in BuildInput) PublicDocument {
	full := Build(in)

	lines := make([]PublicLine, 0, len(full.Lines))
	for _, line := range full.Lines {
		lines = append(lines, PublicLine{
			Description:     line.Description,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			DiscountPercent: line.DiscountPercent,
			LineTotal:       line.LineTotal,
		})
	}

	return PublicDocument{
		Folio:        full.Identity.Folio,
		Status:       full.Status,
		StatusLabel:  full.StatusLabel,
		CustomerName: full.CustomerName,
		Reference:    full.Reference,
		Currency:     full.Currency,
		IssuedAt:     full.Identity.IssuedAt,
		Lines:        lines,
		Subtotal:     full.Totals.Subtotal,
		TotalTax:     full.Totals.TotalTax,
		GrandTotal:   full.Totals.GrandTotal,
		AdvancePaid:  full.AdvancePaid,
		BalanceDue:   full.BalanceDue,
	}
}

func balanceDue(in BuildInput) decimal.Decimal {
	return money.Round2(in.Totals.GrandTotal.Sub(in.AdvancePaid))
}

func in64(d decimal.Decimal) int64 {
	return d.IntPart()
}
