// Package domain contains persistence models for quotations.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// QuoteStatus represents the quotation lifecycle states.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
	QuoteStatusExpired  QuoteStatus = "EXPIRED"
)

// Label returns the display wording for the status.
func (s QuoteStatus) Label() string {
	switch s {
	case QuoteStatusDraft:
		return "Draft"
	case QuoteStatusSent:
		return "Sent"
	case QuoteStatusAccepted:
		return "Accepted"
	case QuoteStatusRejected:
		return "Rejected"
	case QuoteStatusExpired:
		return "Expired"
	default:
		return string(s)
	}
}

// Quote is a priced proposal for work or equipment. Tax is controlled
// by a single document-level flag; when enabled, the standard rate
// applies to the whole subtotal.
type Quote struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	OrgID       snowflake.ID `gorm:"column:org_id;not null;index;uniqueIndex:ux_quote_folio"`
	FolioNumber int64        `gorm:"column:folio_number;not null"`
	Folio       string       `gorm:"type:text;not null;uniqueIndex:ux_quote_folio"`

	CustomerID   *snowflake.ID `gorm:"index"`
	CustomerName string        `gorm:"type:text;not null"`
	Reference    string        `gorm:"type:text"`

	Status QuoteStatus `gorm:"type:text;not null;default:'DRAFT'"`

	TaxEnabled bool            `gorm:"column:tax_enabled;not null;default:false"`
	TaxPercent decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	Subtotal      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TotalDiscount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TaxAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	Currency string            `gorm:"type:text;not null;default:'MXN'"`
	Notes    string            `gorm:"type:text"`
	Metadata datatypes.JSONMap `gorm:"type:jsonb"`

	IssuedAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Items []QuoteItem `gorm:"foreignKey:QuoteID"`
}

// TableName sets the database table name.
func (Quote) TableName() string { return "quotes" }

// QuoteItem is one priced row of a quotation.
type QuoteItem struct {
	ID      snowflake.ID `gorm:"primaryKey"`
	OrgID   snowflake.ID `gorm:"column:org_id;not null;index"`
	QuoteID snowflake.ID `gorm:"column:quote_id;not null;index"`

	Description     string          `gorm:"type:text;not null"`
	Quantity        int64           `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	UnitCost        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (QuoteItem) TableName() string { return "quote_items" }
