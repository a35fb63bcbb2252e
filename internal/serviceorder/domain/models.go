// Package domain contains persistence models for repair service orders.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatus represents the repair lifecycle states.
type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "RECEIVED"
	OrderStatusDiagnosed OrderStatus = "DIAGNOSED"
	OrderStatusInRepair  OrderStatus = "IN_REPAIR"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Label returns the customer-facing status wording used on the public
// tracking surface.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusReceived:
		return "Received"
	case OrderStatusDiagnosed:
		return "Diagnosed"
	case OrderStatusInRepair:
		return "In repair"
	case OrderStatusReady:
		return "Ready for pickup"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// DeviceType classifies the serviced equipment.
type DeviceType string

const (
	DeviceCCTV    DeviceType = "cctv"
	DevicePC      DeviceType = "pc"
	DevicePhone   DeviceType = "phone"
	DeviceNetwork DeviceType = "network"
	DeviceOther   DeviceType = "other"
)

// ServiceOrder represents one repair job.
//
// PublicToken is the opaque capability granting anonymous read-only
// tracking access. The order exclusively owns its token: it is created
// lazily on first share, reused afterwards, and destroyed only with
// the row.
type ServiceOrder struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	OrgID       snowflake.ID `gorm:"column:org_id;not null;index;uniqueIndex:ux_service_order_folio"`
	FolioNumber int64        `gorm:"column:folio_number;not null"`
	Folio       string       `gorm:"type:text;not null;uniqueIndex:ux_service_order_folio"`

	CustomerID    *snowflake.ID `gorm:"index"`
	CustomerName  string        `gorm:"type:text;not null"`
	CustomerPhone string        `gorm:"type:text"`

	DeviceType   DeviceType `gorm:"column:device_type;type:text;not null"`
	DeviceBrand  string     `gorm:"type:text"`
	DeviceModel  string     `gorm:"type:text"`
	DeviceSerial string     `gorm:"type:text"`
	Problem      string     `gorm:"type:text"`
	Diagnosis    string     `gorm:"type:text"`

	Status OrderStatus `gorm:"type:text;not null;default:'RECEIVED'"`

	LaborAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TaxEnabled  bool            `gorm:"column:tax_enabled;not null;default:false"`

	// TaxPercent is the document-level rate snapshotted at intake, so a
	// later config change never rewrites an issued order.
	TaxPercent  decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	AdvancePaid decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TaxAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	BalanceDue  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	PublicToken *string `gorm:"column:public_token;type:text;uniqueIndex"`

	Currency string            `gorm:"type:text;not null;default:'MXN'"`
	Metadata datatypes.JSONMap `gorm:"type:jsonb"`

	ReceivedAt  time.Time  `gorm:"not null"`
	DeliveredAt *time.Time `gorm:""`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`

	Parts []ServiceOrderPart `gorm:"foreignKey:OrderID"`
}

// TableName sets the database table name.
func (ServiceOrder) TableName() string { return "service_orders" }

// ServiceOrderPart is one replacement part or material on an order.
type ServiceOrderPart struct {
	ID      snowflake.ID `gorm:"primaryKey"`
	OrgID   snowflake.ID `gorm:"column:org_id;not null;index"`
	OrderID snowflake.ID `gorm:"column:order_id;not null;index"`

	Description string          `gorm:"type:text;not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	UnitCost    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TaxPercent  decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (ServiceOrderPart) TableName() string { return "service_order_parts" }
