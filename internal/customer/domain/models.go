// Package domain contains the customer directory models.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Customer is a repair-shop client. Quotes and service orders
// snapshot the name at creation time, so renaming a customer never
// rewrites issued documents.
type Customer struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index"`

	Name  string `gorm:"type:text;not null"`
	Phone string `gorm:"type:text"`
	Email string `gorm:"type:text"`
	Notes string `gorm:"type:text"`

	Metadata datatypes.JSONMap `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

// CreateCustomerRequest captures a new directory entry.
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`

	Metadata map[string]interface{} `json:"metadata"`
}

// UpdateCustomerRequest patches an existing entry.
type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
	Notes *string `json:"notes"`
}

// ListCustomersRequest filters the directory listing.
type ListCustomersRequest struct {
	Search string `form:"search"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// Service manages the customer directory.
type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error)
	Get(ctx context.Context, customerID string) (*Customer, error)
	List(ctx context.Context, req ListCustomersRequest) ([]*Customer, error)
	Update(ctx context.Context, customerID string, req UpdateCustomerRequest) (*Customer, error)
}

var (
	ErrNotFound            = errors.New("customer_not_found")
	ErrInvalidCustomer     = errors.New("invalid_customer")
	ErrInvalidCustomerID   = errors.New("invalid_customer_id")
	ErrInvalidOrganization = errors.New("invalid_organization")
)
