// Package domain contains the organization model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Organization is a tenant of the back office. Single-shop
// deployments run with the seeded default organization; its ID is the
// value staff clients send in the org header.
type Organization struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text;not null"`
	Slug string       `gorm:"type:text;not null;uniqueIndex"`

	IsDefault bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }
