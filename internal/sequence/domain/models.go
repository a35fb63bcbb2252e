// Package domain contains the folio sequence scope model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SeedValue is the logical "last issued" value for a brand-new scope,
// so the first allocated number is 100.
const SeedValue = 99

// Sequence is the last-issued folio number for one
// (owner, document kind, year) scope. Scopes are created lazily on
// first allocation and never deleted; LastValue only moves forward.
type Sequence struct {
	OrgID     snowflake.ID `gorm:"column:org_id;primaryKey;autoIncrement:false"`
	Kind      string       `gorm:"type:text;primaryKey"`
	Year      int          `gorm:"primaryKey;autoIncrement:false"`
	LastValue int64        `gorm:"column:last_value;not null"`
	UpdatedAt time.Time    `gorm:"not null"`
}

// TableName sets the database table name.
func (Sequence) TableName() string { return "document_sequences" }
