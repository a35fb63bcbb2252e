// Package migration applies the schema on startup.
package migration

import (
	customerdomain "github.com/smallbiznis/taller/internal/customer/domain"
	organizationdomain "github.com/smallbiznis/taller/internal/organization/domain"
	quotedomain "github.com/smallbiznis/taller/internal/quote/domain"
	sequencedomain "github.com/smallbiznis/taller/internal/sequence/domain"
	serviceorderdomain "github.com/smallbiznis/taller/internal/serviceorder/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(AutoMigrate),
)

// AutoMigrate creates or updates the tables for every persisted
// model. Destructive changes (drops, type narrowing) are never
// applied automatically.
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	models := []interface{}{
		&organizationdomain.Organization{},
		&customerdomain.Customer{},
		&sequencedomain.Sequence{},
		&quotedomain.Quote{},
		&quotedomain.QuoteItem{},
		&serviceorderdomain.ServiceOrder{},
		&serviceorderdomain.ServiceOrderPart{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Error("schema migration failed", zap.Error(err))
		return err
	}

	log.Info("schema migration complete", zap.Int("models", len(models)))
	return nil
}
