// Package seed bootstraps the default organization on startup.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taller/internal/clock"
	"github.com/smallbiznis/taller/internal/document"
	organizationdomain "github.com/smallbiznis/taller/internal/organization/domain"
	sequencedomain "github.com/smallbiznis/taller/internal/sequence/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultOrgName = "Main"
	defaultOrgSlug = "main"
)

var Module = fx.Module("seed",
	fx.Invoke(Run),
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Node  *snowflake.Node
}

// Run ensures the default organization and its folio scopes exist.
// Safe to call on every startup: existing rows are left untouched.
func Run(p Params) error {
	org, err := EnsureDefaultOrg(p.DB, p.Node, p.Clock)
	if err != nil {
		p.Log.Error("seed failed", zap.Error(err))
		return err
	}

	p.Log.Info("default organization ready",
		zap.String("org_id", org.ID.String()),
		zap.String("slug", org.Slug),
	)
	return nil
}

// EnsureDefaultOrg creates the default organization if it is missing,
// along with the current year's folio sequence scopes so the first
// issued quote and order both start at the first number.
func EnsureDefaultOrg(db *gorm.DB, node *snowflake.Node, clk clock.Clock) (organizationdomain.Organization, error) {
	var org organizationdomain.Organization
	if db == nil {
		return org, errors.New("seed database handle is required")
	}

	ctx := context.Background()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		org, err = ensureDefaultOrgTx(ctx, tx, node, clk)
		if err != nil {
			return err
		}

		year := clk.Now().UTC().Year()
		for _, kind := range []document.Kind{document.KindQuote, document.KindServiceOrder} {
			if err := ensureSequenceScopeTx(ctx, tx, clk, org.ID, string(kind), year); err != nil {
				return err
			}
		}
		return nil
	})
	return org, err
}

func ensureDefaultOrgTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, clk clock.Clock) (organizationdomain.Organization, error) {
	var org organizationdomain.Organization
	err := tx.WithContext(ctx).Where("slug = ?", defaultOrgSlug).First(&org).Error
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return org, err
	}

	now := clk.Now().UTC()
	org = organizationdomain.Organization{
		ID:        node.Generate(),
		Name:      defaultOrgName,
		Slug:      defaultOrgSlug,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
		return org, err
	}
	return org, nil
}

func ensureSequenceScopeTx(ctx context.Context, tx *gorm.DB, clk clock.Clock, orgID snowflake.ID, kind string, year int) error {
	var seq sequencedomain.Sequence
	err := tx.WithContext(ctx).
		Where("org_id = ? AND kind = ? AND year = ?", orgID, kind, year).
		First(&seq).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	seq = sequencedomain.Sequence{
		OrgID:     orgID,
		Kind:      kind,
		Year:      year,
		LastValue: sequencedomain.SeedValue,
		UpdatedAt: clk.Now().UTC(),
	}
	return tx.WithContext(ctx).Create(&seq).Error
}
