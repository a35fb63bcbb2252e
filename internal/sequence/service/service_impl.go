package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	sequencedomain "github.com/smallbiznis/taller/internal/sequence/domain"
	"github.com/smallbiznis/taller/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxAttempts bounds the optimistic-concurrency retry loop. Losing a
// race a handful of times in a row means something is wrong with the
// store, not with our luck.
const maxAttempts = 5

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAllocator(p Params) sequencedomain.Allocator {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("sequence.allocator"),
	}
}

// Next reads the scope's last-issued number, claims the successor with
// a compare-and-swap write, and returns it. A brand-new scope is
// seeded at 99 so its first issued number is 100.
//
// Serialization per scope relies on the store, not on process-local
// locking: the conditional UPDATE (or the primary-key INSERT) either
// claims the number or affects zero rows, and a loser retries against
// the fresh value. Two processes can therefore never return the same
// number for one scope.
func (s *Service) Next(ctx context.Context, orgID snowflake.ID, kind string, year int) (int64, error) {
	kind = strings.ToUpper(strings.TrimSpace(kind))
	if orgID == 0 || kind == "" || year <= 0 {
		return 0, sequencedomain.ErrInvalidScope
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		next, err := s.claim(ctx, orgID, kind, year)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, errContended) {
			s.log.Error("sequence allocation failed",
				zap.String("org_id", orgID.String()),
				zap.String("kind", kind),
				zap.Int("year", year),
				zap.Error(err),
			)
			return 0, sequencedomain.ErrUnavailable
		}
		s.log.Debug("sequence scope contended, retrying",
			zap.String("kind", kind),
			zap.Int("attempt", attempt),
		)
	}

	return 0, sequencedomain.ErrUnavailable
}

// errContended is internal to the retry loop.
var errContended = errors.New("sequence scope contended")

func (s *Service) claim(ctx context.Context, orgID snowflake.ID, kind string, year int) (int64, error) {
	var current sequencedomain.Sequence
	err := s.db.WithContext(ctx).Raw(
		`SELECT org_id, kind, year, last_value
		 FROM document_sequences
		 WHERE org_id = ? AND kind = ? AND year = ?`,
		orgID, kind, year,
	).Scan(&current).Error
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()

	if current.OrgID == 0 {
		// Lazily create the scope; a concurrent creator wins via the
		// composite primary key and we retry against its row.
		next := int64(sequencedomain.SeedValue + 1)
		insertErr := s.db.WithContext(ctx).Exec(
			`INSERT INTO document_sequences (org_id, kind, year, last_value, updated_at)
			 VALUES (?, ?, ?, ?, ?)`,
			orgID, kind, year, next, now,
		).Error
		if insertErr != nil {
			if db.IsDuplicateKeyErr(insertErr) {
				return 0, errContended
			}
			return 0, insertErr
		}
		return next, nil
	}

	next := current.LastValue + 1
	result := s.db.WithContext(ctx).Exec(
		`UPDATE document_sequences
		 SET last_value = ?, updated_at = ?
		 WHERE org_id = ? AND kind = ? AND year = ? AND last_value = ?`,
		next, now, orgID, kind, year, current.LastValue,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, errContended
	}
	return next, nil
}
