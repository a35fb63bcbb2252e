package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Allocator issues the next folio number for a scope.
//
// Allocation is serialized per scope: no two calls may observe the
// same returned number, even under concurrent requests. Distinct
// scopes never contend. Callers must not fabricate a number when
// allocation fails; a skipped number (a gap) is acceptable, a
// duplicate is not.
type Allocator interface {
	Next(ctx context.Context, orgID snowflake.ID, kind string, year int) (int64, error)
}

var (
	// ErrUnavailable indicates the backing store could not be read or
	// written. The operation is safely retryable: the scope's counter
	// only advances on a successful write.
	ErrUnavailable = errors.New("sequence_unavailable")

	// ErrInvalidScope indicates a malformed scope key.
	ErrInvalidScope = errors.New("invalid_sequence_scope")
)
