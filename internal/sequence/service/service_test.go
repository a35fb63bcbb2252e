package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	sequencedomain "github.com/smallbiznis/taller/internal/sequence/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupAllocator(t *testing.T) (*gorm.DB, sequencedomain.Allocator, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&sequencedomain.Sequence{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	alloc := NewAllocator(Params{DB: db, Log: zap.NewNop()})
	return db, alloc, node
}

func TestAllocator_FirstNumberIs100(t *testing.T) {
	_, alloc, node := setupAllocator(t)
	orgID := node.Generate()

	n, err := alloc.Next(context.Background(), orgID, "COT", 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)

	n, err = alloc.Next(context.Background(), orgID, "COT", 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(101), n)
}

func TestAllocator_ScopesAreIndependent(t *testing.T) {
	_, alloc, node := setupAllocator(t)
	orgA := node.Generate()
	orgB := node.Generate()

	ctx := context.Background()

	a1, err := alloc.Next(ctx, orgA, "COT", 2025)
	require.NoError(t, err)
	b1, err := alloc.Next(ctx, orgB, "COT", 2025)
	require.NoError(t, err)
	aOrd, err := alloc.Next(ctx, orgA, "ORD", 2025)
	require.NoError(t, err)
	aNextYear, err := alloc.Next(ctx, orgA, "COT", 2026)
	require.NoError(t, err)

	// Each (org, kind, year) scope starts fresh at 100.
	assert.Equal(t, int64(100), a1)
	assert.Equal(t, int64(100), b1)
	assert.Equal(t, int64(100), aOrd)
	assert.Equal(t, int64(100), aNextYear)

	a2, err := alloc.Next(ctx, orgA, "COT", 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(101), a2)
}

func TestAllocator_TwoInstancesNeverDuplicate(t *testing.T) {
	db, alloc, node := setupAllocator(t)
	orgID := node.Generate()
	ctx := context.Background()

	// A second allocator over the same store simulates a second
	// process. Serialization lives in the store, not in memory.
	other := NewAllocator(Params{DB: db, Log: zap.NewNop()})

	seen := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		a := alloc
		if i%2 == 1 {
			a = other
		}
		n, err := a.Next(ctx, orgID, "ORD", 2025)
		require.NoError(t, err)
		assert.False(t, seen[n], "number %d issued twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, 10)
}

func TestAllocator_KindIsNormalized(t *testing.T) {
	_, alloc, node := setupAllocator(t)
	orgID := node.Generate()
	ctx := context.Background()

	n1, err := alloc.Next(ctx, orgID, "cot", 2025)
	require.NoError(t, err)
	n2, err := alloc.Next(ctx, orgID, " COT ", 2025)
	require.NoError(t, err)

	assert.Equal(t, int64(100), n1)
	assert.Equal(t, int64(101), n2)
}

func TestAllocator_InvalidScope(t *testing.T) {
	_, alloc, node := setupAllocator(t)
	ctx := context.Background()

	_, err := alloc.Next(ctx, 0, "COT", 2025)
	assert.ErrorIs(t, err, sequencedomain.ErrInvalidScope)

	_, err = alloc.Next(ctx, node.Generate(), "", 2025)
	assert.ErrorIs(t, err, sequencedomain.ErrInvalidScope)

	_, err = alloc.Next(ctx, node.Generate(), "COT", 0)
	assert.ErrorIs(t, err, sequencedomain.ErrInvalidScope)
}
