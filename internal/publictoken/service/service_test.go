package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/taller/internal/orgcontext"
	"github.com/smallbiznis/taller/internal/publictoken/domain"
	"github.com/smallbiznis/taller/internal/publictoken/repository"
	serviceorderdomain "github.com/smallbiznis/taller/internal/serviceorder/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	node  *snowflake.Node
	svc   domain.Service
	orgID snowflake.ID
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&serviceorderdomain.ServiceOrder{},
		&serviceorderdomain.ServiceOrderPart{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := repository.NewRepository(repository.Params{DB: db})
	svc := NewService(Params{Log: zap.NewNop(), Repo: repo})

	return &fixture{db: db, node: node, svc: svc, orgID: node.Generate()}
}

func (f *fixture) ctx() context.Context {
	return orgcontext.WithOrgID(context.Background(), f.orgID)
}

func (f *fixture) seedOrder(t *testing.T) *serviceorderdomain.ServiceOrder {
	t.Helper()

	now := time.Now().UTC()
	order := &serviceorderdomain.ServiceOrder{
		ID:           f.node.Generate(),
		OrgID:        f.orgID,
		FolioNumber:  100,
		Folio:        fmt.Sprintf("ORD-2025-%d", f.node.Generate()%100000),
		CustomerName: "Maria Lopez",
		DeviceType:   serviceorderdomain.DevicePC,
		Status:       serviceorderdomain.OrderStatusReceived,
		Currency:     "MXN",
		ReceivedAt:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.db.Create(order).Error)
	return order
}

func TestIssueOrReuse_Idempotent(t *testing.T) {
	f := setup(t)
	order := f.seedOrder(t)

	first, err := f.svc.IssueOrReuse(f.ctx(), order.ID.String())
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	assert.GreaterOrEqual(t, len(first), 32, "token must be high entropy")

	second, err := f.svc.IssueOrReuse(f.ctx(), order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestIssueOrReuse_DistinctOrdersGetDistinctTokens(t *testing.T) {
	f := setup(t)
	a := f.seedOrder(t)
	b := f.seedOrder(t)

	tokenA, err := f.svc.IssueOrReuse(f.ctx(), a.ID.String())
	require.NoError(t, err)
	tokenB, err := f.svc.IssueOrReuse(f.ctx(), b.ID.String())
	require.NoError(t, err)

	assert.NotEqual(t, tokenA, tokenB)
}

func TestIssueOrReuse_ReturnsWinnerAfterLostRace(t *testing.T) {
	f := setup(t)
	order := f.seedOrder(t)

	// Another writer attached a token between our read and write.
	winner := "already-attached-token"
	require.NoError(t, f.db.Exec(
		`UPDATE service_orders SET public_token = ? WHERE id = ?`, winner, order.ID,
	).Error)

	got, err := f.svc.IssueOrReuse(f.ctx(), order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, winner, got)
}

func TestIssueOrReuse_UnknownOrder(t *testing.T) {
	f := setup(t)

	_, err := f.svc.IssueOrReuse(f.ctx(), f.node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrInvalidOrder)
}

func TestIssueOrReuse_WrongOrg(t *testing.T) {
	f := setup(t)
	order := f.seedOrder(t)

	otherOrg := orgcontext.WithOrgID(context.Background(), f.node.Generate())
	_, err := f.svc.IssueOrReuse(otherOrg, order.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidOrder)
}

func TestResolve_Roundtrip(t *testing.T) {
	f := setup(t)
	order := f.seedOrder(t)

	token, err := f.svc.IssueOrReuse(f.ctx(), order.ID.String())
	require.NoError(t, err)

	// Resolution is anonymous: no org in context.
	resolved, err := f.svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, order.ID, resolved.ID)
	assert.Equal(t, order.CustomerName, resolved.CustomerName)
}

func TestResolve_StoreFailureReadsAsNotFound(t *testing.T) {
	f := setup(t)
	order := f.seedOrder(t)

	token, err := f.svc.IssueOrReuse(f.ctx(), order.ID.String())
	require.NoError(t, err)

	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// An anonymous caller must not be able to tell a store outage
	// from an unknown token.
	_, err = f.svc.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolve_NotFound(t *testing.T) {
	f := setup(t)
	f.seedOrder(t)

	for _, token := range []string{"", "   ", "does-not-exist", "' OR 1=1 --"} {
		_, err := f.svc.Resolve(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrNotFound, "token %q", token)
	}
}
