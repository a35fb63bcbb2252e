package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/taller/internal/config"
	"github.com/smallbiznis/taller/internal/orgcontext"
	publictokenrepository "github.com/smallbiznis/taller/internal/publictoken/repository"
	publictokenservice "github.com/smallbiznis/taller/internal/publictoken/service"
	serviceorderdomain "github.com/smallbiznis/taller/internal/serviceorder/domain"
	"github.com/smallbiznis/taller/internal/tracking/domain"
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

	tokens := publictokenservice.NewService(publictokenservice.Params{
		Log:  zap.NewNop(),
		Repo: publictokenrepository.NewRepository(publictokenrepository.Params{DB: db}),
	})
	svc := NewService(Params{
		Config: config.Config{PublicBaseURL: "https://taller.example"},
		Log:    zap.NewNop(),
		Tokens: tokens,
	})

	return &fixture{db: db, node: node, svc: svc, orgID: node.Generate()}
}

func (f *fixture) ctx() context.Context {
	return orgcontext.WithOrgID(context.Background(), f.orgID)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (f *fixture) seedOrder(t *testing.T) *serviceorderdomain.ServiceOrder {
	t.Helper()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	order := &serviceorderdomain.ServiceOrder{
		ID:           f.node.Generate(),
		OrgID:        f.orgID,
		FolioNumber:  100,
		Folio:        "ORD-2025-100",
		CustomerName: "Maria Lopez",
		DeviceType:   serviceorderdomain.DevicePC,
		DeviceBrand:  "Dell",
		DeviceModel:  "Latitude 5420",
		Status:       serviceorderdomain.OrderStatusInRepair,
		LaborAmount:  dec("500"),
		TaxEnabled:   true,
		AdvancePaid:  dec("200"),
		Currency:     "MXN",
		ReceivedAt:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
		Parts: []serviceorderdomain.ServiceOrderPart{{
			ID:          f.node.Generate(),
			OrgID:       f.orgID,
			Description: "Fuente 65W",
			Quantity:    1,
			UnitPrice:   dec("750"),
			UnitCost:    dec("480"),
			CreatedAt:   now,
		}},
	}
	order.Parts[0].OrderID = order.ID
	require.NoError(t, f.db.Create(order).Error)
	return order
}

func TestShare_BuildsLinkAndQR(t *testing.T) {
	f := setup(t)
	order := f.seedOrder(t)

	share, err := f.svc.Share(f.ctx(), order.ID.String())
	require.NoError(t, err)

	assert.NotEmpty(t, share.Token)
	assert.Equal(t, "https://taller.example/public/track/"+share.Token, share.URL)

	qr, err := base64.StdEncoding.DecodeString(share.QRBase64)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), qr[:4], "QR payload must be a PNG")

	again, err := f.svc.Share(f.ctx(), order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, share.Token, again.Token, "sharing is idempotent")
}

func TestTrack_PublicView(t *testing.T) {
	f := setup(t)
	order := f.seedOrder(t)

	share, err := f.svc.Share(f.ctx(), order.ID.String())
	require.NoError(t, err)

	// Tracking is anonymous: no org in context.
	view, err := f.svc.Track(context.Background(), share.Token)
	require.NoError(t, err)

	assert.Equal(t, "ORD-2025-100", view.Folio)
	assert.Equal(t, "In repair", view.StatusLabel)
	assert.Equal(t, "pc Dell Latitude 5420", view.DeviceLabel)
	assert.True(t, view.Subtotal.Equal(dec("1250")), "subtotal = %s", view.Subtotal)
	assert.True(t, view.TotalTax.Equal(dec("200")))
	assert.True(t, view.GrandTotal.Equal(dec("1450")))
	assert.True(t, view.BalanceDue.Equal(dec("1250")))
}

func TestTrack_ViewNeverLeaksInternals(t *testing.T) {
	f := setup(t)
	order := f.seedOrder(t)

	share, err := f.svc.Share(f.ctx(), order.ID.String())
	require.NoError(t, err)
	view, err := f.svc.Track(context.Background(), share.Token)
	require.NoError(t, err)

	raw, err := json.Marshal(view)
	require.NoError(t, err)

	payload := string(raw)
	assert.NotContains(t, payload, "unit_cost")
	assert.NotContains(t, payload, "profit")
	assert.NotContains(t, payload, "margin")
	assert.NotContains(t, payload, "480", "the part's cost must not appear anywhere")
}

func TestTrack_UnknownToken(t *testing.T) {
	f := setup(t)
	f.seedOrder(t)

	for _, token := range []string{"", "nope", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"} {
		_, err := f.svc.Track(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrNotFound, "token %q", token)
	}
}
