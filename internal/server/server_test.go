package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/taller/internal/clock"
	"github.com/smallbiznis/taller/internal/config"
	customerdomain "github.com/smallbiznis/taller/internal/customer/domain"
	customerservice "github.com/smallbiznis/taller/internal/customer/service"
	"github.com/smallbiznis/taller/internal/observability"
	"github.com/smallbiznis/taller/internal/providers/pdf"
	publictokenrepository "github.com/smallbiznis/taller/internal/publictoken/repository"
	publictokenservice "github.com/smallbiznis/taller/internal/publictoken/service"
	quotedomain "github.com/smallbiznis/taller/internal/quote/domain"
	quoterepository "github.com/smallbiznis/taller/internal/quote/repository"
	quoteservice "github.com/smallbiznis/taller/internal/quote/service"
	sequencedomain "github.com/smallbiznis/taller/internal/sequence/domain"
	sequenceservice "github.com/smallbiznis/taller/internal/sequence/service"
	serviceorderdomain "github.com/smallbiznis/taller/internal/serviceorder/domain"
	serviceorderrepository "github.com/smallbiznis/taller/internal/serviceorder/repository"
	serviceorderservice "github.com/smallbiznis/taller/internal/serviceorder/service"
	trackingservice "github.com/smallbiznis/taller/internal/tracking/service"
	"github.com/smallbiznis/taller/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testServer struct {
	srv   *Server
	orgID snowflake.ID
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&customerdomain.Customer{},
		&sequencedomain.Sequence{},
		&quotedomain.Quote{},
		&quotedomain.QuoteItem{},
		&serviceorderdomain.ServiceOrder{},
		&serviceorderdomain.ServiceOrderPart{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	cfg := config.Config{
		AppName:        "taller",
		PublicBaseURL:  "https://taller.example",
		TaxRatePercent: 16,
	}

	allocator := sequenceservice.NewAllocator(sequenceservice.Params{DB: db, Log: log})
	customerSvc := customerservice.NewService(customerservice.Params{
		Log: log, Clock: fake, Node: node,
		Repo: repository.ProvideStore[customerdomain.Customer](db),
	})
	quoteSvc := quoteservice.NewService(quoteservice.Params{
		DB: db, Cfg: cfg, Log: log, Clock: fake, Node: node, Sequences: allocator,
		Repo: quoterepository.NewRepository(quoterepository.Params{DB: db}),
	})
	orderSvc := serviceorderservice.NewService(serviceorderservice.Params{
		DB: db, Cfg: cfg, Log: log, Clock: fake, Node: node, Sequences: allocator,
		Repo: serviceorderrepository.NewRepository(serviceorderrepository.Params{DB: db}),
	})
	tokenSvc := publictokenservice.NewService(publictokenservice.Params{
		Log:  log,
		Repo: publictokenrepository.NewRepository(publictokenrepository.Params{DB: db}),
	})
	trackingSvc := trackingservice.NewService(trackingservice.Params{
		Config: cfg, Log: log, Tokens: tokenSvc,
	})

	engine := NewEngine(cfg, observability.Config{})
	srv := NewServer(ServerParams{
		Gin:             engine,
		Cfg:             cfg,
		CustomerSvc:     customerSvc,
		QuoteSvc:        quoteSvc,
		ServiceOrderSvc: orderSvc,
		TrackingSvc:     trackingSvc,
		PDFProvider:     pdf.New(),
	})

	return &testServer{srv: srv, orgID: node.Generate()}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, org bool) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if org {
		req.Header.Set(HeaderOrg, ts.orgID.String())
	}

	rec := httptest.NewRecorder()
	ts.srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	ts := setupServer(t)

	rec := ts.do(t, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdmin_RequiresOrgHeader(t *testing.T) {
	ts := setupServer(t)

	rec := ts.do(t, http.MethodGet, "/admin/quotes", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuoteFlow(t *testing.T) {
	ts := setupServer(t)

	body := map[string]any{
		"customer_name": "Ferreteria El Clavo",
		"tax_enabled":   true,
		"items": []map[string]any{
			{"description": "NVR 8ch", "quantity": 2, "unit_price": "5000", "unit_cost": "3800"},
			{"description": "Dome camera", "quantity": 3, "unit_price": "2750", "unit_cost": "1900"},
		},
	}

	rec := ts.do(t, http.MethodPost, "/admin/quotes", body, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		Data struct {
			ID          snowflake.ID `json:"ID"`
			Folio       string       `json:"Folio"`
			TotalAmount string       `json:"TotalAmount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "COT-2025-100", created.Data.Folio)

	rec = ts.do(t, http.MethodGet, "/admin/quotes/"+created.Data.ID.String()+"/document", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "margin_percent", "staff document carries margin")
}

func TestServiceOrder_ShareAndTrack(t *testing.T) {
	ts := setupServer(t)

	body := map[string]any{
		"customer_name": "Maria Lopez",
		"device_type":   "pc",
		"labor_amount":  "500",
		"tax_enabled":   true,
		"parts": []map[string]any{
			{"description": "Fuente 65W", "quantity": 1, "unit_price": "750", "unit_cost": "480"},
		},
	}

	rec := ts.do(t, http.MethodPost, "/admin/service-orders", body, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		Data struct {
			ID snowflake.ID `json:"ID"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = ts.do(t, http.MethodPost, "/admin/service-orders/"+created.Data.ID.String()+"/share", nil, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var shared struct {
		Data struct {
			Token string `json:"token"`
			URL   string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shared))
	require.NotEmpty(t, shared.Data.Token)

	rec = ts.do(t, http.MethodGet, "/public/track/"+shared.Data.Token, nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ORD-2025-100")
	assert.NotContains(t, rec.Body.String(), "unit_cost")
	assert.NotContains(t, rec.Body.String(), "profit")
}

// Unknown and malformed tokens must be indistinguishable: the same
// generic 404 body, nothing else.
func TestPublicTrack_Generic404(t *testing.T) {
	ts := setupServer(t)

	want := `{"error":{"type":"not_found","message":"not found"}}`
	for _, token := range []string{"unknown", "x", "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"} {
		rec := ts.do(t, http.MethodGet, "/public/track/"+token, nil, false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, want, rec.Body.String())
	}
}
