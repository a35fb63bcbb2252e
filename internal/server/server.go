package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/taller/internal/config"
	"github.com/smallbiznis/taller/internal/customer"
	customerdomain "github.com/smallbiznis/taller/internal/customer/domain"
	"github.com/smallbiznis/taller/internal/observability"
	obsmiddleware "github.com/smallbiznis/taller/internal/observability/logger"
	"github.com/smallbiznis/taller/internal/providers"
	"github.com/smallbiznis/taller/internal/providers/pdf"
	"github.com/smallbiznis/taller/internal/publictoken"
	"github.com/smallbiznis/taller/internal/quote"
	quotedomain "github.com/smallbiznis/taller/internal/quote/domain"
	"github.com/smallbiznis/taller/internal/sequence"
	"github.com/smallbiznis/taller/internal/serviceorder"
	serviceorderdomain "github.com/smallbiznis/taller/internal/serviceorder/domain"
	"github.com/smallbiznis/taller/internal/tracking"
	trackingdomain "github.com/smallbiznis/taller/internal/tracking/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	sequence.Module,
	customer.Module,
	quote.Module,
	serviceorder.Module,
	publictoken.Module,
	tracking.Module,
	providers.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, obsCfg observability.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config

	customerSvc     customerdomain.Service
	quoteSvc        quotedomain.Service
	serviceorderSvc serviceorderdomain.Service
	trackingSvc     trackingdomain.Service
	pdfProvider     pdf.Provider

	trackingLimiter *rateLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	CustomerSvc     customerdomain.Service
	QuoteSvc        quotedomain.Service
	ServiceOrderSvc serviceorderdomain.Service
	TrackingSvc     trackingdomain.Service
	PDFProvider     pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		customerSvc:     p.CustomerSvc,
		quoteSvc:        p.QuoteSvc,
		serviceorderSvc: p.ServiceOrderSvc,
		trackingSvc:     p.TrackingSvc,
		pdfProvider:     p.PDFProvider,
		trackingLimiter: newRateLimiter(30, time.Minute),
	}

	svc.registerAdminRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(OrgContext())

	admin.POST("/customers", s.CreateCustomer)
	admin.GET("/customers", s.ListCustomers)
	admin.GET("/customers/:customer_id", s.GetCustomer)
	admin.PATCH("/customers/:customer_id", s.UpdateCustomer)

	admin.POST("/quotes", s.CreateQuote)
	admin.POST("/quotes/preview", s.PreviewQuote)
	admin.GET("/quotes", s.ListQuotes)
	admin.GET("/quotes/:quote_id", s.GetQuote)
	admin.PATCH("/quotes/:quote_id", s.UpdateQuote)
	admin.POST("/quotes/:quote_id/status", s.UpdateQuoteStatus)
	admin.GET("/quotes/:quote_id/document", s.GetQuoteDocument)
	admin.GET("/quotes/:quote_id/pdf", s.GetQuotePDF)

	admin.POST("/service-orders", s.CreateServiceOrder)
	admin.GET("/service-orders", s.ListServiceOrders)
	admin.GET("/service-orders/:order_id", s.GetServiceOrder)
	admin.PATCH("/service-orders/:order_id", s.UpdateServiceOrder)
	admin.POST("/service-orders/:order_id/status", s.UpdateServiceOrderStatus)
	admin.GET("/service-orders/:order_id/document", s.GetServiceOrderDocument)
	admin.POST("/service-orders/:order_id/share", s.ShareServiceOrder)
	admin.GET("/service-orders/:order_id/ticket.pdf", s.GetServiceTicketPDF)
}

func (s *Server) registerPublicRoutes() {
	public := s.engine.Group("/public")

	public.GET("/track/:token", s.TrackRepair)
}
