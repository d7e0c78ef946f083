package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/civistack/revena/internal/audit/domain"
	authdomain "github.com/civistack/revena/internal/auth/domain"
	"github.com/civistack/revena/internal/config"
	ledgerdomain "github.com/civistack/revena/internal/ledger/domain"
	obslogger "github.com/civistack/revena/internal/observability/logger"
	obsmetrics "github.com/civistack/revena/internal/observability/metrics"
	paymentdomain "github.com/civistack/revena/internal/payment/domain"
	registrationdomain "github.com/civistack/revena/internal/registration/domain"
	reportingdomain "github.com/civistack/revena/internal/reporting/domain"
	taxpayerdomain "github.com/civistack/revena/internal/taxpayer/domain"
	taxtypedomain "github.com/civistack/revena/internal/taxtype/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           !cfg.IsProduction(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				zap.L().Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					zap.L().Fatal("http server failed", zap.Error(err))
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
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	authsvc         authdomain.Service
	registrationSvc registrationdomain.Service
	taxpayerSvc     taxpayerdomain.Service
	taxtypeSvc      taxtypedomain.Service
	ledgerSvc       ledgerdomain.Service
	paymentSvc      paymentdomain.Service
	reportingSvc    reportingdomain.Service
	auditSvc        auditdomain.Service
	loginLimiter    *rateLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	Authsvc         authdomain.Service
	RegistrationSvc registrationdomain.Service
	TaxpayerSvc     taxpayerdomain.Service
	TaxtypeSvc      taxtypedomain.Service
	LedgerSvc       ledgerdomain.Service
	PaymentSvc      paymentdomain.Service
	ReportingSvc    reportingdomain.Service
	AuditSvc        auditdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		authsvc:         p.Authsvc,
		registrationSvc: p.RegistrationSvc,
		taxpayerSvc:     p.TaxpayerSvc,
		taxtypeSvc:      p.TaxtypeSvc,
		ledgerSvc:       p.LedgerSvc,
		paymentSvc:      p.PaymentSvc,
		reportingSvc:    p.ReportingSvc,
		auditSvc:        p.AuditSvc,
		loginLimiter:    newRateLimiter(10, time.Minute),
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/tax-types", s.ListTaxTypes)

	authed := api.Group("", s.AuthRequired())

	authed.GET("/profile", s.GetProfile)
	authed.PATCH("/profile", s.UpdateProfile)
	authed.GET("/dashboard/summary", s.DashboardSummary)

	authed.POST("/payments", s.CreatePayment)
	authed.GET("/payments", s.ListPayments)
	authed.POST("/payments/:id/cancel", s.CancelPayment)

	// Provider callbacks authenticate with the payment reference, not a session.
	api.POST("/payments/webhooks/:provider", s.HandlePaymentWebhook)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.AuthRequired())
	admin.Use(s.RequireRole(authdomain.RoleAdministrator))

	admin.GET("/metrics", s.AdminMetrics)
	admin.GET("/unpaid", s.UnpaidAccounts)

	admin.GET("/users", s.ListUsers)
	admin.GET("/taxpayers", s.ListTaxpayers)

	admin.POST("/tax-types", s.CreateTaxType)

	admin.POST("/payments/:id/settle", s.SettlePayment)
	admin.POST("/payments/:id/fail", s.FailPayment)

	admin.POST("/ledgers/:profile_id/adjust", s.AdjustLedger)

	admin.GET("/audit-logs", s.ListAuditLogs)
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrNotFound
	}
	return id, nil
}
