package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	auditdomain "github.com/std-1224/payper-tenant/internal/audit/domain"
	authdomain "github.com/std-1224/payper-tenant/internal/auth/domain"
	"github.com/std-1224/payper-tenant/internal/auth/session"
	"github.com/std-1224/payper-tenant/internal/authorization"
	"github.com/std-1224/payper-tenant/internal/config"
	globaladmindomain "github.com/std-1224/payper-tenant/internal/globaladmin/domain"
	registrydomain "github.com/std-1224/payper-tenant/internal/moduleregistry/domain"
	obsmiddleware "github.com/std-1224/payper-tenant/internal/observability/logger"
	obsmetrics "github.com/std-1224/payper-tenant/internal/observability/metrics"
	obstracing "github.com/std-1224/payper-tenant/internal/observability/tracing"
	"github.com/std-1224/payper-tenant/internal/onboarding"
	tenantdomain "github.com/std-1224/payper-tenant/internal/tenant/domain"
	venuedomain "github.com/std-1224/payper-tenant/internal/venue/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
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
	engine        *gin.Engine
	cfg           config.Config
	authsvc       authdomain.Service
	sessions      *session.Manager
	genID         *snowflake.Node
	adminSvc      globaladmindomain.Service
	authzSvc      authorization.Service
	auditSvc      auditdomain.Service
	tenantSvc     tenantdomain.Service
	onboardingSvc *onboarding.Service
	registryRepo  registrydomain.Repository
	venueSvc      venuedomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Authsvc       authdomain.Service
	Sessions      *session.Manager
	GenID         *snowflake.Node
	AdminSvc      globaladmindomain.Service
	AuthzSvc      authorization.Service
	AuditSvc      auditdomain.Service
	TenantSvc     tenantdomain.Service
	OnboardingSvc *onboarding.Service
	RegistryRepo  registrydomain.Repository
	VenueSvc      venuedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		authsvc:       p.Authsvc,
		sessions:      p.Sessions,
		genID:         p.GenID,
		adminSvc:      p.AdminSvc,
		authzSvc:      p.AuthzSvc,
		auditSvc:      p.AuditSvc,
		tenantSvc:     p.TenantSvc,
		onboardingSvc: p.OnboardingSvc,
		registryRepo:  p.RegistryRepo,
		venueSvc:      p.VenueSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/signup", s.Signup)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.Me)
	auth.POST("/change-password", s.WebAuthRequired(), s.ChangePassword)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	admin.Use(s.WebAuthRequired())
	admin.Use(s.OperatorContext())

	// -------- Onboarding Wizard --------
	drafts := admin.Group("/onboarding/drafts", s.authorize(authorization.ObjectTenant, authorization.ActionTenantCreate))
	{
		drafts.POST("", s.StartDraft)
		drafts.GET("/:id", s.GetDraft)
		drafts.DELETE("/:id", s.DiscardDraft)
		drafts.PATCH("/:id/basic", s.UpdateDraftBasic)
		drafts.POST("/:id/advance", s.AdvanceDraft)
		drafts.POST("/:id/back", s.BackDraft)
		drafts.POST("/:id/contacts", s.AddDraftContact)
		drafts.DELETE("/:id/contacts/:token", s.RemoveDraftContact)
		drafts.POST("/:id/contacts/:token/primary", s.SetDraftPrimaryContact)
		drafts.POST("/:id/modules/:moduleId/toggle", s.ToggleDraftModule)
		drafts.PUT("/:id/invite", s.SetDraftInvite)
		drafts.PATCH("/:id/invite", s.UpdateDraftInvite)
		drafts.POST("/:id/submit", s.SubmitDraft)
	}

	// -------- Tenants --------
	admin.GET("/tenants", s.authorize(authorization.ObjectTenant, authorization.ActionTenantView), s.ListTenants)
	admin.GET("/tenants/:id", s.authorize(authorization.ObjectTenant, authorization.ActionTenantView), s.GetTenant)
	admin.PATCH("/tenants/:id", s.authorize(authorization.ObjectTenant, authorization.ActionTenantUpdate), s.UpdateTenant)
	admin.POST("/tenants/:id/status", s.authorize(authorization.ObjectTenant, authorization.ActionTenantStatus), s.SetTenantStatus)
	admin.DELETE("/tenants/:id", s.authorize(authorization.ObjectTenant, authorization.ActionTenantDelete), s.DeleteTenant)

	// -------- Tenant Contacts --------
	admin.POST("/tenants/:id/contacts", s.authorize(authorization.ObjectTenant, authorization.ActionTenantUpdate), s.AddTenantContact)
	admin.DELETE("/tenants/:id/contacts/:contactId", s.authorize(authorization.ObjectTenant, authorization.ActionTenantUpdate), s.RemoveTenantContact)

	// -------- Tenant Modules --------
	admin.PUT("/tenants/:id/modules/:moduleId", s.authorize(authorization.ObjectTenant, authorization.ActionTenantUpdate), s.SetTenantModule)

	// -------- Tenant Users --------
	admin.POST("/tenants/:id/users", s.authorize(authorization.ObjectTenantUser, authorization.ActionTenantUserManage), s.AddTenantUser)
	admin.PATCH("/tenants/:id/users/:userId", s.authorize(authorization.ObjectTenantUser, authorization.ActionTenantUserManage), s.UpdateTenantUser)
	admin.DELETE("/tenants/:id/users/:userId", s.authorize(authorization.ObjectTenantUser, authorization.ActionTenantUserManage), s.RemoveTenantUser)

	// -------- Tenant Locations --------
	admin.POST("/tenants/:id/locations", s.authorize(authorization.ObjectTenant, authorization.ActionTenantUpdate), s.AddTenantLocation)

	// -------- Module Registry --------
	admin.GET("/modules", s.authorize(authorization.ObjectTenant, authorization.ActionTenantView), s.ListRegistryModules)

	// -------- Audit Trail --------
	admin.GET("/audit-logs", s.authorize(authorization.ObjectAuditLog, authorization.ActionAuditLogView), s.ListAuditLogs)

	// -------- Venue Monitoring --------
	admin.GET("/venues", s.authorize(authorization.ObjectVenue, authorization.ActionVenueView), s.ListVenues)
	admin.GET("/venues/:id", s.authorize(authorization.ObjectVenue, authorization.ActionVenueView), s.GetVenueDetail)
	admin.GET("/venues/:id/orders", s.authorize(authorization.ObjectVenue, authorization.ActionVenueView), s.ListVenueOrders)
	admin.GET("/alerts", s.authorize(authorization.ObjectVenue, authorization.ActionVenueView), s.ListAlerts)
	admin.POST("/alerts/:id/resolve", s.authorize(authorization.ObjectVenue, authorization.ActionVenueAlertResolve), s.ResolveAlert)

	// -------- Operators --------
	admin.GET("/operators", s.authorize(authorization.ObjectAdmin, authorization.ActionAdminView), s.ListOperators)
	admin.POST("/operators", s.authorize(authorization.ObjectAdmin, authorization.ActionAdminManage), s.GrantOperator)
	admin.PATCH("/operators/:id", s.authorize(authorization.ObjectAdmin, authorization.ActionAdminManage), s.SetOperatorActive)
}
