package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/holaplex/hub-orgs/internal/affiliation"
	affiliationdomain "github.com/holaplex/hub-orgs/internal/affiliation/domain"
	"github.com/holaplex/hub-orgs/internal/authorization"
	"github.com/holaplex/hub-orgs/internal/config"
	"github.com/holaplex/hub-orgs/internal/credential"
	credentialdomain "github.com/holaplex/hub-orgs/internal/credential/domain"
	"github.com/holaplex/hub-orgs/internal/membership"
	memberdomain "github.com/holaplex/hub-orgs/internal/membership/domain"
	"github.com/holaplex/hub-orgs/internal/observability"
	obsmiddleware "github.com/holaplex/hub-orgs/internal/observability/logger"
	obsmetrics "github.com/holaplex/hub-orgs/internal/observability/metrics"
	obstracing "github.com/holaplex/hub-orgs/internal/observability/tracing"
	"github.com/holaplex/hub-orgs/internal/organization"
	orgdomain "github.com/holaplex/hub-orgs/internal/organization/domain"
	"github.com/holaplex/hub-orgs/internal/project"
	projectdomain "github.com/holaplex/hub-orgs/internal/project/domain"
	"github.com/holaplex/hub-orgs/internal/ratelimit"
	"github.com/holaplex/hub-orgs/internal/webhook"
	webhookdomain "github.com/holaplex/hub-orgs/internal/webhook/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	authorization.Module,
	organization.Module,
	project.Module,
	membership.Module,
	affiliation.Module,
	credential.Module,
	webhook.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

type EngineParams struct {
	fx.In

	ObsCfg      observability.Config
	HTTPMetrics *obsmetrics.HTTPMetrics `optional:"true"`
}

func NewEngine(p EngineParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           p.ObsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(p.HTTPMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
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
	engine   *gin.Engine
	cfg      config.Config
	sessions *config.SessionConfigHolder
	log      *zap.Logger

	authzSvc        authorization.Service
	organizationSvc orgdomain.Service
	projectSvc      projectdomain.Service
	membershipSvc   memberdomain.Service
	affiliationSvc  affiliationdomain.Service
	credentialSvc   credentialdomain.Service
	webhookSvc      webhookdomain.Service

	obsMetrics    *obsmetrics.Metrics
	inviteLimiter *ratelimit.InviteLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Sessions        *config.SessionConfigHolder
	Log             *zap.Logger
	AuthzSvc        authorization.Service
	OrganizationSvc orgdomain.Service
	ProjectSvc      projectdomain.Service
	MembershipSvc   memberdomain.Service
	AffiliationSvc  affiliationdomain.Service
	CredentialSvc   credentialdomain.Service
	WebhookSvc      webhookdomain.Service
	ObsMetrics      *obsmetrics.Metrics      `optional:"true"`
	InviteLimiter   *ratelimit.InviteLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		sessions:        p.Sessions,
		log:             p.Log.Named("http.server"),
		authzSvc:        p.AuthzSvc,
		organizationSvc: p.OrganizationSvc,
		projectSvc:      p.ProjectSvc,
		membershipSvc:   p.MembershipSvc,
		affiliationSvc:  p.AffiliationSvc,
		credentialSvc:   p.CredentialSvc,
		webhookSvc:      p.WebhookSvc,
		obsMetrics:      p.ObsMetrics,
		inviteLimiter:   p.InviteLimiter,
	}

	svc.registerUserRoutes()
	svc.registerOrganizationRoutes()
	svc.registerBrowserRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerUserRoutes serves endpoints that act on the caller rather than on an
// organization given by header.
func (s *Server) registerUserRoutes() {
	api := s.engine.Group("", s.Identity())

	api.POST("/organizations", s.CreateOrganization)
	api.GET("/organizations/:slug", s.GetOrganizationBySlug)
	api.GET("/affiliations", s.ListAffiliations)

	api.GET("/invites/:invite", s.GetInvite)
	api.PUT("/invites/:invite/accept", s.AcceptInvite)

	api.GET("/webhook/types", s.ListEventTypes)
}

func (s *Server) registerOrganizationRoutes() {
	org := s.engine.Group("", s.Identity(), s.OrganizationScope())

	// -------- Organization --------
	org.GET("/organization", s.authorizeOrgAction(authorization.ObjectOrganization, authorization.ActionOrganizationView), s.GetOrganization)
	org.PATCH("/organization", s.authorizeOrgAction(authorization.ObjectOrganization, authorization.ActionOrganizationEdit), s.EditOrganization)

	// -------- Projects --------
	org.GET("/projects", s.authorizeOrgAction(authorization.ObjectProject, authorization.ActionProjectView), s.ListProjects)
	org.POST("/projects", s.authorizeOrgAction(authorization.ObjectProject, authorization.ActionProjectCreate), s.CreateProject)
	org.GET("/projects/:project", s.authorizeOrgAction(authorization.ObjectProject, authorization.ActionProjectView), s.GetProject)
	org.PATCH("/projects/:project", s.authorizeOrgAction(authorization.ObjectProject, authorization.ActionProjectEdit), s.EditProject)
	org.POST("/projects/:project/deactivate", s.authorizeOrgAction(authorization.ObjectProject, authorization.ActionProjectDeactivate), s.DeactivateProject)

	// -------- Invites --------
	org.GET("/invites", s.authorizeOrgAction(authorization.ObjectInvite, authorization.ActionInviteView), s.ListInvites)
	org.POST("/invites", s.authorizeOrgAction(authorization.ObjectInvite, authorization.ActionInviteCreate), s.inviteRateLimit(), s.InviteMember)
	org.POST("/invites/:invite/revoke", s.authorizeOrgAction(authorization.ObjectInvite, authorization.ActionInviteRevoke), s.RevokeInvite)

	// -------- Members --------
	org.GET("/members", s.authorizeOrgAction(authorization.ObjectMember, authorization.ActionMemberView), s.ListMembers)
	org.GET("/members/:member", s.authorizeOrgAction(authorization.ObjectMember, authorization.ActionMemberView), s.GetMember)
	org.POST("/members/:member/deactivate", s.authorizeOrgAction(authorization.ObjectMember, authorization.ActionMemberDeactivate), s.DeactivateMember)
	org.POST("/members/:member/reactivate", s.authorizeOrgAction(authorization.ObjectMember, authorization.ActionMemberReactivate), s.ReactivateMember)

	// -------- Credentials --------
	org.GET("/credentials", s.authorizeOrgAction(authorization.ObjectCredential, authorization.ActionCredentialView), s.ListCredentials)
	org.POST("/credentials", s.authorizeOrgAction(authorization.ObjectCredential, authorization.ActionCredentialCreate), s.CreateCredential)
	org.GET("/credentials/:credential", s.authorizeOrgAction(authorization.ObjectCredential, authorization.ActionCredentialView), s.GetCredential)
	org.DELETE("/credentials/:credential", s.authorizeOrgAction(authorization.ObjectCredential, authorization.ActionCredentialDelete), s.DeleteCredential)

	// -------- Webhooks --------
	org.GET("/webhooks", s.authorizeOrgAction(authorization.ObjectWebhook, authorization.ActionWebhookView), s.ListWebhooks)
	org.POST("/webhooks", s.authorizeOrgAction(authorization.ObjectWebhook, authorization.ActionWebhookCreate), s.CreateWebhook)
	org.GET("/webhooks/:webhook", s.authorizeOrgAction(authorization.ObjectWebhook, authorization.ActionWebhookView), s.GetWebhook)
	org.DELETE("/webhooks/:webhook", s.authorizeOrgAction(authorization.ObjectWebhook, authorization.ActionWebhookDelete), s.DeleteWebhook)
}

func (s *Server) registerBrowserRoutes() {
	browser := s.engine.Group("/browser", s.Identity())

	browser.GET("/login", s.BrowserLogin)
	browser.POST("/organizations/:organization/select", s.SelectOrganization)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
