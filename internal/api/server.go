package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/metrics"
	"github.com/kingrain94/remote-config-api/internal/middleware"
	"github.com/kingrain94/remote-config-api/internal/policy"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

const maxRequestSize = 1 << 20 // config documents are small

// Services groups what the handlers call into.
type Services struct {
	Auth        AuthService
	Tenants     TenantService
	Configs     ConfigService
	Integration IntegrationService
	Stats       StatsService
	Setup       SetupService
	Published   PublishedConfigService
}

type Server struct {
	auth        *AuthHandler
	tenant      *TenantHandler
	config      *ConfigHandler
	stats       *StatsHandler
	setup       *SetupHandler
	public      *PublicHandler
	websocket   *WebSocketHandler
	authn       *middleware.AuthMiddleware
	authz       *middleware.AuthzMiddleware
	rateLimit   *middleware.RateLimitMiddleware
	validation  *middleware.ValidationMiddleware
	metrics     *metrics.Metrics
	globalLimit int
}

func NewServer(
	services Services,
	authn *middleware.AuthMiddleware,
	authz *middleware.AuthzMiddleware,
	rateLimit *middleware.RateLimitMiddleware,
	validation *middleware.ValidationMiddleware,
	websocket *WebSocketHandler,
	m *metrics.Metrics,
	globalLimit int,
	log *logger.Logger,
) *Server {
	base := NewBaseHandler(log)
	return &Server{
		auth:        NewAuthHandler(base, services.Auth),
		tenant:      NewTenantHandler(base, services.Tenants),
		config:      NewConfigHandler(base, services.Configs, services.Integration),
		stats:       NewStatsHandler(base, services.Stats),
		setup:       NewSetupHandler(base, services.Setup),
		public:      NewPublicHandler(base, services.Published, m),
		websocket:   websocket,
		authn:       authn,
		authz:       authz,
		rateLimit:   rateLimit,
		validation:  validation,
		metrics:     m,
		globalLimit: globalLimit,
	}
}

// Router builds the engine with every route except docs and the metrics
// scrape endpoint, which main mounts.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if s.metrics != nil {
		router.Use(middleware.Metrics(s.metrics))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
	})

	s.SetupRoutes(router.Group("/api/v1"))
	s.SetupPublicRoutes(router.Group("/rest/v1"))
	return router
}

func (s *Server) applySecurity(group *gin.RouterGroup) {
	group.Use(s.validation.BlockSuspiciousPatterns())
	group.Use(s.validation.SanitizeInput())
	group.Use(s.validation.ValidateRequestSize(maxRequestSize))
	group.Use(s.validation.ValidateContentType("application/json"))
	if s.rateLimit != nil && s.globalLimit > 0 {
		group.Use(s.rateLimit.GlobalRateLimit(s.globalLimit))
	}
}

func (s *Server) SetupRoutes(api *gin.RouterGroup) {
	s.applySecurity(api)

	api.POST("/auth/login", s.auth.Login)

	setup := api.Group("/setup")
	{
		setup.GET("/sql", s.setup.GetSQL)
		setup.GET("/status", s.setup.GetStatus)
	}

	operator := api.Group("", s.authn.JWTAuth())
	{
		operator.GET("/auth/me", s.auth.Me)

		tenants := operator.Group("/tenants")
		{
			tenants.GET("", s.authz.Require(policy.ObjectTenants, policy.ActionRead), s.tenant.ListTenants)
			tenants.POST("", s.authz.Require(policy.ObjectTenants, policy.ActionWrite), s.tenant.CreateTenant)
			tenants.GET("/:id", s.authz.Require(policy.ObjectTenants, policy.ActionRead), s.tenant.GetTenant)
			tenants.PUT("/:id", s.authz.Require(policy.ObjectTenants, policy.ActionWrite), s.tenant.UpdateTenant)
			tenants.DELETE("/:id", s.authz.Require(policy.ObjectTenants, policy.ActionWrite), s.tenant.DeleteTenant)
		}

		configs := operator.Group("/configs")
		{
			read := s.authz.Require(policy.ObjectAppConfigs, policy.ActionRead)
			write := s.authz.Require(policy.ObjectAppConfigs, policy.ActionWrite)

			configs.GET("", read, s.config.ListConfigs)
			configs.POST("", write, s.config.CreateConfig)
			configs.GET("/:id", read, s.config.GetConfig)
			configs.PUT("/:id", write, s.config.UpdateConfig)
			configs.DELETE("/:id", write, s.config.DeleteConfig)
			configs.PUT("/:id/draft", write, s.config.SaveDraft)
			configs.POST("/:id/publish", write, s.config.PublishConfig)
			configs.GET("/:id/integration", read, s.config.GetIntegration)
		}

		operator.GET("/stats", s.authz.Require(policy.ObjectStats, policy.ActionRead), s.stats.GetStats)
		operator.GET("/templates", s.stats.ListTemplates)
		operator.GET("/templates/:type", s.stats.GetTemplate)

		if s.websocket != nil {
			operator.GET("/events/stream", s.authz.Require(policy.ObjectEvents, policy.ActionRead), s.websocket.HandleWebSocket)
		}
	}
}

// SetupPublicRoutes mounts the read-only API external applications call
// with the public key.
func (s *Server) SetupPublicRoutes(rest *gin.RouterGroup) {
	s.applySecurity(rest)
	rest.Use(s.authn.APIKeyAuth())
	if s.rateLimit != nil {
		rest.Use(s.rateLimit.PublicRateLimit())
	}

	published := s.authz.Require(policy.ObjectPublishedConfigs, policy.ActionRead)
	rest.GET("/app_configs", published, s.public.ListPublished)
	rest.POST("/rpc/get_published_config", published, s.public.GetPublishedConfig)
}

// StartWebSocketHub starts the event stream hub.
func (s *Server) StartWebSocketHub() {
	if s.websocket != nil {
		go s.websocket.Start()
	}
}

func (s *Server) StopWebSocketHub() {
	if s.websocket != nil {
		s.websocket.Stop()
	}
}
