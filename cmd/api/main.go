package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	opensearchclient "github.com/opensearch-project/opensearch-go/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/kingrain94/remote-config-api/docs"
	"github.com/kingrain94/remote-config-api/internal/api"
	"github.com/kingrain94/remote-config-api/internal/config"
	"github.com/kingrain94/remote-config-api/internal/metrics"
	"github.com/kingrain94/remote-config-api/internal/middleware"
	"github.com/kingrain94/remote-config-api/internal/policy"
	"github.com/kingrain94/remote-config-api/internal/repository/composite"
	"github.com/kingrain94/remote-config-api/internal/service"
	"github.com/kingrain94/remote-config-api/internal/service/pubsub"
	"github.com/kingrain94/remote-config-api/internal/service/queue"
	"github.com/kingrain94/remote-config-api/internal/setup"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

// @title           Remote Config API
// @version         1.0
// @description     Multi-tenant remote configuration console and published-config read API.

// @host      localhost:10000
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name apikey

// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Initialize logger
	appLogger := logger.NewLogger(os.Getenv("APP_ENV"))

	cfg, err := config.Load()
	if err != nil {
		appLogger.Fatal("Failed to load config", err)
	}

	dbConnections, err := config.NewDatabaseConnections()
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer dbConnections.Close()

	appLogger.Info("Database connections established - writer and reader connected")

	ctx := context.Background()

	// OpenSearch is optional; without it listing falls back to Postgres.
	osConfig := config.DefaultOpenSearchConfig()
	var osClient *opensearchclient.Client
	if osConfig.Enabled {
		osClient, err = osConfig.GetClient()
		if err != nil {
			appLogger.Warn("OpenSearch unavailable, search falls back to Postgres", zap.Error(err))
			osClient = nil
		}
	}

	// Redis backs rate limiting and the event stream.
	var redisClient *redis.Client
	var eventPublisher service.EventPublisher
	var eventSubscriber api.EventSubscriber
	redisClient, err = config.DefaultRedisConfig().GetClient(ctx)
	if err != nil {
		appLogger.Warn("Redis unavailable, rate limiting and event stream disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		redisPubSub := pubsub.NewRedisPubSub(redisClient, appLogger)
		eventPublisher = redisPubSub
		eventSubscriber = redisPubSub
	}

	// SQS feeds the index and export workers.
	var queueService service.QueueService
	awsConfig := config.DefaultAWSConfig()
	if awsConfig.QueuesEnabled() {
		sqsClient, err := awsConfig.SQSClient(ctx)
		if err != nil {
			appLogger.Warn("SQS unavailable, index and export messages disabled", zap.Error(err))
		} else {
			queueService = queue.NewSQSService(sqsClient, awsConfig)
		}
	}

	repo := composite.NewCompositeRepository(dbConnections, osClient, osConfig)
	if search := repo.Search(); search != nil {
		if err := search.CreateIndex(ctx); err != nil {
			appLogger.Error("Failed to ensure search index", err)
		}
	}

	appMetrics := metrics.NewMetrics(prometheus.DefaultRegisterer)

	// Initialize services
	setupService := service.NewSetupService(repo, setup.Script, cfg.OperatorEmail, cfg.OperatorPassword, appLogger)
	if cfg.AutoMigrate {
		if err := setupService.Bootstrap(ctx); err != nil {
			appLogger.Fatal("Failed to bootstrap database", err)
		}
	}

	configService := service.NewAppConfigService(repo, queueService, eventPublisher, appLogger)
	services := api.Services{
		Auth:        service.NewAuthService(repo, cfg.JWTSecretKey, cfg.JWTExpirationHours),
		Tenants:     service.NewTenantService(repo, queueService, eventPublisher, appLogger),
		Configs:     configService,
		Integration: service.NewIntegrationService(repo, cfg.PublicBaseURL, cfg.PublicAPIKey),
		Stats:       service.NewStatsService(repo),
		Setup:       setupService,
		Published:   configService,
	}

	mode, err := policy.ParseMode(cfg.AuthzMode)
	if err != nil {
		appLogger.Fatal("Invalid authorization mode", err)
	}
	authorizer, err := policy.NewAuthorizer(mode)
	if err != nil {
		appLogger.Fatal("Failed to load authorization policy", err)
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg)
	authzMiddleware := middleware.NewAuthzMiddleware(authorizer, appMetrics, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(redisClient, cfg, appLogger)
	validationMiddleware := middleware.NewValidationMiddleware(appLogger)

	// Initialize server
	server := api.NewServer(
		services,
		authMiddleware,
		authzMiddleware,
		rateLimitMiddleware,
		validationMiddleware,
		api.NewWebSocketHandler(appLogger, eventSubscriber, appMetrics),
		appMetrics,
		cfg.GlobalRateLimit,
		appLogger,
	)

	// Start WebSocket hub
	server.StartWebSocketHub()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.Router()

	// Swagger documentation endpoint
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.ServerPort)
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		appLogger.Infof("Listening on :%d", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	server.StopWebSocketHub()

	// Shutdown the HTTP server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server exiting")
	appLogger.Sync()
}
