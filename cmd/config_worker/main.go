package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kingrain94/remote-config-api/internal/config"
	"github.com/kingrain94/remote-config-api/internal/metrics"
	"github.com/kingrain94/remote-config-api/internal/repository/composite"
	"github.com/kingrain94/remote-config-api/internal/service/queue"
	"github.com/kingrain94/remote-config-api/internal/worker"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Initialize logger
	appLogger := logger.NewLogger(os.Getenv("APP_ENV"))

	ctx := context.Background()
	workerConfig := config.DefaultWorkerConfig()

	dbConnections, err := config.NewDatabaseConnections()
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", err)
	}
	defer dbConnections.Close()

	// Initialize OpenSearch
	osConfig := config.DefaultOpenSearchConfig()
	osClient, err := osConfig.GetClient()
	if err != nil {
		appLogger.Fatal("Failed to connect to OpenSearch", err)
	}
	repo := composite.NewCompositeRepository(dbConnections, osClient, osConfig)

	appLogger.Info("Postgres and OpenSearch connections established for config worker")

	// Initialize SQS and S3
	awsConfig := config.DefaultAWSConfig()
	if !awsConfig.QueuesEnabled() {
		appLogger.Fatal("Queue URLs are not configured", fmt.Errorf("AWS_SQS_INDEX_QUEUE_URL and AWS_SQS_EXPORT_QUEUE_URL are required"))
	}
	sqsClient, err := awsConfig.SQSClient(ctx)
	if err != nil {
		appLogger.Fatal("Failed to connect to SQS", err)
	}
	s3Client, err := awsConfig.S3Client(ctx)
	if err != nil {
		appLogger.Fatal("Failed to create S3 client", err)
	}
	sqsService := queue.NewSQSService(sqsClient, awsConfig)

	workerMetrics := metrics.NewMetrics(prometheus.DefaultRegisterer)

	indexWorker := worker.NewIndexWorker(
		sqsService,
		sqsService.IndexQueueURL(),
		repo,
		workerMetrics,
		appLogger,
		workerConfig.IndexWorkers,
		workerConfig.PollInterval,
	)
	exportWorker := worker.NewExportWorker(
		sqsService,
		repo,
		s3Client,
		awsConfig,
		workerMetrics,
		appLogger,
		workerConfig.ExportWorkers,
		workerConfig.PollInterval,
	)
	reindexWorker := worker.NewReindexWorker(repo, appLogger, workerConfig.ReindexInterval)

	// Initial full reindex so a fresh cluster serves search immediately
	if n, err := reindexWorker.Reindex(ctx); err != nil {
		appLogger.Error("Initial reindex failed", err)
	} else {
		appLogger.Infof("Initial reindex covered %d configs", n)
	}

	indexWorker.Start()
	exportWorker.Start()
	reindexWorker.Start()
	appLogger.Info("Config workers started")

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", workerConfig.MetricsPort),
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Metrics server failed", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the workers
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down workers...")
	_ = metricsServer.Close()
	reindexWorker.Stop()
	exportWorker.Stop()
	indexWorker.Stop()
	appLogger.Info("Workers stopped")
	appLogger.Sync()
}
