package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/kingrain94/remote-config-api/internal/config"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/metrics"
	"github.com/kingrain94/remote-config-api/internal/repository"
	"github.com/kingrain94/remote-config-api/internal/service/queue"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

const latestObject = "latest.json"

// ObjectStore is the subset of the S3 client used for snapshots.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ExportWorker writes every published document to S3: one immutable object
// per publish plus a latest.json that always holds the current one.
type ExportWorker struct {
	queue        MessageQueue
	queueURL     string
	repository   repository.PostgresRepository
	store        ObjectStore
	bucket       string
	prefix       string
	metrics      *metrics.Metrics
	logger       *logger.Logger
	workerCount  int
	pollInterval time.Duration
	maxMessages  int32
	waitTime     int32
	shutdownChan chan struct{}
	waitGroup    sync.WaitGroup
}

func NewExportWorker(
	q MessageQueue,
	repository repository.PostgresRepository,
	store ObjectStore,
	awsConfig *config.AWSConfig,
	m *metrics.Metrics,
	logger *logger.Logger,
	workerCount int,
	pollInterval time.Duration,
) *ExportWorker {
	return &ExportWorker{
		queue:        q,
		queueURL:     awsConfig.ExportQueueURL,
		repository:   repository,
		store:        store,
		bucket:       awsConfig.ExportBucket,
		prefix:       awsConfig.ExportPrefix,
		metrics:      m,
		logger:       logger,
		workerCount:  workerCount,
		pollInterval: pollInterval,
		maxMessages:  defaultMaxMessages,
		waitTime:     defaultWaitTime,
		shutdownChan: make(chan struct{}),
	}
}

func (w *ExportWorker) Start() {
	w.logger.Info("Starting export workers...")

	for i := 0; i < w.workerCount; i++ {
		w.waitGroup.Add(1)
		go w.runWorker(i)
	}
}

func (w *ExportWorker) Stop() {
	w.logger.Info("Stopping export workers...")
	close(w.shutdownChan)
	w.waitGroup.Wait()
	w.logger.Info("All export workers stopped")
}

func (w *ExportWorker) runWorker(workerID int) {
	defer w.waitGroup.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-w.shutdownChan
		cancel()
	}()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.shutdownChan:
			return
		case <-ticker.C:
			if err := w.processMessages(ctx); err != nil && ctx.Err() == nil {
				w.logger.Error("export worker failed to process messages", err, zap.Int("worker", workerID))
			}
		}
	}
}

func (w *ExportWorker) processMessages(ctx context.Context) error {
	messages, err := w.queue.ReceiveMessages(ctx, w.queueURL, w.maxMessages, w.waitTime)
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, msg := range messages {
		if msg.Message.Type == queue.MessageTypeExport {
			if err := w.export(ctx, msg.Message.ConfigID); err != nil {
				w.record("error")
				w.logger.Error("failed to export config", err, zap.String("config_id", msg.Message.ConfigID))
				continue
			}
			w.record("ok")
		} else {
			w.logger.Warn("dropping unexpected message on export queue", zap.String("type", string(msg.Message.Type)))
		}

		if err := w.queue.DeleteMessage(ctx, w.queueURL, msg.ReceiptHandle); err != nil {
			w.logger.Error("failed to delete message", err)
		}
	}

	return nil
}

func (w *ExportWorker) export(ctx context.Context, configID string) error {
	cfg, err := w.repository.AppConfig().GetByID(ctx, configID)
	if errors.Is(err, repository.ErrNotFound) {
		w.logger.Info("config deleted before export", zap.String("config_id", configID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.IsPublished() {
		return nil
	}

	body := []byte(cfg.PublishedJSON)
	for _, key := range SnapshotKeys(w.prefix, &cfg.AppConfig) {
		_, err := w.store.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(w.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
	}

	if w.metrics != nil {
		w.metrics.RecordSnapshot(len(body))
	}
	w.logger.Info("exported published config",
		zap.String("config_id", cfg.ID),
		zap.String("tenant_id", cfg.TenantID),
		zap.String("key_name", cfg.KeyName))
	return nil
}

// SnapshotKeys returns the versioned key for this publish and the
// latest.json key, in upload order.
func SnapshotKeys(prefix string, cfg *domain.AppConfig) []string {
	dir := path.Join(prefix, cfg.TenantID, cfg.KeyName)
	return []string{
		path.Join(dir, strconv.FormatInt(cfg.LastPublishedAt.Unix(), 10)+".json"),
		path.Join(dir, latestObject),
	}
}

func (w *ExportWorker) record(status string) {
	if w.metrics != nil {
		w.metrics.RecordWorkerMessage(string(queue.MessageTypeExport), status)
	}
}
