package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kingrain94/remote-config-api/internal/metrics"
	"github.com/kingrain94/remote-config-api/internal/repository"
	"github.com/kingrain94/remote-config-api/internal/service/queue"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

// IndexWorker keeps the search index in step with Postgres. Messages only
// name a config; the current row is reloaded before indexing so stale or
// reordered messages converge.
type IndexWorker struct {
	queue        MessageQueue
	queueURL     string
	repository   repository.Repository
	metrics      *metrics.Metrics
	logger       *logger.Logger
	workerCount  int
	pollInterval time.Duration
	maxMessages  int32
	waitTime     int32
	shutdownChan chan struct{}
	waitGroup    sync.WaitGroup
}

func NewIndexWorker(
	q MessageQueue,
	queueURL string,
	repository repository.Repository,
	m *metrics.Metrics,
	logger *logger.Logger,
	workerCount int,
	pollInterval time.Duration,
) *IndexWorker {
	return &IndexWorker{
		queue:        q,
		queueURL:     queueURL,
		repository:   repository,
		metrics:      m,
		logger:       logger,
		workerCount:  workerCount,
		pollInterval: pollInterval,
		maxMessages:  defaultMaxMessages,
		waitTime:     defaultWaitTime,
		shutdownChan: make(chan struct{}),
	}
}

func (w *IndexWorker) Start() {
	w.logger.Info("Starting index workers...")

	for i := 0; i < w.workerCount; i++ {
		w.waitGroup.Add(1)
		go w.runWorker(i)
	}
}

func (w *IndexWorker) Stop() {
	w.logger.Info("Stopping index workers...")
	close(w.shutdownChan)
	w.waitGroup.Wait()
	w.logger.Info("All index workers stopped")
}

func (w *IndexWorker) runWorker(workerID int) {
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
				w.logger.Error("index worker failed to process messages", err, zap.Int("worker", workerID))
			}
		}
	}
}

func (w *IndexWorker) processMessages(ctx context.Context) error {
	messages, err := w.queue.ReceiveMessages(ctx, w.queueURL, w.maxMessages, w.waitTime)
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessage(ctx, msg.Message); err != nil {
			w.record(msg.Message.Type, "error")
			w.logger.Error("failed to process index message", err,
				zap.String("type", string(msg.Message.Type)),
				zap.String("config_id", msg.Message.ConfigID))
			continue
		}
		w.record(msg.Message.Type, "ok")

		// Only delete the message if processing was successful
		if err := w.queue.DeleteMessage(ctx, w.queueURL, msg.ReceiptHandle); err != nil {
			w.logger.Error("failed to delete message", err)
		}
	}

	return nil
}

func (w *IndexWorker) processMessage(ctx context.Context, msg queue.Message) error {
	search := w.repository.Search()
	if search == nil {
		return errors.New("search index is not configured")
	}

	switch msg.Type {
	case queue.MessageTypeIndex:
		cfg, err := w.repository.AppConfig().GetByID(ctx, msg.ConfigID)
		if errors.Is(err, repository.ErrNotFound) {
			// Deleted after the message was sent.
			return search.Delete(ctx, msg.ConfigID)
		}
		if err != nil {
			return fmt.Errorf("failed to load config %s: %w", msg.ConfigID, err)
		}
		return search.Index(ctx, cfg)

	case queue.MessageTypeDelete:
		return search.Delete(ctx, msg.ConfigID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (w *IndexWorker) record(msgType queue.MessageType, status string) {
	if w.metrics != nil {
		w.metrics.RecordWorkerMessage(string(msgType), status)
	}
}
