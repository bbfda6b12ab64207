package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/repository"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

const reindexPageSize = 500

// ReindexWorker periodically rebuilds the search index from Postgres so
// dropped queue messages are eventually repaired.
type ReindexWorker struct {
	repository   repository.Repository
	logger       *logger.Logger
	interval     time.Duration
	shutdownChan chan struct{}
	waitGroup    sync.WaitGroup
}

func NewReindexWorker(repository repository.Repository, logger *logger.Logger, interval time.Duration) *ReindexWorker {
	return &ReindexWorker{
		repository:   repository,
		logger:       logger,
		interval:     interval,
		shutdownChan: make(chan struct{}),
	}
}

func (w *ReindexWorker) Start() {
	w.waitGroup.Add(1)
	go func() {
		defer w.waitGroup.Done()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.shutdownChan:
				return
			case <-ticker.C:
				n, err := w.Reindex(context.Background())
				if err != nil {
					w.logger.Error("reindex failed", err)
					continue
				}
				w.logger.Infof("reindexed %d configs", n)
			}
		}
	}()
}

func (w *ReindexWorker) Stop() {
	close(w.shutdownChan)
	w.waitGroup.Wait()
}

// Reindex creates the index when missing and bulk-indexes every config.
func (w *ReindexWorker) Reindex(ctx context.Context) (int, error) {
	search := w.repository.Search()
	if search == nil {
		return 0, nil
	}
	if err := search.CreateIndex(ctx); err != nil {
		return 0, fmt.Errorf("failed to create index: %w", err)
	}

	total := 0
	for offset := 0; ; offset += reindexPageSize {
		page, err := w.repository.AppConfig().List(ctx, domain.AppConfigFilter{Limit: reindexPageSize, Offset: offset})
		if err != nil {
			return total, fmt.Errorf("failed to list configs: %w", err)
		}
		if len(page) == 0 {
			return total, nil
		}
		if err := search.BulkIndex(ctx, page); err != nil {
			return total, fmt.Errorf("failed to bulk index: %w", err)
		}
		total += len(page)
		if len(page) < reindexPageSize {
			return total, nil
		}
	}
}
