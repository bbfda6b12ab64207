package config

import "time"

type WorkerConfig struct {
	IndexWorkers    int
	ExportWorkers   int
	PollInterval    time.Duration
	ReindexInterval time.Duration
	MetricsPort     int
}

func DefaultWorkerConfig() *WorkerConfig {
	return &WorkerConfig{
		IndexWorkers:    getEnvIntWithDefault("WORKER_INDEX_CONCURRENCY", 1),
		ExportWorkers:   getEnvIntWithDefault("WORKER_EXPORT_CONCURRENCY", 1),
		PollInterval:    getEnvDurationWithDefault("WORKER_POLL_INTERVAL", 5*time.Second),
		ReindexInterval: getEnvDurationWithDefault("WORKER_REINDEX_INTERVAL", time.Hour),
		MetricsPort:     getEnvIntWithDefault("WORKER_METRICS_PORT", 10001),
	}
}
