package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

//go:generate mockery --name EventPublisher --output ../mocks
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.PublishEvent) error
}

//go:generate mockery --name QueueService --output ../mocks
type QueueService interface {
	SendIndexMessage(ctx context.Context, configID string) error
	SendDeleteMessage(ctx context.Context, configID, tenantID string) error
	SendExportMessage(ctx context.Context, configID string) error
}

// changeNotifier fans config changes out to listeners and background
// workers. Every failure is logged and swallowed; the write already
// committed.
type changeNotifier struct {
	events EventPublisher
	queue  QueueService
	logger *logger.Logger
	now    func() time.Time
}

func (n *changeNotifier) draftSaved(ctx context.Context, cfg *domain.AppConfig) {
	n.publish(ctx, domain.EventConfigDraftSaved, cfg)
	n.index(ctx, cfg)
}

func (n *changeNotifier) published(ctx context.Context, cfg *domain.AppConfig) {
	n.publish(ctx, domain.EventConfigPublished, cfg)
	n.index(ctx, cfg)
	if n.queue != nil {
		if err := n.queue.SendExportMessage(ctx, cfg.ID); err != nil {
			n.logger.Warn("failed to enqueue export", zap.String("config_id", cfg.ID), zap.Error(err))
		}
	}
}

func (n *changeNotifier) created(ctx context.Context, cfg *domain.AppConfig) {
	n.index(ctx, cfg)
}

func (n *changeNotifier) deleted(ctx context.Context, cfg *domain.AppConfig) {
	n.publish(ctx, domain.EventConfigDeleted, cfg)
	if n.queue != nil {
		if err := n.queue.SendDeleteMessage(ctx, cfg.ID, cfg.TenantID); err != nil {
			n.logger.Warn("failed to enqueue index delete", zap.String("config_id", cfg.ID), zap.Error(err))
		}
	}
}

func (n *changeNotifier) index(ctx context.Context, cfg *domain.AppConfig) {
	if n.queue == nil {
		return
	}
	if err := n.queue.SendIndexMessage(ctx, cfg.ID); err != nil {
		n.logger.Warn("failed to enqueue index", zap.String("config_id", cfg.ID), zap.Error(err))
	}
}

func (n *changeNotifier) publish(ctx context.Context, eventType domain.EventType, cfg *domain.AppConfig) {
	if n.events == nil {
		return
	}
	event := &domain.PublishEvent{
		Type:            eventType,
		ConfigID:        cfg.ID,
		TenantID:        cfg.TenantID,
		KeyName:         cfg.KeyName,
		LastPublishedAt: cfg.LastPublishedAt,
		OccurredAt:      n.now().UTC(),
	}
	if err := n.events.Publish(ctx, event); err != nil {
		n.logger.Warn("failed to publish config event",
			zap.String("config_id", cfg.ID),
			zap.String("type", string(eventType)),
			zap.Error(err))
	}
}
