package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

const (
	channelPrefix = "config_events:"
)

// RedisPubSub fans publish events out per tenant channel. Subscriptions are
// keyed by subscriber id so several stream clients can watch one tenant.
type RedisPubSub struct {
	client       *redis.Client
	logger       *logger.Logger
	subscribers  map[string]*redis.PubSub
	subscriberMu sync.RWMutex
}

func NewRedisPubSub(client *redis.Client, logger *logger.Logger) *RedisPubSub {
	return &RedisPubSub{
		client:      client,
		logger:      logger,
		subscribers: make(map[string]*redis.PubSub),
	}
}

func ChannelName(tenantID string) string {
	return channelPrefix + tenantID
}

// Publish sends the event to the tenant's channel.
func (ps *RedisPubSub) Publish(ctx context.Context, event *domain.PublishEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := ChannelName(event.TenantID)
	if err := ps.client.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis channel %s: %w", channel, err)
	}

	return nil
}

// Subscribe delivers events for tenantID to callback until ctx is done or
// Unsubscribe(subscriberID) is called.
func (ps *RedisPubSub) Subscribe(ctx context.Context, subscriberID, tenantID string, callback func(*domain.PublishEvent)) error {
	channel := ChannelName(tenantID)

	ps.subscriberMu.Lock()
	if _, exists := ps.subscribers[subscriberID]; exists {
		ps.subscriberMu.Unlock()
		return nil
	}
	sub := ps.client.Subscribe(ctx, channel)
	ps.subscribers[subscriberID] = sub
	ps.subscriberMu.Unlock()

	// Wait for the subscription confirmation so a publish right after
	// Subscribe returns is not lost.
	if _, err := sub.Receive(ctx); err != nil {
		ps.release(subscriberID, sub)
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	go func() {
		defer ps.release(subscriberID, sub)

		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event domain.PublishEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					ps.logger.Error("failed to unmarshal event", err, zap.String("channel", channel))
					continue
				}
				callback(&event)

			case <-ctx.Done():
				return
			}
		}
	}()

	ps.logger.Info("subscribed to tenant channel", zap.String("channel", channel), zap.String("subscriber", subscriberID))
	return nil
}

func (ps *RedisPubSub) Unsubscribe(subscriberID string) {
	ps.subscriberMu.Lock()
	defer ps.subscriberMu.Unlock()

	if sub, exists := ps.subscribers[subscriberID]; exists {
		sub.Close()
		delete(ps.subscribers, subscriberID)
	}
}

// release closes sub and drops it only while it is still the registered
// subscription for subscriberID; a later Subscribe may have replaced it.
func (ps *RedisPubSub) release(subscriberID string, sub *redis.PubSub) {
	ps.subscriberMu.Lock()
	defer ps.subscriberMu.Unlock()

	if current, exists := ps.subscribers[subscriberID]; exists && current == sub {
		delete(ps.subscribers, subscriberID)
	}
	sub.Close()
}

func (ps *RedisPubSub) Close() {
	ps.subscriberMu.Lock()
	defer ps.subscriberMu.Unlock()

	for id, sub := range ps.subscribers {
		sub.Close()
		delete(ps.subscribers, id)
	}
}
