package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/metrics"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

type fakeSubscriber struct {
	mu         sync.Mutex
	callbacks  map[string]func(*domain.PublishEvent)
	subscribed chan string
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{
		callbacks:  make(map[string]func(*domain.PublishEvent)),
		subscribed: make(chan string, 4),
	}
}

func (f *fakeSubscriber) Subscribe(_ context.Context, subscriberID, _ string, cb func(*domain.PublishEvent)) error {
	f.mu.Lock()
	f.callbacks[subscriberID] = cb
	f.mu.Unlock()
	f.subscribed <- subscriberID
	return nil
}

func (f *fakeSubscriber) Unsubscribe(subscriberID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.callbacks, subscriberID)
}

func (f *fakeSubscriber) Close() {}

func (f *fakeSubscriber) emit(subscriberID string, event *domain.PublishEvent) {
	f.mu.Lock()
	cb := f.callbacks[subscriberID]
	f.mu.Unlock()
	cb(event)
}

func TestWebSocketHandler_StreamsTenantEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sub := newFakeSubscriber()
	handler := NewWebSocketHandler(logger.NewNopLogger(), sub, metrics.NewMetrics(prometheus.NewRegistry()))
	go handler.Start()
	defer handler.Stop()

	router := gin.New()
	router.GET("/events/stream", handler.HandleWebSocket)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events/stream?tenant_id=tenant1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case id := <-sub.subscribed:
		assert.Equal(t, "tenant1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("hub never subscribed")
	}

	now := time.Now().UTC()
	sub.emit("tenant1", &domain.PublishEvent{Type: domain.EventConfigPublished, ConfigID: "cfg1", TenantID: "tenant1", LastPublishedAt: &now})
	sub.emit("tenant1", &domain.PublishEvent{Type: domain.EventConfigPublished, ConfigID: "other", TenantID: "tenant2"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event domain.PublishEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "cfg1", event.ConfigID)
	assert.Equal(t, domain.EventConfigPublished, event.Type)
}

func TestWebSocketHandler_RequiresTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewWebSocketHandler(logger.NewNopLogger(), newFakeSubscriber(), nil)
	router := gin.New()
	router.GET("/events/stream", handler.HandleWebSocket)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/stream", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
