package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/metrics"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

const (
	websocketReadBufferSize        = 1024
	websocketWriteBufferSize       = 1024
	websocketSendChannelBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  websocketReadBufferSize,
	WriteBufferSize: websocketWriteBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventSubscriber is implemented by pubsub.RedisPubSub.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subscriberID, tenantID string, callback func(*domain.PublishEvent)) error
	Unsubscribe(subscriberID string)
	Close()
}

type Client struct {
	conn     *websocket.Conn
	tenantID string
	send     chan []byte
}

// WebSocketHandler streams config events to operators. One upstream
// subscription is held per tenant while it has connected clients.
type WebSocketHandler struct {
	clients       map[*Client]bool
	register      chan *Client
	unregister    chan *Client
	mutex         sync.RWMutex
	logger        *logger.Logger
	pubsub        EventSubscriber
	metrics       *metrics.Metrics
	ctx           context.Context
	cancel        context.CancelFunc
	tenantClients map[string]int
}

func NewWebSocketHandler(logger *logger.Logger, pubsub EventSubscriber, m *metrics.Metrics) *WebSocketHandler {
	ctx, cancel := context.WithCancel(context.Background())
	return &WebSocketHandler{
		clients:       make(map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		logger:        logger,
		pubsub:        pubsub,
		metrics:       m,
		ctx:           ctx,
		cancel:        cancel,
		tenantClients: make(map[string]int),
	}
}

// HandleWebSocket godoc
// @Summary Config event stream
// @Description WebSocket of config.draft_saved, config.published and config.deleted events for one tenant
// @Tags events
// @Security BearerAuth
// @Param tenant_id query string true "Tenant ID"
// @Success 101
// @Failure 400 {object} dto.Error
// @Router /events/stream [get]
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	if tenantID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.Error{Error: "tenant_id is required"})
		return
	}
	if h.pubsub == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.Error{Error: "event stream is not configured"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	client := &Client{
		conn:     conn,
		tenantID: tenantID,
		send:     make(chan []byte, websocketSendChannelBufferSize),
	}

	select {
	case h.register <- client:
	case <-h.ctx.Done():
		conn.Close()
		return
	}

	go h.writePump(client)
	go h.readPump(client)
}

func (h *WebSocketHandler) Start() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.tenantClients[client.tenantID]++
			first := h.tenantClients[client.tenantID] == 1
			h.mutex.Unlock()

			if h.metrics != nil {
				h.metrics.StreamConnected()
			}

			if first {
				if err := h.pubsub.Subscribe(h.ctx, client.tenantID, client.tenantID, h.handlePubSubMessage); err != nil {
					h.logger.Error("failed to subscribe to tenant events", err, zap.String("tenant_id", client.tenantID))
				}
			}

		case client := <-h.unregister:
			h.mutex.Lock()
			h.removeClient(client)
			h.mutex.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *WebSocketHandler) Stop() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}

// removeClient must be called with the mutex held.
func (h *WebSocketHandler) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	if h.metrics != nil {
		h.metrics.StreamDisconnected()
	}

	h.tenantClients[client.tenantID]--
	if h.tenantClients[client.tenantID] == 0 {
		h.pubsub.Unsubscribe(client.tenantID)
		delete(h.tenantClients, client.tenantID)
	}
}

func (h *WebSocketHandler) handlePubSubMessage(event *domain.PublishEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if client.tenantID != event.TenantID {
			continue
		}
		select {
		case client.send <- message:
		default:
			// Slow consumer.
			h.removeClient(client)
		}
	}
}

func (h *WebSocketHandler) writePump(client *Client) {
	defer client.conn.Close()

	for message := range client.send {
		if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	client.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (h *WebSocketHandler) readPump(client *Client) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.ctx.Done():
		}
		client.conn.Close()
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("unexpected close", zap.String("tenant_id", client.tenantID), zap.Error(err))
			}
			return
		}
	}
}
