package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kingrain94/remote-config-api/internal/domain"
)

// EventsURL is the WebSocket address of one tenant's event stream.
func (c *Client) EventsURL(tenantID string) string {
	target := c.baseURL
	switch {
	case strings.HasPrefix(target, "https://"):
		target = "wss://" + strings.TrimPrefix(target, "https://")
	case strings.HasPrefix(target, "http://"):
		target = "ws://" + strings.TrimPrefix(target, "http://")
	}
	return target + consolePrefix + "/events/stream?tenant_id=" + url.QueryEscape(tenantID)
}

// WatchEvents streams publish events for a tenant until ctx is cancelled or
// the server closes the connection. A cancelled ctx returns nil.
func (c *Client) WatchEvents(ctx context.Context, tenantID string, handle func(domain.PublishEvent)) error {
	header := http.Header{}
	if token := c.Token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, c.EventsURL(tenantID), header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return readAPIError(resp)
		}
		return &APIError{Message: err.Error()}
	}
	defer conn.Close()

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return &APIError{Message: err.Error()}
		}

		var event domain.PublishEvent
		if err := json.Unmarshal(message, &event); err != nil {
			return errors.New("invalid event payload: " + err.Error())
		}
		handle(event)
	}
}
