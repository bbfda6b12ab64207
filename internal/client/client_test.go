package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/domain"
)

type ClientTestSuite struct {
	suite.Suite
	mux    *http.ServeMux
	server *httptest.Server
	client *Client
	calls  int
}

func (s *ClientTestSuite) SetupTest() {
	s.calls = 0
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls++
		s.mux.ServeHTTP(w, r)
	}))

	var err error
	s.client, err = New(s.server.URL+"/", "anon-123")
	s.Require().NoError(err)
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func TestClient(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *ClientTestSuite) TestNew_RejectsBadURL() {
	for _, raw := range []string{"", "ftp://host", "http://", "::"} {
		_, err := New(raw, "k")
		s.Error(err, raw)
	}
}

func (s *ClientTestSuite) TestSignIn_StoresToken() {
	// Arrange
	s.mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.Equal("operator@remote-config.local", req.Email)
		s.Empty(r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, dto.LoginResponse{Token: "jwt-1"})
	})
	s.mux.HandleFunc("/api/v1/tenants", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("Bearer jwt-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []dto.TenantResponse{{ID: "t1", Name: "Mobile App"}})
	})

	// Act
	_, err := s.client.SignIn(context.Background(), "operator@remote-config.local", "remote-config-operator")
	s.Require().NoError(err)
	tenants, err := s.client.ListTenants(context.Background())

	// Assert
	s.NoError(err)
	s.Equal("jwt-1", s.client.Token())
	s.Len(tenants, 1)
	s.Equal("Mobile App", tenants[0].Name)
}

func (s *ClientTestSuite) TestErrorBody_BecomesAPIError() {
	// Arrange
	s.mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, dto.Error{Error: "invalid credentials"})
	})

	// Act
	_, err := s.client.SignIn(context.Background(), "x", "y")

	// Assert
	var apiErr *APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusUnauthorized, apiErr.StatusCode)
	s.Equal("invalid credentials", apiErr.Message)
	s.True(IsCredentialsError(err))
	s.Empty(s.client.Token())
}

func (s *ClientTestSuite) TestNonJSONErrorBody() {
	// Arrange
	s.mux.HandleFunc("/api/v1/stats", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	// Act
	_, err := s.client.Stats(context.Background())

	// Assert
	var apiErr *APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusBadGateway, apiErr.StatusCode)
	s.Contains(apiErr.Message, "upstream down")
	s.False(IsCredentialsError(err))
}

func (s *ClientTestSuite) TestTransportError() {
	// Arrange
	s.server.Close()

	// Act
	_, err := s.client.Stats(context.Background())

	// Assert
	var apiErr *APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Zero(apiErr.StatusCode)
	s.Contains(apiErr.Error(), "request failed")
}

func (s *ClientTestSuite) TestSaveDraft_InvalidJSONNeverSent() {
	// Act
	_, err := s.client.SaveDraft(context.Background(), "cfg1", `{"enabled":`)

	// Assert
	s.ErrorIs(err, ErrInvalidJSON)
	s.Zero(s.calls)
}

func (s *ClientTestSuite) TestSaveDraft_SendsText() {
	// Arrange
	s.mux.HandleFunc("/api/v1/configs/cfg1/draft", func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPut, r.Method)
		var req dto.SaveDraftRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.Require().NotNil(req.DraftText)
		s.Equal(`{"enabled": true}`, *req.DraftText)
		writeJSON(w, http.StatusOK, dto.ConfigResponse{ID: "cfg1", DraftJSON: json.RawMessage(`{"enabled":true}`)})
	})

	// Act
	cfg, err := s.client.SaveDraft(context.Background(), "cfg1", `{"enabled": true}`)

	// Assert
	s.NoError(err)
	s.JSONEq(`{"enabled":true}`, string(cfg.DraftJSON))
}

func (s *ClientTestSuite) TestCreate_ValidatesLocally() {
	ctx := context.Background()

	_, err := s.client.CreateTenant(ctx, dto.CreateTenantRequest{Name: "  "})
	s.Error(err)

	_, err = s.client.CreateConfig(ctx, dto.CreateConfigRequest{TenantID: "t1", KeyName: ""})
	s.Error(err)

	_, err = s.client.CreateConfig(ctx, dto.CreateConfigRequest{TenantID: "t1", KeyName: "k", Draft: json.RawMessage(`{`)})
	s.ErrorIs(err, ErrInvalidJSON)

	_, err = s.client.UpdateConfig(ctx, "cfg1", "")
	s.Error(err)

	s.Zero(s.calls)
}

func (s *ClientTestSuite) TestListConfigs_Query() {
	// Arrange
	published := true
	s.mux.HandleFunc("/api/v1/configs", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		s.Equal("t1", q.Get("tenant_id"))
		s.Equal("true", q.Get("published"))
		s.Equal("20", q.Get("limit"))
		s.Empty(q.Get("offset"))
		writeJSON(w, http.StatusOK, []dto.ConfigResponse{{ID: "cfg1"}})
	})

	// Act
	configs, err := s.client.ListConfigs(context.Background(), ConfigFilter{TenantID: "t1", Published: &published, Limit: 20})

	// Assert
	s.NoError(err)
	s.Len(configs, 1)
}

func (s *ClientTestSuite) TestPublishAndDelete() {
	// Arrange
	s.mux.HandleFunc("/api/v1/configs/cfg1/publish", func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		writeJSON(w, http.StatusOK, dto.ConfigResponse{ID: "cfg1", Published: true})
	})
	s.mux.HandleFunc("/api/v1/configs/cfg1", func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	// Act
	cfg, err := s.client.Publish(context.Background(), "cfg1")
	s.Require().NoError(err)
	delErr := s.client.DeleteConfig(context.Background(), "cfg1")

	// Assert
	s.True(cfg.Published)
	s.NoError(delErr)
}

func (s *ClientTestSuite) TestSetupSQL_ReturnsText() {
	// Arrange
	s.mux.HandleFunc("/api/v1/setup/sql", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "CREATE TABLE tenants ();")
	})

	// Act
	script, err := s.client.SetupSQL(context.Background())

	// Assert
	s.NoError(err)
	s.Equal("CREATE TABLE tenants ();", script)
}

func (s *ClientTestSuite) TestFetchPublished_UsesAPIKey() {
	// Arrange
	s.mux.HandleFunc("/rest/v1/rpc/get_published_config", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("anon-123", r.Header.Get("apikey"))
		s.Empty(r.Header.Get("Authorization"))
		var req dto.PublishedConfigRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.Equal("homepage_flags", req.KeyName)
		_, _ = io.WriteString(w, `{"enabled":true}`)
	})

	// Act
	doc, err := s.client.FetchPublished(context.Background(), "t1", "homepage_flags")

	// Assert
	s.NoError(err)
	s.JSONEq(`{"enabled":true}`, string(doc))
}

func (s *ClientTestSuite) TestFetchPublished_NotPublished() {
	// Arrange
	s.mux.HandleFunc("/rest/v1/rpc/get_published_config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, dto.Error{Error: "config has not been published"})
	})

	// Act
	_, err := s.client.FetchPublished(context.Background(), "t1", "homepage_flags")

	// Assert
	var apiErr *APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusNotFound, apiErr.StatusCode)
}

func (s *ClientTestSuite) TestWatchEvents() {
	// Arrange
	upgrader := websocket.Upgrader{}
	s.mux.HandleFunc("/api/v1/events/stream", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("t1", r.URL.Query().Get("tenant_id"))
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteJSON(domain.PublishEvent{Type: domain.EventConfigPublished, ConfigID: "cfg1", TenantID: "t1"})
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Act
	var got []domain.PublishEvent
	err := s.client.WatchEvents(ctx, "t1", func(e domain.PublishEvent) { got = append(got, e) })

	// Assert
	s.NoError(err)
	s.Require().Len(got, 1)
	s.Equal("cfg1", got[0].ConfigID)
}

func TestEventsURL(t *testing.T) {
	c, err := New("https://config.example.com", "k")
	assert.NoError(t, err)
	assert.Equal(t, "wss://config.example.com/api/v1/events/stream?tenant_id=t+1", c.EventsURL("t 1"))

	c, _ = New("http://localhost:10000", "k")
	assert.True(t, strings.HasPrefix(c.EventsURL("t1"), "ws://localhost:10000/"))
}

func TestIsCredentialsError(t *testing.T) {
	assert.True(t, IsCredentialsError(&APIError{StatusCode: 401}))
	assert.True(t, IsCredentialsError(&APIError{StatusCode: 400, Message: "Invalid login Credentials"}))
	assert.False(t, IsCredentialsError(&APIError{StatusCode: 500, Message: "boom"}))
	assert.False(t, IsCredentialsError(errors.New("credentials")))
}
