package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/config"
	"github.com/kingrain94/remote-config-api/internal/credentials"
)

// fakeAPI serves just enough of the console and public API for the CLI.
type fakeAPI struct {
	loginStatus int
	published   bool
	draft       string
	fetched     int
	created     dto.CreateConfigRequest
}

func (f *fakeAPI) handler() http.Handler {
	publishedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := func() dto.ConfigResponse {
		cfg := dto.ConfigResponse{
			ID: "cfg1", TenantID: "t1", TenantName: "Mobile App", KeyName: "homepage_flags",
			DraftJSON: json.RawMessage(`{"enabled":true}`), PublishedJSON: json.RawMessage(`{}`),
		}
		if f.published {
			cfg.Published = true
			cfg.LastPublishedAt = &publishedAt
			cfg.PublishedJSON = cfg.DraftJSON
		}
		return cfg
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if f.loginStatus != 0 {
			writeJSON(w, f.loginStatus, dto.Error{Error: "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, dto.LoginResponse{Token: "jwt"})
	})
	mux.HandleFunc("GET /api/v1/tenants", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []dto.TenantResponse{{ID: "t1", Name: "Mobile App", APIKey: "mfr_a1B2c3D4e5F6"}})
	})
	mux.HandleFunc("POST /api/v1/tenants", func(w http.ResponseWriter, r *http.Request) {
		var req dto.CreateTenantRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusCreated, dto.TenantResponse{ID: "t2", Name: req.Name, APIKey: "mfr_generated1"})
	})
	mux.HandleFunc("POST /api/v1/configs", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&f.created)
		writeJSON(w, http.StatusCreated, dto.ConfigResponse{ID: "cfg2", KeyName: f.created.KeyName})
	})
	mux.HandleFunc("GET /api/v1/configs/cfg1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, current())
	})
	mux.HandleFunc("PUT /api/v1/configs/cfg1/draft", func(w http.ResponseWriter, r *http.Request) {
		var req dto.SaveDraftRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.draft = *req.DraftText
		writeJSON(w, http.StatusOK, current())
	})
	mux.HandleFunc("POST /api/v1/configs/cfg1/publish", func(w http.ResponseWriter, r *http.Request) {
		f.published = true
		writeJSON(w, http.StatusOK, current())
	})
	mux.HandleFunc("POST /rest/v1/rpc/get_published_config", func(w http.ResponseWriter, r *http.Request) {
		f.fetched++
		_, _ = io.WriteString(w, `{"enabled":true}`)
	})
	mux.HandleFunc("GET /api/v1/setup/sql", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "CREATE TABLE tenants ();\n")
	})
	mux.HandleFunc("GET /api/v1/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.StatsResponse{TotalConfigs: 12, TotalRequests: 3400, ActiveTenants: 3})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type CLITestSuite struct {
	suite.Suite
	api    *fakeAPI
	server *httptest.Server
	store  *credentials.MemoryStore
	app    *app
}

func (s *CLITestSuite) SetupTest() {
	s.api = &fakeAPI{}
	s.server = httptest.NewServer(s.api.handler())
	s.store = credentials.NewMemoryStore()

	s.app = newApp(&config.CLIConfig{
		OperatorEmail:    config.DefaultOperatorEmail,
		OperatorPassword: config.DefaultOperatorPassword,
	})
	s.app.httpClient = s.server.Client()
	s.app.openStore = func() (credentials.Store, func(), error) { return s.store, func() {}, nil }
	s.app.promptSecret = func(string) (string, error) { return "prompted-key", nil }
}

func (s *CLITestSuite) TearDownTest() {
	s.server.Close()
}

func TestCLI(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (s *CLITestSuite) run(args ...string) (string, error) {
	cmd := newRootCmd(s.app)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func (s *CLITestSuite) connected() {
	ctx := context.Background()
	session := credentials.NewSession(s.store)
	s.Require().NoError(session.SaveCredentials(ctx, s.server.URL, "anon-123"))
}

func (s *CLITestSuite) TestVersion() {
	out, err := s.run("version")

	s.NoError(err)
	s.Contains(out, "rcctl dev")
}

func (s *CLITestSuite) TestSetup_SavesCredentials() {
	// Arrange
	session := credentials.NewSession(s.store)
	s.Require().NoError(session.SetSignedOut(context.Background(), true))

	// Act
	out, err := s.run("setup", "--url", s.server.URL, "--api-key", "anon-123")

	// Assert
	s.NoError(err)
	s.Contains(out, "Connected to")
	key, _ := session.APIKey(context.Background())
	signedOut, _ := session.IsSignedOut(context.Background())
	s.Equal("anon-123", key)
	s.False(signedOut)
}

func (s *CLITestSuite) TestSetup_PromptsForKey() {
	_, err := s.run("setup", "--url", s.server.URL)

	s.NoError(err)
	key, _ := credentials.NewSession(s.store).APIKey(context.Background())
	s.Equal("prompted-key", key)
}

func (s *CLITestSuite) TestSetup_BadSignInSavesNothing() {
	// Arrange
	s.api.loginStatus = http.StatusBadRequest

	// Act
	_, err := s.run("setup", "--url", s.server.URL, "--api-key", "anon-123")

	// Assert
	s.Error(err)
	s.Contains(err.Error(), "setup sql")
	has, _ := credentials.NewSession(s.store).HasCredentials(context.Background())
	s.False(has)
}

func (s *CLITestSuite) TestSetupSQL() {
	out, err := s.run("setup", "sql", "--url", s.server.URL)

	s.NoError(err)
	s.Equal("CREATE TABLE tenants ();\n", out)
}

func (s *CLITestSuite) TestGate_RequiresSetup() {
	_, err := s.run("tenant", "list")

	s.ErrorIs(err, credentials.ErrSetupRequired)
}

func (s *CLITestSuite) TestLogout_BlocksCommands() {
	// Arrange
	s.connected()

	// Act
	_, err := s.run("logout")
	s.Require().NoError(err)
	_, err = s.run("stats")

	// Assert
	s.ErrorIs(err, credentials.ErrSignedOut)
}

func (s *CLITestSuite) TestForgetAndReset() {
	ctx := context.Background()
	session := credentials.NewSession(s.store)

	s.connected()
	_, err := s.run("forget")
	s.Require().NoError(err)
	has, _ := session.HasCredentials(ctx)
	out, _ := session.IsSignedOut(ctx)
	s.False(has)
	s.True(out)

	_, err = s.run("reset")
	s.Require().NoError(err)
	out, _ = session.IsSignedOut(ctx)
	s.False(out)
}

func (s *CLITestSuite) TestRejectedSignInMarksSignedOut() {
	// Arrange
	s.connected()
	s.api.loginStatus = http.StatusUnauthorized

	// Act
	_, err := s.run("tenant", "list")

	// Assert
	s.Error(err)
	signedOut, _ := credentials.NewSession(s.store).IsSignedOut(context.Background())
	s.True(signedOut)
}

func (s *CLITestSuite) TestTenantList_ObscuresKey() {
	s.connected()

	out, err := s.run("tenant", "list")

	s.NoError(err)
	s.Contains(out, "Mobile App")
	s.NotContains(out, "mfr_a1B2c3D4e5F6")
	s.Contains(out, "mfr_a1B2")
}

func (s *CLITestSuite) TestTenantCreate_RandomName() {
	s.connected()

	out, err := s.run("tenant", "create", "--random-name")

	s.NoError(err)
	s.Contains(out, "Created tenant t2")
}

func (s *CLITestSuite) TestConfigCreate_Template() {
	s.connected()

	out, err := s.run("config", "create", "--tenant", "t1", "--key", "app_settings", "--template", "mobile-app")

	s.NoError(err)
	s.Contains(out, "Created config cfg2")
	s.Equal("mobile-app", s.api.created.Template)
	s.Equal("t1", s.api.created.TenantID)
}

func (s *CLITestSuite) TestConfigDraft_FromStdin() {
	// Arrange
	s.connected()
	cmd := newRootCmd(s.app)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader(`{"enabled": true}`))
	cmd.SetArgs([]string{"config", "draft", "cfg1", "--file", "-"})

	// Act
	err := cmd.Execute()

	// Assert
	s.NoError(err)
	s.Equal(`{"enabled": true}`, s.api.draft)
}

func (s *CLITestSuite) TestConfigDraft_InvalidJSONNotSent() {
	s.connected()

	_, err := s.run("config", "draft", "cfg1", "--json", `{"enabled":`)

	s.Error(err)
	s.Empty(s.api.draft)
}

func (s *CLITestSuite) TestConfigTest_RefusesUnpublished() {
	s.connected()

	_, err := s.run("config", "test", "cfg1")

	s.Error(err)
	s.Contains(err.Error(), "never been published")
	s.Zero(s.api.fetched)
}

func (s *CLITestSuite) TestPublishThenTest() {
	s.connected()

	_, err := s.run("config", "publish", "cfg1")
	s.Require().NoError(err)
	out, err := s.run("config", "test", "cfg1")

	s.NoError(err)
	s.Contains(out, "200 OK")
	s.Contains(out, `"enabled": true`)
	s.Equal(1, s.api.fetched)
}

func (s *CLITestSuite) TestStats() {
	s.connected()

	out, err := s.run("stats")

	s.NoError(err)
	s.Contains(out, "Configs:        12")
	s.Contains(out, "Active tenants: 3")
}

func (s *CLITestSuite) TestUnknownStore() {
	s.app.openStore = s.app.defaultStore

	_, err := s.run("--store", "etcd", "logout")

	s.Error(err)
	s.Contains(err.Error(), "unknown credential store")
}

func TestRootCmdHelp(t *testing.T) {
	cmd := newRootCmd(newApp(config.DefaultCLIConfig()))
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	for _, sub := range []string{"setup", "tenant", "config", "events"} {
		if !strings.Contains(buf.String(), sub) {
			t.Errorf("expected help to list %q", sub)
		}
	}
}


func TestNewApp_BoundsRequests(t *testing.T) {
	a := newApp(config.DefaultCLIConfig())

	if a.httpClient == nil || a.httpClient.Timeout != requestTimeout {
		t.Fatalf("expected an HTTP client with a %s timeout, got %+v", requestTimeout, a.httpClient)
	}
}
