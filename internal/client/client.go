// Package client is the Go SDK for the console and public read APIs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
)

const (
	consolePrefix = "/api/v1"
	publicPrefix  = "/rest/v1"
	apiKeyHeader  = "apikey"
)

// ErrInvalidJSON is returned before any request when a draft does not parse.
var ErrInvalidJSON = errors.New("draft is not valid JSON")

// APIError is any failed call: transport errors carry StatusCode 0.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.StatusCode == 0 {
		return "request failed: " + msg
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, msg)
}

// IsCredentialsError reports whether err means the saved connection or
// sign-in is wrong, so the caller should send the user back to setup.
func IsCredentialsError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized ||
		strings.Contains(strings.ToLower(apiErr.Message), "credentials")
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New builds a client for one deployment. apiKey is the public key sent
// on /rest/v1 calls.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("missing endpoint url")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.New("invalid endpoint url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("invalid endpoint url scheme")
	}
	if u.Host == "" {
		return nil, errors.New("invalid endpoint url host")
	}

	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	public  bool
	noToken bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &APIError{Message: err.Error()}
		}
		*raw = data
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "invalid response body: " + err.Error()}
	}
	return nil
}

// send returns the response only for 2xx statuses; the caller closes it.
func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	prefix := consolePrefix
	if r.public {
		prefix = publicPrefix
	}
	target := c.baseURL + prefix + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.public {
		req.Header.Set(apiKeyHeader, c.apiKey)
	} else if token := c.Token(); token != "" && !r.noToken {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		return nil, readAPIError(resp)
	}
	return resp, nil
}

func readAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload dto.Error
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: string(data)}
}

// SignIn exchanges the operator pair for a token kept on the client.
func (c *Client) SignIn(ctx context.Context, email, password string) (dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/auth/login",
		body:    dto.LoginRequest{Email: email, Password: password},
		noToken: true,
	}, &out)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	c.setToken(out.Token)
	return out, nil
}

func (c *Client) ListTenants(ctx context.Context) ([]dto.TenantResponse, error) {
	var out []dto.TenantResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/tenants"}, &out)
	return out, err
}

func (c *Client) GetTenant(ctx context.Context, id string) (dto.TenantResponse, error) {
	var out dto.TenantResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/tenants/" + url.PathEscape(id)}, &out)
	return out, err
}

func (c *Client) CreateTenant(ctx context.Context, req dto.CreateTenantRequest) (dto.TenantResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return dto.TenantResponse{}, errors.New("tenant name is required")
	}
	var out dto.TenantResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/tenants", body: req}, &out)
	return out, err
}

func (c *Client) UpdateTenant(ctx context.Context, id string, req dto.UpdateTenantRequest) (dto.TenantResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return dto.TenantResponse{}, errors.New("tenant name is required")
	}
	var out dto.TenantResponse
	err := c.do(ctx, request{method: http.MethodPut, path: "/tenants/" + url.PathEscape(id), body: req}, &out)
	return out, err
}

func (c *Client) DeleteTenant(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/tenants/" + url.PathEscape(id)}, nil)
}

type ConfigFilter struct {
	TenantID  string
	Query     string
	Published *bool
	Limit     int
	Offset    int
}

func (f ConfigFilter) values() url.Values {
	q := url.Values{}
	if f.TenantID != "" {
		q.Set("tenant_id", f.TenantID)
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Published != nil {
		q.Set("published", strconv.FormatBool(*f.Published))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	return q
}

func (c *Client) ListConfigs(ctx context.Context, filter ConfigFilter) ([]dto.ConfigResponse, error) {
	var out []dto.ConfigResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/configs", query: filter.values()}, &out)
	return out, err
}

func (c *Client) GetConfig(ctx context.Context, id string) (dto.ConfigResponse, error) {
	var out dto.ConfigResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/configs/" + url.PathEscape(id)}, &out)
	return out, err
}

func (c *Client) CreateConfig(ctx context.Context, req dto.CreateConfigRequest) (dto.ConfigResponse, error) {
	if strings.TrimSpace(req.KeyName) == "" {
		return dto.ConfigResponse{}, errors.New("key name is required")
	}
	if len(req.Draft) > 0 && !json.Valid(req.Draft) {
		return dto.ConfigResponse{}, ErrInvalidJSON
	}
	var out dto.ConfigResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/configs", body: req}, &out)
	return out, err
}

func (c *Client) UpdateConfig(ctx context.Context, id, keyName string) (dto.ConfigResponse, error) {
	if strings.TrimSpace(keyName) == "" {
		return dto.ConfigResponse{}, errors.New("key name is required")
	}
	var out dto.ConfigResponse
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/configs/" + url.PathEscape(id),
		body:   dto.UpdateConfigRequest{KeyName: keyName},
	}, &out)
	return out, err
}

// SaveDraft sends editor text as the new draft. Text that does not parse
// never leaves the process.
func (c *Client) SaveDraft(ctx context.Context, id, text string) (dto.ConfigResponse, error) {
	if !json.Valid([]byte(text)) {
		return dto.ConfigResponse{}, ErrInvalidJSON
	}
	var out dto.ConfigResponse
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/configs/" + url.PathEscape(id) + "/draft",
		body:   dto.SaveDraftRequest{DraftText: &text},
	}, &out)
	return out, err
}

func (c *Client) Publish(ctx context.Context, id string) (dto.ConfigResponse, error) {
	var out dto.ConfigResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/configs/" + url.PathEscape(id) + "/publish"}, &out)
	return out, err
}

func (c *Client) DeleteConfig(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/configs/" + url.PathEscape(id)}, nil)
}

func (c *Client) Stats(ctx context.Context) (dto.StatsResponse, error) {
	var out dto.StatsResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/stats"}, &out)
	return out, err
}

func (c *Client) Integration(ctx context.Context, configID string) (dto.IntegrationResponse, error) {
	var out dto.IntegrationResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/configs/" + url.PathEscape(configID) + "/integration"}, &out)
	return out, err
}

func (c *Client) Templates(ctx context.Context) ([]dto.TemplateResponse, error) {
	var out []dto.TemplateResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/templates"}, &out)
	return out, err
}

func (c *Client) Template(ctx context.Context, templateType string) (dto.TemplateResponse, error) {
	var out dto.TemplateResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/templates/" + url.PathEscape(templateType)}, &out)
	return out, err
}

func (c *Client) SetupSQL(ctx context.Context) (string, error) {
	var raw json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/setup/sql", noToken: true}, &raw); err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *Client) SetupStatus(ctx context.Context) (dto.SetupStatusResponse, error) {
	var out dto.SetupStatusResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/setup/status", noToken: true}, &out)
	return out, err
}

// FetchPublished reads a config through the public procedure endpoint, the
// same call integrators make.
func (c *Client) FetchPublished(ctx context.Context, tenantID, keyName string) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rpc/get_published_config",
		body:   dto.PublishedConfigRequest{TenantID: tenantID, KeyName: keyName},
		public: true,
	}, &raw)
	return raw, err
}
