package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/repository"
	"github.com/kingrain94/remote-config-api/pkg/utils"
)

const (
	PlaceholderAPIKey = "your-anon-key"
	RPCProcedure      = "get_published_config"

	obscureVisible = 8
	obscureMaxMask = 20
)

// IntegrationService renders the snippets an external application uses to
// fetch a published config. It never performs the fetch itself.
type IntegrationService struct {
	repo    repository.Repository
	baseURL string
	apiKey  string
	now     func() time.Time
}

func NewIntegrationService(repo repository.Repository, baseURL, apiKey string) *IntegrationService {
	return &IntegrationService{
		repo:    repo,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		now:     time.Now,
	}
}

func (s *IntegrationService) Get(ctx context.Context, configID string) (dto.IntegrationResponse, error) {
	cfg, err := s.repo.AppConfig().GetByID(ctx, configID)
	if err != nil {
		return dto.IntegrationResponse{}, mapConfigError(err)
	}
	return BuildIntegration(&cfg.AppConfig, s.baseURL, s.apiKey, s.now()), nil
}

// BuildIntegration is the pure form of Get.
func BuildIntegration(cfg *domain.AppConfig, baseURL, apiKey string, now time.Time) dto.IntegrationResponse {
	baseURL = strings.TrimRight(baseURL, "/")
	key := apiKey
	if key == "" {
		key = PlaceholderAPIKey
	}

	rest := RestEndpoint(baseURL, cfg.TenantID, cfg.KeyName)
	rpc := RPCEndpoint(baseURL)
	body := fmt.Sprintf(`{"tenant_id":%q,"key_name":%q}`, cfg.TenantID, cfg.KeyName)

	return dto.IntegrationResponse{
		ConfigID:           cfg.ID,
		TenantID:           cfg.TenantID,
		KeyName:            cfg.KeyName,
		Published:          cfg.IsPublished(),
		RequestCount:       cfg.RequestCount,
		LastPublishedAt:    cfg.LastPublishedAt,
		LastPublishedLabel: utils.RelativeTime(cfg.LastPublishedAt, now),
		ObscuredAPIKey:     ObscureKey(apiKey),
		RestEndpoint:       rest,
		RPCEndpoint:        rpc,
		RPCBody:            body,
		Snippets: []dto.Snippet{
			{Language: "curl", Shape: "rest", Code: curlRest(rest, key)},
			{Language: "curl", Shape: "rpc", Code: curlRPC(rpc, body, key)},
			{Language: "javascript", Shape: "rest", Code: jsRest(rest, key)},
			{Language: "javascript", Shape: "rpc", Code: jsRPC(rpc, body, key)},
			{Language: "python", Shape: "rest", Code: pythonRest(rest, key)},
			{Language: "python", Shape: "rpc", Code: pythonRPC(rpc, cfg, key)},
			{Language: "go", Shape: "rest", Code: goRest(rest, key)},
			{Language: "go", Shape: "rpc", Code: goRPC(rpc, body, key)},
		},
	}
}

// RestEndpoint is the table-filter URL. The response is an array; callers
// take element 0.
func RestEndpoint(baseURL, tenantID, keyName string) string {
	return fmt.Sprintf("%s/rest/v1/app_configs?key_name=eq.%s&tenant_id=eq.%s&select=published_json",
		strings.TrimRight(baseURL, "/"), url.QueryEscape(keyName), url.QueryEscape(tenantID))
}

// RPCEndpoint returns the published object directly.
func RPCEndpoint(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/rest/v1/rpc/" + RPCProcedure
}

// ObscureKey keeps the first eight characters and masks up to twenty more.
func ObscureKey(key string) string {
	if key == "" {
		return "Not set"
	}
	runes := []rune(key)
	if len(runes) <= obscureVisible {
		return strings.Repeat("•", obscureVisible)
	}
	return string(runes[:obscureVisible]) + strings.Repeat("•", min(len(runes)-obscureVisible, obscureMaxMask))
}

func curlRest(endpoint, key string) string {
	return fmt.Sprintf("curl -X GET \"%s\" \\\n  -H \"apikey: %s\"", endpoint, key)
}

func curlRPC(endpoint, body, key string) string {
	return fmt.Sprintf("curl -X POST \"%s\" \\\n  -H \"apikey: %s\" \\\n  -H \"Content-Type: application/json\" \\\n  -d '%s'",
		endpoint, key, body)
}

func jsRest(endpoint, key string) string {
	return fmt.Sprintf(`const res = await fetch(%q, {
  headers: { apikey: %q },
});
const rows = await res.json();
const config = rows[0]?.published_json;`, endpoint, key)
}

func jsRPC(endpoint, body, key string) string {
	return fmt.Sprintf(`const res = await fetch(%q, {
  method: "POST",
  headers: { apikey: %q, "Content-Type": "application/json" },
  body: JSON.stringify(%s),
});
const config = await res.json();`, endpoint, key, body)
}

func pythonRest(endpoint, key string) string {
	return fmt.Sprintf(`import requests

res = requests.get(%q, headers={"apikey": %q})
res.raise_for_status()
rows = res.json()
config = rows[0]["published_json"] if rows else None`, endpoint, key)
}

func pythonRPC(endpoint string, cfg *domain.AppConfig, key string) string {
	return fmt.Sprintf(`import requests

res = requests.post(
    %q,
    headers={"apikey": %q},
    json={"tenant_id": %q, "key_name": %q},
)
res.raise_for_status()
config = res.json()`, endpoint, key, cfg.TenantID, cfg.KeyName)
}

func goRest(endpoint, key string) string {
	return fmt.Sprintf(`req, _ := http.NewRequest(http.MethodGet, %q, nil)
req.Header.Set("apikey", %q)

res, err := http.DefaultClient.Do(req)
if err != nil {
	return err
}
defer res.Body.Close()

var rows []struct {
	PublishedJSON json.RawMessage `+"`json:\"published_json\"`"+`
}
if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
	return err
}`, endpoint, key)
}

func goRPC(endpoint, body, key string) string {
	return fmt.Sprintf(`req, _ := http.NewRequest(http.MethodPost, %q, strings.NewReader(%q))
req.Header.Set("apikey", %q)
req.Header.Set("Content-Type", "application/json")

res, err := http.DefaultClient.Do(req)
if err != nil {
	return err
}
defer res.Body.Close()

var config map[string]any
if err := json.NewDecoder(res.Body).Decode(&config); err != nil {
	return err
}`, endpoint, body, key)
}
