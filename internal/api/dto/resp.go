package dto

import (
	"encoding/json"
	"time"
)

type UserResponse struct {
	ID    string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email string `json:"email" example:"operator@remote-config.local"`
	Role  string `json:"role" example:"operator"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at" example:"2025-07-17T21:20:48Z"`
	User      UserResponse `json:"user"`
}

type TenantResponse struct {
	ID        string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string    `json:"name" example:"Mobile App"`
	APIKey    string    `json:"api_key" example:"mfr_a1B2c3D4e5F6"`
	CreatedAt time.Time `json:"created_at" example:"2025-07-17T21:20:48Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2025-07-17T21:20:48Z"`
}

type ConfigResponse struct {
	ID              string          `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TenantID        string          `json:"tenant_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TenantName      string          `json:"tenant_name,omitempty" example:"Mobile App"`
	KeyName         string          `json:"key_name" example:"homepage_flags"`
	DraftJSON       json.RawMessage `json:"draft_json" swaggertype:"string" example:"{\"enabled\":true}"`
	PublishedJSON   json.RawMessage `json:"published_json" swaggertype:"string" example:"{}"`
	Published       bool            `json:"published" example:"false"`
	LastPublishedAt *time.Time      `json:"last_published_at" example:"2025-07-17T21:20:48Z"`
	RequestCount    int64           `json:"request_count" example:"42"`
	CreatedAt       time.Time       `json:"created_at" example:"2025-07-17T21:20:48Z"`
	UpdatedAt       time.Time       `json:"updated_at" example:"2025-07-17T21:20:48Z"`
}

type StatsResponse struct {
	TotalConfigs  int64 `json:"total_configs" example:"12"`
	TotalRequests int64 `json:"total_requests" example:"3400"`
	ActiveTenants int64 `json:"active_tenants" example:"3"`
}

type Snippet struct {
	Language string `json:"language" example:"curl"`
	// Shape is "rest" for the table filter or "rpc" for the procedure call.
	Shape string `json:"shape" example:"rest"`
	Code  string `json:"code"`
}

type IntegrationResponse struct {
	ConfigID           string     `json:"config_id"`
	TenantID           string     `json:"tenant_id"`
	KeyName            string     `json:"key_name"`
	Published          bool       `json:"published"`
	RequestCount       int64      `json:"request_count"`
	LastPublishedAt    *time.Time `json:"last_published_at"`
	LastPublishedLabel string     `json:"last_published_label" example:"5 mins ago"`
	ObscuredAPIKey     string     `json:"obscured_api_key" example:"mfr_a1B2••••"`
	RestEndpoint       string     `json:"rest_endpoint"`
	RPCEndpoint        string     `json:"rpc_endpoint"`
	RPCBody            string     `json:"rpc_body"`
	Snippets           []Snippet  `json:"snippets"`
}

type TemplateResponse struct {
	Type        string          `json:"type" example:"mobile-app"`
	Name        string          `json:"name" example:"Mobile App Parameters"`
	Description string          `json:"description"`
	JSON        json.RawMessage `json:"json,omitempty" swaggertype:"string"`
}

type SetupStatusResponse struct {
	DatabaseReachable  bool            `json:"database_reachable"`
	Tables             map[string]bool `json:"tables"`
	DefaultUserPresent bool            `json:"default_user_present"`
	Ready              bool            `json:"ready"`
}

// PublishedConfigRow is one element of the table-shaped read response.
type PublishedConfigRow struct {
	PublishedJSON json.RawMessage `json:"published_json" swaggertype:"string"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
