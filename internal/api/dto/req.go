package dto

import "encoding/json"

type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"operator@remote-config.local"`
	Password string `json:"password" binding:"required" example:"remote-config-operator"`
}

type CreateTenantRequest struct {
	Name string `json:"name" binding:"required" example:"Mobile App"`
	// APIKey is generated when left blank.
	APIKey string `json:"api_key" example:"mfr_a1B2c3D4e5F6"`
}

type UpdateTenantRequest struct {
	Name   string `json:"name" binding:"required" example:"Mobile App"`
	APIKey string `json:"api_key" example:"mfr_a1B2c3D4e5F6"`
}

type CreateConfigRequest struct {
	TenantID string          `json:"tenant_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	KeyName  string          `json:"key_name" binding:"required" example:"homepage_flags"`
	Draft    json.RawMessage `json:"draft_json,omitempty" swaggertype:"string" example:"{\"enabled\":true}"`
	// Template seeds the draft from a named starter document.
	Template string `json:"template,omitempty" example:"mobile-app"`
}

type UpdateConfigRequest struct {
	KeyName string `json:"key_name" binding:"required" example:"homepage_flags"`
}

// SaveDraftRequest carries either an already-parsed JSON value or the raw
// editor text. Text is validated before it is stored.
type SaveDraftRequest struct {
	Draft     json.RawMessage `json:"draft_json,omitempty" swaggertype:"string" example:"{\"enabled\":true}"`
	DraftText *string         `json:"draft_text,omitempty" example:"{\"enabled\": true}"`
}

// PublishedConfigRequest is the body of the get_published_config procedure.
type PublishedConfigRequest struct {
	TenantID string `json:"tenant_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	KeyName  string `json:"key_name" binding:"required" example:"homepage_flags"`
}
