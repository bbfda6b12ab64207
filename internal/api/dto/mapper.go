package dto

import (
	"encoding/json"

	"github.com/kingrain94/remote-config-api/internal/domain"
)

func FromTenant(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		APIKey:    t.APIKey,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func FromTenants(tenants []domain.Tenant) []TenantResponse {
	resp := make([]TenantResponse, len(tenants))
	for i := range tenants {
		resp[i] = FromTenant(&tenants[i])
	}
	return resp
}

func FromAppConfig(c *domain.AppConfig, tenantName string) ConfigResponse {
	return ConfigResponse{
		ID:              c.ID,
		TenantID:        c.TenantID,
		TenantName:      tenantName,
		KeyName:         c.KeyName,
		DraftJSON:       rawOrEmpty(c.DraftJSON),
		PublishedJSON:   rawOrEmpty(c.PublishedJSON),
		Published:       c.IsPublished(),
		LastPublishedAt: c.LastPublishedAt,
		RequestCount:    c.RequestCount,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func FromAppConfigWithTenant(c *domain.AppConfigWithTenant) ConfigResponse {
	return FromAppConfig(&c.AppConfig, c.TenantName)
}

func FromAppConfigsWithTenant(configs []domain.AppConfigWithTenant) []ConfigResponse {
	resp := make([]ConfigResponse, len(configs))
	for i := range configs {
		resp[i] = FromAppConfigWithTenant(&configs[i])
	}
	return resp
}

func FromStats(s *domain.Stats) StatsResponse {
	return StatsResponse{
		TotalConfigs:  s.TotalConfigs,
		TotalRequests: s.TotalRequests,
		ActiveTenants: s.ActiveTenants,
	}
}

func FromUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

func rawOrEmpty(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(b)
}
