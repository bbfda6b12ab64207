package domain

type Stats struct {
	TotalConfigs  int64 `json:"total_configs"`
	TotalRequests int64 `json:"total_requests"`
	ActiveTenants int64 `json:"active_tenants"`
}
