package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AppConfig is one named JSON document owned by a tenant. DraftJSON is the
// editable copy; PublishedJSON is what the read API serves, and only once
// LastPublishedAt is set.
type AppConfig struct {
	ID              string         `gorm:"primaryKey;type:uuid" json:"id"`
	TenantID        string         `gorm:"type:uuid;not null;uniqueIndex:idx_app_configs_tenant_key" json:"tenant_id"`
	KeyName         string         `gorm:"type:text;not null;uniqueIndex:idx_app_configs_tenant_key" json:"key_name"`
	DraftJSON       datatypes.JSON `gorm:"column:draft_json;not null" json:"draft_json"`
	PublishedJSON   datatypes.JSON `gorm:"column:published_json;not null" json:"published_json"`
	LastPublishedAt *time.Time     `json:"last_published_at"`
	RequestCount    int64          `gorm:"not null;default:0" json:"request_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (AppConfig) TableName() string {
	return "app_configs"
}

func (c *AppConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// IsPublished reports whether the read API serves this config.
func (c *AppConfig) IsPublished() bool {
	return c.LastPublishedAt != nil
}

// AppConfigWithTenant is the list/detail projection carrying the owning
// tenant's name.
type AppConfigWithTenant struct {
	AppConfig
	TenantName string `gorm:"column:tenant_name" json:"tenant_name"`
}

type AppConfigFilter struct {
	TenantID     string    `json:"tenant_id"`
	Query        string    `json:"query"`
	Published    *bool     `json:"published"`
	UpdatedSince time.Time `json:"updated_since"`
	Limit        int       `json:"limit"`
	Offset       int       `json:"offset"`
}

// HasSearchCriteria reports whether the filter needs the search index.
func (f AppConfigFilter) HasSearchCriteria() bool {
	return f.Query != ""
}
