package domain

import "time"

type EventType string

const (
	EventConfigPublished  EventType = "config.published"
	EventConfigDraftSaved EventType = "config.draft_saved"
	EventConfigDeleted    EventType = "config.deleted"
)

// PublishEvent is broadcast to console listeners after a config changes.
type PublishEvent struct {
	Type            EventType  `json:"type"`
	ConfigID        string     `json:"config_id"`
	TenantID        string     `json:"tenant_id"`
	KeyName         string     `json:"key_name"`
	LastPublishedAt *time.Time `json:"last_published_at,omitempty"`
	OccurredAt      time.Time  `json:"occurred_at"`
}
