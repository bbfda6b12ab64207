package service

import "errors"

var (
	// Tenant errors
	ErrTenantNotFound = errors.New("tenant not found")
	ErrNameRequired   = errors.New("name is required")

	// Config errors
	ErrConfigNotFound    = errors.New("config not found")
	ErrKeyNameRequired   = errors.New("key_name is required")
	ErrDuplicateKeyName  = errors.New("a config with this key_name already exists for the tenant")
	ErrInvalidJSON       = errors.New("draft is not valid JSON")
	ErrNotPublished      = errors.New("config has not been published")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrSearchUnavailable = errors.New("search is not configured")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrUserNotFound       = errors.New("user not found")
)
