package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kingrain94/remote-config-api/internal/domain"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

//go:generate mockery --name TenantRepository --output ../mocks
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error)
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	Update(ctx context.Context, tenant *domain.Tenant) error
	// Delete removes the tenant and every config it owns.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Tenant, error)
}

//go:generate mockery --name AppConfigRepository --output ../mocks
type AppConfigRepository interface {
	Create(ctx context.Context, cfg *domain.AppConfig) (*domain.AppConfig, error)
	GetByID(ctx context.Context, id string) (*domain.AppConfigWithTenant, error)
	List(ctx context.Context, filter domain.AppConfigFilter) ([]domain.AppConfigWithTenant, error)
	UpdateKeyName(ctx context.Context, id, keyName string) (*domain.AppConfig, error)
	SaveDraft(ctx context.Context, id string, draft []byte) (*domain.AppConfig, error)
	// Publish copies draft_json into published_json and stamps
	// last_published_at, never moving it backwards.
	Publish(ctx context.Context, id string, now time.Time) (*domain.AppConfig, error)
	Delete(ctx context.Context, id string) (*domain.AppConfig, error)
	// FindPublished returns the config only when it has been published.
	FindPublished(ctx context.Context, tenantID, keyName string) (*domain.AppConfig, error)
	IncrementRequestCount(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.Stats, error)
}

//go:generate mockery --name UserRepository --output ../mocks
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

//go:generate mockery --name SearchRepository --output ../mocks
type SearchRepository interface {
	Index(ctx context.Context, cfg *domain.AppConfigWithTenant) error
	BulkIndex(ctx context.Context, cfgs []domain.AppConfigWithTenant) error
	Search(ctx context.Context, filter domain.AppConfigFilter) ([]domain.AppConfigWithTenant, error)
	Delete(ctx context.Context, id string) error
	CreateIndex(ctx context.Context) error
}

//go:generate mockery --name SchemaInspector --output ../mocks
type SchemaInspector interface {
	Ping(ctx context.Context) error
	HasTables(ctx context.Context, tables ...string) (map[string]bool, error)
	Migrate(ctx context.Context) error
}

//go:generate mockery --name PostgresRepository --output ../mocks
type PostgresRepository interface {
	Tenant() TenantRepository
	AppConfig() AppConfigRepository
	User() UserRepository
	Schema() SchemaInspector
}

//go:generate mockery --name Repository --output ../mocks
type Repository interface {
	PostgresRepository
	Search() SearchRepository
}
