package postgres

import (
	"gorm.io/gorm"

	"github.com/kingrain94/remote-config-api/internal/config"
	"github.com/kingrain94/remote-config-api/internal/repository"
)

type postgresRepository struct {
	tenantRepo    repository.TenantRepository
	appConfigRepo repository.AppConfigRepository
	userRepo      repository.UserRepository
	schema        repository.SchemaInspector
}

func NewPostgresRepository(dbConnections *config.DatabaseConnections) repository.PostgresRepository {
	return &postgresRepository{
		tenantRepo:    NewTenantRepository(dbConnections.Writer, dbConnections.Reader),
		appConfigRepo: NewAppConfigRepository(dbConnections.Writer, dbConnections.Reader),
		userRepo:      NewUserRepository(dbConnections.Writer, dbConnections.Reader),
		schema:        NewSchemaInspector(dbConnections.Writer),
	}
}

// NewFromDB wires every repository to a single handle.
func NewFromDB(db *gorm.DB) repository.PostgresRepository {
	return NewPostgresRepository(config.SingleConnection(db))
}

func (r *postgresRepository) Tenant() repository.TenantRepository {
	return r.tenantRepo
}

func (r *postgresRepository) AppConfig() repository.AppConfigRepository {
	return r.appConfigRepo
}

func (r *postgresRepository) User() repository.UserRepository {
	return r.userRepo
}

func (r *postgresRepository) Schema() repository.SchemaInspector {
	return r.schema
}
