package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/kingrain94/remote-config-api/internal/domain"
)

// Models lists every table the service owns, in creation order.
var Models = []any{&domain.Tenant{}, &domain.AppConfig{}, &domain.User{}}

type SchemaInspector struct {
	writerDB *gorm.DB
}

func NewSchemaInspector(writerDB *gorm.DB) *SchemaInspector {
	return &SchemaInspector{writerDB: writerDB}
}

func (s *SchemaInspector) Ping(ctx context.Context) error {
	sqlDB, err := s.writerDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *SchemaInspector) HasTables(ctx context.Context, tables ...string) (map[string]bool, error) {
	migrator := s.writerDB.WithContext(ctx).Migrator()
	present := make(map[string]bool, len(tables))
	for _, table := range tables {
		present[table] = migrator.HasTable(table)
	}
	return present, nil
}

func (s *SchemaInspector) Migrate(ctx context.Context) error {
	if err := s.writerDB.WithContext(ctx).AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
