package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/datatypes"

	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/repository"
	"github.com/kingrain94/remote-config-api/internal/testutil"
)

type TenantRepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	tenants *TenantRepository
	configs *AppConfigRepository
	users   *UserRepository
	schema  *SchemaInspector
}

func (s *TenantRepositoryTestSuite) SetupTest() {
	db := testutil.OpenSQLite(s.T())
	s.ctx = context.Background()
	s.tenants = NewTenantRepository(db, db)
	s.configs = NewAppConfigRepository(db, db)
	s.users = NewUserRepository(db, db)
	s.schema = NewSchemaInspector(db)
}

func TestTenantRepositorySuite(t *testing.T) {
	suite.Run(t, new(TenantRepositoryTestSuite))
}

func (s *TenantRepositoryTestSuite) TestCreateAndGet() {
	created, err := s.tenants.Create(s.ctx, &domain.Tenant{Name: "Mobile App", APIKey: "mfr_abcdefghijkl"})
	s.Require().NoError(err)
	s.NotEmpty(created.ID)

	got, err := s.tenants.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Mobile App", got.Name)
	s.Equal("mfr_abcdefghijkl", got.APIKey)
}

func (s *TenantRepositoryTestSuite) TestGetByID_NotFound() {
	_, err := s.tenants.GetByID(s.ctx, "missing")
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *TenantRepositoryTestSuite) TestList_NewestFirst() {
	older, err := s.tenants.Create(s.ctx, &domain.Tenant{Name: "Older", APIKey: "k1", CreatedAt: time.Now().UTC().Add(-time.Hour)})
	s.Require().NoError(err)
	newer, err := s.tenants.Create(s.ctx, &domain.Tenant{Name: "Newer", APIKey: "k2"})
	s.Require().NoError(err)

	tenants, err := s.tenants.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(tenants, 2)
	s.Equal(newer.ID, tenants[0].ID)
	s.Equal(older.ID, tenants[1].ID)
}

func (s *TenantRepositoryTestSuite) TestUpdate() {
	created, err := s.tenants.Create(s.ctx, &domain.Tenant{Name: "Before", APIKey: "k1"})
	s.Require().NoError(err)

	created.Name = "After"
	created.UpdatedAt = time.Now()
	s.Require().NoError(s.tenants.Update(s.ctx, created))

	got, err := s.tenants.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("After", got.Name)

	s.ErrorIs(s.tenants.Update(s.ctx, &domain.Tenant{ID: "missing", Name: "x"}), repository.ErrNotFound)
}

func (s *TenantRepositoryTestSuite) TestDelete_CascadesConfigs() {
	doomed, err := s.tenants.Create(s.ctx, &domain.Tenant{Name: "Doomed", APIKey: "k1"})
	s.Require().NoError(err)
	kept, err := s.tenants.Create(s.ctx, &domain.Tenant{Name: "Kept", APIKey: "k2"})
	s.Require().NoError(err)

	for i, tenantID := range []string{doomed.ID, doomed.ID, kept.ID} {
		_, err := s.configs.Create(s.ctx, &domain.AppConfig{
			TenantID:      tenantID,
			KeyName:       fmt.Sprintf("cfg_%d", i),
			DraftJSON:     datatypes.JSON(`{}`),
			PublishedJSON: datatypes.JSON(`{}`),
		})
		s.Require().NoError(err)
	}

	s.Require().NoError(s.tenants.Delete(s.ctx, doomed.ID))

	remaining, err := s.configs.List(s.ctx, domain.AppConfigFilter{TenantID: doomed.ID})
	s.Require().NoError(err)
	s.Empty(remaining)

	others, err := s.configs.List(s.ctx, domain.AppConfigFilter{TenantID: kept.ID})
	s.Require().NoError(err)
	s.Len(others, 1)

	s.ErrorIs(s.tenants.Delete(s.ctx, doomed.ID), repository.ErrNotFound)
}

func (s *TenantRepositoryTestSuite) TestUsers() {
	user := &domain.User{Email: "operator@remote-config.local", PasswordHash: "hash", Role: domain.RoleOperator}
	s.Require().NoError(s.users.Create(s.ctx, user))
	s.NotEmpty(user.ID)

	got, err := s.users.GetByEmail(s.ctx, "operator@remote-config.local")
	s.Require().NoError(err)
	s.Equal(user.ID, got.ID)

	byID, err := s.users.GetByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(domain.RoleOperator, byID.Role)

	_, err = s.users.GetByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, repository.ErrNotFound)

	s.ErrorIs(s.users.Create(s.ctx, &domain.User{Email: user.Email, PasswordHash: "x"}), repository.ErrDuplicate)
}

func (s *TenantRepositoryTestSuite) TestSchemaInspector() {
	s.Require().NoError(s.schema.Ping(s.ctx))
	s.Require().NoError(s.schema.Migrate(s.ctx))

	present, err := s.schema.HasTables(s.ctx, "tenants", "app_configs", "users", "nope")
	s.Require().NoError(err)
	s.True(present["tenants"])
	s.True(present["app_configs"])
	s.True(present["users"])
	s.False(present["nope"])
}
