package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/mocks"
	"github.com/kingrain94/remote-config-api/internal/repository"
	"github.com/kingrain94/remote-config-api/internal/setup"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

const operatorEmail = "operator@remote-config.local"

type SetupServiceTestSuite struct {
	suite.Suite
	mockRepo   *mocks.Repository
	mockUser   *mocks.UserRepository
	mockSchema *mocks.SchemaInspector
	service    *SetupService
}

func (s *SetupServiceTestSuite) SetupTest() {
	s.mockRepo = new(mocks.Repository)
	s.mockUser = new(mocks.UserRepository)
	s.mockSchema = new(mocks.SchemaInspector)
	s.mockRepo.On("User").Return(s.mockUser)
	s.mockRepo.On("Schema").Return(s.mockSchema)

	s.service = NewSetupService(s.mockRepo, setup.Script, operatorEmail, "secret-pass", logger.NewNopLogger())
}

func TestSetupService(t *testing.T) {
	suite.Run(t, new(SetupServiceTestSuite))
}

func (s *SetupServiceTestSuite) TestScript() {
	sql, err := s.service.Script()
	s.NoError(err)
	s.Contains(sql, "app_configs")

	broken := NewSetupService(s.mockRepo, func() (string, error) { return "", errors.New("missing") }, operatorEmail, "", logger.NewNopLogger())
	_, err = broken.Script()
	s.ErrorIs(err, setup.ErrScriptUnavailable)
}

func (s *SetupServiceTestSuite) TestStatus_Ready() {
	// Arrange
	ctx := context.Background()
	s.mockSchema.On("Ping", ctx).Return(nil)
	s.mockSchema.On("HasTables", ctx, setup.RequiredTables).Return(map[string]bool{
		"tenants": true, "app_configs": true, "users": true,
	}, nil)
	s.mockUser.On("GetByEmail", ctx, operatorEmail).Return(&domain.User{Email: operatorEmail}, nil)

	// Act
	status := s.service.Status(ctx)

	// Assert
	s.True(status.DatabaseReachable)
	s.True(status.DefaultUserPresent)
	s.True(status.Ready)
}

func (s *SetupServiceTestSuite) TestStatus_MissingTables() {
	ctx := context.Background()
	s.mockSchema.On("Ping", ctx).Return(nil)
	s.mockSchema.On("HasTables", ctx, setup.RequiredTables).Return(map[string]bool{"tenants": true}, nil)

	status := s.service.Status(ctx)

	s.True(status.DatabaseReachable)
	s.False(status.Tables["app_configs"])
	s.False(status.Ready)
	s.mockUser.AssertNotCalled(s.T(), "GetByEmail", mock.Anything, mock.Anything)
}

func (s *SetupServiceTestSuite) TestStatus_Unreachable() {
	ctx := context.Background()
	s.mockSchema.On("Ping", ctx).Return(errors.New("dial tcp: refused"))

	status := s.service.Status(ctx)

	s.False(status.DatabaseReachable)
	s.Len(status.Tables, len(setup.RequiredTables))
	s.False(status.Ready)
}

func (s *SetupServiceTestSuite) TestBootstrap_CreatesOperator() {
	// Arrange
	ctx := context.Background()
	s.mockSchema.On("Migrate", ctx).Return(nil)
	s.mockUser.On("GetByEmail", ctx, operatorEmail).Return(nil, repository.ErrNotFound)
	s.mockUser.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == operatorEmail && u.Role == domain.RoleOperator &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret-pass")) == nil
	})).Return(nil)

	// Act
	err := s.service.Bootstrap(ctx)

	// Assert
	s.NoError(err)
	s.mockUser.AssertExpectations(s.T())
}

func (s *SetupServiceTestSuite) TestBootstrap_ExistingOperator() {
	ctx := context.Background()
	s.mockSchema.On("Migrate", ctx).Return(nil)
	s.mockUser.On("GetByEmail", ctx, operatorEmail).Return(&domain.User{Email: operatorEmail}, nil)

	s.NoError(s.service.Bootstrap(ctx))
	s.mockUser.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *SetupServiceTestSuite) TestBootstrap_MigrateFails() {
	ctx := context.Background()
	s.mockSchema.On("Migrate", ctx).Return(errors.New("permission denied"))

	s.Error(s.service.Bootstrap(ctx))
}
