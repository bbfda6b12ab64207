package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/mocks"
	"github.com/kingrain94/remote-config-api/internal/repository"
	"github.com/kingrain94/remote-config-api/internal/templates"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

type TenantServiceTestSuite struct {
	suite.Suite
	mockRepo   *mocks.Repository
	mockTenant *mocks.TenantRepository
	mockConfig *mocks.AppConfigRepository
	mockQueue  *mocks.QueueService
	mockEvents *mocks.EventPublisher
	service    *TenantService
}

func (s *TenantServiceTestSuite) SetupTest() {
	s.mockRepo = new(mocks.Repository)
	s.mockTenant = new(mocks.TenantRepository)
	s.mockConfig = new(mocks.AppConfigRepository)
	s.mockQueue = new(mocks.QueueService)
	s.mockEvents = new(mocks.EventPublisher)

	s.mockRepo.On("Tenant").Return(s.mockTenant)
	s.mockRepo.On("AppConfig").Return(s.mockConfig)

	s.service = NewTenantService(s.mockRepo, s.mockQueue, s.mockEvents, logger.NewNopLogger())
}

func TestTenantService(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}

func (s *TenantServiceTestSuite) TestCreate_GeneratesAPIKey() {
	// Arrange
	ctx := context.Background()
	s.mockTenant.On("Create", ctx, mock.MatchedBy(func(t *domain.Tenant) bool {
		return t.Name == "Mobile App" &&
			strings.HasPrefix(t.APIKey, templates.APIKeyPrefix) &&
			len(t.APIKey) == len(templates.APIKeyPrefix)+templates.DefaultAPIKeyLength
	})).Return(func(_ context.Context, t *domain.Tenant) *domain.Tenant {
		t.ID = "tenant1"
		t.CreatedAt = time.Now()
		t.UpdatedAt = t.CreatedAt
		return t
	}, nil)

	// Act
	resp, err := s.service.Create(ctx, dto.CreateTenantRequest{Name: "  Mobile App "})

	// Assert
	s.NoError(err)
	s.Equal("tenant1", resp.ID)
	s.Equal("Mobile App", resp.Name)
	s.mockTenant.AssertExpectations(s.T())
}

func (s *TenantServiceTestSuite) TestCreate_KeepsProvidedAPIKey() {
	ctx := context.Background()
	s.mockTenant.On("Create", ctx, mock.MatchedBy(func(t *domain.Tenant) bool {
		return t.APIKey == "mfr_custom"
	})).Return(&domain.Tenant{ID: "tenant1", Name: "Web", APIKey: "mfr_custom"}, nil)

	resp, err := s.service.Create(ctx, dto.CreateTenantRequest{Name: "Web", APIKey: "mfr_custom"})

	s.NoError(err)
	s.Equal("mfr_custom", resp.APIKey)
}

func (s *TenantServiceTestSuite) TestCreate_NameRequired() {
	_, err := s.service.Create(context.Background(), dto.CreateTenantRequest{Name: "   "})

	s.ErrorIs(err, ErrNameRequired)
	s.mockTenant.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *TenantServiceTestSuite) TestGetByID_Success() {
	// Arrange
	ctx := context.Background()
	expected := &domain.Tenant{ID: "tenant1", Name: "Test Tenant", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.mockTenant.On("GetByID", ctx, "tenant1").Return(expected, nil)

	// Act
	tenant, err := s.service.GetByID(ctx, "tenant1")

	// Assert
	s.NoError(err)
	s.Equal(expected.ID, tenant.ID)
	s.Equal(expected.Name, tenant.Name)
	s.mockTenant.AssertExpectations(s.T())
}

func (s *TenantServiceTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()
	s.mockTenant.On("GetByID", ctx, "missing").Return(nil, repository.ErrNotFound)

	_, err := s.service.GetByID(ctx, "missing")

	s.ErrorIs(err, ErrTenantNotFound)
}

func (s *TenantServiceTestSuite) TestUpdate_Success() {
	// Arrange
	ctx := context.Background()
	existing := &domain.Tenant{ID: "tenant1", Name: "Old", APIKey: "mfr_old"}
	s.mockTenant.On("GetByID", ctx, "tenant1").Return(existing, nil)
	s.mockTenant.On("Update", ctx, mock.MatchedBy(func(t *domain.Tenant) bool {
		return t.Name == "New" && t.APIKey == "mfr_old"
	})).Return(nil)

	// Act
	resp, err := s.service.Update(ctx, "tenant1", dto.UpdateTenantRequest{Name: "New"})

	// Assert
	s.NoError(err)
	s.Equal("New", resp.Name)
	s.mockTenant.AssertExpectations(s.T())
}

func (s *TenantServiceTestSuite) TestDelete_CascadesNotifications() {
	// Arrange
	ctx := context.Background()
	owned := []domain.AppConfigWithTenant{
		{AppConfig: domain.AppConfig{ID: "cfg1", TenantID: "tenant1"}},
		{AppConfig: domain.AppConfig{ID: "cfg2", TenantID: "tenant1"}},
	}
	s.mockConfig.On("List", ctx, domain.AppConfigFilter{TenantID: "tenant1"}).Return(owned, nil)
	s.mockTenant.On("Delete", ctx, "tenant1").Return(nil)
	s.mockEvents.On("Publish", ctx, mock.Anything).Return(nil)
	s.mockQueue.On("SendDeleteMessage", ctx, "cfg1", "tenant1").Return(nil)
	s.mockQueue.On("SendDeleteMessage", ctx, "cfg2", "tenant1").Return(nil)

	// Act
	err := s.service.Delete(ctx, "tenant1")

	// Assert
	s.NoError(err)
	s.mockTenant.AssertExpectations(s.T())
	s.mockQueue.AssertExpectations(s.T())
	s.mockEvents.AssertNumberOfCalls(s.T(), "Publish", 2)
}

func (s *TenantServiceTestSuite) TestDelete_NotFound() {
	ctx := context.Background()
	s.mockConfig.On("List", ctx, domain.AppConfigFilter{TenantID: "missing"}).Return([]domain.AppConfigWithTenant{}, nil)
	s.mockTenant.On("Delete", ctx, "missing").Return(repository.ErrNotFound)

	err := s.service.Delete(ctx, "missing")

	s.ErrorIs(err, ErrTenantNotFound)
}

func (s *TenantServiceTestSuite) TestList_Error() {
	ctx := context.Background()
	s.mockTenant.On("List", ctx).Return(nil, errors.New("db down"))

	resp, err := s.service.List(ctx)

	s.Error(err)
	s.Empty(resp)
}
