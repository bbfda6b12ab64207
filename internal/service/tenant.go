package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/repository"
	"github.com/kingrain94/remote-config-api/internal/templates"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

type TenantService struct {
	repo     repository.Repository
	notifier *changeNotifier
}

func NewTenantService(repo repository.Repository, queue QueueService, events EventPublisher, log *logger.Logger) *TenantService {
	return &TenantService{
		repo:     repo,
		notifier: &changeNotifier{events: events, queue: queue, logger: log, now: time.Now},
	}
}

func (s *TenantService) Create(ctx context.Context, req dto.CreateTenantRequest) (dto.TenantResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return dto.TenantResponse{}, ErrNameRequired
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		generated, err := templates.GenerateAPIKey(templates.DefaultAPIKeyLength)
		if err != nil {
			return dto.TenantResponse{}, fmt.Errorf("failed to generate api key: %w", err)
		}
		apiKey = generated
	}

	tenant, err := s.repo.Tenant().Create(ctx, &domain.Tenant{Name: name, APIKey: apiKey})
	if err != nil {
		return dto.TenantResponse{}, fmt.Errorf("failed to create tenant: %w", err)
	}

	return dto.FromTenant(tenant), nil
}

func (s *TenantService) GetByID(ctx context.Context, id string) (dto.TenantResponse, error) {
	tenant, err := s.repo.Tenant().GetByID(ctx, id)
	if err != nil {
		return dto.TenantResponse{}, mapTenantError(err)
	}
	return dto.FromTenant(tenant), nil
}

func (s *TenantService) Update(ctx context.Context, id string, req dto.UpdateTenantRequest) (dto.TenantResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return dto.TenantResponse{}, ErrNameRequired
	}

	tenant, err := s.repo.Tenant().GetByID(ctx, id)
	if err != nil {
		return dto.TenantResponse{}, mapTenantError(err)
	}

	tenant.Name = name
	if apiKey := strings.TrimSpace(req.APIKey); apiKey != "" {
		tenant.APIKey = apiKey
	}
	tenant.UpdatedAt = time.Now().UTC()

	if err := s.repo.Tenant().Update(ctx, tenant); err != nil {
		return dto.TenantResponse{}, mapTenantError(err)
	}
	return dto.FromTenant(tenant), nil
}

// Delete removes the tenant and, with it, every config it owns.
func (s *TenantService) Delete(ctx context.Context, id string) error {
	owned, err := s.repo.AppConfig().List(ctx, domain.AppConfigFilter{TenantID: id})
	if err != nil {
		return fmt.Errorf("failed to list tenant configs: %w", err)
	}

	if err := s.repo.Tenant().Delete(ctx, id); err != nil {
		return mapTenantError(err)
	}

	for i := range owned {
		s.notifier.deleted(ctx, &owned[i].AppConfig)
	}
	return nil
}

func (s *TenantService) List(ctx context.Context) ([]dto.TenantResponse, error) {
	tenants, err := s.repo.Tenant().List(ctx)
	if err != nil {
		return []dto.TenantResponse{}, err
	}
	return dto.FromTenants(tenants), nil
}

func mapTenantError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTenantNotFound
	}
	return err
}
