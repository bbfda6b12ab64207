package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/repository"
	"github.com/kingrain94/remote-config-api/internal/templates"
	"github.com/kingrain94/remote-config-api/pkg/logger"
	"github.com/kingrain94/remote-config-api/pkg/utils"
)

const emptyObject = `{}`

type AppConfigService struct {
	repo     repository.Repository
	notifier *changeNotifier
	logger   *logger.Logger
	now      func() time.Time
}

func NewAppConfigService(repo repository.Repository, queue QueueService, events EventPublisher, log *logger.Logger) *AppConfigService {
	return &AppConfigService{
		repo:     repo,
		notifier: &changeNotifier{events: events, queue: queue, logger: log, now: time.Now},
		logger:   log,
		now:      time.Now,
	}
}

// SetClock replaces the time source used for publish stamps.
func (s *AppConfigService) SetClock(now func() time.Time) {
	s.now = now
	s.notifier.now = now
}

func (s *AppConfigService) Create(ctx context.Context, req dto.CreateConfigRequest) (dto.ConfigResponse, error) {
	keyName := strings.TrimSpace(req.KeyName)
	if keyName == "" {
		return dto.ConfigResponse{}, ErrKeyNameRequired
	}

	draft := utils.EmptyObjectIfBlank(req.Draft)
	if req.Template != "" {
		tmpl, ok := templates.Get(req.Template)
		if !ok {
			return dto.ConfigResponse{}, ErrTemplateNotFound
		}
		draft = tmpl.JSON
	}
	if !utils.IsValidJSON(string(draft)) {
		return dto.ConfigResponse{}, ErrInvalidJSON
	}

	tenant, err := s.repo.Tenant().GetByID(ctx, req.TenantID)
	if err != nil {
		return dto.ConfigResponse{}, mapTenantError(err)
	}

	cfg, err := s.repo.AppConfig().Create(ctx, &domain.AppConfig{
		TenantID:      tenant.ID,
		KeyName:       keyName,
		DraftJSON:     datatypes.JSON(draft),
		PublishedJSON: datatypes.JSON(emptyObject),
	})
	if err != nil {
		return dto.ConfigResponse{}, mapConfigError(err)
	}

	s.notifier.created(ctx, cfg)
	return dto.FromAppConfig(cfg, tenant.Name), nil
}

func (s *AppConfigService) GetByID(ctx context.Context, id string) (dto.ConfigResponse, error) {
	cfg, err := s.repo.AppConfig().GetByID(ctx, id)
	if err != nil {
		return dto.ConfigResponse{}, mapConfigError(err)
	}
	return dto.FromAppConfigWithTenant(cfg), nil
}

// List serves free-text queries from the search index when one is
// configured and everything else from Postgres.
func (s *AppConfigService) List(ctx context.Context, filter domain.AppConfigFilter) ([]dto.ConfigResponse, error) {
	if filter.HasSearchCriteria() && s.repo.Search() != nil {
		configs, err := s.repo.Search().Search(ctx, filter)
		if err == nil {
			return dto.FromAppConfigsWithTenant(configs), nil
		}
		s.logger.Warn("search failed, falling back to database", zap.Error(err))
	}

	configs, err := s.repo.AppConfig().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.FromAppConfigsWithTenant(configs), nil
}

func (s *AppConfigService) Update(ctx context.Context, id string, req dto.UpdateConfigRequest) (dto.ConfigResponse, error) {
	keyName := strings.TrimSpace(req.KeyName)
	if keyName == "" {
		return dto.ConfigResponse{}, ErrKeyNameRequired
	}

	cfg, err := s.repo.AppConfig().UpdateKeyName(ctx, id, keyName)
	if err != nil {
		return dto.ConfigResponse{}, mapConfigError(err)
	}

	s.notifier.index(ctx, cfg)
	return s.GetByID(ctx, cfg.ID)
}

// SaveDraft stores raw as the config's draft. Anything that does not parse
// as JSON is rejected before the repository is touched; the shape is not
// checked.
func (s *AppConfigService) SaveDraft(ctx context.Context, id string, raw []byte) (dto.ConfigResponse, error) {
	if !utils.IsValidJSON(string(raw)) {
		return dto.ConfigResponse{}, ErrInvalidJSON
	}

	cfg, err := s.repo.AppConfig().SaveDraft(ctx, id, raw)
	if err != nil {
		return dto.ConfigResponse{}, mapConfigError(err)
	}

	s.notifier.draftSaved(ctx, cfg)
	return dto.FromAppConfig(cfg, ""), nil
}

// Publish copies the current draft into the published slot. Concurrent
// publishes are last-write-wins.
func (s *AppConfigService) Publish(ctx context.Context, id string) (dto.ConfigResponse, error) {
	cfg, err := s.repo.AppConfig().Publish(ctx, id, s.now())
	if err != nil {
		return dto.ConfigResponse{}, mapConfigError(err)
	}

	s.notifier.published(ctx, cfg)
	return dto.FromAppConfig(cfg, ""), nil
}

func (s *AppConfigService) Delete(ctx context.Context, id string) error {
	cfg, err := s.repo.AppConfig().Delete(ctx, id)
	if err != nil {
		return mapConfigError(err)
	}

	s.notifier.deleted(ctx, cfg)
	return nil
}

// GetPublished serves the public read path. Only published configs are
// visible; each hit is counted.
func (s *AppConfigService) GetPublished(ctx context.Context, tenantID, keyName string) (*domain.AppConfig, error) {
	cfg, err := s.repo.AppConfig().FindPublished(ctx, tenantID, keyName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotPublished
		}
		return nil, err
	}

	if err := s.repo.AppConfig().IncrementRequestCount(ctx, cfg.ID); err != nil {
		s.logger.Warn("failed to count request", zap.String("config_id", cfg.ID), zap.Error(err))
	} else {
		cfg.RequestCount++
	}
	return cfg, nil
}

func mapConfigError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrConfigNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicateKeyName
	}
	return fmt.Errorf("config store: %w", err)
}
