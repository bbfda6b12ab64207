package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/repository"
	"github.com/kingrain94/remote-config-api/internal/setup"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

type SetupService struct {
	repo             repository.Repository
	loader           setup.Loader
	operatorEmail    string
	operatorPassword string
	logger           *logger.Logger
}

func NewSetupService(repo repository.Repository, loader setup.Loader, operatorEmail, operatorPassword string, log *logger.Logger) *SetupService {
	return &SetupService{
		repo:             repo,
		loader:           loader,
		operatorEmail:    operatorEmail,
		operatorPassword: operatorPassword,
		logger:           log,
	}
}

// Script returns the schema script operators paste into their database.
func (s *SetupService) Script() (string, error) {
	sql, err := s.loader()
	if err != nil {
		return "", fmt.Errorf("%w: %v", setup.ErrScriptUnavailable, err)
	}
	return sql, nil
}

// Status reports whether the console can be used against this database.
func (s *SetupService) Status(ctx context.Context) dto.SetupStatusResponse {
	status := dto.SetupStatusResponse{Tables: make(map[string]bool, len(setup.RequiredTables))}
	for _, table := range setup.RequiredTables {
		status.Tables[table] = false
	}

	if err := s.repo.Schema().Ping(ctx); err != nil {
		s.logger.Warn("database unreachable", zap.Error(err))
		return status
	}
	status.DatabaseReachable = true

	tables, err := s.repo.Schema().HasTables(ctx, setup.RequiredTables...)
	if err != nil {
		s.logger.Warn("failed to inspect tables", zap.Error(err))
		return status
	}
	allPresent := true
	for _, table := range setup.RequiredTables {
		status.Tables[table] = tables[table]
		allPresent = allPresent && tables[table]
	}

	if status.Tables["users"] {
		if _, err := s.repo.User().GetByEmail(ctx, s.operatorEmail); err == nil {
			status.DefaultUserPresent = true
		}
	}

	status.Ready = allPresent && status.DefaultUserPresent
	return status
}

// Bootstrap migrates the schema and creates the default operator when it is
// missing. Safe to run on every start.
func (s *SetupService) Bootstrap(ctx context.Context) error {
	if err := s.repo.Schema().Migrate(ctx); err != nil {
		return err
	}

	_, err := s.repo.User().GetByEmail(ctx, s.operatorEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up default operator: %w", err)
	}

	hash, err := HashPassword(s.operatorPassword)
	if err != nil {
		return fmt.Errorf("failed to hash default operator password: %w", err)
	}

	if err := s.repo.User().Create(ctx, &domain.User{
		Email:        s.operatorEmail,
		PasswordHash: hash,
		Role:         domain.RoleOperator,
	}); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("failed to create default operator: %w", err)
	}

	s.logger.Info("created default operator", zap.String("email", s.operatorEmail))
	return nil
}
