package service

import (
	"context"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/repository"
)

type StatsService struct {
	repo repository.Repository
}

func NewStatsService(repo repository.Repository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) Get(ctx context.Context) (dto.StatsResponse, error) {
	stats, err := s.repo.AppConfig().Stats(ctx)
	if err != nil {
		return dto.StatsResponse{}, err
	}
	return dto.FromStats(stats), nil
}
