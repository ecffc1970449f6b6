package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/apperr"
	"github.com/ignatzorin/gig-marketplace/internal/models"
	"github.com/ignatzorin/gig-marketplace/internal/repository"
)

// StatsRepo описывает источник показателей дашбордов.
type StatsRepo interface {
	FreelancerStats(ctx context.Context, userID uuid.UUID) (*models.FreelancerStats, error)
	ClientStats(ctx context.Context, userID uuid.UUID) (*models.ClientStats, error)
}

// ReputationRepo перестраивает производные поля профиля фрилансера.
type ReputationRepo interface {
	RebuildFreelancerStats(ctx context.Context, freelancerID uuid.UUID) (*models.FreelancerProfile, error)
}

// StatsService отдаёт показатели дашбордов и перестраивает репутацию.
type StatsService struct {
	stats      StatsRepo
	reputation ReputationRepo
}

// NewStatsService создаёт сервис статистики.
func NewStatsService(stats StatsRepo, reputation ReputationRepo) *StatsService {
	return &StatsService{stats: stats, reputation: reputation}
}

// FreelancerDashboard возвращает показатели фрилансера.
func (s *StatsService) FreelancerDashboard(ctx context.Context, actorID uuid.UUID, actorRole string) (*models.FreelancerStats, error) {
	if actorRole != models.RoleFreelancer {
		return nil, apperr.Forbidden("дашборд фрилансера доступен только фрилансерам")
	}
	stats, err := s.stats.FreelancerStats(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperr.NotFound("профиль не найден")
		}
		return nil, err
	}
	return stats, nil
}

// ClientDashboard возвращает показатели клиента.
func (s *StatsService) ClientDashboard(ctx context.Context, actorID uuid.UUID, actorRole string) (*models.ClientStats, error) {
	if actorRole != models.RoleClient {
		return nil, apperr.Forbidden("дашборд клиента доступен только клиентам")
	}
	return s.stats.ClientStats(ctx, actorID)
}

// RebuildMyStats пересчитывает рейтинг и заработок фрилансера из отзывов и
// завершённых заказов. Результат совпадает с инкрементальными обновлениями,
// операция нужна для восстановления после ручных правок данных.
func (s *StatsService) RebuildMyStats(ctx context.Context, actorID uuid.UUID, actorRole string) (*models.FreelancerProfile, error) {
	if actorRole != models.RoleFreelancer {
		return nil, apperr.Forbidden("пересчёт доступен только фрилансерам")
	}
	profile, err := s.reputation.RebuildFreelancerStats(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperr.NotFound("профиль не найден")
		}
		return nil, err
	}
	return profile, nil
}
