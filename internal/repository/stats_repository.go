package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/gig-marketplace/internal/models"
)

// StatsRepository собирает показатели для дашбордов.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// FreelancerStats возвращает показатели фрилансера: производные поля профиля
// плюс счётчики заказов и ставок.
func (r *StatsRepository) FreelancerStats(ctx context.Context, userID uuid.UUID) (*models.FreelancerStats, error) {
	var stats models.FreelancerStats
	query := `
		SELECT p.rating,
		       p.total_earnings,
		       (SELECT COUNT(*) FROM orders WHERE freelancer_id = $1 AND status = 'in_progress') AS active_orders,
		       (SELECT COUNT(*) FROM orders WHERE freelancer_id = $1 AND status = 'completed') AS completed_orders,
		       (SELECT COUNT(*) FROM bids WHERE freelancer_id = $1 AND status = 'pending') AS pending_bids
		FROM freelancer_profiles p
		WHERE p.user_id = $1
	`
	err := r.db.QueryRowxContext(ctx, query, userID).Scan(
		&stats.Rating,
		&stats.TotalEarnings,
		&stats.ActiveOrders,
		&stats.CompletedOrders,
		&stats.PendingBids,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("stats repository: freelancer stats %w", err)
	}
	return &stats, nil
}

// ClientStats возвращает показатели клиента. Суммарные траты считаются
// из завершённых заказов каждый раз, это не денормализованное поле.
func (r *StatsRepository) ClientStats(ctx context.Context, userID uuid.UUID) (*models.ClientStats, error) {
	var stats models.ClientStats
	query := `
		SELECT COALESCE((SELECT SUM(price) FROM orders WHERE client_id = $1 AND status = 'completed'), 0) AS total_spent,
		       (SELECT COUNT(*) FROM orders WHERE client_id = $1 AND status = 'in_progress') AS active_orders,
		       (SELECT COUNT(*) FROM orders WHERE client_id = $1 AND status = 'completed') AS completed_orders,
		       (SELECT COUNT(*) FROM jobs WHERE client_id = $1 AND status = 'open') AS open_jobs
	`
	err := r.db.QueryRowxContext(ctx, query, userID).Scan(
		&stats.TotalSpent,
		&stats.ActiveOrders,
		&stats.CompletedOrders,
		&stats.OpenJobs,
	)
	if err != nil {
		return nil, fmt.Errorf("stats repository: client stats %w", err)
	}
	return &stats, nil
}
