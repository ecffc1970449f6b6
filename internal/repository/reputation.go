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

// Агрегатор репутации. Производные поля rating и total_earnings профиля
// фрилансера пересчитываются только отсюда, в той же транзакции, что и
// породившая их запись: создание отзыва или переход заказа в completed.

// recalcFreelancerRating пересчитывает рейтинг как среднее по всем отзывам
// о фрилансере, округлённое до двух знаков.
func recalcFreelancerRating(ctx context.Context, ext sqlx.ExtContext, freelancerID uuid.UUID) error {
	_, err := ext.ExecContext(ctx, `
		UPDATE freelancer_profiles
		SET rating = COALESCE(
			(SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE freelancer_id = $1),
			0),
		    updated_at = NOW()
		WHERE user_id = $1
	`, freelancerID)
	if err != nil {
		return fmt.Errorf("reputation: recalc rating %w", err)
	}
	return nil
}

// creditFreelancerEarnings прибавляет сумму завершённого заказа к заработку.
// Вызывается строго один раз на заказ: гарантию даёт переходный guard в
// OrderRepository.Complete, а не проверка полей заказа.
func creditFreelancerEarnings(ctx context.Context, ext sqlx.ExtContext, freelancerID uuid.UUID, amount float64) error {
	_, err := ext.ExecContext(ctx, `
		UPDATE freelancer_profiles
		SET total_earnings = total_earnings + $2,
		    updated_at = NOW()
		WHERE user_id = $1
	`, freelancerID, amount)
	if err != nil {
		return fmt.Errorf("reputation: credit earnings %w", err)
	}
	return nil
}

// ReputationRepository выполняет полное перестроение производных полей
// из истории отзывов и заказов.
type ReputationRepository struct {
	db *sqlx.DB
}

func NewReputationRepository(db *sqlx.DB) *ReputationRepository {
	return &ReputationRepository{db: db}
}

// RebuildFreelancerStats заново агрегирует rating и total_earnings из
// таблиц reviews и orders. Результат обязан совпадать с инкрементальными
// обновлениями, это опорная операция для сверки.
func (r *ReputationRepository) RebuildFreelancerStats(ctx context.Context, freelancerID uuid.UUID) (*models.FreelancerProfile, error) {
	var profile models.FreelancerProfile
	query := `
		UPDATE freelancer_profiles
		SET rating = COALESCE(
			(SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE freelancer_id = $1),
			0),
		    total_earnings = COALESCE(
			(SELECT SUM(price) FROM orders WHERE freelancer_id = $1 AND status = 'completed'),
			0),
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, skills, bio, experience_years, hourly_rate, rating, total_earnings, created_at, updated_at
	`
	if err := r.db.GetContext(ctx, &profile, query, freelancerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("reputation: rebuild stats %w", err)
	}
	return &profile, nil
}
