package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/gig-marketplace/internal/models"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("review already exists for this order")
)

// ReviewRepository отвечает за отзывы о завершённых заказах.
type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create сохраняет отзыв и в той же транзакции пересчитывает рейтинг
// фрилансера. Дубликат отзыва на заказ перехватывается по уникальному
// ограничению order_id.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("review repository: begin tx %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO reviews (order_id, reviewer_id, freelancer_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, review.OrderID, review.ReviewerID, review.FreelancerID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateReview
		}
		return fmt.Errorf("review repository: create %w", err)
	}

	if err := recalcFreelancerRating(ctx, tx, review.FreelancerID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("review repository: create commit %w", err)
	}
	return nil
}

// GetByOrderID возвращает отзыв заказа, nil без ошибки если отзыва нет.
func (r *ReviewRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Review, error) {
	var review models.Review
	query := `
		SELECT id, order_id, reviewer_id, freelancer_id, rating, comment, created_at
		FROM reviews
		WHERE order_id = $1
	`
	if err := r.db.GetContext(ctx, &review, query, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("review repository: get by order %w", err)
	}
	return &review, nil
}

// ListByFreelancer возвращает отзывы о фрилансере.
func (r *ReviewRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var reviews []models.Review
	query := `
		SELECT id, order_id, reviewer_id, freelancer_id, rating, comment, created_at
		FROM reviews
		WHERE freelancer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &reviews, query, freelancerID, limit, offset); err != nil {
		return nil, fmt.Errorf("review repository: list by freelancer %w", err)
	}
	return reviews, nil
}

// GetAverageRating возвращает средний рейтинг фрилансера и число отзывов.
func (r *ReviewRepository) GetAverageRating(ctx context.Context, freelancerID uuid.UUID) (float64, int, error) {
	var result struct {
		Avg   sql.NullFloat64 `db:"avg"`
		Count int             `db:"count"`
	}
	err := r.db.GetContext(ctx, &result, `
		SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0) AS avg, COUNT(*) AS count
		FROM reviews
		WHERE freelancer_id = $1
	`, freelancerID)
	if err != nil {
		return 0, 0, fmt.Errorf("review repository: get average rating %w", err)
	}
	return result.Avg.Float64, result.Count, nil
}
