package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/gig-marketplace/internal/models"
)

var ErrGigNotFound = errors.New("gig not found")

// GigListFilter задаёт фильтры публичного списка услуг.
type GigListFilter struct {
	CategoryID *uuid.UUID
	MinPrice   *float64
	MaxPrice   *float64
	Limit      int
	Offset     int
}

// GigRepository отвечает за работу с услугами фрилансеров.
type GigRepository struct {
	db *sqlx.DB
}

func NewGigRepository(db *sqlx.DB) *GigRepository {
	return &GigRepository{db: db}
}

// Create сохраняет новую услугу.
func (r *GigRepository) Create(ctx context.Context, gig *models.Gig) error {
	query := `
		INSERT INTO gigs (freelancer_id, category_id, title, description, price, delivery_days, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id, is_active, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		gig.FreelancerID, gig.CategoryID, gig.Title, gig.Description, gig.Price, gig.DeliveryDays,
	).Scan(&gig.ID, &gig.IsActive, &gig.CreatedAt, &gig.UpdatedAt); err != nil {
		return fmt.Errorf("gig repository: create %w", err)
	}
	return nil
}

// GetByID возвращает услугу по идентификатору.
func (r *GigRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	query := `
		SELECT id, freelancer_id, category_id, title, description, price, delivery_days, is_active, created_at, updated_at
		FROM gigs
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &gig, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGigNotFound
		}
		return nil, fmt.Errorf("gig repository: get by id %w", err)
	}
	return &gig, nil
}

// Update изменяет услугу владельца. Возвращает ErrGigNotFound, если услуга
// не существует или принадлежит другому фрилансеру.
func (r *GigRepository) Update(ctx context.Context, gig *models.Gig) error {
	query := `
		UPDATE gigs
		SET category_id = $3,
		    title = $4,
		    description = $5,
		    price = $6,
		    delivery_days = $7,
		    is_active = $8,
		    updated_at = NOW()
		WHERE id = $1 AND freelancer_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(
		ctx, query,
		gig.ID, gig.FreelancerID, gig.CategoryID, gig.Title, gig.Description,
		gig.Price, gig.DeliveryDays, gig.IsActive,
	).Scan(&gig.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGigNotFound
		}
		return fmt.Errorf("gig repository: update %w", err)
	}
	return nil
}

// List возвращает активные услуги с фильтрами каталога.
func (r *GigRepository) List(ctx context.Context, filter GigListFilter) ([]models.Gig, error) {
	var (
		conditions = []string{"is_active"}
		args       []interface{}
	)

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, "category_id = $"+strconv.Itoa(len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, "price >= $"+strconv.Itoa(len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, "price <= $"+strconv.Itoa(len(args)))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit)
	limitPos := len(args)
	args = append(args, filter.Offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`
		SELECT id, freelancer_id, category_id, title, description, price, delivery_days, is_active, created_at, updated_at
		FROM gigs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(conditions, " AND "), limitPos, offsetPos)

	var gigs []models.Gig
	if err := r.db.SelectContext(ctx, &gigs, query, args...); err != nil {
		return nil, fmt.Errorf("gig repository: list %w", err)
	}
	return gigs, nil
}

// ListByFreelancer возвращает все услуги фрилансера, включая неактивные.
func (r *GigRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Gig, error) {
	var gigs []models.Gig
	query := `
		SELECT id, freelancer_id, category_id, title, description, price, delivery_days, is_active, created_at, updated_at
		FROM gigs
		WHERE freelancer_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &gigs, query, freelancerID); err != nil {
		return nil, fmt.Errorf("gig repository: list by freelancer %w", err)
	}
	return gigs, nil
}

// SetActive включает или выключает услугу владельца.
func (r *GigRepository) SetActive(ctx context.Context, id, freelancerID uuid.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE gigs SET is_active = $3, updated_at = NOW() WHERE id = $1 AND freelancer_id = $2
	`, id, freelancerID, active)
	if err != nil {
		return fmt.Errorf("gig repository: set active %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrGigNotFound
	}
	return nil
}
