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

// Ошибки уровня репозитория заказов.
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAlreadyCompleted = errors.New("order already completed")
	ErrOrderNotCompletable   = errors.New("order cannot be completed from its current status")
)

// OrderRepository отвечает за заказы и их завершение.
type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create сохраняет заказ (покупка услуги).
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (client_id, freelancer_id, gig_id, job_id, price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		order.ClientID, order.FreelancerID, order.GigID, order.JobID, order.Price, order.Status,
	).Scan(&order.ID, &order.CreatedAt); err != nil {
		return fmt.Errorf("order repository: create %w", err)
	}
	return nil
}

// GetByID возвращает заказ по идентификатору.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	query := `
		SELECT id, client_id, freelancer_id, gig_id, job_id, price, status, created_at, completed_at
		FROM orders
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: get by id %w", err)
	}
	return &order, nil
}

// ListByClient возвращает заказы клиента.
func (r *OrderRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	query := `
		SELECT id, client_id, freelancer_id, gig_id, job_id, price, status, created_at, completed_at
		FROM orders
		WHERE client_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &orders, query, clientID); err != nil {
		return nil, fmt.Errorf("order repository: list by client %w", err)
	}
	return orders, nil
}

// ListByFreelancer возвращает заказы фрилансера.
func (r *OrderRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	query := `
		SELECT id, client_id, freelancer_id, gig_id, job_id, price, status, created_at, completed_at
		FROM orders
		WHERE freelancer_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &orders, query, freelancerID); err != nil {
		return nil, fmt.Errorf("order repository: list by freelancer %w", err)
	}
	return orders, nil
}

// Complete атомарно завершает заказ: статус -> completed, completed_at
// проставляется ровно один раз, задание-источник (если есть) закрывается,
// заработок фрилансера увеличивается на цену заказа в той же транзакции.
// Guard — сам переход: UPDATE затрагивает только незавершённый заказ,
// поэтому повторный вызов не начислит заработок второй раз.
func (r *OrderRepository) Complete(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("order repository: begin tx %w", err)
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.GetContext(ctx, &order, `
		UPDATE orders
		SET status = 'completed', completed_at = NOW()
		WHERE id = $1 AND status = 'in_progress'
		RETURNING id, client_id, freelancer_id, gig_id, job_id, price, status, created_at, completed_at
	`, orderID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order repository: complete %w", err)
		}
		// Переход не сработал: различаем отсутствие заказа, повторное
		// завершение и неподходящий статус.
		var status string
		if err := tx.GetContext(ctx, &status, `SELECT status FROM orders WHERE id = $1`, orderID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrOrderNotFound
			}
			return nil, fmt.Errorf("order repository: complete get status %w", err)
		}
		if status == models.OrderStatusCompleted {
			return nil, ErrOrderAlreadyCompleted
		}
		return nil, ErrOrderNotCompletable
	}

	if order.JobID != nil {
		if _, err := tx.ExecContext(ctx, `
			UPDATE jobs SET status = 'completed', updated_at = NOW() WHERE id = $1
		`, *order.JobID); err != nil {
			return nil, fmt.Errorf("order repository: complete job %w", err)
		}
	}

	if err := creditFreelancerEarnings(ctx, tx, order.FreelancerID, order.Price); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("order repository: complete commit %w", err)
	}

	return &order, nil
}
