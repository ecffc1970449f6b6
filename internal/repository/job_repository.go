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

// Ошибки уровня репозитория заданий и ставок.
var (
	ErrJobNotFound       = errors.New("job not found")
	ErrBidNotFound       = errors.New("bid not found")
	ErrDuplicateBid      = errors.New("bid already exists for this job and freelancer")
	ErrJobHasAcceptedBid = errors.New("job already has an accepted bid")
	ErrJobNotOpen        = errors.New("job is not open")
)

const pqUniqueViolation = "23505"

// JobRepository отвечает за задания клиентов и ставки фрилансеров.
type JobRepository struct {
	db *sqlx.DB
}

func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create сохраняет новое задание.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (client_id, category_id, title, description, budget, deadline_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		job.ClientID, job.CategoryID, job.Title, job.Description, job.Budget, job.DeadlineAt, job.Status,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return fmt.Errorf("job repository: create %w", err)
	}
	return nil
}

// GetByID возвращает задание по идентификатору.
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	query := `
		SELECT id, client_id, category_id, title, description, budget, deadline_at, status, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("job repository: get by id %w", err)
	}
	return &job, nil
}

// Update изменяет задание владельца.
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs
		SET category_id = $3,
		    title = $4,
		    description = $5,
		    budget = $6,
		    deadline_at = $7,
		    status = $8,
		    updated_at = NOW()
		WHERE id = $1 AND client_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(
		ctx, query,
		job.ID, job.ClientID, job.CategoryID, job.Title, job.Description,
		job.Budget, job.DeadlineAt, job.Status,
	).Scan(&job.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrJobNotFound
		}
		return fmt.Errorf("job repository: update %w", err)
	}
	return nil
}

// List возвращает задания с фильтром по статусу и счётчиком ставок.
func (r *JobRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT j.id, j.client_id, j.category_id, j.title, j.description, j.budget, j.deadline_at,
		       j.status, j.created_at, j.updated_at,
		       (SELECT COUNT(*) FROM bids b WHERE b.job_id = j.id) AS bids_count
		FROM jobs j
		WHERE ($1 = '' OR j.status = $1)
		ORDER BY j.created_at DESC
		LIMIT $2 OFFSET $3
	`
	var jobs []models.Job
	if err := r.db.SelectContext(ctx, &jobs, query, status, limit, offset); err != nil {
		return nil, fmt.Errorf("job repository: list %w", err)
	}
	return jobs, nil
}

// ListByClient возвращает задания клиента.
func (r *JobRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	query := `
		SELECT id, client_id, category_id, title, description, budget, deadline_at, status, created_at, updated_at
		FROM jobs
		WHERE client_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &jobs, query, clientID); err != nil {
		return nil, fmt.Errorf("job repository: list by client %w", err)
	}
	return jobs, nil
}

// CreateBid сохраняет ставку. Нарушение уникальности (job_id, freelancer_id)
// транслируется в ErrDuplicateBid.
func (r *JobRepository) CreateBid(ctx context.Context, bid *models.Bid) error {
	query := `
		INSERT INTO bids (job_id, freelancer_id, proposal_text, amount, delivery_days, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(
		ctx, query,
		bid.JobID, bid.FreelancerID, bid.ProposalText, bid.Amount, bid.DeliveryDays, bid.Status,
	).Scan(&bid.ID, &bid.CreatedAt, &bid.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateBid
		}
		return fmt.Errorf("job repository: create bid %w", err)
	}
	return nil
}

// GetBidByID возвращает ставку по идентификатору.
func (r *JobRepository) GetBidByID(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	query := `
		SELECT id, job_id, freelancer_id, proposal_text, amount, delivery_days, status, created_at, updated_at
		FROM bids
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &bid, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBidNotFound
		}
		return nil, fmt.Errorf("job repository: get bid by id %w", err)
	}
	return &bid, nil
}

// GetBidByJobAndFreelancer возвращает ставку пары (задание, фрилансер),
// nil без ошибки если ставки нет.
func (r *JobRepository) GetBidByJobAndFreelancer(ctx context.Context, jobID, freelancerID uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	query := `
		SELECT id, job_id, freelancer_id, proposal_text, amount, delivery_days, status, created_at, updated_at
		FROM bids
		WHERE job_id = $1 AND freelancer_id = $2
	`
	if err := r.db.GetContext(ctx, &bid, query, jobID, freelancerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("job repository: get bid by job and freelancer %w", err)
	}
	return &bid, nil
}

// ListBidsByJob возвращает все ставки задания.
func (r *JobRepository) ListBidsByJob(ctx context.Context, jobID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	query := `
		SELECT id, job_id, freelancer_id, proposal_text, amount, delivery_days, status, created_at, updated_at
		FROM bids
		WHERE job_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &bids, query, jobID); err != nil {
		return nil, fmt.Errorf("job repository: list bids by job %w", err)
	}
	return bids, nil
}

// ListBidsByFreelancer возвращает ставки фрилансера.
func (r *JobRepository) ListBidsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	query := `
		SELECT id, job_id, freelancer_id, proposal_text, amount, delivery_days, status, created_at, updated_at
		FROM bids
		WHERE freelancer_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &bids, query, freelancerID); err != nil {
		return nil, fmt.Errorf("job repository: list bids by freelancer %w", err)
	}
	return bids, nil
}

// AcceptBid атомарно применяет принятие ставки: ставка -> accepted,
// задание -> in_progress, создаётся заказ с ценой ставки, остальные ставки
// задания -> rejected. Строка задания блокируется FOR UPDATE, поэтому
// одновременные принятия сериализуются и принятой остаётся ровно одна ставка.
func (r *JobRepository) AcceptBid(ctx context.Context, bidID uuid.UUID) (*models.Bid, *models.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("job repository: begin tx %w", err)
	}
	defer tx.Rollback()

	var bid models.Bid
	if err := tx.GetContext(ctx, &bid, `
		SELECT id, job_id, freelancer_id, proposal_text, amount, delivery_days, status, created_at, updated_at
		FROM bids
		WHERE id = $1
	`, bidID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrBidNotFound
		}
		return nil, nil, fmt.Errorf("job repository: accept bid get bid %w", err)
	}

	var job models.Job
	if err := tx.GetContext(ctx, &job, `
		SELECT id, client_id, category_id, title, description, budget, deadline_at, status, created_at, updated_at
		FROM jobs
		WHERE id = $1
		FOR UPDATE
	`, bid.JobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrJobNotFound
		}
		return nil, nil, fmt.Errorf("job repository: accept bid lock job %w", err)
	}

	// Проверка под блокировкой: гонка двух принятий не пройдёт обе.
	var acceptedCount int
	if err := tx.GetContext(ctx, &acceptedCount, `
		SELECT COUNT(*) FROM bids WHERE job_id = $1 AND status = 'accepted'
	`, job.ID); err != nil {
		return nil, nil, fmt.Errorf("job repository: accept bid count accepted %w", err)
	}
	if acceptedCount > 0 {
		return nil, nil, ErrJobHasAcceptedBid
	}
	if job.Status != models.JobStatusOpen {
		return nil, nil, ErrJobNotOpen
	}

	if err := tx.QueryRowxContext(ctx, `
		UPDATE bids SET status = 'accepted', updated_at = NOW() WHERE id = $1
		RETURNING status, updated_at
	`, bid.ID).Scan(&bid.Status, &bid.UpdatedAt); err != nil {
		return nil, nil, fmt.Errorf("job repository: accept bid update bid %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE bids SET status = 'rejected', updated_at = NOW()
		WHERE job_id = $1 AND id <> $2
	`, job.ID, bid.ID); err != nil {
		return nil, nil, fmt.Errorf("job repository: accept bid reject siblings %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE jobs SET status = 'in_progress', updated_at = NOW() WHERE id = $1
	`, job.ID); err != nil {
		return nil, nil, fmt.Errorf("job repository: accept bid update job %w", err)
	}

	order := models.Order{
		ClientID:     job.ClientID,
		FreelancerID: bid.FreelancerID,
		JobID:        &job.ID,
		Price:        bid.Amount,
		Status:       models.OrderStatusInProgress,
	}
	if err := tx.QueryRowxContext(ctx, `
		INSERT INTO orders (client_id, freelancer_id, job_id, price, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, order.ClientID, order.FreelancerID, order.JobID, order.Price, order.Status,
	).Scan(&order.ID, &order.CreatedAt); err != nil {
		return nil, nil, fmt.Errorf("job repository: accept bid create order %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("job repository: accept bid commit %w", err)
	}

	return &bid, &order, nil
}
