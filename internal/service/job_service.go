package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/apperr"
	"github.com/ignatzorin/gig-marketplace/internal/models"
	"github.com/ignatzorin/gig-marketplace/internal/repository"
	"github.com/ignatzorin/gig-marketplace/internal/validation"
)

// JobRepo описывает зависимости JobService от хранилища заданий и ставок.
type JobRepo interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	List(ctx context.Context, status string, limit, offset int) ([]models.Job, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error)
	CreateBid(ctx context.Context, bid *models.Bid) error
	GetBidByID(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	GetBidByJobAndFreelancer(ctx context.Context, jobID, freelancerID uuid.UUID) (*models.Bid, error)
	ListBidsByJob(ctx context.Context, jobID uuid.UUID) ([]models.Bid, error)
	ListBidsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Bid, error)
	AcceptBid(ctx context.Context, bidID uuid.UUID) (*models.Bid, *models.Order, error)
}

// JobService управляет заданиями клиентов и ставками фрилансеров.
type JobService struct {
	jobs     JobRepo
	notifier Notifier
}

// JobInput содержит данные создания или изменения задания.
type JobInput struct {
	CategoryID  *uuid.UUID
	Title       string
	Description string
	Budget      float64
	DeadlineAt  *time.Time
}

// BidInput содержит данные ставки фрилансера.
type BidInput struct {
	ProposalText string
	Amount       float64
	DeliveryDays int
}

// NewJobService создаёт сервис заданий.
func NewJobService(jobs JobRepo, notifier Notifier) *JobService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &JobService{jobs: jobs, notifier: notifier}
}

func validateJobInput(in JobInput) error {
	if err := validation.ValidateLength("title", strings.TrimSpace(in.Title), validation.MinTitleLength, validation.MaxTitleLength); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := validation.ValidateLength("description", strings.TrimSpace(in.Description), validation.MinDescriptionLength, validation.MaxDescriptionLength); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := validation.ValidatePositiveAmount("budget", in.Budget); err != nil {
		return apperr.Validation(err.Error())
	}
	if in.DeadlineAt != nil && in.DeadlineAt.Before(time.Now()) {
		return apperr.Validation("дедлайн не может быть в прошлом")
	}
	return nil
}

// CreateJob публикует задание. Доступно только клиентам.
func (s *JobService) CreateJob(ctx context.Context, actorID uuid.UUID, actorRole string, in JobInput) (*models.Job, error) {
	if actorRole != models.RoleClient {
		return nil, apperr.Forbidden("только клиент может публиковать задания")
	}
	if err := validateJobInput(in); err != nil {
		return nil, err
	}

	job := &models.Job{
		ClientID:    actorID,
		CategoryID:  in.CategoryID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Budget:      in.Budget,
		DeadlineAt:  in.DeadlineAt,
		Status:      models.JobStatusOpen,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob возвращает задание по идентификатору.
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperr.NotFound("задание не найдено")
		}
		return nil, err
	}
	return job, nil
}

// UpdateJob изменяет открытое задание владельца.
func (s *JobService) UpdateJob(ctx context.Context, actorID, jobID uuid.UUID, in JobInput) (*models.Job, error) {
	if err := validateJobInput(in); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperr.NotFound("задание не найдено")
		}
		return nil, err
	}
	if job.ClientID != actorID {
		return nil, apperr.Forbidden("задание принадлежит другому клиенту")
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperr.InvalidState("редактировать можно только открытое задание")
	}

	job.CategoryID = in.CategoryID
	job.Title = strings.TrimSpace(in.Title)
	job.Description = strings.TrimSpace(in.Description)
	job.Budget = in.Budget
	job.DeadlineAt = in.DeadlineAt

	if err := s.jobs.Update(ctx, job); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperr.NotFound("задание не найдено")
		}
		return nil, err
	}
	return job, nil
}

// CancelJob снимает открытое задание владельца с публикации.
func (s *JobService) CancelJob(ctx context.Context, actorID, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperr.NotFound("задание не найдено")
		}
		return nil, err
	}
	if job.ClientID != actorID {
		return nil, apperr.Forbidden("задание принадлежит другому клиенту")
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperr.InvalidState("отменить можно только открытое задание")
	}

	job.Status = models.JobStatusCancelled
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// ListJobs возвращает задания с фильтром по статусу.
func (s *JobService) ListJobs(ctx context.Context, status string, limit, offset int) ([]models.Job, error) {
	if status != "" {
		if _, ok := models.ValidJobStatuses[status]; !ok {
			return nil, apperr.Validation("неизвестный статус задания")
		}
	}
	return s.jobs.List(ctx, status, limit, offset)
}

// ListMyJobs возвращает задания клиента.
func (s *JobService) ListMyJobs(ctx context.Context, clientID uuid.UUID) ([]models.Job, error) {
	return s.jobs.ListByClient(ctx, clientID)
}

// SubmitBid создаёт ставку фрилансера на открытое задание. Повторная ставка
// на то же задание и ставка на собственное задание запрещены.
func (s *JobService) SubmitBid(ctx context.Context, actorID uuid.UUID, actorRole string, jobID uuid.UUID, in BidInput) (*models.Bid, error) {
	if actorRole != models.RoleFreelancer {
		return nil, apperr.Forbidden("только фрилансер может делать ставки")
	}
	if err := validation.ValidateLength("proposal_text", strings.TrimSpace(in.ProposalText), validation.MinProposalLength, validation.MaxProposalLength); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := validation.ValidatePositiveAmount("amount", in.Amount); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if err := validation.ValidateDeliveryDays(in.DeliveryDays); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperr.NotFound("задание не найдено")
		}
		return nil, err
	}
	if job.ClientID == actorID {
		return nil, apperr.Forbidden("нельзя сделать ставку на собственное задание")
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperr.InvalidState("задание закрыто для ставок")
	}

	bid := &models.Bid{
		JobID:        job.ID,
		FreelancerID: actorID,
		ProposalText: strings.TrimSpace(in.ProposalText),
		Amount:       in.Amount,
		DeliveryDays: in.DeliveryDays,
		Status:       models.BidStatusPending,
	}
	if err := s.jobs.CreateBid(ctx, bid); err != nil {
		if errors.Is(err, repository.ErrDuplicateBid) {
			return nil, apperr.Duplicate("ставка на это задание уже сделана")
		}
		return nil, err
	}

	s.notifier.Notify(job.ClientID, EventBidReceived, map[string]interface{}{
		"job_id": job.ID,
		"bid_id": bid.ID,
		"amount": bid.Amount,
	})

	return bid, nil
}

// ListJobBids возвращает ставки задания. Видит только владелец задания.
func (s *JobService) ListJobBids(ctx context.Context, actorID, jobID uuid.UUID) ([]models.Bid, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperr.NotFound("задание не найдено")
		}
		return nil, err
	}
	if job.ClientID != actorID {
		return nil, apperr.Forbidden("ставки доступны только владельцу задания")
	}
	return s.jobs.ListBidsByJob(ctx, jobID)
}

// ListMyBids возвращает ставки фрилансера.
func (s *JobService) ListMyBids(ctx context.Context, freelancerID uuid.UUID) ([]models.Bid, error) {
	return s.jobs.ListBidsByFreelancer(ctx, freelancerID)
}

// AcceptBid принимает ставку от имени владельца задания. Сам переход
// (ставка, сиблинги, задание, заказ) выполняется одной транзакцией в
// репозитории; здесь проверяется только право владельца.
func (s *JobService) AcceptBid(ctx context.Context, actorID, bidID uuid.UUID) (*models.Bid, *models.Order, error) {
	bid, err := s.jobs.GetBidByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, repository.ErrBidNotFound) {
			return nil, nil, apperr.NotFound("ставка не найдена")
		}
		return nil, nil, err
	}

	job, err := s.jobs.GetByID(ctx, bid.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, nil, apperr.NotFound("задание не найдено")
		}
		return nil, nil, err
	}
	if job.ClientID != actorID {
		return nil, nil, apperr.Forbidden("принять ставку может только владелец задания")
	}

	accepted, order, err := s.jobs.AcceptBid(ctx, bidID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBidNotFound):
			return nil, nil, apperr.NotFound("ставка не найдена")
		case errors.Is(err, repository.ErrJobHasAcceptedBid):
			return nil, nil, apperr.Conflict("у задания уже есть принятая ставка")
		case errors.Is(err, repository.ErrJobNotOpen):
			return nil, nil, apperr.InvalidState("задание закрыто для принятия ставок")
		default:
			return nil, nil, err
		}
	}

	s.notifier.Notify(accepted.FreelancerID, EventBidAccepted, map[string]interface{}{
		"job_id":   job.ID,
		"bid_id":   accepted.ID,
		"order_id": order.ID,
	})

	return accepted, order, nil
}
