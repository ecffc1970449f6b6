package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/apperr"
	"github.com/ignatzorin/gig-marketplace/internal/models"
	"github.com/ignatzorin/gig-marketplace/internal/repository"
	"github.com/ignatzorin/gig-marketplace/internal/validation"
)

// GigRepo описывает зависимости GigService от хранилища услуг.
type GigRepo interface {
	Create(ctx context.Context, gig *models.Gig) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error)
	Update(ctx context.Context, gig *models.Gig) error
	List(ctx context.Context, filter repository.GigListFilter) ([]models.Gig, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Gig, error)
	SetActive(ctx context.Context, id, freelancerID uuid.UUID, active bool) error
}

// GigOrderRepo создаёт заказ покупки услуги.
type GigOrderRepo interface {
	Create(ctx context.Context, order *models.Order) error
}

// GigService управляет каталогом услуг и их покупкой.
type GigService struct {
	gigs     GigRepo
	orders   GigOrderRepo
	notifier Notifier
}

// GigInput содержит данные создания или изменения услуги.
type GigInput struct {
	CategoryID   *uuid.UUID
	Title        string
	Description  string
	Price        float64
	DeliveryDays int
}

// NewGigService создаёт сервис услуг.
func NewGigService(gigs GigRepo, orders GigOrderRepo, notifier Notifier) *GigService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &GigService{gigs: gigs, orders: orders, notifier: notifier}
}

func validateGigInput(in GigInput) error {
	if err := validation.ValidateLength("title", strings.TrimSpace(in.Title), validation.MinTitleLength, validation.MaxTitleLength); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := validation.ValidateLength("description", strings.TrimSpace(in.Description), validation.MinDescriptionLength, validation.MaxDescriptionLength); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := validation.ValidatePositiveAmount("price", in.Price); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := validation.ValidateDeliveryDays(in.DeliveryDays); err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}

// CreateGig публикует услугу. Доступно только фрилансерам.
func (s *GigService) CreateGig(ctx context.Context, actorID uuid.UUID, actorRole string, in GigInput) (*models.Gig, error) {
	if actorRole != models.RoleFreelancer {
		return nil, apperr.Forbidden("только фрилансер может создавать услуги")
	}
	if err := validateGigInput(in); err != nil {
		return nil, err
	}

	gig := &models.Gig{
		FreelancerID: actorID,
		CategoryID:   in.CategoryID,
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Price:        in.Price,
		DeliveryDays: in.DeliveryDays,
	}
	if err := s.gigs.Create(ctx, gig); err != nil {
		return nil, err
	}
	return gig, nil
}

// GetGig возвращает услугу по идентификатору.
func (s *GigService) GetGig(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	gig, err := s.gigs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperr.NotFound("услуга не найдена")
		}
		return nil, err
	}
	return gig, nil
}

// UpdateGig изменяет услугу. Редактировать может только владелец.
func (s *GigService) UpdateGig(ctx context.Context, actorID uuid.UUID, gigID uuid.UUID, in GigInput) (*models.Gig, error) {
	if err := validateGigInput(in); err != nil {
		return nil, err
	}

	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperr.NotFound("услуга не найдена")
		}
		return nil, err
	}
	if gig.FreelancerID != actorID {
		return nil, apperr.Forbidden("услуга принадлежит другому фрилансеру")
	}

	gig.CategoryID = in.CategoryID
	gig.Title = strings.TrimSpace(in.Title)
	gig.Description = strings.TrimSpace(in.Description)
	gig.Price = in.Price
	gig.DeliveryDays = in.DeliveryDays

	if err := s.gigs.Update(ctx, gig); err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperr.NotFound("услуга не найдена")
		}
		return nil, err
	}
	return gig, nil
}

// SetGigActive включает или скрывает услугу владельца.
func (s *GigService) SetGigActive(ctx context.Context, actorID, gigID uuid.UUID, active bool) error {
	if err := s.gigs.SetActive(ctx, gigID, actorID, active); err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return apperr.NotFound("услуга не найдена")
		}
		return err
	}
	return nil
}

// ListGigs возвращает активные услуги с фильтрами каталога.
func (s *GigService) ListGigs(ctx context.Context, filter repository.GigListFilter) ([]models.Gig, error) {
	return s.gigs.List(ctx, filter)
}

// ListMyGigs возвращает услуги фрилансера, включая скрытые.
func (s *GigService) ListMyGigs(ctx context.Context, freelancerID uuid.UUID) ([]models.Gig, error) {
	return s.gigs.ListByFreelancer(ctx, freelancerID)
}

// PurchaseGig покупает услугу: создаётся заказ in_progress с ценой услуги
// на момент покупки. Покупать может только клиент, услуга должна быть активна.
func (s *GigService) PurchaseGig(ctx context.Context, actorID uuid.UUID, actorRole string, gigID uuid.UUID) (*models.Order, error) {
	if actorRole != models.RoleClient {
		return nil, apperr.Forbidden("только клиент может покупать услуги")
	}

	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		if errors.Is(err, repository.ErrGigNotFound) {
			return nil, apperr.NotFound("услуга не найдена")
		}
		return nil, err
	}
	if !gig.IsActive {
		return nil, apperr.InvalidState("услуга недоступна для покупки")
	}
	if gig.FreelancerID == actorID {
		return nil, apperr.Forbidden("нельзя купить собственную услугу")
	}

	order := &models.Order{
		ClientID:     actorID,
		FreelancerID: gig.FreelancerID,
		GigID:        &gig.ID,
		Price:        gig.Price,
		Status:       models.OrderStatusInProgress,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.notifier.Notify(gig.FreelancerID, EventOrderCreated, map[string]interface{}{
		"order_id": order.ID,
		"gig_id":   gig.ID,
		"price":    order.Price,
	})

	return order, nil
}
