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

// ReviewRepo описывает зависимости ReviewService от хранилища отзывов.
type ReviewRepo interface {
	Create(ctx context.Context, review *models.Review) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Review, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Review, error)
	GetAverageRating(ctx context.Context, freelancerID uuid.UUID) (float64, int, error)
}

// ReviewOrderRepo выдаёт заказ для проверки условий отзыва.
type ReviewOrderRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// ReviewService управляет отзывами о завершённых заказах.
// Создание отзыва и пересчёт рейтинга фрилансера атомарны на уровне
// репозитория.
type ReviewService struct {
	reviews  ReviewRepo
	orders   ReviewOrderRepo
	notifier Notifier
}

// ReviewInput содержит данные отзыва.
type ReviewInput struct {
	Rating  int
	Comment string
}

// NewReviewService создаёт сервис отзывов.
func NewReviewService(reviews ReviewRepo, orders ReviewOrderRepo, notifier Notifier) *ReviewService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &ReviewService{reviews: reviews, orders: orders, notifier: notifier}
}

// CreateReview создаёт отзыв клиента о завершённом заказе. Один отзыв на
// заказ, оценка в диапазоне 1..5.
func (s *ReviewService) CreateReview(ctx context.Context, actorID, orderID uuid.UUID, in ReviewInput) (*models.Review, error) {
	if in.Rating < validation.MinRating || in.Rating > validation.MaxRating {
		return nil, apperr.Validation("оценка должна быть от 1 до 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if comment != "" {
		if err := validation.ValidateLength("comment", comment, 1, validation.MaxCommentLength); err != nil {
			return nil, apperr.Validation(err.Error())
		}
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperr.NotFound("заказ не найден")
		}
		return nil, err
	}
	if order.ClientID != actorID {
		return nil, apperr.Forbidden("отзыв может оставить только клиент заказа")
	}
	if order.Status != models.OrderStatusCompleted {
		return nil, apperr.InvalidState("отзыв можно оставить только о завершённом заказе")
	}

	review := &models.Review{
		OrderID:      order.ID,
		ReviewerID:   actorID,
		FreelancerID: order.FreelancerID,
		Rating:       in.Rating,
	}
	if comment != "" {
		review.Comment = &comment
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, apperr.Duplicate("отзыв об этом заказе уже оставлен")
		}
		return nil, err
	}

	s.notifier.Notify(order.FreelancerID, EventReviewReceived, map[string]interface{}{
		"order_id":  order.ID,
		"review_id": review.ID,
		"rating":    review.Rating,
	})

	return review, nil
}

// GetOrderReview возвращает отзыв заказа его участнику, nil если отзыва нет.
func (s *ReviewService) GetOrderReview(ctx context.Context, actorID, orderID uuid.UUID) (*models.Review, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperr.NotFound("заказ не найден")
		}
		return nil, err
	}
	if order.ClientID != actorID && order.FreelancerID != actorID {
		return nil, apperr.Forbidden("заказ доступен только его участникам")
	}
	return s.reviews.GetByOrderID(ctx, orderID)
}

// ListFreelancerReviews возвращает отзывы о фрилансере.
func (s *ReviewService) ListFreelancerReviews(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	return s.reviews.ListByFreelancer(ctx, freelancerID, limit, offset)
}

// GetFreelancerRating возвращает средний рейтинг фрилансера и число отзывов.
func (s *ReviewService) GetFreelancerRating(ctx context.Context, freelancerID uuid.UUID) (float64, int, error) {
	return s.reviews.GetAverageRating(ctx, freelancerID)
}
