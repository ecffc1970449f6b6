package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/apperr"
	"github.com/ignatzorin/gig-marketplace/internal/models"
	"github.com/ignatzorin/gig-marketplace/internal/repository"
)

// OrderRepo описывает зависимости OrderService от хранилища заказов.
type OrderRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Order, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Order, error)
	Complete(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

// OrderService управляет жизненным циклом заказов.
type OrderService struct {
	orders   OrderRepo
	notifier Notifier
}

// NewOrderService создаёт сервис заказов.
func NewOrderService(orders OrderRepo, notifier Notifier) *OrderService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &OrderService{orders: orders, notifier: notifier}
}

// GetOrder возвращает заказ его участнику.
func (s *OrderService) GetOrder(ctx context.Context, actorID, orderID uuid.UUID) (*models.Order, error) {
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
	return order, nil
}

// ListMyOrders возвращает заказы пользователя со стороны его роли.
func (s *OrderService) ListMyOrders(ctx context.Context, actorID uuid.UUID, actorRole string) ([]models.Order, error) {
	switch actorRole {
	case models.RoleClient:
		return s.orders.ListByClient(ctx, actorID)
	case models.RoleFreelancer:
		return s.orders.ListByFreelancer(ctx, actorID)
	default:
		return nil, apperr.Forbidden("неизвестная роль пользователя")
	}
}

// CompleteOrder завершает заказ от имени клиента-владельца. Переход, закрытие
// задания-источника и начисление заработка атомарны на уровне репозитория,
// повторное завершение отклоняется без повторного начисления.
func (s *OrderService) CompleteOrder(ctx context.Context, actorID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperr.NotFound("заказ не найден")
		}
		return nil, err
	}
	if order.ClientID != actorID {
		return nil, apperr.Forbidden("завершить заказ может только его клиент")
	}

	completed, err := s.orders.Complete(ctx, orderID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return nil, apperr.NotFound("заказ не найден")
		case errors.Is(err, repository.ErrOrderAlreadyCompleted):
			return nil, apperr.InvalidState("заказ уже завершён")
		case errors.Is(err, repository.ErrOrderNotCompletable):
			return nil, apperr.InvalidState("заказ нельзя завершить из текущего статуса")
		default:
			return nil, err
		}
	}

	s.notifier.Notify(completed.FreelancerID, EventOrderCompleted, map[string]interface{}{
		"order_id": completed.ID,
		"price":    completed.Price,
	})

	return completed, nil
}
