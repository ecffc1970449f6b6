package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/gig-marketplace/internal/apperr"
	"github.com/ignatzorin/gig-marketplace/internal/goroutine"
	"github.com/ignatzorin/gig-marketplace/internal/models"
	"github.com/ignatzorin/gig-marketplace/internal/repository"
)

// NotificationRepo описывает зависимости NotificationService от хранилища.
type NotificationRepo interface {
	Create(ctx context.Context, userID uuid.UUID, event string, data interface{}) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
}

// Pusher доставляет полезную нагрузку подключённым соединениям пользователя.
type Pusher interface {
	Push(userID uuid.UUID, payload []byte)
}

// NotificationService сохраняет уведомления и доставляет их через WebSocket.
// Реализует Notifier: доменные сервисы публикуют события, не зная
// ни про хранилище, ни про хаб.
type NotificationService struct {
	repo   NotificationRepo
	pusher Pusher
}

// NewNotificationService создаёт сервис уведомлений. pusher может быть nil,
// тогда уведомления только сохраняются.
func NewNotificationService(repo NotificationRepo, pusher Pusher) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher}
}

// Notify сохраняет уведомление и отправляет его в WebSocket. Работает
// асинхронно: сбой доставки не влияет на операцию, породившую событие.
func (s *NotificationService) Notify(userID uuid.UUID, event string, data interface{}) {
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := s.repo.Create(ctx, userID, event, data); err != nil {
			logrus.Errorf("notification: не удалось сохранить %s для %s: %v", event, userID, err)
			return
		}

		if s.pusher == nil {
			return
		}
		// Формат сообщения WebSocket: "type" — имя события, "data" — нагрузка.
		raw, err := json.Marshal(map[string]interface{}{
			"type": event,
			"data": data,
		})
		if err != nil {
			logrus.Errorf("notification: не удалось сериализовать %s: %v", event, err)
			return
		}
		s.pusher.Push(userID, raw)
	})
}

// ListNotifications возвращает уведомления пользователя.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	return s.repo.List(ctx, userID, limit, offset)
}

// CountUnread возвращает число непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkAsRead помечает уведомление пользователя прочитанным.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.MarkAsRead(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return apperr.NotFound("уведомление не найдено")
		}
		return err
	}
	return nil
}

// MarkAllAsRead помечает все уведомления пользователя прочитанными.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
