package service

import (
	"github.com/google/uuid"
)

// События, которые доставляются пользователям как уведомления.
const (
	EventBidReceived    = "bid_received"
	EventBidAccepted    = "bid_accepted"
	EventBidRejected    = "bid_rejected"
	EventOrderCreated   = "order_created"
	EventOrderCompleted = "order_completed"
	EventReviewReceived = "review_received"
	EventNewMessage     = "new_message"
)

// Notifier доставляет событие пользователю. Доставка асинхронная и не должна
// влиять на исход вызвавшей операции, поэтому ошибок интерфейс не возвращает.
type Notifier interface {
	Notify(userID uuid.UUID, event string, data interface{})
}

// noopNotifier используется, когда уведомления не подключены (тесты).
type noopNotifier struct{}

func (noopNotifier) Notify(uuid.UUID, string, interface{}) {}
