package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message описывает личное сообщение между двумя пользователями.
// История переписки append-only: сообщения не редактируются и не удаляются.
type Message struct {
	ID         uuid.UUID `db:"id" json:"id"`
	SenderID   uuid.UUID `db:"sender_id" json:"sender_id"`
	ReceiverID uuid.UUID `db:"receiver_id" json:"receiver_id"`
	Content    string    `db:"content" json:"content"`
	IsRead     bool      `db:"is_read" json:"is_read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ConversationPreview агрегирует переписку с одним собеседником для инбокса.
type ConversationPreview struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	LastMessage *Message  `json:"last_message,omitempty"`
	UnreadCount int       `json:"unread_count"`
}

// Notification описывает событие, отправленное пользователю.
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// FreelancerStats содержит показатели для дашборда фрилансера.
type FreelancerStats struct {
	Rating          float64 `json:"rating"`
	TotalEarnings   float64 `json:"total_earnings"`
	ActiveOrders    int     `json:"active_orders"`
	CompletedOrders int     `json:"completed_orders"`
	PendingBids     int     `json:"pending_bids"`
}

// ClientStats содержит показатели для дашборда клиента.
type ClientStats struct {
	TotalSpent      float64 `json:"total_spent"`
	ActiveOrders    int     `json:"active_orders"`
	CompletedOrders int     `json:"completed_orders"`
	OpenJobs        int     `json:"open_jobs"`
}
