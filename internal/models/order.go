package models

import (
	"time"

	"github.com/google/uuid"
)

// Order описывает заказ, созданный при покупке услуги или принятии ставки.
// Ровно одно из полей GigID/JobID заполнено и указывает на источник заказа.
type Order struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ClientID     uuid.UUID  `db:"client_id" json:"client_id"`
	FreelancerID uuid.UUID  `db:"freelancer_id" json:"freelancer_id"`
	GigID        *uuid.UUID `db:"gig_id" json:"gig_id,omitempty"`
	JobID        *uuid.UUID `db:"job_id" json:"job_id,omitempty"`
	Price        float64    `db:"price" json:"price"`
	Status       string     `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	// CompletedAt проставляется ровно один раз при переходе в completed.
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// Review описывает отзыв клиента о завершённом заказе. Один отзыв на заказ,
// после создания не изменяется.
type Review struct {
	ID           uuid.UUID `db:"id" json:"id"`
	OrderID      uuid.UUID `db:"order_id" json:"order_id"`
	ReviewerID   uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	FreelancerID uuid.UUID `db:"freelancer_id" json:"freelancer_id"`
	Rating       int       `db:"rating" json:"rating"`
	Comment      *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
