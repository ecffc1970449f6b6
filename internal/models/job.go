package models

import (
	"time"

	"github.com/google/uuid"
)

// Job описывает задание клиента, открытое для ставок фрилансеров.
type Job struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ClientID    uuid.UUID  `db:"client_id" json:"client_id"`
	CategoryID  *uuid.UUID `db:"category_id" json:"category_id,omitempty"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Budget      float64    `db:"budget" json:"budget"`
	DeadlineAt  *time.Time `db:"deadline_at" json:"deadline_at,omitempty"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	BidsCount   *int       `db:"bids_count" json:"bids_count,omitempty"`
}

// Bid представляет ставку фрилансера на задание.
// Пара (job_id, freelancer_id) уникальна, у задания может быть
// не более одной принятой ставки.
type Bid struct {
	ID           uuid.UUID `db:"id" json:"id"`
	JobID        uuid.UUID `db:"job_id" json:"job_id"`
	FreelancerID uuid.UUID `db:"freelancer_id" json:"freelancer_id"`
	ProposalText string    `db:"proposal_text" json:"proposal_text"`
	Amount       float64   `db:"amount" json:"amount"`
	DeliveryDays int       `db:"delivery_days" json:"delivery_days"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
