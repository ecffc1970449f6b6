package models

import (
	"time"

	"github.com/google/uuid"
)

// Category представляет категорию услуг и заданий.
type Category struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Slug        string    `db:"slug" json:"slug"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Gig описывает услугу фрилансера, доступную к покупке без торгов.
type Gig struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FreelancerID uuid.UUID  `db:"freelancer_id" json:"freelancer_id"`
	CategoryID   *uuid.UUID `db:"category_id" json:"category_id,omitempty"`
	Title        string     `db:"title" json:"title"`
	Description  string     `db:"description" json:"description"`
	Price        float64    `db:"price" json:"price"`
	DeliveryDays int        `db:"delivery_days" json:"delivery_days"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
