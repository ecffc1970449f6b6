package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// User описывает сущность пользователя платформы.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// FreelancerProfile описывает профиль фрилансера.
// Поля Rating и TotalEarnings производные: их пересчитывает агрегатор
// репутации при создании отзыва и завершении заказа, напрямую они не
// редактируются.
type FreelancerProfile struct {
	UserID          uuid.UUID      `db:"user_id" json:"user_id"`
	Skills          pq.StringArray `db:"skills" json:"skills"`
	Bio             *string        `db:"bio" json:"bio,omitempty"`
	ExperienceYears int            `db:"experience_years" json:"experience_years"`
	HourlyRate      float64        `db:"hourly_rate" json:"hourly_rate"`
	Rating          float64        `db:"rating" json:"rating"`
	TotalEarnings   float64        `db:"total_earnings" json:"total_earnings"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// ClientProfile описывает профиль клиента.
type ClientProfile struct {
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	CompanyName *string   `db:"company_name" json:"company_name,omitempty"`
	ContactInfo *string   `db:"contact_info" json:"contact_info,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
