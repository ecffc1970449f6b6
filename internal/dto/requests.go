package dto

import "time"

// RegisterRequest тело POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// LoginRequest тело POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest тело POST /auth/refresh и /auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// GigRequest тело создания и изменения услуги.
type GigRequest struct {
	CategoryID   *string `json:"category_id"`
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description" binding:"required"`
	Price        float64 `json:"price" binding:"required"`
	DeliveryDays int     `json:"delivery_days" binding:"required"`
}

// GigActiveRequest тело переключения видимости услуги.
type GigActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// JobRequest тело создания и изменения задания.
type JobRequest struct {
	CategoryID  *string    `json:"category_id"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Budget      float64    `json:"budget" binding:"required"`
	DeadlineAt  *time.Time `json:"deadline_at"`
}

// BidRequest тело ставки на задание.
type BidRequest struct {
	ProposalText string  `json:"proposal_text" binding:"required"`
	Amount       float64 `json:"amount" binding:"required"`
	DeliveryDays int     `json:"delivery_days" binding:"required"`
}

// ReviewRequest тело отзыва о заказе.
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// MessageRequest тело отправки сообщения.
type MessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// FreelancerProfileRequest тело изменения профиля фрилансера.
type FreelancerProfileRequest struct {
	Skills          []string `json:"skills"`
	Bio             *string  `json:"bio"`
	ExperienceYears int      `json:"experience_years"`
	HourlyRate      float64  `json:"hourly_rate"`
}

// ClientProfileRequest тело изменения профиля клиента.
type ClientProfileRequest struct {
	CompanyName *string `json:"company_name"`
	ContactInfo *string `json:"contact_info"`
}
