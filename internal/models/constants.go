package models

// JobStatus константы статусов заданий
const (
	JobStatusOpen       = "open"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusCancelled  = "cancelled"
)

// BidStatus константы статусов ставок
const (
	BidStatusPending  = "pending"
	BidStatusAccepted = "accepted"
	BidStatusRejected = "rejected"
)

// OrderStatus константы статусов заказов
const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Роли пользователей платформы
const (
	RoleFreelancer = "freelancer"
	RoleClient     = "client"
)

// ValidJobStatuses список валидных статусов заданий
var ValidJobStatuses = map[string]struct{}{
	JobStatusOpen:       {},
	JobStatusInProgress: {},
	JobStatusCompleted:  {},
	JobStatusCancelled:  {},
}

// ValidBidStatuses список валидных статусов ставок
var ValidBidStatuses = map[string]struct{}{
	BidStatusPending:  {},
	BidStatusAccepted: {},
	BidStatusRejected: {},
}

// ValidOrderStatuses список валидных статусов заказов
var ValidOrderStatuses = map[string]struct{}{
	OrderStatusPending:    {},
	OrderStatusInProgress: {},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleFreelancer: {},
	RoleClient:     {},
}
