package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gig-marketplace/internal/config"
	"github.com/ignatzorin/gig-marketplace/internal/http/handlers"
	"github.com/ignatzorin/gig-marketplace/internal/http/middleware"
	"github.com/ignatzorin/gig-marketplace/internal/service"
)

// Handlers собирает все хэндлеры приложения для SetupRouter.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Profile      *handlers.ProfileHandler
	Catalog      *handlers.CatalogHandler
	Gig          *handlers.GigHandler
	Job          *handlers.JobHandler
	Order        *handlers.OrderHandler
	Review       *handlers.ReviewHandler
	Message      *handlers.MessageHandler
	Notification *handlers.NotificationHandler
	Stats        *handlers.StatsHandler
	Health       *handlers.HealthHandler
	WS           *handlers.WSHandler
	Seed         *handlers.SeedHandler
}

// SetupRouter настраивает все маршруты приложения.
func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")

	if h.Seed != nil && cfg.Env == "development" {
		api.POST("/seed", h.Seed.Seed)
	}

	// Аутентификация с жёстким rate limit.
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	// Публичные маршруты.
	api.GET("/ws", h.WS.Handle)
	api.GET("/catalog/categories", h.Catalog.ListCategories)
	api.GET("/catalog/categories/:slug", h.Catalog.GetCategory)
	api.GET("/gigs", h.Gig.ListGigs)
	api.GET("/gigs/:id", middleware.UUIDValidator("id"), h.Gig.GetGig)
	api.GET("/jobs", h.Job.ListJobs)
	api.GET("/jobs/:id", middleware.UUIDValidator("id"), h.Job.GetJob)
	api.GET("/freelancers/:id", middleware.UUIDValidator("id"), h.Profile.GetFreelancer)
	api.GET("/freelancers/:id/reviews", middleware.UUIDValidator("id"), h.Review.ListFreelancerReviews)

	// Защищённые маршруты.
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", h.Profile.GetMyProfile)
		protected.PUT("/profile/freelancer", h.Profile.UpdateFreelancerProfile)
		protected.PUT("/profile/client", h.Profile.UpdateClientProfile)

		protected.POST("/gigs", h.Gig.CreateGig)
		protected.GET("/gigs/my", h.Gig.ListMyGigs)
		protected.PUT("/gigs/:id", middleware.UUIDValidator("id"), h.Gig.UpdateGig)
		protected.PATCH("/gigs/:id/active", middleware.UUIDValidator("id"), h.Gig.SetGigActive)
		protected.POST("/gigs/:id/purchase", middleware.UUIDValidator("id"), h.Gig.PurchaseGig)

		protected.POST("/jobs", h.Job.CreateJob)
		protected.GET("/jobs/my", h.Job.ListMyJobs)
		protected.PUT("/jobs/:id", middleware.UUIDValidator("id"), h.Job.UpdateJob)
		protected.POST("/jobs/:id/cancel", middleware.UUIDValidator("id"), h.Job.CancelJob)
		protected.POST("/jobs/:id/bids", middleware.UUIDValidator("id"), h.Job.SubmitBid)
		protected.GET("/jobs/:id/bids", middleware.UUIDValidator("id"), h.Job.ListJobBids)
		protected.GET("/bids/my", h.Job.ListMyBids)
		protected.POST("/bids/:id/accept", middleware.UUIDValidator("id"), h.Job.AcceptBid)

		protected.GET("/orders", h.Order.ListMyOrders)
		protected.GET("/orders/:id", middleware.UUIDValidator("id"), h.Order.GetOrder)
		protected.POST("/orders/:id/complete", middleware.UUIDValidator("id"), h.Order.CompleteOrder)
		protected.POST("/orders/:id/review", middleware.UUIDValidator("id"), h.Review.CreateReview)
		protected.GET("/orders/:id/review", middleware.UUIDValidator("id"), h.Review.GetOrderReview)

		protected.POST("/messages", h.Message.SendMessage)
		protected.GET("/messages", h.Message.GetInbox)
		protected.GET("/messages/:id", middleware.UUIDValidator("id"), h.Message.GetConversation)

		protected.GET("/notifications", h.Notification.List)
		protected.POST("/notifications/read-all", h.Notification.MarkAllAsRead)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), h.Notification.MarkAsRead)

		protected.GET("/stats", h.Stats.GetMyStats)
		protected.POST("/stats/rebuild", h.Stats.RebuildMyStats)
	}

	return r
}
