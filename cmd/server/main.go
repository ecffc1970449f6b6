package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/gig-marketplace/internal/config"
	"github.com/ignatzorin/gig-marketplace/internal/db"
	httpHandlers "github.com/ignatzorin/gig-marketplace/internal/http/handlers"
	httpRouter "github.com/ignatzorin/gig-marketplace/internal/http/router"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
	"github.com/ignatzorin/gig-marketplace/internal/repository"
	"github.com/ignatzorin/gig-marketplace/internal/service"
	"github.com/ignatzorin/gig-marketplace/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	catalogRepo := repository.NewCatalogRepository(dbConn)
	gigRepo := repository.NewGigRepository(dbConn)
	jobRepo := repository.NewJobRepository(dbConn)
	orderRepo := repository.NewOrderRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	messageRepo := repository.NewMessageRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)
	statsRepo := repository.NewStatsRepository(dbConn)
	reputationRepo := repository.NewReputationRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()

	// Сервисы.
	notificationService := service.NewNotificationService(notificationRepo, hub)
	authService := service.NewAuthService(userRepo, tokenManager)
	profileService := service.NewProfileService(userRepo)
	catalogService := service.NewCatalogService(catalogRepo)
	gigService := service.NewGigService(gigRepo, orderRepo, notificationService)
	jobService := service.NewJobService(jobRepo, notificationService)
	orderService := service.NewOrderService(orderRepo, notificationService)
	reviewService := service.NewReviewService(reviewRepo, orderRepo, notificationService)
	messageService := service.NewMessageService(messageRepo, userRepo, notificationService)
	statsService := service.NewStatsService(statsRepo, reputationRepo)
	seedService := service.NewSeedService(userRepo, catalogRepo, gigRepo, jobRepo, orderRepo, reviewRepo)

	// HTTP хэндлеры.
	h := httpRouter.Handlers{
		Auth:         httpHandlers.NewAuthHandler(authService),
		Profile:      httpHandlers.NewProfileHandler(profileService),
		Catalog:      httpHandlers.NewCatalogHandler(catalogService),
		Gig:          httpHandlers.NewGigHandler(gigService),
		Job:          httpHandlers.NewJobHandler(jobService),
		Order:        httpHandlers.NewOrderHandler(orderService),
		Review:       httpHandlers.NewReviewHandler(reviewService),
		Message:      httpHandlers.NewMessageHandler(messageService),
		Notification: httpHandlers.NewNotificationHandler(notificationService),
		Stats:        httpHandlers.NewStatsHandler(statsService),
		Health:       httpHandlers.NewHealthHandler(dbConn),
		WS:           httpHandlers.NewWSHandler(hub, tokenManager),
		Seed:         httpHandlers.NewSeedHandler(seedService),
	}

	engine := httpRouter.SetupRouter(cfg, h, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
