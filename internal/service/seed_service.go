package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/gig-marketplace/internal/apperr"
	"github.com/ignatzorin/gig-marketplace/internal/models"
	"github.com/ignatzorin/gig-marketplace/internal/repository"
)

// SeedService наполняет базу демонстрационными данными для разработки.
// Включается только вне production.
type SeedService struct {
	users   *repository.UserRepository
	catalog *repository.CatalogRepository
	gigs    *repository.GigRepository
	jobs    *repository.JobRepository
	orders  *repository.OrderRepository
	reviews *repository.ReviewRepository
}

// SeedResult перечисляет созданные демо-сущности.
type SeedResult struct {
	Users  []string `json:"users"`
	Gigs   int      `json:"gigs"`
	Jobs   int      `json:"jobs"`
	Bids   int      `json:"bids"`
	Orders int      `json:"orders"`
}

// NewSeedService создаёт сервис демо-данных.
func NewSeedService(
	users *repository.UserRepository,
	catalog *repository.CatalogRepository,
	gigs *repository.GigRepository,
	jobs *repository.JobRepository,
	orders *repository.OrderRepository,
	reviews *repository.ReviewRepository,
) *SeedService {
	return &SeedService{
		users:   users,
		catalog: catalog,
		gigs:    gigs,
		jobs:    jobs,
		orders:  orders,
		reviews: reviews,
	}
}

// Seed создаёт демо-пользователей, услуги, задания и прогоняет один полный
// цикл ставка -> заказ -> завершение -> отзыв. Повторный вызов отклоняется.
func (s *SeedService) Seed(ctx context.Context) (*SeedResult, error) {
	if _, err := s.users.GetByEmail(ctx, "john@example.com"); err == nil {
		return nil, apperr.Conflict("демо-данные уже созданы")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("seed: hash password %w", err)
	}

	john, err := s.createUser(ctx, "john@example.com", "john_dev", models.RoleFreelancer, string(passHash))
	if err != nil {
		return nil, err
	}
	sarah, err := s.createUser(ctx, "sarah@example.com", "sarah_design", models.RoleFreelancer, string(passHash))
	if err != nil {
		return nil, err
	}
	startup, err := s.createUser(ctx, "startup@example.com", "tech_startup", models.RoleClient, string(passHash))
	if err != nil {
		return nil, err
	}
	shop, err := s.createUser(ctx, "shop@example.com", "ecommerce_co", models.RoleClient, string(passHash))
	if err != nil {
		return nil, err
	}

	webDev, err := s.catalog.GetCategoryBySlug(ctx, "web-development")
	if err != nil {
		return nil, err
	}
	design, err := s.catalog.GetCategoryBySlug(ctx, "graphic-design")
	if err != nil {
		return nil, err
	}

	johnBio := "Фуллстек-разработчик, Go и React"
	if err := s.users.UpsertFreelancerProfile(ctx, &models.FreelancerProfile{
		UserID:          john.ID,
		Skills:          []string{"go", "postgresql", "react"},
		Bio:             &johnBio,
		ExperienceYears: 6,
		HourlyRate:      45,
	}); err != nil {
		return nil, err
	}
	sarahBio := "Дизайнер интерфейсов и айдентики"
	if err := s.users.UpsertFreelancerProfile(ctx, &models.FreelancerProfile{
		UserID:          sarah.ID,
		Skills:          []string{"figma", "branding", "illustration"},
		Bio:             &sarahBio,
		ExperienceYears: 4,
		HourlyRate:      35,
	}); err != nil {
		return nil, err
	}
	startupName := "Tech Startup Inc"
	if err := s.users.UpsertClientProfile(ctx, &models.ClientProfile{
		UserID:      startup.ID,
		CompanyName: &startupName,
	}); err != nil {
		return nil, err
	}
	shopName := "Ecommerce Co"
	if err := s.users.UpsertClientProfile(ctx, &models.ClientProfile{
		UserID:      shop.ID,
		CompanyName: &shopName,
	}); err != nil {
		return nil, err
	}

	gigSeeds := []models.Gig{
		{
			FreelancerID: john.ID,
			CategoryID:   &webDev.ID,
			Title:        "Backend API на Go",
			Description:  "Спроектирую и реализую REST API с базой PostgreSQL и тестами",
			Price:        1200,
			DeliveryDays: 14,
		},
		{
			FreelancerID: sarah.ID,
			CategoryID:   &design.ID,
			Title:        "Логотип и фирменный стиль",
			Description:  "Логотип, палитра и гайдлайн для нового бренда в трёх итерациях",
			Price:        400,
			DeliveryDays: 7,
		},
	}
	for i := range gigSeeds {
		if err := s.gigs.Create(ctx, &gigSeeds[i]); err != nil {
			return nil, err
		}
	}

	deadline := time.Now().AddDate(0, 1, 0)
	job := &models.Job{
		ClientID:    startup.ID,
		CategoryID:  &webDev.ID,
		Title:       "Интеграция платёжного провайдера",
		Description: "Нужно подключить платёжный провайдер к существующему Go-бэкенду",
		Budget:      900,
		DeadlineAt:  &deadline,
		Status:      models.JobStatusOpen,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	openJob := &models.Job{
		ClientID:    shop.ID,
		CategoryID:  &design.ID,
		Title:       "Баннеры для распродажи",
		Description: "Серия рекламных баннеров для осенней распродажи магазина",
		Budget:      250,
		Status:      models.JobStatusOpen,
	}
	if err := s.jobs.Create(ctx, openJob); err != nil {
		return nil, err
	}

	bid := &models.Bid{
		JobID:        job.ID,
		FreelancerID: john.ID,
		ProposalText: "Подключал этого провайдера дважды, уложусь в неделю",
		Amount:       850,
		DeliveryDays: 7,
		Status:       models.BidStatusPending,
	}
	if err := s.jobs.CreateBid(ctx, bid); err != nil {
		return nil, err
	}
	sarahBid := &models.Bid{
		JobID:        openJob.ID,
		FreelancerID: sarah.ID,
		ProposalText: "Сделаю серию из шести баннеров в едином стиле",
		Amount:       220,
		DeliveryDays: 5,
		Status:       models.BidStatusPending,
	}
	if err := s.jobs.CreateBid(ctx, sarahBid); err != nil {
		return nil, err
	}

	// Полный цикл: принятие ставки, завершение заказа, отзыв. Рейтинг и
	// заработок john пересчитываются штатными транзакциями.
	_, order, err := s.jobs.AcceptBid(ctx, bid.ID)
	if err != nil {
		return nil, err
	}
	completed, err := s.orders.Complete(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	comment := "Быстро и аккуратно, буду обращаться ещё"
	if err := s.reviews.Create(ctx, &models.Review{
		OrderID:      completed.ID,
		ReviewerID:   startup.ID,
		FreelancerID: john.ID,
		Rating:       5,
		Comment:      &comment,
	}); err != nil {
		return nil, err
	}

	return &SeedResult{
		Users:  []string{john.Username, sarah.Username, startup.Username, shop.Username},
		Gigs:   len(gigSeeds),
		Jobs:   2,
		Bids:   2,
		Orders: 1,
	}, nil
}

func (s *SeedService) createUser(ctx context.Context, email, username, role, passHash string) (*models.User, error) {
	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: passHash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
