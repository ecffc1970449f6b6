package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/apperr"
	"github.com/ignatzorin/gig-marketplace/internal/models"
	"github.com/ignatzorin/gig-marketplace/internal/repository"
	"github.com/ignatzorin/gig-marketplace/internal/validation"
)

// ProfileRepo описывает зависимости ProfileService от хранилища пользователей.
type ProfileRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetFreelancerProfile(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error)
	GetClientProfile(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error)
	UpsertFreelancerProfile(ctx context.Context, profile *models.FreelancerProfile) error
	UpsertClientProfile(ctx context.Context, profile *models.ClientProfile) error
}

// ProfileService управляет профилями фрилансеров и клиентов.
type ProfileService struct {
	repo ProfileRepo
}

// FreelancerProfileInput содержит редактируемые поля профиля фрилансера.
// Rating и TotalEarnings сюда не входят: их ведёт агрегатор репутации.
type FreelancerProfileInput struct {
	Skills          []string
	Bio             *string
	ExperienceYears int
	HourlyRate      float64
}

// ClientProfileInput содержит редактируемые поля профиля клиента.
type ClientProfileInput struct {
	CompanyName *string
	ContactInfo *string
}

// PublicFreelancer объединяет пользователя и профиль для публичной страницы.
type PublicFreelancer struct {
	User    *models.User              `json:"user"`
	Profile *models.FreelancerProfile `json:"profile"`
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(repo ProfileRepo) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetFreelancer возвращает публичный профиль фрилансера.
func (s *ProfileService) GetFreelancer(ctx context.Context, userID uuid.UUID) (*PublicFreelancer, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("пользователь не найден")
		}
		return nil, err
	}
	if user.Role != models.RoleFreelancer {
		return nil, apperr.NotFound("фрилансер не найден")
	}

	profile, err := s.repo.GetFreelancerProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperr.NotFound("профиль не найден")
		}
		return nil, err
	}
	return &PublicFreelancer{User: user, Profile: profile}, nil
}

// GetMyFreelancerProfile возвращает профиль фрилансера его владельцу.
func (s *ProfileService) GetMyFreelancerProfile(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error) {
	profile, err := s.repo.GetFreelancerProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperr.NotFound("профиль не найден")
		}
		return nil, err
	}
	return profile, nil
}

// GetMyClientProfile возвращает профиль клиента его владельцу.
func (s *ProfileService) GetMyClientProfile(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error) {
	profile, err := s.repo.GetClientProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperr.NotFound("профиль не найден")
		}
		return nil, err
	}
	return profile, nil
}

// UpdateFreelancerProfile изменяет профиль фрилансера.
func (s *ProfileService) UpdateFreelancerProfile(ctx context.Context, actorID uuid.UUID, actorRole string, in FreelancerProfileInput) (*models.FreelancerProfile, error) {
	if actorRole != models.RoleFreelancer {
		return nil, apperr.Forbidden("профиль фрилансера доступен только фрилансерам")
	}
	if len(in.Skills) > validation.MaxSkillsCount {
		return nil, apperr.Validation("слишком много навыков")
	}
	skills := make([]string, 0, len(in.Skills))
	for _, skill := range in.Skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		if err := validation.ValidateLength("skill", skill, 1, validation.MaxSkillLength); err != nil {
			return nil, apperr.Validation(err.Error())
		}
		skills = append(skills, skill)
	}
	if in.Bio != nil {
		if err := validation.ValidateLength("bio", *in.Bio, 0, validation.MaxBioLength); err != nil {
			return nil, apperr.Validation(err.Error())
		}
	}
	if in.ExperienceYears < 0 || in.ExperienceYears > 80 {
		return nil, apperr.Validation("стаж указан некорректно")
	}
	if in.HourlyRate < 0 || in.HourlyRate > validation.MaxPrice {
		return nil, apperr.Validation("почасовая ставка указана некорректно")
	}

	profile := &models.FreelancerProfile{
		UserID:          actorID,
		Skills:          skills,
		Bio:             in.Bio,
		ExperienceYears: in.ExperienceYears,
		HourlyRate:      in.HourlyRate,
	}
	if err := s.repo.UpsertFreelancerProfile(ctx, profile); err != nil {
		return nil, err
	}
	return s.GetMyFreelancerProfile(ctx, actorID)
}

// UpdateClientProfile изменяет профиль клиента.
func (s *ProfileService) UpdateClientProfile(ctx context.Context, actorID uuid.UUID, actorRole string, in ClientProfileInput) (*models.ClientProfile, error) {
	if actorRole != models.RoleClient {
		return nil, apperr.Forbidden("профиль клиента доступен только клиентам")
	}
	if in.CompanyName != nil {
		if err := validation.ValidateLength("company_name", *in.CompanyName, 0, validation.MaxTitleLength); err != nil {
			return nil, apperr.Validation(err.Error())
		}
	}

	profile := &models.ClientProfile{
		UserID:      actorID,
		CompanyName: in.CompanyName,
		ContactInfo: in.ContactInfo,
	}
	if err := s.repo.UpsertClientProfile(ctx, profile); err != nil {
		return nil, err
	}
	return s.GetMyClientProfile(ctx, actorID)
}
