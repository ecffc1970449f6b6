package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/gig-marketplace/internal/models"
)

// Ошибки уровня репозитория пользователей.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrSessionNotFound = errors.New("session not found")
)

// UserRepository отвечает за работу с таблицами users, профилей и sessions.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт нового пользователя.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, username, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, username, password_hash, role, is_active, last_login_at, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}

	return &user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, username, password_hash, role, is_active, last_login_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}

	return &user, nil
}

// UpdateLastLoginAt фиксирует время последнего входа.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("user repository: update last login %w", err)
	}
	return nil
}

// GetFreelancerProfile возвращает профиль фрилансера.
func (r *UserRepository) GetFreelancerProfile(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error) {
	var profile models.FreelancerProfile
	query := `
		SELECT user_id, skills, bio, experience_years, hourly_rate, rating, total_earnings, created_at, updated_at
		FROM freelancer_profiles
		WHERE user_id = $1
	`
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("user repository: get freelancer profile %w", err)
	}
	return &profile, nil
}

// GetClientProfile возвращает профиль клиента.
func (r *UserRepository) GetClientProfile(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error) {
	var profile models.ClientProfile
	query := `
		SELECT user_id, company_name, contact_info, created_at, updated_at
		FROM client_profiles
		WHERE user_id = $1
	`
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("user repository: get client profile %w", err)
	}
	return &profile, nil
}

// UpsertFreelancerProfile создаёт или обновляет редактируемые поля профиля
// фрилансера. Производные rating и total_earnings здесь не трогаются.
func (r *UserRepository) UpsertFreelancerProfile(ctx context.Context, profile *models.FreelancerProfile) error {
	query := `
		INSERT INTO freelancer_profiles (user_id, skills, bio, experience_years, hourly_rate)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET skills = EXCLUDED.skills,
		    bio = EXCLUDED.bio,
		    experience_years = EXCLUDED.experience_years,
		    hourly_rate = EXCLUDED.hourly_rate,
		    updated_at = NOW()
		RETURNING user_id, skills, bio, experience_years, hourly_rate, rating, total_earnings, created_at, updated_at
	`

	row := r.db.QueryRowxContext(
		ctx, query,
		profile.UserID,
		pq.Array(profile.Skills),
		profile.Bio,
		profile.ExperienceYears,
		profile.HourlyRate,
	)
	if err := row.StructScan(profile); err != nil {
		return fmt.Errorf("user repository: upsert freelancer profile %w", err)
	}
	return nil
}

// UpsertClientProfile создаёт или обновляет профиль клиента.
func (r *UserRepository) UpsertClientProfile(ctx context.Context, profile *models.ClientProfile) error {
	query := `
		INSERT INTO client_profiles (user_id, company_name, contact_info)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET company_name = EXCLUDED.company_name,
		    contact_info = EXCLUDED.contact_info,
		    updated_at = NOW()
		RETURNING user_id, company_name, contact_info, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query, profile.UserID, profile.CompanyName, profile.ContactInfo)
	if err := row.StructScan(profile); err != nil {
		return fmt.Errorf("user repository: upsert client profile %w", err)
	}
	return nil
}

// CreateSession сохраняет refresh сессию.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		session.UserID, session.RefreshToken, session.UserAgent, session.IPAddress, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("user repository: create session %w", err)
	}
	return nil
}

// GetSessionByToken возвращает сессию по refresh токену.
func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	var session models.Session
	query := `
		SELECT id, user_id, refresh_token, user_agent, ip_address, expires_at, created_at
		FROM sessions
		WHERE refresh_token = $1
	`
	if err := r.db.GetContext(ctx, &session, query, refreshToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("user repository: get session %w", err)
	}
	return &session, nil
}

// DeleteSession удаляет сессию по refresh токену.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE refresh_token = $1`, refreshToken)
	if err != nil {
		return fmt.Errorf("user repository: delete session %w", err)
	}
	return nil
}
