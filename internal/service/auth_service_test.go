package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/gig-marketplace/internal/apperr"
	"github.com/ignatzorin/gig-marketplace/internal/models"
	"github.com/ignatzorin/gig-marketplace/internal/repository"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = uuid.New()
		user.IsActive = true
	}
	return args.Error(0)
}

func (m *mockAuthRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockAuthRepo) UpsertFreelancerProfile(ctx context.Context, profile *models.FreelancerProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockAuthRepo) UpsertClientProfile(ctx context.Context, profile *models.ClientProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockAuthRepo) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockAuthRepo) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockAuthRepo) DeleteSession(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func testTokenManager() *TokenManager {
	return NewTokenManager("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestAuthService_Register_FreelancerProfileCreated(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "john@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	repo.On("UpsertFreelancerProfile", ctx, mock.AnythingOfType("*models.FreelancerProfile")).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Register(ctx, RegisterInput{
		Email:    "John@Example.com",
		Password: "Password123",
		Username: "john_dev",
		Role:     models.RoleFreelancer,
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "john@example.com", result.User.Email)
	assert.Equal(t, models.RoleFreelancer, result.User.Role)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
	repo.AssertCalled(t, "UpsertFreelancerProfile", ctx, mock.AnythingOfType("*models.FreelancerProfile"))
	repo.AssertNotCalled(t, "UpsertClientProfile")
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "user@example.com",
		Password: "Password123",
		Username: "someone",
		Role:     "admin",
	}, nil)

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	repo.AssertNotCalled(t, "Create")
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "user@example.com",
		Password: "short",
		Username: "someone",
		Role:     models.RoleClient,
	}, nil)

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	existing := &models.User{ID: uuid.New(), Email: "john@example.com"}
	repo.On("GetByEmail", ctx, "john@example.com").Return(existing, nil)

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "john@example.com",
		Password: "Password123",
		Username: "john_dev",
		Role:     models.RoleFreelancer,
	}, nil)

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeDuplicate))
	repo.AssertNotCalled(t, "Create")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	passHash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "john@example.com",
		PasswordHash: string(passHash),
		Role:         models.RoleFreelancer,
		IsActive:     true,
	}
	repo.On("GetByEmail", ctx, "john@example.com").Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "john@example.com", Password: "WrongPassword1"}, nil)

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	passHash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "john@example.com",
		PasswordHash: string(passHash),
		Role:         models.RoleFreelancer,
		IsActive:     true,
	}
	repo.On("GetByEmail", ctx, "john@example.com").Return(user, nil)
	repo.On("UpdateLastLoginAt", ctx, user.ID).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Login(ctx, LoginInput{Email: "john@example.com", Password: "Password123"}, nil)

	assert.NoError(t, err)
	assert.NotEmpty(t, result.TokenPair.AccessToken)

	// Access токен содержит идентификатор и роль пользователя.
	userID, role, err := testTokenManager().ParseAccess(result.TokenPair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, models.RoleFreelancer, role)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Email: "john@example.com", IsActive: false}
	repo.On("GetByEmail", ctx, "john@example.com").Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "john@example.com", Password: "Password123"}, nil)

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}
