package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/gig-marketplace/internal/apperr"
	"github.com/ignatzorin/gig-marketplace/internal/models"
	"github.com/ignatzorin/gig-marketplace/internal/repository"
)

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	if args.Error(0) == nil {
		review.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockReviewRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]models.Review, error) {
	args := m.Called(ctx, freelancerID, limit, offset)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockReviewRepo) GetAverageRating(ctx context.Context, freelancerID uuid.UUID) (float64, int, error) {
	args := m.Called(ctx, freelancerID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

type mockOrderRepoForReview struct {
	mock.Mock
}

func (m *mockOrderRepoForReview) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

// recordingNotifier собирает опубликованные события для проверок.
type recordingNotifier struct {
	events []string
	users  []uuid.UUID
}

func (n *recordingNotifier) Notify(userID uuid.UUID, event string, data interface{}) {
	n.events = append(n.events, event)
	n.users = append(n.users, userID)
}

func completedOrder(clientID, freelancerID uuid.UUID) *models.Order {
	return &models.Order{
		ID:           uuid.New(),
		ClientID:     clientID,
		FreelancerID: freelancerID,
		Price:        500,
		Status:       models.OrderStatusCompleted,
	}
}

func TestReviewService_CreateReview_Success(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	orderRepo := new(mockOrderRepoForReview)
	notifier := &recordingNotifier{}
	svc := NewReviewService(reviewRepo, orderRepo, notifier)
	ctx := context.Background()

	clientID := uuid.New()
	freelancerID := uuid.New()
	order := completedOrder(clientID, freelancerID)

	orderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	reviewRepo.On("Create", ctx, mock.AnythingOfType("*models.Review")).Return(nil)

	review, err := svc.CreateReview(ctx, clientID, order.ID, ReviewInput{Rating: 5, Comment: "Отличная работа!"})

	assert.NoError(t, err)
	assert.NotNil(t, review)
	assert.Equal(t, freelancerID, review.FreelancerID)
	assert.Equal(t, clientID, review.ReviewerID)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, []string{EventReviewReceived}, notifier.events)
	assert.Equal(t, []uuid.UUID{freelancerID}, notifier.users)
}

func TestReviewService_CreateReview_InvalidRating(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	orderRepo := new(mockOrderRepoForReview)
	svc := NewReviewService(reviewRepo, orderRepo, nil)
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, uuid.New(), uuid.New(), ReviewInput{Rating: 0})
	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = svc.CreateReview(ctx, uuid.New(), uuid.New(), ReviewInput{Rating: 6})
	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	orderRepo.AssertNotCalled(t, "GetByID")
	reviewRepo.AssertNotCalled(t, "Create")
}

func TestReviewService_CreateReview_NotOrderClient(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	orderRepo := new(mockOrderRepoForReview)
	svc := NewReviewService(reviewRepo, orderRepo, nil)
	ctx := context.Background()

	order := completedOrder(uuid.New(), uuid.New())
	orderRepo.On("GetByID", ctx, order.ID).Return(order, nil)

	stranger := uuid.New()
	_, err := svc.CreateReview(ctx, stranger, order.ID, ReviewInput{Rating: 4})

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
	reviewRepo.AssertNotCalled(t, "Create")
}

func TestReviewService_CreateReview_OrderNotCompleted(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	orderRepo := new(mockOrderRepoForReview)
	svc := NewReviewService(reviewRepo, orderRepo, nil)
	ctx := context.Background()

	clientID := uuid.New()
	order := completedOrder(clientID, uuid.New())
	order.Status = models.OrderStatusInProgress
	orderRepo.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := svc.CreateReview(ctx, clientID, order.ID, ReviewInput{Rating: 4})

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidState))
}

func TestReviewService_CreateReview_Duplicate(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	orderRepo := new(mockOrderRepoForReview)
	svc := NewReviewService(reviewRepo, orderRepo, nil)
	ctx := context.Background()

	clientID := uuid.New()
	order := completedOrder(clientID, uuid.New())
	orderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	reviewRepo.On("Create", ctx, mock.AnythingOfType("*models.Review")).Return(repository.ErrDuplicateReview)

	_, err := svc.CreateReview(ctx, clientID, order.ID, ReviewInput{Rating: 3})

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeDuplicate))
}

func TestReviewService_GetOrderReview_Forbidden(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	orderRepo := new(mockOrderRepoForReview)
	svc := NewReviewService(reviewRepo, orderRepo, nil)
	ctx := context.Background()

	order := completedOrder(uuid.New(), uuid.New())
	orderRepo.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := svc.GetOrderReview(ctx, uuid.New(), order.ID)

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}
