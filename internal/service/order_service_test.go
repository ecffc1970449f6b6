package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/gig-marketplace/internal/apperr"
	"github.com/ignatzorin/gig-marketplace/internal/models"
	"github.com/ignatzorin/gig-marketplace/internal/repository"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, freelancerID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) Complete(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func inProgressOrder(clientID, freelancerID uuid.UUID) *models.Order {
	return &models.Order{
		ID:           uuid.New(),
		ClientID:     clientID,
		FreelancerID: freelancerID,
		Price:        850,
		Status:       models.OrderStatusInProgress,
	}
}

func TestOrderService_GetOrder_ParticipantsOnly(t *testing.T) {
	repo := new(mockOrderRepo)
	svc := NewOrderService(repo, nil)
	ctx := context.Background()

	clientID := uuid.New()
	freelancerID := uuid.New()
	order := inProgressOrder(clientID, freelancerID)
	repo.On("GetByID", ctx, order.ID).Return(order, nil)

	got, err := svc.GetOrder(ctx, clientID, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	got, err = svc.GetOrder(ctx, freelancerID, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetOrder(ctx, uuid.New(), order.ID)
	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}

func TestOrderService_CompleteOrder_Success(t *testing.T) {
	repo := new(mockOrderRepo)
	notifier := &recordingNotifier{}
	svc := NewOrderService(repo, notifier)
	ctx := context.Background()

	clientID := uuid.New()
	freelancerID := uuid.New()
	order := inProgressOrder(clientID, freelancerID)

	now := time.Now()
	completed := *order
	completed.Status = models.OrderStatusCompleted
	completed.CompletedAt = &now

	repo.On("GetByID", ctx, order.ID).Return(order, nil)
	repo.On("Complete", ctx, order.ID).Return(&completed, nil)

	got, err := svc.CompleteOrder(ctx, clientID, order.ID)

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
	assert.Equal(t, []string{EventOrderCompleted}, notifier.events)
	assert.Equal(t, []uuid.UUID{freelancerID}, notifier.users)
}

func TestOrderService_CompleteOrder_FreelancerForbidden(t *testing.T) {
	repo := new(mockOrderRepo)
	svc := NewOrderService(repo, nil)
	ctx := context.Background()

	clientID := uuid.New()
	freelancerID := uuid.New()
	order := inProgressOrder(clientID, freelancerID)
	repo.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := svc.CompleteOrder(ctx, freelancerID, order.ID)

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
	repo.AssertNotCalled(t, "Complete")
}

func TestOrderService_CompleteOrder_AlreadyCompleted(t *testing.T) {
	repo := new(mockOrderRepo)
	notifier := &recordingNotifier{}
	svc := NewOrderService(repo, notifier)
	ctx := context.Background()

	clientID := uuid.New()
	order := inProgressOrder(clientID, uuid.New())
	repo.On("GetByID", ctx, order.ID).Return(order, nil)
	repo.On("Complete", ctx, order.ID).Return(nil, repository.ErrOrderAlreadyCompleted)

	_, err := svc.CompleteOrder(ctx, clientID, order.ID)

	// Повторное завершение отклоняется, заработок не начисляется повторно.
	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidState))
	assert.Empty(t, notifier.events)
}

func TestOrderService_ListMyOrders_ByRole(t *testing.T) {
	repo := new(mockOrderRepo)
	svc := NewOrderService(repo, nil)
	ctx := context.Background()

	userID := uuid.New()
	repo.On("ListByClient", ctx, userID).Return([]models.Order{}, nil)
	repo.On("ListByFreelancer", ctx, userID).Return([]models.Order{}, nil)

	_, err := svc.ListMyOrders(ctx, userID, models.RoleClient)
	assert.NoError(t, err)
	repo.AssertCalled(t, "ListByClient", ctx, userID)

	_, err = svc.ListMyOrders(ctx, userID, models.RoleFreelancer)
	assert.NoError(t, err)
	repo.AssertCalled(t, "ListByFreelancer", ctx, userID)
}
