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

type mockGigRepo struct {
	mock.Mock
}

func (m *mockGigRepo) Create(ctx context.Context, gig *models.Gig) error {
	args := m.Called(ctx, gig)
	if args.Error(0) == nil {
		gig.ID = uuid.New()
		gig.IsActive = true
	}
	return args.Error(0)
}

func (m *mockGigRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gig), args.Error(1)
}

func (m *mockGigRepo) Update(ctx context.Context, gig *models.Gig) error {
	args := m.Called(ctx, gig)
	return args.Error(0)
}

func (m *mockGigRepo) List(ctx context.Context, filter repository.GigListFilter) ([]models.Gig, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Gig), args.Error(1)
}

func (m *mockGigRepo) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Gig, error) {
	args := m.Called(ctx, freelancerID)
	return args.Get(0).([]models.Gig), args.Error(1)
}

func (m *mockGigRepo) SetActive(ctx context.Context, id, freelancerID uuid.UUID, active bool) error {
	args := m.Called(ctx, id, freelancerID, active)
	return args.Error(0)
}

type mockGigOrderRepo struct {
	mock.Mock
}

func (m *mockGigOrderRepo) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	if args.Error(0) == nil {
		order.ID = uuid.New()
	}
	return args.Error(0)
}

func activeGig(freelancerID uuid.UUID) *models.Gig {
	return &models.Gig{
		ID:           uuid.New(),
		FreelancerID: freelancerID,
		Title:        "Backend API на Go",
		Description:  "REST API с базой PostgreSQL и тестами",
		Price:        1200,
		DeliveryDays: 14,
		IsActive:     true,
	}
}

func TestGigService_CreateGig_ClientForbidden(t *testing.T) {
	gigs := new(mockGigRepo)
	orders := new(mockGigOrderRepo)
	svc := NewGigService(gigs, orders, nil)
	ctx := context.Background()

	_, err := svc.CreateGig(ctx, uuid.New(), models.RoleClient, GigInput{
		Title:        "Услуга клиента",
		Description:  "Клиент не может создавать услуги",
		Price:        100,
		DeliveryDays: 3,
	})

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
	gigs.AssertNotCalled(t, "Create")
}

func TestGigService_CreateGig_Validation(t *testing.T) {
	gigs := new(mockGigRepo)
	orders := new(mockGigOrderRepo)
	svc := NewGigService(gigs, orders, nil)
	ctx := context.Background()

	_, err := svc.CreateGig(ctx, uuid.New(), models.RoleFreelancer, GigInput{
		Title:        "ок",
		Description:  "слишком коротко",
		Price:        100,
		DeliveryDays: 3,
	})
	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = svc.CreateGig(ctx, uuid.New(), models.RoleFreelancer, GigInput{
		Title:        "Нормальный заголовок",
		Description:  "Достаточно длинное описание услуги",
		Price:        0,
		DeliveryDays: 3,
	})
	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestGigService_UpdateGig_NotOwner(t *testing.T) {
	gigs := new(mockGigRepo)
	orders := new(mockGigOrderRepo)
	svc := NewGigService(gigs, orders, nil)
	ctx := context.Background()

	gig := activeGig(uuid.New())
	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.UpdateGig(ctx, uuid.New(), gig.ID, GigInput{
		Title:        "Новый заголовок",
		Description:  "Достаточно длинное описание услуги",
		Price:        500,
		DeliveryDays: 5,
	})

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
	gigs.AssertNotCalled(t, "Update")
}

func TestGigService_PurchaseGig_Success(t *testing.T) {
	gigs := new(mockGigRepo)
	orders := new(mockGigOrderRepo)
	notifier := &recordingNotifier{}
	svc := NewGigService(gigs, orders, notifier)
	ctx := context.Background()

	freelancerID := uuid.New()
	clientID := uuid.New()
	gig := activeGig(freelancerID)

	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)
	orders.On("Create", ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := svc.PurchaseGig(ctx, clientID, models.RoleClient, gig.ID)

	assert.NoError(t, err)
	// Цена заказа фиксируется по цене услуги на момент покупки.
	assert.Equal(t, gig.Price, order.Price)
	assert.Equal(t, models.OrderStatusInProgress, order.Status)
	assert.Equal(t, freelancerID, order.FreelancerID)
	assert.NotNil(t, order.GigID)
	assert.Nil(t, order.JobID)
	assert.Equal(t, []string{EventOrderCreated}, notifier.events)
}

func TestGigService_PurchaseGig_Inactive(t *testing.T) {
	gigs := new(mockGigRepo)
	orders := new(mockGigOrderRepo)
	svc := NewGigService(gigs, orders, nil)
	ctx := context.Background()

	gig := activeGig(uuid.New())
	gig.IsActive = false
	gigs.On("GetByID", ctx, gig.ID).Return(gig, nil)

	_, err := svc.PurchaseGig(ctx, uuid.New(), models.RoleClient, gig.ID)

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidState))
	orders.AssertNotCalled(t, "Create")
}

func TestGigService_PurchaseGig_FreelancerForbidden(t *testing.T) {
	gigs := new(mockGigRepo)
	orders := new(mockGigOrderRepo)
	svc := NewGigService(gigs, orders, nil)
	ctx := context.Background()

	_, err := svc.PurchaseGig(ctx, uuid.New(), models.RoleFreelancer, uuid.New())

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
	gigs.AssertNotCalled(t, "GetByID")
}
