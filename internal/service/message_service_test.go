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

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		msg.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockMessageRepo) ListConversation(ctx context.Context, userID, otherID uuid.UUID, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, userID, otherID, limit, offset)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *mockMessageRepo) MarkConversationRead(ctx context.Context, userID, otherID uuid.UUID) error {
	args := m.Called(ctx, userID, otherID)
	return args.Error(0)
}

func (m *mockMessageRepo) ListInbox(ctx context.Context, userID uuid.UUID) ([]models.ConversationPreview, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.ConversationPreview), args.Error(1)
}

type mockMessageUserRepo struct {
	mock.Mock
}

func (m *mockMessageUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestMessageService_SendMessage_Success(t *testing.T) {
	messages := new(mockMessageRepo)
	users := new(mockMessageUserRepo)
	notifier := &recordingNotifier{}
	svc := NewMessageService(messages, users, notifier)
	ctx := context.Background()

	senderID := uuid.New()
	receiver := &models.User{ID: uuid.New(), Username: "sarah_design"}

	users.On("GetByID", ctx, receiver.ID).Return(receiver, nil)
	messages.On("Create", ctx, mock.AnythingOfType("*models.Message")).Return(nil)

	msg, err := svc.SendMessage(ctx, senderID, receiver.ID, "  Привет! Видел твою ставку.  ")

	assert.NoError(t, err)
	assert.Equal(t, "Привет! Видел твою ставку.", msg.Content)
	assert.Equal(t, []string{EventNewMessage}, notifier.events)
	assert.Equal(t, []uuid.UUID{receiver.ID}, notifier.users)
}

func TestMessageService_SendMessage_ToSelf(t *testing.T) {
	messages := new(mockMessageRepo)
	users := new(mockMessageUserRepo)
	svc := NewMessageService(messages, users, nil)
	ctx := context.Background()

	userID := uuid.New()
	_, err := svc.SendMessage(ctx, userID, userID, "заметка себе")

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
	messages.AssertNotCalled(t, "Create")
}

func TestMessageService_SendMessage_EmptyContent(t *testing.T) {
	messages := new(mockMessageRepo)
	users := new(mockMessageUserRepo)
	svc := NewMessageService(messages, users, nil)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, uuid.New(), uuid.New(), "   ")

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestMessageService_SendMessage_ReceiverNotFound(t *testing.T) {
	messages := new(mockMessageRepo)
	users := new(mockMessageUserRepo)
	svc := NewMessageService(messages, users, nil)
	ctx := context.Background()

	receiverID := uuid.New()
	users.On("GetByID", ctx, receiverID).Return(nil, repository.ErrUserNotFound)

	_, err := svc.SendMessage(ctx, uuid.New(), receiverID, "Привет!")

	assert.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestMessageService_GetConversation_MarksRead(t *testing.T) {
	messages := new(mockMessageRepo)
	users := new(mockMessageUserRepo)
	svc := NewMessageService(messages, users, nil)
	ctx := context.Background()

	userID := uuid.New()
	otherID := uuid.New()
	messages.On("ListConversation", ctx, userID, otherID, 50, 0).Return([]models.Message{}, nil)
	messages.On("MarkConversationRead", ctx, userID, otherID).Return(nil)

	_, err := svc.GetConversation(ctx, userID, otherID, 50, 0)

	assert.NoError(t, err)
	messages.AssertCalled(t, "MarkConversationRead", ctx, userID, otherID)
}
