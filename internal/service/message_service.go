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

// MessageRepo описывает зависимости MessageService от хранилища сообщений.
type MessageRepo interface {
	Create(ctx context.Context, msg *models.Message) error
	ListConversation(ctx context.Context, userID, otherID uuid.UUID, limit, offset int) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, userID, otherID uuid.UUID) error
	ListInbox(ctx context.Context, userID uuid.UUID) ([]models.ConversationPreview, error)
}

// MessageUserRepo проверяет существование получателя.
type MessageUserRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// MessageService управляет личной перепиской пользователей.
type MessageService struct {
	messages MessageRepo
	users    MessageUserRepo
	notifier Notifier
}

// NewMessageService создаёт сервис сообщений.
func NewMessageService(messages MessageRepo, users MessageUserRepo, notifier Notifier) *MessageService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &MessageService{messages: messages, users: users, notifier: notifier}
}

// SendMessage отправляет сообщение другому пользователю.
func (s *MessageService) SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if err := validation.ValidateLength("content", content, validation.MinMessageLength, validation.MaxMessageLength); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if senderID == receiverID {
		return nil, apperr.Validation("нельзя отправить сообщение самому себе")
	}

	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("получатель не найден")
		}
		return nil, err
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.notifier.Notify(receiverID, EventNewMessage, map[string]interface{}{
		"message_id": msg.ID,
		"sender_id":  senderID,
	})

	return msg, nil
}

// GetConversation возвращает переписку с собеседником и помечает входящие
// сообщения прочитанными.
func (s *MessageService) GetConversation(ctx context.Context, userID, otherID uuid.UUID, limit, offset int) ([]models.Message, error) {
	msgs, err := s.messages.ListConversation(ctx, userID, otherID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.messages.MarkConversationRead(ctx, userID, otherID); err != nil {
		return nil, err
	}
	return msgs, nil
}

// GetInbox возвращает список переписок пользователя с последним сообщением
// и числом непрочитанных в каждой.
func (s *MessageService) GetInbox(ctx context.Context, userID uuid.UUID) ([]models.ConversationPreview, error) {
	return s.messages.ListInbox(ctx, userID)
}
