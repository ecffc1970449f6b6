package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/gig-marketplace/internal/models"
)

// MessageRepository отвечает за личные сообщения. История append-only:
// записи только добавляются, мутирует лишь флаг is_read.
type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create сохраняет сообщение.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query, msg.SenderID, msg.ReceiverID, msg.Content,
	).Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt); err != nil {
		return fmt.Errorf("message repository: create %w", err)
	}
	return nil
}

// ListConversation возвращает переписку двух пользователей по времени.
func (r *MessageRepository) ListConversation(ctx context.Context, userID, otherID uuid.UUID, limit, offset int) ([]models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var messages []models.Message
	query := `
		SELECT id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at
		LIMIT $3 OFFSET $4
	`
	if err := r.db.SelectContext(ctx, &messages, query, userID, otherID, limit, offset); err != nil {
		return nil, fmt.Errorf("message repository: list conversation %w", err)
	}
	return messages, nil
}

// MarkConversationRead помечает прочитанными входящие сообщения от собеседника.
func (r *MessageRepository) MarkConversationRead(ctx context.Context, userID, otherID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE messages SET is_read = TRUE
		WHERE sender_id = $2 AND receiver_id = $1 AND NOT is_read
	`, userID, otherID)
	if err != nil {
		return fmt.Errorf("message repository: mark read %w", err)
	}
	return nil
}

// ListInbox возвращает собеседников пользователя с последним сообщением и
// числом непрочитанных, отсортированных по свежести переписки.
func (r *MessageRepository) ListInbox(ctx context.Context, userID uuid.UUID) ([]models.ConversationPreview, error) {
	query := `
		WITH correspondents AS (
			SELECT DISTINCT CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS other_id
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
		)
		SELECT c.other_id, u.username,
		       m.id AS msg_id, m.sender_id, m.receiver_id, m.content, m.is_read, m.created_at,
		       (SELECT COUNT(*) FROM messages
		        WHERE sender_id = c.other_id AND receiver_id = $1 AND NOT is_read) AS unread_count
		FROM correspondents c
		JOIN users u ON u.id = c.other_id
		JOIN LATERAL (
			SELECT id, sender_id, receiver_id, content, is_read, created_at
			FROM messages
			WHERE (sender_id = $1 AND receiver_id = c.other_id)
			   OR (sender_id = c.other_id AND receiver_id = $1)
			ORDER BY created_at DESC
			LIMIT 1
		) m ON TRUE
		ORDER BY m.created_at DESC
	`

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("message repository: list inbox %w", err)
	}
	defer rows.Close()

	var previews []models.ConversationPreview
	for rows.Next() {
		var (
			preview models.ConversationPreview
			last    models.Message
		)
		if err := rows.Scan(
			&preview.UserID,
			&preview.Username,
			&last.ID,
			&last.SenderID,
			&last.ReceiverID,
			&last.Content,
			&last.IsRead,
			&last.CreatedAt,
			&preview.UnreadCount,
		); err != nil {
			return nil, fmt.Errorf("message repository: scan inbox %w", err)
		}
		preview.LastMessage = &last
		previews = append(previews, preview)
	}

	return previews, rows.Err()
}
