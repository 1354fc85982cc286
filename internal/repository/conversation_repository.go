package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-platform/internal/models"
	"github.com/ignatzorin/freelance-platform/internal/repository/common"
)

// ErrConversationNotFound возвращается, когда диалог не найден.
var ErrConversationNotFound = errors.New("conversation not found")

// ConversationRepository отвечает за диалоги и сообщения.
// Диалоги создаются только вместе с контрактом (см. ContractRepository).
type ConversationRepository struct {
	db *sqlx.DB
}

// NewConversationRepository создаёт новый экземпляр.
func NewConversationRepository(db *sqlx.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetByID возвращает диалог по идентификатору.
func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	return common.GetByID[models.Conversation](ctx, r.db, "conversations", id, ErrConversationNotFound)
}

// ListByParticipant возвращает диалоги пользователя, свежие первыми.
func (r *ConversationRepository) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.SelectContext(ctx, &conversations, `
		SELECT * FROM conversations
		WHERE participant_1 = $1 OR participant_2 = $1
		ORDER BY last_message_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("conversation repository: list %w", err)
	}
	return conversations, nil
}

// CreateMessage сохраняет сообщение и обновляет время последнего сообщения
// диалога одной транзакцией.
func (r *ConversationRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO messages (conversation_id, sender_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, read, created_at
		`, message.ConversationID, message.SenderID, message.Content,
		).Scan(&message.ID, &message.Read, &message.CreatedAt)
		if err != nil {
			return fmt.Errorf("conversation repository: create message %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE conversations SET last_message_at = $2 WHERE id = $1
		`, message.ConversationID, message.CreatedAt)
		if err != nil {
			return fmt.Errorf("conversation repository: touch conversation %w", err)
		}
		return nil
	})
}

// ListMessages возвращает сообщения диалога в хронологическом порядке.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.SelectContext(ctx, &messages, `
		SELECT * FROM messages WHERE conversation_id = $1 ORDER BY created_at LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("conversation repository: list messages %w", err)
	}
	return messages, nil
}

// MarkRead отмечает прочитанными входящие сообщения диалога.
func (r *ConversationRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE messages SET read = TRUE
		WHERE conversation_id = $1 AND sender_id <> $2 AND read = FALSE
	`, conversationID, readerID)
	if err != nil {
		return fmt.Errorf("conversation repository: mark read %w", err)
	}
	return nil
}
