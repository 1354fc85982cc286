package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-platform/internal/models"
	"github.com/ignatzorin/freelance-platform/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-platform/internal/repository"
	"github.com/ignatzorin/freelance-platform/internal/validation"
)

// ConversationStore описывает хранилище диалогов.
type ConversationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error
}

// ConversationService — переписка в рамках сделки. Диалоги создаются
// оркестратором одобрения, здесь только чтение и отправка сообщений.
type ConversationService struct {
	conversations ConversationStore
}

// NewConversationService создаёт сервис диалогов.
func NewConversationService(conversations ConversationStore) *ConversationService {
	return &ConversationService{conversations: conversations}
}

// ListMyConversations возвращает диалоги пользователя.
func (s *ConversationService) ListMyConversations(ctx context.Context, actingUserID uuid.UUID) ([]models.Conversation, error) {
	return s.conversations.ListByParticipant(ctx, actingUserID)
}

// SendMessage отправляет сообщение в диалог от имени участника.
func (s *ConversationService) SendMessage(ctx context.Context, conversationID, actingUserID uuid.UUID, content string) (*models.Message, error) {
	if err := validation.ValidateMessageContent(content); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	conversation, err := s.getParticipantConversation(ctx, conversationID, actingUserID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       actingUserID,
		Content:        content,
	}
	if err := s.conversations.CreateMessage(ctx, message); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отправить сообщение")
	}
	return message, nil
}

// ListMessages возвращает сообщения диалога участнику и помечает
// входящие прочитанными.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID, actingUserID uuid.UUID, limit, offset int) ([]models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	conversation, err := s.getParticipantConversation(ctx, conversationID, actingUserID)
	if err != nil {
		return nil, err
	}

	messages, err := s.conversations.ListMessages(ctx, conversation.ID, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить сообщения")
	}

	if err := s.conversations.MarkRead(ctx, conversation.ID, actingUserID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отметить сообщения прочитанными")
	}

	return messages, nil
}

func (s *ConversationService) getParticipantConversation(ctx context.Context, conversationID, actingUserID uuid.UUID) (*models.Conversation, error) {
	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, apperror.ErrConversationNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить диалог")
	}
	if !conversation.HasParticipant(actingUserID) {
		return nil, apperror.ErrForbidden
	}
	return conversation, nil
}
