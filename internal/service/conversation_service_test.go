package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/freelance-platform/internal/models"
	"github.com/ignatzorin/freelance-platform/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-platform/internal/repository"
)

type mockConversationStore struct {
	mock.Mock
}

func (m *mockConversationStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *mockConversationStore) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func (m *mockConversationStore) CreateMessage(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	if args.Error(0) == nil {
		message.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockConversationStore) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, limit, offset)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *mockConversationStore) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	args := m.Called(ctx, conversationID, readerID)
	return args.Error(0)
}

func conversationFixture(participant1, participant2 uuid.UUID) *models.Conversation {
	return &models.Conversation{
		ID:           uuid.New(),
		JobID:        uuid.New(),
		ContractID:   uuid.New(),
		Participant1: participant1,
		Participant2: participant2,
	}
}

func TestConversationService_SendMessage_Success(t *testing.T) {
	store := new(mockConversationStore)
	svc := NewConversationService(store)
	ctx := context.Background()

	senderID := uuid.New()
	conversation := conversationFixture(senderID, uuid.New())

	store.On("GetByID", ctx, conversation.ID).Return(conversation, nil)
	store.On("CreateMessage", ctx, mock.AnythingOfType("*models.Message")).Return(nil)

	message, err := svc.SendMessage(ctx, conversation.ID, senderID, "Добрый день, приступаю к работе")
	assert.NoError(t, err)
	assert.Equal(t, senderID, message.SenderID)
	assert.Equal(t, conversation.ID, message.ConversationID)
	store.AssertExpectations(t)
}

func TestConversationService_SendMessage_ForbiddenForStranger(t *testing.T) {
	store := new(mockConversationStore)
	svc := NewConversationService(store)
	ctx := context.Background()

	conversation := conversationFixture(uuid.New(), uuid.New())
	store.On("GetByID", ctx, conversation.ID).Return(conversation, nil)

	message, err := svc.SendMessage(ctx, conversation.ID, uuid.New(), "Здравствуйте")
	assert.Nil(t, message)
	assert.True(t, apperror.IsForbidden(err))
	store.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestConversationService_SendMessage_EmptyContent(t *testing.T) {
	store := new(mockConversationStore)
	svc := NewConversationService(store)

	message, err := svc.SendMessage(context.Background(), uuid.New(), uuid.New(), "   ")
	assert.Nil(t, message)
	assert.True(t, apperror.IsValidation(err))
}

func TestConversationService_SendMessage_NotFound(t *testing.T) {
	store := new(mockConversationStore)
	svc := NewConversationService(store)
	ctx := context.Background()

	conversationID := uuid.New()
	store.On("GetByID", ctx, conversationID).Return(nil, repository.ErrConversationNotFound)

	message, err := svc.SendMessage(ctx, conversationID, uuid.New(), "Здравствуйте")
	assert.Nil(t, message)
	assert.True(t, apperror.IsNotFound(err))
}

func TestConversationService_ListMessages_MarksRead(t *testing.T) {
	store := new(mockConversationStore)
	svc := NewConversationService(store)
	ctx := context.Background()

	readerID := uuid.New()
	conversation := conversationFixture(uuid.New(), readerID)
	expected := []models.Message{{ID: uuid.New(), ConversationID: conversation.ID, Content: "привет"}}

	store.On("GetByID", ctx, conversation.ID).Return(conversation, nil)
	store.On("ListMessages", ctx, conversation.ID, 50, 0).Return(expected, nil)
	store.On("MarkRead", ctx, conversation.ID, readerID).Return(nil)

	messages, err := svc.ListMessages(ctx, conversation.ID, readerID, 0, -1)
	assert.NoError(t, err)
	assert.Equal(t, expected, messages)
	store.AssertExpectations(t)
}
