package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation — диалог между клиентом и фрилансером.
// Создаётся один раз вместе с контрактом.
type Conversation struct {
	ID            uuid.UUID `db:"id" json:"id"`
	JobID         uuid.UUID `db:"job_id" json:"job_id"`
	ContractID    uuid.UUID `db:"contract_id" json:"contract_id"`
	Participant1  uuid.UUID `db:"participant_1" json:"participant_1"`
	Participant2  uuid.UUID `db:"participant_2" json:"participant_2"`
	LastMessageAt time.Time `db:"last_message_at" json:"last_message_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// HasParticipant проверяет, что пользователь является участником диалога.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.Participant1 == userID || c.Participant2 == userID
}

// Message — сообщение внутри диалога.
type Message struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	SenderID       uuid.UUID `db:"sender_id" json:"sender_id"`
	Content        string    `db:"content" json:"content"`
	Read           bool      `db:"read" json:"read"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
