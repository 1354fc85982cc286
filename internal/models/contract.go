package models

import (
	"time"

	"github.com/google/uuid"
)

// Contract фиксирует условия сделки между клиентом и фрилансером.
// Денежные поля неизменны после создания; меняются только статус
// и completed_at. Инвариант: agreed_price == platform_fee + freelancer_earnings.
type Contract struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	JobID              uuid.UUID      `db:"job_id" json:"job_id"`
	ClientID           uuid.UUID      `db:"client_id" json:"client_id"`
	FreelancerID       uuid.UUID      `db:"freelancer_id" json:"freelancer_id"`
	ProposalID         uuid.UUID      `db:"proposal_id" json:"proposal_id"`
	AgreedPrice        float64        `db:"agreed_price" json:"agreed_price"`
	PlatformFee        float64        `db:"platform_fee" json:"platform_fee"`
	FreelancerEarnings float64        `db:"freelancer_earnings" json:"freelancer_earnings"`
	EstimatedDays      int            `db:"estimated_days" json:"estimated_days"`
	Status             ContractStatus `db:"status" json:"status"`
	CompletedAt        *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// ApprovalResult — всё, что создаётся при одобрении отклика одной транзакцией.
type ApprovalResult struct {
	Contract     *Contract     `json:"contract"`
	Payment      *Payment      `json:"payment"`
	Conversation *Conversation `json:"conversation"`
}
