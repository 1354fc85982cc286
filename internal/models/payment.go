package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment — платёжная запись по контракту. Создаётся ровно одна на контракт
// в статусе pending; в released переходит только при завершении контракта.
// Инвариант: amount == platform_fee + freelancer_earnings, delay_penalty
// учитывается отдельно и не входит в amount.
type Payment struct {
	ID                 uuid.UUID     `db:"id" json:"id"`
	ContractID         uuid.UUID     `db:"contract_id" json:"contract_id"`
	ClientID           uuid.UUID     `db:"client_id" json:"client_id"`
	FreelancerID       uuid.UUID     `db:"freelancer_id" json:"freelancer_id"`
	Amount             float64       `db:"amount" json:"amount"`
	PlatformFee        float64       `db:"platform_fee" json:"platform_fee"`
	FreelancerEarnings float64       `db:"freelancer_earnings" json:"freelancer_earnings"`
	DelayPenalty       float64       `db:"delay_penalty" json:"delay_penalty"`
	Status             PaymentStatus `db:"status" json:"status"`
	ReleasedAt         *time.Time    `db:"released_at" json:"released_at,omitempty"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
}
