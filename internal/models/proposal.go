package models

import (
	"time"

	"github.com/google/uuid"
)

// Proposal представляет отклик фрилансера на заказ.
type Proposal struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	JobID         uuid.UUID      `db:"job_id" json:"job_id"`
	FreelancerID  uuid.UUID      `db:"freelancer_id" json:"freelancer_id"`
	Pitch         string         `db:"pitch" json:"pitch"`
	ProposedPrice float64        `db:"proposed_price" json:"proposed_price"`
	EstimatedDays int            `db:"estimated_days" json:"estimated_days"`
	PortfolioLink *string        `db:"portfolio_link" json:"portfolio_link,omitempty"`
	Status        ProposalStatus `db:"status" json:"status"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}
