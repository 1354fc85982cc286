package dto

import (
	"github.com/ignatzorin/freelance-platform/internal/models"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Pagination represents pagination metadata
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ApproveProposalResponse represents the result of approving a proposal:
// the formed contract, its escrow payment and the created conversation
type ApproveProposalResponse struct {
	Contract     *models.Contract     `json:"contract"`
	Payment      *models.Payment      `json:"payment"`
	Conversation *models.Conversation `json:"conversation"`
	Message      string               `json:"message"`
}

// ContractWithPaymentResponse represents a contract with its payment record
type ContractWithPaymentResponse struct {
	*models.Contract
	Payment *models.Payment `json:"payment,omitempty"`
}

// ProposalPreviewResponse represents the contract terms a freelancer would
// get for a proposed price
type ProposalPreviewResponse struct {
	ProposedPrice      float64 `json:"proposed_price"`
	PlatformFee        float64 `json:"platform_fee"`
	FreelancerEarnings float64 `json:"freelancer_earnings"`
	DelayPenaltyPerDay float64 `json:"delay_penalty_per_day"`
}
