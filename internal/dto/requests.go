package dto

import (
	"github.com/google/uuid"
)

// CreateJobRequest represents the request to post a job
type CreateJobRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	Budget          *float64 `json:"budget"`
	Duration        *string  `json:"duration"`
	ExperienceLevel string   `json:"experience_level"`
	SkillIDs        []string `json:"skill_ids"`
}

// ParseSkillIDs converts string UUIDs to uuid.UUID slice
func (r *CreateJobRequest) ParseSkillIDs() ([]uuid.UUID, error) {
	if r.SkillIDs == nil {
		return nil, nil
	}

	var ids []uuid.UUID
	for _, str := range r.SkillIDs {
		if str == "" {
			continue
		}
		parsed, err := uuid.Parse(str)
		if err != nil {
			return nil, err
		}
		ids = append(ids, parsed)
	}
	return ids, nil
}

// CreateProposalRequest represents the request to submit a proposal
type CreateProposalRequest struct {
	Pitch         string  `json:"pitch" binding:"required"`
	ProposedPrice float64 `json:"proposed_price" binding:"required"`
	EstimatedDays int     `json:"estimated_days" binding:"required"`
	PortfolioLink *string `json:"portfolio_link"`
}

// PreviewProposalRequest represents the request to preview contract terms
// for a price before submitting a proposal
type PreviewProposalRequest struct {
	ProposedPrice float64 `json:"proposed_price" binding:"required"`
}

// SendMessageRequest represents the request to send a message
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// RegisterRequest represents the request to register a user
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
	UserType string `json:"user_type"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to rotate tokens
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
