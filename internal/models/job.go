package models

import (
	"time"

	"github.com/google/uuid"
)

// Job описывает размещённый заказ.
type Job struct {
	ID              uuid.UUID `db:"id" json:"id"`
	ClientID        uuid.UUID `db:"client_id" json:"client_id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	Budget          *float64  `db:"budget" json:"budget,omitempty"`
	Duration        *string   `db:"duration" json:"duration,omitempty"`
	ExperienceLevel string    `db:"experience_level" json:"experience_level"`
	Status          JobStatus `db:"status" json:"status"`
	ProposalsCount  int       `db:"proposals_count" json:"proposals_count"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
	Skills          []Skill   `json:"skills,omitempty"`
}

// Skill — навык из каталога платформы.
type Skill struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Category  *string   `db:"category" json:"category,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// JobSkill — связь заказа с навыком.
type JobSkill struct {
	JobID   uuid.UUID `db:"job_id" json:"job_id"`
	SkillID uuid.UUID `db:"skill_id" json:"skill_id"`
}
