package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает учётную запись пользователя платформы.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	FullName     *string    `db:"full_name" json:"full_name,omitempty"`
	PasswordHash string     `db:"password_hash" json:"-"`
	UserType     string     `db:"user_type" json:"user_type"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ClientProfile — профиль заказчика со счётчиками размещённых заказов.
type ClientProfile struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	CompanyName *string   `db:"company_name" json:"company_name,omitempty"`
	CompanySize *string   `db:"company_size" json:"company_size,omitempty"`
	Industry    *string   `db:"industry" json:"industry,omitempty"`
	TotalSpent  float64   `db:"total_spent" json:"total_spent"`
	JobsPosted  int       `db:"jobs_posted" json:"jobs_posted"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// FreelancerProfile — профиль фрилансера с агрегатами по завершённым заказам.
// jobs_completed и total_earned растут только при завершении контракта.
type FreelancerProfile struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	UserID             uuid.UUID `db:"user_id" json:"user_id"`
	Bio                *string   `db:"bio" json:"bio,omitempty"`
	HourlyRate         *float64  `db:"hourly_rate" json:"hourly_rate,omitempty"`
	VerificationStatus string    `db:"verification_status" json:"verification_status"`
	CertificationLevel int       `db:"certification_level" json:"certification_level"`
	BankName           *string   `db:"bank_name" json:"bank_name,omitempty"`
	IBAN               *string   `db:"iban" json:"-"`
	TotalEarned        float64   `db:"total_earned" json:"total_earned"`
	JobsCompleted      int       `db:"jobs_completed" json:"jobs_completed"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// FreelancerStats — агрегаты фрилансера, пересчитанные по истории
// контрактов и платежей. Служит контрольной точкой для счётчиков профиля.
type FreelancerStats struct {
	FreelancerID    uuid.UUID `json:"freelancer_id"`
	JobsCompleted   int       `json:"jobs_completed"`
	TotalEarned     float64   `json:"total_earned"`
	ActiveContracts int       `json:"active_contracts"`
	PendingAmount   float64   `json:"pending_amount"`
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
