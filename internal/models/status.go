package models

// JobStatus — статус заказа. Переходы только вперёд: open -> in_progress -> completed,
// отмена возможна только из open.
type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода статуса заказа.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	transitions := map[JobStatus][]JobStatus{
		JobStatusOpen:       {JobStatusInProgress, JobStatusCancelled},
		JobStatusInProgress: {JobStatusCompleted},
		JobStatusCompleted:  {},
		JobStatusCancelled:  {},
	}

	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ProposalStatus — статус отклика. approved и rejected терминальны.
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusApproved ProposalStatus = "approved"
	ProposalStatusRejected ProposalStatus = "rejected"
)

func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusPending, ProposalStatusApproved, ProposalStatusRejected:
		return true
	}
	return false
}

// IsTerminal сообщает, что статус отклика больше не меняется.
func (s ProposalStatus) IsTerminal() bool {
	return s == ProposalStatusApproved || s == ProposalStatusRejected
}

// ContractStatus — статус контракта.
type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusDisputed  ContractStatus = "disputed"
	ContractStatusCancelled ContractStatus = "cancelled"
)

func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusActive, ContractStatusCompleted, ContractStatusDisputed, ContractStatusCancelled:
		return true
	}
	return false
}

func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	transitions := map[ContractStatus][]ContractStatus{
		ContractStatusActive:    {ContractStatusCompleted, ContractStatusDisputed, ContractStatusCancelled},
		ContractStatusDisputed:  {ContractStatusCompleted, ContractStatusCancelled},
		ContractStatusCompleted: {},
		ContractStatusCancelled: {},
	}

	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus — статус платёжной записи.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusReleased PaymentStatus = "released"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusReleased, PaymentStatusRefunded:
		return true
	}
	return false
}

// Типы пользователей платформы.
const (
	UserTypeClient     = "client"
	UserTypeFreelancer = "freelancer"
)

// Уровни опыта для заказов.
const (
	ExperienceLevelEntry        = "entry"
	ExperienceLevelIntermediate = "intermediate"
	ExperienceLevelExpert       = "expert"
)

// ValidExperienceLevels список валидных уровней опыта.
var ValidExperienceLevels = map[string]struct{}{
	ExperienceLevelEntry:        {},
	ExperienceLevelIntermediate: {},
	ExperienceLevelExpert:       {},
}

// Статусы верификации фрилансера.
const (
	VerificationStatusPending  = "pending"
	VerificationStatusVerified = "verified"
	VerificationStatusRejected = "rejected"
)
