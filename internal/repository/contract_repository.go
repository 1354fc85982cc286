package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-platform/internal/models"
)

// Ошибки жизненного цикла сделки.
var (
	ErrContractNotFound = errors.New("contract not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrNotOwner         = errors.New("entity owned by another client")
	ErrInvalidStatus    = errors.New("invalid status transition")
)

// ContractRepository отвечает за контракты, платежи и связанные с ними
// транзакционные переходы. Все мультисущностные записи выполняются одной
// транзакцией с блокировкой строк: читатель никогда не увидит контракт
// без платежа или завершённый контракт с неосвобождённым платежом.
type ContractRepository struct {
	db *sqlx.DB
}

// NewContractRepository создаёт новый экземпляр.
func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// ApproveProposal одобряет отклик и формирует сделку одной транзакцией:
// контракт, платёж в статусе pending, диалог, статусы отклика и заказа.
// Предусловия проверяются по текущему состоянию строк под блокировкой,
// поэтому два конкурентных одобрения по одному заказу сериализуются:
// победит ровно одно, второе получит ErrInvalidStatus.
func (r *ContractRepository) ApproveProposal(ctx context.Context, proposalID, clientID uuid.UUID) (*models.ApprovalResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Блокируем отклик и заказ на время проверки предусловий.
	var proposal models.Proposal
	err = tx.GetContext(ctx, &proposal, `SELECT * FROM proposals WHERE id = $1 FOR UPDATE`, proposalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("contract repository: approve lock proposal %w", err)
	}

	var job models.Job
	err = tx.GetContext(ctx, &job, `
		SELECT id, client_id, title, description, budget, duration, experience_level, status, proposals_count, created_at, updated_at
		FROM jobs WHERE id = $1 FOR UPDATE
	`, proposal.JobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("contract repository: approve lock job %w", err)
	}

	if job.ClientID != clientID {
		return nil, ErrNotOwner
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, ErrInvalidStatus
	}
	if job.Status != models.JobStatusOpen {
		return nil, ErrInvalidStatus
	}

	platformFee, freelancerEarnings := models.ComputeFees(proposal.ProposedPrice)

	var contract models.Contract
	err = tx.GetContext(ctx, &contract, `
		INSERT INTO contracts (job_id, client_id, freelancer_id, proposal_id, agreed_price, platform_fee, freelancer_earnings, estimated_days, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active')
		RETURNING *
	`, job.ID, clientID, proposal.FreelancerID, proposal.ID, proposal.ProposedPrice, platformFee, freelancerEarnings, proposal.EstimatedDays)
	if err != nil {
		return nil, fmt.Errorf("contract repository: approve create contract %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE proposals SET status = 'approved', updated_at = NOW() WHERE id = $1`, proposal.ID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: approve update proposal %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE jobs SET status = 'in_progress', updated_at = NOW() WHERE id = $1`, job.ID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: approve update job %w", err)
	}

	var payment models.Payment
	err = tx.GetContext(ctx, &payment, `
		INSERT INTO payments (contract_id, client_id, freelancer_id, amount, platform_fee, freelancer_earnings, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING *
	`, contract.ID, clientID, proposal.FreelancerID, contract.AgreedPrice, contract.PlatformFee, contract.FreelancerEarnings)
	if err != nil {
		return nil, fmt.Errorf("contract repository: approve create payment %w", err)
	}

	// Участники диалога — учётные записи пользователей, не профили.
	var clientUserID, freelancerUserID uuid.UUID
	if err := tx.GetContext(ctx, &clientUserID, `SELECT user_id FROM client_profiles WHERE id = $1`, clientID); err != nil {
		return nil, fmt.Errorf("contract repository: approve resolve client user %w", err)
	}
	if err := tx.GetContext(ctx, &freelancerUserID, `SELECT user_id FROM freelancer_profiles WHERE id = $1`, proposal.FreelancerID); err != nil {
		return nil, fmt.Errorf("contract repository: approve resolve freelancer user %w", err)
	}

	var conversation models.Conversation
	err = tx.GetContext(ctx, &conversation, `
		INSERT INTO conversations (job_id, contract_id, participant_1, participant_2)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, job.ID, contract.ID, clientUserID, freelancerUserID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: approve create conversation %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("contract repository: approve commit %w", err)
	}

	return &models.ApprovalResult{
		Contract:     &contract,
		Payment:      &payment,
		Conversation: &conversation,
	}, nil
}

// CompleteContract завершает контракт одной транзакцией: статус контракта,
// освобождение платежа, агрегаты фрилансера и закрытие заказа.
// Заработок берётся из строки контракта под блокировкой, а не из аргументов.
func (r *ContractRepository) CompleteContract(ctx context.Context, contractID, clientID uuid.UUID) (*models.Contract, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var contract models.Contract
	err = tx.GetContext(ctx, &contract, `SELECT * FROM contracts WHERE id = $1 FOR UPDATE`, contractID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("contract repository: complete lock contract %w", err)
	}

	if contract.ClientID != clientID {
		return nil, ErrNotOwner
	}
	if contract.Status != models.ContractStatusActive {
		return nil, ErrInvalidStatus
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE contracts SET status = 'completed', completed_at = $2, updated_at = NOW() WHERE id = $1
	`, contract.ID, now)
	if err != nil {
		return nil, fmt.Errorf("contract repository: complete update contract %w", err)
	}

	// Платёж освобождается строго из pending: защита от повторного начисления.
	res, err := tx.ExecContext(ctx, `
		UPDATE payments SET status = 'released', released_at = $2
		WHERE contract_id = $1 AND status = 'pending'
	`, contract.ID, now)
	if err != nil {
		return nil, fmt.Errorf("contract repository: complete release payment %w", err)
	}
	released, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("contract repository: complete release payment rows %w", err)
	}
	if released != 1 {
		return nil, ErrInvalidStatus
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE freelancer_profiles
		SET jobs_completed = jobs_completed + 1,
		    total_earned = total_earned + $2,
		    updated_at = NOW()
		WHERE id = $1
	`, contract.FreelancerID, contract.FreelancerEarnings)
	if err != nil {
		return nil, fmt.Errorf("contract repository: complete update freelancer stats %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE client_profiles SET total_spent = total_spent + $2, updated_at = NOW() WHERE id = $1
	`, contract.ClientID, contract.AgreedPrice)
	if err != nil {
		return nil, fmt.Errorf("contract repository: complete update client stats %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE jobs SET status = 'completed', updated_at = NOW() WHERE id = $1`, contract.JobID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: complete update job %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("contract repository: complete commit %w", err)
	}

	contract.Status = models.ContractStatusCompleted
	contract.CompletedAt = &now
	return &contract, nil
}

// GetByID возвращает контракт по идентификатору.
func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := r.db.GetContext(ctx, &contract, `SELECT * FROM contracts WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("contract repository: get by id %w", err)
	}
	return &contract, nil
}

// ListByClient возвращает контракты клиента.
func (r *ContractRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.SelectContext(ctx, &contracts, `
		SELECT * FROM contracts WHERE client_id = $1 ORDER BY created_at DESC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: list by client %w", err)
	}
	return contracts, nil
}

// ListByFreelancer возвращает контракты фрилансера.
func (r *ContractRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.SelectContext(ctx, &contracts, `
		SELECT * FROM contracts WHERE freelancer_id = $1 ORDER BY created_at DESC
	`, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: list by freelancer %w", err)
	}
	return contracts, nil
}

// GetPaymentByContractID возвращает платёж контракта.
func (r *ContractRepository) GetPaymentByContractID(ctx context.Context, contractID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.GetContext(ctx, &payment, `SELECT * FROM payments WHERE contract_id = $1`, contractID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("contract repository: get payment %w", err)
	}
	return &payment, nil
}

// ListPaymentsByClient возвращает платежи клиента.
func (r *ContractRepository) ListPaymentsByClient(ctx context.Context, clientID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT * FROM payments WHERE client_id = $1 ORDER BY created_at DESC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: list payments by client %w", err)
	}
	return payments, nil
}

// ListPaymentsByFreelancer возвращает платежи фрилансера.
func (r *ContractRepository) ListPaymentsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT * FROM payments WHERE freelancer_id = $1 ORDER BY created_at DESC
	`, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: list payments by freelancer %w", err)
	}
	return payments, nil
}

// GetFreelancerStats пересчитывает агрегаты фрилансера по истории контрактов
// и платежей. Контрольная точка для счётчиков профиля: значения обязаны
// совпадать с jobs_completed и total_earned.
func (r *ContractRepository) GetFreelancerStats(ctx context.Context, freelancerID uuid.UUID) (*models.FreelancerStats, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM freelancer_profiles WHERE id = $1)
	`, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: stats profile check %w", err)
	}
	if !exists {
		return nil, ErrProfileNotFound
	}

	stats := models.FreelancerStats{FreelancerID: freelancerID}
	err = r.db.GetContext(ctx, &stats.JobsCompleted, `
		SELECT COUNT(*) FROM contracts WHERE freelancer_id = $1 AND status = 'completed'
	`, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: stats completed %w", err)
	}

	err = r.db.GetContext(ctx, &stats.TotalEarned, `
		SELECT COALESCE(SUM(freelancer_earnings), 0) FROM payments
		WHERE freelancer_id = $1 AND status = 'released'
	`, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: stats earned %w", err)
	}

	err = r.db.GetContext(ctx, &stats.ActiveContracts, `
		SELECT COUNT(*) FROM contracts WHERE freelancer_id = $1 AND status = 'active'
	`, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: stats active %w", err)
	}

	err = r.db.GetContext(ctx, &stats.PendingAmount, `
		SELECT COALESCE(SUM(freelancer_earnings), 0) FROM payments
		WHERE freelancer_id = $1 AND status = 'pending'
	`, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("contract repository: stats pending %w", err)
	}

	return &stats, nil
}
