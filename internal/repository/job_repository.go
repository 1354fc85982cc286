package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-platform/internal/models"
	"github.com/ignatzorin/freelance-platform/internal/repository/common"
)

// Ошибки уровня репозитория заказов.
var (
	ErrJobNotFound      = errors.New("job not found")
	ErrProposalNotFound = errors.New("proposal not found")
	ErrSkillNotFound    = errors.New("skill not found")
)

// JobRepository отвечает за заказы, их навыки и отклики.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository создаёт новый экземпляр.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// CreateWithSkills создаёт заказ, привязывает навыки и увеличивает счётчик
// размещённых заказов клиента. Всё одной транзакцией: заказ без навыков
// или без учтённого счётчика — дефект, а не допустимый исход.
func (r *JobRepository) CreateWithSkills(ctx context.Context, job *models.Job, skillIDs []uuid.UUID) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO jobs (client_id, title, description, budget, duration, experience_level, status, proposals_count)
			VALUES ($1, $2, $3, $4, $5, $6, 'open', 0)
			RETURNING id, status, proposals_count, created_at, updated_at
		`, job.ClientID, job.Title, job.Description, job.Budget, job.Duration, job.ExperienceLevel,
		).Scan(&job.ID, &job.Status, &job.ProposalsCount, &job.CreatedAt, &job.UpdatedAt)
		if err != nil {
			return fmt.Errorf("job repository: create %w", err)
		}

		if len(skillIDs) > 0 {
			inserter := common.NewBatchInserter(tx, `INSERT INTO job_skills (job_id, skill_id)`, 2, 100)
			for _, skillID := range skillIDs {
				if err := inserter.Add(ctx, job.ID, skillID); err != nil {
					return fmt.Errorf("job repository: create add skill %w", err)
				}
			}
			if err := inserter.Flush(ctx); err != nil {
				return fmt.Errorf("job repository: create flush skills %w", err)
			}
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE client_profiles SET jobs_posted = jobs_posted + 1, updated_at = NOW() WHERE id = $1
		`, job.ClientID)
		if err != nil {
			return fmt.Errorf("job repository: create update client counter %w", err)
		}

		return nil
	})
}

// GetByID возвращает заказ с навыками.
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := common.GetByID[models.Job](ctx, r.db, "jobs", id, ErrJobNotFound)
	if err != nil {
		return nil, err
	}

	skills, err := r.listJobSkills(ctx, id)
	if err != nil {
		return nil, err
	}
	job.Skills = skills
	return job, nil
}

func (r *JobRepository) listJobSkills(ctx context.Context, jobID uuid.UUID) ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.SelectContext(ctx, &skills, `
		SELECT s.id, s.name, s.category, s.created_at
		FROM job_skills js
		JOIN skills s ON s.id = js.skill_id
		WHERE js.job_id = $1
		ORDER BY s.name
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("job repository: list job skills %w", err)
	}
	return skills, nil
}

// ListOpen возвращает открытые заказы для витрины фрилансера.
func (r *JobRepository) ListOpen(ctx context.Context, limit, offset int) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT * FROM jobs WHERE status = 'open' ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("job repository: list open %w", err)
	}
	return jobs, nil
}

// ListByClient возвращает заказы клиента.
func (r *JobRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT * FROM jobs WHERE client_id = $1 ORDER BY created_at DESC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("job repository: list by client %w", err)
	}
	return jobs, nil
}

// CreateProposal сохраняет отклик и увеличивает счётчик откликов заказа
// одной транзакцией. Заказ блокируется: откликнуться можно только на open.
func (r *JobRepository) CreateProposal(ctx context.Context, proposal *models.Proposal) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var status models.JobStatus
		err := tx.GetContext(ctx, &status, `SELECT status FROM jobs WHERE id = $1 FOR UPDATE`, proposal.JobID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrJobNotFound
			}
			return fmt.Errorf("job repository: create proposal lock job %w", err)
		}
		if status != models.JobStatusOpen {
			return ErrInvalidStatus
		}

		err = tx.QueryRowxContext(ctx, `
			INSERT INTO proposals (job_id, freelancer_id, pitch, proposed_price, estimated_days, portfolio_link, status)
			VALUES ($1, $2, $3, $4, $5, $6, 'pending')
			RETURNING id, status, created_at, updated_at
		`, proposal.JobID, proposal.FreelancerID, proposal.Pitch, proposal.ProposedPrice, proposal.EstimatedDays, proposal.PortfolioLink,
		).Scan(&proposal.ID, &proposal.Status, &proposal.CreatedAt, &proposal.UpdatedAt)
		if err != nil {
			return fmt.Errorf("job repository: create proposal %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE jobs SET proposals_count = proposals_count + 1, updated_at = NOW() WHERE id = $1
		`, proposal.JobID)
		if err != nil {
			return fmt.Errorf("job repository: create proposal counter %w", err)
		}

		return nil
	})
}

// GetProposalByID возвращает отклик по идентификатору.
func (r *JobRepository) GetProposalByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return common.GetByID[models.Proposal](ctx, r.db, "proposals", id, ErrProposalNotFound)
}

// ListProposalsByJob возвращает отклики по заказу.
func (r *JobRepository) ListProposalsByJob(ctx context.Context, jobID uuid.UUID) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.SelectContext(ctx, &proposals, `
		SELECT * FROM proposals WHERE job_id = $1 ORDER BY created_at DESC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("job repository: list proposals %w", err)
	}
	return proposals, nil
}

// ListProposalsByFreelancer возвращает отклики фрилансера.
func (r *JobRepository) ListProposalsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.SelectContext(ctx, &proposals, `
		SELECT * FROM proposals WHERE freelancer_id = $1 ORDER BY created_at DESC
	`, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("job repository: list proposals by freelancer %w", err)
	}
	return proposals, nil
}

// RejectProposal отклоняет отклик. Повторное отклонение уже отклонённого —
// безвредный no-op; отклонить одобренный нельзя. Никаких каскадных записей.
func (r *JobRepository) RejectProposal(ctx context.Context, proposalID, clientID uuid.UUID) (*models.Proposal, error) {
	var proposal *models.Proposal
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var p models.Proposal
		err := tx.GetContext(ctx, &p, `SELECT * FROM proposals WHERE id = $1 FOR UPDATE`, proposalID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProposalNotFound
			}
			return fmt.Errorf("job repository: reject lock proposal %w", err)
		}

		var jobClientID uuid.UUID
		if err := tx.GetContext(ctx, &jobClientID, `SELECT client_id FROM jobs WHERE id = $1`, p.JobID); err != nil {
			return fmt.Errorf("job repository: reject resolve job %w", err)
		}
		if jobClientID != clientID {
			return ErrNotOwner
		}

		switch p.Status {
		case models.ProposalStatusRejected:
			proposal = &p
			return nil
		case models.ProposalStatusApproved:
			return ErrInvalidStatus
		}

		err = tx.QueryRowxContext(ctx, `
			UPDATE proposals SET status = 'rejected', updated_at = NOW() WHERE id = $1
			RETURNING *
		`, p.ID).StructScan(&p)
		if err != nil {
			return fmt.Errorf("job repository: reject update %w", err)
		}
		proposal = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return proposal, nil
}

// ListSkills возвращает каталог навыков.
func (r *JobRepository) ListSkills(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.SelectContext(ctx, &skills, `SELECT * FROM skills ORDER BY category NULLS LAST, name`)
	if err != nil {
		return nil, fmt.Errorf("job repository: list skills %w", err)
	}
	return skills, nil
}
