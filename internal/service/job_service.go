package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-platform/internal/models"
	"github.com/ignatzorin/freelance-platform/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-platform/internal/repository"
	"github.com/ignatzorin/freelance-platform/internal/repository/common"
	"github.com/ignatzorin/freelance-platform/internal/validation"
)

// JobStore описывает зависимости JobService от хранилища заказов.
type JobStore interface {
	CreateWithSkills(ctx context.Context, job *models.Job, skillIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListOpen(ctx context.Context, limit, offset int) ([]models.Job, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error)
	CreateProposal(ctx context.Context, proposal *models.Proposal) error
	GetProposalByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	ListProposalsByJob(ctx context.Context, jobID uuid.UUID) ([]models.Proposal, error)
	ListProposalsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error)
	ListSkills(ctx context.Context) ([]models.Skill, error)
}

// PostJobInput содержит данные нового заказа.
type PostJobInput struct {
	Title           string
	Description     string
	Budget          *float64
	Duration        *string
	ExperienceLevel string
	SkillIDs        []uuid.UUID
}

// SubmitProposalInput содержит данные отклика.
type SubmitProposalInput struct {
	JobID         uuid.UUID
	Pitch         string
	ProposedPrice float64
	EstimatedDays int
	PortfolioLink *string
}

// ProposalPreview — превью условий сделки для фрилансера до отправки отклика.
// Считается тем же калькулятором, что и при создании контракта.
type ProposalPreview struct {
	ProposedPrice      float64 `json:"proposed_price"`
	PlatformFee        float64 `json:"platform_fee"`
	FreelancerEarnings float64 `json:"freelancer_earnings"`
	DelayPenaltyPerDay float64 `json:"delay_penalty_per_day"`
}

// JobService — размещение заказов и подача откликов.
type JobService struct {
	jobs     JobStore
	profiles ProfileDirectory
}

// NewJobService создаёт сервис заказов.
func NewJobService(jobs JobStore, profiles ProfileDirectory) *JobService {
	return &JobService{jobs: jobs, profiles: profiles}
}

// PostJob размещает заказ от имени клиента: заказ, навыки и счётчик
// jobs_posted записываются одной транзакцией хранилища.
func (s *JobService) PostJob(ctx context.Context, actingUserID uuid.UUID, in PostJobInput) (*models.Job, error) {
	if err := validation.ValidateJobTitle(in.Title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateJobDescription(in.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateBudget(in.Budget); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	level := in.ExperienceLevel
	if level == "" {
		level = models.ExperienceLevelIntermediate
	}
	if _, ok := models.ValidExperienceLevels[level]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный уровень опыта")
	}

	profile, err := s.profiles.GetClientProfileByUserID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperror.ErrForbidden
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль клиента")
	}

	job := &models.Job{
		ClientID:        profile.ID,
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		Budget:          in.Budget,
		Duration:        in.Duration,
		ExperienceLevel: level,
	}

	if err := s.jobs.CreateWithSkills(ctx, job, in.SkillIDs); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать заказ")
	}

	return job, nil
}

// GetJob возвращает заказ с навыками.
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заказ")
	}
	return job, nil
}

// ListOpenJobs возвращает открытые заказы.
func (s *JobService) ListOpenJobs(ctx context.Context, limit, offset int) ([]models.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.jobs.ListOpen(ctx, limit, offset)
}

// ListMyJobs возвращает заказы клиента.
func (s *JobService) ListMyJobs(ctx context.Context, actingUserID uuid.UUID) ([]models.Job, error) {
	profile, err := s.profiles.GetClientProfileByUserID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperror.ErrForbidden
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль клиента")
	}
	return s.jobs.ListByClient(ctx, profile.ID)
}

// SubmitProposal подаёт отклик от имени фрилансера. Откликаться могут
// только верифицированные фрилансеры и только на открытые заказы.
func (s *JobService) SubmitProposal(ctx context.Context, actingUserID uuid.UUID, in SubmitProposalInput) (*models.Proposal, error) {
	if err := validation.ValidatePitch(in.Pitch); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePrice(in.ProposedPrice); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateEstimatedDays(in.EstimatedDays); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateExternalLink(in.PortfolioLink); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	profile, err := s.profiles.GetFreelancerProfileByUserID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperror.ErrForbidden
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль фрилансера")
	}
	if profile.VerificationStatus != models.VerificationStatusVerified {
		return nil, apperror.New(apperror.ErrCodeForbidden, "для подачи откликов требуется верификация")
	}

	proposal := &models.Proposal{
		JobID:         in.JobID,
		FreelancerID:  profile.ID,
		Pitch:         strings.TrimSpace(in.Pitch),
		ProposedPrice: in.ProposedPrice,
		EstimatedDays: in.EstimatedDays,
		PortfolioLink: in.PortfolioLink,
	}

	if err := s.jobs.CreateProposal(ctx, proposal); err != nil {
		switch {
		case errors.Is(err, repository.ErrJobNotFound):
			return nil, apperror.ErrJobNotFound
		case errors.Is(err, repository.ErrInvalidStatus):
			return nil, apperror.New(apperror.ErrCodeInvalidState, "заказ больше не принимает отклики")
		case common.IsConflict(err):
			return nil, apperror.New(apperror.ErrCodeConflict, "отклик на этот заказ уже подан")
		default:
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить отклик")
		}
	}

	return proposal, nil
}

// PreviewProposal считает условия сделки для указанной цены.
func (s *JobService) PreviewProposal(price float64) (*ProposalPreview, error) {
	if price < 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "цена не может быть отрицательной")
	}
	fee, earnings := models.ComputeFees(price)
	return &ProposalPreview{
		ProposedPrice:      price,
		PlatformFee:        fee,
		FreelancerEarnings: earnings,
		DelayPenaltyPerDay: models.DelayPenaltyPerDay,
	}, nil
}

// ListJobProposals возвращает отклики по заказу. Доступно только владельцу.
func (s *JobService) ListJobProposals(ctx context.Context, jobID, actingUserID uuid.UUID) ([]models.Proposal, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetClientProfileByUserID(ctx, actingUserID)
	if err != nil || profile.ID != job.ClientID {
		return nil, apperror.ErrForbidden
	}

	return s.jobs.ListProposalsByJob(ctx, jobID)
}

// ListMyProposals возвращает отклики фрилансера.
func (s *JobService) ListMyProposals(ctx context.Context, actingUserID uuid.UUID) ([]models.Proposal, error) {
	profile, err := s.profiles.GetFreelancerProfileByUserID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperror.ErrForbidden
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль фрилансера")
	}
	return s.jobs.ListProposalsByFreelancer(ctx, profile.ID)
}

// ListSkills возвращает каталог навыков.
func (s *JobService) ListSkills(ctx context.Context) ([]models.Skill, error) {
	return s.jobs.ListSkills(ctx)
}
