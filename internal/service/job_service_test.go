package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/freelance-platform/internal/models"
	"github.com/ignatzorin/freelance-platform/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-platform/internal/repository"
	"github.com/ignatzorin/freelance-platform/internal/repository/common"
)

type mockJobStore struct {
	mock.Mock
}

func (m *mockJobStore) CreateWithSkills(ctx context.Context, job *models.Job, skillIDs []uuid.UUID) error {
	args := m.Called(ctx, job, skillIDs)
	if args.Error(0) == nil {
		job.ID = uuid.New()
		job.Status = models.JobStatusOpen
	}
	return args.Error(0)
}

func (m *mockJobStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobStore) ListOpen(ctx context.Context, limit, offset int) ([]models.Job, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *mockJobStore) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *mockJobStore) CreateProposal(ctx context.Context, proposal *models.Proposal) error {
	args := m.Called(ctx, proposal)
	if args.Error(0) == nil {
		proposal.ID = uuid.New()
		proposal.Status = models.ProposalStatusPending
	}
	return args.Error(0)
}

func (m *mockJobStore) GetProposalByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *mockJobStore) ListProposalsByJob(ctx context.Context, jobID uuid.UUID) ([]models.Proposal, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).([]models.Proposal), args.Error(1)
}

func (m *mockJobStore) ListProposalsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	args := m.Called(ctx, freelancerID)
	return args.Get(0).([]models.Proposal), args.Error(1)
}

func (m *mockJobStore) ListSkills(ctx context.Context) ([]models.Skill, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Skill), args.Error(1)
}

func verifiedFreelancer(userID uuid.UUID) *models.FreelancerProfile {
	return &models.FreelancerProfile{
		ID:                 uuid.New(),
		UserID:             userID,
		VerificationStatus: models.VerificationStatusVerified,
	}
}

func TestJobService_PostJob_Success(t *testing.T) {
	jobs := new(mockJobStore)
	profiles := new(mockProfiles)
	svc := NewJobService(jobs, profiles)
	ctx := context.Background()

	userID := uuid.New()
	clientID := uuid.New()
	budget := 50000.0
	skillIDs := []uuid.UUID{uuid.New(), uuid.New()}

	profiles.On("GetClientProfileByUserID", ctx, userID).Return(&models.ClientProfile{ID: clientID, UserID: userID}, nil)
	jobs.On("CreateWithSkills", ctx, mock.AnythingOfType("*models.Job"), skillIDs).Return(nil)

	job, err := svc.PostJob(ctx, userID, PostJobInput{
		Title:           "Разработка REST API",
		Description:     "Нужен бэкенд для маркетплейса на Go с PostgreSQL",
		Budget:          &budget,
		ExperienceLevel: models.ExperienceLevelExpert,
		SkillIDs:        skillIDs,
	})
	assert.NoError(t, err)
	assert.Equal(t, clientID, job.ClientID)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	assert.Equal(t, models.ExperienceLevelExpert, job.ExperienceLevel)
	jobs.AssertExpectations(t)
}

func TestJobService_PostJob_DefaultsExperienceLevel(t *testing.T) {
	jobs := new(mockJobStore)
	profiles := new(mockProfiles)
	svc := NewJobService(jobs, profiles)
	ctx := context.Background()

	userID := uuid.New()
	profiles.On("GetClientProfileByUserID", ctx, userID).Return(&models.ClientProfile{ID: uuid.New(), UserID: userID}, nil)
	jobs.On("CreateWithSkills", ctx, mock.AnythingOfType("*models.Job"), mock.Anything).Return(nil)

	job, err := svc.PostJob(ctx, userID, PostJobInput{
		Title:       "Лендинг под ключ",
		Description: "Сверстать адаптивный лендинг по готовому макету",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.ExperienceLevelIntermediate, job.ExperienceLevel)
}

func TestJobService_PostJob_ValidationErrors(t *testing.T) {
	svc := NewJobService(new(mockJobStore), new(mockProfiles))
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.PostJob(ctx, userID, PostJobInput{Title: "ab", Description: "достаточно длинное описание"})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.PostJob(ctx, userID, PostJobInput{Title: "Нормальный заголовок", Description: "коротко"})
	assert.True(t, apperror.IsValidation(err))

	negative := -100.0
	_, err = svc.PostJob(ctx, userID, PostJobInput{
		Title:       "Нормальный заголовок",
		Description: "достаточно длинное описание",
		Budget:      &negative,
	})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.PostJob(ctx, userID, PostJobInput{
		Title:           "Нормальный заголовок",
		Description:     "достаточно длинное описание",
		ExperienceLevel: "senior",
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestJobService_PostJob_NotClient(t *testing.T) {
	jobs := new(mockJobStore)
	profiles := new(mockProfiles)
	svc := NewJobService(jobs, profiles)
	ctx := context.Background()

	userID := uuid.New()
	profiles.On("GetClientProfileByUserID", ctx, userID).Return(nil, repository.ErrProfileNotFound)

	job, err := svc.PostJob(ctx, userID, PostJobInput{
		Title:       "Нормальный заголовок",
		Description: "достаточно длинное описание",
	})
	assert.Nil(t, job)
	assert.True(t, apperror.IsForbidden(err))
	jobs.AssertNotCalled(t, "CreateWithSkills", mock.Anything, mock.Anything, mock.Anything)
}

func TestJobService_SubmitProposal_Success(t *testing.T) {
	jobs := new(mockJobStore)
	profiles := new(mockProfiles)
	svc := NewJobService(jobs, profiles)
	ctx := context.Background()

	userID := uuid.New()
	profile := verifiedFreelancer(userID)
	profiles.On("GetFreelancerProfileByUserID", ctx, userID).Return(profile, nil)
	jobs.On("CreateProposal", ctx, mock.AnythingOfType("*models.Proposal")).Return(nil)

	proposal, err := svc.SubmitProposal(ctx, userID, SubmitProposalInput{
		JobID:         uuid.New(),
		Pitch:         "Сделаю за неделю, опыт с похожими задачами есть",
		ProposedPrice: 30000,
		EstimatedDays: 7,
	})
	assert.NoError(t, err)
	assert.Equal(t, profile.ID, proposal.FreelancerID)
	assert.Equal(t, models.ProposalStatusPending, proposal.Status)
}

func TestJobService_SubmitProposal_RequiresVerification(t *testing.T) {
	jobs := new(mockJobStore)
	profiles := new(mockProfiles)
	svc := NewJobService(jobs, profiles)
	ctx := context.Background()

	userID := uuid.New()
	profiles.On("GetFreelancerProfileByUserID", ctx, userID).Return(&models.FreelancerProfile{
		ID:                 uuid.New(),
		UserID:             userID,
		VerificationStatus: models.VerificationStatusPending,
	}, nil)

	proposal, err := svc.SubmitProposal(ctx, userID, SubmitProposalInput{
		JobID:         uuid.New(),
		Pitch:         "Сделаю за неделю, опыт с похожими задачами есть",
		ProposedPrice: 30000,
		EstimatedDays: 7,
	})
	assert.Nil(t, proposal)
	assert.True(t, apperror.IsForbidden(err))
	jobs.AssertNotCalled(t, "CreateProposal", mock.Anything, mock.Anything)
}

func TestJobService_SubmitProposal_InvalidInput(t *testing.T) {
	svc := NewJobService(new(mockJobStore), new(mockProfiles))
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.SubmitProposal(ctx, userID, SubmitProposalInput{
		Pitch:         "коротко",
		ProposedPrice: 30000,
		EstimatedDays: 7,
	})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.SubmitProposal(ctx, userID, SubmitProposalInput{
		Pitch:         "Сделаю за неделю, опыт с похожими задачами есть",
		ProposedPrice: 0,
		EstimatedDays: 7,
	})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.SubmitProposal(ctx, userID, SubmitProposalInput{
		Pitch:         "Сделаю за неделю, опыт с похожими задачами есть",
		ProposedPrice: 30000,
		EstimatedDays: 0,
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestJobService_SubmitProposal_JobNotOpen(t *testing.T) {
	jobs := new(mockJobStore)
	profiles := new(mockProfiles)
	svc := NewJobService(jobs, profiles)
	ctx := context.Background()

	userID := uuid.New()
	profiles.On("GetFreelancerProfileByUserID", ctx, userID).Return(verifiedFreelancer(userID), nil)
	jobs.On("CreateProposal", ctx, mock.AnythingOfType("*models.Proposal")).Return(repository.ErrInvalidStatus)

	proposal, err := svc.SubmitProposal(ctx, userID, SubmitProposalInput{
		JobID:         uuid.New(),
		Pitch:         "Сделаю за неделю, опыт с похожими задачами есть",
		ProposedPrice: 30000,
		EstimatedDays: 7,
	})
	assert.Nil(t, proposal)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestJobService_SubmitProposal_Duplicate(t *testing.T) {
	jobs := new(mockJobStore)
	profiles := new(mockProfiles)
	svc := NewJobService(jobs, profiles)
	ctx := context.Background()

	userID := uuid.New()
	profiles.On("GetFreelancerProfileByUserID", ctx, userID).Return(verifiedFreelancer(userID), nil)
	jobs.On("CreateProposal", ctx, mock.AnythingOfType("*models.Proposal")).Return(common.ErrConflict)

	proposal, err := svc.SubmitProposal(ctx, userID, SubmitProposalInput{
		JobID:         uuid.New(),
		Pitch:         "Сделаю за неделю, опыт с похожими задачами есть",
		ProposedPrice: 30000,
		EstimatedDays: 7,
	})
	assert.Nil(t, proposal)

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.ErrCodeConflict, appErr.Code)
}

func TestJobService_PreviewProposal(t *testing.T) {
	svc := NewJobService(new(mockJobStore), new(mockProfiles))

	preview, err := svc.PreviewProposal(50000)
	assert.NoError(t, err)
	assert.Equal(t, 50000.0, preview.ProposedPrice)
	assert.Equal(t, 5000.0, preview.PlatformFee)
	assert.Equal(t, 45000.0, preview.FreelancerEarnings)
	assert.Equal(t, models.DelayPenaltyPerDay, preview.DelayPenaltyPerDay)

	_, err = svc.PreviewProposal(-1)
	assert.True(t, apperror.IsValidation(err))
}

func TestJobService_ListJobProposals_OnlyOwner(t *testing.T) {
	jobs := new(mockJobStore)
	profiles := new(mockProfiles)
	svc := NewJobService(jobs, profiles)
	ctx := context.Background()

	jobID := uuid.New()
	ownerID := uuid.New()
	strangerID := uuid.New()
	job := &models.Job{ID: jobID, ClientID: ownerID, Status: models.JobStatusOpen}

	jobs.On("GetByID", ctx, jobID).Return(job, nil)
	profiles.On("GetClientProfileByUserID", ctx, strangerID).Return(&models.ClientProfile{ID: uuid.New(), UserID: strangerID}, nil)

	result, err := svc.ListJobProposals(ctx, jobID, strangerID)
	assert.Nil(t, result)
	assert.True(t, apperror.IsForbidden(err))
	jobs.AssertNotCalled(t, "ListProposalsByJob", mock.Anything, mock.Anything)
}

func TestJobService_ListOpenJobs_NormalizesPagination(t *testing.T) {
	jobs := new(mockJobStore)
	svc := NewJobService(jobs, new(mockProfiles))
	ctx := context.Background()

	jobs.On("ListOpen", ctx, 20, 0).Return([]models.Job{}, nil)

	_, err := svc.ListOpenJobs(ctx, -5, -10)
	assert.NoError(t, err)
	jobs.AssertExpectations(t)
}
