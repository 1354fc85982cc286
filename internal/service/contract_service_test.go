package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/freelance-platform/internal/models"
	"github.com/ignatzorin/freelance-platform/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-platform/internal/repository"
	"github.com/ignatzorin/freelance-platform/internal/repository/common"
)

type mockLifecycleRepo struct {
	mock.Mock
}

func (m *mockLifecycleRepo) ApproveProposal(ctx context.Context, proposalID, clientID uuid.UUID) (*models.ApprovalResult, error) {
	args := m.Called(ctx, proposalID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ApprovalResult), args.Error(1)
}

func (m *mockLifecycleRepo) CompleteContract(ctx context.Context, contractID, clientID uuid.UUID) (*models.Contract, error) {
	args := m.Called(ctx, contractID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *mockLifecycleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *mockLifecycleRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Contract, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]models.Contract), args.Error(1)
}

func (m *mockLifecycleRepo) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Contract, error) {
	args := m.Called(ctx, freelancerID)
	return args.Get(0).([]models.Contract), args.Error(1)
}

func (m *mockLifecycleRepo) GetPaymentByContractID(ctx context.Context, contractID uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *mockLifecycleRepo) ListPaymentsByClient(ctx context.Context, clientID uuid.UUID) ([]models.Payment, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *mockLifecycleRepo) ListPaymentsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Payment, error) {
	args := m.Called(ctx, freelancerID)
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *mockLifecycleRepo) GetFreelancerStats(ctx context.Context, freelancerID uuid.UUID) (*models.FreelancerStats, error) {
	args := m.Called(ctx, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FreelancerStats), args.Error(1)
}

type mockRejector struct {
	mock.Mock
}

func (m *mockRejector) RejectProposal(ctx context.Context, proposalID, clientID uuid.UUID) (*models.Proposal, error) {
	args := m.Called(ctx, proposalID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

type mockProfiles struct {
	mock.Mock
}

func (m *mockProfiles) GetClientProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClientProfile), args.Error(1)
}

func (m *mockProfiles) GetFreelancerProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FreelancerProfile), args.Error(1)
}

func approvalResultFixture(price float64) *models.ApprovalResult {
	fee, earnings := models.ComputeFees(price)
	contractID := uuid.New()
	return &models.ApprovalResult{
		Contract: &models.Contract{
			ID:                 contractID,
			JobID:              uuid.New(),
			AgreedPrice:        price,
			PlatformFee:        fee,
			FreelancerEarnings: earnings,
			Status:             models.ContractStatusActive,
		},
		Payment: &models.Payment{
			ID:                 uuid.New(),
			ContractID:         contractID,
			Amount:             price,
			PlatformFee:        fee,
			FreelancerEarnings: earnings,
			Status:             models.PaymentStatusPending,
		},
		Conversation: &models.Conversation{ID: uuid.New()},
	}
}

func TestContractService_ApproveProposal_Success(t *testing.T) {
	contracts := new(mockLifecycleRepo)
	profiles := new(mockProfiles)
	svc := NewContractService(contracts, new(mockRejector), profiles)
	ctx := context.Background()

	userID := uuid.New()
	clientID := uuid.New()
	proposalID := uuid.New()
	expected := approvalResultFixture(50000)

	profiles.On("GetClientProfileByUserID", ctx, userID).Return(&models.ClientProfile{ID: clientID, UserID: userID}, nil)
	contracts.On("ApproveProposal", ctx, proposalID, clientID).Return(expected, nil)

	result, err := svc.ApproveProposal(ctx, proposalID, userID)
	assert.NoError(t, err)
	assert.Equal(t, expected, result)
	assert.Equal(t, 5000.0, result.Contract.PlatformFee)
	assert.Equal(t, 45000.0, result.Contract.FreelancerEarnings)
	assert.Equal(t, result.Contract.AgreedPrice, result.Contract.PlatformFee+result.Contract.FreelancerEarnings)
	assert.Equal(t, models.PaymentStatusPending, result.Payment.Status)
	contracts.AssertExpectations(t)
}

func TestContractService_ApproveProposal_RetriesOnceOnConflict(t *testing.T) {
	contracts := new(mockLifecycleRepo)
	profiles := new(mockProfiles)
	svc := NewContractService(contracts, new(mockRejector), profiles)
	ctx := context.Background()

	userID := uuid.New()
	clientID := uuid.New()
	proposalID := uuid.New()
	expected := approvalResultFixture(10000)

	profiles.On("GetClientProfileByUserID", ctx, userID).Return(&models.ClientProfile{ID: clientID, UserID: userID}, nil)
	contracts.On("ApproveProposal", ctx, proposalID, clientID).Return(nil, common.ErrConflict).Once()
	contracts.On("ApproveProposal", ctx, proposalID, clientID).Return(expected, nil).Once()

	result, err := svc.ApproveProposal(ctx, proposalID, userID)
	assert.NoError(t, err)
	assert.Equal(t, expected, result)
	contracts.AssertNumberOfCalls(t, "ApproveProposal", 2)
}

func TestContractService_ApproveProposal_ConflictAfterRetry(t *testing.T) {
	contracts := new(mockLifecycleRepo)
	profiles := new(mockProfiles)
	svc := NewContractService(contracts, new(mockRejector), profiles)
	ctx := context.Background()

	userID := uuid.New()
	clientID := uuid.New()
	proposalID := uuid.New()

	profiles.On("GetClientProfileByUserID", ctx, userID).Return(&models.ClientProfile{ID: clientID, UserID: userID}, nil)
	contracts.On("ApproveProposal", ctx, proposalID, clientID).Return(nil, common.ErrConflict)

	result, err := svc.ApproveProposal(ctx, proposalID, userID)
	assert.Nil(t, result)
	assert.Error(t, err)
	// Ровно один повтор, без бесконечного цикла.
	contracts.AssertNumberOfCalls(t, "ApproveProposal", 2)
}

func TestContractService_ApproveProposal_NotClient(t *testing.T) {
	contracts := new(mockLifecycleRepo)
	profiles := new(mockProfiles)
	svc := NewContractService(contracts, new(mockRejector), profiles)
	ctx := context.Background()

	userID := uuid.New()
	profiles.On("GetClientProfileByUserID", ctx, userID).Return(nil, repository.ErrProfileNotFound)

	result, err := svc.ApproveProposal(ctx, uuid.New(), userID)
	assert.Nil(t, result)
	assert.True(t, apperror.IsForbidden(err))
	contracts.AssertNotCalled(t, "ApproveProposal", mock.Anything, mock.Anything, mock.Anything)
}

func TestContractService_ApproveProposal_NotOwner(t *testing.T) {
	contracts := new(mockLifecycleRepo)
	profiles := new(mockProfiles)
	svc := NewContractService(contracts, new(mockRejector), profiles)
	ctx := context.Background()

	userID := uuid.New()
	clientID := uuid.New()
	proposalID := uuid.New()

	profiles.On("GetClientProfileByUserID", ctx, userID).Return(&models.ClientProfile{ID: clientID, UserID: userID}, nil)
	contracts.On("ApproveProposal", ctx, proposalID, clientID).Return(nil, repository.ErrNotOwner)

	result, err := svc.ApproveProposal(ctx, proposalID, userID)
	assert.Nil(t, result)
	assert.True(t, apperror.IsForbidden(err))
}

func TestContractService_ApproveProposal_AlreadyDecided(t *testing.T) {
	contracts := new(mockLifecycleRepo)
	profiles := new(mockProfiles)
	svc := NewContractService(contracts, new(mockRejector), profiles)
	ctx := context.Background()

	userID := uuid.New()
	clientID := uuid.New()
	proposalID := uuid.New()

	profiles.On("GetClientProfileByUserID", ctx, userID).Return(&models.ClientProfile{ID: clientID, UserID: userID}, nil)
	contracts.On("ApproveProposal", ctx, proposalID, clientID).Return(nil, repository.ErrInvalidStatus)

	result, err := svc.ApproveProposal(ctx, proposalID, userID)
	assert.Nil(t, result)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestContractService_RejectProposal(t *testing.T) {
	proposals := new(mockRejector)
	profiles := new(mockProfiles)
	svc := NewContractService(new(mockLifecycleRepo), proposals, profiles)
	ctx := context.Background()

	userID := uuid.New()
	clientID := uuid.New()
	proposalID := uuid.New()
	expected := &models.Proposal{ID: proposalID, Status: models.ProposalStatusRejected}

	profiles.On("GetClientProfileByUserID", ctx, userID).Return(&models.ClientProfile{ID: clientID, UserID: userID}, nil)
	proposals.On("RejectProposal", ctx, proposalID, clientID).Return(expected, nil)

	proposal, err := svc.RejectProposal(ctx, proposalID, userID)
	assert.NoError(t, err)
	assert.Equal(t, models.ProposalStatusRejected, proposal.Status)
}

func TestContractService_CompleteContract_Success(t *testing.T) {
	contracts := new(mockLifecycleRepo)
	profiles := new(mockProfiles)
	svc := NewContractService(contracts, new(mockRejector), profiles)
	ctx := context.Background()

	userID := uuid.New()
	clientID := uuid.New()
	contractID := uuid.New()
	expected := &models.Contract{
		ID:                 contractID,
		ClientID:           clientID,
		AgreedPrice:        20000,
		PlatformFee:        2000,
		FreelancerEarnings: 18000,
		Status:             models.ContractStatusCompleted,
	}

	profiles.On("GetClientProfileByUserID", ctx, userID).Return(&models.ClientProfile{ID: clientID, UserID: userID}, nil)
	contracts.On("CompleteContract", ctx, contractID, clientID).Return(expected, nil)

	contract, err := svc.CompleteContract(ctx, contractID, userID)
	assert.NoError(t, err)
	assert.Equal(t, models.ContractStatusCompleted, contract.Status)
	contracts.AssertExpectations(t)
}

func TestContractService_CompleteContract_NotActive(t *testing.T) {
	contracts := new(mockLifecycleRepo)
	profiles := new(mockProfiles)
	svc := NewContractService(contracts, new(mockRejector), profiles)
	ctx := context.Background()

	userID := uuid.New()
	clientID := uuid.New()
	contractID := uuid.New()

	profiles.On("GetClientProfileByUserID", ctx, userID).Return(&models.ClientProfile{ID: clientID, UserID: userID}, nil)
	contracts.On("CompleteContract", ctx, contractID, clientID).Return(nil, repository.ErrInvalidStatus)

	contract, err := svc.CompleteContract(ctx, contractID, userID)
	assert.Nil(t, contract)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestContractService_GetContract_ForbiddenForStranger(t *testing.T) {
	contracts := new(mockLifecycleRepo)
	profiles := new(mockProfiles)
	svc := NewContractService(contracts, new(mockRejector), profiles)
	ctx := context.Background()

	strangerID := uuid.New()
	contractID := uuid.New()
	contract := &models.Contract{ID: contractID, ClientID: uuid.New(), FreelancerID: uuid.New()}

	contracts.On("GetByID", ctx, contractID).Return(contract, nil)
	profiles.On("GetClientProfileByUserID", ctx, strangerID).Return(nil, repository.ErrProfileNotFound)
	profiles.On("GetFreelancerProfileByUserID", ctx, strangerID).Return(nil, repository.ErrProfileNotFound)

	result, err := svc.GetContract(ctx, contractID, strangerID)
	assert.Nil(t, result)
	assert.True(t, apperror.IsForbidden(err))
}

func TestContractService_GetContract_VisibleToFreelancer(t *testing.T) {
	contracts := new(mockLifecycleRepo)
	profiles := new(mockProfiles)
	svc := NewContractService(contracts, new(mockRejector), profiles)
	ctx := context.Background()

	userID := uuid.New()
	freelancerID := uuid.New()
	contractID := uuid.New()
	contract := &models.Contract{ID: contractID, ClientID: uuid.New(), FreelancerID: freelancerID}

	contracts.On("GetByID", ctx, contractID).Return(contract, nil)
	profiles.On("GetClientProfileByUserID", ctx, userID).Return(nil, repository.ErrProfileNotFound)
	profiles.On("GetFreelancerProfileByUserID", ctx, userID).Return(&models.FreelancerProfile{ID: freelancerID, UserID: userID}, nil)

	result, err := svc.GetContract(ctx, contractID, userID)
	assert.NoError(t, err)
	assert.Equal(t, contract, result)
}

func TestContractService_ListContracts_UnknownUserType(t *testing.T) {
	svc := NewContractService(new(mockLifecycleRepo), new(mockRejector), new(mockProfiles))

	result, err := svc.ListContracts(context.Background(), uuid.New(), "admin")
	assert.Nil(t, result)
	assert.True(t, apperror.IsValidation(err))
}

func TestContractService_GetFreelancerStats(t *testing.T) {
	contracts := new(mockLifecycleRepo)
	svc := NewContractService(contracts, new(mockRejector), new(mockProfiles))
	ctx := context.Background()

	freelancerID := uuid.New()
	expected := &models.FreelancerStats{
		FreelancerID:    freelancerID,
		JobsCompleted:   3,
		TotalEarned:     135000,
		ActiveContracts: 1,
		PendingAmount:   50000,
	}
	contracts.On("GetFreelancerStats", ctx, freelancerID).Return(expected, nil)

	stats, err := svc.GetFreelancerStats(ctx, freelancerID)
	assert.NoError(t, err)
	assert.Equal(t, expected, stats)
}

func TestContractService_GetFreelancerStats_UnknownFreelancer(t *testing.T) {
	contracts := new(mockLifecycleRepo)
	svc := NewContractService(contracts, new(mockRejector), new(mockProfiles))
	ctx := context.Background()

	freelancerID := uuid.New()
	contracts.On("GetFreelancerStats", ctx, freelancerID).Return(nil, repository.ErrProfileNotFound)

	stats, err := svc.GetFreelancerStats(ctx, freelancerID)
	assert.Nil(t, stats)
	assert.True(t, apperror.IsNotFound(err))
}
