package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-platform/internal/logger"
	"github.com/ignatzorin/freelance-platform/internal/models"
	"github.com/ignatzorin/freelance-platform/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-platform/internal/repository"
	"github.com/ignatzorin/freelance-platform/internal/repository/common"
)

// LifecycleRepository описывает транзакционное хранилище сделок.
type LifecycleRepository interface {
	ApproveProposal(ctx context.Context, proposalID, clientID uuid.UUID) (*models.ApprovalResult, error)
	CompleteContract(ctx context.Context, contractID, clientID uuid.UUID) (*models.Contract, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Contract, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Contract, error)
	GetPaymentByContractID(ctx context.Context, contractID uuid.UUID) (*models.Payment, error)
	ListPaymentsByClient(ctx context.Context, clientID uuid.UUID) ([]models.Payment, error)
	ListPaymentsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Payment, error)
	GetFreelancerStats(ctx context.Context, freelancerID uuid.UUID) (*models.FreelancerStats, error)
}

// ProposalRejector описывает отклонение отклика.
type ProposalRejector interface {
	RejectProposal(ctx context.Context, proposalID, clientID uuid.UUID) (*models.Proposal, error)
}

// ProfileDirectory сопоставляет пользователя с его профилем.
type ProfileDirectory interface {
	GetClientProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error)
	GetFreelancerProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error)
}

// ContractService — оркестратор жизненного цикла сделки: одобрение и
// отклонение откликов, завершение контрактов. Статусы заказов, откликов,
// контрактов и платежей меняются только здесь.
type ContractService struct {
	contracts LifecycleRepository
	proposals ProposalRejector
	profiles  ProfileDirectory
}

// NewContractService создаёт сервис жизненного цикла.
func NewContractService(contracts LifecycleRepository, proposals ProposalRejector, profiles ProfileDirectory) *ContractService {
	return &ContractService{
		contracts: contracts,
		proposals: proposals,
		profiles:  profiles,
	}
}

// ApproveProposal одобряет отклик от имени клиента. Вся сделка создаётся
// одной транзакцией хранилища; при конфликте конкурентной записи операция
// повторяется один раз со свежей проверкой предусловий, затем ошибка
// отдаётся наверх — бесконечных повторов нет.
func (s *ContractService) ApproveProposal(ctx context.Context, proposalID, actingUserID uuid.UUID) (*models.ApprovalResult, error) {
	profile, err := s.clientProfile(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	result, err := s.contracts.ApproveProposal(ctx, proposalID, profile.ID)
	if err != nil && common.IsConflict(err) {
		logLifecycle(logrus.WarnLevel, logrus.Fields{
			"proposal_id": proposalID,
			"client_id":   profile.ID,
		}, "конфликт при одобрении отклика, повторяем")
		result, err = s.contracts.ApproveProposal(ctx, proposalID, profile.ID)
	}
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	logLifecycle(logrus.InfoLevel, logrus.Fields{
		"contract_id": result.Contract.ID,
		"proposal_id": proposalID,
		"job_id":      result.Contract.JobID,
		"amount":      result.Contract.AgreedPrice,
	}, "отклик одобрен, контракт создан")

	return result, nil
}

// RejectProposal отклоняет отклик от имени клиента.
func (s *ContractService) RejectProposal(ctx context.Context, proposalID, actingUserID uuid.UUID) (*models.Proposal, error) {
	profile, err := s.clientProfile(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	proposal, err := s.proposals.RejectProposal(ctx, proposalID, profile.ID)
	if err != nil {
		return nil, mapLifecycleError(err)
	}
	return proposal, nil
}

// CompleteContract завершает контракт от имени клиента с той же политикой
// одного повтора при конфликте.
func (s *ContractService) CompleteContract(ctx context.Context, contractID, actingUserID uuid.UUID) (*models.Contract, error) {
	profile, err := s.clientProfile(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	contract, err := s.contracts.CompleteContract(ctx, contractID, profile.ID)
	if err != nil && common.IsConflict(err) {
		logLifecycle(logrus.WarnLevel, logrus.Fields{
			"contract_id": contractID,
			"client_id":   profile.ID,
		}, "конфликт при завершении контракта, повторяем")
		contract, err = s.contracts.CompleteContract(ctx, contractID, profile.ID)
	}
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	logLifecycle(logrus.InfoLevel, logrus.Fields{
		"contract_id": contract.ID,
		"job_id":      contract.JobID,
		"earnings":    contract.FreelancerEarnings,
	}, "контракт завершён, платёж освобождён")

	return contract, nil
}

// GetContract возвращает контракт, доступный участнику сделки.
func (s *ContractService) GetContract(ctx context.Context, contractID, actingUserID uuid.UUID) (*models.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	ok, err := s.isParty(ctx, actingUserID, contract.ClientID, contract.FreelancerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrForbidden
	}
	return contract, nil
}

// ListContracts возвращает контракты пользователя по его роли.
func (s *ContractService) ListContracts(ctx context.Context, actingUserID uuid.UUID, userType string) ([]models.Contract, error) {
	switch userType {
	case models.UserTypeClient:
		profile, err := s.clientProfile(ctx, actingUserID)
		if err != nil {
			return nil, err
		}
		return s.contracts.ListByClient(ctx, profile.ID)
	case models.UserTypeFreelancer:
		profile, err := s.freelancerProfile(ctx, actingUserID)
		if err != nil {
			return nil, err
		}
		return s.contracts.ListByFreelancer(ctx, profile.ID)
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "неизвестный тип пользователя")
	}
}

// GetPayment возвращает платёж контракта участнику сделки.
func (s *ContractService) GetPayment(ctx context.Context, contractID, actingUserID uuid.UUID) (*models.Payment, error) {
	payment, err := s.contracts.GetPaymentByContractID(ctx, contractID)
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	ok, err := s.isParty(ctx, actingUserID, payment.ClientID, payment.FreelancerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrForbidden
	}
	return payment, nil
}

// ListPayments возвращает платежи пользователя по его роли.
func (s *ContractService) ListPayments(ctx context.Context, actingUserID uuid.UUID, userType string) ([]models.Payment, error) {
	switch userType {
	case models.UserTypeClient:
		profile, err := s.clientProfile(ctx, actingUserID)
		if err != nil {
			return nil, err
		}
		return s.contracts.ListPaymentsByClient(ctx, profile.ID)
	case models.UserTypeFreelancer:
		profile, err := s.freelancerProfile(ctx, actingUserID)
		if err != nil {
			return nil, err
		}
		return s.contracts.ListPaymentsByFreelancer(ctx, profile.ID)
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "неизвестный тип пользователя")
	}
}

// GetFreelancerStats возвращает агрегаты фрилансера, пересчитанные по
// истории сделок.
func (s *ContractService) GetFreelancerStats(ctx context.Context, freelancerID uuid.UUID) (*models.FreelancerStats, error) {
	stats, err := s.contracts.GetFreelancerStats(ctx, freelancerID)
	if err != nil {
		return nil, mapLifecycleError(err)
	}
	return stats, nil
}

func (s *ContractService) clientProfile(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error) {
	profile, err := s.profiles.GetClientProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperror.ErrForbidden
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль клиента")
	}
	return profile, nil
}

func (s *ContractService) freelancerProfile(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error) {
	profile, err := s.profiles.GetFreelancerProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperror.ErrForbidden
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль фрилансера")
	}
	return profile, nil
}

// isParty проверяет, что пользователь — одна из сторон сделки.
func (s *ContractService) isParty(ctx context.Context, userID, clientID, freelancerID uuid.UUID) (bool, error) {
	if client, err := s.profiles.GetClientProfileByUserID(ctx, userID); err == nil && client.ID == clientID {
		return true, nil
	} else if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль клиента")
	}

	if freelancer, err := s.profiles.GetFreelancerProfileByUserID(ctx, userID); err == nil && freelancer.ID == freelancerID {
		return true, nil
	} else if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить профиль фрилансера")
	}

	return false, nil
}

// logLifecycle пишет событие жизненного цикла, если логгер инициализирован.
func logLifecycle(level logrus.Level, fields logrus.Fields, msg string) {
	if logger.Log != nil {
		logger.Log.WithFields(fields).Log(level, msg)
	}
}

// mapLifecycleError переводит ошибки хранилища в ошибки приложения.
func mapLifecycleError(err error) error {
	switch {
	case errors.Is(err, repository.ErrProposalNotFound):
		return apperror.ErrProposalNotFound
	case errors.Is(err, repository.ErrJobNotFound):
		return apperror.ErrJobNotFound
	case errors.Is(err, repository.ErrContractNotFound):
		return apperror.ErrContractNotFound
	case errors.Is(err, repository.ErrPaymentNotFound):
		return apperror.ErrPaymentNotFound
	case errors.Is(err, repository.ErrProfileNotFound):
		return apperror.ErrProfileNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return apperror.ErrForbidden
	case errors.Is(err, repository.ErrInvalidStatus):
		return apperror.New(apperror.ErrCodeInvalidState, "недопустимый переход статуса")
	case common.IsConflict(err):
		return apperror.Wrap(err, apperror.ErrCodeConflict, "конкурентное изменение, попробуйте ещё раз")
	default:
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "ошибка хранилища")
	}
}
