package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-platform/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-platform/internal/service"
)

// ContractHandler обслуживает маршруты контрактов и платежей.
type ContractHandler struct {
	contracts *service.ContractService
}

// NewContractHandler создаёт хэндлер.
func NewContractHandler(contracts *service.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// CompleteContract обрабатывает POST /contracts/:id/complete.
// Завершает контракт, освобождает платёж и обновляет агрегаты фрилансера.
func (h *ContractHandler) CompleteContract(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор контракта")
		return
	}

	contract, err := h.contracts.CompleteContract(c.Request.Context(), contractID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contract": contract,
		"message":  "контракт завершён, оплата освобождена",
	})
}

// GetContract обрабатывает GET /contracts/:id.
func (h *ContractHandler) GetContract(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор контракта")
		return
	}

	contract, err := h.contracts.GetContract(c.Request.Context(), contractID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// ListContracts обрабатывает GET /contracts - контракты текущего пользователя.
func (h *ContractHandler) ListContracts(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	userType, err := common.CurrentUserType(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	contracts, err := h.contracts.ListContracts(c.Request.Context(), userID, userType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts)
}

// GetContractPayment обрабатывает GET /contracts/:id/payment.
func (h *ContractHandler) GetContractPayment(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор контракта")
		return
	}

	payment, err := h.contracts.GetPayment(c.Request.Context(), contractID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// ListPayments обрабатывает GET /payments - платежи текущего пользователя.
func (h *ContractHandler) ListPayments(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	userType, err := common.CurrentUserType(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	payments, err := h.contracts.ListPayments(c.Request.Context(), userID, userType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// GetFreelancerStats обрабатывает GET /freelancers/:id/stats.
// Агрегаты пересчитываются по истории контрактов, а не берутся из счётчиков.
func (h *ContractHandler) GetFreelancerStats(c *gin.Context) {
	freelancerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор фрилансера")
		return
	}

	stats, err := h.contracts.GetFreelancerStats(c.Request.Context(), freelancerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
