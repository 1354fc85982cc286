package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-platform/internal/dto"
	"github.com/ignatzorin/freelance-platform/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-platform/internal/models"
	"github.com/ignatzorin/freelance-platform/internal/service"
)

// ProposalHandler обслуживает маршруты откликов: подачу, просмотр,
// принятие и отклонение.
type ProposalHandler struct {
	jobs      *service.JobService
	contracts *service.ContractService
}

// NewProposalHandler создаёт хэндлер.
func NewProposalHandler(jobs *service.JobService, contracts *service.ContractService) *ProposalHandler {
	return &ProposalHandler{jobs: jobs, contracts: contracts}
}

// CreateProposal обрабатывает POST /jobs/:id/proposals.
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
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
	if userType != models.UserTypeFreelancer {
		common.RespondForbidden(c, "только исполнители могут подавать отклики")
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор заказа")
		return
	}

	var req dto.CreateProposalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	proposal, err := h.jobs.SubmitProposal(c.Request.Context(), userID, service.SubmitProposalInput{
		JobID:         jobID,
		Pitch:         req.Pitch,
		ProposedPrice: req.ProposedPrice,
		EstimatedDays: req.EstimatedDays,
		PortfolioLink: req.PortfolioLink,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

// PreviewProposal обрабатывает POST /proposals/preview - расчёт условий
// контракта для цены до подачи отклика.
func (h *ProposalHandler) PreviewProposal(c *gin.Context) {
	var req dto.PreviewProposalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	preview, err := h.jobs.PreviewProposal(req.ProposedPrice)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProposalPreviewResponse{
		ProposedPrice:      preview.ProposedPrice,
		PlatformFee:        preview.PlatformFee,
		FreelancerEarnings: preview.FreelancerEarnings,
		DelayPenaltyPerDay: preview.DelayPenaltyPerDay,
	})
}

// ListJobProposals обрабатывает GET /jobs/:id/proposals.
// Отклики видит только владелец заказа.
func (h *ProposalHandler) ListJobProposals(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор заказа")
		return
	}

	proposals, err := h.jobs.ListJobProposals(c.Request.Context(), jobID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposals)
}

// ListMyProposals обрабатывает GET /proposals/my - отклики текущего фрилансера.
func (h *ProposalHandler) ListMyProposals(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	proposals, err := h.jobs.ListMyProposals(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposals)
}

// ApproveProposal обрабатывает POST /proposals/:id/approve.
// Формирует контракт, эскроу-платёж и диалог одной операцией.
func (h *ProposalHandler) ApproveProposal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор отклика")
		return
	}

	result, err := h.contracts.ApproveProposal(c.Request.Context(), proposalID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ApproveProposalResponse{
		Contract:     result.Contract,
		Payment:      result.Payment,
		Conversation: result.Conversation,
		Message:      "отклик принят, контракт сформирован",
	})
}

// RejectProposal обрабатывает POST /proposals/:id/reject.
func (h *ProposalHandler) RejectProposal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор отклика")
		return
	}

	proposal, err := h.contracts.RejectProposal(c.Request.Context(), proposalID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}
