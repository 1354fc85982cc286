package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/freelance-platform/internal/models"
	"github.com/ignatzorin/freelance-platform/internal/service"
)

func TestProposalHandler_CreateProposal_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{jobs: nil, contracts: nil}
	r.POST("/jobs/:id/proposals", handler.CreateProposal)

	jobID := uuid.New()
	req, _ := http.NewRequest("POST", "/jobs/"+jobID.String()+"/proposals", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProposalHandler_CreateProposal_ForbiddenForClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withAuth(uuid.New(), models.UserTypeClient))
	handler := &ProposalHandler{jobs: nil, contracts: nil}
	r.POST("/jobs/:id/proposals", handler.CreateProposal)

	jobID := uuid.New()
	body := strings.NewReader(`{"pitch":"Готов взяться за задачу","proposed_price":30000,"estimated_days":7}`)
	req, _ := http.NewRequest("POST", "/jobs/"+jobID.String()+"/proposals", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProposalHandler_CreateProposal_InvalidJobID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withAuth(uuid.New(), models.UserTypeFreelancer))
	handler := &ProposalHandler{jobs: nil, contracts: nil}
	r.POST("/jobs/:id/proposals", handler.CreateProposal)

	req, _ := http.NewRequest("POST", "/jobs/invalid-uuid/proposals", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_ApproveProposal_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ProposalHandler{jobs: nil, contracts: nil}
	r.POST("/proposals/:id/approve", handler.ApproveProposal)

	proposalID := uuid.New()
	req, _ := http.NewRequest("POST", "/proposals/"+proposalID.String()+"/approve", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProposalHandler_RejectProposal_InvalidProposalID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(withAuth(uuid.New(), models.UserTypeClient))
	handler := &ProposalHandler{jobs: nil, contracts: nil}
	r.POST("/proposals/:id/reject", handler.RejectProposal)

	req, _ := http.NewRequest("POST", "/proposals/invalid-uuid/reject", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProposalHandler_PreviewProposal_ComputesFees(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// PreviewProposal не обращается к хранилищу, сервис без зависимостей.
	handler := NewProposalHandler(service.NewJobService(nil, nil), nil)
	r.POST("/proposals/preview", handler.PreviewProposal)

	body := strings.NewReader(`{"proposed_price":50000}`)
	req, _ := http.NewRequest("POST", "/proposals/preview", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var preview struct {
		ProposedPrice      float64 `json:"proposed_price"`
		PlatformFee        float64 `json:"platform_fee"`
		FreelancerEarnings float64 `json:"freelancer_earnings"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	assert.Equal(t, 50000.0, preview.ProposedPrice)
	assert.Equal(t, 5000.0, preview.PlatformFee)
	assert.Equal(t, 45000.0, preview.FreelancerEarnings)
}
