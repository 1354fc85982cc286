package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-platform/internal/dto"
	"github.com/ignatzorin/freelance-platform/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-platform/internal/models"
	"github.com/ignatzorin/freelance-platform/internal/service"
)

// JobHandler обслуживает маршруты размещения и просмотра заказов.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler создаёт хэндлер.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// CreateJob обрабатывает POST /jobs.
func (h *JobHandler) CreateJob(c *gin.Context) {
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
	if userType != models.UserTypeClient {
		common.RespondForbidden(c, "только заказчики могут размещать заказы")
		return
	}

	var req dto.CreateJobRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	skillIDs, err := req.ParseSkillIDs()
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор навыка")
		return
	}

	job, err := h.jobs.PostJob(c.Request.Context(), userID, service.PostJobInput{
		Title:           req.Title,
		Description:     req.Description,
		Budget:          req.Budget,
		Duration:        req.Duration,
		ExperienceLevel: req.ExperienceLevel,
		SkillIDs:        skillIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJob обрабатывает GET /jobs/:id.
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор заказа")
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), jobID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobs обрабатывает GET /jobs - открытые заказы с пагинацией.
func (h *JobHandler) ListJobs(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	jobs, err := h.jobs.ListOpenJobs(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// ListMyJobs обрабатывает GET /jobs/my - заказы текущего заказчика.
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobs, err := h.jobs.ListMyJobs(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// ListSkills обрабатывает GET /skills - справочник навыков.
func (h *JobHandler) ListSkills(c *gin.Context) {
	skills, err := h.jobs.ListSkills(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, skills)
}
