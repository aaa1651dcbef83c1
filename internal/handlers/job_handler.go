package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/services"
)

type JobHandler struct {
	JobService *services.JobService
	Log        *zap.Logger
}

// NewJobHandler creates the handler with dependencies
func NewJobHandler(j *services.JobService, log *zap.Logger) *JobHandler {
	return &JobHandler{
		JobService: j,
		Log:        log,
	}
}

// ListJobs is GET /jobs?role= (alias ?category=)
func (h *JobHandler) ListJobs(c *gin.Context) {
	category := c.Query("role")
	if category == "" {
		category = c.Query("category")
	}

	jobs, err := h.JobService.List(c.Request.Context(), category)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) MyJobs(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}

	jobs, err := h.JobService.ListMine(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := pathID(c, h.Log, "id")
	if !ok {
		return
	}

	job, err := h.JobService.Get(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CreateJob is POST /jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	var req dtos.JobRequest
	if !bindJSON(c, h.Log, &req) {
		return
	}

	job, err := h.JobService.Create(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	jobID, ok := pathID(c, h.Log, "id")
	if !ok {
		return
	}
	var req dtos.JobRequest
	if !bindJSON(c, h.Log, &req) {
		return
	}

	job, err := h.JobService.Update(c.Request.Context(), id, jobID, &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	jobID, ok := pathID(c, h.Log, "id")
	if !ok {
		return
	}

	if err := h.JobService.Delete(c.Request.Context(), id, jobID); err != nil {
		respondError(c, h.Log, err)
		return
	}
	message(c, "Job deleted")
}

func (h *JobHandler) Applicants(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	jobID, ok := pathID(c, h.Log, "id")
	if !ok {
		return
	}

	apps, err := h.JobService.Applicants(c.Request.Context(), id, jobID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}
