package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/services"
)

type ApplicationHandler struct {
	ApplicationService *services.ApplicationService
	Log                *zap.Logger
}

func NewApplicationHandler(a *services.ApplicationService, log *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		ApplicationService: a,
		Log:                log,
	}
}

// Apply is POST /applications/job/:jobId. The body is optional.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	jobID, ok := pathID(c, h.Log, "jobId")
	if !ok {
		return
	}

	var req dtos.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, h.Log, apperrors.BadRequest(bindingMessage(err)))
		return
	}

	app, err := h.ApplicationService.Apply(c.Request.Context(), id, jobID, req.CoverLetter)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}

	apps, err := h.ApplicationService.Mine(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	appID, ok := pathID(c, h.Log, "id")
	if !ok {
		return
	}

	app, err := h.ApplicationService.Get(c.Request.Context(), id, appID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	appID, ok := pathID(c, h.Log, "id")
	if !ok {
		return
	}
	var req dtos.StatusRequest
	if !bindJSON(c, h.Log, &req) {
		return
	}

	app, err := h.ApplicationService.UpdateStatus(c.Request.Context(), id, appID, req.Status)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	appID, ok := pathID(c, h.Log, "id")
	if !ok {
		return
	}

	if err := h.ApplicationService.Withdraw(c.Request.Context(), id, appID); err != nil {
		respondError(c, h.Log, err)
		return
	}
	message(c, "Application withdrawn")
}
