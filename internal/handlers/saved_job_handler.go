package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/services"
)

type SavedJobHandler struct {
	SavedJobService *services.SavedJobService
	Log             *zap.Logger
}

func NewSavedJobHandler(s *services.SavedJobService, log *zap.Logger) *SavedJobHandler {
	return &SavedJobHandler{
		SavedJobService: s,
		Log:             log,
	}
}

func (h *SavedJobHandler) Save(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	jobID, ok := pathID(c, h.Log, "jobId")
	if !ok {
		return
	}

	saved, err := h.SavedJobService.Save(c.Request.Context(), id, jobID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *SavedJobHandler) List(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}

	saved, err := h.SavedJobService.Mine(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *SavedJobHandler) Remove(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	jobID, ok := pathID(c, h.Log, "jobId")
	if !ok {
		return
	}

	if err := h.SavedJobService.Remove(c.Request.Context(), id, jobID); err != nil {
		respondError(c, h.Log, err)
		return
	}
	message(c, "Job removed from saved jobs")
}

func (h *SavedJobHandler) Check(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	jobID, ok := pathID(c, h.Log, "jobId")
	if !ok {
		return
	}

	saved, err := h.SavedJobService.Check(c.Request.Context(), id, jobID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}
