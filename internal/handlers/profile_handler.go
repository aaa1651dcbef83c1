package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/justsurfingit/job-portal/internal/storage"
)

type ProfileHandler struct {
	ProfileService *services.ProfileService
	Log            *zap.Logger
}

func NewProfileHandler(p *services.ProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		ProfileService: p,
		Log:            log,
	}
}

func (h *ProfileHandler) GetMine(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}

	profile, err := h.ProfileService.GetOrCreate(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetByUser is the public GET /profile/:userId.
func (h *ProfileHandler) GetByUser(c *gin.Context) {
	userID, ok := pathID(c, h.Log, "userId")
	if !ok {
		return
	}

	profile, err := h.ProfileService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateBasic(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	var req dtos.BasicProfileRequest
	if !bindJSON(c, h.Log, &req) {
		return
	}

	profile, err := h.ProfileService.UpdateBasic(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateAbout(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	var req dtos.AboutRequest
	if !bindJSON(c, h.Log, &req) {
		return
	}

	profile, err := h.ProfileService.UpdateAbout(c.Request.Context(), id, *req.About)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateSkills(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	var req dtos.SkillsRequest
	if !bindJSON(c, h.Log, &req) {
		return
	}

	profile, err := h.ProfileService.UpdateSkills(c.Request.Context(), id, req.Skills)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	var req dtos.ExperienceRequest
	if !bindJSON(c, h.Log, &req) {
		return
	}

	exp, err := h.ProfileService.AddExperience(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, exp)
}

func (h *ProfileHandler) UpdateExperience(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	expID, ok := pathID(c, h.Log, "id")
	if !ok {
		return
	}
	var req dtos.ExperienceRequest
	if !bindJSON(c, h.Log, &req) {
		return
	}

	exp, err := h.ProfileService.UpdateExperience(c.Request.Context(), id, expID, &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (h *ProfileHandler) DeleteExperience(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	expID, ok := pathID(c, h.Log, "id")
	if !ok {
		return
	}

	if err := h.ProfileService.DeleteExperience(c.Request.Context(), id, expID); err != nil {
		respondError(c, h.Log, err)
		return
	}
	message(c, "Experience deleted")
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	var req dtos.EducationRequest
	if !bindJSON(c, h.Log, &req) {
		return
	}

	edu, err := h.ProfileService.AddEducation(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, edu)
}

func (h *ProfileHandler) UpdateEducation(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	eduID, ok := pathID(c, h.Log, "id")
	if !ok {
		return
	}
	var req dtos.EducationRequest
	if !bindJSON(c, h.Log, &req) {
		return
	}

	edu, err := h.ProfileService.UpdateEducation(c.Request.Context(), id, eduID, &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, edu)
}

func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	eduID, ok := pathID(c, h.Log, "id")
	if !ok {
		return
	}

	if err := h.ProfileService.DeleteEducation(c.Request.Context(), id, eduID); err != nil {
		respondError(c, h.Log, err)
		return
	}
	message(c, "Education deleted")
}

func (h *ProfileHandler) UploadResume(c *gin.Context) {
	h.upload(c, storage.Resume, h.ProfileService.UploadResume)
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	h.upload(c, storage.Avatar, h.ProfileService.UploadAvatar)
}

func (h *ProfileHandler) DeleteResume(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}

	profile, err := h.ProfileService.DeleteResume(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) DeleteAvatar(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}

	profile, err := h.ProfileService.DeleteAvatar(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type uploadFunc func(context.Context, auth.Identity, *multipart.FileHeader) (*models.Profile, error)

func (h *ProfileHandler) upload(c *gin.Context, kind storage.Kind, store uploadFunc) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}

	// Leave room for the multipart envelope around the file itself.
	limit := h.ProfileService.Files.MaxSize() + 1<<20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	header, err := c.FormFile(kind.Field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			respondError(c, h.Log, apperrors.BadRequest("File too large"))
		case errors.Is(err, http.ErrMissingFile):
			respondError(c, h.Log, apperrors.BadRequest("No file uploaded. Use the '"+kind.Field+"' field"))
		default:
			respondError(c, h.Log, apperrors.BadRequest("Invalid multipart form"))
		}
		return
	}

	profile, err := store(c.Request.Context(), id, header)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
