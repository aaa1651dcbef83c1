package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/services"
)

type AdminHandler struct {
	AdminService *services.AdminService
	Log          *zap.Logger
}

func NewAdminHandler(a *services.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		AdminService: a,
		Log:          log,
	}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}

	stats, err := h.AdminService.Stats(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) Users(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}

	users, err := h.AdminService.Users(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) Jobs(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}

	jobs, err := h.AdminService.Jobs(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *AdminHandler) Applications(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}

	apps, err := h.AdminService.Applications(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	userID, ok := pathID(c, h.Log, "id")
	if !ok {
		return
	}
	var req dtos.RoleRequest
	if !bindJSON(c, h.Log, &req) {
		return
	}

	user, err := h.AdminService.UpdateUserRole(c.Request.Context(), id, userID, req.Role)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	userID, ok := pathID(c, h.Log, "id")
	if !ok {
		return
	}

	if err := h.AdminService.DeleteUser(c.Request.Context(), id, userID); err != nil {
		respondError(c, h.Log, err)
		return
	}
	message(c, "User deleted")
}

func (h *AdminHandler) DeleteJob(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}
	jobID, ok := pathID(c, h.Log, "id")
	if !ok {
		return
	}

	if err := h.AdminService.DeleteJob(c.Request.Context(), id, jobID); err != nil {
		respondError(c, h.Log, err)
		return
	}
	message(c, "Job deleted")
}
