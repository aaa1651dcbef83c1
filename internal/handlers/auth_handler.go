package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/services"
)

type AuthHandler struct {
	AuthService *services.AuthService
	Log         *zap.Logger
}

func NewAuthHandler(a *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		AuthService: a,
		Log:         log,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if !bindJSON(c, h.Log, &req) {
		return
	}

	session, err := h.AuthService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if !bindJSON(c, h.Log, &req) {
		return
	}

	session, err := h.AuthService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := caller(c, h.Log)
	if !ok {
		return
	}

	user, err := h.AuthService.Me(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
