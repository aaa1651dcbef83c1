package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/middleware"
)

// respondError writes err as {"error", "code"}. Internal failures are logged
// with their cause and stack and reach the client only as a generic message.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	errType := apperrors.TypeOf(err)
	if errType == apperrors.ErrTypeInternal {
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && len(appErr.Stack) > 0 {
			fields = append(fields, zap.ByteString("stack", appErr.Stack))
		}
		log.Error("request failed", fields...)
	}

	c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{
		"error": apperrors.PublicMessage(err),
		"code":  errType,
	})
}

// bindJSON binds the body into req and writes a 400 on failure.
func bindJSON(c *gin.Context, log *zap.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, log, apperrors.BadRequest(bindingMessage(err)))
		return false
	}
	return true
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return strings.Join(msgs, "; ")
	}
	return "Invalid request body"
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, log *zap.Logger, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, log, apperrors.BadRequest("Invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// caller returns the identity set by the auth middleware.
func caller(c *gin.Context, log *zap.Logger) (auth.Identity, bool) {
	id, ok := middleware.Identity(c)
	if !ok {
		respondError(c, log, apperrors.Unauthorized("Authentication required"))
		return auth.Identity{}, false
	}
	return id, true
}

func message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
