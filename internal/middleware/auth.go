package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-portal/internal/apperrors"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/models"
)

const (
	UserIDKey   = "user_id"
	RoleKey     = "role"
	IdentityKey = "identity"
)

// RequireAuth verifies the bearer token and stores the caller's identity on
// the context.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			abortJSON(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "Bearer token required")
			return
		}
		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			abortJSON(c, http.StatusUnauthorized, "Token cannot be empty")
			return
		}

		id, err := tokens.Verify(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				abortJSON(c, http.StatusUnauthorized, "Token expired")
				return
			}
			abortJSON(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(UserIDKey, id.UserID)
		c.Set(RoleKey, id.Role)
		c.Set(IdentityKey, id)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := Identity(c)
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !slices.Contains(roles, id.Role) {
			abortJSON(c, http.StatusForbidden, "You do not have permission to perform this action")
			return
		}
		c.Next()
	}
}

// Identity returns the identity RequireAuth stored on c.
func Identity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

func abortJSON(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{
		"error": message,
		"code":  codeFor(code),
	})
}

func codeFor(status int) apperrors.ErrorType {
	switch status {
	case http.StatusUnauthorized:
		return apperrors.ErrTypeUnauthorized
	case http.StatusForbidden:
		return apperrors.ErrTypeForbidden
	case http.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		return apperrors.ErrTypeInternal
	}
}
