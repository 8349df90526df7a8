package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/arboriq/arboriq-api/models"
	"github.com/arboriq/arboriq-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by the auth middleware
const (
	UserKey   = "user"
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// Authenticator resolves a bearer token to an active user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware rejects requests without a valid token for an active user
func AuthMiddleware(auth Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		if authenticate(c, auth, log, token) {
			c.Next()
		}
	}
}

// OptionalAuth lets anonymous requests through but still rejects a bad token
func OptionalAuth(auth Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			c.Next()
			return
		}
		if authenticate(c, auth, log, token) {
			c.Next()
		}
	}
}

func authenticate(c *gin.Context, auth Authenticator, log *zap.Logger, token string) bool {
	if token == "" {
		abort(c, http.StatusUnauthorized, "Invalid token")
		return false
	}
	user, err := auth.Authenticate(c.Request.Context(), token)
	switch {
	case err == nil:
		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Set(RoleKey, user.Role)
		return true
	case errors.Is(err, services.ErrTokenExpired):
		abort(c, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, services.ErrInvalidToken):
		abort(c, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, services.ErrUserNotFound):
		abort(c, http.StatusUnauthorized, "User not found or inactive")
	default:
		log.Error("Authentication failed", zap.Error(err))
		abort(c, http.StatusInternalServerError, "Authentication error")
	}
	return false
}

// bearerToken reports whether an Authorization header was sent at all.
// A header that is not a Bearer credential comes back present with an empty token.
func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:]), true
	}
	return "", true
}

// CurrentUser returns the authenticated user, or nil on an anonymous request
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(UserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// CurrentUserID returns the authenticated user's ID, or "" on an anonymous request
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
