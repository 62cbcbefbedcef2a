package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamingrealm/backend/internal/apperr"
	"github.com/gamingrealm/backend/internal/session"
	"github.com/gamingrealm/backend/pkg/logging"
)

const (
	sessionHeader = "session-id"
	ctxUserIDKey  = "user_id"
	ctxSessionKey = "session_id"
)

// requireAuth resolves the session-id header to a user and aborts with 401
// when there is no live session.
func requireAuth(sessions session.Storage) gin.HandlerFunc {
	logger := logging.WithComponent("api-auth")
	return func(c *gin.Context) {
		id := c.GetHeader(sessionHeader)
		if id == "" {
			respondError(c, logger, apperr.Authentication("missing session"))
			c.Abort()
			return
		}

		s, err := sessions.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err)
			c.Abort()
			return
		}
		if s == nil {
			logger.Debug("rejected unknown session", zap.String("session_id", id))
			respondError(c, logger, apperr.Authentication("invalid session"))
			c.Abort()
			return
		}

		c.Set(ctxUserIDKey, s.UserID)
		c.Set(ctxSessionKey, s.ID)
		c.Next()
	}
}

// optionalAuth resolves the session when present but never rejects
func optionalAuth(sessions session.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(sessionHeader); id != "" {
			if s, err := sessions.Get(c.Request.Context(), id); err == nil && s != nil {
				c.Set(ctxUserIDKey, s.UserID)
				c.Set(ctxSessionKey, s.ID)
			}
		}
		c.Next()
	}
}

// currentUserID returns the authenticated user id, empty when anonymous
func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}
