package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gamingrealm/backend/internal/apperr"
)

// statusFor maps an application error kind to an HTTP status
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindInvalidArgument:
		return http.StatusUnprocessableEntity
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error as JSON. Untranslated errors are logged and
// masked so store internals never reach a client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("unhandled error", zap.Error(err), zap.String("path", c.FullPath()))
		msg = "internal server error"
	}
	c.JSON(status, gin.H{
		"error": msg,
		"code":  apperr.KindOf(err).String(),
	})
}
