package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "advisoriq/internal/errors"
)

// PipelineAuthMiddleware guards machine-to-machine endpoints such as snapshot
// recording. Requests must carry X-API-Key equal to apiKey; an empty apiKey
// disables the endpoints entirely.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithAppError(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithAppError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
