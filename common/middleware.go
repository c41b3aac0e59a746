package common

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"newshub/logger"
)

// RequestLogger tags every request with an id and logs method, path,
// status and duration once the handler chain finishes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)

		c.Next()

		log.Info("request",
			"id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
