package middleware

import (
	"time"

	"github.com/leadmap/leadmap/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIdHeader = "X-Request-ID"

// RequestLogger tags each request with an id (reusing a valid incoming
// X-Request-ID) and logs it once the handler chain has finished.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIdHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(requestIdHeader, id)
		c.Set("request_id", id)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		msg := "%s %s %s -> %d (%s)"
		args := []any{id, c.Request.Method, c.Request.URL.Path, status, time.Since(start)}
		switch {
		case status >= 500:
			logger.Errorf(msg, args...)
		case status >= 400:
			logger.Infof(msg, args...)
		default:
			logger.Debugf(msg, args...)
		}
	}
}
