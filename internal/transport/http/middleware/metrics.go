package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"postboard/internal/metrics"
)

// Metrics records request duration and count. The /metrics endpoint itself is skipped.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/metrics" {
			return
		}
		path := c.Request.URL.Path
		if path == "" {
			path = "/"
		}
		metrics.RecordRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start).Seconds())
	}
}
