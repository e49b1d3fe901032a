package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-habits/internal/platform/metrics"
)

// Metrics records every request by route template, so /habits/:id stays one series.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start).Seconds())
	}
}
