package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ridgeline/mediavault/pkg/metrics"
)

// PrometheusMiddleware records the HTTP request counter and duration
// histogram. Routes are labeled by template path so /images/:id stays one
// series.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RequestCounter.WithLabelValues(method, path).Inc()
		metrics.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
