package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizreview-backend/pkg/metrics"
)

// MetricsMiddleware records request latency labelled by the matched route
// template, so path parameters do not explode label cardinality.
func MetricsMiddleware(m *metrics.ReviewMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
