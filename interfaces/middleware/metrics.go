package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"video-digest/infrastructure/metrics"
)

// Metrics records request latency by route template, not raw path.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}
