package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// unmatchedPath labels requests that hit no route, keeping label cardinality
// bounded.
const unmatchedPath = "unmatched"

// Middleware records request count, latency and in-flight gauge per route
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		c.HTTPRequestInFlight.Inc()
		defer c.HTTPRequestInFlight.Dec()

		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = unmatchedPath
		}

		c.HTTPRequestTotals.WithLabelValues(
			ctx.Request.Method,
			path,
			strconv.Itoa(ctx.Writer.Status()),
		).Inc()

		c.HTTPRequestDuration.WithLabelValues(
			ctx.Request.Method,
			path,
		).Observe(time.Since(start).Seconds())
	}
}
