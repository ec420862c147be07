package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rentflow/internal/observability"
)

// Metrics returns a Gin middleware recording request duration and counts.
// The route template (not the raw path) is used as the label to keep
// cardinality bounded.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
