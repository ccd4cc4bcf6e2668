package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const unmatchedRoute = "unmatched"

// Middleware records request count, latency and server errors per route
// template, so "/tasks/:id" is one series regardless of the id.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := c.Writer.Status()

		HTTPRequests.With(prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(status),
		}).Inc()
		HTTPRequestDuration.With(prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
		}).Observe(time.Since(start).Seconds())
		if status >= http.StatusInternalServerError {
			HTTPErrors.With(prometheus.Labels{"route": route}).Inc()
		}
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
