package middleware

import (
	"math"
	"net/http"
	"strconv"

	"Tasker/internal/metrics"
	"Tasker/internal/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit rejects requests with 429 once the shared token bucket is empty.
// A non-positive limit disables limiting.
func RateLimit(limit float64, burst int) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(limit), burst)

	return func(c *gin.Context) {
		reservation := limiter.Reserve()
		if !reservation.OK() {
			reject(c, 1)
			return
		}
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			reject(c, int(math.Ceil(delay.Seconds())))
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(burst))
		c.Next()
	}
}

func reject(c *gin.Context, retryAfter int) {
	metrics.RateLimited.Inc()
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	response.Fail(c, http.StatusTooManyRequests, "Too many requests, please try again later")
}
