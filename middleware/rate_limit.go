package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter counts requests per client IP in a fixed window
type RateLimiter struct {
	limiter *limiter.Limiter
	period  time.Duration
}

// NewRateLimiter allows perMinute requests per client IP
func NewRateLimiter(perMinute int) *RateLimiter {
	return newRateLimiter(perMinute, time.Minute)
}

func newRateLimiter(limit int, period time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	rate := limiter.Rate{Period: period, Limit: int64(limit)}
	return &RateLimiter{
		limiter: limiter.New(memory.NewStore(), rate),
		period:  period,
	}
}

// Allow counts one request for key and reports whether it is within budget
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	lc, err := l.limiter.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return !lc.Reached, nil
}

// Middleware rejects clients over their budget with 429
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(l.period.Seconds()))
	return mgin.NewMiddleware(l.limiter,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.Header("Retry-After", retryAfter)
			abort(c, http.StatusTooManyRequests, "Too many requests")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			_ = c.Error(err)
			abort(c, http.StatusInternalServerError, "Internal Server Error")
		}),
	)
}
