package middleware

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter manages per-IP rate limiting.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter creates a new IP-based rate limiter.
func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
	}
}

// GetLimiter returns the rate limiter for a given IP. LoadOrStore keeps
// concurrent first requests from one IP on a single limiter.
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	limiter, _ := l.limiters.LoadOrStore(ip, rate.NewLimiter(l.rate, l.burst))
	return limiter.(*rate.Limiter)
}

// DailyQuota manages the global daily request quota shared by all oracle
// endpoints.
type DailyQuota struct {
	count   int64
	limit   int64
	resetAt time.Time
	mu      sync.Mutex
}

// NewDailyQuota creates a new daily quota manager.
func NewDailyQuota(limit int64) *DailyQuota {
	return &DailyQuota{
		limit:   limit,
		resetAt: nextMidnightPT(),
	}
}

// Allow checks if a request is allowed and increments the counter.
func (q *DailyQuota) Allow() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if time.Now().After(q.resetAt) {
		log.Printf("[QUOTA] Daily quota reset. Previous count: %d", q.count)
		q.count = 0
		q.resetAt = nextMidnightPT()
	}

	if q.count >= q.limit {
		return false
	}
	q.count++
	return true
}

// Remaining returns the remaining quota.
func (q *DailyQuota) Remaining() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.limit - q.count
}

// Count returns the current count.
func (q *DailyQuota) Count() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// RetryAfterSeconds returns the seconds until the quota resets, at least 1.
func (q *DailyQuota) RetryAfterSeconds() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	secs := int(time.Until(q.resetAt).Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}

// nextMidnightPT returns the next midnight in Pacific Time, the oracle
// provider's quota reset time.
func nextMidnightPT() time.Time {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, loc)
}

// RateLimitMiddleware applies two-stage rate limiting to oracle-backed
// endpoints: the global daily quota first, then the per-IP limiter. Both
// reject with 429 and a Retry-After hint.
func RateLimitMiddleware(ipLimiter *IPRateLimiter, quota *DailyQuota) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !quota.Allow() {
			retryAfter := quota.RetryAfterSeconds()
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "Daily request quota exhausted. Please come back tomorrow.",
				"code":       "DAILY_QUOTA_EXCEEDED",
				"retryAfter": retryAfter,
			})
			return
		}

		limiter := ipLimiter.GetLimiter(c.ClientIP())
		if !limiter.Allow() {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "Too many requests. Please slow down.",
				"code":       "RATE_LIMITED",
				"retryAfter": 60,
			})
			return
		}

		c.Next()
	}
}
