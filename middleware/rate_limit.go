package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/techjourney/folio/utils"
	"github.com/techjourney/folio/views"
)

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// limiterSet holds one token bucket per client IP.
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*rateLimiter
	limit    rate.Limit
	burst    int
}

// RateLimit throttles form submissions per client IP to perMinute with a
// burst of half that. GET requests are not counted.
func RateLimit(perMinute int) gin.HandlerFunc {
	perMinute = max(perMinute, 1)
	set := &limiterSet{
		limiters: map[string]*rateLimiter{},
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
	}

	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodGet || ctx.Request.Method == http.MethodHead {
			ctx.Next()
			return
		}
		if !set.get(ctx.ClientIP()).Allow() {
			utils.Sugar.Infow("rate limited", "ip", ctx.ClientIP(), "path", ctx.Request.URL.Path)
			if strings.Contains(ctx.GetHeader("Accept"), "application/json") {
				utils.Error(ctx, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			views.Error(ctx, http.StatusTooManyRequests, "Too many attempts. Please wait a minute and try again.")
			return
		}
		ctx.Next()
	}
}

func (s *limiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, l := range s.limiters {
		if now.After(l.expires) {
			delete(s.limiters, k)
		}
	}

	if l, ok := s.limiters[key]; ok {
		l.expires = now.Add(5 * time.Minute)
		return l.limiter
	}
	l := &rateLimiter{limiter: rate.NewLimiter(s.limit, s.burst), expires: now.Add(5 * time.Minute)}
	s.limiters[key] = l
	return l.limiter
}
