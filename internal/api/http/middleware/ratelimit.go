package middleware

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const rateKeyPrefix = "qa:rate:" // fixed-window counter per client IP: qa:rate:{ip}:{window}

// RateLimit caps requests per minute per client IP. With a Redis client the
// counter is a shared fixed window (survives restarts, works across
// replicas); without one it falls back to in-process token buckets.
func RateLimit(client *redis.Client, perMinute int) gin.HandlerFunc {
	if client == nil {
		return localRateLimit(perMinute)
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		window := time.Now().Unix() / 60
		key := fmt.Sprintf("%s%s:%d", rateKeyPrefix, ip, window)

		pipe := client.Pipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, 2*time.Minute)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			// Redis being down must not take the API with it.
			log.Printf("[rate] redis error, allowing request: %v", err)
			c.Next()
			return
		}

		if incr.Val() > int64(perMinute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}

func localRateLimit(perMinute int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		lim, ok := limiters[ip]
		if !ok {
			lim = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
			limiters[ip] = lim
		}
		mu.Unlock()

		if !lim.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
