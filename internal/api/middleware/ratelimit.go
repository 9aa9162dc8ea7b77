package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/daniellerochac/todo-teste/internal/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// LoginThrottle 用令牌桶限制登录尝试的频率，抵御凭据爆破。
//
// 短暂等待桶内补充令牌，超过 maxWait 仍拿不到则返回 429。
func LoginThrottle(limiter *ratelimit.Limiter, maxWait time.Duration) gin.HandlerFunc {
	if maxWait <= 0 {
		maxWait = 2 * time.Second
	}
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), maxWait)
		defer cancel()

		if err := limiter.Acquire(ctx); err != nil {
			if errors.Is(err, ratelimit.ErrWaitTimeout) {
				c.JSON(http.StatusTooManyRequests, gin.H{"detail": "too many requests"})
			} else {
				// Redis 故障时放行，登录可用性优先于限流
				c.Next()
				return
			}
			c.Abort()
			return
		}

		c.Next()
	}
}
