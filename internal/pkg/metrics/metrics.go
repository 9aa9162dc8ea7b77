package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal 按方法、路径与状态码统计请求量。
	HTTPRequestsTotal *prometheus.CounterVec

	// LoginFailureTotal 登录失败次数（错误邮箱或密码）。
	LoginFailureTotal prometheus.Counter

	// TokenIssuedTotal 签发的访问令牌总数。
	TokenIssuedTotal prometheus.Counter

	// UserCreatedTotal 注册成功的用户总数。
	UserCreatedTotal prometheus.Counter

	// TodoCreatedTotal 创建成功的待办总数。
	TodoCreatedTotal prometheus.Counter

	// RateLimitWaitDuration 获取限流令牌的等待耗时分布。
	RateLimitWaitDuration prometheus.Histogram

	// RateLimitTimeoutTotal 限流等待超时的次数。
	RateLimitTimeoutTotal prometheus.Counter

	initOnce sync.Once
)

// InitMetrics 注册所有 Prometheus 指标，重复调用只生效一次。
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todoapp_http_requests_total",
			Help: "Total HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"})

		LoginFailureTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoapp_login_failure_total",
			Help: "Total failed login attempts.",
		})

		TokenIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoapp_token_issued_total",
			Help: "Total access tokens issued.",
		})

		UserCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoapp_user_created_total",
			Help: "Total users registered.",
		})

		TodoCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoapp_todo_created_total",
			Help: "Total todos created.",
		})

		RateLimitWaitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "todoapp_ratelimit_wait_seconds",
			Help:    "Time spent waiting for a rate limit token.",
			Buckets: prometheus.DefBuckets,
		})

		RateLimitTimeoutTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoapp_ratelimit_timeout_total",
			Help: "Total rate limit acquisitions aborted by context.",
		})

		prometheus.MustRegister(
			HTTPRequestsTotal,
			LoginFailureTotal,
			TokenIssuedTotal,
			UserCreatedTotal,
			TodoCreatedTotal,
			RateLimitWaitDuration,
			RateLimitTimeoutTotal,
		)
	})
}
