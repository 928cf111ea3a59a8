package middleware

import (
	"fmt"
	"sync"

	"github.com/darkkaiser/leaf-server/internal/service/api/constants"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	// maxIPRateLimiters 메모리에 유지할 최대 IP(Rate Limiter 인스턴스) 수
	// 초과하면 Go Map의 무작위 순회 특성을 이용해 임의의 항목 하나를 제거합니다.
	maxIPRateLimiters = 10000

	// retryAfterSeconds 제한 초과 시 클라이언트에게 제안하는 재시도 대기 시간(초)
	retryAfterSeconds = "1"
)

// ipRateLimiter IP 주소별 Token Bucket Rate Limiter를 관리합니다.
type ipRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newIPRateLimiter(requestsPerSecond float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// getLimiter 특정 IP의 Rate Limiter를 반환합니다. 없으면 새로 생성합니다.
func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limiters[ip]
	i.mu.RUnlock()

	if exists {
		return limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double-check: 다른 고루틴이 이미 생성했을 수 있음
	if limiter, exists = i.limiters[ip]; exists {
		return limiter
	}

	if len(i.limiters) >= maxIPRateLimiters {
		for oldIP := range i.limiters {
			delete(i.limiters, oldIP)
			break
		}
	}

	limiter = rate.NewLimiter(i.rate, i.burst)
	i.limiters[ip] = limiter

	return limiter
}

// size 현재 추적 중인 IP 수를 반환합니다.
func (i *ipRateLimiter) size() int {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return len(i.limiters)
}

// RateLimit IP 기반 Rate Limiting 미들웨어를 반환합니다.
//
// IP별로 초당 requestsPerSecond 개의 토큰이 채워지고 최대 burst 개까지 저장되는 Token Bucket을 사용합니다.
// 제한을 초과하면 HTTP 429와 Retry-After 헤더를 반환합니다.
//
// 메모리 기반이므로 서버 재시작 시 초기화되며, 다중 서버 환경에서는 서버별로 독립적인 제한이 적용됩니다.
//
// Panics:
//   - requestsPerSecond 또는 burst가 0 이하인 경우
func RateLimit(requestsPerSecond float64, burst int) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		panic(fmt.Sprintf("RateLimit: requestsPerSecond는 양수여야 합니다 (현재값: %v)", requestsPerSecond))
	}
	if burst <= 0 {
		panic(fmt.Sprintf("RateLimit: burst는 양수여야 합니다 (현재값: %d)", burst))
	}

	limiter := newIPRateLimiter(requestsPerSecond, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			if !limiter.getLimiter(ip).Allow() {
				applog.WithComponentAndFields(constants.ComponentMiddlewareRateLimit, applog.Fields{
					"remote_ip": ip,
					"path":      c.Request().URL.Path,
					"method":    c.Request().Method,
				}).Warn("요청 속도 제한 초과")

				c.Response().Header().Set(constants.HeaderRetryAfter, retryAfterSeconds)

				return ErrRateLimitExceeded
			}

			return next(c)
		}
	}
}
