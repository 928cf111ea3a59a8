package api

import (
	"net/http"
	"time"

	"github.com/darkkaiser/leaf-server/internal/service/api/constants"
	"github.com/darkkaiser/leaf-server/internal/service/api/httputil"
	appmiddleware "github.com/darkkaiser/leaf-server/internal/service/api/middleware"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/xid"
)

// hstsMaxAge HTTPS 사용 시 Strict-Transport-Security 헤더의 max-age (1년)
const hstsMaxAge = 31536000

// HTTPServerConfig HTTP 서버 생성에 필요한 설정을 정의합니다.
type HTTPServerConfig struct {
	// Debug Echo 프레임워크의 디버그 모드 활성화 여부
	Debug bool

	// EnableHSTS HTTPS 서버일 때 Strict-Transport-Security 헤더 추가 여부
	EnableHSTS bool

	// AllowOrigins CORS에서 허용할 Origin 목록
	AllowOrigins []string

	// RequestTimeout 각 HTTP 요청의 최대 처리 시간 (0이면 기본값 60초)
	RequestTimeout time.Duration

	// RateLimitEnabled IP별 요청 속도 제한 사용 여부
	RateLimitEnabled bool

	// RateLimitPerSecond IP별 초당 허용 요청 수
	RateLimitPerSecond float64

	// RateLimitBurst IP별 버스트 허용량
	RateLimitBurst int
}

// NewHTTPServer 설정된 미들웨어를 포함한 Echo 인스턴스를 생성합니다.
//
// 미들웨어는 다음 순서로 적용됩니다:
//
//  1. PanicRecovery - 다른 미들웨어의 panic까지 복구하도록 가장 먼저 적용
//  2. RequestID - xid 기반 요청 ID 부여 (X-Request-ID), 로깅보다 먼저 적용
//  3. Server 헤더 제거
//  4. HTTPLogger - RateLimit/Timeout 이전에 위치하여 429/503 응답도 기록
//  5. RateLimit - IP별 요청 제한 (설정으로 활성화)
//  6. BodyLimit - 요청 본문 크기 제한
//  7. Timeout - 요청 처리 시간 제한
//  8. CORS
//  9. Secure - 보안 헤더 (HTTPS인 경우 HSTS 포함)
//
// 라우트는 포함되지 않으며, 반환된 Echo 인스턴스에 별도로 등록해야 합니다.
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = constants.DefaultReadTimeout
	e.Server.ReadHeaderTimeout = constants.DefaultReadHeaderTimeout
	e.Server.WriteTimeout = constants.DefaultWriteTimeout
	e.Server.IdleTimeout = constants.DefaultIdleTimeout

	// Echo 내부 로그도 애플리케이션 로거로 기록합니다.
	e.Logger = appmiddleware.Logger{Logger: applog.StandardLogger()}

	e.HTTPErrorHandler = httputil.ErrorHandler

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = constants.DefaultRequestTimeout
	}

	e.Use(appmiddleware.PanicRecovery())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return xid.New().String()
		},
	}))
	// 서버 스택 정보(Go/Echo 버전 등)를 노출하지 않습니다.
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderServer, "")
			return next(c)
		}
	})
	e.Use(appmiddleware.HTTPLogger())
	if cfg.RateLimitEnabled {
		e.Use(appmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}
	e.Use(middleware.BodyLimit(constants.DefaultMaxBodySize))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: timeout,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
	}))

	secureConfig := middleware.DefaultSecureConfig
	if cfg.EnableHSTS {
		secureConfig.HSTSMaxAge = hstsMaxAge
	}
	e.Use(middleware.SecureWithConfig(secureConfig))

	return e
}
