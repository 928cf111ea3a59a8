package api

import (
	"github.com/darkkaiser/leaf-server/internal/service/api/handler/system"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes API 서비스의 전역 라우트를 등록합니다.
//
//   - 시스템 엔드포인트: 서비스 상태 확인(/health), 버전 정보(/version)
//   - 메트릭: Prometheus 수집 엔드포인트(/metrics)
func RegisterRoutes(e *echo.Echo, h *system.Handler) {
	registerSystemRoutes(e, h)
	registerMetricsRoutes(e)
}

func registerSystemRoutes(e *echo.Echo, h *system.Handler) {
	e.GET("/health", h.HealthCheckHandler)
	e.GET("/version", h.VersionHandler)
}

func registerMetricsRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
