// Package v1 Leaf API의 v1 버전 라우트를 정의합니다.
//
// 주요 엔드포인트:
//   - GET /api/v1/ids/:tag        - ID 발급 (JSON)
//   - GET /api/v1/cache           - 태그별 버퍼 캐시 상태
//   - GET /api/v1/allocs          - 저장소 할당 레코드
//   - GET /api/segment/get/:key   - ID 발급 (레거시, text/plain, deprecated)
package v1

import (
	"github.com/darkkaiser/leaf-server/internal/service/api/middleware"
	"github.com/darkkaiser/leaf-server/internal/service/api/v1/handler"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes Echo 인스턴스에 v1 API 라우트와 레거시 호환 라우트를 등록합니다.
//
// 레거시 엔드포인트 응답에는 Warning, X-API-Deprecated, X-API-Deprecated-Replacement 헤더가 추가됩니다.
func RegisterRoutes(e *echo.Echo, h *handler.Handler) {
	v1Group := e.Group("/api/v1")
	v1Group.GET("/ids/:tag", h.GetIDHandler)
	v1Group.GET("/cache", h.CacheHandler)
	v1Group.GET("/allocs", h.AllocationsHandler)

	e.GET("/api/segment/get/:key", h.LegacyGetIDHandler,
		middleware.DeprecatedEndpoint("/api/v1/ids/:tag"),
	)
}
