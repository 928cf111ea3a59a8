package middleware

import (
	"strings"

	"github.com/darkkaiser/leaf-server/internal/service/api/constants"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// DeprecatedEndpoint deprecated 엔드포인트에 경고 헤더를 추가하는 미들웨어를 반환합니다.
//
// 추가되는 헤더:
//   - Warning: 299 - "Deprecated API endpoint. Use {newEndpoint} instead."
//   - X-API-Deprecated: true
//   - X-API-Deprecated-Replacement: {newEndpoint}
//
// Panics:
//   - newEndpoint가 빈 문자열이거나 '/'로 시작하지 않는 경우
func DeprecatedEndpoint(newEndpoint string) echo.MiddlewareFunc {
	if newEndpoint == "" {
		panic("DeprecatedEndpoint: 대체 엔드포인트 경로가 비어있습니다")
	}
	if !strings.HasPrefix(newEndpoint, "/") {
		panic("DeprecatedEndpoint: 대체 엔드포인트 경로는 '/'로 시작해야 합니다 (현재값: " + newEndpoint + ")")
	}

	warning := `299 - "Deprecated API endpoint. Use ` + newEndpoint + ` instead."`

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(constants.HeaderWarning, warning)
			h.Set(constants.HeaderXAPIDeprecated, "true")
			h.Set(constants.HeaderXAPIDeprecatedReplacement, newEndpoint)

			applog.WithComponentAndFields(constants.ComponentMiddlewareDeprecated, applog.Fields{
				"deprecated_endpoint": c.Path(),
				"replacement":         newEndpoint,
				"remote_ip":           c.RealIP(),
				"user_agent":          c.Request().UserAgent(),
			}).Debug("Deprecated API 엔드포인트 사용됨")

			return next(c)
		}
	}
}
