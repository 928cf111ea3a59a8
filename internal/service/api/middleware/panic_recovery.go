package middleware

import (
	"runtime"

	"github.com/darkkaiser/leaf-server/internal/service/api/constants"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/labstack/echo/v4"
)

const (
	// stackBufferSize panic 발생 시 스택 트레이스를 저장할 버퍼 크기 (4KB)
	stackBufferSize = 4 << 10
)

// PanicRecovery panic을 복구하고 로깅하는 미들웨어를 반환합니다.
//
// 복구된 panic은 스택 트레이스와 함께 기록된 뒤 Echo의 에러 핸들러로 전달되어 500 응답이 됩니다.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err := NewErrPanicRecovered(r)

					stack := make([]byte, stackBufferSize)
					length := runtime.Stack(stack, false)

					fields := applog.Fields{
						"path":   c.Request().URL.Path,
						"method": c.Request().Method,
						"error":  err,
						"stack":  string(stack[:length]),
					}
					if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
						fields["request_id"] = requestID
					}

					applog.WithComponentAndFields(constants.ComponentMiddlewarePanicRecovery, fields).Error("패닉 복구: 예기치 못한 오류가 발생하여 안전하게 복구했습니다")

					c.Error(err)
				}
			}()

			return next(c)
		}
	}
}
