package middleware

import (
	"net/url"
	"strconv"
	"time"

	"github.com/darkkaiser/leaf-server/internal/service/api/constants"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/darkkaiser/leaf-server/pkg/strutil"
	"github.com/labstack/echo/v4"
)

const (
	// defaultBytesIn Content-Length 헤더가 없는 경우 bytes_in 필드에 기록될 기본값
	defaultBytesIn = "0"
)

// HTTPLogger HTTP 요청/응답을 구조화된 로그로 기록하는 미들웨어를 반환합니다.
//
// 기록되는 정보:
//   - 요청: IP, 메서드, URI, User-Agent, Content-Length
//   - 응답: 상태 코드, 응답 크기, Request ID
//   - 성능: 처리 시간 (마이크로초 및 사람이 읽기 쉬운 형식)
//
// URI의 민감한 쿼리 파라미터(password, token 등)는 마스킹되어 기록됩니다.
func HTTPLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			// 패닉이 발생해도 로그가 남도록 defer로 기록합니다.
			defer func() {
				stop := time.Now()
				latency := stop.Sub(start)

				path := req.URL.Path
				if path == "" {
					path = "/"
				}

				bytesIn := req.Header.Get(echo.HeaderContentLength)
				if bytesIn == "" {
					bytesIn = defaultBytesIn
				}

				applog.WithComponentAndFields(constants.ComponentMiddlewareHTTPLogger, applog.Fields{
					"time_rfc3339": stop.Format(time.RFC3339),

					"method":   req.Method,
					"path":     path,
					"uri":      maskSensitiveQueryParams(req.RequestURI),
					"host":     req.Host,
					"protocol": req.Proto,

					"remote_ip":  c.RealIP(),
					"user_agent": req.UserAgent(),
					"referer":    req.Referer(),

					"status":    res.Status,
					"bytes_in":  bytesIn,
					"bytes_out": strconv.FormatInt(res.Size, 10),

					"latency":       strconv.FormatInt(latency.Microseconds(), 10),
					"latency_human": latency.String(),

					"request_id": res.Header().Get(echo.HeaderXRequestID),
				}).Info("HTTP 요청")
			}()

			// 에러를 여기서 처리해야 로그에 최종 상태 코드가 기록됩니다.
			if err := next(c); err != nil {
				c.Error(err)
			}

			return nil
		}
	}
}

// maskSensitiveQueryParams URI의 민감한 쿼리 파라미터 값을 마스킹합니다.
//
// URI 파싱에 실패하면 로깅이 중단되지 않도록 원본을 반환합니다.
//
//	입력: "/api/v1/ids/order?token=secret123&x=1"
//	출력: "/api/v1/ids/order?token=secr%2A%2A%2A&x=1"
func maskSensitiveQueryParams(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}

	q := u.Query()
	masked := false
	for _, param := range constants.SensitiveQueryParams {
		if q.Has(param) {
			q.Set(param, strutil.MaskSensitiveData(q.Get(param)))
			masked = true
		}
	}

	if !masked {
		return uri
	}

	u.RawQuery = q.Encode()
	return u.String()
}
