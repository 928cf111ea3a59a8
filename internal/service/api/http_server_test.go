package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkkaiser/leaf-server/internal/service/api/constants"
	appmiddleware "github.com/darkkaiser/leaf-server/internal/service/api/middleware"
	"github.com/darkkaiser/leaf-server/internal/service/api/model/response"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

// captureLogs 표준 로거의 출력을 buf로 돌리고, 테스트 종료 시 복구합니다.
//
// 주의: 전역 로거 상태를 변경하므로 이 헬퍼를 사용하는 테스트는 t.Parallel()을 사용할 수 없습니다.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	l := applog.StandardLogger()
	prevOut, prevFormatter, prevLevel := l.Out, l.Formatter, l.Level

	buf := new(bytes.Buffer)
	l.SetOutput(buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(applog.DebugLevel)

	t.Cleanup(func() {
		l.SetOutput(prevOut)
		l.SetFormatter(prevFormatter)
		l.SetLevel(prevLevel)
	})

	return buf
}

func newTestServer(cfg HTTPServerConfig) *echo.Echo {
	e := NewHTTPServer(cfg)
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	e.GET("/panic", func(c echo.Context) error {
		panic("핸들러 패닉")
	})
	return e
}

func doRequest(e *echo.Echo, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	for k, v := range header {
		req.Header[k] = v
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// Configuration Tests
// =============================================================================

func TestNewHTTPServer_Configuration(t *testing.T) {
	tests := []struct {
		name   string
		config HTTPServerConfig
	}{
		{"Debug 모드", HTTPServerConfig{Debug: true, AllowOrigins: []string{"*"}}},
		{"운영 모드", HTTPServerConfig{Debug: false, AllowOrigins: []string{"https://example.com"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewHTTPServer(tt.config)

			assert.Equal(t, tt.config.Debug, e.Debug)
			assert.True(t, e.HideBanner)
			assert.Equal(t, constants.DefaultReadTimeout, e.Server.ReadTimeout)
			assert.Equal(t, constants.DefaultReadHeaderTimeout, e.Server.ReadHeaderTimeout)
			assert.Equal(t, constants.DefaultWriteTimeout, e.Server.WriteTimeout)
			assert.Equal(t, constants.DefaultIdleTimeout, e.Server.IdleTimeout)
			assert.IsType(t, appmiddleware.Logger{}, e.Logger)
		})
	}
}

// =============================================================================
// Middleware Chain Tests
// =============================================================================

func TestNewHTTPServer_MiddlewareChain(t *testing.T) {
	captureLogs(t)

	e := newTestServer(HTTPServerConfig{AllowOrigins: []string{"*"}})

	t.Run("요청 ID는 xid 형식", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/ping", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		_, err := xid.FromString(rec.Header().Get(echo.HeaderXRequestID))
		assert.NoError(t, err)
	})

	t.Run("Server 헤더 제거 및 보안 헤더 추가", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/ping", nil)

		assert.Empty(t, rec.Header().Get(echo.HeaderServer))
		assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
		assert.Empty(t, rec.Header().Get(echo.HeaderStrictTransportSecurity), "HSTS 비활성화 상태")
	})

	t.Run("패닉은 500 JSON 응답으로 변환", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/panic", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp response.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusInternalServerError, resp.ResultCode)
	})

	t.Run("없는 라우트는 404 JSON 응답", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/nope", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"result_code":404,"message":"`+constants.ErrMsgNotFound+`"}`, rec.Body.String())
	})

	t.Run("속도 제한 비활성화 시 제한 없음", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			require.Equal(t, http.StatusOK, doRequest(e, http.MethodGet, "/ping", nil).Code)
		}
	})
}

func TestNewHTTPServer_HSTS(t *testing.T) {
	captureLogs(t)

	e := newTestServer(HTTPServerConfig{EnableHSTS: true, AllowOrigins: []string{"*"}})

	rec := doRequest(e, http.MethodGet, "/ping", http.Header{
		echo.HeaderXForwardedProto: []string{"https"},
	})

	assert.Contains(t, rec.Header().Get(echo.HeaderStrictTransportSecurity), "max-age=31536000")
}

func TestNewHTTPServer_RateLimit(t *testing.T) {
	captureLogs(t)

	e := newTestServer(HTTPServerConfig{
		AllowOrigins:       []string{"*"},
		RateLimitEnabled:   true,
		RateLimitPerSecond: 0.001,
		RateLimitBurst:     2,
	})

	assert.Equal(t, http.StatusOK, doRequest(e, http.MethodGet, "/ping", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(e, http.MethodGet, "/ping", nil).Code)

	rec := doRequest(e, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID), "제한된 요청에도 요청 ID가 부여되어야 합니다")
}
