package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkkaiser/leaf-server/internal/service/api/constants"
	"github.com/darkkaiser/leaf-server/internal/service/api/httputil"
	"github.com/darkkaiser/leaf-server/internal/service/api/v1/handler"
	"github.com/darkkaiser/leaf-server/internal/service/contract/mocks"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupRoutes(t *testing.T) (*echo.Echo, *mocks.MockIDGenerator, *mocks.MockAllocStore) {
	t.Helper()

	gen := &mocks.MockIDGenerator{}
	store := &mocks.MockAllocStore{}

	e := echo.New()
	e.HTTPErrorHandler = httputil.ErrorHandler
	RegisterRoutes(e, handler.NewHandler(gen, store))

	return e, gen, store
}

func TestRegisterRoutes_Table(t *testing.T) {
	e, _, _ := setupRoutes(t)

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, route := range []string{
		"GET /api/v1/ids/:tag",
		"GET /api/v1/cache",
		"GET /api/v1/allocs",
		"GET /api/segment/get/:key",
	} {
		assert.True(t, registered[route], "라우트가 등록되어야 합니다: %s", route)
	}
}

func TestRoutes_IDEndpoints(t *testing.T) {
	e, gen, _ := setupRoutes(t)
	gen.On("Get", mock.Anything, "order").Return(int64(7), nil)

	t.Run("v1 JSON 엔드포인트", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ids/order", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"tag":"order","id":7}`, rec.Body.String())
		assert.Empty(t, rec.Header().Get(constants.HeaderXAPIDeprecated))
	})

	t.Run("레거시 엔드포인트는 deprecated 헤더 포함", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/segment/get/order", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "7", rec.Body.String())
		assert.Equal(t, "true", rec.Header().Get(constants.HeaderXAPIDeprecated))
		assert.Equal(t, "/api/v1/ids/:tag", rec.Header().Get(constants.HeaderXAPIDeprecatedReplacement))
	})

	t.Run("허용되지 않은 메서드", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ids/order", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	gen.AssertNumberOfCalls(t, "Get", 2)
}
