package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkkaiser/leaf-server/internal/service/api/constants"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeprecatedEndpoint(t *testing.T) {
	captureLogs(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/segment/get/order", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := DeprecatedEndpoint("/api/v1/ids/:tag")(func(c echo.Context) error {
		return c.String(http.StatusOK, "1")
	})
	require.NoError(t, h(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `299 - "Deprecated API endpoint. Use /api/v1/ids/:tag instead."`, rec.Header().Get(constants.HeaderWarning))
	assert.Equal(t, "true", rec.Header().Get(constants.HeaderXAPIDeprecated))
	assert.Equal(t, "/api/v1/ids/:tag", rec.Header().Get(constants.HeaderXAPIDeprecatedReplacement))
}

func TestDeprecatedEndpoint_InvalidReplacement(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "DeprecatedEndpoint: 대체 엔드포인트 경로가 비어있습니다", func() {
		DeprecatedEndpoint("")
	})
	assert.Panics(t, func() { DeprecatedEndpoint("api/v1/ids") })
}
