// Package handler v1 API의 HTTP 요청 핸들러를 제공합니다.
//
// ID 발급, 캐시 상태 조회, 저장소 할당 레코드 조회 엔드포인트와 레거시 호환 ID 발급 엔드포인트를 포함합니다.
package handler

import (
	"github.com/darkkaiser/leaf-server/internal/service/api/constants"
	"github.com/darkkaiser/leaf-server/internal/service/contract"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// Handler v1 API 요청을 ID 생성기와 할당 저장소로 연결하는 핸들러입니다.
type Handler struct {
	generator contract.IDGenerator
	store     contract.AllocStore
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(generator contract.IDGenerator, store contract.AllocStore) *Handler {
	if generator == nil {
		panic(constants.PanicMsgIDGeneratorRequired)
	}
	if store == nil {
		panic(constants.PanicMsgAllocStoreRequired)
	}

	return &Handler{
		generator: generator,
		store:     store,
	}
}

// log 공통 로깅 필드가 설정된 로거 엔트리를 반환합니다.
func (h *Handler) log(c echo.Context) *applog.Entry {
	return applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":   c.Path(),
		"remote_ip":  c.RealIP(),
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	})
}
