package handler

import (
	"net/http"
	"strconv"

	"github.com/darkkaiser/leaf-server/internal/service/api/constants"
	"github.com/darkkaiser/leaf-server/internal/service/api/v1/model/response"
	"github.com/darkkaiser/leaf-server/internal/service/contract"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// GetIDHandler 태그의 다음 ID를 JSON으로 발급합니다.
//
//	GET /api/v1/ids/:tag  ->  {"tag":"order","id":1024}
//
// 실패 시 404(등록되지 않은 태그) 또는 503(초기화 전, 구간 소진, 저장소 장애)을 반환합니다.
func (h *Handler) GetIDHandler(c echo.Context) error {
	tag := c.Param(constants.ParamTag)
	if tag == "" {
		return ErrTagRequired
	}

	id, err := h.generator.Get(c.Request().Context(), tag)
	if err != nil {
		return newErrIDGeneration(tag, err)
	}

	return c.JSON(http.StatusOK, response.IDResponse{
		Tag: tag,
		ID:  id,
	})
}

// LegacyGetIDHandler 기존 클라이언트와 호환되는 형식으로 ID를 발급합니다.
//
//	GET /api/segment/get/:key  ->  1024 (text/plain)
//
// 실패 시 본문은 음수 결과 코드(-1: 초기화 전, -2: 등록되지 않은 태그, -3: 두 세그먼트 모두 준비되지 않음)이며,
// 같은 값이 X-Result-Code 헤더에도 설정됩니다.
func (h *Handler) LegacyGetIDHandler(c echo.Context) error {
	tag := c.Param(constants.ParamKey)

	id, err := h.generator.Get(c.Request().Context(), tag)
	if err != nil {
		kind := contract.KindOf(err)
		code := strconv.FormatInt(kind.Code(), 10)

		h.log(c).WithFields(applog.Fields{
			"tag":         tag,
			"kind":        kind.String(),
			"result_code": code,
			"error":       err,
		}).Warn("레거시 ID 발급 실패")

		c.Response().Header().Set(constants.HeaderXResultCode, code)
		return c.String(legacyStatus(kind), code)
	}

	return c.String(http.StatusOK, strconv.FormatInt(id, 10))
}
