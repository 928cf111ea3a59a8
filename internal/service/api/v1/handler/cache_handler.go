package handler

import (
	"net/http"

	"github.com/darkkaiser/leaf-server/internal/service/api/v1/model/response"
	"github.com/darkkaiser/leaf-server/internal/service/contract"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// CacheHandler 캐시된 모든 태그의 이중 버퍼 상태를 반환합니다. (캐시 모니터링 용도)
func (h *Handler) CacheHandler(c echo.Context) error {
	buffers := h.generator.Snapshot()
	if buffers == nil {
		buffers = []contract.BufferSnapshot{}
	}

	return c.JSON(http.StatusOK, response.CacheResponse{
		Count:   len(buffers),
		Buffers: buffers,
	})
}

// AllocationsHandler 할당 저장소의 모든 레코드를 반환합니다.
func (h *Handler) AllocationsHandler(c echo.Context) error {
	allocs, err := h.store.ListAllocations(c.Request().Context())
	if err != nil {
		h.log(c).WithFields(applog.Fields{
			"error": err,
		}).Error("할당 레코드 조회 실패")

		return NewErrStoreUnavailable()
	}
	if allocs == nil {
		allocs = []contract.Allocation{}
	}

	return c.JSON(http.StatusOK, response.AllocationsResponse{
		Count:       len(allocs),
		Allocations: allocs,
	})
}
