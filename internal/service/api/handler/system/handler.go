// Package system 시스템 엔드포인트 핸들러를 제공합니다.
//
// 헬스체크, 버전 정보 등 인증이 필요 없는 시스템 수준의 API를 처리합니다.
package system

import (
	"context"
	"net/http"
	"time"

	"github.com/darkkaiser/leaf-server/internal/pkg/version"
	"github.com/darkkaiser/leaf-server/internal/service/api/constants"
	"github.com/darkkaiser/leaf-server/internal/service/api/model/system"
	"github.com/darkkaiser/leaf-server/internal/service/contract"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// storeProbeTimeout 헬스체크에서 저장소 응답을 기다리는 최대 시간
const storeProbeTimeout = 2 * time.Second

// Handler 시스템 엔드포인트 핸들러 (헬스체크, 버전 정보)
type Handler struct {
	generator contract.IDGenerator
	store     contract.AllocStore

	buildInfo version.Info

	serverStartTime time.Time
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(generator contract.IDGenerator, store contract.AllocStore, buildInfo version.Info) *Handler {
	if generator == nil {
		panic(constants.PanicMsgIDGeneratorRequired)
	}
	if store == nil {
		panic(constants.PanicMsgAllocStoreRequired)
	}

	return &Handler{
		generator: generator,
		store:     store,

		buildInfo: buildInfo,

		serverStartTime: time.Now(),
	}
}

// HealthCheckHandler 서버와 의존성의 상태를 반환합니다.
//
// 응답 필드:
//   - status: 전체 서버 상태 (하나라도 unhealthy면 unhealthy)
//   - uptime: 서버 가동 시간(초)
//   - dependencies: id_generator(최초 캐시 동기화 여부), alloc_store(태그 목록 조회 가능 여부)
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/health",
		"remote_ip": c.RealIP(),
	}).Debug(constants.LogMsgHealthCheck)

	deps := map[string]system.DependencyStatus{
		constants.DependencyIDGenerator: h.checkGenerator(),
		constants.DependencyAllocStore:  h.checkStore(c.Request().Context()),
	}

	serverStatus := constants.HealthStatusHealthy
	for _, dep := range deps {
		if dep.Status != constants.HealthStatusHealthy {
			serverStatus = constants.HealthStatusUnhealthy
			break
		}
	}

	return c.JSON(http.StatusOK, system.HealthResponse{
		Status:       serverStatus,
		Uptime:       int64(time.Since(h.serverStartTime).Seconds()),
		Dependencies: deps,
	})
}

func (h *Handler) checkGenerator() system.DependencyStatus {
	if !h.generator.Ready() {
		return system.DependencyStatus{
			Status:  constants.HealthStatusUnhealthy,
			Message: constants.MsgDepStatusNotInitialized,
		}
	}

	return system.DependencyStatus{
		Status:  constants.HealthStatusHealthy,
		Message: constants.MsgDepStatusHealthy,
	}
}

func (h *Handler) checkStore(ctx context.Context) system.DependencyStatus {
	ctx, cancel := context.WithTimeout(ctx, storeProbeTimeout)
	defer cancel()

	start := time.Now()
	_, err := h.store.ListTags(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return system.DependencyStatus{
			Status:    constants.HealthStatusUnhealthy,
			LatencyMs: latency,
			Message:   err.Error(),
		}
	}

	return system.DependencyStatus{
		Status:    constants.HealthStatusHealthy,
		LatencyMs: latency,
		Message:   constants.MsgDepStatusHealthy,
	}
}

// VersionHandler 서버의 빌드 정보를 반환합니다.
func (h *Handler) VersionHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/version",
		"remote_ip": c.RealIP(),
	}).Debug(constants.LogMsgVersionInfo)

	return c.JSON(http.StatusOK, system.VersionResponse{
		Version:     h.buildInfo.Version,
		Commit:      h.buildInfo.Commit,
		BuildDate:   h.buildInfo.BuildDate,
		BuildNumber: h.buildInfo.BuildNumber,
		GoVersion:   h.buildInfo.GoVersion,
		Platform:    h.buildInfo.OS + "/" + h.buildInfo.Arch,
	})
}
