package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/darkkaiser/leaf-server/internal/config"
	"github.com/darkkaiser/leaf-server/internal/pkg/version"
	"github.com/darkkaiser/leaf-server/internal/service/api/constants"
	"github.com/darkkaiser/leaf-server/internal/service/api/handler/system"
	v1 "github.com/darkkaiser/leaf-server/internal/service/api/v1"
	v1handler "github.com/darkkaiser/leaf-server/internal/service/api/v1/handler"
	"github.com/darkkaiser/leaf-server/internal/service/contract"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/labstack/echo/v4"
)

const (
	// shutdownTimeout Graceful Shutdown 시 최대 대기 시간 (5초)
	shutdownTimeout = 5 * time.Second
)

// Service ID 발급 API 서버의 생명주기를 관리하는 서비스입니다.
//
// Start() 로 시작하면 Echo 기반 HTTP/HTTPS 서버가 고루틴에서 실행되고,
// serviceStopCtx 가 취소되면 최대 5초 동안 Graceful Shutdown 을 수행합니다.
type Service struct {
	appConfig *config.AppConfig

	generator contract.IDGenerator
	store     contract.AllocStore

	buildInfo version.Info

	running   bool
	runningMu sync.Mutex
}

// NewService Service 인스턴스를 생성합니다.
func NewService(appConfig *config.AppConfig, generator contract.IDGenerator, store contract.AllocStore, buildInfo version.Info) *Service {
	if appConfig == nil {
		panic(constants.PanicMsgAppConfigRequired)
	}
	if generator == nil {
		panic(constants.PanicMsgIDGeneratorRequired)
	}
	if store == nil {
		panic(constants.PanicMsgAllocStoreRequired)
	}

	return &Service{
		appConfig: appConfig,

		generator: generator,
		store:     store,

		buildInfo: buildInfo,
	}
}

// Start API 서비스를 시작합니다.
//
// 이 함수는 즉시 반환되며, 실제 서버는 고루틴에서 실행됩니다.
// 이미 실행 중이면 경고만 남기고 serviceStopWG.Done() 을 호출합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarting)

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(constants.ComponentService).Warn(constants.LogMsgServiceAlreadyStarted)
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarted)

	return nil
}

// runServiceLoop 서버 설정, HTTP 서버 시작, Shutdown 대기를 순차적으로 수행합니다.
func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer 핸들러, 미들웨어 체인, 라우트가 구성된 Echo 인스턴스를 생성합니다.
func (s *Service) setupServer() *echo.Echo {
	systemHandler := system.NewHandler(s.generator, s.store, s.buildInfo)
	v1Handler := v1handler.NewHandler(s.generator, s.store)

	apiConfig := s.appConfig.LeafAPI
	e := NewHTTPServer(HTTPServerConfig{
		Debug:              s.appConfig.Debug,
		EnableHSTS:         apiConfig.WS.TLSServer,
		AllowOrigins:       apiConfig.CORS.AllowOrigins,
		RateLimitEnabled:   apiConfig.RateLimit.Enabled,
		RateLimitPerSecond: apiConfig.RateLimit.RequestsPerSecond,
		RateLimitBurst:     apiConfig.RateLimit.Burst,
	})

	RegisterRoutes(e, systemHandler)
	v1.RegisterRoutes(e, v1Handler)

	return e
}

// startHTTPServer HTTP/HTTPS 서버를 시작합니다. 서버가 종료되면 done 채널을 닫습니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	ws := s.appConfig.LeafAPI.WS
	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port": ws.ListenPort,
		"tls":  ws.TLSServer,
	}).Info(constants.LogMsgServiceHTTPServerStarting)

	address := fmt.Sprintf(":%d", ws.ListenPort)

	var err error
	if ws.TLSServer {
		err = e.StartTLS(address, ws.TLSCertFile, ws.TLSKeyFile)
	} else {
		err = e.Start(address)
	}

	s.handleServerError(err)
}

// handleServerError HTTP 서버가 반환한 에러를 처리합니다.
//
//   - nil: 정상 종료
//   - http.ErrServerClosed: Graceful Shutdown 완료 (Info)
//   - 그 외: 포트 바인딩 실패 등 예상치 못한 에러 (Error)
func (s *Service) handleServerError(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceHTTPServerStopped)
		return
	}

	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port":  s.appConfig.LeafAPI.WS.ListenPort,
		"error": err,
	}).Error(constants.LogMsgServiceHTTPServerFatalError)
}

// waitForShutdown 종료 신호를 대기하고 Graceful Shutdown을 수행합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopping)

	case <-httpServerDone:
		// 이미 종료되었으므로 Shutdown 호출 없이 상태만 정리합니다.
		applog.WithComponent(constants.ComponentService).Error(constants.LogMsgServiceUnexpectedExit)

		s.cleanup()

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": err,
		}).Error(constants.LogMsgServiceHTTPServerShutdownError)
	}

	<-httpServerDone

	s.cleanup()
}

// cleanup 서비스 종료 후 상태를 정리합니다.
func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopped)
}

// isRunning 서비스 실행 여부를 반환합니다.
func (s *Service) isRunning() bool {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	return s.running
}
