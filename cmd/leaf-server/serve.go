package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"

	"github.com/darkkaiser/leaf-server/internal/config"
	"github.com/darkkaiser/leaf-server/internal/pkg/version"
	"github.com/darkkaiser/leaf-server/internal/segment"
	"github.com/darkkaiser/leaf-server/internal/service"
	"github.com/darkkaiser/leaf-server/internal/service/api"
	"github.com/darkkaiser/leaf-server/internal/store"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/spf13/cobra"
)

const component = "main"

const (
	banner = `
  _                 __        ____
 | |      ___  __ _ / _|      / ___|   ___  _ __ __   __  ___  _ __
 | |     / _ \/ _' | |_  ____ \___ \  / _ \| '__|\ \ / / / _ \| '__|
 | |___ |  __/ (_| |  _||____| ___) ||  __/| |    \ V / |  __/| |
 |_____| \___|\__,_|_|        |____/  \___||_|     \_/   \___||_|
                                                              %s
                                                        developed by DarkKaiser
--------------------------------------------------------------------------------
`
)

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "ID 발급 서버를 구동합니다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, *configFile)
		},
	}
}

// serve 환경설정과 로그 시스템을 초기화한 뒤, SIGINT/SIGTERM 을 받을 때까지 서버를 구동합니다.
func serve(cmd *cobra.Command, configFile string) error {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.LoadWithFile(configFile)
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(cmd.ErrOrStderr(), "[FATAL] 환경설정 로드 실패: %v\n", err)
		return err
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		return err
	}
	defer appLogCloser.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runServer(ctx, appConfig, cmd.OutOrStdout())
}

// runServer 저장소와 서비스를 생성하여 시작하고, ctx 가 취소되면 모든 서비스를 정리합니다.
func runServer(ctx context.Context, appConfig *config.AppConfig, out io.Writer) error {
	buildInfo := version.Get()

	// 아스키아트 출력(https://ko.rakko.tools/tools/68/, 폰트:standard)
	fmt.Fprintf(out, banner, buildInfo.Version)

	applog.WithComponentAndFields(component, applog.Fields{
		"version": buildInfo.ToMap(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	for _, w := range appConfig.VerifyRecommendations() {
		applog.WithComponent(component).Warn(w)
	}

	allocStore, err := store.New(ctx, appConfig.Store)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"driver": appConfig.Store.Driver,
			"error":  err,
		}).Error("할당 저장소 열기 실패")
		return err
	}
	defer func() {
		if err := allocStore.Close(); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
			}).Warn("할당 저장소 닫기 실패")
		}
	}()

	// 서비스를 생성하고 초기화한다.
	generator := segment.NewGenerator(allocStore, appConfig.Segment)
	apiService := api.NewService(appConfig, generator, allocStore, buildInfo)

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serviceStopWG := &sync.WaitGroup{}

	// 서비스를 시작한다. ID 생성기가 캐시를 적재한 뒤에 API 서버가 요청을 받는다.
	services := []service.Service{generator, apiService}
	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel() // 다른 서비스들도 종료
			serviceStopWG.Wait()

			return err
		}
	}

	applog.WithComponent(component).Info("서버 가동 완료")

	<-ctx.Done()

	applog.WithComponent(component).Info("종료 신호 수신: 서비스를 종료합니다")
	cancel()
	serviceStopWG.Wait()

	applog.WithComponent(component).Info("서버 종료 완료")

	return nil
}
