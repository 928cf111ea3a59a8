package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/darkkaiser/leaf-server/internal/config"
	"github.com/darkkaiser/leaf-server/internal/pkg/version"
	"github.com/darkkaiser/leaf-server/internal/service/api/constants"
	"github.com/darkkaiser/leaf-server/internal/service/contract/mocks"
	"github.com/darkkaiser/leaf-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

func newTestAppConfig(t *testing.T) *config.AppConfig {
	t.Helper()

	port, err := testutil.GetFreePort()
	require.NoError(t, err, "사용 가능한 포트를 가져오는데 실패했습니다")

	appConfig := &config.AppConfig{Debug: true}
	appConfig.LeafAPI.WS.ListenPort = port
	appConfig.LeafAPI.CORS.AllowOrigins = []string{"*"}

	return appConfig
}

func newTestService(t *testing.T, appConfig *config.AppConfig) *Service {
	t.Helper()

	gen := &mocks.MockIDGenerator{}
	gen.On("Ready").Return(true).Maybe()
	gen.On("Get", mock.Anything, "order").Return(int64(1), nil).Maybe()

	store := &mocks.MockAllocStore{}
	store.On("ListTags", mock.Anything).Return([]string{"order"}, nil).Maybe()

	return NewService(appConfig, gen, store, version.Info{Version: "v1.0.0"})
}

// waitGroupDone wg 가 timeout 안에 완료되는지 확인합니다.
func waitGroupDone(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("서비스가 제한 시간 내에 종료되지 않았습니다")
	}
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNewService(t *testing.T) {
	appConfig := &config.AppConfig{}
	gen := &mocks.MockIDGenerator{}
	store := &mocks.MockAllocStore{}

	t.Run("성공", func(t *testing.T) {
		s := NewService(appConfig, gen, store, version.Info{Version: "v1.0.0"})

		assert.Same(t, appConfig, s.appConfig)
		assert.Equal(t, "v1.0.0", s.buildInfo.Version)
		assert.False(t, s.isRunning())
	})

	t.Run("실패: 필수 의존성 누락", func(t *testing.T) {
		assert.PanicsWithValue(t, constants.PanicMsgAppConfigRequired, func() {
			NewService(nil, gen, store, version.Info{})
		})
		assert.PanicsWithValue(t, constants.PanicMsgIDGeneratorRequired, func() {
			NewService(appConfig, nil, store, version.Info{})
		})
		assert.PanicsWithValue(t, constants.PanicMsgAllocStoreRequired, func() {
			NewService(appConfig, gen, nil, version.Info{})
		})
	})
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func TestService_Lifecycle(t *testing.T) {
	captureLogs(t)

	appConfig := newTestAppConfig(t)
	s := newTestService(t, appConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))
	require.NoError(t, testutil.WaitForServer(appConfig.LeafAPI.WS.ListenPort, 3*time.Second))
	assert.True(t, s.isRunning())

	client := testutil.NewHTTPClient()
	baseURL := fmt.Sprintf("http://localhost:%d", appConfig.LeafAPI.WS.ListenPort)

	for _, path := range []string{"/health", "/api/v1/ids/order", "/api/segment/get/order"} {
		resp, err := client.Get(baseURL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	cancel()
	waitGroupDone(t, wg, 3*shutdownTimeout)

	assert.False(t, s.isRunning())
	assert.NoError(t, testutil.WaitForServerDown(appConfig.LeafAPI.WS.ListenPort, 3*time.Second))
}

func TestService_DuplicateStart(t *testing.T) {
	captureLogs(t)

	appConfig := newTestAppConfig(t)
	s := newTestService(t, appConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	// 중복 시작은 에러 없이 무시되고 wg.Done()이 호출되어야 합니다.
	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	require.NoError(t, testutil.WaitForServer(appConfig.LeafAPI.WS.ListenPort, 3*time.Second))

	cancel()
	waitGroupDone(t, wg, 3*shutdownTimeout)
}

func TestService_PortInUse(t *testing.T) {
	captureLogs(t)

	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()

	appConfig := newTestAppConfig(t)
	appConfig.LeafAPI.WS.ListenPort = l.Addr().(*net.TCPAddr).Port
	s := newTestService(t, appConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	// 서버가 조기 종료되면 종료 신호 없이도 서비스 루프가 끝나야 합니다.
	waitGroupDone(t, wg, 3*time.Second)
	assert.False(t, s.isRunning())
}

func TestService_TLS(t *testing.T) {
	captureLogs(t)

	certFile, keyFile := testutil.GenerateSelfSignedCert(t)

	appConfig := newTestAppConfig(t)
	appConfig.LeafAPI.WS.TLSServer = true
	appConfig.LeafAPI.WS.TLSCertFile = certFile
	appConfig.LeafAPI.WS.TLSKeyFile = keyFile
	s := newTestService(t, appConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))
	require.NoError(t, testutil.WaitForServer(appConfig.LeafAPI.WS.ListenPort, 3*time.Second))

	client := &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // 테스트용 자체 서명 인증서
		},
	}
	resp, err := client.Get(fmt.Sprintf("https://localhost:%d/health", appConfig.LeafAPI.WS.ListenPort))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Strict-Transport-Security"), "max-age=")

	cancel()
	waitGroupDone(t, wg, 3*shutdownTimeout)
}
