package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/leaf-server/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

// =============================================================================
// 로드 파이프라인
// =============================================================================

func TestLoadWithFile_Defaults(t *testing.T) {
	path := writeConfigFile(t, `{}`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	defaults := newDefaultConfig()
	assert.Equal(t, defaults.Store.Driver, cfg.Store.Driver)
	assert.Equal(t, defaults.Store.Path, cfg.Store.Path)
	assert.Empty(t, cfg.Store.SeedAllocations)
	assert.Equal(t, defaults.LeafAPI, cfg.LeafAPI)
	assert.Equal(t, "@every 60s", cfg.Segment.ReconcileTimeSpec)
	assert.Equal(t, 10*time.Millisecond, cfg.Segment.WaitSleep)
	assert.Equal(t, 10000, cfg.Segment.WaitSpinLimit)
	assert.Equal(t, 5, cfg.Segment.RefreshWorkers)
}

func TestLoadWithFile_CommentedJSON(t *testing.T) {
	path := writeConfigFile(t, `{
		// 개발용 메모리 저장소
		"debug": true,
		"store": {
			"driver": "memory",
			"seed_allocations": [
				{"key": "order", "max_id": 0, "step": 1000, "description": "주문 번호"},
				{"key": "user", "max_id": 100, "step": 10,},
			],
		},
		"segment": {
			"wait_sleep": "25ms", /* 문자열 Duration */
			"refresh_worker_idle_timeout": "2m",
		},
		"leaf_api": {"ws": {"listen_port": 18080}},
	}`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	require.Len(t, cfg.Store.SeedAllocations, 2)
	assert.Equal(t, SeedAllocationConfig{Key: "order", MaxID: 0, Step: 1000, Description: "주문 번호"}, cfg.Store.SeedAllocations[0])
	assert.Equal(t, 25*time.Millisecond, cfg.Segment.WaitSleep)
	assert.Equal(t, 2*time.Minute, cfg.Segment.RefreshWorkerIdleTimeout)
	assert.Equal(t, 18080, cfg.LeafAPI.WS.ListenPort)
}

func TestLoadWithFile_EnvOverride(t *testing.T) {
	path := writeConfigFile(t, `{"store": {"driver": "sqlite", "path": "leaf.db"}}`)

	t.Setenv("LEAF_STORE__DRIVER", "bolt")
	t.Setenv("LEAF_SEGMENT__WAIT_SPIN_LIMIT", "42")
	t.Setenv("LEAF_LEAF_API__WS__LISTEN_PORT", "9090")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, StoreDriverBolt, cfg.Store.Driver)
	assert.Equal(t, "leaf.db", cfg.Store.Path)
	assert.Equal(t, 42, cfg.Segment.WaitSpinLimit)
	assert.Equal(t, 9090, cfg.LeafAPI.WS.ListenPort)
}

func TestLoadWithFile_Errors(t *testing.T) {
	t.Run("파일 없음", func(t *testing.T) {
		_, err := LoadWithFile(filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.System))
	})

	t.Run("정의되지 않은 키", func(t *testing.T) {
		_, err := LoadWithFile(writeConfigFile(t, `{"unknown_key": 1}`))
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})

	t.Run("잘못된 JSON", func(t *testing.T) {
		_, err := LoadWithFile(writeConfigFile(t, `{"debug": `))
		require.Error(t, err)
	})

	t.Run("유효성 검증 실패", func(t *testing.T) {
		_, err := LoadWithFile(writeConfigFile(t, `{"store": {"driver": "mysql"}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "driver")
	})
}

func TestNormalizeEnvKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "segment.wait_sleep", normalizeEnvKey("LEAF_SEGMENT__WAIT_SLEEP"))
	assert.Equal(t, "leaf_api.ws.listen_port", normalizeEnvKey("LEAF_LEAF_API__WS__LISTEN_PORT"))
	assert.Equal(t, "debug", normalizeEnvKey("LEAF_DEBUG"))
}

// =============================================================================
// 유효성 검증
// =============================================================================

func TestAppConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(c *AppConfig)
		errSubstr string
	}{
		{"Default", func(c *AppConfig) {}, ""},
		{"MemoryWithoutPath", func(c *AppConfig) { c.Store.Driver = StoreDriverMemory; c.Store.Path = "" }, ""},
		{"FileWithoutPath", func(c *AppConfig) { c.Store.Driver = StoreDriverFile; c.Store.Path = "" }, "path"},
		{"UnknownDriver", func(c *AppConfig) { c.Store.Driver = "redis" }, "다음 중 하나"},
		{"DuplicateSeed", func(c *AppConfig) {
			c.Store.SeedAllocations = []SeedAllocationConfig{{Key: "a", Step: 1}, {Key: "a", Step: 2}}
		}, "중복"},
		{"SeedZeroStep", func(c *AppConfig) {
			c.Store.SeedAllocations = []SeedAllocationConfig{{Key: "a", Step: 0}}
		}, "step"},
		{"SeedBadTag", func(c *AppConfig) {
			c.Store.SeedAllocations = []SeedAllocationConfig{{Key: "a b", Step: 1}}
		}, "태그 형식"},
		{"BadCron", func(c *AppConfig) { c.Segment.ReconcileTimeSpec = "* * * * *" }, "cron"},
		{"ZeroWaitSleep", func(c *AppConfig) { c.Segment.WaitSleep = 0 }, "wait_sleep"},
		{"NegativeWorkers", func(c *AppConfig) { c.Segment.RefreshWorkers = -1 }, "refresh_workers"},
		{"Port", func(c *AppConfig) { c.LeafAPI.WS.ListenPort = 0 }, "listen_port"},
		{"TLSWithoutCert", func(c *AppConfig) { c.LeafAPI.WS.TLSServer = true }, "tls_cert_file"},
		{"EmptyCORS", func(c *AppConfig) { c.LeafAPI.CORS.AllowOrigins = nil }, "allow_origins"},
		{"WildcardMixed", func(c *AppConfig) { c.LeafAPI.CORS.AllowOrigins = []string{"*", "https://a.com"} }, "와일드카드"},
		{"BadOrigin", func(c *AppConfig) { c.LeafAPI.CORS.AllowOrigins = []string{"https://a.com/path"} }, "CORS Origin"},
		{"RateLimitZero", func(c *AppConfig) { c.LeafAPI.RateLimit.RequestsPerSecond = 0 }, "requests_per_second"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := newDefaultConfig()
			tt.mutate(&cfg)

			err := cfg.validate(newValidator())
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
			assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
		})
	}
}

func TestAppConfig_VerifyRecommendations(t *testing.T) {
	t.Parallel()

	cfg := newDefaultConfig()
	assert.Empty(t, cfg.VerifyRecommendations())

	cfg.Store.Driver = StoreDriverMemory
	cfg.Segment.WaitSleep = 2 * time.Second
	cfg.LeafAPI.WS.ListenPort = 80

	assert.Len(t, cfg.VerifyRecommendations(), 3)

	cfg.Debug = true
	assert.Len(t, cfg.VerifyRecommendations(), 2)
}
