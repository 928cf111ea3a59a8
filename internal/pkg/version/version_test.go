package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnrich(t *testing.T) {
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })

	t.Run("VCS 메타데이터로 빈 필드를 채운다", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{
				Main: debug.Module{Version: "v0.3.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
					{Key: "vcs.modified", Value: "true"},
				},
			}, true
		}

		bi := enrich(Info{})

		assert.Equal(t, "v0.3.0", bi.Version)
		assert.Equal(t, "0123456789abcdef", bi.Commit)
		assert.Equal(t, "2026-01-02T03:04:05Z", bi.BuildDate)
		assert.True(t, bi.DirtyBuild)
		assert.Equal(t, runtime.Version(), bi.GoVersion)
		assert.Equal(t, runtime.GOOS, bi.OS)
	})

	t.Run("주입된 값은 유지한다", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{
				Main:     debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffff"}},
			}, true
		}

		bi := enrich(Info{Version: "v1.0.0", Commit: "abc1234"})

		assert.Equal(t, "v1.0.0", bi.Version)
		assert.Equal(t, "abc1234", bi.Commit)
	})

	t.Run("정보가 없으면 unknown", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

		bi := enrich(Info{})

		assert.Equal(t, unknown, bi.Version)
		assert.Equal(t, unknown, bi.Commit)
	})
}

func TestInfo_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "v1.0.0", Info{Version: "v1.0.0", Commit: unknown}.String())
	assert.Equal(t,
		"v1.0.0+dirty (commit: 0123456, build: 42, go: go1.24.0)",
		Info{Version: "v1.0.0", Commit: "0123456789", BuildNumber: "42", GoVersion: "go1.24.0", DirtyBuild: true}.String(),
	)
}

func TestGet(t *testing.T) {
	t.Parallel()

	bi := Get()
	assert.NotEmpty(t, bi.Version)
	assert.NotEmpty(t, bi.GoVersion)
	assert.Equal(t, bi.Version, bi.ToMap()["version"])
}
