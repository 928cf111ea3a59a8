// Package version 빌드 시점에 주입된 메타데이터와 실행 환경 정보를 제공합니다.
//
// 링커 플래그 예시:
//
//	go build -ldflags "-X github.com/darkkaiser/leaf-server/internal/pkg/version.appVersion=v1.0.0"
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync/atomic"
)

const unknown = "unknown"

var current atomic.Value

// readBuildInfo 테스트에서 교체할 수 있도록 변수로 선언합니다.
var readBuildInfo = debug.ReadBuildInfo

// 다음 변수들은 -ldflags 로 주입됩니다. 직접 참조하지 말고 Get() 을 사용합니다.
var (
	appVersion    = ""
	gitCommitHash = ""
	gitTreeState  = ""
	buildDate     = ""
	buildNumber   = ""
)

func init() {
	current.Store(enrich(Info{
		Version:     strings.TrimSpace(appVersion),
		Commit:      strings.TrimSpace(gitCommitHash),
		BuildDate:   strings.TrimSpace(buildDate),
		BuildNumber: strings.TrimSpace(buildNumber),
		DirtyBuild:  strings.EqualFold(strings.TrimSpace(gitTreeState), "dirty"),
	}))
}

// Info 애플리케이션 빌드 정보입니다. /version 응답과 시작 로그에 사용됩니다.
type Info struct {
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	BuildDate   string `json:"build_date"`
	BuildNumber string `json:"build_number"`
	GoVersion   string `json:"go_version"`
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	DirtyBuild  bool   `json:"dirty_build"`
}

// Get 현재 빌드 정보를 반환합니다.
func Get() Info {
	return current.Load().(Info)
}

// enrich 비어 있는 필드를 런타임 정보와 모듈 VCS 메타데이터로 채웁니다.
func enrich(bi Info) Info {
	if bi.GoVersion == "" {
		bi.GoVersion = runtime.Version()
	}
	if bi.OS == "" {
		bi.OS = runtime.GOOS
	}
	if bi.Arch == "" {
		bi.Arch = runtime.GOARCH
	}

	if mod, ok := readBuildInfo(); ok {
		for _, setting := range mod.Settings {
			switch setting.Key {
			case "vcs.revision":
				if bi.Commit == "" {
					bi.Commit = setting.Value
				}
			case "vcs.time":
				if bi.BuildDate == "" {
					bi.BuildDate = setting.Value
				}
			case "vcs.modified":
				if setting.Value == "true" {
					bi.DirtyBuild = true
				}
			}
		}
		if bi.Version == "" && mod.Main.Version != "" && mod.Main.Version != "(devel)" {
			bi.Version = mod.Main.Version
		}
	}

	if bi.Version == "" {
		bi.Version = unknown
	}
	if bi.Commit == "" {
		bi.Commit = unknown
	}

	return bi
}

// ToMap 구조적 로깅용 필드 맵을 반환합니다.
func (i Info) ToMap() map[string]any {
	return map[string]any{
		"version":      i.Version,
		"commit":       i.Commit,
		"build_date":   i.BuildDate,
		"build_number": i.BuildNumber,
		"go_version":   i.GoVersion,
		"os":           i.OS,
		"arch":         i.Arch,
		"dirty_build":  i.DirtyBuild,
	}
}

func (i Info) String() string {
	v := i.Version
	if i.DirtyBuild {
		v += "+dirty"
	}

	var details []string
	if i.Commit != "" && i.Commit != unknown {
		commit := i.Commit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		details = append(details, "commit: "+commit)
	}
	if i.BuildNumber != "" {
		details = append(details, "build: "+i.BuildNumber)
	}
	if i.BuildDate != "" {
		details = append(details, "date: "+i.BuildDate)
	}
	if i.GoVersion != "" {
		details = append(details, "go: "+i.GoVersion)
	}

	if len(details) == 0 {
		return v
	}
	return fmt.Sprintf("%s (%s)", v, strings.Join(details, ", "))
}
