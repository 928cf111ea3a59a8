package config

import (
	"fmt"
	"time"

	apperrors "github.com/darkkaiser/leaf-server/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// 저장소 드라이버 이름
const (
	StoreDriverMemory = "memory"
	StoreDriverFile   = "file"
	StoreDriverSQLite = "sqlite"
	StoreDriverBolt   = "bolt"
)

// AppConfig 애플리케이션의 모든 설정을 포함하는 최상위 구조체
type AppConfig struct {
	Debug   bool          `json:"debug"`
	Store   StoreConfig   `json:"store"`
	Segment SegmentConfig `json:"segment"`
	LeafAPI LeafAPIConfig `json:"leaf_api"`
}

// newDefaultConfig 설정 파일과 환경 변수가 덮어쓰기 전의 기본값을 반환합니다.
func newDefaultConfig() AppConfig {
	return AppConfig{
		Store: StoreConfig{
			Driver: StoreDriverSQLite,
			Path:   "data/leaf.db",
		},
		Segment: SegmentConfig{
			ReconcileTimeSpec:        "@every 60s",
			RefreshWorkers:           5,
			RefreshWorkerIdleTimeout: 60 * time.Second,
			WaitSpinLimit:            10000,
			WaitSleep:                10 * time.Millisecond,
			InitRetryMaxElapsed:      30 * time.Second,
		},
		LeafAPI: LeafAPIConfig{
			WS: WSConfig{
				ListenPort: 8080,
			},
			CORS: CORSConfig{
				AllowOrigins: []string{"*"},
			},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerSecond: 5000,
				Burst:             10000,
			},
		},
	}
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate(v *validator.Validate) error {
	if err := c.Store.validate(v); err != nil {
		return err
	}

	if err := checkStruct(v, c.Segment, "Segment"); err != nil {
		return err
	}

	if err := c.LeafAPI.validate(v); err != nil {
		return err
	}

	return nil
}

// VerifyRecommendations 강제하지는 않지만 운영 안정성을 위해 권장되는 설정 위반 사항을 경고 메시지로 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	if c.Store.Driver == StoreDriverMemory && !c.Debug {
		warnings = append(warnings, "메모리 저장소(memory)는 재시작 시 할당 상태가 사라집니다. 운영 환경에서는 ID 중복이 발생할 수 있습니다")
	}
	if c.Segment.WaitSleep > time.Second {
		warnings = append(warnings, fmt.Sprintf("세그먼트 대기 시간(wait_sleep=%s)이 1초를 초과합니다. 요청 지연이 커질 수 있습니다", c.Segment.WaitSleep))
	}
	if c.LeafAPI.WS.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.LeafAPI.WS.ListenPort))
	}

	return warnings
}

// StoreConfig 할당 레코드(태그별 최대 ID와 기본 step)를 보관하는 저장소 설정
type StoreConfig struct {
	Driver          string                 `json:"driver" validate:"required,oneof=memory file sqlite bolt"`
	Path            string                 `json:"path" validate:"required_unless=Driver memory"`
	SeedAllocations []SeedAllocationConfig `json:"seed_allocations" validate:"unique=Key"`
}

func (c *StoreConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c, "Store"); err != nil {
		return err
	}

	for _, seed := range c.SeedAllocations {
		if err := checkStruct(v, seed, fmt.Sprintf("Store > SeedAllocation['%s']", seed.Key)); err != nil {
			return err
		}
	}

	return nil
}

// SeedAllocationConfig 저장소를 열 때 존재하지 않으면 생성할 할당 레코드
type SeedAllocationConfig struct {
	Key         string `json:"key" validate:"required,leaf_tag"`
	MaxID       int64  `json:"max_id" validate:"min=0"`
	Step        int64  `json:"step" validate:"min=1"`
	Description string `json:"description"`
}

// SegmentConfig 세그먼트 할당기와 캐시 동기화 설정
type SegmentConfig struct {
	// ReconcileTimeSpec 저장소의 태그 목록과 캐시를 동기화하는 주기 (cron 표현식)
	ReconcileTimeSpec string `json:"reconcile_time_spec" validate:"required,cron_spec"`

	// RefreshWorkers 다음 세그먼트를 미리 가져오는 상주 워커 수
	RefreshWorkers int `json:"refresh_workers" validate:"min=0"`

	// RefreshWorkerIdleTimeout 상주 워커를 초과하여 생성된 워커의 유휴 종료 시간
	RefreshWorkerIdleTimeout time.Duration `json:"refresh_worker_idle_timeout" validate:"gt=0"`

	// WaitSpinLimit 세그먼트 소진 시 갱신 완료를 기다리며 회전하는 최대 횟수
	WaitSpinLimit int `json:"wait_spin_limit" validate:"min=0"`

	// WaitSleep 회전 대기 후에도 갱신이 끝나지 않았을 때 잠드는 시간
	WaitSleep time.Duration `json:"wait_sleep" validate:"gt=0"`

	// InitRetryMaxElapsed 시작 시 최초 캐시 동기화를 재시도하는 최대 시간 (0: 재시도 안 함)
	InitRetryMaxElapsed time.Duration `json:"init_retry_max_elapsed" validate:"min=0"`
}

// LeafAPIConfig ID 발급 REST API 서버 설정
type LeafAPIConfig struct {
	WS        WSConfig        `json:"ws"`
	CORS      CORSConfig      `json:"cors"`
	RateLimit RateLimitConfig `json:"rate_limit"`
}

func (c *LeafAPIConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c.WS, "LeafAPI > WS"); err != nil {
		return err
	}

	if err := c.CORS.validate(v); err != nil {
		return err
	}

	if err := checkStruct(v, c.RateLimit, "LeafAPI > RateLimit"); err != nil {
		return err
	}

	return nil
}

// WSConfig 웹 서버의 포트 및 TLS(HTTPS) 설정
type WSConfig struct {
	TLSServer   bool   `json:"tls_server"`
	TLSCertFile string `json:"tls_cert_file" validate:"required_if=TLSServer true,omitempty,file"`
	TLSKeyFile  string `json:"tls_key_file" validate:"required_if=TLSServer true,omitempty,file"`
	ListenPort  int    `json:"listen_port" validate:"min=1,max=65535"`
}

// CORSConfig 교차 출처 리소스 공유(CORS) 정책 설정
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

func (c *CORSConfig) validate(v *validator.Validate) error {
	if len(c.AllowOrigins) == 0 {
		return apperrors.New(apperrors.InvalidInput, "CORS 허용 도메인(allow_origins) 목록이 비어있습니다")
	}

	for _, origin := range c.AllowOrigins {
		if origin == "*" && len(c.AllowOrigins) > 1 {
			return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다. 모든 도메인을 허용하려면 와일드카드만 설정하세요")
		}
	}

	return checkStruct(v, c, "LeafAPI > CORS")
}

// RateLimitConfig 클라이언트 IP별 요청 속도 제한 설정
type RateLimitConfig struct {
	Enabled           bool    `json:"enabled"`
	RequestsPerSecond float64 `json:"requests_per_second" validate:"gt=0"`
	Burst             int     `json:"burst" validate:"min=1"`
}
