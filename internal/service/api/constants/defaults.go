package constants

import "time"

// 서버 설정 기본값 상수입니다.
const (
	// DefaultRequestTimeout HTTP 요청 처리의 기본 타임아웃 시간 (60초)
	DefaultRequestTimeout = 60 * time.Second

	// DefaultReadTimeout 요청 전체(헤더+본문) 읽기 최대 대기 시간
	DefaultReadTimeout = 30 * time.Second

	// DefaultReadHeaderTimeout HTTP 헤더 읽기 최대 대기 시간 (Slowloris 방어)
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultWriteTimeout 응답 쓰기 최대 대기 시간
	DefaultWriteTimeout = 65 * time.Second

	// DefaultIdleTimeout Keep-Alive 연결의 최대 유휴 시간
	DefaultIdleTimeout = 120 * time.Second

	// DefaultMaxBodySize 요청 본문의 최대 크기
	// ID 발급 API는 본문을 받지 않으므로 작게 유지합니다.
	DefaultMaxBodySize = "16K"
)

// SensitiveQueryParams 로그 기록 시 마스킹 처리해야 할 쿼리 파라미터 목록입니다.
var SensitiveQueryParams = []string{
	"api_key",
	"password",
	"token",
	"secret",
}
