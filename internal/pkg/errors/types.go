package errors

// ErrorType 에러의 종류를 나타내는 타입입니다.
type ErrorType int

const (
	// Unknown 분류되지 않은 에러
	Unknown ErrorType = iota

	// Internal 내부 로직 오류 (버그 등)
	Internal

	// System 시스템 또는 인프라 오류 (디스크, 데이터베이스 등)
	System

	// InvalidInput 잘못된 입력값 (유효성 검사 실패)
	InvalidInput

	// Conflict 리소스 충돌 (중복 생성 등)
	Conflict

	// NotFound 리소스를 찾을 수 없음
	NotFound

	// Timeout 작업 시간 초과
	Timeout

	// Unavailable 일시적으로 요청을 처리할 수 없음
	Unavailable
)

var errorTypeNames = [...]string{
	Unknown:      "Unknown",
	Internal:     "Internal",
	System:       "System",
	InvalidInput: "InvalidInput",
	Conflict:     "Conflict",
	NotFound:     "NotFound",
	Timeout:      "Timeout",
	Unavailable:  "Unavailable",
}

func (t ErrorType) String() string {
	if t < 0 || int(t) >= len(errorTypeNames) {
		return "ErrorType(?)"
	}
	return errorTypeNames[t]
}
