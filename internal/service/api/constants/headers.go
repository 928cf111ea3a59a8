package constants

// HTTP 헤더 이름 상수입니다.
const (
	// HeaderWarning RFC 7234 Warning 헤더
	HeaderWarning = "Warning"

	// HeaderXAPIDeprecated Deprecated 엔드포인트 표시 헤더
	HeaderXAPIDeprecated = "X-API-Deprecated"

	// HeaderXAPIDeprecatedReplacement 대체 엔드포인트 안내 헤더
	HeaderXAPIDeprecatedReplacement = "X-API-Deprecated-Replacement"

	// HeaderRetryAfter 재시도 권장 시간(초) 헤더
	HeaderRetryAfter = "Retry-After"

	// HeaderXResultCode 레거시 엔드포인트의 결과 코드 헤더
	HeaderXResultCode = "X-Result-Code"
)

// 경로 파라미터 이름 상수입니다.
const (
	// ParamTag v1 API의 태그 경로 파라미터
	ParamTag = "tag"

	// ParamKey 레거시 API의 태그 경로 파라미터
	ParamKey = "key"
)
