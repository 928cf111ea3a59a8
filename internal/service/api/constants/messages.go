package constants

// 클라이언트 응답 메시지입니다.
const (
	// ErrMsgInternalServer 500 응답 메시지
	ErrMsgInternalServer = "내부 서버 오류가 발생하였습니다"

	// ErrMsgNotFound 라우트가 없을 때의 404 응답 메시지
	ErrMsgNotFound = "요청한 리소스를 찾을 수 없습니다"

	// ErrMsgTooManyRequests 429 응답 메시지
	ErrMsgTooManyRequests = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요"

	// ErrMsgTagRequired 태그 경로 파라미터 누락 메시지
	ErrMsgTagRequired = "태그는 필수입니다"
)

// 로그 메시지입니다.
const (
	LogMsgServiceStarting                = "API 서비스 시작중..."
	LogMsgServiceStarted                 = "API 서비스 시작됨"
	LogMsgServiceAlreadyStarted          = "API 서비스가 이미 시작됨!!!"
	LogMsgServiceStopping                = "API 서비스 중지중..."
	LogMsgServiceStopped                 = "API 서비스 중지됨"
	LogMsgServiceUnexpectedExit          = "HTTP 서버가 예기치 않게 종료됨"
	LogMsgServiceHTTPServerStarting      = "HTTP 서버 시작"
	LogMsgServiceHTTPServerStopped       = "HTTP 서버 중지됨"
	LogMsgServiceHTTPServerFatalError    = "HTTP 서버를 구성하는 중에 치명적인 오류가 발생하였습니다"
	LogMsgServiceHTTPServerShutdownError = "HTTP 서버를 중지하는 중에 오류가 발생하였습니다"
	LogMsgHTTP5xxServerError             = "HTTP 5xx: 서버 내부 오류"
	LogMsgHTTP4xxClientError             = "HTTP 4xx: 클라이언트 요청 오류"
	LogMsgHealthCheck                    = "헬스체크 요청"
	LogMsgVersionInfo                    = "버전 정보 요청"
)

// 패닉 메시지입니다.
const (
	PanicMsgAppConfigRequired   = "AppConfig는 필수입니다"
	PanicMsgIDGeneratorRequired = "IDGenerator는 필수입니다"
	PanicMsgAllocStoreRequired  = "AllocStore는 필수입니다"
)
