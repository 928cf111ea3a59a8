package constants

// 헬스체크 및 시스템 상태 관련 상수입니다.
const (
	// HealthStatusHealthy 헬스체크 상태: 정상
	HealthStatusHealthy = "healthy"

	// HealthStatusUnhealthy 헬스체크 상태: 비정상
	HealthStatusUnhealthy = "unhealthy"

	// DependencyIDGenerator 외부 의존성 ID: ID 생성기 (최초 캐시 동기화 여부)
	DependencyIDGenerator = "id_generator"

	// DependencyAllocStore 외부 의존성 ID: 할당 저장소
	DependencyAllocStore = "alloc_store"

	// MsgDepStatusHealthy 외부 의존성 상태: 정상
	MsgDepStatusHealthy = "정상 작동 중"

	// MsgDepStatusNotInitialized 외부 의존성 상태: 미초기화
	MsgDepStatusNotInitialized = "최초 캐시 동기화가 완료되지 않음"
)
