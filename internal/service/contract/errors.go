package contract

import (
	"errors"

	apperrors "github.com/darkkaiser/leaf-server/internal/pkg/errors"
)

// ID 발급 실패 유형별 센티널 에러입니다. 반환되는 에러는 errors.Is 로 이 중 정확히 하나와 일치합니다.
var (
	// ErrNotInitialized 최초 캐시 동기화(Init)가 완료되기 전에 ID 발급을 요청했을 때 반환됩니다.
	ErrNotInitialized = apperrors.New(apperrors.Unavailable, "ID 생성기가 아직 초기화되지 않았습니다")

	// ErrUnknownTag 캐시에 존재하지 않는 태그로 ID 발급을 요청했을 때 반환됩니다.
	ErrUnknownTag = apperrors.New(apperrors.NotFound, "등록되지 않은 태그입니다")

	// ErrAllocationExhausted 현재 세그먼트와 대기 세그먼트가 모두 소진되어 ID를 발급할 수 없을 때 반환됩니다.
	ErrAllocationExhausted = apperrors.New(apperrors.Unavailable, "두 세그먼트가 모두 소진되었습니다")

	// ErrStoreUnavailable 할당 저장소에 접근할 수 없어 세그먼트를 가져오지 못했을 때 반환됩니다.
	ErrStoreUnavailable = apperrors.New(apperrors.Unavailable, "할당 저장소에 접근할 수 없습니다")
)

// ErrorKind ID 발급 실패 유형입니다.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotInitialized
	KindUnknownTag
	KindAllocationExhausted
	KindStoreUnavailable
)

// Code 기존 클라이언트와 호환되는 숫자 결과 코드를 반환합니다.
//
//	-1: 초기화되지 않음, -2: 등록되지 않은 태그, -3: 두 세그먼트 모두 준비되지 않음
func (k ErrorKind) Code() int64 {
	switch k {
	case KindNotInitialized:
		return -1
	case KindUnknownTag:
		return -2
	case KindAllocationExhausted, KindStoreUnavailable:
		return -3
	default:
		return -4
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindNotInitialized:
		return "not-initialized"
	case KindUnknownTag:
		return "unknown-tag"
	case KindAllocationExhausted:
		return "allocation-exhausted"
	case KindStoreUnavailable:
		return "store-unavailable"
	default:
		return "unknown"
	}
}

// KindOf 에러를 ID 발급 실패 유형으로 분류합니다.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNotInitialized):
		return KindNotInitialized
	case errors.Is(err, ErrUnknownTag):
		return KindUnknownTag
	case errors.Is(err, ErrAllocationExhausted):
		return KindAllocationExhausted
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	default:
		return KindUnknown
	}
}

// NewErrUnknownTag 태그 정보를 포함한 ErrUnknownTag 에러를 생성합니다.
func NewErrUnknownTag(tag string) error {
	return apperrors.Wrapf(ErrUnknownTag, apperrors.NotFound, "등록되지 않은 태그입니다 (tag=%s)", tag)
}

// NewErrAllocationExhausted 태그 정보를 포함한 ErrAllocationExhausted 에러를 생성합니다.
func NewErrAllocationExhausted(tag string) error {
	return apperrors.Wrapf(ErrAllocationExhausted, apperrors.Unavailable, "두 세그먼트가 모두 소진되었습니다 (tag=%s)", tag)
}

// NewErrStoreUnavailable 저장소 에러(cause)를 보존하면서 ErrStoreUnavailable 로 분류되는 에러를 생성합니다.
func NewErrStoreUnavailable(tag string, cause error) error {
	return apperrors.Wrapf(errors.Join(ErrStoreUnavailable, cause), apperrors.Unavailable, "세그먼트를 가져오지 못했습니다 (tag=%s)", tag)
}
