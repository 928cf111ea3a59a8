package handler

import (
	"fmt"
	"net/http"

	"github.com/darkkaiser/leaf-server/internal/service/api/constants"
	"github.com/darkkaiser/leaf-server/internal/service/api/httputil"
	"github.com/darkkaiser/leaf-server/internal/service/contract"
)

// ErrTagRequired 태그 경로 파라미터가 비어 있을 때 반환하는 400 에러입니다.
var ErrTagRequired = httputil.NewBadRequestError(constants.ErrMsgTagRequired)

// NewErrStoreUnavailable 할당 저장소 조회에 실패했을 때 반환하는 503 에러를 생성합니다.
func NewErrStoreUnavailable() error {
	return httputil.NewServiceUnavailableError("할당 저장소에 접근할 수 없습니다. 잠시 후 다시 시도해주세요")
}

// newErrIDGeneration ID 발급 실패 에러를 유형에 맞는 HTTP 에러로 변환합니다.
func newErrIDGeneration(tag string, err error) error {
	switch contract.KindOf(err) {
	case contract.KindUnknownTag:
		return httputil.NewNotFoundError(fmt.Sprintf("등록되지 않은 태그입니다 (tag=%s)", tag))
	case contract.KindNotInitialized:
		return httputil.NewServiceUnavailableError("ID 생성기가 아직 초기화되지 않았습니다. 잠시 후 다시 시도해주세요")
	case contract.KindAllocationExhausted:
		return httputil.NewServiceUnavailableError(fmt.Sprintf("ID 구간이 모두 소진되었습니다. 잠시 후 다시 시도해주세요 (tag=%s)", tag))
	case contract.KindStoreUnavailable:
		return httputil.NewServiceUnavailableError(fmt.Sprintf("할당 저장소에 접근할 수 없어 ID를 발급하지 못했습니다 (tag=%s)", tag))
	default:
		return httputil.NewInternalServerError(constants.ErrMsgInternalServer)
	}
}

// legacyStatus 레거시 엔드포인트에서 실패 유형별로 사용할 HTTP 상태 코드를 반환합니다.
func legacyStatus(kind contract.ErrorKind) int {
	switch kind {
	case contract.KindUnknownTag:
		return http.StatusNotFound
	case contract.KindNotInitialized, contract.KindAllocationExhausted, contract.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
