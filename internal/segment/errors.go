package segment

import (
	"errors"

	apperrors "github.com/darkkaiser/leaf-server/internal/pkg/errors"
	"github.com/darkkaiser/leaf-server/internal/service/contract"
)

// newErrListTagsFailed 캐시 동기화 중 저장소의 태그 목록을 가져오지 못했을 때 반환하는 에러를 생성합니다.
func newErrListTagsFailed(cause error) error {
	return apperrors.Wrap(errors.Join(contract.ErrStoreUnavailable, cause), apperrors.Unavailable, "저장소에서 태그 목록을 가져오지 못했습니다")
}
