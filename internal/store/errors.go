package store

import (
	apperrors "github.com/darkkaiser/leaf-server/internal/pkg/errors"
)

var (
	// ErrTagNotFound 요청한 태그의 할당 레코드가 저장소에 존재하지 않을 때 반환됩니다.
	ErrTagNotFound = apperrors.New(apperrors.NotFound, "할당 레코드가 존재하지 않습니다")

	// ErrInvalidStep 증가시킬 step 이 1보다 작을 때 반환됩니다.
	ErrInvalidStep = apperrors.New(apperrors.InvalidInput, "step은 1 이상이어야 합니다")

	// ErrUnsupportedDriver 설정된 저장소 드라이버를 지원하지 않을 때 반환됩니다.
	ErrUnsupportedDriver = apperrors.New(apperrors.InvalidInput, "지원하지 않는 저장소 드라이버입니다")
)

func newErrTagNotFound(tag string) error {
	return apperrors.Wrapf(ErrTagNotFound, apperrors.NotFound, "할당 레코드가 존재하지 않습니다 (tag=%s)", tag)
}

func newErrInvalidStep(step int64) error {
	return apperrors.Wrapf(ErrInvalidStep, apperrors.InvalidInput, "step은 1 이상이어야 합니다 (step=%d)", step)
}
