package scheduler

import (
	apperrors "github.com/darkkaiser/leaf-server/internal/pkg/errors"
)

// ErrJobRunNotInitialized 실행 함수가 지정되지 않은 작업을 등록하려 할 때 반환하는 에러입니다.
var ErrJobRunNotInitialized = apperrors.New(apperrors.Internal, "작업의 실행 함수가 초기화되지 않았습니다")

// NewErrInvalidCronSpec Cron 표현식이 올바르지 않아 스케줄 등록에 실패했을 때 반환하는 에러를 생성합니다.
func NewErrInvalidCronSpec(jobName, timeSpec string, cause error) error {
	return apperrors.Wrapf(cause, apperrors.InvalidInput, "스케줄 등록 실패: 잘못된 Cron 표현식입니다 (Job=%s, TimeSpec='%s')", jobName, timeSpec)
}
