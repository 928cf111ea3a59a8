package segment

import "time"

const (
	// SegmentDuration 세그먼트 하나가 소진되는 목표 시간
	SegmentDuration = 15 * time.Minute

	// MaxStep 동적으로 조정되는 step 의 상한
	MaxStep int64 = 1_000_000
)

// NextStep 직전 갱신 이후 경과 시간으로 다음 세그먼트의 길이를 계산합니다.
//
//	elapsed <  15m        : step*2 (MaxStep 이하)
//	15m <= elapsed < 30m  : step 유지
//	elapsed >= 30m        : step/2 (minStep 이상)
//
// 저장소에 설정된 step 이 MaxStep 보다 크면 두 배로 늘리지 않고 유지하며, 결과는 minStep 보다 작아지지 않습니다.
func NextStep(step, minStep int64, elapsed time.Duration) int64 {
	var next int64

	switch {
	case elapsed < SegmentDuration:
		next = max(min(step*2, MaxStep), step)
	case elapsed < 2*SegmentDuration:
		next = step
	default:
		next = step / 2
	}

	return max(next, minStep)
}
