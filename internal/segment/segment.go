// Package segment 태그별 ID 구간(세그먼트)을 메모리에 이중으로 캐시하여 고유 ID를 발급하는 생성기를 제공합니다.
//
// 각 태그는 두 개의 세그먼트를 가진 Buffer 로 관리됩니다. 활성 세그먼트에서 ID를 발급하는 동안
// 대기 세그먼트를 백그라운드에서 미리 채워 두고, 활성 세그먼트가 소진되면 두 세그먼트를 교체합니다.
// 저장소에는 세그먼트가 소진될 즈음에만 접근하므로 요청 경로에서는 원자적 증가 연산만 수행됩니다.
package segment

import (
	"fmt"
	"sync/atomic"

	"github.com/darkkaiser/leaf-server/internal/service/contract"
)

// Segment 연속된 ID 구간 [max-step, max) 과 다음에 발급할 ID 커서입니다.
//
// value 는 증가만 하며, 원자적 증가 직후 읽은 값이 max 보다 작을 때만 유효한 ID 입니다.
type Segment struct {
	value atomic.Int64
	max   atomic.Int64
	step  atomic.Int64
}

// Value 다음에 발급할 ID 를 반환합니다.
func (s *Segment) Value() int64 { return s.value.Load() }

// Max 구간의 배타적 상한을 반환합니다.
func (s *Segment) Max() int64 { return s.max.Load() }

// Step 구간의 길이를 반환합니다.
func (s *Segment) Step() int64 { return s.step.Load() }

// Idle 아직 발급되지 않은 ID 의 개수를 반환합니다. 소진된 이후에는 음수가 될 수 있습니다.
func (s *Segment) Idle() int64 {
	return s.max.Load() - s.value.Load()
}

// next 커서를 원자적으로 증가시키고 증가 전 값을 반환합니다.
func (s *Segment) next() int64 {
	return s.value.Add(1) - 1
}

// reset 저장소에서 받은 상한과 길이로 구간을 다시 채웁니다. value 를 max 보다 먼저 설정해야 합니다.
func (s *Segment) reset(max, step int64) {
	s.value.Store(max - step)
	s.max.Store(max)
	s.step.Store(step)
}

func (s *Segment) snapshot() contract.SegmentSnapshot {
	value, max := s.value.Load(), s.max.Load()

	return contract.SegmentSnapshot{
		Value: value,
		Max:   max,
		Step:  s.step.Load(),
		Idle:  max - value,
	}
}

func (s *Segment) String() string {
	return fmt.Sprintf("Segment(value:%d, max:%d, step:%d)", s.value.Load(), s.max.Load(), s.step.Load())
}
