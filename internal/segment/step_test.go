package segment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextStep(t *testing.T) {
	tests := []struct {
		name    string
		step    int64
		minStep int64
		elapsed time.Duration
		want    int64
	}{
		// 15분 미만: 두 배
		{"즉시 갱신", 1000, 1000, 0, 2000},
		{"14분 59초", 1000, 1000, SegmentDuration - time.Second, 2000},
		{"상한 도달", 600_000, 1000, time.Minute, MaxStep},
		{"이미 상한", MaxStep, 1000, time.Minute, MaxStep},
		{"저장소 step 이 상한보다 큼", 2 * MaxStep, 2 * MaxStep, time.Minute, 2 * MaxStep},

		// 15분 이상 30분 미만: 유지
		{"정확히 15분", 4000, 1000, SegmentDuration, 4000},
		{"29분 59초", 4000, 1000, 2*SegmentDuration - time.Second, 4000},

		// 30분 이상: 절반 (minStep 이상)
		{"정확히 30분", 4000, 1000, 2 * SegmentDuration, 2000},
		{"한 시간", 4000, 1000, time.Hour, 2000},
		{"하한 도달", 1500, 1000, time.Hour, 1000},
		{"이미 하한", 1000, 1000, time.Hour, 1000},

		// 저장소의 step 이 늘어 현재 step 보다 커진 경우
		{"minStep 보다 작은 step", 500, 1000, 20 * time.Minute, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStep(tt.step, tt.minStep, tt.elapsed))
		})
	}
}

// TestNextStep_Bounds 임의의 갱신 순서에서도 step 이 [minStep, MaxStep] 범위를 벗어나지 않는지 확인합니다.
func TestNextStep_Bounds(t *testing.T) {
	const minStep int64 = 100

	elapsed := []time.Duration{0, time.Minute, 20 * time.Minute, time.Hour, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, time.Hour, 45 * time.Minute}

	step := minStep
	for i := 0; i < 200; i++ {
		step = NextStep(step, minStep, elapsed[i%len(elapsed)])

		assert.GreaterOrEqual(t, step, minStep)
		assert.LessOrEqual(t, step, MaxStep)
	}
}
