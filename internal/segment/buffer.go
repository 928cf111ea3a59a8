package segment

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/darkkaiser/leaf-server/internal/service/contract"
)

// Buffer 태그 하나의 이중 세그먼트와 갱신 조정 상태입니다.
//
// ID 발급과 준비 상태 확인은 읽기 잠금으로, 활성 세그먼트 교체와 nextReady 변경은 쓰기 잠금으로
// 보호됩니다. 대기 세그먼트의 저장소 갱신은 refreshing 플래그를 CAS 로 선점한 고루틴 하나만 수행합니다.
type Buffer struct {
	key string

	mu         sync.RWMutex
	segments   [2]*Segment
	currentPos int
	nextReady  bool

	// refreshing 대기 세그먼트를 갱신하는 백그라운드 작업이 진행 중인지 여부 (CAS 로만 true 로 전환)
	refreshing atomic.Bool

	// initialized 최초 세그먼트 적재가 완료되었는지 여부
	initialized atomic.Bool
	initMu      sync.Mutex

	step    atomic.Int64
	minStep atomic.Int64

	// lastRefreshAt 마지막 저장소 갱신 시각 (UnixNano, 두 번째 적재 전까지 0)
	lastRefreshAt atomic.Int64
}

// NewBuffer 아직 적재되지 않은 빈 세그먼트 두 개를 가진 버퍼를 생성합니다.
func NewBuffer(key string) *Buffer {
	return &Buffer{
		key:      key,
		segments: [2]*Segment{{}, {}},
	}
}

// Key 버퍼의 태그를 반환합니다.
func (b *Buffer) Key() string { return b.key }

// Initialized 최초 적재 완료 여부를 반환합니다.
func (b *Buffer) Initialized() bool { return b.initialized.Load() }

// current 활성 세그먼트를 반환합니다. 호출자는 잠금을 보유해야 합니다.
func (b *Buffer) current() *Segment {
	return b.segments[b.currentPos]
}

// standby 대기 세그먼트를 반환합니다. 호출자는 잠금을 보유해야 합니다.
func (b *Buffer) standby() *Segment {
	return b.segments[1-b.currentPos]
}

// switchActive 대기 세그먼트를 활성화합니다. 쓰기 잠금을 보유한 상태에서 nextReady 가 true 일 때만 호출합니다.
func (b *Buffer) switchActive() {
	b.currentPos = 1 - b.currentPos
	b.nextReady = false
}

// markNextReady 대기 세그먼트의 갱신이 끝났음을 기록하고 갱신 플래그를 해제합니다.
func (b *Buffer) markNextReady() {
	b.mu.Lock()
	b.nextReady = true
	b.refreshing.Store(false)
	b.mu.Unlock()
}

func (b *Buffer) lastRefresh() time.Time {
	if ns := b.lastRefreshAt.Load(); ns != 0 {
		return time.Unix(0, ns)
	}
	return time.Time{}
}

// Snapshot 버퍼 상태를 읽기 잠금 하에서 복사하여 반환합니다.
func (b *Buffer) Snapshot() contract.BufferSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return contract.BufferSnapshot{
		Key:         b.key,
		Initialized: b.initialized.Load(),
		CurrentPos:  b.currentPos,
		NextReady:   b.nextReady,
		Refreshing:  b.refreshing.Load(),
		Step:        b.step.Load(),
		MinStep:     b.minStep.Load(),
		Segments:    [2]contract.SegmentSnapshot{b.segments[0].snapshot(), b.segments[1].snapshot()},
	}
}

func (b *Buffer) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return fmt.Sprintf("Buffer(key:%s, segments:[%s %s], currentPos:%d, nextReady:%t, initialized:%t, refreshing:%t, step:%d, minStep:%d)",
		b.key, b.segments[0], b.segments[1], b.currentPos, b.nextReady, b.initialized.Load(), b.refreshing.Load(), b.step.Load(), b.minStep.Load())
}
