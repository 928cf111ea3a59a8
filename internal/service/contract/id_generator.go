package contract

import "context"

// IDGenerator 태그(비즈니스 도메인)별로 고유한 정수 ID를 발급하는 인터페이스입니다.
type IDGenerator interface {
	// Get 태그에 대한 다음 ID를 발급합니다.
	//
	// 실패 시 반환되는 에러는 KindOf 로 분류할 수 있습니다.
	Get(ctx context.Context, tag string) (int64, error)

	// Ready 최초 캐시 동기화가 완료되어 ID를 발급할 수 있는 상태인지 여부를 반환합니다.
	Ready() bool

	// Snapshot 캐시된 모든 태그 버퍼의 현재 상태를 키 순서로 반환합니다.
	Snapshot() []BufferSnapshot
}

// BufferSnapshot 태그 하나의 이중 버퍼 상태를 모니터링 용도로 복사한 값입니다.
type BufferSnapshot struct {
	Key         string             `json:"key"`
	Initialized bool               `json:"initialized"`
	CurrentPos  int                `json:"current_pos"`
	NextReady   bool               `json:"next_ready"`
	Refreshing  bool               `json:"refreshing"`
	Step        int64              `json:"step"`
	MinStep     int64              `json:"min_step"`
	Segments    [2]SegmentSnapshot `json:"segments"`
}

// SegmentSnapshot 세그먼트 하나의 상태입니다.
type SegmentSnapshot struct {
	Value int64 `json:"value"`
	Max   int64 `json:"max"`
	Step  int64 `json:"step"`
	Idle  int64 `json:"idle"`
}
