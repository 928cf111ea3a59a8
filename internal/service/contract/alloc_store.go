package contract

import (
	"context"
	"time"
)

// Allocation 태그별 할당 레코드입니다.
//
// MaxID 는 지금까지 발급 예약된 ID의 상한(durable high-water mark)이며, Step 은 저장소에
// 설정된 기본 구간 길이입니다. 레코드는 저장소만 변경하며 호출 측은 조회 시점의 스냅샷으로 다룹니다.
type Allocation struct {
	Key         string    `json:"key"`
	MaxID       int64     `json:"max_id"`
	Step        int64     `json:"step"`
	Description string    `json:"description,omitempty"`
	UpdateTime  time.Time `json:"update_time"`
}

// AllocStore 태그별 ID 상한을 원자적으로 증가시키는 영속 저장소 인터페이스입니다.
//
// 모든 구현체는 여러 고루틴에서 동시에 호출되어도 안전해야 하며, 같은 태그에 대한
// Advance 계열 호출은 서로 원자적이어야 합니다.
type AllocStore interface {
	// ListTags 현재 등록된 모든 태그를 반환합니다.
	ListTags(ctx context.Context) ([]string, error)

	// ListAllocations 모든 할당 레코드의 스냅샷을 반환합니다. (관리 및 진단 용도)
	ListAllocations(ctx context.Context) ([]Allocation, error)

	// AdvanceAndFetch 태그의 MaxID 를 저장소에 설정된 Step 만큼 증가시키고, 갱신된 레코드를 반환합니다.
	AdvanceAndFetch(ctx context.Context, tag string) (Allocation, error)

	// AdvanceByStepAndFetch 태그의 MaxID 를 호출자가 지정한 step 만큼 증가시키고, 갱신된 레코드를 반환합니다.
	// 반환되는 Step 은 호출자가 지정한 값이 아니라 저장소에 설정된 기본 Step 입니다.
	AdvanceByStepAndFetch(ctx context.Context, tag string, step int64) (Allocation, error)

	// Close 저장소가 점유한 리소스를 해제합니다.
	Close() error
}
