package response

import "github.com/darkkaiser/leaf-server/internal/service/contract"

// CacheResponse 태그별 이중 버퍼 캐시 상태 응답
type CacheResponse struct {
	Count   int                       `json:"count" example:"2"`
	Buffers []contract.BufferSnapshot `json:"buffers"`
}

// AllocationsResponse 저장소 할당 레코드 목록 응답
type AllocationsResponse struct {
	Count       int                   `json:"count" example:"2"`
	Allocations []contract.Allocation `json:"allocations"`
}
