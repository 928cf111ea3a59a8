package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/darkkaiser/leaf-server/internal/service/contract"
)

// MemoryStore 프로세스 메모리에 할당 레코드를 보관하는 저장소입니다.
// 재시작하면 상태가 사라지므로 테스트와 개발 환경에서만 사용합니다.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]contract.Allocation

	now func() time.Time
}

var _ contract.AllocStore = (*MemoryStore)(nil)

// NewMemoryStore 비어 있는 메모리 저장소를 생성합니다.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]contract.Allocation),
		now:     time.Now,
	}
}

// Seed 존재하지 않는 태그의 레코드만 추가합니다.
func (s *MemoryStore) Seed(_ context.Context, allocs ...contract.Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range allocs {
		if a.Step < 1 {
			return newErrInvalidStep(a.Step)
		}
		if _, exists := s.records[a.Key]; exists {
			continue
		}
		a.UpdateTime = s.now()
		s.records[a.Key] = a
	}

	return nil
}

// Delete 태그의 레코드를 제거합니다.
func (s *MemoryStore) Delete(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, tag)
}

func (s *MemoryStore) ListTags(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags := make([]string, 0, len(s.records))
	for tag := range s.records {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	return tags, nil
}

func (s *MemoryStore) ListAllocations(_ context.Context) ([]contract.Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allocs := make([]contract.Allocation, 0, len(s.records))
	for _, a := range s.records {
		allocs = append(allocs, a)
	}
	slices.SortFunc(allocs, func(a, b contract.Allocation) int {
		return strings.Compare(a.Key, b.Key)
	})

	return allocs, nil
}

func (s *MemoryStore) AdvanceAndFetch(_ context.Context, tag string) (contract.Allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.records[tag]
	if !ok {
		return contract.Allocation{}, newErrTagNotFound(tag)
	}
	advance(&a, a.Step, s.now())
	s.records[tag] = a

	return a, nil
}

func (s *MemoryStore) AdvanceByStepAndFetch(_ context.Context, tag string, step int64) (contract.Allocation, error) {
	if step < 1 {
		return contract.Allocation{}, newErrInvalidStep(step)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.records[tag]
	if !ok {
		return contract.Allocation{}, newErrTagNotFound(tag)
	}
	advance(&a, step, s.now())
	s.records[tag] = a

	return a, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
