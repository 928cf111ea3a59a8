package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/darkkaiser/leaf-server/internal/config"
	apperrors "github.com/darkkaiser/leaf-server/internal/pkg/errors"
	"github.com/darkkaiser/leaf-server/internal/service/contract"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seedableStore interface {
	contract.AllocStore
	seeder
}

// openers 모든 드라이버에 동일한 계약 테스트를 적용하기 위한 생성 함수 목록입니다.
func openers() map[string]func(t *testing.T) seedableStore {
	return map[string]func(t *testing.T) seedableStore{
		config.StoreDriverMemory: func(t *testing.T) seedableStore {
			return NewMemoryStore()
		},
		config.StoreDriverFile: func(t *testing.T) seedableStore {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "alloc", "leaf.json"))
			require.NoError(t, err)
			return s
		},
		config.StoreDriverSQLite: func(t *testing.T) seedableStore {
			s, err := NewSQLStore(filepath.Join(t.TempDir(), "leaf.db"))
			require.NoError(t, err)
			return s
		},
		config.StoreDriverBolt: func(t *testing.T) seedableStore {
			s, err := NewBoltStore(filepath.Join(t.TempDir(), "leaf.bolt"))
			require.NoError(t, err)
			return s
		},
	}
}

var ignoreUpdateTime = cmpopts.IgnoreFields(contract.Allocation{}, "UpdateTime")

func TestAllocStore_Contract(t *testing.T) {
	for driver, open := range openers() {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()

			s := open(t)
			t.Cleanup(func() { _ = s.Close() })

			// =================================================================
			// 빈 저장소
			// =================================================================
			tags, err := s.ListTags(ctx)
			require.NoError(t, err)
			assert.Empty(t, tags)

			_, err = s.AdvanceAndFetch(ctx, "order")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTagNotFound)

			// =================================================================
			// 시드 (이미 존재하는 태그는 변경하지 않음)
			// =================================================================
			require.NoError(t, s.Seed(ctx,
				contract.Allocation{Key: "order", MaxID: 0, Step: 1000, Description: "주문"},
				contract.Allocation{Key: "invoice", MaxID: 500, Step: 10},
			))
			require.NoError(t, s.Seed(ctx, contract.Allocation{Key: "order", MaxID: 99999, Step: 1}))

			tags, err = s.ListTags(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"invoice", "order"}, tags)

			// =================================================================
			// 기본 step 증가
			// =================================================================
			a, err := s.AdvanceAndFetch(ctx, "order")
			require.NoError(t, err)
			assert.Equal(t, int64(1000), a.MaxID)
			assert.Equal(t, int64(1000), a.Step)
			assert.False(t, a.UpdateTime.IsZero())

			// =================================================================
			// 지정 step 증가: 반환 Step 은 저장소의 기본값
			// =================================================================
			a, err = s.AdvanceByStepAndFetch(ctx, "order", 2000)
			require.NoError(t, err)
			assert.Equal(t, int64(3000), a.MaxID)
			assert.Equal(t, int64(1000), a.Step)

			_, err = s.AdvanceByStepAndFetch(ctx, "order", 0)
			assert.ErrorIs(t, err, ErrInvalidStep)
			_, err = s.AdvanceByStepAndFetch(ctx, "missing", 10)
			assert.True(t, apperrors.Is(err, apperrors.NotFound))

			// =================================================================
			// 전체 스냅샷
			// =================================================================
			allocs, err := s.ListAllocations(ctx)
			require.NoError(t, err)

			want := []contract.Allocation{
				{Key: "invoice", MaxID: 500, Step: 10},
				{Key: "order", MaxID: 3000, Step: 1000, Description: "주문"},
			}
			if diff := cmp.Diff(want, allocs, ignoreUpdateTime); diff != "" {
				t.Errorf("ListAllocations 결과 불일치 (-want +got):\n%s", diff)
			}

			// =================================================================
			// 잘못된 시드
			// =================================================================
			assert.ErrorIs(t, s.Seed(ctx, contract.Allocation{Key: "bad", Step: 0}), ErrInvalidStep)
		})
	}
}

func TestAllocStore_ConcurrentAdvanceIsAtomic(t *testing.T) {
	const (
		goroutines = 8
		perRoutine = 25
	)

	for driver, open := range openers() {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()

			s := open(t)
			t.Cleanup(func() { _ = s.Close() })
			require.NoError(t, s.Seed(ctx, contract.Allocation{Key: "order", Step: 10}))

			var (
				mu   sync.Mutex
				seen = make(map[int64]bool)
				wg   sync.WaitGroup
			)
			for g := 0; g < goroutines; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < perRoutine; i++ {
						a, err := s.AdvanceAndFetch(ctx, "order")
						if !assert.NoError(t, err) {
							return
						}
						mu.Lock()
						assert.False(t, seen[a.MaxID], "같은 상한이 두 번 반환되었습니다: %d", a.MaxID)
						seen[a.MaxID] = true
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			allocs, err := s.ListAllocations(ctx)
			require.NoError(t, err)
			require.Len(t, allocs, 1)
			assert.Equal(t, int64(goroutines*perRoutine*10), allocs[0].MaxID)
		})
	}
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leaf.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Seed(ctx, contract.Allocation{Key: "order", Step: 100}))
	_, err = s.AdvanceAndFetch(ctx, "order")
	require.NoError(t, err)

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	a, err := reopened.AdvanceAndFetch(ctx, "order")
	require.NoError(t, err)
	assert.Equal(t, int64(200), a.MaxID)
}

func TestSQLStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leaf.db")

	s, err := NewSQLStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Seed(ctx, contract.Allocation{Key: "order", MaxID: 1, Step: 100}))
	_, err = s.AdvanceAndFetch(ctx, "order")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewSQLStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	a, err := reopened.AdvanceAndFetch(ctx, "order")
	require.NoError(t, err)
	assert.Equal(t, int64(201), a.MaxID)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("드라이버별 생성과 시드", func(t *testing.T) {
		for _, driver := range []string{config.StoreDriverMemory, config.StoreDriverFile, config.StoreDriverSQLite, config.StoreDriverBolt} {
			t.Run(driver, func(t *testing.T) {
				s, err := New(ctx, config.StoreConfig{
					Driver: driver,
					Path:   filepath.Join(t.TempDir(), "leaf-"+driver),
					SeedAllocations: []config.SeedAllocationConfig{
						{Key: "order", MaxID: 0, Step: 1000},
					},
				})
				require.NoError(t, err)
				t.Cleanup(func() { _ = s.Close() })

				tags, err := s.ListTags(ctx)
				require.NoError(t, err)
				assert.Equal(t, []string{"order"}, tags)
			})
		}
	})

	t.Run("지원하지 않는 드라이버", func(t *testing.T) {
		_, err := New(ctx, config.StoreConfig{Driver: "redis"})
		assert.ErrorIs(t, err, ErrUnsupportedDriver)
	})

	t.Run("잘못된 시드", func(t *testing.T) {
		_, err := New(ctx, config.StoreConfig{
			Driver:          config.StoreDriverMemory,
			SeedAllocations: []config.SeedAllocationConfig{{Key: "order", Step: 0}},
		})
		assert.ErrorIs(t, err, ErrInvalidStep)
	})
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()

	s := NewMemoryStore()
	require.NoError(t, s.Seed(ctx, contract.Allocation{Key: "a", Step: 1}, contract.Allocation{Key: "b", Step: 1}))

	s.Delete("a")

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, tags)
}
