package segment

import (
	"context"
	"testing"

	"github.com/darkkaiser/leaf-server/internal/service/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("추가와 제거", func(t *testing.T) {
		s := newFakeStore(t, contract.Allocation{Key: "b", Step: 10}, contract.Allocation{Key: "c", Step: 10})
		g := newReadyGenerator(t, s)
		require.Equal(t, []string{"b", "c"}, g.Tags())

		s.Delete("c")
		require.NoError(t, s.Seed(ctx, contract.Allocation{Key: "a", Step: 10}))

		added, removed, err := g.reconcile(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, added)
		assert.Equal(t, []string{"c"}, removed)
		assert.Equal(t, []string{"a", "b"}, g.Tags())

		_, err = g.Get(ctx, "c")
		assert.Equal(t, contract.KindUnknownTag, contract.KindOf(err))
	})

	t.Run("변경 없는 반복 실행", func(t *testing.T) {
		s := newFakeStore(t, contract.Allocation{Key: "a", Step: 10}, contract.Allocation{Key: "b", Step: 10})
		g := newReadyGenerator(t, s)

		_, err := g.Get(ctx, "a")
		require.NoError(t, err)
		before := g.buffer("a")

		for i := 0; i < 2; i++ {
			added, removed, err := g.reconcile(ctx)
			require.NoError(t, err)
			assert.Empty(t, added)
			assert.Empty(t, removed)
		}
		assert.Equal(t, []string{"a", "b"}, g.Tags())

		// 기존 버퍼는 교체되지 않고 적재 상태를 유지합니다.
		assert.Same(t, before, g.buffer("a"))
		assert.True(t, before.Initialized())
	})

	t.Run("저장소 장애 시 캐시 유지", func(t *testing.T) {
		s := newFakeStore(t, contract.Allocation{Key: "a", Step: 10})
		g := newReadyGenerator(t, s)

		s.failList(errStoreDown, 1)
		s.Delete("a")

		_, _, err := g.reconcile(ctx)
		require.Error(t, err)
		assert.Equal(t, contract.KindStoreUnavailable, contract.KindOf(err))
		assert.Equal(t, []string{"a"}, g.Tags())

		// 공개 진입점은 에러를 기록만 하고 반환하지 않습니다.
		s.failList(errStoreDown, 1)
		assert.NotPanics(t, func() { g.Reconcile(ctx) })
		assert.Equal(t, []string{"a"}, g.Tags())
	})

	t.Run("빈 태그 목록은 무시", func(t *testing.T) {
		s := newFakeStore(t, contract.Allocation{Key: "a", Step: 10})
		g := newReadyGenerator(t, s)

		s.Delete("a")

		added, removed, err := g.reconcile(ctx)
		require.NoError(t, err)
		assert.Empty(t, added)
		assert.Empty(t, removed)
		assert.Equal(t, []string{"a"}, g.Tags())
	})
}
