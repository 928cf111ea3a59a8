package segment

import (
	"context"
	"slices"
	"time"

	applog "github.com/darkkaiser/leaf-server/pkg/log"
)

// Reconcile 저장소의 태그 목록과 캐시를 동기화합니다. 스케줄러가 주기적으로 호출합니다.
// 저장소 접근에 실패하면 이번 동기화를 건너뛰고 캐시를 그대로 유지합니다.
func (g *Generator) Reconcile(ctx context.Context) {
	if _, _, err := g.reconcile(ctx); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Warn("캐시 동기화 실패: 이번 주기를 건너뜁니다")
	}
}

// reconcile 저장소에만 있는 태그의 Buffer 를 추가하고 저장소에서 사라진 태그의 Buffer 를 제거합니다.
// 새 Buffer 는 적재되지 않은 상태로 추가되며 첫 요청 시 세그먼트를 가져옵니다.
// 저장소가 빈 태그 목록을 반환하면 캐시를 변경하지 않습니다.
func (g *Generator) reconcile(ctx context.Context) (added, removed []string, err error) {
	start := time.Now()

	tags, err := g.store.ListTags(ctx)
	storeRequestDuration.WithLabelValues("list_tags").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, nil, newErrListTagsFailed(err)
	}

	if len(tags) == 0 {
		applog.WithComponent(component).Warn("저장소의 태그 목록이 비어 있어 캐시 동기화를 건너뜁니다")
		return nil, nil, nil
	}

	storeTags := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		storeTags[tag] = struct{}{}
	}

	g.mu.Lock()
	for tag := range storeTags {
		if _, exists := g.buffers[tag]; !exists {
			g.buffers[tag] = NewBuffer(tag)
			added = append(added, tag)
		}
	}
	for tag := range g.buffers {
		if _, exists := storeTags[tag]; !exists {
			delete(g.buffers, tag)
			removed = append(removed, tag)
		}
	}
	size := len(g.buffers)
	g.mu.Unlock()

	slices.Sort(added)
	slices.Sort(removed)

	cachedTags.Set(float64(size))
	for _, tag := range removed {
		forgetTagMetrics(tag)
	}

	fields := applog.Fields{
		"added":    added,
		"removed":  removed,
		"cached":   size,
		"duration": time.Since(start).String(),
	}
	if len(added) > 0 || len(removed) > 0 {
		applog.WithComponentAndFields(component, fields).Info("캐시 동기화 완료")
	} else {
		applog.WithComponentAndFields(component, fields).Debug("캐시 동기화 완료: 변경 사항 없음")
	}

	return added, removed, nil
}
