package segment

import (
	"context"
	"runtime"
	"time"

	"github.com/darkkaiser/leaf-server/internal/service/contract"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
)

// refreshThreshold 활성 세그먼트의 남은 ID 가 step 의 이 비율 미만이 되면 대기 세그먼트 갱신을 시작합니다.
const refreshThreshold = 0.9

// allocate 버퍼에서 ID 하나를 발급합니다.
//
//  1. 읽기 잠금 하에서 필요하면 대기 세그먼트 갱신을 예약하고 활성 세그먼트에서 ID 를 꺼냅니다.
//  2. 활성 세그먼트가 소진되었으면 잠금 없이 진행 중인 갱신을 잠시 기다립니다.
//  3. 쓰기 잠금 하에서 다시 시도하고, 여전히 소진 상태면 준비된 대기 세그먼트로 교체한 뒤 1로 돌아갑니다.
//     대기 세그먼트가 준비되지 않았으면 ErrAllocationExhausted 를 반환합니다.
func (g *Generator) allocate(b *Buffer) (int64, error) {
	for {
		if id, ok := g.draw(b); ok {
			return id, nil
		}

		g.waitForRefresh(b)

		id, ok, switched := g.drawOrSwitch(b)
		if ok {
			return id, nil
		}
		if switched {
			continue
		}

		allocationExhaustedTotal.WithLabelValues(b.key).Inc()

		applog.WithComponentAndFields(component, applog.Fields{
			"tag":    b.key,
			"buffer": b.String(),
		}).Error("두 세그먼트가 모두 준비되지 않았습니다")

		return 0, contract.NewErrAllocationExhausted(b.key)
	}
}

// draw 읽기 잠금 하에서 활성 세그먼트의 ID 를 꺼냅니다. 갱신 조건을 만족하면 갱신 작업을 한 번만 예약합니다.
func (g *Generator) draw(b *Buffer) (int64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	seg := b.current()
	if !b.nextReady && float64(seg.Idle()) < refreshThreshold*float64(seg.Step()) && b.refreshing.CompareAndSwap(false, true) {
		g.submitRefresh(b, b.standby())
	}

	id := seg.next()

	return id, id < seg.Max()
}

// drawOrSwitch 쓰기 잠금 하에서 다시 ID 를 꺼내 보고, 소진 상태면 준비된 대기 세그먼트로 교체합니다.
func (g *Generator) drawOrSwitch(b *Buffer) (id int64, ok bool, switched bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// 대기하는 동안 다른 고루틴이 이미 교체했을 수 있습니다.
	seg := b.current()
	if id = seg.next(); id < seg.Max() {
		return id, true, false
	}

	if b.nextReady {
		b.switchActive()

		applog.WithComponentAndFields(component, applog.Fields{
			"tag":         b.key,
			"current_pos": b.currentPos,
		}).Debug("활성 세그먼트 교체")

		return 0, false, true
	}

	return 0, false, false
}

// waitForRefresh 진행 중인 갱신이 끝나기를 WaitSpinLimit 번까지 양보하며 기다리고, 그래도 끝나지 않으면 WaitSleep 만큼 잠듭니다.
func (g *Generator) waitForRefresh(b *Buffer) {
	for spins := 0; b.refreshing.Load(); spins++ {
		if spins >= g.cfg.WaitSpinLimit {
			time.Sleep(g.cfg.WaitSleep)
			return
		}
		runtime.Gosched()
	}
}

// submitRefresh 대기 세그먼트 갱신 작업을 워커 풀에 제출합니다. 호출자는 refreshing 플래그를 선점한 상태여야 합니다.
func (g *Generator) submitRefresh(b *Buffer, next *Segment) {
	if err := g.pool.Submit(func() { g.refresh(b, next) }); err != nil {
		b.refreshing.Store(false)

		applog.WithComponentAndFields(component, applog.Fields{
			"tag":   b.key,
			"error": err,
		}).Warn("세그먼트 갱신 작업을 제출하지 못했습니다")
	}
}

// refresh 대기 세그먼트를 저장소에서 채웁니다. 성공하면 nextReady 를 설정하고, 결과와 관계없이 refreshing 플래그를 해제합니다.
func (g *Generator) refresh(b *Buffer, next *Segment) {
	updated := false
	defer func() {
		if !updated {
			b.refreshing.Store(false)
		}
	}()

	if err := g.load(context.Background(), b, next); err != nil {
		segmentRefreshesTotal.WithLabelValues(b.key, "failure").Inc()

		applog.WithComponentAndFields(component, applog.Fields{
			"tag":   b.key,
			"error": err,
		}).Warn("세그먼트 갱신 실패")

		return
	}

	b.markNextReady()
	updated = true
	segmentRefreshesTotal.WithLabelValues(b.key, "success").Inc()

	applog.WithComponentAndFields(component, applog.Fields{
		"tag":     b.key,
		"segment": next.String(),
	}).Info("세그먼트 갱신 완료")
}
