package segment

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/darkkaiser/leaf-server/internal/config"
	"github.com/darkkaiser/leaf-server/internal/service/contract"
	"github.com/darkkaiser/leaf-server/internal/service/scheduler"
	"github.com/darkkaiser/leaf-server/pkg/concurrency"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
)

// component Generator 의 로깅용 컴포넌트 이름
const component = "segment.generator"

// reconcileJobName 캐시 동기화 작업의 스케줄러 등록 이름
const reconcileJobName = "segment.reconcile"

// Option Generator 생성 옵션입니다.
type Option func(*Generator)

// WithClock step 계산에 사용할 현재 시각 함수를 지정합니다.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// Generator 태그별 Buffer 를 보관하고 ID 발급 요청을 처리하는 생성기입니다.
//
// Init 으로 저장소의 태그 목록을 캐시에 적재한 뒤에만 Get 이 성공합니다. Start 는 Init 을 재시도하고
// 주기적인 캐시 동기화를 시작하며, 서비스 종료 시 동기화 스케줄러와 갱신 워커 풀을 정리합니다.
type Generator struct {
	store contract.AllocStore
	cfg   config.SegmentConfig

	// buffers 태그 -> Buffer 매핑. 태그 추가/제거는 쓰기 잠금, 조회는 읽기 잠금을 사용합니다.
	mu      sync.RWMutex
	buffers map[string]*Buffer

	ready atomic.Bool

	pool *concurrency.WorkerPool

	now func() time.Time

	scheduler *scheduler.Scheduler

	running   bool
	runningMu sync.Mutex
}

var _ contract.IDGenerator = (*Generator)(nil)

// NewGenerator 새로운 Generator 를 생성합니다. 갱신 워커 풀은 생성 즉시 상주 워커를 시작하므로 Stop 으로 정리해야 합니다.
func NewGenerator(store contract.AllocStore, cfg config.SegmentConfig, opts ...Option) *Generator {
	if store == nil {
		panic("AllocStore는 필수입니다")
	}

	g := &Generator{
		store:   store,
		cfg:     cfg,
		buffers: make(map[string]*Buffer),
		pool:    concurrency.NewWorkerPool("segment-refresh", cfg.RefreshWorkers, cfg.RefreshWorkerIdleTimeout),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Init 저장소의 태그 목록으로 캐시를 한 번 동기화하고 ID 발급 가능 상태로 전환합니다.
// 저장소에 접근할 수 없으면 ErrStoreUnavailable 로 분류되는 에러를 반환하며 준비 상태로 전환하지 않습니다.
func (g *Generator) Init(ctx context.Context) error {
	applog.WithComponent(component).Info("ID 생성기 초기화 시작")

	if _, _, err := g.reconcile(ctx); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Warn("ID 생성기 초기화 실패: 저장소에서 태그 목록을 가져오지 못했습니다")

		return err
	}

	g.ready.Store(true)

	applog.WithComponentAndFields(component, applog.Fields{
		"tags": g.Tags(),
	}).Info("ID 생성기 초기화 완료")

	return nil
}

// InitWithRetry Init 이 성공할 때까지 지수 백오프로 재시도합니다.
// 재시도 시간은 InitRetryMaxElapsed 로 제한되며, 0 이면 한 번만 시도합니다.
func (g *Generator) InitWithRetry(ctx context.Context) error {
	if g.cfg.InitRetryMaxElapsed <= 0 {
		return g.Init(ctx)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = g.cfg.InitRetryMaxElapsed

	return backoff.RetryNotify(func() error {
		return g.Init(ctx)
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		applog.WithComponentAndFields(component, applog.Fields{
			"error":      err,
			"next_retry": next.String(),
		}).Warn("ID 생성기 초기화 재시도 예정")
	})
}

// Ready 최초 캐시 동기화가 완료되었는지 여부를 반환합니다.
func (g *Generator) Ready() bool {
	return g.ready.Load()
}

// Get 태그의 다음 ID 를 발급합니다.
//
// 실패 시 contract.ErrNotInitialized, contract.ErrUnknownTag, contract.ErrAllocationExhausted,
// contract.ErrStoreUnavailable 중 하나로 분류되는 에러를 반환합니다. ctx 는 태그의 최초 세그먼트 적재에만 사용됩니다.
func (g *Generator) Get(ctx context.Context, tag string) (int64, error) {
	if !g.ready.Load() {
		return 0, contract.ErrNotInitialized
	}

	b := g.buffer(tag)
	if b == nil {
		return 0, contract.NewErrUnknownTag(tag)
	}

	if !b.initialized.Load() {
		if err := g.initBuffer(ctx, b); err != nil {
			return 0, err
		}
	}

	id, err := g.allocate(b)
	if err != nil {
		return 0, err
	}
	idsIssuedTotal.WithLabelValues(tag).Inc()

	return id, nil
}

// initBuffer 버퍼의 최초 세그먼트를 동기적으로 적재합니다. 버퍼당 한 고루틴만 적재를 수행하며,
// 실패하면 버퍼를 미초기화 상태로 남겨 다음 요청이 다시 시도하게 합니다.
func (g *Generator) initBuffer(ctx context.Context, b *Buffer) error {
	b.initMu.Lock()
	defer b.initMu.Unlock()

	if b.initialized.Load() {
		return nil
	}

	b.mu.RLock()
	current := b.current()
	b.mu.RUnlock()

	if err := g.load(ctx, b, current); err != nil {
		segmentRefreshesTotal.WithLabelValues(b.key, "failure").Inc()

		applog.WithComponentAndFields(component, applog.Fields{
			"tag":   b.key,
			"error": err,
		}).Warn("버퍼 초기화 실패: 최초 세그먼트를 가져오지 못했습니다")

		return contract.NewErrStoreUnavailable(b.key, err)
	}
	b.initialized.Store(true)
	segmentRefreshesTotal.WithLabelValues(b.key, "success").Inc()

	applog.WithComponentAndFields(component, applog.Fields{
		"tag":     b.key,
		"segment": current.String(),
	}).Info("버퍼 초기화 완료")

	return nil
}

// load 저장소에서 다음 구간을 예약하여 seg 를 채웁니다.
//
// 첫 번째와 두 번째 적재는 저장소에 설정된 step 을 그대로 사용하고, 두 번째 적재 시각부터 갱신 간격을 기록합니다.
// 세 번째 적재부터는 직전 갱신 이후 경과 시간으로 NextStep 을 계산하여 그만큼 상한을 증가시킵니다.
// 저장소가 반환한 step 은 매 적재마다 minStep 으로 갱신됩니다.
func (g *Generator) load(ctx context.Context, b *Buffer, seg *Segment) error {
	var (
		alloc contract.Allocation
		err   error
	)

	switch {
	case !b.initialized.Load():
		if alloc, err = g.advance(ctx, b.key, 0); err != nil {
			return err
		}
		b.step.Store(alloc.Step)
		b.minStep.Store(alloc.Step)

	case b.lastRefreshAt.Load() == 0:
		if alloc, err = g.advance(ctx, b.key, 0); err != nil {
			return err
		}
		b.lastRefreshAt.Store(g.now().UnixNano())
		b.step.Store(alloc.Step)
		b.minStep.Store(alloc.Step)

	default:
		step := b.step.Load()
		elapsed := g.now().Sub(b.lastRefresh())
		nextStep := NextStep(step, b.minStep.Load(), elapsed)

		if alloc, err = g.advance(ctx, b.key, nextStep); err != nil {
			return err
		}
		b.lastRefreshAt.Store(g.now().UnixNano())
		b.step.Store(nextStep)
		b.minStep.Store(alloc.Step)

		applog.WithComponentAndFields(component, applog.Fields{
			"tag":          b.key,
			"step":         step,
			"elapsed_mins": float64(int64(elapsed.Minutes()*100)) / 100,
			"next_step":    nextStep,
			"min_step":     alloc.Step,
		}).Info("세그먼트 step 조정")
	}

	seg.reset(alloc.MaxID, b.step.Load())
	segmentStep.WithLabelValues(b.key).Set(float64(b.step.Load()))

	return nil
}

// advance 저장소의 상한을 증가시킵니다. step 이 0 이면 저장소에 설정된 기본 step 을 사용합니다.
func (g *Generator) advance(ctx context.Context, tag string, step int64) (contract.Allocation, error) {
	start := time.Now()

	if step == 0 {
		defer func() { storeRequestDuration.WithLabelValues("advance").Observe(time.Since(start).Seconds()) }()
		return g.store.AdvanceAndFetch(ctx, tag)
	}

	defer func() { storeRequestDuration.WithLabelValues("advance_by_step").Observe(time.Since(start).Seconds()) }()
	return g.store.AdvanceByStepAndFetch(ctx, tag, step)
}

// buffer 태그의 Buffer 를 반환합니다. 캐시에 없으면 nil 을 반환합니다.
func (g *Generator) buffer(tag string) *Buffer {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.buffers[tag]
}

// Tags 캐시된 태그 목록을 정렬하여 반환합니다.
func (g *Generator) Tags() []string {
	g.mu.RLock()
	tags := make([]string, 0, len(g.buffers))
	for tag := range g.buffers {
		tags = append(tags, tag)
	}
	g.mu.RUnlock()

	slices.Sort(tags)

	return tags
}

// Snapshot 캐시된 모든 버퍼의 상태를 태그 순서로 반환합니다.
func (g *Generator) Snapshot() []contract.BufferSnapshot {
	g.mu.RLock()
	buffers := make([]*Buffer, 0, len(g.buffers))
	for _, b := range g.buffers {
		buffers = append(buffers, b)
	}
	g.mu.RUnlock()

	slices.SortFunc(buffers, func(a, b *Buffer) int {
		return strings.Compare(a.key, b.key)
	})

	snapshots := make([]contract.BufferSnapshot, 0, len(buffers))
	for _, b := range buffers {
		snapshots = append(snapshots, b.Snapshot())
	}

	return snapshots
}

// Start ID 생성기 서비스를 시작합니다.
//
// 아직 초기화되지 않았다면 InitWithRetry 로 최초 캐시 동기화를 수행한 뒤, ReconcileTimeSpec 주기로
// 캐시 동기화 작업을 실행하는 스케줄러를 시작합니다. serviceStopCtx 가 취소되면 Stop 을 호출합니다.
func (g *Generator) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	g.runningMu.Lock()
	defer g.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: ID 생성기 서비스 초기화 프로세스를 시작합니다")

	if g.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("ID 생성기 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	if !g.Ready() {
		if err := g.InitWithRetry(serviceStopCtx); err != nil {
			serviceStopWG.Done()
			return err
		}
	}

	reconcileStopWG := &sync.WaitGroup{}
	reconcileStopWG.Add(1)

	s := scheduler.NewService(scheduler.Job{
		Name:     reconcileJobName,
		TimeSpec: g.cfg.ReconcileTimeSpec,
		Run:      g.Reconcile,
	})
	if err := s.Start(serviceStopCtx, reconcileStopWG); err != nil {
		serviceStopWG.Done()
		return err
	}

	g.scheduler = s
	g.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"reconcile_time_spec": g.cfg.ReconcileTimeSpec,
		"refresh_workers":     g.cfg.RefreshWorkers,
	}).Info("서비스 시작 완료: ID 생성기 서비스가 정상적으로 초기화되었습니다")

	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		g.Stop()
		reconcileStopWG.Wait()
	}()

	return nil
}

// Stop 캐시 동기화 스케줄러를 중지하고 갱신 워커 풀을 닫습니다. 진행 중인 갱신은 끝까지 수행됩니다.
// Stop 이후에도 이미 적재된 세그먼트에서는 ID 를 발급하지만, 대기 세그먼트는 더 이상 갱신되지 않습니다.
func (g *Generator) Stop() {
	g.runningMu.Lock()
	defer g.runningMu.Unlock()

	if g.scheduler != nil {
		g.scheduler.Stop()
		g.scheduler = nil
	}
	g.pool.Close()

	if g.running {
		g.running = false
		applog.WithComponent(component).Info("ID 생성기 서비스 종료 완료: 모든 리소스가 정리되었습니다")
	}
}
