// Package concurrency 고루틴 기반 동시성 유틸리티를 제공합니다.
package concurrency

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	applog "github.com/darkkaiser/leaf-server/pkg/log"
)

const component = "concurrency.pool"

// ErrPoolClosed 종료된 풀에 작업을 제출했을 때 반환됩니다.
var ErrPoolClosed = errors.New("worker pool이 이미 종료되었습니다")

// WorkerPool 최소 상주 워커 수만 보장하고 최대 워커 수는 제한하지 않는 작업 풀입니다.
//
// 작업은 큐에 쌓이지 않고 직접 전달(direct handoff)됩니다. 유휴 워커가 있으면 그 워커가 즉시
// 작업을 받아 가고, 없으면 새 워커를 생성합니다. 상주 워커를 초과하는 워커는 idleTimeout 동안
// 작업을 받지 못하면 종료됩니다.
type WorkerPool struct {
	name        string
	minWorkers  int
	idleTimeout time.Duration

	handoff chan func()
	quit    chan struct{}

	// submitMu Submit(RLock)과 Close(Lock) 사이에서 WaitGroup.Add 와 Wait 의 순서를 보장합니다.
	submitMu sync.RWMutex
	closed   bool

	workers atomic.Int32
	busy    atomic.Int32
	wg      sync.WaitGroup
}

// NewWorkerPool 풀을 생성하고 minWorkers 개의 상주 워커를 시작합니다.
func NewWorkerPool(name string, minWorkers int, idleTimeout time.Duration) *WorkerPool {
	if minWorkers < 0 {
		minWorkers = 0
	}
	if idleTimeout <= 0 {
		idleTimeout = 60 * time.Second
	}

	p := &WorkerPool{
		name:        name,
		minWorkers:  minWorkers,
		idleTimeout: idleTimeout,
		handoff:     make(chan func()),
		quit:        make(chan struct{}),
	}

	for i := 0; i < minWorkers; i++ {
		p.spawn(nil, true)
	}

	return p
}

// Submit 작업을 실행할 워커에게 전달합니다. 대기 중인 워커가 없으면 새 워커를 생성하므로 블록되지 않습니다.
func (p *WorkerPool) Submit(task func()) error {
	if task == nil {
		return fmt.Errorf("nil 작업은 제출할 수 없습니다")
	}

	p.submitMu.RLock()
	defer p.submitMu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.handoff <- task:
	default:
		p.spawn(task, false)
	}

	return nil
}

// Close 새 작업 제출을 막고, 실행 중인 작업이 끝날 때까지 대기한 뒤 모든 워커를 종료합니다.
func (p *WorkerPool) Close() {
	p.submitMu.Lock()
	if p.closed {
		p.submitMu.Unlock()
		return
	}
	p.closed = true
	close(p.quit)
	p.submitMu.Unlock()

	p.wg.Wait()
}

// Workers 현재 살아있는 워커 수를 반환합니다.
func (p *WorkerPool) Workers() int {
	return int(p.workers.Load())
}

// Busy 현재 작업을 실행 중인 워커 수를 반환합니다.
func (p *WorkerPool) Busy() int {
	return int(p.busy.Load())
}

func (p *WorkerPool) spawn(first func(), core bool) {
	p.wg.Add(1)
	p.workers.Add(1)

	go p.work(first, core)
}

func (p *WorkerPool) work(task func(), core bool) {
	defer func() {
		p.workers.Add(-1)
		p.wg.Done()
	}()

	if task != nil {
		p.run(task)
	}

	var idle <-chan time.Time
	for {
		var timer *time.Timer
		if !core {
			timer = time.NewTimer(p.idleTimeout)
			idle = timer.C
		}

		select {
		case t := <-p.handoff:
			if timer != nil {
				timer.Stop()
			}
			p.run(t)

		case <-idle:
			return

		case <-p.quit:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// run 작업 하나를 실행합니다. 작업의 panic 은 워커를 종료시키지 않습니다.
func (p *WorkerPool) run(task func()) {
	p.busy.Add(1)
	defer func() {
		p.busy.Add(-1)

		if r := recover(); r != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"pool":  p.name,
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("작업 실행 중 panic이 발생하여 복구되었습니다")
		}
	}()

	task()
}
