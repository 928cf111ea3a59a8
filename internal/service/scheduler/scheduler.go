package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/darkkaiser/leaf-server/pkg/cronx"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/robfig/cron/v3"
)

// component Scheduler 서비스의 로깅용 컴포넌트 이름
const component = "scheduler.service"

// defaultJobTimeout 작업 한 번의 실행에 허용되는 기본 최대 시간
const defaultJobTimeout = 30 * time.Second

// Job Cron 스케줄에 맞춰 주기적으로 실행되는 작업입니다.
type Job struct {
	// Name 로그에 표시되는 작업 이름
	Name string

	// TimeSpec 실행 주기 (예: "@every 60s", "0 */5 * * * *")
	TimeSpec string

	// Timeout 한 번의 실행에 전달되는 컨텍스트의 제한 시간 (0 이면 defaultJobTimeout)
	Timeout time.Duration

	// Run 작업 본문
	Run func(ctx context.Context)
}

// Scheduler 등록된 작업들을 Cron 스케줄에 맞춰 자동으로 실행하는 서비스입니다.
type Scheduler struct {
	jobs []Job

	cron *cron.Cron

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Scheduler 서비스 인스턴스를 생성합니다.
func NewService(jobs ...Job) *Scheduler {
	for _, j := range jobs {
		if j.Run == nil {
			panic("Job.Run은 필수입니다")
		}
	}

	return &Scheduler{
		jobs: jobs,
	}
}

// Start 스케줄러를 시작하고 작업들을 Cron 엔진에 등록합니다.
//
// 매개변수:
//   - serviceStopCtx: 서비스 종료 신호를 받기 위한 Context
//   - serviceStopWG: 서비스 종료 완료를 알리기 위한 WaitGroup
//
// 반환값:
//   - error: 작업의 Cron 표현식이 올바르지 않은 경우
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Scheduler 서비스 초기화 프로세스를 시작합니다")

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Scheduler 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// 1. Cron 엔진 초기화
	// - StandardParser: 초 단위 스케줄링 지원 (6개 필드: 초 분 시 일 월 요일)
	// - Recover: Panic 발생 시 복구하여 다른 작업에 영향을 주지 않음
	// - SkipIfStillRunning: 이전 실행이 끝나지 않았으면 다음 실행을 건너뜀
	c := cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	// 2. 작업 등록
	if err := registerJobs(c, s.jobs); err != nil {
		serviceStopWG.Done()
		return err
	}

	// 3. 스케줄러 시작
	s.cron = c
	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"registered_schedules": len(s.cron.Entries()),
	}).Info("서비스 시작 완료: Scheduler 서비스가 정상적으로 초기화되었습니다")

	// 4. 종료 신호 대기 (고루틴)
	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 스케줄러를 안전하게 중지합니다. 실행 중인 작업이 끝날 때까지 대기합니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: Scheduler 서비스 중지 시그널을 수신했습니다")

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// registerJobs 모든 작업을 Cron 엔진에 등록합니다. 하나라도 실패하면 등록을 중단합니다.
func registerJobs(c *cron.Cron, jobs []Job) error {
	for _, j := range jobs {
		name := j.Name
		run := j.Run
		timeout := j.Timeout
		if timeout <= 0 {
			timeout = defaultJobTimeout
		}

		// 작업 컨텍스트는 서비스 종료 시그널과 분리합니다. cron.Stop()이 실행 중인 작업의 완료를 대기합니다.
		if _, err := c.AddFunc(j.TimeSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			run(ctx)
		}); err != nil {
			return NewErrInvalidCronSpec(name, j.TimeSpec, err)
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"job":       name,
			"time_spec": j.TimeSpec,
		}).Debug("작업 등록 완료")
	}

	return nil
}
