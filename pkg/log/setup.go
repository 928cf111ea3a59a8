package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	fileExt = "log"

	defaultDir        = "logs"
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 20
)

var (
	setupOnce      sync.Once
	globalCloser   io.Closer
	globalSetupErr error
)

// Setup 전역 로깅 시스템을 초기화합니다. 프로세스 생명주기 동안 한 번만 수행되며,
// 이후 호출은 최초 호출의 결과를 그대로 반환합니다.
//
// 반환된 Closer 는 종료 시점에 반드시 닫아야 합니다.
func Setup(opts Options) (io.Closer, error) {
	setupOnce.Do(func() {
		globalCloser, globalSetupErr = setup(logrus.StandardLogger(), opts)
	})

	return globalCloser, globalSetupErr
}

func setup(l *Logger, opts Options) (io.Closer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("유효하지 않은 로그 설정: %w", err)
	}

	level := opts.Level
	if level == 0 {
		level = InfoLevel
	}
	l.SetLevel(level)
	l.SetReportCaller(opts.ReportCaller)
	l.SetFormatter(&silentFormatter{})
	l.SetOutput(io.Discard)

	dir := opts.Dir
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("로그 디렉토리 생성 실패: %w", err)
	}

	maxSize := opts.MaxSizeMB
	if maxSize == 0 {
		maxSize = defaultMaxSizeMB
	}
	maxBackups := opts.MaxBackups
	if maxBackups == 0 {
		maxBackups = defaultMaxBackups
	}

	newRotating := func(suffix string) *lumberjack.Logger {
		return &lumberjack.Logger{
			Filename:   filepath.Join(dir, opts.Name+suffix+"."+fileExt),
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     opts.MaxAge,
			LocalTime:  true,
		}
	}

	h := &hook{
		formatter: newTextFormatter(opts.CallerPathPrefix),
	}

	mainLogger := newRotating("")
	h.mainWriter = mainLogger
	closers := []io.Closer{mainLogger}

	if opts.EnableCriticalLog {
		criticalLogger := newRotating(".critical")
		h.criticalWriter = criticalLogger
		closers = append(closers, criticalLogger)
	}
	if opts.EnableVerboseLog {
		verboseLogger := newRotating(".verbose")
		h.verboseWriter = verboseLogger
		closers = append(closers, verboseLogger)
	}
	if opts.EnableConsoleLog {
		h.consoleWriter = os.Stdout
	}

	l.AddHook(h)

	c := &closer{closers: closers, hook: h}

	// Fatal 로그로 프로세스가 종료되기 전에 버퍼를 비운다.
	logrus.RegisterExitHandler(func() {
		_ = c.Close()
	})

	return c, nil
}
