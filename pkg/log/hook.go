package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// hook 로그 레벨에 따라 엔트리를 여러 출력 채널로 분배합니다.
//
//   - ERROR 이상: critical + main
//   - INFO, WARN: main
//   - DEBUG 이하: verbose (main 에는 기록하지 않음)
//   - console: 레벨과 무관하게 모두
type hook struct {
	mainWriter     io.Writer
	criticalWriter io.Writer
	verboseWriter  io.Writer
	consoleWriter  io.Writer

	formatter Formatter

	mu     sync.RWMutex
	closed bool
}

func (h *hook) Levels() []Level {
	return AllLevels
}

func (h *hook) Fire(entry *Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	msg, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	if h.consoleWriter != nil {
		if _, err := h.consoleWriter.Write(msg); err != nil {
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-WARN] 표준 출력 쓰기 실패: %v\n", err)
		}
	}

	var firstErr error
	record := func(w io.Writer, channel string) {
		if w == nil {
			return
		}
		if _, err := w.Write(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM-FAILURE] %s 로그 파일 쓰기 실패: %v\n", channel, err)
		}
	}

	if entry.Level <= ErrorLevel {
		record(h.criticalWriter, "Critical")
	}

	if entry.Level >= DebugLevel {
		record(h.verboseWriter, "Verbose")
		return firstErr
	}

	record(h.mainWriter, "Main")

	return firstErr
}

// Close 이후의 로그 기록을 차단합니다. 진행 중인 Fire 호출이 끝날 때까지 대기합니다.
func (h *hook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	return nil
}
