package log

import (
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// silentFormatter 아무 것도 출력하지 않는 포맷터입니다.
// 기본 출력은 io.Discard 로 버리고 실제 포맷팅은 hook 에서 한 번만 수행합니다.
type silentFormatter struct{}

func (f *silentFormatter) Format(_ *Entry) ([]byte, error) {
	return nil, nil
}

// newTextFormatter 파일과 콘솔 출력에 사용할 텍스트 포맷터를 생성합니다.
func newTextFormatter(callerPathPrefix string) *logrus.TextFormatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			function = frame.Function + "(line:" + strconv.Itoa(frame.Line) + ")"
			if callerPathPrefix != "" {
				if cut, found := strings.CutPrefix(function, callerPathPrefix); found {
					function = "..." + cut
				}
			}
			return function, ""
		},
	}
}
