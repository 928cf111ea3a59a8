package middleware

import (
	"io"

	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// Logger echo.Logger 인터페이스를 애플리케이션 로거(logrus)로 연결하는 어댑터입니다.
//
// Echo 내부 로그(서버 시작 실패, 라우터 경고 등)도 애플리케이션 로그와 같은 형식과 출력 대상을 사용하게 됩니다.
type Logger struct {
	*applog.Logger
}

var _ echo.Logger = Logger{}

// levelMapping Echo 로그 레벨과 애플리케이션 로그 레벨의 대응표
var levelMapping = []struct {
	echo log.Lvl
	app  applog.Level
}{
	{log.DEBUG, applog.DebugLevel},
	{log.INFO, applog.InfoLevel},
	{log.WARN, applog.WarnLevel},
	{log.ERROR, applog.ErrorLevel},
}

func (l Logger) Output() io.Writer {
	return l.Logger.Out
}

func (l Logger) SetOutput(w io.Writer) {
	l.Logger.SetOutput(w)
}

// Prefix Echo의 Prefix 기능은 사용하지 않습니다.
func (l Logger) Prefix() string {
	return ""
}

func (l Logger) SetPrefix(string) {}

// Level 애플리케이션 로그 레벨을 Echo 로그 레벨로 변환합니다. 대응하는 레벨이 없으면 OFF 입니다.
func (l Logger) Level() log.Lvl {
	for _, m := range levelMapping {
		if m.app == l.Logger.Level {
			return m.echo
		}
	}
	return log.OFF
}

// SetLevel Echo 로그 레벨을 애플리케이션 로그 레벨로 변환하여 설정합니다. OFF 는 무시합니다.
func (l Logger) SetLevel(lvl log.Lvl) {
	for _, m := range levelMapping {
		if m.echo == lvl {
			l.Logger.SetLevel(m.app)
			return
		}
	}
}

// SetHeader Echo의 Header 기능은 사용하지 않습니다.
func (l Logger) SetHeader(string) {}

func (l Logger) Print(i ...interface{})                    { l.Logger.Print(i...) }
func (l Logger) Printf(format string, args ...interface{}) { l.Logger.Printf(format, args...) }
func (l Logger) Printj(j log.JSON)                         { l.Logger.WithFields(applog.Fields(j)).Print() }

func (l Logger) Debug(i ...interface{})                    { l.Logger.Debug(i...) }
func (l Logger) Debugf(format string, args ...interface{}) { l.Logger.Debugf(format, args...) }
func (l Logger) Debugj(j log.JSON)                         { l.Logger.WithFields(applog.Fields(j)).Debug() }

func (l Logger) Info(i ...interface{})                    { l.Logger.Info(i...) }
func (l Logger) Infof(format string, args ...interface{}) { l.Logger.Infof(format, args...) }
func (l Logger) Infoj(j log.JSON)                         { l.Logger.WithFields(applog.Fields(j)).Info() }

func (l Logger) Warn(i ...interface{})                    { l.Logger.Warn(i...) }
func (l Logger) Warnf(format string, args ...interface{}) { l.Logger.Warnf(format, args...) }
func (l Logger) Warnj(j log.JSON)                         { l.Logger.WithFields(applog.Fields(j)).Warn() }

func (l Logger) Error(i ...interface{})                    { l.Logger.Error(i...) }
func (l Logger) Errorf(format string, args ...interface{}) { l.Logger.Errorf(format, args...) }
func (l Logger) Errorj(j log.JSON)                         { l.Logger.WithFields(applog.Fields(j)).Error() }

func (l Logger) Fatal(i ...interface{})                    { l.Logger.Fatal(i...) }
func (l Logger) Fatalf(format string, args ...interface{}) { l.Logger.Fatalf(format, args...) }
func (l Logger) Fatalj(j log.JSON)                         { l.Logger.WithFields(applog.Fields(j)).Fatal() }

func (l Logger) Panic(i ...interface{})                    { l.Logger.Panic(i...) }
func (l Logger) Panicf(format string, args ...interface{}) { l.Logger.Panicf(format, args...) }
func (l Logger) Panicj(j log.JSON)                         { l.Logger.WithFields(applog.Fields(j)).Panic() }
