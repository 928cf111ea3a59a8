// Package log logrus 기반의 애플리케이션 공용 로깅 기능을 제공합니다.
//
// 각 패키지는 컴포넌트 이름을 상수로 선언하고 WithComponent 계열 함수로 로그를 남깁니다.
//
//	const component = "segment.generator"
//
//	applog.WithComponentAndFields(component, applog.Fields{"tag": tag}).Info("세그먼트 갱신 완료")
package log

import (
	"github.com/sirupsen/logrus"
)

// componentKey 로그 필드에서 컴포넌트 이름을 나타내는 키입니다.
const componentKey = "component"

// WithComponent 컴포넌트 필드가 설정된 로그 엔트리를 반환합니다.
func WithComponent(component string) *Entry {
	return logrus.WithField(componentKey, component)
}

// WithComponentAndFields 컴포넌트 필드와 추가 필드가 설정된 로그 엔트리를 반환합니다.
func WithComponentAndFields(component string, fields Fields) *Entry {
	merged := make(Fields, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged[componentKey] = component

	return logrus.WithFields(merged)
}

// StandardLogger 전역 Logger를 반환합니다.
// 외부 라이브러리(cron, echo)의 로거 어댑터에 연결할 때 사용합니다.
func StandardLogger() *Logger {
	return logrus.StandardLogger()
}

// SetLevel 전역 로그 레벨을 변경합니다.
func SetLevel(level Level) {
	logrus.SetLevel(level)
}

// IsDebugEnabled 현재 로그 레벨에서 Debug 로그가 기록되는지 여부를 반환합니다.
func IsDebugEnabled() bool {
	return logrus.IsLevelEnabled(DebugLevel)
}
