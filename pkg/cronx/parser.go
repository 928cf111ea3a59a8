// Package cronx 애플리케이션 공용 Cron 표현식 파서와 검증 함수를 제공합니다.
package cronx

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// StandardParser 초 단위를 포함하는 6필드 형식과 Descriptor(@every, @daily 등)를 지원하는 파서를 반환합니다.
//
// 예시:
//   - "0 */5 * * * *" : 매 5분 0초
//   - "@every 60s"    : 60초 간격
func StandardParser() cron.Parser {
	return cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Validate 표현식이 StandardParser 로 해석 가능한지 검증합니다.
func Validate(spec string) error {
	if strings.TrimSpace(spec) == "" {
		return fmt.Errorf("cron 표현식이 비어 있습니다")
	}
	if _, err := StandardParser().Parse(spec); err != nil {
		return fmt.Errorf("cron 표현식(%q) 해석 실패: %w", spec, err)
	}
	return nil
}
