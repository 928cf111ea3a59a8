// Package strutil 로그 출력과 CLI 표시에 사용하는 문자열 유틸리티 함수를 제공합니다.
package strutil

import (
	"fmt"
	"strings"
)

// Integer 모든 정수 타입을 포괄하는 제네릭 인터페이스
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// FormatCommas 숫자를 천 단위 구분 기호(,)가 포함된 문자열로 변환합니다.
// 예: 1234567 -> "1,234,567"
func FormatCommas[T Integer](num T) string {
	str := fmt.Sprintf("%d", num)

	startOffset := 0
	if strings.HasPrefix(str, "-") {
		startOffset = 1
	}

	if len(str)-startOffset <= 3 {
		return str
	}

	var builder strings.Builder

	commaCount := (len(str) - startOffset - 1) / 3
	builder.Grow(len(str) + commaCount)

	if startOffset == 1 {
		builder.WriteByte('-')
		str = str[1:]
	}

	// 첫 번째 그룹 (1~3자리)
	firstGroupLen := len(str) % 3
	if firstGroupLen == 0 {
		firstGroupLen = 3
	}

	builder.WriteString(str[:firstGroupLen])

	for i := firstGroupLen; i < len(str); i += 3 {
		builder.WriteByte(',')
		builder.WriteString(str[i : i+3])
	}

	return builder.String()
}

// SplitAndTrim 주어진 구분자로 문자열을 분리한 후, 각 항목의 앞뒤 공백을 제거하고 빈 문자열을 제외한 슬라이스를 반환합니다.
// 결과가 없거나 입력 문자열이 비어있는 경우 nil을 반환합니다.
// 예: "a, , b,c" (구분자 ",") -> ["a", "b", "c"]
func SplitAndTrim(s, sep string) []string {
	tokens := strings.Split(s, sep)

	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token != "" {
			result = append(result, token)
		}
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

// MaskSensitiveData 민감한 정보를 마스킹합니다.
// 토큰, 키 등의 민감 정보를 안전하게 로깅하기 위해 사용합니다.
func MaskSensitiveData(data string) string {
	if data == "" {
		return ""
	}

	// 3자 이하는 전체 마스킹
	if len(data) <= 3 {
		return "***"
	}

	// 앞 4자만 표시하고 나머지는 마스킹
	if len(data) <= 12 {
		return data[:4] + "***"
	}

	// 긴 토큰은 앞 4자 + 마스킹 + 뒤 4자
	return data[:4] + "***" + data[len(data)-4:]
}
