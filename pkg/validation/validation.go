// Package validation 설정 파일과 API 입력값 검증에 사용하는 공용 함수를 제공합니다.
package validation

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// hostnameLabelRegex RFC 1123 레이블 형식 (영문, 숫자, 하이픈. 하이픈으로 시작하거나 끝날 수 없음)
var hostnameLabelRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

// tagRegex 비즈니스 태그 형식 (영문, 숫자, '_', '-', '.', 최대 128자)
var tagRegex = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{1,128}$`)

// ValidateCORSOrigin origin 이 '*' 이거나 'Scheme://Host[:Port]' 형식인지 검증합니다.
// 경로, 쿼리, 프래그먼트, 사용자 정보는 허용하지 않습니다.
func ValidateCORSOrigin(origin string) error {
	origin = strings.TrimSpace(origin)
	if origin == "*" {
		return nil
	}
	if origin == "" {
		return fmt.Errorf("CORS Origin은 비어있을 수 없습니다")
	}
	if strings.HasSuffix(origin, "/") {
		return fmt.Errorf("CORS Origin은 '/'로 끝날 수 없습니다 (input=%q)", origin)
	}

	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("CORS Origin이 유효한 URL 형식이 아닙니다 (input=%q): %w", origin, err)
	}

	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("CORS Origin 스키마는 'http' 또는 'https'만 허용됩니다 (input=%q)", origin)
	case u.Path != "":
		return fmt.Errorf("CORS Origin은 경로를 포함할 수 없습니다 (input=%q)", origin)
	case u.RawQuery != "" || u.ForceQuery:
		return fmt.Errorf("CORS Origin은 쿼리를 포함할 수 없습니다 (input=%q)", origin)
	case u.Fragment != "":
		return fmt.Errorf("CORS Origin은 프래그먼트를 포함할 수 없습니다 (input=%q)", origin)
	case u.User != nil:
		return fmt.Errorf("CORS Origin은 사용자 정보를 포함할 수 없습니다 (input=%q)", origin)
	}

	if portStr := u.Port(); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("CORS Origin 포트 번호가 유효하지 않습니다 (input=%q)", origin)
		}
		if err := ValidatePort(port); err != nil {
			return fmt.Errorf("CORS Origin 포트 오류 (input=%q): %w", origin, err)
		}
	}

	if u.Hostname() == "" {
		return fmt.Errorf("CORS Origin에 호스트가 없습니다 (input=%q)", origin)
	}

	return ValidateHostname(u.Hostname())
}

// ValidatePort 포트 번호가 1-65535 범위인지 검증합니다.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("유효한 포트 범위(1-65535)가 아닙니다 (port=%d)", port)
	}
	return nil
}

// ValidateHostname localhost, IP 주소, 또는 RFC 1123 호스트명인지 검증합니다.
func ValidateHostname(host string) error {
	if host == "localhost" || net.ParseIP(host) != nil {
		return nil
	}

	if len(host) > 253 {
		return fmt.Errorf("호스트명은 253자를 초과할 수 없습니다 (len=%d)", len(host))
	}

	labels := strings.Split(host, ".")
	for _, label := range labels {
		if !hostnameLabelRegex.MatchString(label) {
			return fmt.Errorf("호스트명 레이블 형식이 올바르지 않습니다 (label=%q, host=%q)", label, host)
		}
	}

	// 최상위 도메인은 숫자로만 구성될 수 없다.
	if _, err := strconv.Atoi(labels[len(labels)-1]); err == nil {
		return fmt.Errorf("최상위 도메인은 숫자로만 구성될 수 없습니다 (host=%q)", host)
	}

	return nil
}

// ValidateTag 비즈니스 태그 문자열이 허용된 형식인지 검증합니다.
func ValidateTag(tag string) error {
	if !tagRegex.MatchString(tag) {
		return fmt.Errorf("태그 형식이 올바르지 않습니다 (허용: 영문, 숫자, '_', '-', '.', 1-128자): %q", tag)
	}
	return nil
}
