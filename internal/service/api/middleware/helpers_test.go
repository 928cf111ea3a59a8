package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	applog "github.com/darkkaiser/leaf-server/pkg/log"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// captureLogs 표준 로거의 출력을 JSON 형식으로 buf에 기록하도록 변경하고, 테스트 종료 시 복구합니다.
//
// 주의: 전역 로거 상태를 변경하므로 이 헬퍼를 사용하는 테스트는 t.Parallel()을 사용할 수 없습니다.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	l := applog.StandardLogger()
	prevOut, prevFormatter, prevLevel := l.Out, l.Formatter, l.Level

	buf := new(bytes.Buffer)
	l.SetOutput(buf)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(applog.DebugLevel)

	t.Cleanup(func() {
		l.SetOutput(prevOut)
		l.SetFormatter(prevFormatter)
		l.SetLevel(prevLevel)
	})

	return buf
}

// logEntries buf에 기록된 JSON 로그를 줄 단위로 파싱합니다.
func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())

	return entries
}

// findEntry component가 일치하는 첫 번째 로그를 반환합니다.
func findEntry(t *testing.T, entries []map[string]any, component string) map[string]any {
	t.Helper()

	for _, e := range entries {
		if e["component"] == component {
			return e
		}
	}
	require.Failf(t, "로그를 찾을 수 없습니다", "component=%s", component)
	return nil
}
