// Package testutil 여러 패키지의 테스트에서 공유하는 헬퍼를 제공합니다.
package testutil

import (
	"fmt"
	"net"
	"net/http"
	"time"
)

// GetFreePort 테스트용으로 사용 가능한 임의의 포트를 반환합니다.
func GetFreePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port, nil
}

// WaitForServer 서버가 해당 포트에서 리스닝할 때까지 대기합니다.
func WaitForServer(port int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("서버가 %v 안에 시작되지 않았습니다 (port=%d)", timeout, port)
}

// WaitForServerDown 서버가 해당 포트에서 더 이상 연결을 받지 않을 때까지 대기합니다.
func WaitForServerDown(port int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", fmt.Sprintf("localhost:%d", port))
		if err != nil {
			return nil
		}
		conn.Close()
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("서버가 %v 안에 종료되지 않았습니다 (port=%d)", timeout, port)
}

// NewHTTPClient 테스트용 짧은 타임아웃의 HTTP 클라이언트를 반환합니다.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}
