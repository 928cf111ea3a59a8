// Package service 장기 실행 컴포넌트(API 서버, ID 생성기 등)가 공유하는 생명주기 인터페이스를 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 애플리케이션과 함께 시작되고 종료되는 컴포넌트입니다.
//
// Start 는 즉시 반환해야 하며, 컴포넌트는 serviceStopCtx 가 취소되면 정리를 마친 뒤
// serviceStopWG.Done() 을 정확히 한 번 호출합니다. 호출 측은 Start 전에 serviceStopWG.Add(1) 을 호출합니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
