package mocks

import (
	"context"

	"github.com/darkkaiser/leaf-server/internal/service/contract"
	"github.com/stretchr/testify/mock"
)

// MockIDGenerator contract.IDGenerator 의 Mock 구현체입니다.
type MockIDGenerator struct {
	mock.Mock
}

func (m *MockIDGenerator) Get(ctx context.Context, tag string) (int64, error) {
	args := m.Called(ctx, tag)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIDGenerator) Ready() bool {
	return m.Called().Bool(0)
}

func (m *MockIDGenerator) Snapshot() []contract.BufferSnapshot {
	args := m.Called()
	if snaps := args.Get(0); snaps != nil {
		return snaps.([]contract.BufferSnapshot)
	}
	return nil
}
