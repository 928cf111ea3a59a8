package mocks

import (
	"context"

	"github.com/darkkaiser/leaf-server/internal/service/contract"
	"github.com/stretchr/testify/mock"
)

// MockAllocStore contract.AllocStore 의 Mock 구현체입니다.
type MockAllocStore struct {
	mock.Mock
}

func (m *MockAllocStore) ListTags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if tags := args.Get(0); tags != nil {
		return tags.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAllocStore) ListAllocations(ctx context.Context) ([]contract.Allocation, error) {
	args := m.Called(ctx)
	if allocs := args.Get(0); allocs != nil {
		return allocs.([]contract.Allocation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAllocStore) AdvanceAndFetch(ctx context.Context, tag string) (contract.Allocation, error) {
	args := m.Called(ctx, tag)
	return args.Get(0).(contract.Allocation), args.Error(1)
}

func (m *MockAllocStore) AdvanceByStepAndFetch(ctx context.Context, tag string, step int64) (contract.Allocation, error) {
	args := m.Called(ctx, tag, step)
	return args.Get(0).(contract.Allocation), args.Error(1)
}

func (m *MockAllocStore) Close() error {
	return m.Called().Error(0)
}
