package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mouse-blink/ipynb2/internal/adapter"
)

// MockTestRunnerAdapter is a mock of adapter.TestRunnerAdapter.
type MockTestRunnerAdapter struct {
	mock.Mock
}

var _ adapter.TestRunnerAdapter = (*MockTestRunnerAdapter)(nil)

// NewMockTestRunnerAdapter creates a mock that asserts its expectations on cleanup.
func NewMockTestRunnerAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTestRunnerAdapter {
	mockAdapter := &MockTestRunnerAdapter{}
	mockAdapter.Mock.Test(t)

	t.Cleanup(func() { mockAdapter.AssertExpectations(t) })

	return mockAdapter
}

// MockTestRunnerAdapterExpecter records expectations with typed arguments.
type MockTestRunnerAdapterExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the expecter for this mock.
func (_m *MockTestRunnerAdapter) EXPECT() *MockTestRunnerAdapterExpecter {
	return &MockTestRunnerAdapterExpecter{mock: &_m.Mock}
}

func (_m *MockTestRunnerAdapter) Run(ctx context.Context, dir string, command []string, target string) (string, error) {
	ret := _m.Called(ctx, dir, command, target)
	return ret.String(0), ret.Error(1)
}

func (_e *MockTestRunnerAdapterExpecter) Run(ctx, dir, command, target interface{}) *mock.Call {
	return _e.mock.On("Run", ctx, dir, command, target)
}
