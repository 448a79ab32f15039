// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mouse-blink/ipynb2/internal/domain"
	m "github.com/mouse-blink/ipynb2/internal/model"
)

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

var _ domain.Workflow = (*MockWorkflow)(nil)

// NewMockWorkflow creates a mock that asserts its expectations on cleanup.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	wf := &MockWorkflow{}
	wf.Mock.Test(t)

	t.Cleanup(func() { wf.AssertExpectations(t) })

	return wf
}

// MockWorkflowExpecter records expectations with typed arguments.
type MockWorkflowExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the expecter for this mock.
func (_m *MockWorkflow) EXPECT() *MockWorkflowExpecter {
	return &MockWorkflowExpecter{mock: &_m.Mock}
}

func (_m *MockWorkflow) Collect(ctx context.Context, args domain.CollectArgs) ([]m.NotebookResult, error) {
	ret := _m.Called(ctx, args)

	var results []m.NotebookResult
	if v := ret.Get(0); v != nil {
		results = v.([]m.NotebookResult)
	}

	return results, ret.Error(1)
}

func (_e *MockWorkflowExpecter) Collect(ctx, args interface{}) *mock.Call {
	return _e.mock.On("Collect", ctx, args)
}

func (_m *MockWorkflow) List(ctx context.Context, args domain.CollectArgs) error {
	return _m.Called(ctx, args).Error(0)
}

func (_e *MockWorkflowExpecter) List(ctx, args interface{}) *mock.Call {
	return _e.mock.On("List", ctx, args)
}

func (_m *MockWorkflow) Show(ctx context.Context, args domain.ShowArgs) error {
	return _m.Called(ctx, args).Error(0)
}

func (_e *MockWorkflowExpecter) Show(ctx, args interface{}) *mock.Call {
	return _e.mock.On("Show", ctx, args)
}

func (_m *MockWorkflow) Magics(ctx context.Context, args domain.CollectArgs) error {
	return _m.Called(ctx, args).Error(0)
}

func (_e *MockWorkflowExpecter) Magics(ctx, args interface{}) *mock.Call {
	return _e.mock.On("Magics", ctx, args)
}

func (_m *MockWorkflow) Export(ctx context.Context, args domain.ExportArgs) error {
	return _m.Called(ctx, args).Error(0)
}

func (_e *MockWorkflowExpecter) Export(ctx, args interface{}) *mock.Call {
	return _e.mock.On("Export", ctx, args)
}

func (_m *MockWorkflow) Run(ctx context.Context, args domain.RunArgs) error {
	return _m.Called(ctx, args).Error(0)
}

func (_e *MockWorkflowExpecter) Run(ctx, args interface{}) *mock.Call {
	return _e.mock.On("Run", ctx, args)
}
