// Package mocks provides testify mocks for the controller interfaces.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/mouse-blink/ipynb2/internal/controller"
	m "github.com/mouse-blink/ipynb2/internal/model"
)

// MockUI is a mock of controller.UI.
type MockUI struct {
	mock.Mock
}

var _ controller.UI = (*MockUI)(nil)

// NewMockUI creates a mock that asserts its expectations on cleanup.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	ui := &MockUI{}
	ui.Mock.Test(t)

	t.Cleanup(func() { ui.AssertExpectations(t) })

	return ui
}

// MockUIExpecter records expectations with typed arguments.
type MockUIExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the expecter for this mock.
func (_m *MockUI) EXPECT() *MockUIExpecter {
	return &MockUIExpecter{mock: &_m.Mock}
}

func (_m *MockUI) Start(options ...controller.StartOption) error {
	return _m.Called().Error(0)
}

// Start matches any options; StartOption values are closures and cannot be compared.
func (_e *MockUIExpecter) Start() *mock.Call {
	return _e.mock.On("Start")
}

func (_m *MockUI) Close() {
	_m.Called()
}

func (_e *MockUIExpecter) Close() *mock.Call {
	return _e.mock.On("Close")
}

func (_m *MockUI) Wait() {
	_m.Called()
}

func (_e *MockUIExpecter) Wait() *mock.Call {
	return _e.mock.On("Wait")
}

func (_m *MockUI) DisplayCollection(results []m.NotebookResult) error {
	return _m.Called(results).Error(0)
}

func (_e *MockUIExpecter) DisplayCollection(results interface{}) *mock.Call {
	return _e.mock.On("DisplayCollection", results)
}

func (_m *MockUI) DisplayModule(module m.Module) error {
	return _m.Called(module).Error(0)
}

func (_e *MockUIExpecter) DisplayModule(module interface{}) *mock.Call {
	return _e.mock.On("DisplayModule", module)
}

func (_m *MockUI) DisplayMagics(reports []m.MagicReport) error {
	return _m.Called(reports).Error(0)
}

func (_e *MockUIExpecter) DisplayMagics(reports interface{}) *mock.Call {
	return _e.mock.On("DisplayMagics", reports)
}

func (_m *MockUI) DisplayExport(dir m.Path, entries []m.ExportEntry) error {
	return _m.Called(dir, entries).Error(0)
}

func (_e *MockUIExpecter) DisplayExport(dir, entries interface{}) *mock.Call {
	return _e.mock.On("DisplayExport", dir, entries)
}

func (_m *MockUI) DisplayConcurrencyInfo(workers int, shardIndex int, shardCount int) {
	_m.Called(workers, shardIndex, shardCount)
}

func (_e *MockUIExpecter) DisplayConcurrencyInfo(workers, shardIndex, shardCount interface{}) *mock.Call {
	return _e.mock.On("DisplayConcurrencyInfo", workers, shardIndex, shardCount)
}

func (_m *MockUI) DisplayUpcomingRuns(count int) {
	_m.Called(count)
}

func (_e *MockUIExpecter) DisplayUpcomingRuns(count interface{}) *mock.Call {
	return _e.mock.On("DisplayUpcomingRuns", count)
}

func (_m *MockUI) DisplayStartingRun(addr m.CellAddress, workerID int) {
	_m.Called(addr, workerID)
}

func (_e *MockUIExpecter) DisplayStartingRun(addr, workerID interface{}) *mock.Call {
	return _e.mock.On("DisplayStartingRun", addr, workerID)
}

func (_m *MockUI) DisplayCompletedRun(result m.RunResult) {
	_m.Called(result)
}

func (_e *MockUIExpecter) DisplayCompletedRun(result interface{}) *mock.Call {
	return _e.mock.On("DisplayCompletedRun", result)
}
