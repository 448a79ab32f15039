// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/mouse-blink/ipynb2/internal/adapter"
	m "github.com/mouse-blink/ipynb2/internal/model"
)

// MockSourceFSAdapter is a mock of adapter.SourceFSAdapter.
type MockSourceFSAdapter struct {
	mock.Mock
}

var _ adapter.SourceFSAdapter = (*MockSourceFSAdapter)(nil)

// NewMockSourceFSAdapter creates a mock that asserts its expectations on cleanup.
func NewMockSourceFSAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSourceFSAdapter {
	mockAdapter := &MockSourceFSAdapter{}
	mockAdapter.Mock.Test(t)

	t.Cleanup(func() { mockAdapter.AssertExpectations(t) })

	return mockAdapter
}

// MockSourceFSAdapterExpecter records expectations with typed arguments.
type MockSourceFSAdapterExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the expecter for this mock.
func (_m *MockSourceFSAdapter) EXPECT() *MockSourceFSAdapterExpecter {
	return &MockSourceFSAdapterExpecter{mock: &_m.Mock}
}

func (_m *MockSourceFSAdapter) Get(roots []m.Path, extensions []string) ([]m.Path, error) {
	ret := _m.Called(roots, extensions)

	var paths []m.Path
	if v := ret.Get(0); v != nil {
		paths = v.([]m.Path)
	}

	return paths, ret.Error(1)
}

func (_e *MockSourceFSAdapterExpecter) Get(roots, extensions interface{}) *mock.Call {
	return _e.mock.On("Get", roots, extensions)
}

func (_m *MockSourceFSAdapter) Walk(root m.Path, recursive bool, fn adapter.FilepathWalkFunc) error {
	return _m.Called(root, recursive, fn).Error(0)
}

func (_e *MockSourceFSAdapterExpecter) Walk(root, recursive, fn interface{}) *mock.Call {
	return _e.mock.On("Walk", root, recursive, fn)
}

func (_m *MockSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	ret := _m.Called(path)

	var data []byte
	if v := ret.Get(0); v != nil {
		data = v.([]byte)
	}

	return data, ret.Error(1)
}

func (_e *MockSourceFSAdapterExpecter) ReadFile(path interface{}) *mock.Call {
	return _e.mock.On("ReadFile", path)
}

func (_m *MockSourceFSAdapter) HashFile(path m.Path) (string, error) {
	ret := _m.Called(path)
	return ret.String(0), ret.Error(1)
}

func (_e *MockSourceFSAdapterExpecter) HashFile(path interface{}) *mock.Call {
	return _e.mock.On("HashFile", path)
}

func (_m *MockSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	ret := _m.Called(path)

	var info os.FileInfo
	if v := ret.Get(0); v != nil {
		info = v.(os.FileInfo)
	}

	return info, ret.Error(1)
}

func (_e *MockSourceFSAdapterExpecter) FileInfo(path interface{}) *mock.Call {
	return _e.mock.On("FileInfo", path)
}

func (_m *MockSourceFSAdapter) CreateTempDir(pattern string) (m.Path, error) {
	ret := _m.Called(pattern)
	return ret.Get(0).(m.Path), ret.Error(1)
}

func (_e *MockSourceFSAdapterExpecter) CreateTempDir(pattern interface{}) *mock.Call {
	return _e.mock.On("CreateTempDir", pattern)
}

func (_m *MockSourceFSAdapter) RemoveAll(path m.Path) error {
	return _m.Called(path).Error(0)
}

func (_e *MockSourceFSAdapterExpecter) RemoveAll(path interface{}) *mock.Call {
	return _e.mock.On("RemoveAll", path)
}

func (_m *MockSourceFSAdapter) MkdirAll(path m.Path) error {
	return _m.Called(path).Error(0)
}

func (_e *MockSourceFSAdapterExpecter) MkdirAll(path interface{}) *mock.Call {
	return _e.mock.On("MkdirAll", path)
}

func (_m *MockSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return _m.Called(path, content, perm).Error(0)
}

func (_e *MockSourceFSAdapterExpecter) WriteFile(path, content, perm interface{}) *mock.Call {
	return _e.mock.On("WriteFile", path, content, perm)
}

func (_m *MockSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	ret := _m.Called(base, target)
	return ret.Get(0).(m.Path), ret.Error(1)
}

func (_e *MockSourceFSAdapterExpecter) RelPath(base, target interface{}) *mock.Call {
	return _e.mock.On("RelPath", base, target)
}

func (_m *MockSourceFSAdapter) JoinPath(elem ...string) m.Path {
	args := make([]interface{}, len(elem))
	for i, e := range elem {
		args[i] = e
	}

	return _m.Called(args...).Get(0).(m.Path)
}

func (_e *MockSourceFSAdapterExpecter) JoinPath(elem ...interface{}) *mock.Call {
	return _e.mock.On("JoinPath", elem...)
}
