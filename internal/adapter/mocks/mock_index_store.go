package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/mouse-blink/ipynb2/internal/adapter"
	m "github.com/mouse-blink/ipynb2/internal/model"
)

// MockIndexStore is a mock of adapter.IndexStore.
type MockIndexStore struct {
	mock.Mock
}

var _ adapter.IndexStore = (*MockIndexStore)(nil)

// NewMockIndexStore creates a mock that asserts its expectations on cleanup.
func NewMockIndexStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIndexStore {
	store := &MockIndexStore{}
	store.Mock.Test(t)

	t.Cleanup(func() { store.AssertExpectations(t) })

	return store
}

// MockIndexStoreExpecter records expectations with typed arguments.
type MockIndexStoreExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the expecter for this mock.
func (_m *MockIndexStore) EXPECT() *MockIndexStoreExpecter {
	return &MockIndexStoreExpecter{mock: &_m.Mock}
}

func (_m *MockIndexStore) SaveIndex(dir m.Path, entries []m.ExportEntry) error {
	return _m.Called(dir, entries).Error(0)
}

func (_e *MockIndexStoreExpecter) SaveIndex(dir, entries interface{}) *mock.Call {
	return _e.mock.On("SaveIndex", dir, entries)
}

func (_m *MockIndexStore) LoadIndex(dir m.Path) ([]m.ExportEntry, error) {
	ret := _m.Called(dir)

	var entries []m.ExportEntry
	if v := ret.Get(0); v != nil {
		entries = v.([]m.ExportEntry)
	}

	return entries, ret.Error(1)
}

func (_e *MockIndexStoreExpecter) LoadIndex(dir interface{}) *mock.Call {
	return _e.mock.On("LoadIndex", dir)
}
