package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"solo_legend/saves"
	"solo_legend/story"
)

// MockPersistence is a mock type for the saves.Persistence type
type MockPersistence struct {
	mock.Mock
}

// Load provides a mock function with given fields: ctx
func (_m *MockPersistence) Load(ctx context.Context) ([]story.GameSave, error) {
	ret := _m.Called(ctx)

	var r0 []story.GameSave
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]story.GameSave)
	}

	return r0, ret.Error(1)
}

// Save provides a mock function with given fields: ctx, list
func (_m *MockPersistence) Save(ctx context.Context, list []story.GameSave) error {
	ret := _m.Called(ctx, list)
	return ret.Error(0)
}

// NewMockPersistence creates a new instance of MockPersistence. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockPersistence(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPersistence {
	m := &MockPersistence{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ saves.Persistence = (*MockPersistence)(nil)
