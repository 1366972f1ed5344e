package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"solo_legend/narrator"
)

// MockCollaborator is a mock type for the narrator.Collaborator type
type MockCollaborator struct {
	mock.Mock
}

// GenerateText provides a mock function with given fields: ctx, req
func (_m *MockCollaborator) GenerateText(ctx context.Context, req narrator.TextRequest) (string, error) {
	ret := _m.Called(ctx, req)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, narrator.TextRequest) string); ok {
		r0 = rf(ctx, req)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(string)
	}

	return r0, ret.Error(1)
}

// GenerateImage provides a mock function with given fields: ctx, prompt
func (_m *MockCollaborator) GenerateImage(ctx context.Context, prompt string) (narrator.Image, error) {
	ret := _m.Called(ctx, prompt)

	var r0 narrator.Image
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(narrator.Image)
	}

	return r0, ret.Error(1)
}

// Synthesize provides a mock function with given fields: ctx, req
func (_m *MockCollaborator) Synthesize(ctx context.Context, req narrator.SpeechRequest) ([]byte, error) {
	ret := _m.Called(ctx, req)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	return r0, ret.Error(1)
}

// NewMockCollaborator creates a new instance of MockCollaborator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockCollaborator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCollaborator {
	m := &MockCollaborator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ narrator.Collaborator = (*MockCollaborator)(nil)

// MockKeySelector is a mock type for the narrator.KeySelector type
type MockKeySelector struct {
	mock.Mock
}

// SelectKey provides a mock function with given fields: ctx
func (_m *MockKeySelector) SelectKey(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// NewMockKeySelector creates a new instance of MockKeySelector.
func NewMockKeySelector(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockKeySelector {
	m := &MockKeySelector{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ narrator.KeySelector = (*MockKeySelector)(nil)
