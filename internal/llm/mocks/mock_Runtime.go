// Package mocks provides test doubles for the llm runtime.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	llm "github.com/sells-group/analyst-cli/internal/llm"
	model "github.com/sells-group/analyst-cli/internal/model"
)

// MockRuntime is a mock type for the Runtime interface.
type MockRuntime struct {
	mock.Mock
}

// Provider provides a mock function with given fields:
func (_m *MockRuntime) Provider() string {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Provider")
	}

	return ret.String(0)
}

// Endpoint provides a mock function with given fields:
func (_m *MockRuntime) Endpoint() string {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Endpoint")
	}

	return ret.String(0)
}

// ListModels provides a mock function with given fields: ctx
func (_m *MockRuntime) ListModels(ctx context.Context) ([]model.ModelDescriptor, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for ListModels")
	}

	var r0 []model.ModelDescriptor
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]model.ModelDescriptor, error)); ok {
		return rf(ctx)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.ModelDescriptor)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// Chat provides a mock function with given fields: ctx, req
func (_m *MockRuntime) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Chat")
	}

	var r0 *llm.ChatResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, llm.ChatRequest) (*llm.ChatResponse, error)); ok {
		return rf(ctx, req)
	}
	if rf, ok := ret.Get(0).(func(context.Context, llm.ChatRequest) *llm.ChatResponse); ok {
		r0 = rf(ctx, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*llm.ChatResponse)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, llm.ChatRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockRuntime creates a new instance of MockRuntime. It also registers a
// testing interface on the mock and a cleanup function to assert the mocks
// expectations.
func NewMockRuntime(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRuntime {
	m := &MockRuntime{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
