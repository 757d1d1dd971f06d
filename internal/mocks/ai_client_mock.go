package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wanderweave-server/internal/model"
	"wanderweave-server/internal/service"
)

// MockAIClient is a mock type for the AIClient type
type MockAIClient struct {
	mock.Mock
}

// GenerateStoryboard provides a mock function with given fields: ctx, prompt, memories, params
func (_m *MockAIClient) GenerateStoryboard(ctx context.Context, prompt string, memories []model.Memory, params service.GenerationParams) (model.StoryboardData, service.UsageInfo, error) {
	ret := _m.Called(ctx, prompt, memories, params)

	var r0 model.StoryboardData
	if rf, ok := ret.Get(0).(func(context.Context, string, []model.Memory, service.GenerationParams) model.StoryboardData); ok {
		r0 = rf(ctx, prompt, memories, params)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(model.StoryboardData)
		}
	}

	var r1 service.UsageInfo
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(service.UsageInfo)
	}

	var r2 error
	if err := ret.Error(2); err != nil {
		r2 = err
	}

	return r0, r1, r2
}

// NewMockAIClient creates a new instance of MockAIClient. It also registers a testing interface on the mock.
// The first argument is typically a *testing.T value.
func NewMockAIClient(t interface {
	mock.TestingT
	Helper()
}) *MockAIClient {
	m := &MockAIClient{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.AIClient = (*MockAIClient)(nil)
