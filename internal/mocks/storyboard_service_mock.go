package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wanderweave-server/internal/model"
	"wanderweave-server/internal/service"
)

// MockStoryboardService is a mock type for the StoryboardService type
type MockStoryboardService struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, details, memories
func (_m *MockStoryboardService) Generate(ctx context.Context, details model.TripDetails, memories []model.Memory) (model.StoryboardData, service.UsageInfo, error) {
	ret := _m.Called(ctx, details, memories)

	var r0 model.StoryboardData
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(model.StoryboardData)
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

// NewMockStoryboardService creates a new instance of MockStoryboardService.
// The first argument is typically a *testing.T value.
func NewMockStoryboardService(t interface {
	mock.TestingT
	Helper()
}) *MockStoryboardService {
	m := &MockStoryboardService{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.StoryboardService = (*MockStoryboardService)(nil)
