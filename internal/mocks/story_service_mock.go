package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"wanderweave-server/internal/model"
	"wanderweave-server/internal/service"
)

// MockStoryService is a mock type for the StoryService type
type MockStoryService struct {
	mock.Mock
}

// SaveStory provides a mock function with given fields: ctx, userID, details, data, memories
func (_m *MockStoryService) SaveStory(ctx context.Context, userID uuid.UUID, details model.TripDetails, data model.StoryboardData, memories []model.Memory) (*model.SavedStory, error) {
	ret := _m.Called(ctx, userID, details, data, memories)

	var r0 *model.SavedStory
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.SavedStory)
	}

	var r1 error
	if err := ret.Error(1); err != nil {
		r1 = err
	}
	return r0, r1
}

// ListStories provides a mock function with given fields: ctx, userID
func (_m *MockStoryService) ListStories(ctx context.Context, userID uuid.UUID) ([]model.SavedStory, error) {
	ret := _m.Called(ctx, userID)

	var r0 []model.SavedStory
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.SavedStory)
	}

	var r1 error
	if err := ret.Error(1); err != nil {
		r1 = err
	}
	return r0, r1
}

// GetStory provides a mock function with given fields: ctx, id, userID
func (_m *MockStoryService) GetStory(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*model.SavedStory, *model.StoryboardData, error) {
	ret := _m.Called(ctx, id, userID)

	var r0 *model.SavedStory
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.SavedStory)
	}

	var r1 *model.StoryboardData
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(*model.StoryboardData)
	}

	var r2 error
	if err := ret.Error(2); err != nil {
		r2 = err
	}
	return r0, r1, r2
}

// DeleteStory provides a mock function with given fields: ctx, id, userID
func (_m *MockStoryService) DeleteStory(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	ret := _m.Called(ctx, id, userID)
	return ret.Error(0)
}

// NewMockStoryService creates a new instance of MockStoryService.
// The first argument is typically a *testing.T value.
func NewMockStoryService(t interface {
	mock.TestingT
	Helper()
}) *MockStoryService {
	m := &MockStoryService{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.StoryService = (*MockStoryService)(nil)
