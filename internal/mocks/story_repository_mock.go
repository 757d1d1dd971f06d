package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"wanderweave-server/internal/interfaces"
	"wanderweave-server/internal/model"
)

// MockStoryRepository is a mock type for the StoryRepository type
type MockStoryRepository struct {
	mock.Mock
}

// InsertStory provides a mock function with given fields: ctx, story
func (_m *MockStoryRepository) InsertStory(ctx context.Context, story *model.SavedStory) error {
	ret := _m.Called(ctx, story)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *model.SavedStory) error); ok {
		r0 = rf(ctx, story)
	} else {
		r0 = ret.Error(0)
	}
	return r0
}

// ListStoriesByUser provides a mock function with given fields: ctx, userID
func (_m *MockStoryRepository) ListStoriesByUser(ctx context.Context, userID uuid.UUID) ([]model.SavedStory, error) {
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
func (_m *MockStoryRepository) GetStory(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*model.SavedStory, error) {
	ret := _m.Called(ctx, id, userID)

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

// DeleteStory provides a mock function with given fields: ctx, id, userID
func (_m *MockStoryRepository) DeleteStory(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	ret := _m.Called(ctx, id, userID)
	return ret.Error(0)
}

// UpdateResolvedDates provides a mock function with given fields: ctx, id, year, month
func (_m *MockStoryRepository) UpdateResolvedDates(ctx context.Context, id uuid.UUID, year *int, month *int) error {
	ret := _m.Called(ctx, id, year, month)
	return ret.Error(0)
}

// NewMockStoryRepository creates a new instance of MockStoryRepository.
// The first argument is typically a *testing.T value.
func NewMockStoryRepository(t interface {
	mock.TestingT
	Helper()
}) *MockStoryRepository {
	m := &MockStoryRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ interfaces.StoryRepository = (*MockStoryRepository)(nil)
