package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"wanderweave-server/internal/interfaces"
	"wanderweave-server/internal/model"
)

// MockTokenRepository is a mock type for the TokenRepository type
type MockTokenRepository struct {
	mock.Mock
}

// SetToken provides a mock function with given fields: ctx, userID, td
func (_m *MockTokenRepository) SetToken(ctx context.Context, userID uuid.UUID, td *model.TokenDetails) error {
	ret := _m.Called(ctx, userID, td)
	return ret.Error(0)
}

// GetUserIDByAccessUUID provides a mock function with given fields: ctx, accessUUID
func (_m *MockTokenRepository) GetUserIDByAccessUUID(ctx context.Context, accessUUID string) (uuid.UUID, error) {
	ret := _m.Called(ctx, accessUUID)

	var r0 uuid.UUID
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(uuid.UUID)
	}

	var r1 error
	if err := ret.Error(1); err != nil {
		r1 = err
	}
	return r0, r1
}

// GetUserIDByRefreshUUID provides a mock function with given fields: ctx, refreshUUID
func (_m *MockTokenRepository) GetUserIDByRefreshUUID(ctx context.Context, refreshUUID string) (uuid.UUID, error) {
	ret := _m.Called(ctx, refreshUUID)

	var r0 uuid.UUID
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(uuid.UUID)
	}

	var r1 error
	if err := ret.Error(1); err != nil {
		r1 = err
	}
	return r0, r1
}

// DeleteToken provides a mock function with given fields: ctx, accessUUID, refreshUUID
func (_m *MockTokenRepository) DeleteToken(ctx context.Context, accessUUID string, refreshUUID string) error {
	ret := _m.Called(ctx, accessUUID, refreshUUID)
	return ret.Error(0)
}

// NewMockTokenRepository creates a new instance of MockTokenRepository.
// The first argument is typically a *testing.T value.
func NewMockTokenRepository(t interface {
	mock.TestingT
	Helper()
}) *MockTokenRepository {
	m := &MockTokenRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ interfaces.TokenRepository = (*MockTokenRepository)(nil)
