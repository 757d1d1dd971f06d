package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"wanderweave-server/internal/interfaces"
)

// MockObjectStorage is a mock type for the ObjectStorage type
type MockObjectStorage struct {
	mock.Mock
}

// Upload provides a mock function with given fields: ctx, key, r, size, contentType
func (_m *MockObjectStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	ret := _m.Called(ctx, key, r, size, contentType)

	var r0 string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(string)
	}

	var r1 error
	if err := ret.Error(1); err != nil {
		r1 = err
	}

	return r0, r1
}

// PresignGet provides a mock function with given fields: ctx, key, ttl
func (_m *MockObjectStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	ret := _m.Called(ctx, key, ttl)

	var r0 string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(string)
	}

	var r1 error
	if err := ret.Error(1); err != nil {
		r1 = err
	}

	return r0, r1
}

// NewMockObjectStorage creates a new instance of MockObjectStorage.
// The first argument is typically a *testing.T value.
func NewMockObjectStorage(t interface {
	mock.TestingT
	Helper()
}) *MockObjectStorage {
	m := &MockObjectStorage{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ interfaces.ObjectStorage = (*MockObjectStorage)(nil)
