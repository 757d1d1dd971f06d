package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wanderweave-server/internal/service"
)

// MockSceneImageClient is a mock type for the SceneImageClient type
type MockSceneImageClient struct {
	mock.Mock
}

// GenerateWeatherCard provides a mock function with given fields: ctx, destination, dates
func (_m *MockSceneImageClient) GenerateWeatherCard(ctx context.Context, destination string, dates string) (service.SceneImage, error) {
	ret := _m.Called(ctx, destination, dates)

	var r0 service.SceneImage
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(service.SceneImage)
	}

	var r1 error
	if err := ret.Error(1); err != nil {
		r1 = err
	}

	return r0, r1
}

// NewMockSceneImageClient creates a new instance of MockSceneImageClient.
// The first argument is typically a *testing.T value.
func NewMockSceneImageClient(t interface {
	mock.TestingT
	Helper()
}) *MockSceneImageClient {
	m := &MockSceneImageClient{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.SceneImageClient = (*MockSceneImageClient)(nil)
