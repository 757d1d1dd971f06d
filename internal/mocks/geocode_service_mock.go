package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wanderweave-server/internal/service"
)

// MockGeocodeService is a mock type for the GeocodeService type
type MockGeocodeService struct {
	mock.Mock
}

// GeocodeDestination provides a mock function with given fields: ctx, destination
func (_m *MockGeocodeService) GeocodeDestination(ctx context.Context, destination string) *service.GeocodingResult {
	ret := _m.Called(ctx, destination)

	var r0 *service.GeocodingResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*service.GeocodingResult)
	}
	return r0
}

// NewMockGeocodeService creates a new instance of MockGeocodeService.
// The first argument is typically a *testing.T value.
func NewMockGeocodeService(t interface {
	mock.TestingT
	Helper()
}) *MockGeocodeService {
	m := &MockGeocodeService{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.GeocodeService = (*MockGeocodeService)(nil)
