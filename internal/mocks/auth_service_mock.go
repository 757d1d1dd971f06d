package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wanderweave-server/internal/model"
	"wanderweave-server/internal/service"
)

// MockAuthService is a mock type for the AuthService type
type MockAuthService struct {
	mock.Mock
}

// Register provides a mock function with given fields: ctx, email, password, displayName
func (_m *MockAuthService) Register(ctx context.Context, email string, password string, displayName string) (*model.User, error) {
	ret := _m.Called(ctx, email, password, displayName)

	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}

	var r1 error
	if err := ret.Error(1); err != nil {
		r1 = err
	}
	return r0, r1
}

// Login provides a mock function with given fields: ctx, email, password
func (_m *MockAuthService) Login(ctx context.Context, email string, password string) (*model.TokenDetails, error) {
	ret := _m.Called(ctx, email, password)

	var r0 *model.TokenDetails
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.TokenDetails)
	}

	var r1 error
	if err := ret.Error(1); err != nil {
		r1 = err
	}
	return r0, r1
}

// Logout provides a mock function with given fields: ctx, accessToken, refreshToken
func (_m *MockAuthService) Logout(ctx context.Context, accessToken string, refreshToken string) error {
	ret := _m.Called(ctx, accessToken, refreshToken)
	return ret.Error(0)
}

// Refresh provides a mock function with given fields: ctx, refreshToken
func (_m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenDetails, error) {
	ret := _m.Called(ctx, refreshToken)

	var r0 *model.TokenDetails
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.TokenDetails)
	}

	var r1 error
	if err := ret.Error(1); err != nil {
		r1 = err
	}
	return r0, r1
}

// VerifyAccessToken provides a mock function with given fields: ctx, tokenString
func (_m *MockAuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*model.Claims, error) {
	ret := _m.Called(ctx, tokenString)

	var r0 *model.Claims
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Claims)
	}

	var r1 error
	if err := ret.Error(1); err != nil {
		r1 = err
	}
	return r0, r1
}

// NewMockAuthService creates a new instance of MockAuthService.
// The first argument is typically a *testing.T value.
func NewMockAuthService(t interface {
	mock.TestingT
	Helper()
}) *MockAuthService {
	m := &MockAuthService{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.AuthService = (*MockAuthService)(nil)
