package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wanderweave-server/internal/handler"
	"wanderweave-server/internal/mocks"
	"wanderweave-server/internal/model"
)

func newAuthRouter(t *testing.T, authService *mocks.MockAuthService) *gin.Engine {
	t.Helper()
	router := gin.New()
	handler.NewAuthHandler(authService, zap.NewNop()).RegisterRoutes(router)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("Successful registration", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthService(t)
		userID := uuid.New()
		mockAuth.On("Register", mock.Anything, "traveler@example.com", "correct horse 1", "Traveler").
			Return(&model.User{ID: userID, Email: "traveler@example.com", DisplayName: "Traveler"}, nil).Once()

		rec := postJSON(t, newAuthRouter(t, mockAuth), "/api/auth/register", gin.H{
			"email":        "traveler@example.com",
			"password":     "correct horse 1",
			"display_name": "Traveler",
		}, nil)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, userID.String(), resp["id"])
		assert.Equal(t, "traveler@example.com", resp["email"])
		mockAuth.AssertExpectations(t)
	})

	t.Run("Missing fields", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthService(t)
		rec := postJSON(t, newAuthRouter(t, mockAuth), "/api/auth/register", gin.H{"email": "a@b.c"}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockAuth.AssertNotCalled(t, "Register")
	})

	t.Run("Password without digits rejected", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthService(t)
		rec := postJSON(t, newAuthRouter(t, mockAuth), "/api/auth/register", gin.H{
			"email":    "traveler@example.com",
			"password": "onlyletters",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "letter")
		mockAuth.AssertNotCalled(t, "Register")
	})

	t.Run("Short password rejected", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthService(t)
		rec := postJSON(t, newAuthRouter(t, mockAuth), "/api/auth/register", gin.H{
			"email":    "traveler@example.com",
			"password": "abc1",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockAuth.AssertNotCalled(t, "Register")
	})

	t.Run("Duplicate email maps to 409", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthService(t)
		mockAuth.On("Register", mock.Anything, "traveler@example.com", "correct horse 1", "").
			Return(nil, model.ErrEmailAlreadyExists).Once()

		rec := postJSON(t, newAuthRouter(t, mockAuth), "/api/auth/register", gin.H{
			"email":    "traveler@example.com",
			"password": "correct horse 1",
		}, nil)

		assert.Equal(t, http.StatusConflict, rec.Code)
		var resp handler.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, handler.ErrCodeDuplicateEmail, resp.Code)
	})

	t.Run("Persistence disabled maps to 503", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthService(t)
		mockAuth.On("Register", mock.Anything, "traveler@example.com", "correct horse 1", "").
			Return(nil, model.ErrStorageNotConfigured).Once()

		rec := postJSON(t, newAuthRouter(t, mockAuth), "/api/auth/register", gin.H{
			"email":    "traveler@example.com",
			"password": "correct horse 1",
		}, nil)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("Successful login returns token pair", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthService(t)
		mockAuth.On("Login", mock.Anything, "traveler@example.com", "correct horse 1").
			Return(&model.TokenDetails{
				AccessToken:  "access-jwt",
				RefreshToken: "refresh-jwt",
			}, nil).Once()

		rec := postJSON(t, newAuthRouter(t, mockAuth), "/api/auth/login", gin.H{
			"email":    "traveler@example.com",
			"password": "correct horse 1",
		}, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "access-jwt")
		assert.Contains(t, rec.Body.String(), "refresh-jwt")
	})

	t.Run("Wrong credentials map to 401", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthService(t)
		mockAuth.On("Login", mock.Anything, "traveler@example.com", "wrong").
			Return(nil, model.ErrInvalidCredentials).Once()

		rec := postJSON(t, newAuthRouter(t, mockAuth), "/api/auth/login", gin.H{
			"email":    "traveler@example.com",
			"password": "wrong",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var resp handler.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, handler.ErrCodeWrongCredentials, resp.Code)
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("Refresh rotates tokens", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthService(t)
		mockAuth.On("Refresh", mock.Anything, "old-refresh").
			Return(&model.TokenDetails{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil).Once()

		rec := postJSON(t, newAuthRouter(t, mockAuth), "/api/auth/refresh", gin.H{
			"refresh_token": "old-refresh",
		}, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "new-access")
	})

	t.Run("Revoked token maps to 401", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthService(t)
		mockAuth.On("Refresh", mock.Anything, "revoked").
			Return(nil, model.ErrTokenNotFound).Once()

		rec := postJSON(t, newAuthRouter(t, mockAuth), "/api/auth/refresh", gin.H{
			"refresh_token": "revoked",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Missing refresh token", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthService(t)
		rec := postJSON(t, newAuthRouter(t, mockAuth), "/api/auth/refresh", gin.H{}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockAuth.AssertNotCalled(t, "Refresh")
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("Both tokens passed to the service", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthService(t)
		mockAuth.On("Logout", mock.Anything, "access-jwt", "refresh-jwt").Return(nil).Once()

		rec := postJSON(t, newAuthRouter(t, mockAuth), "/api/auth/logout", gin.H{
			"refresh_token": "refresh-jwt",
		}, map[string]string{"Authorization": "Bearer access-jwt"})

		assert.Equal(t, http.StatusOK, rec.Code)
		mockAuth.AssertExpectations(t)
	})

	t.Run("Logout without body still succeeds", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthService(t)
		mockAuth.On("Logout", mock.Anything, "access-jwt", "").Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer access-jwt")
		rec := httptest.NewRecorder()
		newAuthRouter(t, mockAuth).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
