package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"wanderweave-server/internal/config"
	"wanderweave-server/internal/mocks"
	"wanderweave-server/internal/model"
	"wanderweave-server/internal/service"
)

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "unit-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	cfg := authTestConfig()

	t.Run("Successful registration", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)

		mockUsers.On("CreateUser", ctx, mock.MatchedBy(func(u *model.User) bool {
			assert.Equal(t, "traveler@example.com", u.Email)
			assert.Equal(t, "Traveler", u.DisplayName)
			// В репозиторий уходит bcrypt-хеш, не пароль
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct horse 1")))
			u.ID = uuid.New()
			return true
		})).Return(nil).Once()

		svc := service.NewAuthService(mockUsers, mockTokens, cfg, zap.NewNop())
		user, err := svc.Register(ctx, "  Traveler@Example.COM ", "correct horse 1", "Traveler")

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "traveler@example.com", user.Email)
		mockUsers.AssertExpectations(t)
	})

	t.Run("Invalid email rejected", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)

		svc := service.NewAuthService(mockUsers, mockTokens, cfg, zap.NewNop())
		_, err := svc.Register(ctx, "not-an-email", "correct horse 1", "")

		assert.ErrorIs(t, err, model.ErrInvalidInput)
		mockUsers.AssertNotCalled(t, "CreateUser")
	})

	t.Run("Short password rejected", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)

		svc := service.NewAuthService(mockUsers, mockTokens, cfg, zap.NewNop())
		_, err := svc.Register(ctx, "traveler@example.com", "short1", "")

		assert.ErrorIs(t, err, model.ErrInvalidInput)
		mockUsers.AssertNotCalled(t, "CreateUser")
	})

	t.Run("Duplicate email passed through", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)

		mockUsers.On("CreateUser", ctx, mock.Anything).Return(model.ErrEmailAlreadyExists).Once()

		svc := service.NewAuthService(mockUsers, mockTokens, cfg, zap.NewNop())
		_, err := svc.Register(ctx, "traveler@example.com", "correct horse 1", "")

		assert.ErrorIs(t, err, model.ErrEmailAlreadyExists)
	})

	t.Run("No user repository means storage not configured", func(t *testing.T) {
		mockTokens := mocks.NewMockTokenRepository(t)

		svc := service.NewAuthService(nil, mockTokens, cfg, zap.NewNop())
		_, err := svc.Register(ctx, "traveler@example.com", "correct horse 1", "")

		assert.ErrorIs(t, err, model.ErrStorageNotConfigured)
	})
}

func TestAuthService_LoginAndVerify(t *testing.T) {
	ctx := context.Background()
	cfg := authTestConfig()
	userID := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse 1"), bcrypt.MinCost)
	require.NoError(t, err)
	storedUser := &model.User{
		ID:           userID,
		Email:        "traveler@example.com",
		PasswordHash: string(hash),
	}

	t.Run("Login issues verifiable token pair", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)

		mockUsers.On("GetUserByEmail", ctx, "traveler@example.com").Return(storedUser, nil).Once()
		var savedTd *model.TokenDetails
		mockTokens.On("SetToken", ctx, userID, mock.MatchedBy(func(td *model.TokenDetails) bool {
			savedTd = td
			return true
		})).Return(nil).Once()

		svc := service.NewAuthService(mockUsers, mockTokens, cfg, zap.NewNop())
		td, err := svc.Login(ctx, "Traveler@Example.com", "correct horse 1")

		require.NoError(t, err)
		require.NotNil(t, td)
		assert.NotEmpty(t, td.AccessToken)
		assert.NotEmpty(t, td.RefreshToken)
		assert.NotEqual(t, td.AccessUUID, td.RefreshUUID)
		require.Same(t, td, savedTd)

		// Выданный access-токен проходит верификацию, пока он есть в хранилище.
		mockTokens.On("GetUserIDByAccessUUID", ctx, td.AccessUUID).Return(userID, nil).Once()
		claims, err := svc.VerifyAccessToken(ctx, td.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, td.AccessUUID, claims.ID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)

		mockUsers.On("GetUserByEmail", ctx, "traveler@example.com").Return(storedUser, nil).Once()

		svc := service.NewAuthService(mockUsers, mockTokens, cfg, zap.NewNop())
		_, err := svc.Login(ctx, "traveler@example.com", "wrong password")

		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
		mockTokens.AssertNotCalled(t, "SetToken")
	})

	t.Run("Unknown user maps to invalid credentials", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)

		mockUsers.On("GetUserByEmail", ctx, "nobody@example.com").Return(nil, model.ErrUserNotFound).Once()

		svc := service.NewAuthService(mockUsers, mockTokens, cfg, zap.NewNop())
		_, err := svc.Login(ctx, "nobody@example.com", "correct horse 1")

		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("Revoked access token rejected", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)

		mockUsers.On("GetUserByEmail", ctx, "traveler@example.com").Return(storedUser, nil).Once()
		mockTokens.On("SetToken", ctx, userID, mock.Anything).Return(nil).Once()

		svc := service.NewAuthService(mockUsers, mockTokens, cfg, zap.NewNop())
		td, err := svc.Login(ctx, "traveler@example.com", "correct horse 1")
		require.NoError(t, err)

		mockTokens.On("GetUserIDByAccessUUID", ctx, td.AccessUUID).Return(uuid.Nil, model.ErrTokenNotFound).Once()
		_, err = svc.VerifyAccessToken(ctx, td.AccessToken)
		assert.ErrorIs(t, err, model.ErrTokenInvalid)
	})

	t.Run("Garbage token rejected", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)

		svc := service.NewAuthService(mockUsers, mockTokens, cfg, zap.NewNop())
		_, err := svc.VerifyAccessToken(ctx, "not.a.jwt")

		assert.ErrorIs(t, err, model.ErrTokenInvalid)
		mockTokens.AssertNotCalled(t, "GetUserIDByAccessUUID")
	})

	t.Run("Token signed with another secret rejected", func(t *testing.T) {
		otherCfg := authTestConfig()
		otherCfg.JWTSecret = "different-secret"

		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)
		mockUsers.On("GetUserByEmail", ctx, "traveler@example.com").Return(storedUser, nil).Once()
		mockTokens.On("SetToken", ctx, userID, mock.Anything).Return(nil).Once()

		issuer := service.NewAuthService(mockUsers, mockTokens, otherCfg, zap.NewNop())
		td, err := issuer.Login(ctx, "traveler@example.com", "correct horse 1")
		require.NoError(t, err)

		verifier := service.NewAuthService(mockUsers, mockTokens, cfg, zap.NewNop())
		_, err = verifier.VerifyAccessToken(ctx, td.AccessToken)
		assert.ErrorIs(t, err, model.ErrTokenInvalid)
	})

	t.Run("Expired token maps to ErrTokenExpired", func(t *testing.T) {
		expiredCfg := authTestConfig()
		expiredCfg.AccessTokenTTL = -time.Minute
		expiredCfg.RefreshTokenTTL = time.Hour

		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)
		mockUsers.On("GetUserByEmail", ctx, "traveler@example.com").Return(storedUser, nil).Once()
		mockTokens.On("SetToken", ctx, userID, mock.Anything).Return(nil).Once()

		svc := service.NewAuthService(mockUsers, mockTokens, expiredCfg, zap.NewNop())
		td, err := svc.Login(ctx, "traveler@example.com", "correct horse 1")
		require.NoError(t, err)

		_, err = svc.VerifyAccessToken(ctx, td.AccessToken)
		assert.ErrorIs(t, err, model.ErrTokenExpired)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	cfg := authTestConfig()
	userID := uuid.New()

	login := func(t *testing.T, mockUsers *mocks.MockUserRepository, mockTokens *mocks.MockTokenRepository) (service.AuthService, *model.TokenDetails) {
		t.Helper()
		hash, err := bcrypt.GenerateFromPassword([]byte("correct horse 1"), bcrypt.MinCost)
		require.NoError(t, err)
		mockUsers.On("GetUserByEmail", ctx, "traveler@example.com").
			Return(&model.User{ID: userID, Email: "traveler@example.com", PasswordHash: string(hash)}, nil).Once()
		mockTokens.On("SetToken", ctx, userID, mock.Anything).Return(nil).Once()

		svc := service.NewAuthService(mockUsers, mockTokens, cfg, zap.NewNop())
		td, err := svc.Login(ctx, "traveler@example.com", "correct horse 1")
		require.NoError(t, err)
		return svc, td
	}

	t.Run("Refresh rotates the pair", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)
		svc, td := login(t, mockUsers, mockTokens)

		mockTokens.On("GetUserIDByRefreshUUID", ctx, td.RefreshUUID).Return(userID, nil).Once()
		mockTokens.On("DeleteToken", ctx, "", td.RefreshUUID).Return(nil).Once()
		mockTokens.On("SetToken", ctx, userID, mock.Anything).Return(nil).Once()

		newTd, err := svc.Refresh(ctx, td.RefreshToken)

		require.NoError(t, err)
		assert.NotEqual(t, td.RefreshUUID, newTd.RefreshUUID)
		assert.NotEqual(t, td.AccessUUID, newTd.AccessUUID)
		mockTokens.AssertExpectations(t)
	})

	t.Run("Revoked refresh token", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)
		svc, td := login(t, mockUsers, mockTokens)

		mockTokens.On("GetUserIDByRefreshUUID", ctx, td.RefreshUUID).Return(uuid.Nil, model.ErrTokenNotFound).Once()

		_, err := svc.Refresh(ctx, td.RefreshToken)
		assert.ErrorIs(t, err, model.ErrTokenNotFound)
	})

	t.Run("User ID mismatch", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)
		svc, td := login(t, mockUsers, mockTokens)

		mockTokens.On("GetUserIDByRefreshUUID", ctx, td.RefreshUUID).Return(uuid.New(), nil).Once()

		_, err := svc.Refresh(ctx, td.RefreshToken)
		assert.ErrorIs(t, err, model.ErrTokenInvalid)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	cfg := authTestConfig()
	userID := uuid.New()

	t.Run("Both token identifiers revoked", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)

		hash, err := bcrypt.GenerateFromPassword([]byte("correct horse 1"), bcrypt.MinCost)
		require.NoError(t, err)
		mockUsers.On("GetUserByEmail", ctx, "traveler@example.com").
			Return(&model.User{ID: userID, PasswordHash: string(hash)}, nil).Once()
		mockTokens.On("SetToken", ctx, userID, mock.Anything).Return(nil).Once()

		svc := service.NewAuthService(mockUsers, mockTokens, cfg, zap.NewNop())
		td, err := svc.Login(ctx, "traveler@example.com", "correct horse 1")
		require.NoError(t, err)

		mockTokens.On("DeleteToken", ctx, td.AccessUUID, td.RefreshUUID).Return(nil).Once()
		require.NoError(t, svc.Logout(ctx, td.AccessToken, td.RefreshToken))
		mockTokens.AssertExpectations(t)
	})

	t.Run("Unparseable tokens are a no-op success", func(t *testing.T) {
		mockUsers := mocks.NewMockUserRepository(t)
		mockTokens := mocks.NewMockTokenRepository(t)

		svc := service.NewAuthService(mockUsers, mockTokens, cfg, zap.NewNop())
		require.NoError(t, svc.Logout(ctx, "garbage", "also garbage"))
		mockTokens.AssertNotCalled(t, "DeleteToken")
	})
}
