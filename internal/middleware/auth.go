package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wanderweave-server/internal/model"
)

// ContextUserIDKey - ключ, под которым UserID кладется в контекст Gin.
const ContextUserIDKey = "userID"

// TokenVerifier определяет функцию, которая проверяет строку access-токена и возвращает claims.
// Ошибки: model.ErrTokenInvalid, model.ErrTokenExpired и т.д.
type TokenVerifier func(ctx context.Context, tokenString string) (*model.Claims, error)

// RequireAuth создает middleware, требующее валидный access-токен.
// UserID извлекается из claims и добавляется в контекст запроса.
func RequireAuth(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifyRequest(c, verifier, logger)
		if err != nil {
			status := http.StatusUnauthorized
			msg := "Unauthorized: invalid token"
			switch {
			case errors.Is(err, model.ErrTokenExpired):
				msg = "Unauthorized: token expired"
			case errors.Is(err, model.ErrUnauthorized):
				msg = "Unauthorized: missing token"
			case errors.Is(err, model.ErrTokenInvalid):
				// Сообщение по умолчанию
			default:
				logger.Error("Unexpected token verification error", zap.Error(err))
				status = http.StatusInternalServerError
				msg = "Internal server error during token verification"
			}
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// OptionalAuth создает middleware, которое извлекает UserID при наличии валидного токена,
// но пропускает запрос дальше и без него. Используется эндпоинтом генерации:
// неавторизованные пользователи получают сториборд без сохранения.
func OptionalAuth(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		claims, err := verifyRequest(c, verifier, logger)
		if err != nil {
			// Токен прислали, но он невалиден - считаем запрос анонимным
			logger.Debug("Optional auth token rejected", zap.Error(err))
			c.Next()
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserIDFromContext возвращает UserID, установленный auth middleware.
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func verifyRequest(c *gin.Context, verifier TokenVerifier, logger *zap.Logger) (*model.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, model.ErrUnauthorized
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		logger.Warn("Malformed Authorization header", zap.String("path", c.Request.URL.Path))
		return nil, model.ErrTokenInvalid
	}

	claims, err := verifier(c.Request.Context(), parts[1])
	if err != nil {
		// Логируем начало токена для отладки, не весь токен
		snippet := parts[1]
		if len(snippet) > 10 {
			snippet = snippet[:10] + "..."
		}
		logger.Warn("Token verification failed", zap.Error(err), zap.String("tokenSnippet", snippet))
		return nil, err
	}
	return claims, nil
}
