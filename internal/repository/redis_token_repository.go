package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wanderweave-server/internal/interfaces"
	"wanderweave-server/internal/model"
)

// Compile-time check to ensure redisTokenRepository implements TokenRepository
var _ interfaces.TokenRepository = (*redisTokenRepository)(nil)

type redisTokenRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisTokenRepository creates a new Redis-backed TokenRepository.
func NewRedisTokenRepository(client *redis.Client, logger *zap.Logger) interfaces.TokenRepository {
	return &redisTokenRepository{
		client: client,
		logger: logger.Named("RedisTokenRepo"),
	}
}

// SetToken stores token identifiers in Redis:
// access_uuid:{AccessUUID} -> UserID (TTL access-токена)
// refresh_uuid:{RefreshUUID} -> UserID (TTL refresh-токена)
func (r *redisTokenRepository) SetToken(ctx context.Context, userID uuid.UUID, td *model.TokenDetails) error {
	now := time.Now()
	accessTTL := time.Unix(td.AtExpires, 0).Sub(now)
	refreshTTL := time.Unix(td.RtExpires, 0).Sub(now)
	userIDStr := userID.String()

	pipe := r.client.Pipeline()
	pipe.Set(ctx, fmt.Sprintf("access_uuid:%s", td.AccessUUID), userIDStr, accessTTL)
	pipe.Set(ctx, fmt.Sprintf("refresh_uuid:%s", td.RefreshUUID), userIDStr, refreshTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to set token details in redis", zap.Error(err), zap.String("userID", userIDStr))
		return fmt.Errorf("failed to set token details in redis: %w", err)
	}
	r.logger.Debug("Tokens stored in Redis",
		zap.String("userID", userIDStr),
		zap.Duration("accessTTL", accessTTL),
		zap.Duration("refreshTTL", refreshTTL),
	)
	return nil
}

// GetUserIDByAccessUUID resolves the owner of an access token.
// Отсутствующий ключ означает отозванный либо истекший токен.
func (r *redisTokenRepository) GetUserIDByAccessUUID(ctx context.Context, accessUUID string) (uuid.UUID, error) {
	val, err := r.client.Get(ctx, fmt.Sprintf("access_uuid:%s", accessUUID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, model.ErrTokenNotFound
		}
		r.logger.Error("Failed to get access token from redis", zap.Error(err))
		return uuid.Nil, fmt.Errorf("failed to get access token from redis: %w", err)
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		r.logger.Error("Corrupted user id stored for access token", zap.String("value", val), zap.Error(err))
		return uuid.Nil, model.ErrTokenInvalid
	}
	return userID, nil
}

// GetUserIDByRefreshUUID resolves the owner of a refresh token.
// Отсутствующий ключ означает отозванный либо истекший токен.
func (r *redisTokenRepository) GetUserIDByRefreshUUID(ctx context.Context, refreshUUID string) (uuid.UUID, error) {
	val, err := r.client.Get(ctx, fmt.Sprintf("refresh_uuid:%s", refreshUUID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, model.ErrTokenNotFound
		}
		r.logger.Error("Failed to get refresh token from redis", zap.Error(err))
		return uuid.Nil, fmt.Errorf("failed to get refresh token from redis: %w", err)
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		r.logger.Error("Corrupted user id stored for refresh token", zap.String("value", val), zap.Error(err))
		return uuid.Nil, model.ErrTokenInvalid
	}
	return userID, nil
}

// DeleteToken removes both token identifiers (logout / rotation).
func (r *redisTokenRepository) DeleteToken(ctx context.Context, accessUUID, refreshUUID string) error {
	keys := make([]string, 0, 2)
	if accessUUID != "" {
		keys = append(keys, fmt.Sprintf("access_uuid:%s", accessUUID))
	}
	if refreshUUID != "" {
		keys = append(keys, fmt.Sprintf("refresh_uuid:%s", refreshUUID))
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("Failed to delete tokens from redis", zap.Error(err))
		return fmt.Errorf("failed to delete tokens from redis: %w", err)
	}
	return nil
}
