// Package storage реализует доступ к приватному бакету изображений.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"wanderweave-server/internal/config"
	"wanderweave-server/internal/interfaces"
)

// Compile-time check to ensure minioStorage implements ObjectStorage
var _ interfaces.ObjectStorage = (*minioStorage)(nil)

type minioStorage struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewMinioStorage подключается к MinIO и гарантирует существование бакета.
// Бакет остается приватным: наружу отдаются только presigned-ссылки.
func NewMinioStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (interfaces.ObjectStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.MinioBucket, err)
		}
		logger.Info("Bucket created", zap.String("bucket", cfg.MinioBucket))
	}

	return &minioStorage{
		client: client,
		bucket: cfg.MinioBucket,
		logger: logger.Named("MinioStorage"),
	}, nil
}

// Upload сохраняет объект по ключу и возвращает ключ.
func (s *minioStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("Failed to upload object", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload object %q: %w", key, err)
	}
	s.logger.Debug("Object uploaded", zap.String("key", key), zap.Int64("size", info.Size))
	return key, nil
}

// PresignGet выдает временную ссылку на чтение приватного объекта.
func (s *minioStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	if err != nil {
		s.logger.Error("Failed to presign object", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to presign object %q: %w", key, err)
	}
	return u.String(), nil
}
