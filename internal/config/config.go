package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	Env        string `envconfig:"ENV" default:"development"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"debug"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	// AI: мультимодальная генерация текста (OpenAI-совместимый API)
	AIAPIKey  string        `envconfig:"AI_API_KEY" required:"true"`
	AIBaseURL string        `envconfig:"AI_BASE_URL" default:"https://api.openai.com/v1"`
	AIModel   string        `envconfig:"AI_MODEL" default:"gpt-4o"`
	AITimeout time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`

	// Генерация декоративной картинки локации (второй сервис, может совпадать с первым).
	// Пустой ключ означает "картинку не просим" - это необязательное улучшение.
	ImageAPIKey  string        `envconfig:"IMAGE_API_KEY"`
	ImageBaseURL string        `envconfig:"IMAGE_BASE_URL" default:"https://api.together.xyz/v1"`
	ImageModel   string        `envconfig:"IMAGE_MODEL" default:"google/flash-image-2.5"`
	ImageTimeout time.Duration `envconfig:"IMAGE_TIMEOUT" default:"60s"`

	// Database (PostgreSQL). Пустой DB_HOST отключает персистентность целиком.
	DBHost     string `envconfig:"DB_HOST"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"wanderweave"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`

	// Объектное хранилище (MinIO / S3-совместимое). Приватный бакет, доступ по signed URL.
	MinioEndpoint  string        `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey string        `envconfig:"MINIO_ACCESS_KEY"`
	MinioSecretKey string        `envconfig:"MINIO_SECRET_KEY"`
	MinioBucket    string        `envconfig:"MINIO_BUCKET" default:"wanderweave-stories"`
	MinioUseSSL    bool          `envconfig:"MINIO_USE_SSL" default:"false"`
	SignedURLTTL   time.Duration `envconfig:"SIGNED_URL_TTL" default:"1h"`

	// Redis (refresh-токены и rate limiter)
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// JWT Settings
	JWTSecret       string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL  time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `envconfig:"JWT_REFRESH_TOKEN_TTL" default:"168h"` // 7 дней

	// Подготовка изображений
	ImageMaxDimension int `envconfig:"IMAGE_MAX_DIMENSION" default:"1920"`
	ImageJPEGQuality  int `envconfig:"IMAGE_JPEG_QUALITY" default:"80"`

	// Геокодинг (Nominatim)
	GeocodeBaseURL   string        `envconfig:"GEOCODE_BASE_URL" default:"https://nominatim.openstreetmap.org"`
	GeocodeUserAgent string        `envconfig:"GEOCODE_USER_AGENT" default:"WanderWeave/1.0"`
	GeocodeMinDelay  time.Duration `envconfig:"GEOCODE_MIN_DELAY" default:"1s"`

	// CORS Settings
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// DatabaseConfigured сообщает, задано ли подключение к PostgreSQL.
func (c *Config) DatabaseConfigured() bool {
	return c.DBHost != ""
}

// ObjectStorageConfigured сообщает, задано ли объектное хранилище.
func (c *Config) ObjectStorageConfigured() bool {
	return c.MinioEndpoint != "" && c.MinioAccessKey != "" && c.MinioSecretKey != ""
}

// DatabaseDSN собирает строку подключения pgx.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig loads configuration from environment variables.
func LoadConfig(envFilePath string) (*Config, error) {
	// .env опционален: в production конфигурация приходит из окружения
	if _, err := os.Stat(envFilePath); err == nil {
		if err := godotenv.Load(envFilePath); err != nil {
			log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	if cfg.ImageMaxDimension <= 0 {
		return nil, fmt.Errorf("IMAGE_MAX_DIMENSION must be positive, got %d", cfg.ImageMaxDimension)
	}
	if cfg.ImageJPEGQuality < 1 || cfg.ImageJPEGQuality > 100 {
		return nil, fmt.Errorf("IMAGE_JPEG_QUALITY must be in [1,100], got %d", cfg.ImageJPEGQuality)
	}

	return &cfg, nil
}
