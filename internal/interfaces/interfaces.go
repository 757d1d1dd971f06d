package interfaces

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"wanderweave-server/internal/model"
)

// DBTX абстрагирует pgxpool.Pool и pgx.Tx, чтобы репозитории
// могли работать как с пулом, так и внутри транзакции.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository определяет операции над пользователями.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// StoryRepository определяет операции над сохраненными историями.
type StoryRepository interface {
	InsertStory(ctx context.Context, story *model.SavedStory) error
	ListStoriesByUser(ctx context.Context, userID uuid.UUID) ([]model.SavedStory, error)
	GetStory(ctx context.Context, id, userID uuid.UUID) (*model.SavedStory, error)
	DeleteStory(ctx context.Context, id, userID uuid.UUID) error
	// UpdateResolvedDates дописывает год/месяц в старые записи (backfill при чтении).
	UpdateResolvedDates(ctx context.Context, id uuid.UUID, year, month *int) error
}

// TokenRepository определяет хранилище refresh/access идентификаторов токенов.
type TokenRepository interface {
	SetToken(ctx context.Context, userID uuid.UUID, td *model.TokenDetails) error
	GetUserIDByAccessUUID(ctx context.Context, accessUUID string) (uuid.UUID, error)
	GetUserIDByRefreshUUID(ctx context.Context, refreshUUID string) (uuid.UUID, error)
	DeleteToken(ctx context.Context, accessUUID, refreshUUID string) error
}

// ObjectStorage определяет операции с приватным бакетом изображений.
type ObjectStorage interface {
	// Upload сохраняет объект по ключу и возвращает ключ.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// PresignGet выдает временную ссылку на чтение приватного объекта.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
