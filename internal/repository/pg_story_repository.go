package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"wanderweave-server/internal/interfaces"
	"wanderweave-server/internal/model"
)

// Compile-time check to ensure pgStoryRepository implements StoryRepository
var _ interfaces.StoryRepository = (*pgStoryRepository)(nil)

type pgStoryRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgStoryRepository creates a new PostgreSQL-backed StoryRepository.
func NewPgStoryRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.StoryRepository {
	return &pgStoryRepository{
		db:     db,
		logger: logger.Named("PgStoryRepo"),
	}
}

// InsertStory inserts a saved story row.
func (r *pgStoryRepository) InsertStory(ctx context.Context, story *model.SavedStory) error {
	query := `
		INSERT INTO stories (id, user_id, title, summary, destination, dates, year, month, theme_color, thumbnail_url, story_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`
	if story.ID == uuid.Nil {
		story.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, query,
		story.ID, story.UserID, story.Title, story.Summary, story.Destination,
		story.Dates, story.Year, story.Month, story.ThemeColor, story.Thumbnail, story.StoryData,
	).Scan(&story.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert story", zap.Error(err), zap.String("userID", story.UserID.String()))
		return fmt.Errorf("failed to insert story: %w", err)
	}
	r.logger.Info("Story saved", zap.String("storyID", story.ID.String()), zap.String("userID", story.UserID.String()))
	return nil
}

const storyColumns = `id, user_id, title, summary, destination, dates, year, month, theme_color, thumbnail_url, story_data, created_at`

func scanStory(row pgx.Row, story *model.SavedStory) error {
	return row.Scan(
		&story.ID, &story.UserID, &story.Title, &story.Summary, &story.Destination,
		&story.Dates, &story.Year, &story.Month, &story.ThemeColor, &story.Thumbnail,
		&story.StoryData, &story.CreatedAt,
	)
}

// ListStoriesByUser returns the user's stories, newest first.
func (r *pgStoryRepository) ListStoriesByUser(ctx context.Context, userID uuid.UUID) ([]model.SavedStory, error) {
	query := `SELECT ` + storyColumns + ` FROM stories WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list stories", zap.Error(err), zap.String("userID", userID.String()))
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	defer rows.Close()

	stories := make([]model.SavedStory, 0)
	for rows.Next() {
		var story model.SavedStory
		if err := scanStory(rows, &story); err != nil {
			r.logger.Error("Failed to scan story row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan story row: %w", err)
		}
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate story rows: %w", err)
	}
	return stories, nil
}

// GetStory returns a single story owned by the user.
func (r *pgStoryRepository) GetStory(ctx context.Context, id, userID uuid.UUID) (*model.SavedStory, error) {
	query := `SELECT ` + storyColumns + ` FROM stories WHERE id = $1 AND user_id = $2`
	var story model.SavedStory
	err := scanStory(r.db.QueryRow(ctx, query, id, userID), &story)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStoryNotFound
		}
		r.logger.Error("Failed to get story", zap.Error(err), zap.String("storyID", id.String()))
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	return &story, nil
}

// DeleteStory deletes a story row. Объекты в хранилище не трогаем.
func (r *pgStoryRepository) DeleteStory(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM stories WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete story", zap.Error(err), zap.String("storyID", id.String()))
		return fmt.Errorf("failed to delete story: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrStoryNotFound
	}
	r.logger.Info("Story deleted", zap.String("storyID", id.String()), zap.String("userID", userID.String()))
	return nil
}

// UpdateResolvedDates дописывает год/месяц в запись (backfill старых строк при чтении).
func (r *pgStoryRepository) UpdateResolvedDates(ctx context.Context, id uuid.UUID, year, month *int) error {
	query := `UPDATE stories SET year = $2, month = $3 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, year, month); err != nil {
		r.logger.Error("Failed to backfill resolved dates", zap.Error(err), zap.String("storyID", id.String()))
		return fmt.Errorf("failed to backfill resolved dates: %w", err)
	}
	return nil
}
