package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wanderweave-server/internal/dates"
	"wanderweave-server/internal/interfaces"
	"wanderweave-server/internal/model"
)

// StoryService управляет сохраненными историями: загрузка изображений
// в приватный бакет, запись в БД, выдача с подписанными ссылками.
// Персистентность опциональна: при отсутствии БД или хранилища
// Save возвращает ErrStorageNotConfigured, а List - пустой список.
type StoryService interface {
	SaveStory(ctx context.Context, userID uuid.UUID, details model.TripDetails, data model.StoryboardData, memories []model.Memory) (*model.SavedStory, error)
	ListStories(ctx context.Context, userID uuid.UUID) ([]model.SavedStory, error)
	GetStory(ctx context.Context, id, userID uuid.UUID) (*model.SavedStory, *model.StoryboardData, error)
	DeleteStory(ctx context.Context, id, userID uuid.UUID) error
}

type storyService struct {
	repo         interfaces.StoryRepository
	storage      interfaces.ObjectStorage
	signedURLTTL time.Duration
	logger       *zap.Logger
}

var _ StoryService = (*storyService)(nil)

// NewStoryService создает сервис историй. repo и storage могут быть nil,
// когда соответствующая подсистема не сконфигурирована.
func NewStoryService(repo interfaces.StoryRepository, storage interfaces.ObjectStorage, signedURLTTL time.Duration, logger *zap.Logger) StoryService {
	return &storyService{
		repo:         repo,
		storage:      storage,
		signedURLTTL: signedURLTTL,
		logger:       logger.Named("StoryService"),
	}
}

// SaveStory загружает изображения сегментов и карточку погоды в бакет
// (пути вида {userID}/{storyToken}/{index}.jpg), подменяет в сториборде
// данные на ключи хранилища и пишет строку в stories.
func (s *storyService) SaveStory(ctx context.Context, userID uuid.UUID, details model.TripDetails, data model.StoryboardData, memories []model.Memory) (*model.SavedStory, error) {
	if s.repo == nil || s.storage == nil {
		return nil, model.ErrStorageNotConfigured
	}

	storyToken := uuid.New().String()

	// Работаем с собственной копией сегментов: вызывающий код возвращает
	// исходный сториборд клиенту, ему не нужны ключи хранилища.
	data.Segments = append([]model.StorySegment(nil), data.Segments...)

	memoriesByID := make(map[string]model.Memory, len(memories))
	for _, m := range memories {
		memoriesByID[m.ID] = m
	}

	// Изображения сегментов загружаются параллельно, ключ детерминирован
	// индексом сегмента, поэтому порядок завершения не важен.
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i := range data.Segments {
		mem, ok := memoriesByID[data.Segments[i].MemoryID]
		if !ok {
			// Сегмент без исходного изображения (unknown) сохраняем без файла.
			continue
		}
		key := fmt.Sprintf("%s/%s/%d.jpg", userID, storyToken, i)

		wg.Add(1)
		go func(i int, key string, mem model.Memory) {
			defer wg.Done()
			if _, err := s.storage.Upload(ctx, key, bytes.NewReader(mem.Data), int64(len(mem.Data)), "image/jpeg"); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("uploading segment image %d: %w", i, err)
				}
				mu.Unlock()
				return
			}
			mu.Lock()
			data.Segments[i].ImageURL = key
			mu.Unlock()
		}(i, key, mem)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	// Карточка погоды: ошибка загрузки не фатальна для сохранения.
	if data.WeatherImageURL != "" {
		if raw, mime, ok := decodeDataURI(data.WeatherImageURL); ok {
			key := fmt.Sprintf("%s/%s/weather.jpg", userID, storyToken)
			if _, err := s.storage.Upload(ctx, key, bytes.NewReader(raw), int64(len(raw)), mime); err != nil {
				s.logger.Warn("Failed to upload weather card, story will be saved without it", zap.Error(err))
				data.WeatherImageURL = ""
			} else {
				data.WeatherImageURL = key
			}
		}
	}

	// Миниатюра - всегда изображение первого сегмента.
	thumbnail := ""
	if len(data.Segments) > 0 {
		thumbnail = data.Segments[0].ImageURL
	}

	storyJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshalling storyboard: %w", err)
	}

	resolved := dates.Resolve(details.Dates)
	story := &model.SavedStory{
		UserID:      userID,
		Title:       data.Title,
		Summary:     data.Summary,
		Destination: details.Destination,
		Dates:       details.Dates,
		Year:        resolved.Year,
		Month:       resolved.Month,
		ThemeColor:  data.ThemeColor,
		Thumbnail:   thumbnail,
		StoryData:   storyJSON,
	}
	if err := s.repo.InsertStory(ctx, story); err != nil {
		return nil, fmt.Errorf("inserting story: %w", err)
	}

	s.logger.Info("Story saved",
		zap.String("story_id", story.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("segments", len(data.Segments)),
	)
	return story, nil
}

// ListStories возвращает истории пользователя, новые сверху.
// Миниатюры обмениваются на подписанные ссылки; у старых записей без
// года/месяца значения дописываются из текстового поля дат.
func (s *storyService) ListStories(ctx context.Context, userID uuid.UUID) ([]model.SavedStory, error) {
	if s.repo == nil {
		return []model.SavedStory{}, nil
	}

	stories, err := s.repo.ListStoriesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing stories: %w", err)
	}

	for i := range stories {
		s.backfillResolvedDates(ctx, &stories[i])
		stories[i].Thumbnail = s.presign(ctx, stories[i].Thumbnail)
	}
	return stories, nil
}

// GetStory возвращает историю с полным сторибордом, в котором все ключи
// хранилища заменены на подписанные ссылки.
func (s *storyService) GetStory(ctx context.Context, id, userID uuid.UUID) (*model.SavedStory, *model.StoryboardData, error) {
	if s.repo == nil {
		return nil, nil, model.ErrStoryNotFound
	}

	story, err := s.repo.GetStory(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}
	s.backfillResolvedDates(ctx, story)

	data, err := story.Storyboard()
	if err != nil {
		return nil, nil, fmt.Errorf("decoding stored storyboard %s: %w", id, err)
	}

	for i := range data.Segments {
		data.Segments[i].ImageURL = s.presign(ctx, data.Segments[i].ImageURL)
	}
	data.WeatherImageURL = s.presign(ctx, data.WeatherImageURL)
	story.Thumbnail = s.presign(ctx, story.Thumbnail)

	return story, &data, nil
}

// DeleteStory удаляет историю пользователя. Объекты в бакете не трогаем:
// ссылки на них истекают сами, а бакет чистится жизненным циклом.
func (s *storyService) DeleteStory(ctx context.Context, id, userID uuid.UUID) error {
	if s.repo == nil {
		return model.ErrStoryNotFound
	}
	if err := s.repo.DeleteStory(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("Story deleted",
		zap.String("story_id", id.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

// presign обменивает ключ хранилища на подписанную ссылку.
// Значения, не являющиеся ключами (пустые, data URI, готовые URL),
// возвращаются как есть. Ошибка подписи не фатальна: вернем ключ,
// клиент увидит битую картинку вместо ошибки всего запроса.
func (s *storyService) presign(ctx context.Context, key string) string {
	if key == "" || s.storage == nil ||
		strings.HasPrefix(key, "data:") || strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	url, err := s.storage.PresignGet(ctx, key, s.signedURLTTL)
	if err != nil {
		s.logger.Warn("Failed to presign object", zap.String("key", key), zap.Error(err))
		return key
	}
	return url
}

// backfillResolvedDates дописывает год/месяц в записи, сохраненные до
// появления этих колонок. Ошибка апдейта не мешает чтению.
func (s *storyService) backfillResolvedDates(ctx context.Context, story *model.SavedStory) {
	if story.Year != nil || story.Month != nil || strings.TrimSpace(story.Dates) == "" {
		return
	}
	resolved := dates.Resolve(story.Dates)
	if resolved.Year == nil && resolved.Month == nil {
		return
	}
	story.Year = resolved.Year
	story.Month = resolved.Month
	if err := s.repo.UpdateResolvedDates(ctx, story.ID, resolved.Year, resolved.Month); err != nil {
		s.logger.Warn("Failed to backfill resolved dates", zap.String("story_id", story.ID.String()), zap.Error(err))
	}
}

// decodeDataURI разбирает "data:<mime>;base64,<payload>".
func decodeDataURI(uri string) (data []byte, mimeType string, ok bool) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", false
	}
	meta, payload, found := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return nil, "", false
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", false
	}
	mimeType = strings.TrimSuffix(meta, ";base64")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return raw, mimeType, true
}
