package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"wanderweave-server/internal/model"
)

// StoryboardService превращает набор воспоминаний и описание поездки
// в готовый сториборд: основной текстовый вызов AI плюс необязательная
// декоративная карточка погоды, выполняемые параллельно.
type StoryboardService interface {
	Generate(ctx context.Context, details model.TripDetails, memories []model.Memory) (model.StoryboardData, UsageInfo, error)
}

type storyboardService struct {
	aiClient    AIClient
	sceneImages SceneImageClient
	logger      *zap.Logger
}

var _ StoryboardService = (*storyboardService)(nil)

// NewStoryboardService создает сервис генерации сторибордов.
func NewStoryboardService(aiClient AIClient, sceneImages SceneImageClient, logger *zap.Logger) StoryboardService {
	return &storyboardService{
		aiClient:    aiClient,
		sceneImages: sceneImages,
		logger:      logger.Named("StoryboardService"),
	}
}

// Generate выполняет генерацию. Ошибка текстового вызова фатальна,
// ошибка карточки погоды только логируется.
func (s *storyboardService) Generate(ctx context.Context, details model.TripDetails, memories []model.Memory) (model.StoryboardData, UsageInfo, error) {
	if len(memories) == 0 {
		return model.StoryboardData{}, UsageInfo{}, model.ErrNoMemories
	}

	// Карточка погоды генерируется параллельно с текстом.
	type weatherResult struct {
		image SceneImage
		err   error
	}
	weatherCh := make(chan weatherResult, 1)
	go func() {
		img, err := s.sceneImages.GenerateWeatherCard(ctx, details.Destination, details.Dates)
		weatherCh <- weatherResult{image: img, err: err}
	}()

	prompt := buildStoryboardPrompt(details, memories)
	data, usage, err := s.aiClient.GenerateStoryboard(ctx, prompt, memories, GenerationParams{})
	if err != nil {
		// Дожидаться карточку смысла нет, канал буферизован - горутина не утечет.
		return model.StoryboardData{}, usage, err
	}

	data.Segments = attachMemoryIDs(data.Segments, memories, s.logger)

	weather := <-weatherCh
	if weather.err != nil {
		s.logger.Warn("Weather card generation failed, continuing without it", zap.Error(weather.err))
	} else if len(weather.image.Data) > 0 {
		data.WeatherImageURL = fmt.Sprintf("data:%s;base64,%s",
			weather.image.MimeType, base64.StdEncoding.EncodeToString(weather.image.Data))
	}

	s.logger.Info("Storyboard generated",
		zap.String("destination", details.Destination),
		zap.Int("memories", len(memories)),
		zap.Int("segments", len(data.Segments)),
		zap.Bool("weather_card", data.WeatherImageURL != ""),
		zap.Int("total_tokens", usage.TotalTokens),
	)

	return data, usage, nil
}

// buildStoryboardPrompt собирает текстовую часть мультимодального запроса:
// обзор поездки, требования к JSON и заметки пользователя по индексам.
// Порядок изображений в запросе совпадает с порядком memories.
func buildStoryboardPrompt(details model.TripDetails, memories []model.Memory) string {
	var b strings.Builder

	b.WriteString("You are a world-class travel writer and photographer editor. You create compelling, emotional, and visually aware travel stories.\n\n")
	fmt.Fprintf(&b, "I am providing %d images from a trip.\n\n", len(memories))

	b.WriteString("TRIP OVERVIEW:\n")
	fmt.Fprintf(&b, "- Destination: %s\n", details.Destination)
	fmt.Fprintf(&b, "- Time Period: %s\n", details.Dates)
	fmt.Fprintf(&b, "- Travelers/Context: %s\n\n", details.Companions)

	b.WriteString("For each image, I will provide the user's location notes below.\n")
	b.WriteString("Your task is to create a cohesive travel storyboard JSON.\n")
	b.WriteString("Use the Trip Overview to write a specific and engaging Title and Summary.\n\n")
	b.WriteString("Strictly follow the order of images. The first segment in the JSON must correspond to the first image provided, and so on.\n\n")

	b.WriteString("Respond with a single JSON object of this exact shape:\n")
	b.WriteString(`{"title": "creative catchy title", "summary": "warm evocative summary paragraph", "themeColor": "#RRGGBB dominant color of the trip vibe", "segments": [{"caption": "short punchy caption", "narrative": "2-3 sentence narrative connecting this moment to the journey", "moodColor": "#RRGGBB extracted from the image or mood", "location": "refined location name", "tags": ["3 keywords describing the vibe"], "estimatedTimeOfDay": "e.g. Morning, Sunset, Late Night"}]}`)
	b.WriteString("\nOne segment per image, in order.\n\n")

	b.WriteString("User's Notes per Image Index (0-based):\n")
	for i, mem := range memories {
		fmt.Fprintf(&b, "Image %d: Location Note: %q, Memory Note: %q\n", i, mem.Location, mem.Notes)
	}

	return b.String()
}

// attachMemoryIDs привязывает сегменты к воспоминаниям строго по позиции.
// Лишние сегменты отбрасываются; если модель вернула меньше, привязываем
// сколько есть. Идентификаторы за пределами списка помечаются UnknownMemoryID.
func attachMemoryIDs(segments []model.StorySegment, memories []model.Memory, logger *zap.Logger) []model.StorySegment {
	if len(segments) != len(memories) {
		logger.Warn("Segment count mismatch, attempting best fit mapping",
			zap.Int("segments", len(segments)),
			zap.Int("memories", len(memories)),
		)
	}

	for i := range segments {
		if i < len(memories) {
			segments[i].MemoryID = memories[i].ID
		} else {
			segments[i].MemoryID = model.UnknownMemoryID
		}
	}

	if len(segments) > len(memories) {
		segments = segments[:len(memories)]
	}
	return segments
}
