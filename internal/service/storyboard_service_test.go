package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wanderweave-server/internal/mocks"
	"wanderweave-server/internal/model"
	"wanderweave-server/internal/service"
)

func testMemories(n int) []model.Memory {
	mems := make([]model.Memory, 0, n)
	for i := 0; i < n; i++ {
		mems = append(mems, model.Memory{
			ID:       string(rune('a' + i)),
			Data:     []byte{0xFF, 0xD8, byte(i)},
			MimeType: "image/jpeg",
			Location: "Place " + string(rune('A'+i)),
			Notes:    "note " + string(rune('a'+i)),
		})
	}
	return mems
}

func segmentsOf(n int) []model.StorySegment {
	segs := make([]model.StorySegment, 0, n)
	for i := 0; i < n; i++ {
		segs = append(segs, model.StorySegment{
			Caption:   "caption",
			Narrative: "narrative",
			MoodColor: "#AABBCC",
		})
	}
	return segs
}

func TestStoryboardService_Generate(t *testing.T) {
	ctx := context.Background()
	details := model.TripDetails{
		Destination: "Lisbon, Portugal",
		Dates:       "March 2024",
		Companions:  "solo trip",
	}

	t.Run("Memory IDs attached positionally", func(t *testing.T) {
		mems := testMemories(3)
		mockAI := mocks.NewMockAIClient(t)
		mockScenes := mocks.NewMockSceneImageClient(t)

		mockAI.On("GenerateStoryboard", ctx, mock.AnythingOfType("string"), mems, service.GenerationParams{}).
			Return(model.StoryboardData{
				Title:      "Lisbon Light",
				Summary:    "A week of tiles and tram bells.",
				ThemeColor: "#E8A13C",
				Segments:   segmentsOf(3),
			}, service.UsageInfo{TotalTokens: 1200}, nil).Once()
		mockScenes.On("GenerateWeatherCard", mock.Anything, details.Destination, details.Dates).
			Return(service.SceneImage{}, errors.New("image backend down")).Once()

		svc := service.NewStoryboardService(mockAI, mockScenes, zap.NewNop())
		data, usage, err := svc.Generate(ctx, details, mems)

		require.NoError(t, err)
		assert.Equal(t, 1200, usage.TotalTokens)
		require.Len(t, data.Segments, 3)
		for i := range data.Segments {
			assert.Equal(t, mems[i].ID, data.Segments[i].MemoryID)
		}
		mockAI.AssertExpectations(t)
		mockScenes.AssertExpectations(t)
	})

	t.Run("Extra segments are truncated to memory count", func(t *testing.T) {
		mems := testMemories(2)
		mockAI := mocks.NewMockAIClient(t)
		mockScenes := mocks.NewMockSceneImageClient(t)

		// Модель вернула 5 сегментов на 2 изображения.
		mockAI.On("GenerateStoryboard", ctx, mock.AnythingOfType("string"), mems, service.GenerationParams{}).
			Return(model.StoryboardData{Title: "t", Segments: segmentsOf(5)}, service.UsageInfo{}, nil).Once()
		mockScenes.On("GenerateWeatherCard", mock.Anything, details.Destination, details.Dates).
			Return(service.SceneImage{}, errors.New("skip")).Once()

		svc := service.NewStoryboardService(mockAI, mockScenes, zap.NewNop())
		data, _, err := svc.Generate(ctx, details, mems)

		require.NoError(t, err)
		require.Len(t, data.Segments, 2)
		for i := range data.Segments {
			assert.Equal(t, mems[i].ID, data.Segments[i].MemoryID)
			assert.NotEqual(t, model.UnknownMemoryID, data.Segments[i].MemoryID)
		}
	})

	t.Run("Fewer segments than memories are kept as is", func(t *testing.T) {
		mems := testMemories(4)
		mockAI := mocks.NewMockAIClient(t)
		mockScenes := mocks.NewMockSceneImageClient(t)

		mockAI.On("GenerateStoryboard", ctx, mock.AnythingOfType("string"), mems, service.GenerationParams{}).
			Return(model.StoryboardData{Title: "t", Segments: segmentsOf(2)}, service.UsageInfo{}, nil).Once()
		mockScenes.On("GenerateWeatherCard", mock.Anything, details.Destination, details.Dates).
			Return(service.SceneImage{}, errors.New("skip")).Once()

		svc := service.NewStoryboardService(mockAI, mockScenes, zap.NewNop())
		data, _, err := svc.Generate(ctx, details, mems)

		require.NoError(t, err)
		require.Len(t, data.Segments, 2)
		assert.Equal(t, mems[0].ID, data.Segments[0].MemoryID)
		assert.Equal(t, mems[1].ID, data.Segments[1].MemoryID)
	})

	t.Run("Weather card success is embedded as data URI", func(t *testing.T) {
		mems := testMemories(1)
		mockAI := mocks.NewMockAIClient(t)
		mockScenes := mocks.NewMockSceneImageClient(t)

		mockAI.On("GenerateStoryboard", ctx, mock.AnythingOfType("string"), mems, service.GenerationParams{}).
			Return(model.StoryboardData{Title: "t", Segments: segmentsOf(1)}, service.UsageInfo{}, nil).Once()
		mockScenes.On("GenerateWeatherCard", mock.Anything, details.Destination, details.Dates).
			Return(service.SceneImage{Data: []byte("png-bytes"), MimeType: "image/png"}, nil).Once()

		svc := service.NewStoryboardService(mockAI, mockScenes, zap.NewNop())
		data, _, err := svc.Generate(ctx, details, mems)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(data.WeatherImageURL, "data:image/png;base64,"))
	})

	t.Run("Weather card failure does not fail generation", func(t *testing.T) {
		mems := testMemories(1)
		mockAI := mocks.NewMockAIClient(t)
		mockScenes := mocks.NewMockSceneImageClient(t)

		mockAI.On("GenerateStoryboard", ctx, mock.AnythingOfType("string"), mems, service.GenerationParams{}).
			Return(model.StoryboardData{Title: "t", Segments: segmentsOf(1)}, service.UsageInfo{}, nil).Once()
		mockScenes.On("GenerateWeatherCard", mock.Anything, details.Destination, details.Dates).
			Return(service.SceneImage{}, errors.New("quota exceeded")).Once()

		svc := service.NewStoryboardService(mockAI, mockScenes, zap.NewNop())
		data, _, err := svc.Generate(ctx, details, mems)

		require.NoError(t, err)
		assert.Empty(t, data.WeatherImageURL)
	})

	t.Run("Text generation failure is fatal", func(t *testing.T) {
		mems := testMemories(2)
		mockAI := mocks.NewMockAIClient(t)
		mockScenes := mocks.NewMockSceneImageClient(t)

		mockAI.On("GenerateStoryboard", ctx, mock.AnythingOfType("string"), mems, service.GenerationParams{}).
			Return(model.StoryboardData{}, service.UsageInfo{}, model.ErrGenerationFailed).Once()
		// Канал буферизован, результат карточки просто выбрасывается.
		mockScenes.On("GenerateWeatherCard", mock.Anything, details.Destination, details.Dates).
			Return(service.SceneImage{}, nil).Maybe()

		svc := service.NewStoryboardService(mockAI, mockScenes, zap.NewNop())
		_, _, err := svc.Generate(ctx, details, mems)

		assert.ErrorIs(t, err, model.ErrGenerationFailed)
	})

	t.Run("Empty memories rejected", func(t *testing.T) {
		mockAI := mocks.NewMockAIClient(t)
		mockScenes := mocks.NewMockSceneImageClient(t)

		svc := service.NewStoryboardService(mockAI, mockScenes, zap.NewNop())
		_, _, err := svc.Generate(ctx, details, nil)

		assert.ErrorIs(t, err, model.ErrNoMemories)
		mockAI.AssertNotCalled(t, "GenerateStoryboard")
	})

	t.Run("Prompt carries trip overview and per image notes", func(t *testing.T) {
		mems := testMemories(2)
		mems[0].Location = "Alfama"
		mems[0].Notes = "first morning"
		mems[1].Location = "Belem"
		mems[1].Notes = "pasteis"

		var captured string
		mockAI := mocks.NewMockAIClient(t)
		mockScenes := mocks.NewMockSceneImageClient(t)

		mockAI.On("GenerateStoryboard", ctx, mock.MatchedBy(func(prompt string) bool {
			captured = prompt
			return true
		}), mems, service.GenerationParams{}).
			Return(model.StoryboardData{Title: "t", Segments: segmentsOf(2)}, service.UsageInfo{}, nil).Once()
		mockScenes.On("GenerateWeatherCard", mock.Anything, details.Destination, details.Dates).
			Return(service.SceneImage{}, errors.New("skip")).Once()

		svc := service.NewStoryboardService(mockAI, mockScenes, zap.NewNop())
		_, _, err := svc.Generate(ctx, details, mems)
		require.NoError(t, err)

		assert.Contains(t, captured, "I am providing 2 images from a trip.")
		assert.Contains(t, captured, "- Destination: Lisbon, Portugal")
		assert.Contains(t, captured, "- Time Period: March 2024")
		assert.Contains(t, captured, "- Travelers/Context: solo trip")
		assert.Contains(t, captured, `Image 0: Location Note: "Alfama", Memory Note: "first morning"`)
		assert.Contains(t, captured, `Image 1: Location Note: "Belem", Memory Note: "pasteis"`)
	})
}
