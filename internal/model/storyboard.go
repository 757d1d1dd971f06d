package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// UnknownMemoryID подставляется в сегмент, когда модель вернула больше
// сегментов, чем было передано воспоминаний.
const UnknownMemoryID = "unknown"

// Memory представляет одно воспоминание (фото + заметки), загруженное клиентом.
// Data содержит уже подготовленный JPEG (после даунскейла и перекодирования).
type Memory struct {
	ID       string
	Data     []byte
	MimeType string
	Location string
	Notes    string
}

// TripDetails описывает поездку со слов пользователя.
// Year/Month заполняются детерминированным разбором поля Dates.
type TripDetails struct {
	Destination string `json:"destination"`
	Dates       string `json:"dates"`
	Companions  string `json:"companions"`
	Year        *int   `json:"year,omitempty"`
	Month       *int   `json:"month,omitempty"`
}

// StorySegment — один кадр сториборда, привязанный к конкретному воспоминанию.
type StorySegment struct {
	MemoryID           string   `json:"memoryId"`
	Location           string   `json:"location"`
	Caption            string   `json:"caption"`
	Narrative          string   `json:"narrative"`
	MoodColor          string   `json:"moodColor"`
	Tags               []string `json:"tags"`
	EstimatedTimeOfDay string   `json:"estimatedTimeOfDay,omitempty"`
	ImageURL           string   `json:"imageUrl,omitempty"`
}

// StoryboardData — полный результат генерации сториборда.
type StoryboardData struct {
	Title           string         `json:"title"`
	Summary         string         `json:"summary"`
	ThemeColor      string         `json:"themeColor"`
	Segments        []StorySegment `json:"segments"`
	WeatherImageURL string         `json:"weatherImageUrl,omitempty"`
}

// SavedStory — строка таблицы stories. StoryData хранит полный
// StoryboardData как JSONB; пути к изображениям внутри него заменены
// на ключи объектного хранилища.
type SavedStory struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"user_id" db:"user_id"`
	Title       string          `json:"title" db:"title"`
	Summary     string          `json:"summary" db:"summary"`
	Destination string          `json:"destination" db:"destination"`
	Dates       string          `json:"dates" db:"dates"`
	Year        *int            `json:"year,omitempty" db:"year"`
	Month       *int            `json:"month,omitempty" db:"month"`
	ThemeColor  string          `json:"theme_color" db:"theme_color"`
	Thumbnail   string          `json:"thumbnail_url" db:"thumbnail_url"`
	StoryData   json.RawMessage `json:"story_data" db:"story_data"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// Storyboard декодирует сохраненный JSONB обратно в StoryboardData.
func (s *SavedStory) Storyboard() (StoryboardData, error) {
	var data StoryboardData
	if err := json.Unmarshal(s.StoryData, &data); err != nil {
		return StoryboardData{}, err
	}
	return data, nil
}
