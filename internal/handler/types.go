package handler

import (
	"time"

	"github.com/google/uuid"

	"wanderweave-server/internal/model"
)

// --- Константы для валидации ---
const (
	minPasswordLength = 8
	maxPasswordLength = 100

	// Лимиты эндпоинта генерации
	maxMemories       = 12
	maxPhotoSizeBytes = 15 << 20 // 15 MiB на файл до подготовки
)

// Коды ошибок в теле ответа.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeWrongCredentials = "WRONG_CREDENTIALS"
	ErrCodeDuplicateEmail   = "DUPLICATE_EMAIL"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeStoryNotFound    = "STORY_NOT_FOUND"
	ErrCodeTokenInvalid     = "TOKEN_INVALID"
	ErrCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrCodeGeneration       = "GENERATION_FAILED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse - стандартная структура ответа об ошибке.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Retryable подсказывает клиенту, что запрос можно повторить с теми же данными.
	Retryable bool `json:"retryable,omitempty"`
}

// --- Auth ---

type registerRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// --- Storyboards ---

// generateResponse - ответ эндпоинта генерации. Saved=false с nil StoryID
// означает, что история не сохранялась (аноним или хранилище недоступно).
type generateResponse struct {
	Storyboard model.StoryboardData `json:"storyboard"`
	Saved      bool                 `json:"saved"`
	StoryID    *uuid.UUID           `json:"storyId,omitempty"`
}

// storySummary - элемент списка историй (без полного сториборда).
type storySummary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	Destination  string    `json:"destination"`
	Dates        string    `json:"dates"`
	Year         *int      `json:"year,omitempty"`
	Month        *int      `json:"month,omitempty"`
	ThemeColor   string    `json:"themeColor"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toStorySummary(s model.SavedStory) storySummary {
	return storySummary{
		ID:           s.ID,
		Title:        s.Title,
		Summary:      s.Summary,
		Destination:  s.Destination,
		Dates:        s.Dates,
		Year:         s.Year,
		Month:        s.Month,
		ThemeColor:   s.ThemeColor,
		ThumbnailURL: s.Thumbnail,
		CreatedAt:    s.CreatedAt,
	}
}

// storyDetailResponse - одна история вместе с полным сторибордом.
type storyDetailResponse struct {
	storySummary
	Storyboard model.StoryboardData `json:"storyboard"`
}
