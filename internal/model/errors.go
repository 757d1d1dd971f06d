package model

import "errors"

// Стандартные ошибки приложения
var (
	// Общие ошибки ресурсов/БД
	ErrNotFound      = errors.New("resource not found")
	ErrStoryNotFound = errors.New("story not found")

	// Пользователи и аутентификация
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")

	// Токены
	ErrTokenInvalid  = errors.New("token is invalid")
	ErrTokenExpired  = errors.New("token has expired")
	ErrTokenNotFound = errors.New("token not found in storage")

	// Генерация сториборда
	ErrGenerationFailed = errors.New("storyboard generation failed")
	ErrNoMemories       = errors.New("at least one memory is required")

	// Подготовка изображений
	ErrImageDecode = errors.New("failed to decode image")
	ErrImageEncode = errors.New("failed to encode image")

	// Персистентность: БД и/или объектное хранилище не сконфигурированы.
	// Сохранение при этом не ошибка, а no-op ("not available").
	ErrStorageNotConfigured = errors.New("persistent storage is not configured")

	// Общие ошибки запросов
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidInput = errors.New("invalid input data")
)
