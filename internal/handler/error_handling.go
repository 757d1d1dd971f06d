package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderweave-server/internal/model"
)

// handleServiceError отображает ошибки сервисного слоя в HTTP статусы
// согласно таксономии: валидация 400, внешняя генерация 502 (retryable),
// остальное по смыслу.
func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp ErrorResponse

	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		errResp = ErrorResponse{Code: ErrCodeWrongCredentials, Message: "Invalid email or password"}
	case errors.Is(err, model.ErrEmailAlreadyExists):
		statusCode = http.StatusConflict
		errResp = ErrorResponse{Code: ErrCodeDuplicateEmail, Message: "Email already exists"}
	case errors.Is(err, model.ErrUserNotFound):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeUserNotFound, Message: "User not found"}
	case errors.Is(err, model.ErrStoryNotFound):
		statusCode = http.StatusNotFound
		errResp = ErrorResponse{Code: ErrCodeStoryNotFound, Message: "Story not found"}
	case errors.Is(err, model.ErrTokenExpired):
		statusCode = http.StatusUnauthorized
		errResp = ErrorResponse{Code: ErrCodeTokenExpired, Message: "Token has expired"}
	case errors.Is(err, model.ErrTokenInvalid), errors.Is(err, model.ErrTokenNotFound):
		statusCode = http.StatusUnauthorized
		errResp = ErrorResponse{Code: ErrCodeTokenInvalid, Message: "Token is invalid (possibly revoked or expired)"}
	case errors.Is(err, model.ErrNoMemories),
		errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrImageDecode),
		errors.Is(err, model.ErrBadRequest):
		statusCode = http.StatusBadRequest
		errResp = ErrorResponse{Code: ErrCodeValidation, Message: err.Error()}
	case errors.Is(err, model.ErrStorageNotConfigured):
		statusCode = http.StatusServiceUnavailable
		errResp = ErrorResponse{Code: ErrCodeInternal, Message: "Persistent storage is not configured on this server"}
	case errors.Is(err, model.ErrGenerationFailed):
		statusCode = http.StatusBadGateway
		errResp = ErrorResponse{Code: ErrCodeGeneration, Message: "Storyboard generation failed, please try again", Retryable: true}
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = ErrorResponse{Code: ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}
