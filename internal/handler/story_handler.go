package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wanderweave-server/internal/dates"
	"wanderweave-server/internal/imageprep"
	"wanderweave-server/internal/middleware"
	"wanderweave-server/internal/model"
	"wanderweave-server/internal/service"
)

// StoryHandler обслуживает генерацию сторибордов и сохраненные истории.
type StoryHandler struct {
	storyboards service.StoryboardService
	stories     service.StoryService
	preparer    *imageprep.Preparer
	logger      *zap.Logger
}

// NewStoryHandler creates a new StoryHandler.
func NewStoryHandler(storyboards service.StoryboardService, stories service.StoryService, preparer *imageprep.Preparer, logger *zap.Logger) *StoryHandler {
	return &StoryHandler{
		storyboards: storyboards,
		stories:     stories,
		preparer:    preparer,
		logger:      logger.Named("StoryHandler"),
	}
}

// RegisterRoutes регистрирует маршруты историй.
// Генерация дорогая (два AI-вызова), поэтому на нее вешается rate limiter;
// аутентификация там опциональна - анонимы получают сториборд без сохранения.
func (h *StoryHandler) RegisterRoutes(router *gin.Engine, requireAuth, optionalAuth, rateLimit gin.HandlerFunc) {
	router.POST("/api/storyboards", rateLimit, optionalAuth, h.generate)

	stories := router.Group("/api/stories")
	stories.Use(requireAuth)
	{
		stories.GET("", h.list)
		stories.GET("/:id", h.get)
		stories.DELETE("/:id", h.delete)
	}
}

// generate принимает multipart-форму: поля destination/dates/companions,
// файлы photos (по порядку) и параллельные массивы locations/notes.
func (h *StoryHandler) generate(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeBadRequest, Message: "Invalid multipart form: " + err.Error()})
		return
	}

	details := model.TripDetails{
		Destination: strings.TrimSpace(c.PostForm("destination")),
		Dates:       strings.TrimSpace(c.PostForm("dates")),
		Companions:  strings.TrimSpace(c.PostForm("companions")),
	}
	if details.Destination == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeValidation, Message: "Field 'destination' is required"})
		return
	}
	resolved := dates.Resolve(details.Dates)
	details.Year = resolved.Year
	details.Month = resolved.Month

	photos := form.File["photos"]
	if len(photos) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeValidation, Message: "At least one photo is required"})
		return
	}
	if len(photos) > maxMemories {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeValidation, Message: fmt.Sprintf("Too many photos: %d (maximum %d)", len(photos), maxMemories)})
		return
	}

	locations := form.Value["locations"]
	notes := form.Value["notes"]

	memories := make([]model.Memory, 0, len(photos))
	for i, fh := range photos {
		if fh.Size > maxPhotoSizeBytes {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeValidation, Message: fmt.Sprintf("Photo %d exceeds the size limit", i)})
			return
		}

		raw, err := readMultipartFile(fh)
		if err != nil {
			h.logger.Warn("Failed to read uploaded photo", zap.Int("index", i), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeValidation, Message: fmt.Sprintf("Failed to read photo %d", i)})
			return
		}

		// Подготовка: даунскейл и перекодирование в JPEG. Битое изображение
		// терминально для всего запроса.
		prepared, err := h.preparer.Prepare(raw)
		if err != nil {
			if errors.Is(err, model.ErrImageDecode) {
				c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeValidation, Message: fmt.Sprintf("Photo %d is not a valid image", i)})
				return
			}
			handleServiceError(c, err)
			return
		}

		mem := model.Memory{
			ID:       uuid.New().String(),
			Data:     prepared,
			MimeType: "image/jpeg",
		}
		if i < len(locations) {
			mem.Location = locations[i]
		}
		if i < len(notes) {
			mem.Notes = notes[i]
		}
		memories = append(memories, mem)
	}

	data, _, err := h.storyboards.Generate(c.Request.Context(), details, memories)
	if err != nil {
		storyboardsGeneratedTotal.WithLabelValues("error").Inc()
		handleServiceError(c, err)
		return
	}
	storyboardsGeneratedTotal.WithLabelValues("success").Inc()

	resp := generateResponse{Storyboard: data}

	// Сохранение строго best-effort: ошибка не портит сгенерированный результат.
	if userID, ok := middleware.UserIDFromContext(c); ok {
		story, err := h.stories.SaveStory(c.Request.Context(), userID, details, data, memories)
		switch {
		case err == nil:
			resp.Saved = true
			resp.StoryID = &story.ID
			storiesSavedTotal.WithLabelValues("success").Inc()
		case errors.Is(err, model.ErrStorageNotConfigured):
			h.logger.Debug("Story not saved: persistence is not configured")
		default:
			h.logger.Warn("Failed to save story, returning unsaved storyboard", zap.Error(err))
			storiesSavedTotal.WithLabelValues("error").Inc()
		}
	}

	c.JSON(http.StatusOK, resp)
}

// list возвращает истории пользователя. Ошибка чтения деградирует
// до пустого списка, а не до ошибки запроса.
func (h *StoryHandler) list(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Code: ErrCodeTokenInvalid, Message: "Unauthorized"})
		return
	}

	stories, err := h.stories.ListStories(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list stories, degrading to empty list", zap.Error(err), zap.String("userID", userID.String()))
		c.JSON(http.StatusOK, gin.H{"stories": []storySummary{}})
		return
	}

	summaries := make([]storySummary, 0, len(stories))
	for _, s := range stories {
		summaries = append(summaries, toStorySummary(s))
	}
	c.JSON(http.StatusOK, gin.H{"stories": summaries})
}

func (h *StoryHandler) get(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Code: ErrCodeTokenInvalid, Message: "Unauthorized"})
		return
	}
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeValidation, Message: "Invalid story id"})
		return
	}

	story, data, err := h.stories.GetStory(c.Request.Context(), storyID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, storyDetailResponse{
		storySummary: toStorySummary(*story),
		Storyboard:   *data,
	})
}

// delete удаляет историю. Ошибка возвращается клиенту, чтобы он
// оставил элемент на месте.
func (h *StoryHandler) delete(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Code: ErrCodeTokenInvalid, Message: "Unauthorized"})
		return
	}
	storyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeValidation, Message: "Invalid story id"})
		return
	}

	if err := h.stories.DeleteStory(c.Request.Context(), storyID, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "story deleted"})
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
