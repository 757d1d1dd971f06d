package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"wanderweave-server/internal/config"
)

// SceneImage - результат генерации декоративной карточки.
type SceneImage struct {
	Data     []byte
	MimeType string
}

// SceneImageClient генерирует декоративную карточку погоды/атмосферы места.
// Любая ошибка здесь не должна ронять основной запрос: вызывающий код
// логирует ее и продолжает без картинки.
type SceneImageClient interface {
	GenerateWeatherCard(ctx context.Context, destination, dates string) (SceneImage, error)
}

// sceneImageClient реализует SceneImageClient поверх OpenAI-совместимого
// images/generations эндпоинта (Together и подобные).
type sceneImageClient struct {
	client     *openaigo.Client
	httpClient *http.Client
	model      string
	logger     *zap.Logger
}

var _ SceneImageClient = (*sceneImageClient)(nil)

// disabledSceneImageClient возвращается, когда ключ API не задан.
type disabledSceneImageClient struct{}

func (disabledSceneImageClient) GenerateWeatherCard(context.Context, string, string) (SceneImage, error) {
	return SceneImage{}, fmt.Errorf("scene image generation is disabled (no API key)")
}

// NewSceneImageClient создает клиент декоративных изображений.
// При пустом ключе возвращает отключенную реализацию.
func NewSceneImageClient(cfg *config.Config, logger *zap.Logger) SceneImageClient {
	if cfg.ImageAPIKey == "" {
		logger.Info("Scene image generation disabled: IMAGE_API_KEY is not set")
		return disabledSceneImageClient{}
	}

	openaiConfig := openaigo.DefaultConfig(cfg.ImageAPIKey)
	openaiConfig.BaseURL = cfg.ImageBaseURL
	httpClient := &http.Client{Timeout: cfg.ImageTimeout}
	openaiConfig.HTTPClient = httpClient
	client := openaigo.NewClientWithConfig(openaiConfig)

	logger.Info("Scene image client created",
		zap.String("base_url", cfg.ImageBaseURL),
		zap.String("model", cfg.ImageModel),
	)

	return &sceneImageClient{
		client:     client,
		httpClient: httpClient,
		model:      cfg.ImageModel,
		logger:     logger.Named("SceneImageClient"),
	}
}

// weatherCardPrompt описывает изометрическую 3D-карточку города с погодой.
func weatherCardPrompt(destination, dates string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Present a clear, 45° top-down isometric miniature 3D cartoon scene of %s, featuring its most iconic landmarks and architectural elements. ", destination)
	b.WriteString("Use soft, refined textures with realistic PBR materials and gentle, lifelike lighting and shadows. ")
	fmt.Fprintf(&b, "Integrate the typical weather conditions for %s directly into the city environment to create an immersive atmospheric mood.\n", dates)
	b.WriteString("Use a clean, minimalistic composition with a soft, solid-colored background.\n")
	fmt.Fprintf(&b, "At the top-center, render the title %q in large bold text, a prominent weather icon beneath it, then the date %q (small text) and the estimated typical temperature for this time (medium text).\n", destination, dates)
	b.WriteString("All text must be centered with consistent spacing, and may subtly overlap the tops of the buildings.\n")
	b.WriteString("Square 1080x1080 dimension.")
	return b.String()
}

// GenerateWeatherCard запрашивает одну картинку. Предпочитаем b64_json,
// при ответе только с URL скачиваем содержимое сами.
func (c *sceneImageClient) GenerateWeatherCard(ctx context.Context, destination, dates string) (SceneImage, error) {
	startTime := time.Now()

	resp, err := c.client.CreateImage(ctx, openaigo.ImageRequest{
		Model:          c.model,
		Prompt:         weatherCardPrompt(destination, dates),
		N:              1,
		ResponseFormat: openaigo.CreateImageResponseFormatB64JSON,
	})
	duration := time.Since(startTime)

	if err != nil {
		c.logger.Warn("Scene image request failed", zap.Duration("duration", duration), zap.Error(err))
		return SceneImage{}, fmt.Errorf("image API error: %w", err)
	}
	if len(resp.Data) == 0 {
		return SceneImage{}, fmt.Errorf("image API returned no data")
	}

	item := resp.Data[0]
	if item.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return SceneImage{}, fmt.Errorf("invalid b64_json in image response: %w", err)
		}
		c.logger.Debug("Scene image generated (b64)",
			zap.Duration("duration", duration),
			zap.Int("bytes", len(data)),
		)
		return SceneImage{Data: data, MimeType: "image/jpeg"}, nil
	}

	if item.URL != "" {
		return c.fetchImage(ctx, item.URL, duration)
	}

	return SceneImage{}, fmt.Errorf("image API returned neither b64_json nor url")
}

// fetchImage скачивает картинку по URL из ответа API (url-фолбэк).
func (c *sceneImageClient) fetchImage(ctx context.Context, rawURL string, genDuration time.Duration) (SceneImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return SceneImage{}, fmt.Errorf("building image download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SceneImage{}, fmt.Errorf("downloading generated image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SceneImage{}, fmt.Errorf("downloading generated image: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return SceneImage{}, fmt.Errorf("reading generated image body: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}

	c.logger.Debug("Scene image generated (url fallback)",
		zap.Duration("gen_duration", genDuration),
		zap.Int("bytes", len(data)),
	)
	return SceneImage{Data: data, MimeType: mimeType}, nil
}
