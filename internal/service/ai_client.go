package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"wanderweave-server/internal/config"
	"wanderweave-server/internal/model"
)

// Цены за 1М токенов в USD (для оценочной метрики стоимости).
const (
	pricePerMillionInputTokensUSD  = 2.5
	pricePerMillionOutputTokensUSD = 10.0
)

// GenerationParams - параметры генерации. Указатели, чтобы отличить 0/0.0 от отсутствия.
type GenerationParams struct {
	Temperature *float64
	MaxTokens   *int
	TopP        *float64
}

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderweave_ai_requests_total",
			Help: "Total number of requests to the AI API.",
		},
		[]string{"model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderweave_ai_request_duration_seconds",
			Help:    "Histogram of AI API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderweave_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(500, 500, 20),
		},
		[]string{"model"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderweave_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(100, 100, 20),
		},
		[]string{"model"},
	)
	aiEstimatedCostUSD = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderweave_ai_estimated_cost_usd_total",
			Help: "Estimated total cost of AI requests in USD.",
		},
		[]string{"model"},
	)
)

// UsageInfo содержит информацию об использовании токенов и оценочную стоимость.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	EstimatedCostUSD float64
}

// AIClient - интерфейс мультимодальной генерации сториборда.
// Модель получает промт и изображения в том же порядке, что и memories,
// и должна вернуть JSON со строго позиционным списком сегментов.
type AIClient interface {
	GenerateStoryboard(ctx context.Context, prompt string, memories []model.Memory, params GenerationParams) (model.StoryboardData, UsageInfo, error)
}

func calculateCost(promptTokens, completionTokens int) float64 {
	inputCost := float64(promptTokens) * pricePerMillionInputTokensUSD / 1_000_000.0
	outputCost := float64(completionTokens) * pricePerMillionOutputTokensUSD / 1_000_000.0
	return inputCost + outputCost
}

// openAIClient реализует AIClient поверх OpenAI-совместимого API.
type openAIClient struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

var _ AIClient = (*openAIClient)(nil)

// NewAIClient создает мультимодальный AI клиент из конфигурации.
func NewAIClient(cfg *config.Config, logger *zap.Logger) AIClient {
	openaiConfig := openaigo.DefaultConfig(cfg.AIAPIKey)
	openaiConfig.BaseURL = cfg.AIBaseURL
	openaiConfig.HTTPClient = &http.Client{Timeout: cfg.AITimeout}
	client := openaigo.NewClientWithConfig(openaiConfig)
	logger.Info("AI client created",
		zap.String("base_url", cfg.AIBaseURL),
		zap.String("model", cfg.AIModel),
		zap.Duration("timeout", cfg.AITimeout),
	)
	return &openAIClient{
		client: client,
		model:  cfg.AIModel,
		logger: logger.Named("AIClient"),
	}
}

// GenerateStoryboard отправляет один мультимодальный запрос: текстовый промт,
// затем изображения воспоминаний в исходном порядке. Ответ ожидается в виде
// чистого JSON (response_format=json_object).
func (c *openAIClient) GenerateStoryboard(ctx context.Context, prompt string, memories []model.Memory, params GenerationParams) (model.StoryboardData, UsageInfo, error) {
	usageInfo := UsageInfo{}

	if strings.TrimSpace(prompt) == "" {
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return model.StoryboardData{}, usageInfo, fmt.Errorf("%w: empty prompt", model.ErrGenerationFailed)
	}
	if len(memories) == 0 {
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return model.StoryboardData{}, usageInfo, model.ErrNoMemories
	}

	parts := make([]openaigo.ChatMessagePart, 0, len(memories)+1)
	parts = append(parts, openaigo.ChatMessagePart{
		Type: openaigo.ChatMessagePartTypeText,
		Text: prompt,
	})
	for _, m := range memories {
		parts = append(parts, openaigo.ChatMessagePart{
			Type: openaigo.ChatMessagePartTypeImageURL,
			ImageURL: &openaigo.ChatMessageImageURL{
				URL:    fmt.Sprintf("data:%s;base64,%s", m.MimeType, base64.StdEncoding.EncodeToString(m.Data)),
				Detail: openaigo.ImageURLDetailAuto,
			},
		})
	}

	request := openaigo.ChatCompletionRequest{
		Model: c.model,
		Messages: []openaigo.ChatCompletionMessage{
			{
				Role:         openaigo.ChatMessageRoleUser,
				MultiContent: parts,
			},
		},
		ResponseFormat: &openaigo.ChatCompletionResponseFormat{
			Type: openaigo.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: float32Val(params.Temperature),
		MaxTokens:   intVal(params.MaxTokens),
		TopP:        float32Val(params.TopP),
	}

	startTime := time.Now()
	c.logger.Debug("Sending storyboard request to AI",
		zap.String("model", c.model),
		zap.Int("prompt_bytes", len(prompt)),
		zap.Int("images", len(memories)),
	)

	resp, err := c.client.CreateChatCompletion(ctx, request)
	duration := time.Since(startTime)

	if err != nil {
		c.logger.Error("AI API request failed", zap.Duration("duration", duration), zap.Error(err))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		return model.StoryboardData{}, usageInfo, fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Error("AI API returned empty response", zap.Duration("duration", duration))
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error_empty_response"}).Inc()
		return model.StoryboardData{}, usageInfo, fmt.Errorf("%w: empty response", model.ErrGenerationFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": c.model}).Observe(duration.Seconds())

	raw := resp.Choices[0].Message.Content
	c.logger.Debug("AI API response received",
		zap.Duration("duration", duration),
		zap.Int("response_chars", len(raw)),
	)

	usageInfo = c.collectUsage(resp.Usage, prompt, raw)

	data, err := parseStoryboardJSON(raw)
	if err != nil {
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error_parse"}).Inc()
		c.logger.Error("Failed to parse AI response as storyboard JSON", zap.Error(err))
		return model.StoryboardData{}, usageInfo, fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}

	return data, usageInfo, nil
}

// collectUsage собирает UsageInfo из ответа API, а при его отсутствии
// оценивает токены через tiktoken.
func (c *openAIClient) collectUsage(usage openaigo.Usage, prompt, response string) UsageInfo {
	info := UsageInfo{
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	}

	if info.TotalTokens == 0 {
		// API не вернул usage - считаем только текстовую часть промта,
		// токены изображений оценить нечем.
		tke, err := tiktoken.EncodingForModel(c.model)
		if err != nil {
			tke, err = tiktoken.GetEncoding("cl100k_base")
		}
		if err == nil {
			info.PromptTokens = len(tke.Encode(prompt, nil, nil))
			info.CompletionTokens = len(tke.Encode(response, nil, nil))
			info.TotalTokens = info.PromptTokens + info.CompletionTokens
			c.logger.Debug("AI usage estimated via tokenizer",
				zap.Int("prompt_tokens", info.PromptTokens),
				zap.Int("completion_tokens", info.CompletionTokens),
			)
		}
	}

	if info.TotalTokens > 0 {
		aiPromptTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(info.PromptTokens))
		aiCompletionTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(info.CompletionTokens))
		info.EstimatedCostUSD = calculateCost(info.PromptTokens, info.CompletionTokens)
		if info.EstimatedCostUSD > 0 {
			aiEstimatedCostUSD.With(prometheus.Labels{"model": c.model}).Add(info.EstimatedCostUSD)
		}
	}

	return info
}

// parseStoryboardJSON разбирает ответ модели. Некоторые модели заворачивают
// JSON в markdown-блок даже в режиме json_object, поэтому ограда срезается.
func parseStoryboardJSON(raw string) (model.StoryboardData, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var data model.StoryboardData
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return model.StoryboardData{}, fmt.Errorf("invalid JSON in AI response: %w", err)
	}
	if data.Title == "" || data.Segments == nil {
		return model.StoryboardData{}, fmt.Errorf("AI response missing required fields (title, segments)")
	}
	return data, nil
}

// float32Val конвертирует *float64 в float32 (дефолт API при nil).
func float32Val(f64 *float64) float32 {
	if f64 == nil {
		return 1.0
	}
	return float32(*f64)
}

// intVal конвертирует *int в int (0 означает "не установлено").
func intVal(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
