package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"wanderweave-server/internal/config"
)

// GeocodingResult - координаты места назначения.
type GeocodingResult struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeocodeService резолвит название места в координаты через Nominatim.
// Результат строго best-effort: ненайденное место или ошибка сети дают
// nil без ошибки, и этот отрицательный результат тоже кэшируется.
type GeocodeService interface {
	GeocodeDestination(ctx context.Context, destination string) *GeocodingResult
}

type geocodeService struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	minDelay   time.Duration
	logger     *zap.Logger

	mu          sync.Mutex
	cache       map[string]*GeocodingResult
	lastRequest time.Time
}

var _ GeocodeService = (*geocodeService)(nil)

// NewGeocodeService создает сервис геокодинга.
func NewGeocodeService(cfg *config.Config, logger *zap.Logger) GeocodeService {
	return &geocodeService{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.GeocodeBaseURL,
		userAgent:  cfg.GeocodeUserAgent,
		minDelay:   cfg.GeocodeMinDelay,
		logger:     logger.Named("GeocodeService"),
		cache:      make(map[string]*GeocodingResult),
	}
}

// GeocodeDestination возвращает координаты места или nil.
// Запросы к Nominatim разрежены minDelay согласно их usage policy.
func (s *geocodeService) GeocodeDestination(ctx context.Context, destination string) *GeocodingResult {
	if destination == "" {
		return nil
	}

	// Выдерживаем паузу между внешними запросами. После сна пауза и кэш
	// перепроверяются под мьютексом: параллельные вызовы, заснувшие на одном
	// и том же lastRequest, иначе выстрелили бы пачкой после пробуждения.
	s.mu.Lock()
	for {
		if cached, ok := s.cache[destination]; ok {
			s.mu.Unlock()
			return cached
		}
		wait := s.minDelay - time.Since(s.lastRequest)
		if wait <= 0 {
			break
		}
		s.mu.Unlock()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil
		}
		s.mu.Lock()
	}
	s.lastRequest = time.Now()
	s.mu.Unlock()

	result := s.fetch(ctx, destination)

	s.mu.Lock()
	s.cache[destination] = result
	s.mu.Unlock()
	return result
}

func (s *geocodeService) fetch(ctx context.Context, destination string) *GeocodingResult {
	reqURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", s.baseURL, url.QueryEscape(destination))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		s.logger.Error("Failed to build geocoding request", zap.Error(err))
		return nil
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("Geocoding request failed", zap.String("destination", destination), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("Geocoding request returned unexpected status",
			zap.String("destination", destination),
			zap.Int("status", resp.StatusCode),
		)
		return nil
	}

	var items []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		s.logger.Warn("Failed to decode geocoding response", zap.Error(err))
		return nil
	}
	if len(items) == 0 {
		return nil
	}

	lat, latErr := strconv.ParseFloat(items[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(items[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		s.logger.Warn("Geocoding response contained non-numeric coordinates",
			zap.String("lat", items[0].Lat),
			zap.String("lon", items[0].Lon),
		)
		return nil
	}
	return &GeocodingResult{Lat: lat, Lon: lon}
}
