package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderweave-server/internal/service"
)

// GeocodeHandler обслуживает резолв места назначения в координаты.
type GeocodeHandler struct {
	geocoder service.GeocodeService
	logger   *zap.Logger
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(geocoder service.GeocodeService, logger *zap.Logger) *GeocodeHandler {
	return &GeocodeHandler{
		geocoder: geocoder,
		logger:   logger.Named("GeocodeHandler"),
	}
}

// RegisterRoutes регистрирует маршрут геокодинга.
func (h *GeocodeHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/geocode", h.geocode)
}

// geocode возвращает координаты или JSON null, если место не найдено.
func (h *GeocodeHandler) geocode(c *gin.Context) {
	destination := strings.TrimSpace(c.Query("destination"))
	if destination == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeValidation, Message: "Query parameter 'destination' is required"})
		return
	}

	result := h.geocoder.GeocodeDestination(c.Request.Context(), destination)
	c.JSON(http.StatusOK, gin.H{"result": result})
}
