package handlers

import (
	"surf-forecast/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ForecastHandler struct {
	forecastService services.ForecastService
}

func NewForecastHandler(forecastService services.ForecastService) *ForecastHandler {
	if forecastService == nil {
		zap.L().Fatal("Forecast service cannot be nil")
	}
	return &ForecastHandler{
		forecastService: forecastService,
	}
}

// @Summary Forecast
// @Description Forecast for every beach of the authenticated user, grouped by time
// @Produce json
// @Success 200 {array} services.TimeForecast
// @Failure 500 {object} dtos.ErrorResponse
func (h *ForecastHandler) Get(c *gin.Context) {
	forecast, statusCode, err := h.forecastService.ForecastForUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		abortWithError(c, int(statusCode), err)
		return
	}

	c.JSON(int(statusCode), forecast)
}
