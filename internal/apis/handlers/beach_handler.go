package handlers

import (
	"net/http"

	"surf-forecast/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type BeachHandler struct {
	beachService services.BeachService
}

func NewBeachHandler(beachService services.BeachService) *BeachHandler {
	if beachService == nil {
		zap.L().Fatal("Beach service cannot be nil")
	}
	return &BeachHandler{
		beachService: beachService,
	}
}

// @Summary Create beach
// @Description Register a beach for the authenticated user
// @Accept json
// @Produce json
// @Success 201 {object} models.Beach
// @Failure 422 {object} dtos.ErrorResponse
func (h *BeachHandler) Create(c *gin.Context) {
	var req bson.M
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	beach, statusCode, err := h.beachService.Create(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		abortWithError(c, int(statusCode), err)
		return
	}

	c.JSON(int(statusCode), beach)
}

// @Summary List beaches
// @Produce json
// @Success 200 {array} models.Beach
func (h *BeachHandler) List(c *gin.Context) {
	beaches, statusCode, err := h.beachService.ListForUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		abortWithError(c, int(statusCode), err)
		return
	}

	c.JSON(int(statusCode), beaches)
}
