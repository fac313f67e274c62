package handlers

import (
	"net/http"

	"surf-forecast/internal/apis/dtos"
	"surf-forecast/internal/services"
	"surf-forecast/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	if authService == nil {
		zap.L().Fatal("Auth service cannot be nil")
	}
	return &AuthHandler{
		authService: authService,
	}
}

// @Summary Create user
// @Description Signup a new user. The body is stored as sent and checked by the users collection validator.
// @Accept json
// @Produce json
// @Success 201 {object} models.User
// @Failure 409 {object} dtos.ErrorResponse
// @Failure 422 {object} dtos.ErrorResponse
func (h *AuthHandler) Create(c *gin.Context) {
	var req bson.M
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	user, statusCode, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, int(statusCode), err)
		return
	}

	c.JSON(int(statusCode), user)
}

// @Summary Authenticate
// @Description Exchange email and password for a token
// @Accept json
// @Produce json
// @Param authenticateRequest body dtos.AuthenticateRequest true "Credentials"
// @Success 200 {object} dtos.AuthResponse
// @Failure 401 {object} dtos.ErrorResponse
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req dtos.AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	response, statusCode, err := h.authService.Authenticate(c.Request.Context(), &req)
	if err != nil {
		abortWithError(c, int(statusCode), err)
		return
	}

	c.JSON(int(statusCode), response)
}

// @Summary Me
// @Description Get the authenticated user
// @Produce json
// @Success 200 {object} dtos.MeResponse
// @Failure 404 {object} dtos.ErrorResponse
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString("userID")
	user, statusCode, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, int(statusCode), err)
		return
	}

	c.JSON(int(statusCode), dtos.MeResponse{User: user})
}

// @Summary Change password
// @Accept json
// @Produce json
// @Param changePasswordRequest body dtos.ChangePasswordRequest true "New password"
// @Success 200 {object} dtos.MessageResponse
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dtos.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	userID := c.GetString("userID")
	_, statusCode, err := h.authService.ChangePassword(c.Request.Context(), userID, &req)
	if err != nil {
		abortWithError(c, int(statusCode), err)
		return
	}

	c.JSON(int(statusCode), dtos.MessageResponse{Message: "Password updated"})
}

// @Summary Logout
// @Description Revoke the token used for this request
// @Produce json
// @Success 200 {object} dtos.MessageResponse
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString("token")
	value, _ := c.Get("claims")
	claims, ok := value.(*utils.Claims)
	if token == "" || !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dtos.NewErrorResponse(http.StatusUnauthorized, "Token not provided"))
		return
	}

	statusCode, err := h.authService.Logout(c.Request.Context(), token, claims)
	if err != nil {
		abortWithError(c, int(statusCode), err)
		return
	}

	c.JSON(int(statusCode), dtos.MessageResponse{Message: "Successfully logged out"})
}

func abortWithError(c *gin.Context, statusCode int, err error) {
	c.AbortWithStatusJSON(statusCode, dtos.NewErrorResponse(statusCode, err.Error()))
}
