package dtos

import "surf-forecast/internal/models"

type AuthenticateRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the authenticated user with its token next to the user fields.
type AuthResponse struct {
	models.User
	Token string `json:"token"`
}

type MeResponse struct {
	User *models.User `json:"user"`
}

type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}
