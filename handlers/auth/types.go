package auth

import (
	"viemind/models"
)

// LoginRequest model for login endpoints
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterRequest model for registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"required,min=2,max=100"`
}

// AuthResponse model for authentication responses
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// MessageResponse is a localized informational message
type MessageResponse struct {
	Message string `json:"message"`
}
