package dto

import (
	"time"

	"loadlink_backend/internal/models"
)

// --- Auth requests ---

type RegisterRequest struct {
	Email       string          `json:"email" validate:"required,email"`
	Password    string          `json:"password" validate:"required,min=8"`
	Name        string          `json:"name" validate:"required,min=2,max=100"`
	CompanyName string          `json:"company_name" validate:"omitempty,max=200"`
	Role        models.UserRole `json:"role" validate:"required,oneof=broker carrier"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// --- Auth responses ---

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	CompanyName string            `json:"company_name,omitempty"`
	Role        models.UserRole   `json:"role"`
	Status      models.UserStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		CompanyName: user.CompanyName,
		Role:        user.Role,
		Status:      user.Status,
		CreatedAt:   user.CreatedAt,
	}
}
