package identity

import (
	"time"

	"github.com/finsuite/backend/internal/domain/identity"
)

// SignUpRequest represents a registration request
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email,max=200" example:"ana@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"s3cret-pass"`
}

// SignInRequest represents a sign-in request
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ana@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned by sign-up and sign-in
type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

func toUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
