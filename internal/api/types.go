package api

import (
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest carries the data of a new account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateUserRequest is a partial profile update; empty fields are left unchanged
type UpdateUserRequest struct {
	Email    string `json:"email,omitempty" binding:"omitempty,email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty" binding:"omitempty,min=6"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset with the mailed code
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
	Token    string `json:"token" binding:"required"`
}

// TokenRequest carries a refresh token, for refresh and logout
type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// CreateOrderRequest lists the catalog ids of an order in build order
type CreateOrderRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// envelope is the part common to every API response
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Success      bool           `json:"success"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	User         models.Profile `json:"user"`
}

// RefreshResponse is returned by the token endpoint
type RefreshResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserResponse wraps a profile
type UserResponse struct {
	Success bool           `json:"success"`
	User    models.Profile `json:"user"`
}

// IngredientsResponse wraps the catalog
type IngredientsResponse struct {
	Success bool                `json:"success"`
	Data    []models.Ingredient `json:"data"`
}

// FeedResponse wraps a list of orders with counters
type FeedResponse struct {
	Success bool `json:"success"`
	models.Feed
}

// OrdersResponse wraps an order lookup result
type OrdersResponse struct {
	Success bool           `json:"success"`
	Orders  []models.Order `json:"orders"`
}

// NewOrderResponse wraps a freshly created order
type NewOrderResponse struct {
	Success bool          `json:"success"`
	Name    string        `json:"name"`
	Order   *models.Order `json:"order"`
}

// MessageResponse is a bare acknowledgement
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
