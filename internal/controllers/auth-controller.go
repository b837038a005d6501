package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/api"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/auth"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/middleware"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/services"
)

// TokenIssuer issues, rotates and revokes token pairs
type TokenIssuer interface {
	Issue(ctx context.Context, clientID, clientSecret string, userID uint) (*auth.TokenPair, error)
	Refresh(ctx context.Context, clientID, clientSecret, refresh string) (*auth.TokenPair, error)
	Revoke(ctx context.Context, refresh string) error
}

// AuthController serves account and session endpoints. Tokens are issued
// on behalf of the configured first party client.
type AuthController struct {
	users        services.UserService
	tokens       TokenIssuer
	clientID     string
	clientSecret string
}

func NewAuthController(users services.UserService, tokens TokenIssuer, clientID, clientSecret string) *AuthController {
	return &AuthController{
		users:        users,
		tokens:       tokens,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// Register godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param user body api.RegisterRequest true "New account"
// @Success 200 {object} api.AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.MsgBadRequest)
		return
	}

	user, err := ac.users.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			respondError(c, http.StatusForbidden, models.MsgUserExists)
			return
		}
		log.WithError(err).Error("Registration failed")
		respondError(c, http.StatusInternalServerError, models.MsgInternal)
		return
	}

	ac.respondWithSession(c, user)
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body api.LoginRequest true "Credentials"
// @Success 200 {object} api.AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.MsgBadRequest)
		return
	}

	user, err := ac.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, models.MsgInvalidCredentials)
			return
		}
		log.WithError(err).Error("Login failed")
		respondError(c, http.StatusInternalServerError, models.MsgInternal)
		return
	}

	ac.respondWithSession(c, user)
}

func (ac *AuthController) respondWithSession(c *gin.Context, user *models.User) {
	pair, err := ac.tokens.Issue(c.Request.Context(), ac.clientID, ac.clientSecret, user.ID)
	if err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("Token generation failed")
		respondError(c, http.StatusInternalServerError, models.MsgInternal)
		return
	}

	c.JSON(http.StatusOK, api.AuthResponse{
		Success:      true,
		AccessToken:  "Bearer " + pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user.Profile(),
	})
}

// Token godoc
// @Summary Refresh the token pair
// @Description Trade a refresh token for a new access and refresh token; the old pair is revoked
// @Tags auth
// @Accept json
// @Produce json
// @Param token body api.TokenRequest true "Refresh token"
// @Success 200 {object} api.RefreshResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/auth/token [post]
func (ac *AuthController) Token(c *gin.Context) {
	var req api.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.MsgBadRequest)
		return
	}

	pair, err := ac.tokens.Refresh(c.Request.Context(), ac.clientID, ac.clientSecret, req.Token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefresh) {
			respondError(c, http.StatusUnauthorized, models.MsgInvalidRefresh)
			return
		}
		log.WithError(err).Error("Token refresh failed")
		respondError(c, http.StatusInternalServerError, models.MsgInternal)
		return
	}

	c.JSON(http.StatusOK, api.RefreshResponse{
		Success:      true,
		AccessToken:  "Bearer " + pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout godoc
// @Summary Log out
// @Description Revoke the token pair holding the given refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param token body api.TokenRequest true "Refresh token"
// @Success 200 {object} api.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	var req api.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.MsgBadRequest)
		return
	}

	if err := ac.tokens.Revoke(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, auth.ErrInvalidRefresh) {
			respondError(c, http.StatusUnauthorized, models.MsgInvalidRefresh)
			return
		}
		log.WithError(err).Error("Logout failed")
		respondError(c, http.StatusInternalServerError, models.MsgInternal)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "Successful logout"})
}

// GetUser godoc
// @Summary Get my profile
// @Tags auth
// @Produce json
// @Success 200 {object} api.UserResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/auth/user [get]
func (ac *AuthController) GetUser(c *gin.Context) {
	user, ok := ac.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, api.UserResponse{Success: true, User: user.Profile()})
}

// UpdateUser godoc
// @Summary Update my profile
// @Description Change any of email, name and password; omitted fields are kept
// @Tags auth
// @Accept json
// @Produce json
// @Param user body api.UpdateUserRequest true "Changed fields"
// @Success 200 {object} api.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/auth/user [patch]
func (ac *AuthController) UpdateUser(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, models.MsgUnauthorized)
		return
	}

	var req api.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.MsgBadRequest)
		return
	}

	user, err := ac.users.UpdateUser(c.Request.Context(), userID, services.ProfileUpdate{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserExists):
			respondError(c, http.StatusForbidden, models.MsgUserExists)
		case errors.Is(err, services.ErrUserNotFound):
			respondError(c, http.StatusUnauthorized, models.MsgUnauthorized)
		default:
			log.WithError(err).Error("Profile update failed")
			respondError(c, http.StatusInternalServerError, models.MsgInternal)
		}
		return
	}
	c.JSON(http.StatusOK, api.UserResponse{Success: true, User: user.Profile()})
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Always succeeds so that registered emails cannot be probed
// @Tags auth
// @Accept json
// @Produce json
// @Param request body api.ForgotPasswordRequest true "Account email"
// @Success 200 {object} api.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/password-reset [post]
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req api.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.MsgBadRequest)
		return
	}

	if _, err := ac.users.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		log.WithError(err).Error("Password reset request failed")
		respondError(c, http.StatusInternalServerError, models.MsgInternal)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "Reset email sent"})
}

// ResetPassword godoc
// @Summary Reset the password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body api.ResetPasswordRequest true "New password and mailed code"
// @Success 200 {object} api.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/password-reset/reset [post]
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req api.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.MsgBadRequest)
		return
	}

	if err := ac.users.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidResetCode) {
			respondError(c, http.StatusForbidden, models.MsgInvalidResetCode)
			return
		}
		log.WithError(err).Error("Password reset failed")
		respondError(c, http.StatusInternalServerError, models.MsgInternal)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "Password successfully reset"})
}

func (ac *AuthController) currentUser(c *gin.Context) (*models.User, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, models.MsgUnauthorized)
		return nil, false
	}

	user, err := ac.users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(c, http.StatusUnauthorized, models.MsgUnauthorized)
			return nil, false
		}
		log.WithError(err).Error("Failed to load user")
		respondError(c, http.StatusInternalServerError, models.MsgInternal)
		return nil, false
	}
	return user, true
}
