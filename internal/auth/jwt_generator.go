package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

// JWTAccessGenerate issues signed JWT access tokens carrying the user id, and
// opaque-looking JWT refresh tokens with a random id
type JWTAccessGenerate struct {
	SignedKey    []byte
	SignedMethod jwt.SigningMethod
	DB           *gorm.DB // used to make sure the account still exists
}

// NewJWTAccessGenerate creates a new JWT access token generator
func NewJWTAccessGenerate(key []byte, method jwt.SigningMethod, db *gorm.DB) *JWTAccessGenerate {
	return &JWTAccessGenerate{
		SignedKey:    key,
		SignedMethod: method,
		DB:           db,
	}
}

// Token generates the access token and, when asked, a refresh token.
// It is called by the oauth2 manager for both issuing and refreshing.
func (g *JWTAccessGenerate) Token(ctx context.Context, data *oauth2.GenerateBasic, isGenRefresh bool) (string, string, error) {
	userID := data.UserID
	if userID == "" {
		return "", "", fmt.Errorf("cannot generate token: no user ID available")
	}
	if err := g.ensureUser(ctx, userID); err != nil {
		return "", "", err
	}

	createdAt := data.TokenInfo.GetAccessCreateAt()
	claims := jwt.MapClaims{
		"jti": uuid.NewString(),
		"uid": userID,
		"aud": data.Client.GetID(),
		"iat": createdAt.Unix(),
		"exp": createdAt.Add(data.TokenInfo.GetAccessExpiresIn()).Unix(),
	}
	if scope := data.TokenInfo.GetScope(); scope != "" {
		claims["scope"] = scope
	}

	access, err := jwt.NewWithClaims(g.SignedMethod, claims).SignedString(g.SignedKey)
	if err != nil {
		return "", "", err
	}

	refresh := ""
	if isGenRefresh {
		refreshClaims := jwt.MapClaims{
			"jti": uuid.NewString(),
			"uid": userID,
			"exp": data.TokenInfo.GetRefreshCreateAt().Add(data.TokenInfo.GetRefreshExpiresIn()).Unix(),
		}
		refresh, err = jwt.NewWithClaims(g.SignedMethod, refreshClaims).SignedString(g.SignedKey)
		if err != nil {
			return "", "", err
		}
	}

	return access, refresh, nil
}

func (g *JWTAccessGenerate) ensureUser(ctx context.Context, userIDStr string) error {
	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", err)
	}

	var user models.User
	if err := g.DB.WithContext(ctx).Select("id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user with ID %d not found", userID)
		}
		return fmt.Errorf("database error: %w", err)
	}
	return nil
}
