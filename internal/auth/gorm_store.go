package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-oauth2/oauth2/v4"
	oauth2errors "github.com/go-oauth2/oauth2/v4/errors"
	"github.com/go-oauth2/oauth2/v4/models"
	"gorm.io/gorm"

	internalmodels "github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

// ErrCodeGrantUnsupported is returned for authorization code operations
var ErrCodeGrantUnsupported = errors.New("authorization code grant is not supported")

// GormClientStore serves oauth2 clients from the oauth_clients table
type GormClientStore struct {
	db *gorm.DB
}

func NewGormClientStore(db *gorm.DB) *GormClientStore {
	return &GormClientStore{db: db}
}

func (s *GormClientStore) GetByID(ctx context.Context, id string) (oauth2.ClientInfo, error) {
	var client internalmodels.OAuthClient
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, oauth2errors.ErrInvalidClient
		}
		return nil, err
	}

	// OAuthClient implements ClientPasswordVerifier, so secrets are compared against the bcrypt hash
	return &client, nil
}

// GormTokenStore persists issued token pairs in the oauth_tokens table
type GormTokenStore struct {
	db *gorm.DB
}

func NewGormTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{db: db}
}

func (s *GormTokenStore) Create(ctx context.Context, info oauth2.TokenInfo) error {
	if info.GetCode() != "" {
		return ErrCodeGrantUnsupported
	}

	token := &internalmodels.OAuthToken{
		ClientID:        info.GetClientID(),
		UserID:          info.GetUserID(),
		AccessToken:     info.GetAccess(),
		RefreshToken:    info.GetRefresh(),
		Scopes:          info.GetScope(),
		AccessCreatedAt: info.GetAccessCreateAt(),
		AccessExpiresAt: info.GetAccessCreateAt().Add(info.GetAccessExpiresIn()),
	}
	if info.GetRefresh() != "" {
		token.RefreshCreatedAt = info.GetRefreshCreateAt()
		token.RefreshExpiresAt = info.GetRefreshCreateAt().Add(info.GetRefreshExpiresIn())
	}

	return s.db.WithContext(ctx).Create(token).Error
}

func (s *GormTokenStore) RemoveByAccess(ctx context.Context, access string) error {
	return s.db.WithContext(ctx).Where("access_token = ?", access).Delete(&internalmodels.OAuthToken{}).Error
}

func (s *GormTokenStore) RemoveByRefresh(ctx context.Context, refresh string) error {
	return s.db.WithContext(ctx).Where("refresh_token = ?", refresh).Delete(&internalmodels.OAuthToken{}).Error
}

// GetByAccess returns nil without error when the token is unknown, which the
// oauth2 manager reports as an invalid token
func (s *GormTokenStore) GetByAccess(ctx context.Context, access string) (oauth2.TokenInfo, error) {
	return s.find(ctx, "access_token = ?", access)
}

func (s *GormTokenStore) GetByRefresh(ctx context.Context, refresh string) (oauth2.TokenInfo, error) {
	return s.find(ctx, "refresh_token = ?", refresh)
}

func (s *GormTokenStore) GetByCode(ctx context.Context, code string) (oauth2.TokenInfo, error) {
	return nil, ErrCodeGrantUnsupported
}

func (s *GormTokenStore) RemoveByCode(ctx context.Context, code string) error {
	return ErrCodeGrantUnsupported
}

// CountByUser returns how many live token pairs a user holds
func (s *GormTokenStore) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&internalmodels.OAuthToken{}).
		Where("user_id = ?", strconv.FormatUint(uint64(userID), 10)).
		Count(&count).Error
	return count, err
}

func (s *GormTokenStore) find(ctx context.Context, query string, value string) (oauth2.TokenInfo, error) {
	if value == "" {
		return nil, nil
	}
	var token internalmodels.OAuthToken
	if err := s.db.WithContext(ctx).Where(query, value).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toTokenInfo(&token), nil
}

func toTokenInfo(token *internalmodels.OAuthToken) *models.Token {
	info := &models.Token{
		ClientID:        token.ClientID,
		UserID:          token.UserID,
		Access:          token.AccessToken,
		AccessCreateAt:  token.AccessCreatedAt,
		AccessExpiresIn: token.AccessExpiresAt.Sub(token.AccessCreatedAt),
		Refresh:         token.RefreshToken,
		Scope:           token.Scopes,
	}
	if token.RefreshToken != "" {
		info.RefreshCreateAt = token.RefreshCreatedAt
		info.RefreshExpiresIn = token.RefreshExpiresAt.Sub(token.RefreshCreatedAt)
	}
	return info
}

// PurgeExpired removes token pairs whose refresh token (or, lacking one,
// access token) is past its expiry
func (s *GormTokenStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("(refresh_token = '' AND access_expires_at < ?) OR (refresh_token <> '' AND refresh_expires_at < ?)", now, now).
		Delete(&internalmodels.OAuthToken{})
	return result.RowsAffected, result.Error
}
