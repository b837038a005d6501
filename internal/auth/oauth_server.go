package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-oauth2/oauth2/v4"
	oauth2errors "github.com/go-oauth2/oauth2/v4/errors"
	"github.com/go-oauth2/oauth2/v4/manage"
	"github.com/go-oauth2/oauth2/v4/server"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogger replaces the package logger
func SetLogger(l *logrus.Logger) {
	log = l
}

// ErrInvalidRefresh is returned when a refresh token is unknown, revoked or expired
var ErrInvalidRefresh = errors.New("invalid refresh token")

// ErrInvalidClient is returned when the client id or secret do not match
var ErrInvalidClient = errors.New("invalid client")

// CredentialsVerifier checks user credentials and returns the user id
type CredentialsVerifier func(ctx context.Context, email, password string) (uint, error)

// Settings configures token issuing
type Settings struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// TokenPair is an issued access token with its refresh token
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

type OAuthService struct {
	server     *server.Server
	manager    *manage.Manager
	tokenStore *GormTokenStore
	db         *gorm.DB
}

func NewOAuthService(db *gorm.DB, settings Settings, verify CredentialsVerifier) *OAuthService {
	manager := manage.NewDefaultManager()

	// JWT access tokens carrying the user id
	manager.MapAccessGenerate(NewJWTAccessGenerate([]byte(settings.JWTSecret), jwt.SigningMethodHS512, db))

	manager.SetPasswordTokenCfg(&manage.Config{
		AccessTokenExp:    settings.AccessTokenTTL,
		RefreshTokenExp:   settings.RefreshTokenTTL,
		IsGenerateRefresh: true,
	})
	// refreshing rotates both tokens and revokes the old pair
	manager.SetRefreshTokenCfg(&manage.RefreshingConfig{
		AccessTokenExp:     settings.AccessTokenTTL,
		RefreshTokenExp:    settings.RefreshTokenTTL,
		IsGenerateRefresh:  true,
		IsResetRefreshTime: true,
		IsRemoveAccess:     true,
		IsRemoveRefreshing: true,
	})

	tokenStore := NewGormTokenStore(db)
	manager.MustTokenStorage(tokenStore, nil)
	manager.MapClientStorage(NewGormClientStore(db))

	srv := server.NewDefaultServer(manager)
	srv.SetAllowedGrantType(oauth2.PasswordCredentials, oauth2.Refreshing)
	srv.SetClientInfoHandler(server.ClientFormHandler)
	srv.SetPasswordAuthorizationHandler(func(ctx context.Context, clientID, username, password string) (string, error) {
		userID, err := verify(ctx, username, password)
		if err != nil {
			log.WithField("client_id", clientID).WithError(err).Debug("Password grant rejected")
			return "", oauth2errors.ErrInvalidGrant
		}
		return strconv.FormatUint(uint64(userID), 10), nil
	})

	return &OAuthService{
		server:     srv,
		manager:    manager,
		tokenStore: tokenStore,
		db:         db,
	}
}

func (o *OAuthService) GetServer() *server.Server {
	return o.server
}

// TokenStore exposes the persisted token pairs
func (o *OAuthService) TokenStore() *GormTokenStore {
	return o.tokenStore
}

// Issue creates a new token pair for userID on behalf of the given client
func (o *OAuthService) Issue(ctx context.Context, clientID, clientSecret string, userID uint) (*TokenPair, error) {
	info, err := o.manager.GenerateAccessToken(ctx, oauth2.PasswordCredentials, &oauth2.TokenGenerateRequest{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		UserID:       strconv.FormatUint(uint64(userID), 10),
	})
	if err != nil {
		if errors.Is(err, oauth2errors.ErrInvalidClient) {
			return nil, ErrInvalidClient
		}
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"client_id": clientID,
		"user_id":   userID,
	}).Debug("Token pair issued")
	return toPair(info), nil
}

// Refresh trades a refresh token for a new pair. The old pair stops working.
func (o *OAuthService) Refresh(ctx context.Context, clientID, clientSecret, refresh string) (*TokenPair, error) {
	info, err := o.manager.RefreshAccessToken(ctx, &oauth2.TokenGenerateRequest{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Refresh:      refresh,
	})
	if err != nil {
		if errors.Is(err, oauth2errors.ErrInvalidRefreshToken) || errors.Is(err, oauth2errors.ErrExpiredRefreshToken) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	return toPair(info), nil
}

// Revoke forgets the pair holding refresh
func (o *OAuthService) Revoke(ctx context.Context, refresh string) error {
	if _, err := o.manager.LoadRefreshToken(ctx, refresh); err != nil {
		if errors.Is(err, oauth2errors.ErrInvalidRefreshToken) || errors.Is(err, oauth2errors.ErrExpiredRefreshToken) {
			return ErrInvalidRefresh
		}
		return err
	}
	return o.manager.RemoveRefreshToken(ctx, refresh)
}

// HandleToken is the standard OAuth2 token endpoint (password and
// refresh_token grants, form encoded) for third party clients
// @Summary OAuth2 token endpoint
// @Description Obtain or refresh a token pair with the password or refresh_token grant
// @Tags OAuth2
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "password or refresh_token"
// @Param client_id formData string true "Client ID"
// @Param client_secret formData string true "Client Secret"
// @Param username formData string false "User email (password grant)"
// @Param password formData string false "User password (password grant)"
// @Param refresh_token formData string false "Refresh token (refresh_token grant)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /oauth/token [post]
func (o *OAuthService) HandleToken(c *gin.Context) {
	if err := o.server.HandleTokenRequest(c.Writer, c.Request); err != nil {
		log.WithError(err).Warn("Token request failed")
		if !c.Writer.Written() {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
	}
}

func toPair(info oauth2.TokenInfo) *TokenPair {
	return &TokenPair{
		AccessToken:  info.GetAccess(),
		RefreshToken: info.GetRefresh(),
		ExpiresIn:    info.GetAccessExpiresIn(),
	}
}
