// Package tokens keeps the access and refresh tokens of the client session.
// The access token is short lived (like a session cookie), the refresh token
// outlives it (like local storage).
package tokens

import (
	"context"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// Storage is the token side channel used by the API client and the session slice.
// Getters return an empty string when no token is stored.
type Storage interface {
	AccessToken(ctx context.Context) (string, error)
	SetAccessToken(ctx context.Context, token string) error
	ClearAccessToken(ctx context.Context) error

	RefreshToken(ctx context.Context) (string, error)
	SetRefreshToken(ctx context.Context, token string) error
	ClearRefreshToken(ctx context.Context) error
}

// SetLogger replaces the package logger
func SetLogger(l *logrus.Logger) {
	log = l
}
