package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/tokens"
)

// AuthorizedCall is a request that needs the current access token
type AuthorizedCall func(ctx context.Context, accessToken string) error

// Refresher wraps authorized calls: when the server reports the access token
// expired, it obtains a new token pair once and retries the call once.
type Refresher struct {
	Tokens  tokens.Storage
	Refresh func(ctx context.Context) error
}

// Do runs call under the refresh-and-retry-once policy
func (r Refresher) Do(ctx context.Context, call AuthorizedCall) error {
	token, err := r.Tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to read access token: %w", err)
	}

	err = call(ctx, token)
	if !errors.Is(err, ErrTokenExpired) {
		return err
	}

	log.Debug("Access token expired, refreshing")
	if err := r.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	token, err = r.Tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to read access token: %w", err)
	}
	return call(ctx, token)
}
