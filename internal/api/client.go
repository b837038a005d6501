// Package api is the HTTP client of the burger API
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/tokens"
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

const maxResponseSize = 4 << 20

// Client is the set of burger API calls the state layer consumes
type Client interface {
	GetIngredients(ctx context.Context) ([]models.Ingredient, error)
	GetFeed(ctx context.Context) (models.Feed, error)
	GetUserOrders(ctx context.Context) ([]models.Order, error)
	GetOrderByNumber(ctx context.Context, number int) ([]models.Order, error)
	SubmitOrder(ctx context.Context, ingredientIDs []string) (*models.Order, error)

	GetUser(ctx context.Context) (*models.Profile, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	UpdateUser(ctx context.Context, req UpdateUserRequest) (*models.Profile, error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context) (*RefreshResponse, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

// HTTPClient implements Client over HTTP. Authenticated calls go through a
// Refresher so an expired access token is renewed transparently once.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     tokens.Storage
	refresher  Refresher
}

// ClientOption configures an HTTPClient
type ClientOption func(*HTTPClient)

// WithHTTPClient sets the underlying transport client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout. The client given to WithHTTPClient is
// copied, not modified.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *HTTPClient) {
		hc := *c.httpClient
		hc.Timeout = timeout
		c.httpClient = &hc
	}
}

// NewClient creates a client for the API rooted at baseURL (e.g. http://host/api)
func NewClient(baseURL string, storage tokens.Storage, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tokens:     storage,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.refresher = Refresher{
		Tokens: storage,
		Refresh: func(ctx context.Context) error {
			_, err := c.RefreshToken(ctx)
			return err
		},
	}
	return c
}

// GetIngredients fetches the catalog
func (c *HTTPClient) GetIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var resp IngredientsResponse
	if err := c.do(ctx, http.MethodGet, "/ingredients", "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetFeed fetches the public order feed
func (c *HTTPClient) GetFeed(ctx context.Context) (models.Feed, error) {
	var resp FeedResponse
	if err := c.do(ctx, http.MethodGet, "/orders/all", "", nil, &resp); err != nil {
		return models.Feed{}, err
	}
	return resp.Feed, nil
}

// GetUserOrders fetches the orders of the authenticated user
func (c *HTTPClient) GetUserOrders(ctx context.Context) ([]models.Order, error) {
	var resp FeedResponse
	err := c.refresher.Do(ctx, func(ctx context.Context, token string) error {
		return c.do(ctx, http.MethodGet, "/orders", token, nil, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// GetOrderByNumber looks an order up by its public number
func (c *HTTPClient) GetOrderByNumber(ctx context.Context, number int) ([]models.Order, error) {
	var resp OrdersResponse
	if err := c.do(ctx, http.MethodGet, "/orders/"+strconv.Itoa(number), "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// SubmitOrder places an order for the given catalog ids
func (c *HTTPClient) SubmitOrder(ctx context.Context, ingredientIDs []string) (*models.Order, error) {
	var resp NewOrderResponse
	err := c.refresher.Do(ctx, func(ctx context.Context, token string) error {
		return c.do(ctx, http.MethodPost, "/orders", token, CreateOrderRequest{Ingredients: ingredientIDs}, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp.Order, nil
}

// GetUser fetches the profile of the authenticated user
func (c *HTTPClient) GetUser(ctx context.Context) (*models.Profile, error) {
	var resp UserResponse
	err := c.refresher.Do(ctx, func(ctx context.Context, token string) error {
		return c.do(ctx, http.MethodGet, "/auth/user", token, nil, &resp)
	})
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateUser patches the profile of the authenticated user
func (c *HTTPClient) UpdateUser(ctx context.Context, req UpdateUserRequest) (*models.Profile, error) {
	var resp UserResponse
	err := c.refresher.Do(ctx, func(ctx context.Context, token string) error {
		return c.do(ctx, http.MethodPatch, "/auth/user", token, req, &resp)
	})
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login exchanges credentials for a token pair. Tokens are returned, not stored.
func (c *HTTPClient) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. Tokens are returned, not stored.
func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the stored refresh token on the server
func (c *HTTPClient) Logout(ctx context.Context) error {
	refresh, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to read refresh token: %w", err)
	}
	var resp MessageResponse
	return c.do(ctx, http.MethodPost, "/auth/logout", "", TokenRequest{Token: refresh}, &resp)
}

// RefreshToken trades the stored refresh token for a new pair and stores it
func (c *HTTPClient) RefreshToken(ctx context.Context) (*RefreshResponse, error) {
	refresh, err := c.tokens.RefreshToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}

	var resp RefreshResponse
	if err := c.do(ctx, http.MethodPost, "/auth/token", "", TokenRequest{Token: refresh}, &resp); err != nil {
		return nil, err
	}

	if err := c.tokens.SetRefreshToken(ctx, resp.RefreshToken); err != nil {
		return nil, err
	}
	if err := c.tokens.SetAccessToken(ctx, strings.TrimPrefix(resp.AccessToken, "Bearer ")); err != nil {
		return nil, err
	}
	log.Debug("Token pair refreshed")
	return &resp, nil
}

// ForgotPassword asks the server to mail a reset code
func (c *HTTPClient) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	var resp MessageResponse
	return c.do(ctx, http.MethodPost, "/password-reset", "", req, &resp)
}

// ResetPassword sets a new password using the mailed code
func (c *HTTPClient) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	var resp MessageResponse
	return c.do(ctx, http.MethodPost, "/password-reset/reset", "", req, &resp)
}

// do performs one HTTP round trip. A non-2xx status or a body with
// "success": false becomes an *Error carrying the server message.
func (c *HTTPClient) do(ctx context.Context, method, path, accessToken string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("burger api: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("burger api: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=utf-8")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	entry := log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		entry.WithError(err).Warn("Request failed")
		return fmt.Errorf("burger api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("burger api: failed to read response: %w", err)
	}
	entry.WithField("status", resp.StatusCode).Debug("Response received")

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &Error{Status: resp.StatusCode}
		}
		return fmt.Errorf("burger api: failed to decode response: %w", err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("burger api: failed to decode response: %w", err)
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)
