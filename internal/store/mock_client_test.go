package store

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/api"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

// MockClient is a mock implementation of api.Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetIngredients(ctx context.Context) ([]models.Ingredient, error) {
	args := m.Called(ctx)
	ingredients, _ := args.Get(0).([]models.Ingredient)
	return ingredients, args.Error(1)
}

func (m *MockClient) GetFeed(ctx context.Context) (models.Feed, error) {
	args := m.Called(ctx)
	feed, _ := args.Get(0).(models.Feed)
	return feed, args.Error(1)
}

func (m *MockClient) GetUserOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

func (m *MockClient) GetOrderByNumber(ctx context.Context, number int) ([]models.Order, error) {
	args := m.Called(ctx, number)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

func (m *MockClient) SubmitOrder(ctx context.Context, ingredientIDs []string) (*models.Order, error) {
	args := m.Called(ctx, ingredientIDs)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *MockClient) GetUser(ctx context.Context) (*models.Profile, error) {
	args := m.Called(ctx)
	profile, _ := args.Get(0).(*models.Profile)
	return profile, args.Error(1)
}

func (m *MockClient) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*api.AuthResponse)
	return resp, args.Error(1)
}

func (m *MockClient) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*api.AuthResponse)
	return resp, args.Error(1)
}

func (m *MockClient) UpdateUser(ctx context.Context, req api.UpdateUserRequest) (*models.Profile, error) {
	args := m.Called(ctx, req)
	profile, _ := args.Get(0).(*models.Profile)
	return profile, args.Error(1)
}

func (m *MockClient) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockClient) RefreshToken(ctx context.Context) (*api.RefreshResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*api.RefreshResponse)
	return resp, args.Error(1)
}

func (m *MockClient) ForgotPassword(ctx context.Context, req api.ForgotPasswordRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockClient) ResetPassword(ctx context.Context, req api.ResetPasswordRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

var _ api.Client = (*MockClient)(nil)
