package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/api"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/tokens"
)

func newTestStore(t *testing.T) (*Store, *MockClient, *tokens.MemoryStorage) {
	t.Helper()
	client := new(MockClient)
	storage := tokens.NewMemoryStorage()
	t.Cleanup(func() { client.AssertExpectations(t) })
	return New(client, storage, WithIDGenerator(sequentialIDs())), client, storage
}

// recordPhases subscribes to s and records the phase of op after every change
func recordPhases(s *Store, requests func(*State) Requests, op string) *[]Phase {
	var phases []Phase
	s.Subscribe(func(state *State) {
		phases = append(phases, requests(state).Status(op).Phase)
	})
	return &phases
}

func TestStore_DispatchNotifiesOnChange(t *testing.T) {
	s, _, _ := newTestStore(t)

	var calls int
	unsubscribe := s.Subscribe(func(*State) { calls++ })

	s.AddIngredient(testMain)
	assert.Equal(t, 1, calls)

	s.RemoveIngredient("unknown")
	assert.Equal(t, 1, calls, "no change, no notification")

	unsubscribe()
	s.AddIngredient(testSauce)
	assert.Equal(t, 1, calls)
	assert.Len(t, s.State().Constructor.Ingredients, 2)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.newID = NewInstanceID

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddIngredient(testMain)
		}()
	}
	wg.Wait()

	assert.Len(t, s.State().Constructor.Ingredients, 50)
}

func TestStore_ConstructorOperations(t *testing.T) {
	s, _, _ := newTestStore(t)

	first := s.AddIngredient(testMain)
	second := s.AddIngredient(testSauce)
	s.AddIngredient(testBun)
	assert.Equal(t, "inst-1", first)

	s.MoveIngredient(1, 0)
	assert.Equal(t, []string{second, first}, instanceIDs(s.State().Constructor.Ingredients))

	s.RemoveIngredient(second)
	assert.Equal(t, []string{first}, instanceIDs(s.State().Constructor.Ingredients))

	s.ClearConstructor()
	assert.Nil(t, s.State().Constructor.Bun)
	assert.Empty(t, s.State().Constructor.Ingredients)
}

func TestStore_FetchIngredients(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s, client, _ := newTestStore(t)
		catalog := []models.Ingredient{testBun, testMain}
		client.On("GetIngredients", mock.Anything).Return(catalog, nil).Once()
		phases := recordPhases(s, func(st *State) Requests { return st.Ingredients.Requests }, OpFetchIngredients)

		require.NoError(t, s.FetchIngredients(ctx))
		assert.Equal(t, []Phase{PhasePending, PhaseFulfilled}, *phases)
		assert.Equal(t, catalog, s.State().Ingredients.Ingredients)
	})

	t.Run("server message is kept", func(t *testing.T) {
		s, client, _ := newTestStore(t)
		client.On("GetIngredients", mock.Anything).
			Return(nil, &api.Error{Status: http.StatusInternalServerError, Message: "catalog offline"}).Once()

		assert.Error(t, s.FetchIngredients(ctx))
		assert.Equal(t, "catalog offline", s.State().Ingredients.Error)
		assert.False(t, s.State().Ingredients.Loading)

		s.ClearIngredientsError()
		assert.Empty(t, s.State().Ingredients.Error)
	})

	t.Run("fallback message", func(t *testing.T) {
		s, client, _ := newTestStore(t)
		client.On("GetIngredients", mock.Anything).
			Return(nil, &api.Error{Status: http.StatusBadGateway}).Once()

		assert.Error(t, s.FetchIngredients(ctx))
		assert.Equal(t, "Failed to load ingredients", s.State().Ingredients.Error)
	})
}

func TestNormalizeError(t *testing.T) {
	assert.Equal(t, "fallback", NormalizeError(nil, "fallback"))
	assert.Equal(t, "jwt expired", NormalizeError(&api.Error{Status: 403, Message: "jwt expired"}, "fallback"))
	assert.Equal(t, "fallback", NormalizeError(&api.Error{Status: 500}, "fallback"))
	assert.Equal(t, "fallback", NormalizeError(fmt.Errorf("failed to refresh token: %w", &api.Error{Status: 502}), "fallback"))
	assert.Equal(t, "Order not found", NormalizeError(fmt.Errorf("wrapped: %w", &api.Error{Status: 404, Message: "Order not found"}), "fallback"))
	assert.Equal(t, "dial tcp: refused", NormalizeError(errors.New("dial tcp: refused"), "fallback"))
}

func TestStore_Session(t *testing.T) {
	ctx := context.Background()
	profile := models.Profile{Email: "ann@example.com", Name: "Ann"}

	t.Run("login stores tokens without the bearer prefix", func(t *testing.T) {
		s, client, storage := newTestStore(t)
		req := api.LoginRequest{Email: profile.Email, Password: "secret"}
		client.On("Login", mock.Anything, req).Return(&api.AuthResponse{
			Success:      true,
			AccessToken:  "Bearer access-1",
			RefreshToken: "refresh-1",
			User:         profile,
		}, nil).Once()

		require.NoError(t, s.Login(ctx, req))

		access, _ := storage.AccessToken(ctx)
		refresh, _ := storage.RefreshToken(ctx)
		assert.Equal(t, "access-1", access)
		assert.Equal(t, "refresh-1", refresh)
		assert.True(t, s.State().User.IsAuthChecked)
		assert.Equal(t, &profile, s.State().User.User)
	})

	t.Run("failed register keeps the user out", func(t *testing.T) {
		s, client, storage := newTestStore(t)
		req := api.RegisterRequest{Email: profile.Email, Name: "Ann", Password: "secret"}
		client.On("Register", mock.Anything, req).
			Return(nil, &api.Error{Status: http.StatusForbidden, Message: "User already exists"}).Once()

		assert.Error(t, s.Register(ctx, req))
		assert.Equal(t, "User already exists", s.State().User.Error)
		assert.Nil(t, s.State().User.User)
		access, _ := storage.AccessToken(ctx)
		assert.Empty(t, access)

		s.ClearUserError()
		assert.Empty(t, s.State().User.Error)
	})

	t.Run("check auth failure still completes the check", func(t *testing.T) {
		s, client, _ := newTestStore(t)
		client.On("GetUser", mock.Anything).
			Return(nil, &api.Error{Status: http.StatusUnauthorized, Message: "You should be authorised"}).Once()

		assert.Error(t, s.CheckAuth(ctx))
		assert.True(t, s.State().User.IsAuthChecked)
		assert.Nil(t, s.State().User.User)
		assert.Empty(t, s.State().User.Error)
	})

	t.Run("check auth success", func(t *testing.T) {
		s, client, _ := newTestStore(t)
		client.On("GetUser", mock.Anything).Return(&profile, nil).Once()

		require.NoError(t, s.CheckAuth(ctx))
		assert.True(t, s.State().User.IsAuthChecked)
		assert.Equal(t, "Ann", s.State().User.User.Name)
	})

	t.Run("update replaces the profile", func(t *testing.T) {
		s, client, _ := newTestStore(t)
		req := api.UpdateUserRequest{Name: "Anna"}
		client.On("UpdateUser", mock.Anything, req).Return(&models.Profile{Email: profile.Email, Name: "Anna"}, nil).Once()

		require.NoError(t, s.UpdateUser(ctx, req))
		assert.Equal(t, "Anna", s.State().User.User.Name)
	})

	t.Run("logout clears tokens and user", func(t *testing.T) {
		s, client, storage := newTestStore(t)
		require.NoError(t, storage.SetAccessToken(ctx, "a"))
		require.NoError(t, storage.SetRefreshToken(ctx, "r"))
		client.On("GetUser", mock.Anything).Return(&profile, nil).Once()
		client.On("Logout", mock.Anything).Return(nil).Once()
		require.NoError(t, s.CheckAuth(ctx))

		require.NoError(t, s.Logout(ctx))
		assert.Nil(t, s.State().User.User)
		access, _ := storage.AccessToken(ctx)
		refresh, _ := storage.RefreshToken(ctx)
		assert.Empty(t, access)
		assert.Empty(t, refresh)
	})

	t.Run("failed logout keeps the session", func(t *testing.T) {
		s, client, storage := newTestStore(t)
		require.NoError(t, storage.SetRefreshToken(ctx, "r"))
		client.On("GetUser", mock.Anything).Return(&profile, nil).Once()
		client.On("Logout", mock.Anything).Return(errors.New("connection refused")).Once()
		require.NoError(t, s.CheckAuth(ctx))

		assert.Error(t, s.Logout(ctx))
		assert.NotNil(t, s.State().User.User)
		refresh, _ := storage.RefreshToken(ctx)
		assert.Equal(t, "r", refresh)
	})
}

func TestStore_Orders(t *testing.T) {
	ctx := context.Background()

	t.Run("feed", func(t *testing.T) {
		s, client, _ := newTestStore(t)
		feed := models.Feed{Orders: []models.Order{{ID: "o1", Number: 1, Status: models.OrderStatusDone}}, Total: 5, TotalToday: 1}
		client.On("GetFeed", mock.Anything).Return(feed, nil).Once()

		require.NoError(t, s.FetchFeed(ctx))
		assert.Equal(t, feed.Orders, s.State().Orders.Orders)
		assert.Equal(t, 5, s.State().Orders.Total)
	})

	t.Run("user orders failure", func(t *testing.T) {
		s, client, _ := newTestStore(t)
		client.On("GetUserOrders", mock.Anything).Return(nil, errors.New("")).Once()

		assert.Error(t, s.FetchUserOrders(ctx))
		assert.Equal(t, "Failed to load orders", s.State().Orders.Error)

		s.ClearOrdersError()
		assert.Empty(t, s.State().Orders.Error)
	})

	t.Run("order by number takes the first match", func(t *testing.T) {
		s, client, _ := newTestStore(t)
		client.On("GetOrderByNumber", mock.Anything, 7).Return([]models.Order{{ID: "o7", Number: 7}, {ID: "dup", Number: 7}}, nil).Once()
		client.On("GetOrderByNumber", mock.Anything, 8).Return([]models.Order{}, nil).Once()

		require.NoError(t, s.FetchOrderByNumber(ctx, 7))
		require.NotNil(t, s.State().Orders.CurrentOrder)
		assert.Equal(t, "o7", s.State().Orders.CurrentOrder.ID)

		require.NoError(t, s.FetchOrderByNumber(ctx, 8))
		assert.Nil(t, s.State().Orders.CurrentOrder)
	})

	t.Run("submit construction", func(t *testing.T) {
		s, client, _ := newTestStore(t)
		s.AddIngredient(testBun)
		s.AddIngredient(testMain)
		s.AddIngredient(testSauce)

		order := &models.Order{ID: "o42", Number: 42, Status: models.OrderStatusDone}
		client.On("SubmitOrder", mock.Anything, []string{"bun-1", "main-1", "sauce-1", "bun-1"}).Return(order, nil).Once()
		phases := recordPhases(s, func(st *State) Requests { return st.Orders.Requests }, OpCreateOrder)

		got, err := s.SubmitConstruction(ctx)
		require.NoError(t, err)
		assert.Equal(t, order, got)
		assert.Equal(t, []Phase{PhasePending, PhaseFulfilled}, *phases)
		assert.Equal(t, order, s.State().Orders.CurrentOrder)
		require.Len(t, s.State().Orders.UserOrders, 1)
		assert.Equal(t, 42, s.State().Orders.UserOrders[0].Number)
		assert.Len(t, s.State().Constructor.Ingredients, 2, "construction is kept after submit")

		s.ClearCurrentOrder()
		assert.Nil(t, s.State().Orders.CurrentOrder)
	})

	t.Run("submit refuses an incomplete construction", func(t *testing.T) {
		s, _, _ := newTestStore(t)
		s.AddIngredient(testMain)

		_, err := s.SubmitConstruction(ctx)
		assert.ErrorIs(t, err, ErrCannotSubmit)
		assert.Empty(t, s.State().Orders.Requests.Status(OpCreateOrder).Phase)
	})

	t.Run("submit failure", func(t *testing.T) {
		s, client, _ := newTestStore(t)
		client.On("SubmitOrder", mock.Anything, []string{"bun-1", "main-1", "bun-1"}).
			Return(nil, &api.Error{Status: http.StatusBadRequest, Message: "One or more ids provided are incorrect"}).Once()

		_, err := s.SubmitOrder(ctx, []string{"bun-1", "main-1", "bun-1"})
		assert.Error(t, err)
		assert.Equal(t, "One or more ids provided are incorrect", s.State().Orders.Error)
		assert.Empty(t, s.State().Orders.UserOrders)
	})
}
