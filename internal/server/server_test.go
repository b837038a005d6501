package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/api"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/config"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/database"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/selectors"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/store"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/tokens"
)

const (
	testSecret = "server-test-secret"
	craterBun  = "643d69a5c3f7b9001cfa093c"
	meteorite  = "643d69a5c3f7b9001cfa0940"
	spicyX     = "643d69a5c3f7b9001cfa0942"
)

type testEnv struct {
	server  *Server
	db      *gorm.DB
	url     string
	storage *tokens.MemoryStorage
	store   *store.Store
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       testSecret,
		ClientID:        "burger-web",
		ClientSecret:    "burger-web-secret",
		AccessTokenTTL:  20 * time.Minute,
		RefreshTokenTTL: time.Hour,
	}
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.InitDatabase(database.SQLite(":memory:"))
	require.NoError(t, err)

	srv, err := New(context.Background(), db, testConfig())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	storage := tokens.NewMemoryStorage()
	client := api.NewClient(ts.URL+"/api", storage, api.WithTimeout(5*time.Second))
	return &testEnv{
		server:  srv,
		db:      db,
		url:     ts.URL,
		storage: storage,
		store:   store.New(client, storage),
	}
}

func (e *testEnv) register(t *testing.T, email string) {
	t.Helper()
	require.NoError(t, e.store.Register(context.Background(), api.RegisterRequest{
		Email: email, Name: "Ann", Password: "secret1",
	}))
}

func (e *testEnv) build(t *testing.T, bun string, fillings ...string) {
	t.Helper()
	state := e.store.State()
	for _, id := range append([]string{bun}, fillings...) {
		ing := selectors.IngredientByID(state, id)
		require.NotNil(t, ing, id)
		e.store.AddIngredient(*ing)
	}
}

func TestHealth(t *testing.T) {
	env := setupEnv(t)

	resp, err := http.Get(env.url + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "burgerd", body["service"])
}

func TestServeStopsWhenContextIsCancelled(t *testing.T) {
	env := setupEnv(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- env.server.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout):
		t.Fatal("server still running after cancellation")
	}

	_, err = http.Get("http://" + ln.Addr().String() + "/health")
	assert.Error(t, err, "listener is closed after shutdown")
}

func TestNewIsIdempotent(t *testing.T) {
	db, err := database.InitDatabase(database.SQLite(":memory:"))
	require.NoError(t, err)

	_, err = New(context.Background(), db, testConfig())
	require.NoError(t, err)
	_, err = New(context.Background(), db, testConfig())
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(9), count)
}

func TestCatalogFlow(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.FetchIngredients(ctx))
	state := env.store.State()
	assert.False(t, selectors.IngredientsLoading(state))
	assert.Len(t, selectors.Ingredients(state), 9)
	assert.Len(t, selectors.Buns(state), 2)
	assert.Len(t, selectors.Mains(state), 4)
	assert.Len(t, selectors.Sauces(state), 3)
}

func TestAnonymousSession(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	_ = env.store.CheckAuth(ctx)
	state := env.store.State()
	assert.True(t, selectors.IsAuthChecked(state))
	assert.False(t, selectors.IsAuthenticated(state))
	assert.Empty(t, selectors.UserError(state))

	t.Run("orders need a session", func(t *testing.T) {
		err := env.store.FetchUserOrders(ctx)
		require.Error(t, err)
		assert.True(t, api.IsUnauthorized(err))
		assert.Equal(t, models.MsgUnauthorized, selectors.OrdersError(env.store.State()))
	})

	t.Run("bad credentials", func(t *testing.T) {
		err := env.store.Login(ctx, api.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		require.Error(t, err)
		assert.Equal(t, models.MsgInvalidCredentials, selectors.UserError(env.store.State()))
	})
}

func TestOrderFlow(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.FetchIngredients(ctx))
	env.register(t, "ann@example.com")
	require.True(t, selectors.IsAuthenticated(env.store.State()))

	access, err := env.storage.AccessToken(ctx)
	require.NoError(t, err)
	assert.NotContains(t, access, "Bearer")

	env.build(t, craterBun, meteorite, spicyX)
	state := env.store.State()
	require.True(t, selectors.CanSubmit(state))
	assert.Equal(t, 1255*2+3000+90, selectors.TotalPrice(state))

	order, err := env.store.SubmitConstruction(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, order.Number)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, []string{craterBun, meteorite, spicyX, craterBun}, order.Ingredients)

	state = env.store.State()
	assert.Equal(t, order, selectors.CurrentOrder(state))
	require.Len(t, selectors.UserOrders(state), 1)
	env.store.ClearConstructor()
	assert.False(t, selectors.CanSubmit(env.store.State()))

	t.Run("feed shows the order", func(t *testing.T) {
		require.NoError(t, env.store.FetchFeed(ctx))
		state := env.store.State()
		assert.Equal(t, 1, selectors.Total(state))
		assert.Equal(t, 1, selectors.TotalToday(state))
		require.Len(t, selectors.PendingOrders(state), 1)
		assert.Empty(t, selectors.ReadyOrders(state))
	})

	t.Run("history", func(t *testing.T) {
		require.NoError(t, env.store.FetchUserOrders(ctx))
		orders := selectors.UserOrders(env.store.State())
		require.Len(t, orders, 1)
		assert.Equal(t, 1, orders[0].Number)
	})

	t.Run("history keeps the newest order first", func(t *testing.T) {
		second, err := env.store.SubmitOrder(ctx, []string{craterBun, spicyX, craterBun})
		require.NoError(t, err)
		assert.Equal(t, 2, second.Number)
		assert.Equal(t, 2, selectors.UserOrders(env.store.State())[0].Number)

		require.NoError(t, env.store.FetchUserOrders(ctx))
		orders := selectors.UserOrders(env.store.State())
		require.Len(t, orders, 2)
		assert.Equal(t, []int{2, 1}, []int{orders[0].Number, orders[1].Number})
	})

	t.Run("lookup by number", func(t *testing.T) {
		env.store.ClearCurrentOrder()
		require.NoError(t, env.store.FetchOrderByNumber(ctx, 1))
		current := selectors.CurrentOrder(env.store.State())
		require.NotNil(t, current)

		groups := selectors.GroupOrderIngredients(current.Ingredients, selectors.Ingredients(env.store.State()))
		require.Len(t, groups, 3)
		assert.Equal(t, 2, groups[0].Count)
		assert.Equal(t, 1255*2+3000+90, selectors.OrderTotal(groups))

		err := env.store.FetchOrderByNumber(ctx, 404)
		require.Error(t, err)
		assert.Equal(t, models.MsgOrderNotFound, selectors.OrdersError(env.store.State()))
	})

	t.Run("server rejects an order without a bun", func(t *testing.T) {
		_, err := env.store.SubmitOrder(ctx, []string{meteorite})
		require.Error(t, err)
		assert.Equal(t, models.MsgBunRequired, selectors.OrdersError(env.store.State()))
	})

	t.Run("kitchen completes pending orders", func(t *testing.T) {
		kitchenCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go env.server.RunKitchen(kitchenCtx, 20*time.Millisecond)

		assert.Eventually(t, func() bool {
			if err := env.store.FetchFeed(ctx); err != nil {
				return false
			}
			state := env.store.State()
			return len(selectors.ReadyOrders(state)) == 2 && len(selectors.PendingOrders(state)) == 0
		}, 2*time.Second, 25*time.Millisecond)
	})
}

func TestProfileFlow(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.register(t, "bob@example.com")

	t.Run("duplicate registration", func(t *testing.T) {
		other := setupEnvSharing(t, env)
		err := other.Register(ctx, api.RegisterRequest{Email: "bob@example.com", Name: "Bob", Password: "secret1"})
		require.Error(t, err)
		assert.Equal(t, models.MsgUserExists, selectors.UserError(other.State()))
	})

	t.Run("check auth restores the user", func(t *testing.T) {
		fresh := setupEnvSharing(t, env, env.storage)
		_ = fresh.CheckAuth(ctx)
		user := selectors.User(fresh.State())
		require.NotNil(t, user)
		assert.Equal(t, "bob@example.com", user.Email)
	})

	t.Run("update", func(t *testing.T) {
		require.NoError(t, env.store.UpdateUser(ctx, api.UpdateUserRequest{Name: "Robert"}))
		user := selectors.User(env.store.State())
		require.NotNil(t, user)
		assert.Equal(t, "Robert", user.Name)
		assert.Equal(t, "bob@example.com", user.Email)
	})

	t.Run("logout", func(t *testing.T) {
		refresh, err := env.storage.RefreshToken(ctx)
		require.NoError(t, err)

		require.NoError(t, env.store.Logout(ctx))
		assert.Nil(t, selectors.User(env.store.State()))

		access, _ := env.storage.AccessToken(ctx)
		stored, _ := env.storage.RefreshToken(ctx)
		assert.Empty(t, access)
		assert.Empty(t, stored)

		count, err := env.server.oauth.TokenStore().CountByUser(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, count)

		info, err := env.server.oauth.TokenStore().GetByRefresh(ctx, refresh)
		require.NoError(t, err)
		assert.Nil(t, info)
	})
}

// setupEnvSharing creates another client session against the server of env,
// optionally reusing a token storage
func setupEnvSharing(t *testing.T, env *testEnv, storage ...tokens.Storage) *store.Store {
	t.Helper()
	var s tokens.Storage = tokens.NewMemoryStorage()
	if len(storage) > 0 {
		s = storage[0]
	}
	return store.New(api.NewClient(env.url+"/api", s), s)
}

func TestExpiredAccessTokenIsRefreshed(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.register(t, "carol@example.com")

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "carol@example.com").First(&user).Error)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"uid": strconv.FormatUint(uint64(user.ID), 10),
		"aud": "burger-web",
		"iat": time.Now().Add(-time.Hour).Unix(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	require.NoError(t, env.storage.SetAccessToken(ctx, expired))
	oldRefresh, err := env.storage.RefreshToken(ctx)
	require.NoError(t, err)

	require.NoError(t, env.store.FetchUserOrders(ctx))

	access, _ := env.storage.AccessToken(ctx)
	refresh, _ := env.storage.RefreshToken(ctx)
	assert.NotEqual(t, expired, access)
	assert.NotEqual(t, oldRefresh, refresh, "refresh rotates the pair")

	t.Run("revoked refresh token cannot be reused", func(t *testing.T) {
		require.NoError(t, env.storage.SetAccessToken(ctx, expired))
		require.NoError(t, env.storage.SetRefreshToken(ctx, oldRefresh))

		err := env.store.FetchUserOrders(ctx)
		require.Error(t, err)
		assert.True(t, api.IsUnauthorized(err))
		assert.Equal(t, models.MsgInvalidRefresh, selectors.OrdersError(env.store.State()))
	})
}

func TestPasswordReset(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	env.register(t, "dave@example.com")
	client := api.NewClient(env.url+"/api", tokens.NewMemoryStorage())

	require.NoError(t, client.ForgotPassword(ctx, api.ForgotPasswordRequest{Email: "dave@example.com"}))
	require.NoError(t, client.ForgotPassword(ctx, api.ForgotPasswordRequest{Email: "unknown@example.com"}),
		"unknown accounts are not revealed")

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "dave@example.com").First(&user).Error)
	require.NotEmpty(t, user.ResetCode)

	err := client.ResetPassword(ctx, api.ResetPasswordRequest{Token: "bogus", Password: "newpass1"})
	require.Error(t, err)
	assert.Equal(t, models.MsgInvalidResetCode, store.NormalizeError(err, ""))

	require.NoError(t, client.ResetPassword(ctx, api.ResetPasswordRequest{Token: user.ResetCode, Password: "newpass1"}))

	_, err = client.Login(ctx, api.LoginRequest{Email: "dave@example.com", Password: "newpass1"})
	assert.NoError(t, err)
}
