package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

func TestReduceIngredients_Lifecycle(t *testing.T) {
	catalog := []models.Ingredient{testBun, testMain}
	s := InitialState().Ingredients

	pending := reduceIngredients(s, Pending[[]models.Ingredient](OpFetchIngredients))
	assert.True(t, pending.Loading)
	assert.Empty(t, pending.Error)
	assert.Equal(t, PhasePending, pending.Requests.Status(OpFetchIngredients).Phase)

	done := reduceIngredients(pending, Fulfilled(OpFetchIngredients, catalog))
	assert.False(t, done.Loading)
	assert.Equal(t, catalog, done.Ingredients)

	failed := reduceIngredients(reduceIngredients(done, Pending[[]models.Ingredient](OpFetchIngredients)),
		Rejected[[]models.Ingredient](OpFetchIngredients, "boom"))
	assert.False(t, failed.Loading)
	assert.Equal(t, "boom", failed.Error)
	assert.Equal(t, catalog, failed.Ingredients, "rejection keeps the catalog")
	assert.Equal(t, RequestStatus{Phase: PhaseRejected, Error: "boom"}, failed.Requests.Status(OpFetchIngredients))

	// older snapshots keep their own request records
	assert.Equal(t, PhaseFulfilled, done.Requests.Status(OpFetchIngredients).Phase)

	cleared := reduceIngredients(failed, ClearIngredientsError{})
	assert.Empty(t, cleared.Error)
	assert.Same(t, cleared, reduceIngredients(cleared, ClearIngredientsError{}))
}

func TestReduceUser_CheckAuth(t *testing.T) {
	s := &UserState{Error: "stale"}

	pending := reduceUser(s, Pending[*models.Profile](OpCheckAuth))
	assert.Empty(t, pending.Error)
	assert.False(t, pending.IsAuthChecked)

	rejected := reduceUser(pending, Rejected[*models.Profile](OpCheckAuth, "jwt malformed"))
	assert.True(t, rejected.IsAuthChecked)
	assert.Nil(t, rejected.User)
	assert.Empty(t, rejected.Error, "an anonymous session is not an error")

	profile := &models.Profile{Email: "a@b.c", Name: "Ann"}
	fulfilled := reduceUser(pending, Fulfilled(OpCheckAuth, profile))
	assert.True(t, fulfilled.IsAuthChecked)
	assert.Equal(t, profile, fulfilled.User)
}

func TestReduceUser_LoginAndUpdate(t *testing.T) {
	s := &UserState{}

	failed := reduceUser(reduceUser(s, Pending[*models.Profile](OpLogin)), Rejected[*models.Profile](OpLogin, "bad credentials"))
	assert.Equal(t, "bad credentials", failed.Error)
	assert.False(t, failed.IsAuthChecked)

	retry := reduceUser(failed, Pending[*models.Profile](OpRegister))
	assert.Empty(t, retry.Error, "a new attempt clears the previous error")

	profile := &models.Profile{Email: "a@b.c", Name: "Ann"}
	in := reduceUser(retry, Fulfilled(OpRegister, profile))
	assert.True(t, in.IsAuthChecked)
	assert.Equal(t, profile, in.User)

	updatePending := reduceUser(&UserState{User: profile, Error: "old"}, Pending[*models.Profile](OpUpdateUser))
	assert.Equal(t, "old", updatePending.Error, "update has no pending handling")

	renamed := &models.Profile{Email: "a@b.c", Name: "Anna"}
	updated := reduceUser(in, Fulfilled(OpUpdateUser, renamed))
	assert.Equal(t, "Anna", updated.User.Name)

	updateFailed := reduceUser(in, Rejected[*models.Profile](OpUpdateUser, "Failed to update profile"))
	assert.Equal(t, profile, updateFailed.User)
	assert.Equal(t, "Failed to update profile", updateFailed.Error)
}

func TestReduceUser_Logout(t *testing.T) {
	s := &UserState{IsAuthChecked: true, User: &models.Profile{Name: "Ann"}}

	rejected := reduceUser(s, Rejected[logoutDone](OpLogout, "network down"))
	assert.NotNil(t, rejected.User, "a failed logout keeps the user")

	out := reduceUser(s, Fulfilled(OpLogout, logoutDone{}))
	assert.Nil(t, out.User)
	assert.True(t, out.IsAuthChecked)
}

func TestReduceOrders_SharedLoading(t *testing.T) {
	s := InitialState().Orders
	feed := models.Feed{Orders: []models.Order{{ID: "o1", Number: 1}}, Total: 10, TotalToday: 2}

	pending := reduceOrders(s, Pending[models.Feed](OpFetchFeed))
	assert.True(t, pending.Loading)

	done := reduceOrders(pending, Fulfilled(OpFetchFeed, feed))
	assert.False(t, done.Loading)
	assert.Equal(t, feed.Orders, done.Orders)
	assert.Equal(t, 10, done.Total)
	assert.Equal(t, 2, done.TotalToday)

	userFailed := reduceOrders(reduceOrders(done, Pending[[]models.Order](OpFetchUserOrders)),
		Rejected[[]models.Order](OpFetchUserOrders, "Failed to load orders"))
	assert.Equal(t, "Failed to load orders", userFailed.Error)
	assert.Equal(t, feed.Orders, userFailed.Orders)
	assert.Equal(t, PhaseRejected, userFailed.Requests.Status(OpFetchUserOrders).Phase)
	assert.Equal(t, PhaseFulfilled, userFailed.Requests.Status(OpFetchFeed).Phase)

	mine := []models.Order{{ID: "o9", Number: 9}}
	loaded := reduceOrders(done, Fulfilled(OpFetchUserOrders, mine))
	assert.Equal(t, mine, loaded.UserOrders)
}

func TestReduceOrders_Submit(t *testing.T) {
	s := InitialState().Orders
	s = reduceOrders(s, Fulfilled(OpFetchUserOrders, []models.Order{{ID: "old", Number: 1}}))

	order := &models.Order{ID: "new", Number: 2}
	created := reduceOrders(reduceOrders(s, Pending[*models.Order](OpCreateOrder)), Fulfilled(OpCreateOrder, order))
	assert.False(t, created.Loading)
	assert.Equal(t, order, created.CurrentOrder)
	require.Len(t, created.UserOrders, 2)
	assert.Equal(t, "new", created.UserOrders[0].ID)
	assert.Len(t, s.UserOrders, 1, "previous snapshot untouched")

	empty := reduceOrders(s, Fulfilled[*models.Order](OpCreateOrder, nil))
	assert.Nil(t, empty.CurrentOrder)
	assert.Len(t, empty.UserOrders, 1, "a nil order is not prepended")
}

func TestReduceOrders_CurrentOrder(t *testing.T) {
	s := InitialState().Orders
	order := &models.Order{ID: "o5", Number: 5}

	focused := reduceOrders(s, Fulfilled(OpFetchOrderByNumber, order))
	assert.Equal(t, order, focused.CurrentOrder)

	cleared := reduceOrders(focused, ClearCurrentOrder{})
	assert.Nil(t, cleared.CurrentOrder)
	assert.Same(t, cleared, reduceOrders(cleared, ClearCurrentOrder{}))

	failed := reduceOrders(s, Rejected[*models.Order](OpFetchOrderByNumber, "Failed to load order"))
	assert.Equal(t, "Failed to load order", failed.Error)
	assert.Empty(t, reduceOrders(failed, ClearOrdersError{}).Error)
}

func TestReduce_UnrelatedActionKeepsState(t *testing.T) {
	s := InitialState()

	assert.Same(t, s, Reduce(s, ClearUserError{}))
	assert.Same(t, s, Reduce(s, RemoveIngredient{InstanceID: "missing"}))
	assert.Same(t, s, Reduce(s, Fulfilled(OpFetchIngredients+"/other", []models.Ingredient{})))

	next := Reduce(s, NewAddIngredient(testMain, sequentialIDs()))
	assert.NotSame(t, s, next)
	assert.Same(t, s.User, next.User)
	assert.Same(t, s.Orders, next.Orders)
	assert.Same(t, s.Ingredients, next.Ingredients)
	assert.NotSame(t, s.Constructor, next.Constructor)
}

func TestAsyncActionType(t *testing.T) {
	assert.Equal(t, "orders/createOrder/pending", Pending[*models.Order](OpCreateOrder).ActionType())
	assert.Equal(t, "user/login/rejected", Rejected[*models.Profile](OpLogin, "x").ActionType())
}
