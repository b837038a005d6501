package selectors

import (
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/store"
)

func feedOf(s *store.State) []models.Order {
	return s.Orders.Orders
}

func filterByStatus(orders []models.Order, status string) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == status {
			out = append(out, order)
		}
	}
	return out
}

func withStatus(status string) func([]models.Order) []models.Order {
	return func(orders []models.Order) []models.Order {
		return filterByStatus(orders, status)
	}
}

var (
	ordersByStatus = createParamSelector(feedOf, sameSlice[models.Order], filterByStatus)
	readyOrders    = createSelector(feedOf, sameSlice[models.Order], withStatus(models.OrderStatusDone))
	pendingOrders  = createSelector(feedOf, sameSlice[models.Order], withStatus(models.OrderStatusPending))
)

// Orders returns the public feed
func Orders(s *store.State) []models.Order {
	return feedOf(s)
}

// UserOrders returns the orders of the logged in user, newest submission first
func UserOrders(s *store.State) []models.Order {
	return s.Orders.UserOrders
}

func CurrentOrder(s *store.State) *models.Order {
	return s.Orders.CurrentOrder
}

func OrdersLoading(s *store.State) bool {
	return s.Orders.Loading
}

func OrdersError(s *store.State) string {
	return s.Orders.Error
}

func Total(s *store.State) int {
	return s.Orders.Total
}

func TotalToday(s *store.State) int {
	return s.Orders.TotalToday
}

// OrdersByStatus filters the feed on an exact status value
func OrdersByStatus(s *store.State, status string) []models.Order {
	return ordersByStatus.Select(s, status)
}

// ReadyOrders returns the feed orders with status "done"
func ReadyOrders(s *store.State) []models.Order {
	return readyOrders.Select(s)
}

// PendingOrders returns the feed orders with status "pending"
func PendingOrders(s *store.State) []models.Order {
	return pendingOrders.Select(s)
}
