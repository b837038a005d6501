package store

import (
	"context"
	"errors"
	"slices"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

const (
	OpFetchFeed          = "orders/fetchOrders"
	OpFetchUserOrders    = "orders/fetchUserOrders"
	OpFetchOrderByNumber = "orders/fetchOrderByNumber"
	OpCreateOrder        = "orders/createOrder"

	msgOrdersFailed      = "Failed to load orders"
	msgOrderFailed       = "Failed to load order"
	msgCreateOrderFailed = "Failed to create order"
)

// ErrCannotSubmit is returned by SubmitConstruction when the construction
// lacks a bun or has no fillings
var ErrCannotSubmit = errors.New("construction needs a bun and at least one filling")

// OrdersState holds the public feed, the user's own orders and the order in
// focus. Loading and Error are shared by all four operations of the slice.
type OrdersState struct {
	Orders       []models.Order
	UserOrders   []models.Order
	Total        int
	TotalToday   int
	CurrentOrder *models.Order
	Loading      bool
	Error        string
	Requests     Requests
}

// ClearOrdersError resets the orders error
type ClearOrdersError struct{}

func (ClearOrdersError) ActionType() string { return "orders/clearError" }

// ClearCurrentOrder drops the order in focus
type ClearCurrentOrder struct{}

func (ClearCurrentOrder) ActionType() string { return "orders/clearCurrentOrder" }

// phase applies the shared pending/rejected bookkeeping and reports whether
// the payload should be applied
func (s *OrdersState) phase(p Phase, message string) bool {
	switch p {
	case PhasePending:
		s.Loading = true
		s.Error = ""
	case PhaseFulfilled:
		s.Loading = false
		return true
	case PhaseRejected:
		s.Loading = false
		s.Error = message
	}
	return false
}

func reduceOrders(s *OrdersState, action Action) *OrdersState {
	switch a := action.(type) {
	case ClearOrdersError:
		if s.Error == "" {
			return s
		}
		next := *s
		next.Error = ""
		return &next

	case ClearCurrentOrder:
		if s.CurrentOrder == nil {
			return s
		}
		next := *s
		next.CurrentOrder = nil
		return &next

	case AsyncAction[models.Feed]:
		if a.Op != OpFetchFeed {
			return s
		}
		next := *s
		next.Requests = track(s.Requests, a)
		if next.phase(a.Phase, a.Error) {
			next.Orders = a.Payload.Orders
			next.Total = a.Payload.Total
			next.TotalToday = a.Payload.TotalToday
		}
		return &next

	case AsyncAction[[]models.Order]:
		if a.Op != OpFetchUserOrders {
			return s
		}
		next := *s
		next.Requests = track(s.Requests, a)
		if next.phase(a.Phase, a.Error) {
			next.UserOrders = a.Payload
		}
		return &next

	case AsyncAction[*models.Order]:
		next := *s
		switch a.Op {
		case OpFetchOrderByNumber:
			next.Requests = track(s.Requests, a)
			if next.phase(a.Phase, a.Error) {
				next.CurrentOrder = a.Payload
			}
		case OpCreateOrder:
			next.Requests = track(s.Requests, a)
			if next.phase(a.Phase, a.Error) {
				next.CurrentOrder = a.Payload
				if a.Payload != nil {
					next.UserOrders = slices.Insert(slices.Clone(s.UserOrders), 0, *a.Payload)
				}
			}
		default:
			return s
		}
		return &next
	}
	return s
}

// FetchFeed loads the public order feed with its counters
func (s *Store) FetchFeed(ctx context.Context) error {
	_, err := runAsync(ctx, s, OpFetchFeed, msgOrdersFailed, s.api.GetFeed)
	return err
}

// FetchUserOrders loads the orders of the logged in user
func (s *Store) FetchUserOrders(ctx context.Context) error {
	_, err := runAsync(ctx, s, OpFetchUserOrders, msgOrdersFailed, s.api.GetUserOrders)
	return err
}

// FetchOrderByNumber focuses the order with the given number
func (s *Store) FetchOrderByNumber(ctx context.Context, number int) error {
	_, err := runAsync(ctx, s, OpFetchOrderByNumber, msgOrderFailed, func(ctx context.Context) (*models.Order, error) {
		orders, err := s.api.GetOrderByNumber(ctx, number)
		if err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			return nil, nil
		}
		order := orders[0]
		return &order, nil
	})
	return err
}

// SubmitOrder places an order for the given catalog ingredient ids and,
// on success, puts it in focus and at the head of the user's orders
func (s *Store) SubmitOrder(ctx context.Context, ingredientIDs []string) (*models.Order, error) {
	return runAsync(ctx, s, OpCreateOrder, msgCreateOrderFailed, func(ctx context.Context) (*models.Order, error) {
		return s.api.SubmitOrder(ctx, ingredientIDs)
	})
}

// SubmitConstruction orders the current construction. The construction is
// left as is; clearing it after success is up to the caller.
func (s *Store) SubmitConstruction(ctx context.Context) (*models.Order, error) {
	constructor := s.State().Constructor
	if constructor.Bun == nil || len(constructor.Ingredients) == 0 {
		return nil, ErrCannotSubmit
	}
	return s.SubmitOrder(ctx, OrderIngredientIDs(constructor))
}

// OrderIngredientIDs lists the catalog ids to send for a construction: the
// bun first and last with the fillings in between
func OrderIngredientIDs(c *ConstructorState) []string {
	ids := make([]string, 0, len(c.Ingredients)+2)
	if c.Bun != nil {
		ids = append(ids, c.Bun.ID)
	}
	for _, item := range c.Ingredients {
		ids = append(ids, item.ID)
	}
	if c.Bun != nil {
		ids = append(ids, c.Bun.ID)
	}
	return ids
}

// ClearOrdersError dispatches ClearOrdersError
func (s *Store) ClearOrdersError() {
	s.Dispatch(ClearOrdersError{})
}

// ClearCurrentOrder dispatches ClearCurrentOrder
func (s *Store) ClearCurrentOrder() {
	s.Dispatch(ClearCurrentOrder{})
}
