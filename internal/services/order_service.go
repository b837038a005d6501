package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

var (
	ErrIngredientsMissing = errors.New("ingredients_missing")
	ErrUnknownIngredient  = errors.New("unknown_ingredient")
	ErrBunRequired        = errors.New("bun_required")
	ErrOrderNotFound      = errors.New("order_not_found")
)

// FeedLimit is how many of the latest orders the public feed shows
const FeedLimit = 50

// OrderService places orders and serves the order feeds
type OrderService interface {
	// GetFeed returns the latest orders with the all time and today counters
	GetFeed(ctx context.Context) (models.Feed, error)
	// GetUserOrders returns the orders of a user, newest first
	GetUserOrders(ctx context.Context, userID uint) (models.Feed, error)
	// GetOrderByNumber looks an order up by its public number
	GetOrderByNumber(ctx context.Context, number int) (*models.Order, error)
	// CreateOrder validates the ingredient ids and places a pending order
	CreateOrder(ctx context.Context, userID uint, ingredientIDs []string) (*models.Order, error)
	// CompletePending marks as done the pending orders created before cutoff
	CompletePending(ctx context.Context, cutoff time.Time) (int64, error)
}

// numberAttempts bounds how often CreateOrder retries when a concurrent
// insert took the number it picked
const numberAttempts = 3

type orderService struct {
	db          *gorm.DB
	ingredients IngredientService
	now         func() time.Time
	nextNumber  func(tx *gorm.DB) (int, error)
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(db *gorm.DB, ingredients IngredientService) OrderService {
	return &orderService{db: db, ingredients: ingredients, now: time.Now, nextNumber: nextOrderNumber}
}

func (s *orderService) GetFeed(ctx context.Context) (models.Feed, error) {
	db := s.db.WithContext(ctx)
	feed := models.Feed{Orders: []models.Order{}}

	if err := db.Order("number DESC").Limit(FeedLimit).Find(&feed.Orders).Error; err != nil {
		return models.Feed{}, err
	}

	var total, today int64
	if err := db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return models.Feed{}, err
	}
	if err := db.Model(&models.Order{}).Where("created_at >= ?", startOfDay(s.now())).Count(&today).Error; err != nil {
		return models.Feed{}, err
	}
	feed.Total = int(total)
	feed.TotalToday = int(today)
	return feed, nil
}

func (s *orderService) GetUserOrders(ctx context.Context, userID uint) (models.Feed, error) {
	feed := models.Feed{Orders: []models.Order{}}
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", userID).
		Order("number DESC").
		Find(&feed.Orders).Error
	if err != nil {
		return models.Feed{}, err
	}
	feed.Total = len(feed.Orders)
	today := startOfDay(s.now())
	for _, o := range feed.Orders {
		if !o.CreatedAt.Before(today) {
			feed.TotalToday++
		}
	}
	return feed, nil
}

func (s *orderService) GetOrderByNumber(ctx context.Context, number int) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Where("number = ?", number).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *orderService) CreateOrder(ctx context.Context, userID uint, ingredientIDs []string) (*models.Order, error) {
	if len(ingredientIDs) == 0 {
		return nil, ErrIngredientsMissing
	}

	known, err := s.ingredients.GetIngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, err
	}
	hasBun := false
	for _, id := range ingredientIDs {
		ing, ok := known[id]
		if !ok {
			return nil, ErrUnknownIngredient
		}
		hasBun = hasBun || ing.Type.IsFrame()
	}
	if !hasBun {
		return nil, ErrBunRequired
	}

	order := &models.Order{
		ID:          uuid.NewString(),
		Status:      models.OrderStatusPending,
		Name:        burgerName(ingredientIDs, known),
		Ingredients: ingredientIDs,
		OwnerID:     userID,
	}

	for attempt := 1; ; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			number, err := s.nextNumber(tx)
			if err != nil {
				return err
			}
			order.Number = number
			return tx.Create(order).Error
		})
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == numberAttempts {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"number":  order.Number,
			"attempt": attempt,
		}).Debug("Order number taken, retrying")
	}

	log.WithFields(logrus.Fields{
		"number":  order.Number,
		"user_id": userID,
		"items":   len(ingredientIDs),
	}).Info("Order created")
	return order, nil
}

// nextOrderNumber returns the number following the highest one in use
func nextOrderNumber(tx *gorm.DB) (int, error) {
	var last struct{ Max int }
	if err := tx.Model(&models.Order{}).Select("COALESCE(MAX(number), 0) AS max").Scan(&last).Error; err != nil {
		return 0, err
	}
	return last.Max + 1, nil
}

func (s *orderService) CompletePending(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("status = ? AND created_at < ?", models.OrderStatusPending, cutoff).
		Update("status", models.OrderStatusDone)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		log.WithField("count", result.RowsAffected).Debug("Pending orders completed")
	}
	return result.RowsAffected, nil
}

// burgerName derives a display name from the distinct ingredients in build
// order: the first word of each name followed by "burger"
func burgerName(ids []string, known map[string]models.Ingredient) string {
	seen := map[string]bool{}
	var words []string
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		fields := strings.Fields(known[id].Name)
		if len(fields) == 0 {
			continue
		}
		words = append(words, strings.ToLower(fields[0]))
	}
	name := strings.Join(append(words, "burger"), " ")
	return strings.ToUpper(name[:1]) + name[1:]
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
