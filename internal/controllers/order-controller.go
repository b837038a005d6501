package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/api"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/middleware"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/services"
)

// OrderController handles HTTP requests related to orders
type OrderController interface {
	// GetFeed returns the public feed
	GetFeed(c *gin.Context)
	// GetUserOrders returns the orders of the authenticated user
	GetUserOrders(c *gin.Context)
	// GetOrderByNumber returns one order by its number
	GetOrderByNumber(c *gin.Context)
	// CreateOrder places an order for the authenticated user
	CreateOrder(c *gin.Context)
}

type orderController struct {
	service services.OrderService
}

// NewOrderController creates a new instance of OrderController
func NewOrderController(service services.OrderService) OrderController {
	return &orderController{service: service}
}

// GetFeed godoc
// @Summary Get the public order feed
// @Description The latest orders of every customer with the all time and today counters
// @Tags orders
// @Produce json
// @Success 200 {object} api.FeedResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/orders/all [get]
func (c *orderController) GetFeed(ctx *gin.Context) {
	feed, err := c.service.GetFeed(ctx.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to load feed")
		respondError(ctx, http.StatusInternalServerError, models.MsgInternal)
		return
	}
	ctx.JSON(http.StatusOK, api.FeedResponse{Success: true, Feed: feed})
}

// GetUserOrders godoc
// @Summary Get my orders
// @Description The orders placed by the authenticated user
// @Tags orders
// @Produce json
// @Success 200 {object} api.FeedResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/orders [get]
func (c *orderController) GetUserOrders(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		respondError(ctx, http.StatusUnauthorized, models.MsgUnauthorized)
		return
	}

	feed, err := c.service.GetUserOrders(ctx.Request.Context(), userID)
	if err != nil {
		log.WithError(err).Error("Failed to load user orders")
		respondError(ctx, http.StatusInternalServerError, models.MsgInternal)
		return
	}
	ctx.JSON(http.StatusOK, api.FeedResponse{Success: true, Feed: feed})
}

// GetOrderByNumber godoc
// @Summary Get order by number
// @Description Look an order up by its public number
// @Tags orders
// @Produce json
// @Param number path int true "Order number"
// @Success 200 {object} api.OrdersResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/orders/{number} [get]
func (c *orderController) GetOrderByNumber(ctx *gin.Context) {
	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil || number <= 0 {
		respondError(ctx, http.StatusBadRequest, "Invalid order number")
		return
	}

	order, err := c.service.GetOrderByNumber(ctx.Request.Context(), number)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			respondError(ctx, http.StatusNotFound, models.MsgOrderNotFound)
			return
		}
		log.WithError(err).Error("Failed to load order")
		respondError(ctx, http.StatusInternalServerError, models.MsgInternal)
		return
	}
	ctx.JSON(http.StatusOK, api.OrdersResponse{Success: true, Orders: []models.Order{*order}})
}

// CreateOrder godoc
// @Summary Place an order
// @Description Order a burger made of the given catalog ids, bun first and last
// @Tags orders
// @Accept json
// @Produce json
// @Param order body api.CreateOrderRequest true "Ingredient ids"
// @Success 200 {object} api.NewOrderResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/orders [post]
func (c *orderController) CreateOrder(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		respondError(ctx, http.StatusUnauthorized, models.MsgUnauthorized)
		return
	}

	var req api.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, models.MsgIngredientsMissing)
		return
	}

	order, err := c.service.CreateOrder(ctx.Request.Context(), userID, req.Ingredients)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIngredientsMissing):
			respondError(ctx, http.StatusBadRequest, models.MsgIngredientsMissing)
		case errors.Is(err, services.ErrUnknownIngredient):
			respondError(ctx, http.StatusBadRequest, models.MsgUnknownIngredient)
		case errors.Is(err, services.ErrBunRequired):
			respondError(ctx, http.StatusBadRequest, models.MsgBunRequired)
		default:
			log.WithError(err).Error("Failed to create order")
			respondError(ctx, http.StatusInternalServerError, models.MsgInternal)
		}
		return
	}
	ctx.JSON(http.StatusOK, api.NewOrderResponse{Success: true, Name: order.Name, Order: order})
}
