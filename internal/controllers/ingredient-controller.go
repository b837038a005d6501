package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/api"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/services"
)

// IngredientController handles HTTP requests related to the catalog
type IngredientController interface {
	// GetIngredients returns the whole catalog
	GetIngredients(c *gin.Context)
}

type ingredientController struct {
	service services.IngredientService
}

// NewIngredientController creates a new instance of IngredientController
func NewIngredientController(service services.IngredientService) IngredientController {
	return &ingredientController{service: service}
}

// GetIngredients godoc
// @Summary Get the ingredient catalog
// @Description List every bun, main filling and sauce that can go into a burger
// @Tags ingredients
// @Produce json
// @Success 200 {object} api.IngredientsResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/ingredients [get]
func (c *ingredientController) GetIngredients(ctx *gin.Context) {
	ingredients, err := c.service.GetAllIngredients(ctx.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to load ingredients")
		respondError(ctx, http.StatusInternalServerError, models.MsgInternal)
		return
	}
	ctx.JSON(http.StatusOK, api.IngredientsResponse{Success: true, Data: ingredients})
}
