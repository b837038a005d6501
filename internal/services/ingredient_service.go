package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
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

// IngredientService provides access to the ingredient catalog
type IngredientService interface {
	// GetAllIngredients returns the whole catalog
	GetAllIngredients(ctx context.Context) ([]models.Ingredient, error)
	// GetIngredientsByIDs returns the known ingredients among ids, keyed by id
	GetIngredientsByIDs(ctx context.Context, ids []string) (map[string]models.Ingredient, error)
	// SeedIngredients fills an empty catalog and reports how many rows were added
	SeedIngredients(ctx context.Context, ingredients []models.Ingredient) (int, error)
}

type ingredientService struct {
	db *gorm.DB
}

// NewIngredientService creates a new instance of IngredientService
func NewIngredientService(db *gorm.DB) IngredientService {
	return &ingredientService{db: db}
}

func (s *ingredientService) GetAllIngredients(ctx context.Context) ([]models.Ingredient, error) {
	ingredients := []models.Ingredient{}
	if err := s.db.WithContext(ctx).Order("type, name").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *ingredientService) GetIngredientsByIDs(ctx context.Context, ids []string) (map[string]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}
	return byID, nil
}

func (s *ingredientService) SeedIngredients(ctx context.Context, ingredients []models.Ingredient) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		log.WithField("count", count).Info("Catalog already seeded")
		return 0, nil
	}

	if err := s.db.WithContext(ctx).Create(&ingredients).Error; err != nil {
		return 0, err
	}
	log.WithField("count", len(ingredients)).Info("Catalog seeded")
	return len(ingredients), nil
}

// DefaultIngredients is the catalog a fresh server starts with
func DefaultIngredients() []models.Ingredient {
	const cdn = "https://code.s3.yandex.net/react/code/"
	item := func(id, name string, t models.IngredientType, proteins, fat, carbs, calories, price int, image string) models.Ingredient {
		return models.Ingredient{
			ID: id, Name: name, Type: t,
			Proteins: proteins, Fat: fat, Carbohydrates: carbs, Calories: calories, Price: price,
			Image:       cdn + image + ".png",
			ImageMobile: cdn + image + "-mobile.png",
			ImageLarge:  cdn + image + "-large.png",
		}
	}

	return []models.Ingredient{
		item("643d69a5c3f7b9001cfa093c", "Crater bun N-200i", models.IngredientBun, 80, 24, 53, 420, 1255, "bun-02"),
		item("643d69a5c3f7b9001cfa093d", "Fluorescent bun R2-D3", models.IngredientBun, 44, 26, 85, 643, 988, "bun-01"),
		item("643d69a5c3f7b9001cfa093e", "Luminescent tetraodontimform fillet", models.IngredientMain, 44, 26, 85, 643, 988, "meat-03"),
		item("643d69a5c3f7b9001cfa0940", "Beef meteorite (chop)", models.IngredientMain, 800, 800, 300, 2674, 3000, "meat-04"),
		item("643d69a5c3f7b9001cfa0941", "Martian magnolia bio-cutlet", models.IngredientMain, 420, 142, 242, 4242, 424, "meat-01"),
		item("643d69a5c3f7b9001cfa0947", "Fallenian tree fruits", models.IngredientMain, 20, 5, 55, 77, 874, "sp_1"),
		item("643d69a5c3f7b9001cfa0942", "Spicy-X sauce", models.IngredientSauce, 30, 20, 40, 30, 90, "sauce-02"),
		item("643d69a5c3f7b9001cfa0943", "Space Sauce", models.IngredientSauce, 50, 22, 11, 14, 80, "sauce-04"),
		item("643d69a5c3f7b9001cfa0945", "Antarian flat-walker spike sauce", models.IngredientSauce, 101, 99, 100, 100, 88, "sauce-01"),
	}
}
