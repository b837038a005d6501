// Package server assembles the burger API: persistence, token issuing,
// services and the gin router
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/auth"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/config"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/controllers"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/database"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/middleware"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/services"
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

// Models lists every table the API owns
func Models() []interface{} {
	return []interface{}{
		&models.Ingredient{},
		&models.Order{},
		&models.User{},
		&models.OAuthClient{},
		&models.OAuthToken{},
	}
}

// Server holds the wired API
type Server struct {
	db     *gorm.DB
	router *gin.Engine
	oauth  *auth.OAuthService
	orders services.OrderService
}

// New migrates the schema, seeds the catalog and the first party client and
// builds the router
func New(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Server, error) {
	if err := database.Migrate(db, Models()...); err != nil {
		return nil, err
	}

	ingredientService := services.NewIngredientService(db)
	if _, err := ingredientService.SeedIngredients(ctx, services.DefaultIngredients()); err != nil {
		return nil, err
	}

	clientService := services.NewClientService(db)
	if _, err := clientService.EnsureClient(ctx, cfg.ClientID, cfg.ClientSecret, "Burger web"); err != nil {
		return nil, err
	}

	userService := services.NewUserService(db)
	orderService := services.NewOrderService(db, ingredientService)

	oauthService := auth.NewOAuthService(db, auth.Settings{
		JWTSecret:       cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	}, func(ctx context.Context, email, password string) (uint, error) {
		user, err := userService.Authenticate(ctx, email, password)
		if err != nil {
			return 0, err
		}
		return user.ID, nil
	})

	s := &Server{
		db:     db,
		oauth:  oauthService,
		orders: orderService,
	}
	s.router = setupRouter(routes{
		jwtSecret:   []byte(cfg.JWTSecret),
		oauth:       oauthService,
		ingredients: controllers.NewIngredientController(ingredientService),
		orders:      controllers.NewOrderController(orderService),
		auth:        controllers.NewAuthController(userService, oauthService, cfg.ClientID, cfg.ClientSecret),
	})
	return s, nil
}

// Router returns the HTTP handler of the API
func (s *Server) Router() *gin.Engine {
	return s.router
}

// ShutdownTimeout bounds how long in-flight requests may take once the
// server is asked to stop
const ShutdownTimeout = 10 * time.Second

// ListenAndServe serves the API on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves the API on ln. When ctx is cancelled the server stops
// accepting connections, drains in-flight requests and Serve returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.WithField("addr", ln.Addr().String()).Info("Server starting")
		errs <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("Server exited gracefully")
	return nil
}

// RunKitchen marks pending orders as done once they are older than delay and
// purges expired token pairs, until ctx is cancelled
func (s *Server) RunKitchen(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	ticker := time.NewTicker(delay / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := s.orders.CompletePending(ctx, now.Add(-delay)); err != nil {
				log.WithError(err).Warn("Failed to complete pending orders")
			}
			if purged, err := s.oauth.TokenStore().PurgeExpired(ctx, now); err != nil {
				log.WithError(err).Warn("Failed to purge expired tokens")
			} else if purged > 0 {
				log.WithField("count", purged).Debug("Expired tokens purged")
			}
		}
	}
}

type routes struct {
	jwtSecret   []byte
	oauth       *auth.OAuthService
	ingredients controllers.IngredientController
	orders      controllers.OrderController
	auth        *controllers.AuthController
}

// setupRouter initializes the Gin router and sets up the routes
func setupRouter(r routes) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	router.GET("/health", healthCheckHandler)
	router.POST("/oauth/token", r.oauth.HandleToken)

	requireAuth := middleware.RequireAuth(r.jwtSecret)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/ingredients", r.ingredients.GetIngredients)

		orders := apiGroup.Group("/orders")
		{
			orders.GET("/all", r.orders.GetFeed)
			orders.GET("/:number", r.orders.GetOrderByNumber)
			orders.GET("", requireAuth, r.orders.GetUserOrders)
			orders.POST("", requireAuth, r.orders.CreateOrder)
		}

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", r.auth.Register)
			authGroup.POST("/login", r.auth.Login)
			authGroup.POST("/logout", r.auth.Logout)
			authGroup.POST("/token", r.auth.Token)
			authGroup.GET("/user", requireAuth, r.auth.GetUser)
			authGroup.PATCH("/user", requireAuth, r.auth.UpdateUser)
		}

		apiGroup.POST("/password-reset", r.auth.ForgotPassword)
		apiGroup.POST("/password-reset/reset", r.auth.ResetPassword)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return router
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "burgerd",
	})
}
