package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	_ "github.com/franciscosanchezn/gin-burger-constructor/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-burger-constructor/internal/auth"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/config"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/controllers"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/database"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/middleware"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/server"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/services"
)

// @title Burger API
// @version 1.0
// @description Catalog, orders and accounts for the burger constructor
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	logger := setUpLogger()

	// Load configuration
	configuration := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	dbConfig := database.FromConfig(configuration)
	db, err := database.InitDatabase(dbConfig)
	checkPanicErr(err)

	srv, err := server.New(ctx, db, configuration)
	checkPanicErr(err)

	go srv.RunKitchen(ctx, configuration.KitchenDelay)

	addr := fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		logger.WithError(err).Fatal("Server stopped")
	}
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger configures the standard logger from APP_ENV and hands it to
// every package that logs
func setUpLogger() *log.Logger {
	logger := log.StandardLogger()
	logger.SetFormatter(&log.JSONFormatter{})
	logger.SetLevel(config.LevelForEnvironment(config.GetEnvWithDefault("APP_ENV", "development")))

	auth.SetLogger(logger)
	controllers.SetLogger(logger)
	database.SetLogger(logger)
	middleware.SetLogger(logger)
	server.SetLogger(logger)
	services.SetLogger(logger)
	return logger
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}
