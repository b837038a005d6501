package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/config"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/database"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/server"
	"github.com/franciscosanchezn/gin-burger-constructor/internal/services"
)

func main() {
	// Parse command line flags
	email := flag.String("email", "dev@burger.local", "User email")
	name := flag.String("name", "Dev User", "User name")
	password := flag.String("password", "dev-password", "User password")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.InitDatabase(database.FromConfig(cfg))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db, server.Models()...); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	ctx := context.Background()
	if _, err := services.NewClientService(db).EnsureClient(ctx, cfg.ClientID, cfg.ClientSecret, "Burger web"); err != nil {
		log.Fatal("Failed to create client:", err)
	}

	user, err := services.NewUserService(db).Register(ctx, *email, *name, *password)
	switch {
	case errors.Is(err, services.ErrUserExists):
		fmt.Printf("Development user %s already exists\n", *email)
	case err != nil:
		log.Fatal("Failed to create user:", err)
	default:
		fmt.Printf("✓ Development user created: %s (ID: %d)\n", user.Email, user.ID)
	}

	fmt.Println("\nUse these credentials for testing:")
	fmt.Printf("curl -X POST http://%s:%d/oauth/token \\\n", cfg.Host, cfg.Port)
	fmt.Printf("  -d 'grant_type=password' \\\n")
	fmt.Printf("  -d 'client_id=%s' \\\n", cfg.ClientID)
	fmt.Printf("  -d 'client_secret=%s' \\\n", cfg.ClientSecret)
	fmt.Printf("  -d 'username=%s' \\\n", *email)
	fmt.Printf("  -d 'password=%s'\n", *password)
}
