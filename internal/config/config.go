package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LevelForEnvironment(GetEnvWithDefault("APP_ENV", "development")))
}

// LevelForEnvironment maps APP_ENV values to a logrus level
func LevelForEnvironment(environment string) logrus.Level {
	switch environment {
	case "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		// Default to info level for other environments
		return logrus.InfoLevel
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port int    `json:"port"`
	Host string `json:"host"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBPath     string `json:"db_path"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret       string        `json:"jwt_secret"`
	ClientID        string        `json:"client_id"`
	ClientSecret    string        `json:"client_secret"`
	AccessTokenTTL  time.Duration `json:"access_token_ttl"`
	RefreshTokenTTL time.Duration `json:"refresh_token_ttl"`

	// Orders stay pending this long before the kitchen marks them done
	KitchenDelay time.Duration `json:"kitchen_delay"`

	// Client configuration
	APIURL         string        `json:"api_url"`
	RequestTimeout time.Duration `json:"request_timeout"`
	TokenStore     string        `json:"token_store"`
	TokenStorePath string        `json:"token_store_path"`
	RedisAddr      string        `json:"redis_addr"`
	SessionTTL     time.Duration `json:"session_ttl"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, DBDriver: %s, DBPath: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], LogLevel: %s, JWTSecret: [REDACTED], ClientID: %s, ClientSecret: [REDACTED], AccessTokenTTL: %s, RefreshTokenTTL: %s, KitchenDelay: %s, APIURL: %s, TokenStore: %s, RedisAddr: %s}",
		c.Port, c.Host, c.DBDriver, c.DBPath, c.DBHost, c.DBName, c.DBUser, c.LogLevel, c.ClientID,
		c.AccessTokenTTL, c.RefreshTokenTTL, c.KitchenDelay, c.APIURL, c.TokenStore, c.RedisAddr)
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// It also validates formats like the API URL and the token lifetimes
// Returns an error if any environment variable is invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	apiURL := GetEnvWithDefault("BURGER_API_URL", "http://localhost:8080/api")
	if _, err := url.ParseRequestURI(apiURL); err != nil {
		return nil, fmt.Errorf("invalid BURGER_API_URL format %q: %w", apiURL, err)
	}

	config := &Config{
		Port:            port,
		Host:            GetEnvWithDefault("APP_HOST", "localhost"),
		DBDriver:        GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBPath:          GetEnvWithDefault("DB_PATH", "burger.sqlite"),
		DBHost:          GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:          GetEnvWithDefault("DB_PORT", "5432"),
		DBName:          GetEnvWithDefault("DB_NAME", "burgers"),
		DBUser:          GetEnvWithDefault("DB_USER", "user"),
		DBPassword:      GetEnvWithDefault("DB_PASSWORD", "password"),
		LogLevel:        GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:       GetEnvWithDefault("JWT_SECRET", "secret"),
		ClientID:        GetEnvWithDefault("OAUTH_CLIENT_ID", "burger-web"),
		ClientSecret:    GetEnvWithDefault("OAUTH_CLIENT_SECRET", "burger-web-secret"),
		AccessTokenTTL:  GetEnvAsType("ACCESS_TOKEN_TTL", 20*time.Minute),
		RefreshTokenTTL: GetEnvAsType("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		KitchenDelay:    GetEnvAsType("KITCHEN_DELAY", 15*time.Second),
		APIURL:          apiURL,
		RequestTimeout:  GetEnvAsType("REQUEST_TIMEOUT", 10*time.Second),
		TokenStore:      GetEnvWithDefault("TOKEN_STORE", "sqlite"),
		TokenStorePath:  GetEnvWithDefault("TOKEN_STORE_PATH", "burgerctl.sqlite"),
		RedisAddr:       GetEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		SessionTTL:      GetEnvAsType("SESSION_TTL", 20*time.Minute),
	}

	if config.AccessTokenTTL <= 0 || config.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	case time.Duration:
		duration, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return any(duration).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
