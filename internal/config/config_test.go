package config

import (
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvWithDefault(t *testing.T) {
	testCases := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "should return env value when set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "from_env",
			expected:     "from_env",
		},
		{
			name:         "should return default when env not set",
			key:          "MISSING_KEY",
			defaultValue: "default_value",
			envValue:     "",
			expected:     "default_value",
		},
		{
			name:         "should return empty string default",
			key:          "EMPTY_KEY",
			defaultValue: "",
			envValue:     "",
			expected:     "",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
			}

			assert.Equal(t, tt.expected, GetEnvWithDefault(tt.key, tt.defaultValue))
		})
	}
}

func TestGetEnvAsType(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_BAD_DURATION", "soon")

	assert.Equal(t, 42, GetEnvAsType("TEST_INT", 0))
	assert.True(t, GetEnvAsType("TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, GetEnvAsType("TEST_DURATION", time.Minute))
	assert.Equal(t, time.Minute, GetEnvAsType("TEST_BAD_DURATION", time.Minute))
	assert.Equal(t, "fallback", GetEnvAsType("TEST_UNSET_STRING", "fallback"))
}

func TestLevelForEnvironment(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, LevelForEnvironment("development"))
	assert.Equal(t, logrus.ErrorLevel, LevelForEnvironment("production"))
	assert.Equal(t, logrus.InfoLevel, LevelForEnvironment("staging"))
}

func TestLoadConfig(t *testing.T) {
	t.Run("successful config load with all env vars", func(t *testing.T) {
		t.Setenv("APP_PORT", "9000")
		t.Setenv("APP_HOST", "0.0.0.0")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("JWT_SECRET", "super_secret_jwt_key")
		t.Setenv("BURGER_API_URL", "https://burgers.example.com/api")
		t.Setenv("ACCESS_TOKEN_TTL", "5m")
		t.Setenv("KITCHEN_DELAY", "1s")

		config, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, 9000, config.Port)
		assert.Equal(t, "0.0.0.0", config.Host)
		assert.Equal(t, "debug", config.LogLevel)
		assert.Equal(t, "https://burgers.example.com/api", config.APIURL)
		assert.Equal(t, 5*time.Minute, config.AccessTokenTTL)
		assert.Equal(t, time.Second, config.KitchenDelay)
	})

	t.Run("should fail with invalid port", func(t *testing.T) {
		t.Setenv("APP_PORT", "not_a_number")

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
	})

	t.Run("should fail with invalid api url", func(t *testing.T) {
		t.Setenv("BURGER_API_URL", "not a url")

		config, err := LoadConfig()

		assert.Error(t, err)
		assert.Nil(t, config)
	})

	t.Run("should use defaults when optional env vars not set", func(t *testing.T) {
		for _, v := range []string{"APP_PORT", "APP_HOST", "LOG_LEVEL", "BURGER_API_URL", "ACCESS_TOKEN_TTL", "TOKEN_STORE", "KITCHEN_DELAY"} {
			os.Unsetenv(v)
		}

		config, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, 8080, config.Port)
		assert.Equal(t, "localhost", config.Host)
		assert.Equal(t, "info", config.LogLevel)
		assert.Equal(t, 20*time.Minute, config.AccessTokenTTL)
		assert.Equal(t, "sqlite", config.TokenStore)
		assert.Equal(t, 15*time.Second, config.KitchenDelay)
	})

	t.Run("string masks secrets", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "do-not-print")
		t.Setenv("DB_PASSWORD", "hunter2")

		config, err := LoadConfig()
		require.NoError(t, err)

		assert.NotContains(t, config.String(), "do-not-print")
		assert.NotContains(t, config.String(), "hunter2")
	})
}

// Benchmark tests (optional but good practice)
func BenchmarkGetEnvWithDefault(b *testing.B) {
	os.Setenv("BENCH_KEY", "test_value")
	defer os.Unsetenv("BENCH_KEY")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GetEnvWithDefault("BENCH_KEY", "default")
	}
}
