package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productionConfig() *Config {
	return &Config{
		Env:                "production",
		Port:               "8080",
		JWTSecret:          "secure-secret-at-least-32-chars-long",
		DBPassword:         "secure-password",
		DBSSLMode:          "require",
		GoogleClientID:     "client",
		GoogleClientSecret: "secret",
	}
}

func TestConfig_ValidateProduction(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid production config", func(c *Config) {}, false},
		{"default secret", func(c *Config) { c.JWTSecret = DefaultJWTSecret }, true},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"default db password", func(c *Config) { c.DBPassword = "password" }, true},
		{"ssl disabled", func(c *Config) { c.DBSSLMode = "disable" }, true},
		{"missing google credentials", func(c *Config) { c.GoogleClientSecret = "" }, true},
		{"dev login left on", func(c *Config) { c.DevLoginEmail = "dev@tingle.local" }, true},
		{"development tolerates defaults", func(c *Config) {
			c.Env = "development"
			c.JWTSecret = DefaultJWTSecret
			c.DBSSLMode = "disable"
			c.GoogleClientID = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := productionConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_DevLoginEnabled(t *testing.T) {
	c := &Config{Env: "development", DevLoginEmail: "dev@tingle.local", DevLoginPassword: "pw"}
	assert.True(t, c.DevLoginEnabled())

	c.Env = "production"
	assert.False(t, c.DevLoginEnabled())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	defer viper.Reset()
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_SSLMODE")
	defer os.Unsetenv("SESSION_TTL")

	os.Setenv("APP_ENV", "test")
	os.Setenv("DB_SSLMODE", "  DISABLE  ")
	os.Setenv("SESSION_TTL", "2h")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", c.Env)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 2*time.Hour, c.SessionTTL)
	assert.Equal(t, "tingle-api", c.JWTIssuer)
}
