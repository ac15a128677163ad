package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		JWTSecret:                "secure-secret-at-least-32-chars-long",
		DBPassword:               "secure-password",
		Port:                     "8080",
		DBSSLMode:                "require",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           2,
		DBConnMaxLifetimeMinutes: 1,
		ImportBatchSize:          100,
		TracingSamplerRatio:      1,
		RedisURL:                 "redis://localhost:6379",
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Port = "" }},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }},
		{"negative pool", func(c *Config) { c.DBMaxOpenConns = -1 }},
		{"zero lifetime", func(c *Config) { c.DBConnMaxLifetimeMinutes = 0 }},
		{"zero batch", func(c *Config) { c.ImportBatchSize = 0 }},
		{"sampler out of range", func(c *Config) { c.TracingSamplerRatio = 1.5 }},
		{"default secret in production", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = DefaultJWTSecret
		}},
		{"weak db password in production", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("IMPORT_BATCH_SIZE", "250")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 250, c.ImportBatchSize)
	assert.Equal(t, "8375", c.Port)
	assert.Equal(t, 300, c.ReportCacheTTLSeconds)
	assert.False(t, c.IsProduction())
}
