package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                      "development",
		JWTSecret:                "secure-secret-at-least-32-chars-long",
		DBPassword:               "secure-password",
		DBSSLMode:                "require",
		Port:                     "8000",
		FactCheckTimeoutSeconds:  10,
		AIResponseTimeoutSeconds: 15,
		AITriggerToken:           "@checkAI",
		TracingSamplerRatio:      1,
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

func TestConfig_ValidateProductionSecrets(t *testing.T) {
	c := validConfig()
	c.Env = "production"
	c.JWTSecret = defaultJWTSecret
	assert.ErrorContains(t, c.Validate(), "JWT_SECRET")

	c = validConfig()
	c.Env = "production"
	c.JWTSecret = "short"
	assert.ErrorContains(t, c.Validate(), "32 characters")

	c = validConfig()
	c.Env = "production"
	c.DBPassword = "password"
	assert.ErrorContains(t, c.Validate(), "DB_PASSWORD")
}

func TestConfig_ValidateAISettings(t *testing.T) {
	c := validConfig()
	c.FactCheckTimeoutSeconds = 0
	assert.ErrorContains(t, c.Validate(), "FACT_CHECK_TIMEOUT_SECONDS")

	c = validConfig()
	c.AIResponseTimeoutSeconds = -1
	assert.ErrorContains(t, c.Validate(), "AI_RESPONSE_TIMEOUT_SECONDS")

	c = validConfig()
	c.AITriggerToken = "   "
	assert.ErrorContains(t, c.Validate(), "AI_TRIGGER_TOKEN")

	c = validConfig()
	c.TracingSamplerRatio = 1.5
	assert.ErrorContains(t, c.Validate(), "TRACING_SAMPLER_RATIO")
}

func TestConfig_Timeouts(t *testing.T) {
	c := validConfig()
	assert.Equal(t, 10*time.Second, c.FactCheckTimeout())
	assert.Equal(t, 15*time.Second, c.AIResponseTimeout())
}

func TestLoadConfig_DefaultsAndNormalization(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("AI_TRIGGER_TOKEN", "@askAI")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "@askAI", cfg.AITriggerToken)
	assert.Equal(t, 10, cfg.FactCheckTimeoutSeconds)
	assert.Equal(t, 15, cfg.AIResponseTimeoutSeconds)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
	assert.True(t, cfg.SeedScenarios)
}
