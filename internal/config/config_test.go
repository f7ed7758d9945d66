package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("EMAIL_PROVIDER", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5, cfg.Auth.CodeGenerationRetries)
	assert.Equal(t, "console", cfg.Email.Provider)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiry)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("CODE_GENERATION_RETRIES", "9")
	t.Setenv("REDIS_EMBEDDED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 9, cfg.Auth.CodeGenerationRetries)
	assert.True(t, cfg.Redis.Embedded)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"resend without key", map[string]string{"EMAIL_PROVIDER": "resend", "RESEND_API_KEY": ""}},
		{"webhook without url", map[string]string{"EMAIL_PROVIDER": "webhook", "EMAIL_WEBHOOK_URL": ""}},
		{"unknown provider", map[string]string{"EMAIL_PROVIDER": "pigeon"}},
		{"zero retries", map[string]string{"CODE_GENERATION_RETRIES": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
