package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8470", cfg.Port)
	assert.Equal(t, "inkwell", cfg.DBName)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestValidate_Production(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "default jwt secret rejected",
			mutate:  func(c *Config) {},
			wantErr: "JWT_SECRET must be changed",
		},
		{
			name: "short jwt secret rejected",
			mutate: func(c *Config) {
				c.JWTSecret = "short"
			},
			wantErr: "at least 32 characters",
		},
		{
			name: "default db password rejected",
			mutate: func(c *Config) {
				c.JWTSecret = "0123456789abcdef0123456789abcdef"
				c.DBPassword = "password"
			},
			wantErr: "DB_PASSWORD",
		},
		{
			name: "strong values accepted",
			mutate: func(c *Config) {
				c.JWTSecret = "0123456789abcdef0123456789abcdef"
				c.DBPassword = "s3cure-enough"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:      "8470",
				JWTSecret: "your-secret-key-change-in-production",
				Env:       "production",
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	cfg := &Config{JWTSecret: "x"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Port: "8470"}
	assert.Error(t, cfg.Validate())
}
