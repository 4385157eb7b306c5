package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasandag/auth-service/internal/core/domain"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": secret,
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "auth-service", cfg.JWT.Issuer)
	assert.Equal(t, 5, cfg.Auth.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.Lockout)
	assert.False(t, cfg.Auth.StrictRoles)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, []domain.RoleName{
		domain.RoleUser, domain.RoleAdmin, domain.RoleInstructor, domain.RoleModerator,
	}, cfg.RoleNames())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      secret,
		"STORE_DRIVER":    "postgres",
		"JWT_TTL":         "1h",
		"STRICT_ROLES":    "true",
		"CANONICAL_ROLES": "ROLE_USER,ROLE_ADMIN",
		"CORS_ORIGINS":    "https://a.example,https://b.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.True(t, cfg.Auth.StrictRoles)
	assert.Equal(t, []domain.RoleName{domain.RoleUser, domain.RoleAdmin}, cfg.RoleNames())
	assert.Len(t, cfg.HTTP.CORSOrigins, 2)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET"},
		{"short secret", map[string]string{"JWT_SECRET": "short"}, "JWT_SECRET"},
		{"bad driver", map[string]string{"JWT_SECRET": secret, "STORE_DRIVER": "sqlite"}, "STORE_DRIVER"},
		{"bad role", map[string]string{"JWT_SECRET": secret, "CANONICAL_ROLES": "ROLE_USER,ROLE_ROOT"}, "ROLE_ROOT"},
		{"bad cost", map[string]string{"JWT_SECRET": secret, "BCRYPT_COST": "2"}, "BCRYPT_COST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
