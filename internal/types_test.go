package internal

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func process(t *testing.T, env map[string]string) Settings {
	t.Helper()

	var settings Settings
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &settings,
		Lookuper: envconfig.MapLookuper(env),
	})
	require.NoError(t, err)
	return settings
}

func TestSettingsDefaults(t *testing.T) {
	settings := process(t, map[string]string{})

	assert.Equal(t, ":8080", settings.HTTP_ADDR)
	assert.Equal(t, BackendFile, settings.TOKEN_BACKEND)
	assert.Equal(t, "./tokens.toml", settings.TOKENS_FILE)
	assert.Equal(t, 5*time.Second, settings.CONFIG_RELOAD_TIME)
	assert.Equal(t, "production", settings.SENTRY_ENVIRONMENT)
	assert.Empty(t, settings.TRUSTED_PROXIES)
	assert.NoError(t, settings.Validate())
}

func TestSettingsFromEnv(t *testing.T) {
	settings := process(t, map[string]string{
		"TRUSTED_PROXIES": "10.0.0.1,10.0.0.2",
		"TOKEN_BACKEND":   BackendJWT,
		"JWT_SECRET":      "s3cr3t",
	})

	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, settings.TRUSTED_PROXIES)
	assert.NoError(t, settings.Validate())
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{
			name:     "file backend",
			settings: Settings{TOKEN_BACKEND: BackendFile, TOKENS_FILE: "t.toml", CONFIG_RELOAD_TIME: time.Second},
		},
		{
			name:     "file backend without reload time",
			settings: Settings{TOKEN_BACKEND: BackendFile, TOKENS_FILE: "t.toml"},
			wantErr:  true,
		},
		{
			name:     "jwt backend without secret",
			settings: Settings{TOKEN_BACKEND: BackendJWT},
			wantErr:  true,
		},
		{
			name:     "sql backend",
			settings: Settings{TOKEN_BACKEND: BackendSQL, DB_PATH: "tokens.db"},
		},
		{
			name:     "sql backend without path",
			settings: Settings{TOKEN_BACKEND: BackendSQL},
			wantErr:  true,
		},
		{
			name:     "unknown backend",
			settings: Settings{TOKEN_BACKEND: "ldap"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
