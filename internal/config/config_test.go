package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "IDR", cfg.Currency.Code)
	assert.Equal(t, int32(0), cfg.Currency.Decimals)
	require.Len(t, cfg.Participants, 6)
	assert.Equal(t, models.Participant{ID: "1", DisplayName: "Laode", ColorTag: "#3b82f6"}, cfg.Participants[0])
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_EMAILS", "laode@example.com, Frankie@Example.com")
	t.Setenv("PUBLIC_VIEW", "true")
	t.Setenv("JWT_EXPIRY", "90m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.PublicView)
	assert.Equal(t, 90*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, []string{"laode@example.com", "Frankie@Example.com"}, cfg.AdminEmails)
	assert.True(t, cfg.IsAdminEmail("frankie@example.com"))
	assert.False(t, cfg.IsAdminEmail("jerry@example.com"))
}

func TestLoad_RosterFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	yaml := `participants:
  - id: a
    display_name: Ana
    color_tag: "#112233"
  - id: b
    display_name: Budi
    color_tag: "#abc"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, models.Roster{
		{ID: "a", DisplayName: "Ana", ColorTag: "#112233"},
		{ID: "b", DisplayName: "Budi", ColorTag: "#abc"},
	}, cfg.Participants)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"JWT_SECRET": ""}},
		{"missing jwt secret in production", map[string]string{"JWT_SECRET": "", "APP_ENV": "production"}},
		{"unknown env", map[string]string{"APP_ENV": "staging"}},
		{"postgres without url", map[string]string{"DB_TYPE": "postgres"}},
		{"unknown db type", map[string]string{"DB_TYPE": "oracle"}},
		{"bad expiry", map[string]string{"JWT_EXPIRY": "soon"}},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}},
		{"missing config file", map[string]string{"CONFIG_FILE": "/nonexistent/ledger.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "test-secret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_DevelopmentSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "development")

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)

	assert.Len(t, first.JWTSecret, 64)
	assert.NotEqual(t, first.JWTSecret, second.JWTSecret)
}

func TestFromViper_RosterValidation(t *testing.T) {
	tests := []struct {
		name   string
		roster []map[string]string
	}{
		{"empty roster", []map[string]string{}},
		{"duplicate ids", []map[string]string{
			{"id": "1", "display_name": "A", "color_tag": "#000000"},
			{"id": "1", "display_name": "B", "color_tag": "#ffffff"},
		}},
		{"missing name", []map[string]string{
			{"id": "1", "color_tag": "#000000"},
		}},
		{"bad color", []map[string]string{
			{"id": "1", "display_name": "A", "color_tag": "blue"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			v.Set("JWT_SECRET", "test-secret")
			v.Set("participants", tt.roster)

			_, err := fromViper(v)
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}
