// Package config loads service configuration from the environment, an optional
// .env file and an optional YAML file holding the participant roster.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
)

// Config holds application configuration.
type Config struct {
	// Env is "development" or "production". Only development may run without JWT_SECRET.
	Env          string `validate:"oneof=development production"`
	Port         int    `validate:"min=1,max=65535"`
	DBType       string `validate:"oneof=sqlite postgres"`
	DBPath       string
	DatabaseURL  string
	StaticPath   string
	JWTSecret    string `validate:"required"`
	JWTExpiry    time.Duration
	AdminEmails  []string
	PublicView   bool
	LogLevel     string
	LogFormat    string `validate:"oneof=text json"`
	Currency     money.Policy
	ReminderSpec string
	// AuthRateLimit uses the limiter format, e.g. "5-M" for five requests per minute.
	AuthRateLimit string

	Participants models.Roster `validate:"required,min=1,unique=ID,dive"`
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// defaultRoster is used when no roster is configured.
var defaultRoster = []map[string]string{
	{"id": "1", "display_name": "Laode", "color_tag": "#3b82f6"},
	{"id": "2", "display_name": "Frankie", "color_tag": "#ef4444"},
	{"id": "3", "display_name": "Rasad", "color_tag": "#10b981"},
	{"id": "4", "display_name": "Fajar", "color_tag": "#f59e0b"},
	{"id": "5", "display_name": "Panji", "color_tag": "#8b5cf6"},
	{"id": "6", "display_name": "Jerry", "color_tag": "#ec4899"},
}

// Load reads configuration from .env (if present), environment variables and
// CONFIG_FILE (if set). Environment variables win over the file.
func Load() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
		slog.Info("Loaded config file", "path", file)
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvProduction)
	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_TYPE", "sqlite")
	v.SetDefault("DB_PATH", "./data/ledger.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("STATIC_PATH", "../frontend/static")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRY", "24h")
	v.SetDefault("ADMIN_EMAILS", "")
	v.SetDefault("PUBLIC_VIEW", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("CURRENCY_CODE", money.DefaultPolicy.Code)
	v.SetDefault("CURRENCY_DECIMALS", money.DefaultPolicy.Decimals)
	v.SetDefault("REMINDER_SCHEDULE", "0 9 * * *")
	v.SetDefault("AUTH_RATE_LIMIT", "10-M")
	v.SetDefault("participants", defaultRoster)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:           strings.ToLower(v.GetString("APP_ENV")),
		Port:          v.GetInt("PORT"),
		DBType:        strings.ToLower(v.GetString("DB_TYPE")),
		DBPath:        v.GetString("DB_PATH"),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		StaticPath:    v.GetString("STATIC_PATH"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		AdminEmails:   splitList(v.GetString("ADMIN_EMAILS")),
		PublicView:    v.GetBool("PUBLIC_VIEW"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     strings.ToLower(v.GetString("LOG_FORMAT")),
		ReminderSpec:  v.GetString("REMINDER_SCHEDULE"),
		AuthRateLimit: v.GetString("AUTH_RATE_LIMIT"),
		Currency: money.Policy{
			Code:     v.GetString("CURRENCY_CODE"),
			Decimals: v.GetInt32("CURRENCY_DECIMALS"),
		},
	}

	expiry, err := time.ParseDuration(v.GetString("JWT_EXPIRY"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY %q: %w", v.GetString("JWT_EXPIRY"), err)
	}
	cfg.JWTExpiry = expiry

	if err := v.UnmarshalKey("participants", &cfg.Participants); err != nil {
		return nil, fmt.Errorf("failed to decode participants: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != EnvDevelopment {
			return nil, errors.New("JWT_SECRET required unless APP_ENV=development")
		}
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		slog.Warn("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
		cfg.JWTSecret = secret
	}
	if cfg.DBType == "postgres" && cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL required when DB_TYPE=postgres")
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints, including roster ID uniqueness and color tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsAdminEmail reports whether email should be granted the admin role.
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

// randomSecret returns 32 random bytes, hex encoded.
func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
