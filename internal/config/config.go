package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusbot/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"google.golang.org/genai"
)

// Config holds the application configuration
type Config struct {
	APIKey          string
	Model           string
	DataFile        string
	LogoFile        string
	Addr            string
	LogLevel        string
	LogFile         string
	Timeout         time.Duration
	MaxOutputTokens int32
	SessionIdle     time.Duration
	Watch           bool
}

// Viper keys. Flags bound by the CLI use the same names.
const (
	KeyAPIKey          = "api_key"
	KeyModel           = "model"
	KeyDataFile        = "data_file"
	KeyLogoFile        = "logo"
	KeyAddr            = "addr"
	KeyLogLevel        = "log_level"
	KeyLogFile         = "log_file"
	KeyTimeout         = "timeout"
	KeyMaxOutputTokens = "max_output_tokens"
	KeySessionIdle     = "session_idle"
	KeyWatch           = "watch"
)

const (
	defaultDataFile        = "Chatbot Questions & Answers.xlsx"
	defaultLogoFile        = "kepler-logo.png"
	defaultAddr            = ":8501"
	defaultLogLevel        = "info"
	defaultLogFile         = "campusbot-chat.log"
	defaultTimeout         = 60 * time.Second
	defaultMaxOutputTokens = 1024
	defaultSessionIdle     = 2 * time.Hour
)

// ErrMissingAPIKey is returned by Validate when no credential was supplied.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY (or GOOGLE_API_KEY) environment variable is required")

// NewViper returns a viper instance with defaults and environment bindings.
// A .env file in the working directory is loaded first if present.
func NewViper() *viper.Viper {
	// Try to load .env, but don't fail if it's missing
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(KeyModel, models.GetDefaultModel().ID)
	v.SetDefault(KeyDataFile, defaultDataFile)
	v.SetDefault(KeyLogoFile, defaultLogoFile)
	v.SetDefault(KeyAddr, defaultAddr)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyLogFile, defaultLogFile)
	v.SetDefault(KeyTimeout, defaultTimeout)
	v.SetDefault(KeyMaxOutputTokens, defaultMaxOutputTokens)
	v.SetDefault(KeySessionIdle, defaultSessionIdle)
	v.SetDefault(KeyWatch, true)

	// The secret keeps the names used by the hosted deployment.
	_ = v.BindEnv(KeyAPIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	_ = v.BindEnv(KeyModel, "GOOGLE_MODEL")

	v.SetEnvPrefix("CAMPUSBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges an optional config file (yaml, json or toml) into v.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// Load materializes the merged configuration (flags > env > file > defaults).
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		APIKey:          strings.TrimSpace(v.GetString(KeyAPIKey)),
		Model:           strings.TrimSpace(v.GetString(KeyModel)),
		DataFile:        v.GetString(KeyDataFile),
		LogoFile:        v.GetString(KeyLogoFile),
		Addr:            v.GetString(KeyAddr),
		LogLevel:        v.GetString(KeyLogLevel),
		LogFile:         v.GetString(KeyLogFile),
		Timeout:         v.GetDuration(KeyTimeout),
		MaxOutputTokens: v.GetInt32(KeyMaxOutputTokens),
		SessionIdle:     v.GetDuration(KeySessionIdle),
		Watch:           v.GetBool(KeyWatch),
	}

	if cfg.Model == "" {
		cfg.Model = models.GetDefaultModel().ID
	}
	if cfg.DataFile == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyDataFile)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %s", KeyTimeout, cfg.Timeout)
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = defaultMaxOutputTokens
	}

	return cfg, nil
}

// Validate checks the settings needed to talk to the generation service.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// CreateClient creates a new Gemini client using the configuration
func (c *Config) CreateClient(ctx context.Context) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return client, nil
}
