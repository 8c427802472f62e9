package common

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
)

// Config holds all application configuration
type Config struct {
	LLM     LLMConfig
	Storage StorageConfig
	Images  ImagesConfig
	Lead    LeadConfig
	Log     LogConfig
}

// LLMConfig holds the analysis and scoring collaborator settings
type LLMConfig struct {
	APIKey       string
	Model        string
	ScoringModel string
	Temperature  float32
	Timeout      time.Duration
}

// StorageConfig selects the persisted-state backend.
// DSN forms: "sqlite://<path>", "postgres://...", or empty for memory only.
type StorageConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	DialTimeout     time.Duration
}

// ImagesConfig holds batch limits for the image set
type ImagesConfig struct {
	MaxCount  int
	MaxBytes  int64
	NoticeTTL time.Duration
}

// LeadConfig holds the lead-capture endpoint settings
type LeadConfig struct {
	Endpoint string
	Timeout  time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig reads an optional .env, an optional config file, then the environment.
// Environment variables win over the file; both win over defaults.
func LoadConfig(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, NewAppError(CodeConfig, "read .env", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, NewAppError(CodeConfig, fmt.Sprintf("read config file %s", configFile), err)
		}
	}

	return &Config{
		LLM: LLMConfig{
			APIKey:       v.GetString("gemini_api_key"),
			Model:        v.GetString("gemini_model"),
			ScoringModel: v.GetString("gemini_scoring_model"),
			Temperature:  float32(v.GetFloat64("gemini_temperature")),
			Timeout:      v.GetDuration("gemini_timeout"),
		},
		Storage: StorageConfig{
			DSN:             v.GetString("state_dsn"),
			MaxConns:        v.GetInt32("state_max_conns"),
			MinConns:        v.GetInt32("state_min_conns"),
			MaxConnLifetime: v.GetDuration("state_max_conn_lifetime"),
			DialTimeout:     v.GetDuration("state_dial_timeout"),
		},
		Images: ImagesConfig{
			MaxCount:  v.GetInt("images_max_count"),
			MaxBytes:  v.GetInt64("images_max_bytes"),
			NoticeTTL: v.GetDuration("images_notice_ttl"),
		},
		Lead: LeadConfig{
			Endpoint: v.GetString("lead_endpoint"),
			Timeout:  v.GetDuration("lead_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("gemini_scoring_model", "gemini-2.5-flash")
	v.SetDefault("gemini_temperature", 0.0)
	v.SetDefault("gemini_timeout", 0)

	v.SetDefault("state_dsn", "sqlite://./sourcing-state.db")
	v.SetDefault("state_max_conns", 4)
	v.SetDefault("state_min_conns", 1)
	v.SetDefault("state_max_conn_lifetime", 30*time.Minute)
	v.SetDefault("state_dial_timeout", 3*time.Second)

	v.SetDefault("images_max_count", constants.MaxImages)
	v.SetDefault("images_max_bytes", constants.MaxImageBytes)
	v.SetDefault("images_notice_ttl", 5*time.Second)

	v.SetDefault("lead_endpoint", "")
	v.SetDefault("lead_timeout", 30*time.Second)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.Images.MaxCount <= 0 {
		return NewAppError(CodeConfig, "IMAGES_MAX_COUNT must be positive", ErrInvalidInput)
	}
	if c.Images.MaxBytes <= 0 {
		return NewAppError(CodeConfig, "IMAGES_MAX_BYTES must be positive", ErrInvalidInput)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return NewAppError(CodeConfig, "LOG_FORMAT must be text or json", ErrInvalidInput)
	}
	return nil
}

// ValidateLLM checks the settings needed to reach the analysis collaborator.
func (c *Config) ValidateLLM() error {
	if c.LLM.APIKey == "" {
		return NewAppError(CodeConfig, "GEMINI_API_KEY is required", ErrInvalidInput)
	}
	return nil
}

// ValidateLead checks the settings needed to submit leads.
func (c *Config) ValidateLead() error {
	if c.Lead.Endpoint == "" {
		return NewAppError(CodeConfig, "LEAD_ENDPOINT is required", ErrInvalidInput)
	}
	return nil
}
