package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/Rana718/seedling/internal/ai"
)

type Config struct {
	SeedsPath string   `json:"seeds_path" mapstructure:"seeds_path" validate:"required"`
	Database  Database `json:"database" mapstructure:"database"`
	AI        AI       `json:"ai" mapstructure:"ai"`
	Log       Log      `json:"log" mapstructure:"log"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider" validate:"oneof=postgresql postgres mysql sqlite sqlite3"`
	URLEnv   string `json:"url_env" mapstructure:"url_env" validate:"required"`
}

type AI struct {
	APIKey    string        `json:"api_key,omitempty" mapstructure:"api_key"`
	APIKeyEnv string        `json:"api_key_env" mapstructure:"api_key_env"`
	Model     string        `json:"model,omitempty" mapstructure:"model"`
	ModelEnv  string        `json:"model_env" mapstructure:"model_env"`
	Endpoint  string        `json:"endpoint,omitempty" mapstructure:"endpoint" validate:"omitempty,url"`
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout" validate:"gt=0"`
}

type Log struct {
	Level  string `json:"level" mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format string `json:"format" mapstructure:"format" validate:"oneof=text json"`
}

// Error reports an unusable configuration.
type Error struct {
	Fields []string
	Err    error
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Fields, "; "))
	}
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func Default() *Config {
	return &Config{
		SeedsPath: "db/seeds",
		Database: Database{
			Provider: "postgresql",
			URLEnv:   "DATABASE_URL",
		},
		AI: AI{
			APIKeyEnv: ai.DefaultAPIKeyEnv,
			ModelEnv:  ai.DefaultModelEnv,
			Timeout:   ai.DefaultTimeout,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers every key with v so AutomaticEnv overrides apply even
// when the key is absent from the config file.
func SetDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("seeds_path", def.SeedsPath)
	v.SetDefault("database.provider", def.Database.Provider)
	v.SetDefault("database.url_env", def.Database.URLEnv)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.api_key_env", def.AI.APIKeyEnv)
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.model_env", def.AI.ModelEnv)
	v.SetDefault("ai.endpoint", "")
	v.SetDefault("ai.timeout", def.AI.Timeout)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
}

// Load reads the process-wide viper state and fills in defaults.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg := Default()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, &Error{Err: fmt.Errorf("failed to unmarshal config: %w", err)}
	}

	// An explicit empty string in the file should not erase a default.
	def := Default()
	if cfg.SeedsPath == "" {
		cfg.SeedsPath = def.SeedsPath
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = def.Database.Provider
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = def.Database.URLEnv
	}
	if cfg.AI.APIKeyEnv == "" {
		cfg.AI.APIKeyEnv = def.AI.APIKeyEnv
	}
	if cfg.AI.ModelEnv == "" {
		cfg.AI.ModelEnv = def.AI.ModelEnv
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = def.AI.Timeout
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Err: err}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, describeFieldError(fe))
	}
	return &Error{Fields: fields, Err: err}
}

func describeFieldError(fe validator.FieldError) string {
	name := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fmt.Sprint(fe.Value()))
	case "url":
		return fmt.Sprintf("%s must be a URL", name)
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", &Error{Err: fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)}
	}
	return dbURL, nil
}

func (c *Config) AIConfig() ai.Config {
	return ai.Config{
		APIKey:    c.AI.APIKey,
		APIKeyEnv: c.AI.APIKeyEnv,
		Model:     c.AI.Model,
		ModelEnv:  c.AI.ModelEnv,
		Endpoint:  c.AI.Endpoint,
		Timeout:   c.AI.Timeout,
	}
}
