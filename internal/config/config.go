package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"launchpad-sync/pkg/log"
)

// Config is the full launchpad-sync configuration, loaded via viper from a
// yaml file and/or LAUNCHPAD_SYNC_* environment variables.
type Config struct {
	// ID identifies this installation in logs and attribution fields.
	ID string `mapstructure:"id" validate:"required"`
	// Interval is the polling period between sync runs, in seconds.
	Interval int      `mapstructure:"interval" validate:"required,gt=0"`
	Local    Local    `mapstructure:"local" validate:"required"`
	Postgres Postgres `mapstructure:"postgres" validate:"required"`
	LogLevel string   `mapstructure:"log_level"`
}

// Local configures the embedded catalog database.
type Local struct {
	Path string `mapstructure:"path" validate:"required"`
}

// Postgres configures the shared team store.
type Postgres struct {
	Address        string `mapstructure:"address" validate:"required,hostname|ip"`
	Port           int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	Username       string `mapstructure:"username" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	DBName         string `mapstructure:"db_name" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConnections int    `mapstructure:"max_connection"`
}

const defaultMaxConnections = 10

func NewConfig() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Logger.Error().Err(err).Msg("Failed to unmarshal configuration")
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.Postgres.MaxConnections == 0 {
		cfg.Postgres.MaxConnections = defaultMaxConnections
	}
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = "disable"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		messages = append(messages, describeFieldError(fieldErr))
	}

	return errors.New(strings.Join(messages, ", "))
}

func describeFieldError(fieldErr validator.FieldError) string {
	field := fieldErr.Namespace()
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "hostname|ip":
		return fmt.Sprintf("%s must be a valid hostname or IP address", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fieldErr.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fieldErr.Param())
	default:
		return fmt.Sprintf("%s failed validation on %s", field, fieldErr.Tag())
	}
}
