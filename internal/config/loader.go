// loader.go wires environment variables into the Config struct. A .env file,
// when present, seeds variables that are not already set; real environment
// variables always win.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigError distinguishes parse failures from validation failures so
// startup logs can point at the right layer.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadConfig builds the full configuration: pin the process to UTC, load a
// .env file if one exists, populate the struct from envconfig tags, attach
// build metadata, then validate. Any failure aborts startup.
func LoadConfig() (*Config, error) {
	// Every date comparison in the RH math assumes UTC days.
	time.Local = time.UTC

	_ = godotenv.Load()

	// The empty prefix makes envconfig read tag values verbatim, so
	// envconfig:"APP_ENV" reads APP_ENV.
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	cfg.Build = NewBuildInfo()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return &cfg, nil
}
