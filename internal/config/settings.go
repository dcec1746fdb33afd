package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// ENV_PREFIX prefixes every environment override, e.g. AQP_OUTPUT_DIR
const ENV_PREFIX = "AQP"

type Settings struct {
	Output  OutputSettings  `yaml:"output" envconfig:"OUTPUT"`
	Export  ExportSettings  `yaml:"export" envconfig:"EXPORT"`
	History HistorySettings `yaml:"history" envconfig:"HISTORY"`
	Logging LoggingSettings `yaml:"logging" envconfig:"LOGGING"`
}

type OutputSettings struct {
	Dir string `yaml:"dir" envconfig:"DIR" validate:"required"`
}

type ExportSettings struct {
	Workbook bool `yaml:"workbook" envconfig:"WORKBOOK"`
}

type HistorySettings struct {
	Enabled bool   `yaml:"enabled" envconfig:"ENABLED"`
	DBPath  string `yaml:"db_path" envconfig:"DB_PATH"`
}

type LoggingSettings struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// ValidationError reports every setting that failed validation
type ValidationError struct {
	Fields []string
	err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid settings: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func DefaultSettings() *Settings {
	return &Settings{
		Output: OutputSettings{
			Dir: ".",
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadSettings builds settings from defaults, then the YAML file at path (if
// one exists), then AQP_* environment variables. An explicitly requested path
// that does not exist is an error; the default path is optional.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	if err := settings.loadFile(path, explicit); err != nil {
		return nil, err
	}

	if err := envconfig.Process(ENV_PREFIX, settings); err != nil {
		return nil, fmt.Errorf("failed to load settings from environment: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

func (s *Settings) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	return nil
}

func (s *Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	fields := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		fields = append(fields, fmt.Sprintf("%s (%s)", fieldError.Namespace(), fieldError.Tag()))
	}

	return &ValidationError{Fields: fields, err: err}
}
