// Package config loads program configuration: embedded defaults with user
// file superimposed, logging and debug report.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"atomcss/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	ScreenConfig struct {
		Name  string `yaml:"name" validate:"required,alphanum"`
		Query string `yaml:"query,omitempty"`
	}

	EngineConfig struct {
		Prefix       string                       `yaml:"prefix" validate:"omitempty,alphanum"`
		UtilityFirst bool                         `yaml:"utility_first"`
		Screens      []ScreenConfig               `yaml:"screens" validate:"unique=Name,dive"`
		Tokens       map[string]map[string]string `yaml:"tokens,omitempty"`
	}

	OutputConfig struct {
		NameTemplate          string           `yaml:"name_template"`
		FileNameTransliterate bool             `yaml:"file_name_transliterate"`
		MapFormat             common.MapFormat `yaml:"map_format" validate:"gte=0"`
		PrettyPrint           bool             `yaml:"pretty_print"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Engine    EngineConfig   `yaml:"engine"`
		Output    OutputConfig   `yaml:"output"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// NOTE: must match yaml field name above, expanded by build for every recipe
const NameTemplateFieldName = "name_template"

var requiredOptions = []func(*gencfg.ProcessingOptions){
	gencfg.WithDoNotExpandField(NameTemplateFieldName),
}

// decodeConfig superimposes data on cfg. Only fields we defined are
// accepted, so yaml.Unmarshal cannot be used.
func decodeConfig(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return nil
}

// checkConfig cleans paths, creates directories for log and report files and
// validates final values.
func checkConfig(cfg *Config) error {
	if err := gencfg.Sanitize(cfg); err != nil {
		return fmt.Errorf("failed to sanitize configuration: %w", err)
	}
	if err := gencfg.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg.Engine.validate()
}

// LoadConfiguration expands embedded configuration template for defaults,
// superimposes values from the file at path (if any) and validates result.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	defaults, err := Prepare(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg := &Config{}
	if err := decodeConfig(defaults, cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}

	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decodeConfig(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
	}

	if err := checkConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Prepare expands configuration template, result is default configuration.
func Prepare(options ...func(*gencfg.ProcessingOptions)) ([]byte, error) {
	return gencfg.Process(ConfigTmpl, append(requiredOptions[:len(requiredOptions):len(requiredOptions)], options...)...)
}

// Dump returns configuration as YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
