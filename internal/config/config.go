// Package config loads and validates fixhound configuration from file,
// environment, and defaults.
package config

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/fixhound/pkg/risk"
)

// Config is the top-level configuration struct for fixhound.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Store Store `mapstructure:"store"`
	Scan  Scan  `mapstructure:"scan"`
	Learn Learn `mapstructure:"learn"`
}

// Store holds pattern store settings.
type Store struct {
	// Path is the bug memory JSON document location.
	Path string `mapstructure:"path"`
}

// Scan holds line-scanning settings.
type Scan struct {
	// Sensitivity selects the visibility threshold: low, medium, or high.
	Sensitivity string `mapstructure:"sensitivity"`
	// Format selects scan output: table, json, or yaml.
	Format string `mapstructure:"format"`
	// NoColor disables ANSI color in table output.
	NoColor bool `mapstructure:"no_color"`
}

// Learn holds history-mining settings.
type Learn struct {
	// Limit caps the number of commits mined per run; zero means no cap.
	Limit int `mapstructure:"limit"`
}

// Defaults.
const (
	DefaultStorePath       = ".fixhound/memory.json"
	DefaultScanSensitivity = "medium"
	DefaultScanFormat      = "table"
	DefaultLearnLimit      = 0
)

// Output formats accepted by scan and patterns commands.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Sentinel errors for configuration validation.
var (
	ErrEmptyStorePath     = errors.New("store.path must not be empty")
	ErrInvalidSensitivity = errors.New("scan.sensitivity must be low, medium, or high")
	ErrInvalidFormat      = errors.New("scan.format must be table, json, or yaml")
	ErrNegativeLimit      = errors.New("learn.limit must not be negative")
)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return ErrEmptyStorePath
	}

	if !risk.Sensitivity(c.Scan.Sensitivity).Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidSensitivity, c.Scan.Sensitivity)
	}

	switch c.Scan.Format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Scan.Format)
	}

	if c.Learn.Limit < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeLimit, c.Learn.Limit)
	}

	return nil
}

// Sensitivity returns the configured sensitivity as a typed level.
func (c *Config) Sensitivity() risk.Sensitivity {
	return risk.Sensitivity(c.Scan.Sensitivity)
}
