// Package config loads tourtags settings from defaults, an optional YAML
// file and TOURTAGS_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"tourtags/internal/domain"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TOURTAGS_"
	// ConfigPathEnvVar names an explicit config file.
	ConfigPathEnvVar = "TOURTAGS_CONFIG"
	// DefaultViewName is the state key of the tag view.
	DefaultViewName = "tagging"

	dateLayout = "2006-01-02"
)

// DefaultConfigPaths are searched when TOURTAGS_CONFIG is unset.
var DefaultConfigPaths = []string{
	"tourtags.yaml",
	"tourtags.yml",
}

// Config is the full application configuration.
type Config struct {
	DB       DBConfig      `koanf:"db"`
	State    StateConfig   `koanf:"state"`
	View     ViewConfig    `koanf:"view"`
	Reducer  ReducerConfig `koanf:"reducer"`
	Filter   FilterConfig  `koanf:"filter"`
	Scramble bool          `koanf:"scramble"`
	Log      LogConfig     `koanf:"log"`
	Metrics  MetricsConfig `koanf:"metrics"`
}

// DBConfig locates the tour database.
type DBConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// StateConfig locates the view state file.
type StateConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// ViewConfig selects the persisted view and its initial layout.
type ViewConfig struct {
	Name   string `koanf:"name" validate:"required"`
	Layout string `koanf:"layout" validate:"omitempty,oneof=flat hierarchical"`
}

// ReducerConfig selects the speed and pace time basis.
type ReducerConfig struct {
	SpeedBasis string `koanf:"speed_basis" validate:"oneof=moving recorded"`
}

// FilterConfig restricts the tours shown. Dates are YYYY-MM-DD and both
// bounds are inclusive.
type FilterConfig struct {
	From      string  `koanf:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string  `koanf:"to" validate:"omitempty,datetime=2006-01-02"`
	TourTypes []int64 `koanf:"tour_types" validate:"dive,gt=0"`
}

// LogConfig configures the zerolog logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// MetricsConfig configures the Prometheus endpoint. Empty disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr" validate:"omitempty,hostname_port"`
}

func defaultConfig() *Config {
	return &Config{
		DB:      DBConfig{Path: filepath.Join(dataHome(), "tourtags", "tours.db")},
		State:   StateConfig{Path: filepath.Join(dataHome(), "tourtags", "state.db")},
		View:    ViewConfig{Name: DefaultViewName},
		Reducer: ReducerConfig{SpeedBasis: "moving"},
		Log:     LogConfig{Level: "info", Format: "console"},
	}
}

// dataHome follows the XDG base directory layout.
func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	f, err := c.TourFilter()
	if err != nil {
		return err
	}
	if !f.From.IsZero() && !f.To.IsZero() && !f.From.Before(f.To) {
		return fmt.Errorf("filter.from must not be after filter.to")
	}
	return nil
}

// Layout returns the configured layout. An empty setting means the saved
// layout applies, reported by ok == false.
func (c *Config) Layout() (l domain.Layout, ok bool) {
	if c.View.Layout == "" {
		return domain.LayoutHierarchical, false
	}
	l, err := domain.ParseLayout(c.View.Layout)
	return l, err == nil
}

// SpeedReducer returns the reducer for the configured basis.
func (c *Config) SpeedReducer() domain.Reducer {
	basis, _ := domain.ParseSpeedBasis(c.Reducer.SpeedBasis)
	return domain.NewReducer(basis)
}

// TourFilter converts the filter settings. The upper date bound is
// inclusive, so To is moved to the start of the following day.
func (c *Config) TourFilter() (domain.Filter, error) {
	f := domain.Filter{TourTypeIDs: c.Filter.TourTypes}
	if c.Filter.From != "" {
		from, err := time.Parse(dateLayout, c.Filter.From)
		if err != nil {
			return f, fmt.Errorf("invalid filter.from: %w", err)
		}
		f.From = from
	}
	if c.Filter.To != "" {
		to, err := time.Parse(dateLayout, c.Filter.To)
		if err != nil {
			return f, fmt.Errorf("invalid filter.to: %w", err)
		}
		f.To = to.AddDate(0, 0, 1)
	}
	return f, nil
}
