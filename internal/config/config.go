package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	ModeNatural = "natural"
	ModeForm    = "form"

	DateOrderMDY = "mdy"
	DateOrderDMY = "dmy"

	defaultTimezone     = "America/Los_Angeles"
	defaultCalendarName = "icalgen Events"
	defaultTitle        = "Untitled Event"
	defaultDuration     = time.Hour
)

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA zone events are interpreted and written in.
	Timezone string `yaml:"timezone" json:"timezone"`

	// CalendarName is written as X-WR-CALNAME on generated calendars.
	CalendarName string `yaml:"calendar_name" json:"calendar_name"`

	// DefaultDuration is used when the text carries no end time.
	DefaultDuration time.Duration `yaml:"default_duration" json:"default_duration"`

	// OutputDir is where .ics files are written. Empty means os.TempDir().
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// Open controls whether the written file is handed to the OS.
	Open bool `yaml:"open" json:"open"`

	// OpenCommand overrides the platform opener, e.g. "open -a Calendar".
	// The file path is appended as the last argument.
	OpenCommand string `yaml:"open_command,omitempty" json:"open_command,omitempty"`

	// Mode selects the extractor: "natural" or "form".
	Mode string `yaml:"mode" json:"mode"`

	// DefaultTitle replaces an empty extracted title. Empty makes a missing
	// title an error.
	DefaultTitle string `yaml:"default_title" json:"default_title"`

	// FallbackToNow uses the current time when no date can be parsed
	// instead of failing.
	FallbackToNow bool `yaml:"fallback_to_now" json:"fallback_to_now"`

	// DateOrder is how slash dates are read: "mdy" (10/20 is October 20)
	// or "dmy" (20/10 is October 20).
	DateOrder string `yaml:"date_order" json:"date_order"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:        defaultTimezone,
		CalendarName:    defaultCalendarName,
		DefaultDuration: defaultDuration,
		Open:            true,
		Mode:            ModeNatural,
		DefaultTitle:    defaultTitle,
		DateOrder:       DateOrderMDY,
	}
}

// Normalize fills in missing/zero values so partially-filled configs
// still behave correctly.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.CalendarName == "" {
		c.CalendarName = defaultCalendarName
	}
	if c.DefaultDuration <= 0 {
		c.DefaultDuration = defaultDuration
	}
	switch c.Mode {
	case ModeNatural, ModeForm:
	default:
		c.Mode = ModeNatural
	}
	switch c.DateOrder {
	case DateOrderMDY, DateOrderDMY:
	default:
		c.DateOrder = DateOrderMDY
	}
}

// Validate reports settings that Normalize cannot repair.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ResolvedOutputDir returns OutputDir or the OS temp directory.
func (c *Config) ResolvedOutputDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return os.TempDir()
}

// DefaultPath returns ~/.config/icalgen/config.yaml, or a relative
// config.yaml when the home directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "icalgen", "config.yaml")
}

// Load loads configuration from the given YAML path.
//
// A missing file is not an error: defaults are returned and nothing is
// written. Use Save (icalgen config init) to create the file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600 perms,
// creating the parent directory (0700) if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".icalgen-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}
