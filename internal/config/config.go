// Package config loads and saves the tcnotify configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	watcherr "github.com/kyleking/tcnotify/internal/errors"
)

// ConfigFilename is the default name of the configuration file.
const ConfigFilename = "config.yaml"

const (
	DefaultInterval = 10 * time.Second
	DefaultTimeout  = 30 * time.Second
)

// Config represents the tcnotify configuration file.
type Config struct {
	Server ServerConfig `yaml:"server" toml:"server"`
	Watch  WatchConfig  `yaml:"watch" toml:"watch"`
}

// ServerConfig holds the TeamCity connection settings.
type ServerConfig struct {
	URL                string   `yaml:"url" toml:"url"`
	Token              string   `yaml:"token,omitempty" toml:"token,omitempty"`
	InsecureSkipVerify bool     `yaml:"insecure_skip_verify,omitempty" toml:"insecure_skip_verify,omitempty"`
	Timeout            Duration `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
}

// WatchConfig selects which builds are watched.
type WatchConfig struct {
	Pipelines []string `yaml:"pipelines" toml:"pipelines"` // TeamCity build type ids, in display order
	Users     []string `yaml:"users" toml:"users"`
	Interval  Duration `yaml:"interval,omitempty" toml:"interval,omitempty"`
}

// Duration is a time.Duration written as a Go duration string ("10s").
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// DefaultPath returns the default location of the configuration file.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tcnotify", ConfigFilename)
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tcnotify", ConfigFilename)
}

// Load loads the configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom loads the configuration from a specific path.
// A missing file yields an empty configuration. Environment variables take
// precedence over file values:
//   - TEAMCITY_URL   overrides server.url
//   - TEAMCITY_TOKEN overrides server.token
func LoadFrom(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, &watcherr.ConfigError{Path: path, Err: err}
	default:
		if err := decode(path, data, &cfg); err != nil {
			return nil, &watcherr.ConfigError{Path: path, Err: err}
		}
	}

	applyEnvOverrides(&cfg)
	cfg.normalize()

	return &cfg, nil
}

// Save writes cfg to path in the format implied by its extension, creating
// parent directories as needed. The file is written with 0600 permissions.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := encode(path, cfg)
	if err != nil {
		return &watcherr.ConfigError{Path: path, Err: err}
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate reports whether the configuration can be used to reach a server.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return errors.New("server.url is required (or set TEAMCITY_URL)")
	}

	if c.Server.Token == "" {
		return errors.New("server.token is required (or set TEAMCITY_TOKEN)")
	}

	return nil
}

// IntervalOrDefault returns the poll interval, defaulting to DefaultInterval.
func (c *Config) IntervalOrDefault() time.Duration {
	if c.Watch.Interval > 0 {
		return time.Duration(c.Watch.Interval)
	}
	return DefaultInterval
}

// TimeoutOrDefault returns the request timeout, defaulting to DefaultTimeout.
func (c *Config) TimeoutOrDefault() time.Duration {
	if c.Server.Timeout > 0 {
		return time.Duration(c.Server.Timeout)
	}
	return DefaultTimeout
}

// Override replaces the watched pipelines and users with non-empty flag
// values, normalizing them like values read from the file.
func (c *Config) Override(pipelines, users []string) {
	if len(pipelines) > 0 {
		c.Watch.Pipelines = append([]string(nil), pipelines...)
	}
	if len(users) > 0 {
		c.Watch.Users = append([]string(nil), users...)
	}
	c.normalize()
}

func (c *Config) normalize() {
	pipelines := make([]string, 0, len(c.Watch.Pipelines))
	for _, id := range c.Watch.Pipelines {
		if id = strings.TrimSpace(id); id != "" {
			pipelines = append(pipelines, id)
		}
	}
	c.Watch.Pipelines = pipelines

	users := make([]string, 0, len(c.Watch.Users))
	for _, name := range c.Watch.Users {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			users = append(users, name)
		}
	}
	c.Watch.Users = users
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TEAMCITY_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("TEAMCITY_TOKEN"); v != "" {
		cfg.Server.Token = v
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func decode(path string, data []byte, cfg *Config) error {
	if isTOML(path) {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func encode(path string, cfg *Config) ([]byte, error) {
	return Marshal(cfg, isTOML(path))
}

// Marshal encodes cfg as TOML or YAML.
func Marshal(cfg *Config, asTOML bool) ([]byte, error) {
	if asTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return yaml.Marshal(cfg)
}

// Redacted returns a copy of c with the token masked, for display.
func (c Config) Redacted() Config {
	if c.Server.Token != "" {
		c.Server.Token = "********"
	}
	c.Watch.Pipelines = append([]string(nil), c.Watch.Pipelines...)
	c.Watch.Users = append([]string(nil), c.Watch.Users...)
	return c
}
