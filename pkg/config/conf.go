package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	FormatJSON = "json"
	FormatYAML = "yaml"

	// ThresholdDefault is the deviation score above which a set is flagged.
	ThresholdDefault      = 20.0
	DelimiterDefault      = ","
	TimeoutSecondsDefault = 60
)

// Config represents app config object.
type Config struct {
	Format         string  `yaml:"format"`
	Threshold      float64 `yaml:"threshold"`
	Delimiter      string  `yaml:"delimiter"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		Format:         FormatJSON,
		Threshold:      ThresholdDefault,
		Delimiter:      DelimiterDefault,
		TimeoutSeconds: TimeoutSecondsDefault,
	}
}

// Validate checks the config values and fills in defaults for missing ones.
// Zero is a valid threshold, so it is never replaced.
func (c *Config) Validate() error {
	d := Default()

	switch strings.ToLower(c.Format) {
	case "":
		c.Format = d.Format
	case FormatJSON:
		c.Format = FormatJSON
	case FormatYAML, "yml":
		c.Format = FormatYAML
	default:
		return fmt.Errorf("unsupported format: %s", c.Format)
	}

	if c.Threshold < 0 {
		return fmt.Errorf("threshold must not be negative: %v", c.Threshold)
	}

	if c.Delimiter == "" {
		c.Delimiter = d.Delimiter
	}
	if c.Delimiter == `\t` {
		c.Delimiter = "\t"
	}
	if len([]rune(c.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character: %q", c.Delimiter)
	}

	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = d.TimeoutSeconds
	}
	return nil
}

// DelimiterRune returns the delimiter as a rune. Call Validate first.
func (c *Config) DelimiterRune() rune {
	r := []rune(c.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if err := os.MkdirAll(dirPath, dirMode); err != nil {
		return nil, fmt.Errorf("failed to create dir %s: %w", dirPath, err)
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(dirPath, Default()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	// keys missing from the file keep their defaults
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("error unmarshalling config file %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return c, nil
}

// GetOrCreateHomeDir returns the app directory under the current user's home.
// The created flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("failed to get user home dir: %w", err)
	}
	slog.Debug("home dir", "path", home)

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, fmt.Errorf("failed to create dir %s: %w", dir, err)
		}
		created = true
	}
	return dir, created, nil
}
