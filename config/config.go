// Package config loads the project settings of bladefmt from a
// .bladefmt.yaml file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/bladefmt/blade/directive"
	"github.com/dhamidi/bladefmt/format"
)

// FileNames are looked up, in order, in every directory searched by Find.
var FileNames = []string{".bladefmt.yaml", ".bladefmt.yml", ".bladefmt.json"}

type Config struct {
	Indent     IndentConfig `json:"indent" yaml:"indent"`
	Directives string       `json:"directives,omitempty" yaml:"directives,omitempty"`
	Log        LogConfig    `json:"log" yaml:"log"`

	// path of the file the config was read from, empty for defaults
	path string
}

type IndentConfig struct {
	Size int  `json:"size" yaml:"size"`
	Tabs bool `json:"tabs" yaml:"tabs"`
}

type LogConfig struct {
	Verbosity int    `json:"verbosity" yaml:"verbosity"`
	File      string `json:"file,omitempty" yaml:"file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Indent: IndentConfig{Size: format.DefaultIndentSize},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse JSON config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse YAML config %s: %w", path, err)
		}
	}
	if cfg.Indent.Size < 0 {
		return nil, fmt.Errorf("config %s: indent.size must not be negative", path)
	}
	cfg.path = path
	return cfg, nil
}

// Find walks up from dir and returns the first config file found, or "" if
// there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, nil
			}
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Discover loads the config that applies to dir, falling back to the
// defaults when no file exists.
func Discover(dir string) (*Config, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

func (c *Config) Path() string {
	return c.path
}

// DirectiveTable returns the built-in directive table merged with the file
// named by Directives. Relative names are resolved against the config file.
func (c *Config) DirectiveTable() (*directive.Table, error) {
	if c.Directives == "" {
		return directive.Default(), nil
	}
	path := c.Directives
	if !filepath.IsAbs(path) && c.path != "" {
		path = filepath.Join(filepath.Dir(c.path), path)
	}
	custom, err := directive.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return directive.Default().Merge(custom), nil
}

func (c *Config) FormatOptions() (format.Options, error) {
	table, err := c.DirectiveTable()
	if err != nil {
		return format.Options{}, err
	}
	return format.Options{
		IndentSize: c.Indent.Size,
		Tabs:       c.Indent.Tabs,
		Directives: table,
	}, nil
}
