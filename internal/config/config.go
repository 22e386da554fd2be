package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/sortdesk/sortdesk/internal/engine"
)

// Config holds all sortdesk configuration
type Config struct {
	Workspace Workspace `toml:"workspace"`
	Rules     []Rule    `toml:"rules"`
}

// Workspace defines the workspace root and traversal behavior
type Workspace struct {
	Path          string   `toml:"path"`
	IncludeNested bool     `toml:"include_nested"`
	DotfileAllow  []string `toml:"dotfile_allowlist"`
	SkipNames     []string `toml:"skip_names"`
	ReplaceRules  bool     `toml:"replace_rules"` // rules replace the built-in table instead of extending it
}

// Rule is one category entry of the classification table
type Rule struct {
	Name       string   `toml:"name"`
	Extensions []string `toml:"extensions"`
	Dated      bool     `toml:"dated"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Workspace: Workspace{
			Path:          "",
			IncludeNested: false,
			DotfileAllow:  engine.DefaultDotfileAllowlist(),
			SkipNames:     engine.DefaultSkipNames(),
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}

	return filepath.Join(configDir, "sortdesk", "config.toml"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// Load reads the config file, creating it with defaults if it doesn't exist
func Load() (*Config, error) {
	configFile, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	if err := EnsureConfigDir(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	return LoadFile(configFile)
}

// LoadFile reads a config from an explicit path
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to disk
func Save(cfg *Config) error {
	configFile, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := EnsureConfigDir(); err != nil {
		return err
	}

	f, err := os.Create(configFile)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if c.Workspace.Path == "" {
		return fmt.Errorf("no workspace path configured")
	}

	info, err := os.Stat(c.Workspace.Path)
	if err != nil {
		return fmt.Errorf("workspace path %s: %w", c.Workspace.Path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("workspace path %s is not a directory", c.Workspace.Path)
	}

	for _, rule := range c.Rules {
		if rule.Name == "" {
			return fmt.Errorf("category rule with empty name")
		}
		for _, ext := range rule.Extensions {
			if len(ext) < 2 || ext[0] != '.' {
				return fmt.Errorf("rule %s: extension %q must start with a dot", rule.Name, ext)
			}
		}
	}

	return nil
}

// EngineConfig converts the file config into an engine configuration.
// Custom rules extend the built-in table (first match wins, so custom
// entries are placed ahead of the defaults) unless replace_rules is set.
func (c *Config) EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()

	if len(c.Rules) > 0 {
		custom := make([]engine.CategoryRule, 0, len(c.Rules))
		for _, rule := range c.Rules {
			custom = append(custom, engine.CategoryRule{
				Name:       rule.Name,
				Extensions: rule.Extensions,
				Dated:      rule.Dated,
			})
		}
		if c.Workspace.ReplaceRules {
			cfg.Rules = custom
		} else {
			cfg.Rules = append(custom, cfg.Rules...)
		}
	}

	if len(c.Workspace.DotfileAllow) > 0 {
		cfg.DotfileAllow = c.Workspace.DotfileAllow
	}
	if len(c.Workspace.SkipNames) > 0 {
		cfg.SkipNames = c.Workspace.SkipNames
	}

	return cfg
}
