package clientcli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the default server endpoint URL.
const DefaultEndpoint = "http://localhost:3000"

// Profile names one gallery server.
type Profile struct {
	Name     string `yaml:"name" json:"name"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	Default  bool   `yaml:"default,omitempty" json:"default,omitempty"`
}

// ConfigFile is the on-disk list of profiles.
type ConfigFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// GetProfile returns the profile by name.
// If name is empty, returns the default profile, or the first one when none
// is marked.
func (c *ConfigFile) GetProfile(name string) (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	for i := range c.Profiles {
		p := &c.Profiles[i]
		if (name == "" && p.Default) || (name != "" && p.Name == name) {
			return p, nil
		}
	}

	if name == "" {
		return &c.Profiles[0], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// PutProfile adds p, replacing any profile with the same name. When
// p.Default is set every other profile loses its default flag.
func (c *ConfigFile) PutProfile(p Profile) {
	if p.Default {
		for i := range c.Profiles {
			c.Profiles[i].Default = false
		}
	}

	idx := slices.IndexFunc(c.Profiles, func(existing Profile) bool { return existing.Name == p.Name })
	if idx >= 0 {
		c.Profiles[idx] = p
		return
	}
	c.Profiles = append(c.Profiles, p)
}

// RemoveProfile removes a profile by name.
func (c *ConfigFile) RemoveProfile(name string) error {
	idx := slices.IndexFunc(c.Profiles, func(p Profile) bool { return p.Name == name })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	c.Profiles = slices.Delete(c.Profiles, idx, idx+1)
	return nil
}

// Save writes the config to path, creating the parent directory.
func (c *ConfigFile) Save(path string) error {
	cleanPath := filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// LoadConfigFile loads the config file from the specified path.
func LoadConfigFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg ConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &cfg, nil
}

// DefaultConfigPath returns ~/.gallery/config.yaml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gallery", "config.yaml")
}

// Config holds the resolved client settings.
type Config struct {
	Endpoint string
}

// WithDefaults returns a copy of the config with default values applied.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &cfg
}

// ConfigFromEnv loads config from GALLERY_ENDPOINT.
func ConfigFromEnv() *Config {
	return &Config{Endpoint: os.Getenv("GALLERY_ENDPOINT")}
}

// MergeConfig merges configs left to right. Empty values never override.
func MergeConfig(configs ...*Config) *Config {
	result := &Config{}
	for _, cfg := range configs {
		if cfg != nil && cfg.Endpoint != "" {
			result.Endpoint = cfg.Endpoint
		}
	}
	return result
}
