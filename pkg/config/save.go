package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserFile returns the config file in the user's config directory.
func UserFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Save writes the config to UserFile.
func (c *Config) Save() error {
	return c.SaveTo(UserFile())
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
