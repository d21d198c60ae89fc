package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file name probed when no --config flag is given.
const DefaultConfigFile = ".sitegrab"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile parses per-site configuration from the YAML file at path.
// A missing file yields ErrConfigNotFound so the caller can decide whether
// that is fatal (explicit --config) or fine (implicit lookup).
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	// GetSiteConfig indexes into Sites unconditionally.
	if cf.Sites == nil {
		cf.Sites = make(map[string]SiteConfig)
	}

	return &cf, nil
}

// FindConfigFile locates the configuration file. An explicit configPath
// wins when it exists; otherwise .sitegrab is probed in the working
// directory and then in the home directory. The empty string means no
// config file was found anywhere.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if fileExists(configPath) {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		if candidate := filepath.Join(cwd, DefaultConfigFile); fileExists(candidate) {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if candidate := filepath.Join(home, DefaultConfigFile); fileExists(candidate) {
			return candidate
		}
	}

	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
