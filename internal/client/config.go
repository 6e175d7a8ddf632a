package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type FileConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DefaultConfigPath is ~/.todoctl.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".todoctl.yaml"
	}
	return filepath.Join(home, ".todoctl.yaml")
}

// LoadFileConfig reads path. A missing file yields defaults; a file that
// exists but cannot be parsed is an error.
func LoadFileConfig(path string) (*FileConfig, error) {
	config := &FileConfig{Endpoint: DefaultEndpoint}
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if config.Timeout < 0 {
		config.Timeout = 0
	}
	return config, nil
}
