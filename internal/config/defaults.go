package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Default returns the default groundwork configuration
func Default() *Config {
	return &Config{
		BuildCommand: "pnpm install && pnpm build",
		LogLevel:     "info",
	}
}

// DefaultYAML returns the default configuration as YAML bytes, suitable for
// writing an initial groundwork.yml.
func DefaultYAML() ([]byte, error) {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default config to YAML: %w", err)
	}
	return data, nil
}
