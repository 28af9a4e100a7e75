package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the groundwork.yml configuration.
type Config struct {
	ClaudeBinary string   `yaml:"claude_binary,omitempty" mapstructure:"claude_binary"`
	BuildCommand string   `yaml:"build_command,omitempty" mapstructure:"build_command"`
	LogLevel     string   `yaml:"log_level,omitempty" mapstructure:"log_level"`
	ClaudeArgs   []string `yaml:"claude_args,omitempty" mapstructure:"claude_args"`
	SkipBuild    bool     `yaml:"skip_build,omitempty" mapstructure:"skip_build"`
}

// Load reads the config file at path. A missing file is not an error; the
// defaults are returned so the tool works without any configuration.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	viperInstance := viper.New()
	viperInstance.SetConfigFile(path)

	if err := viperInstance.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := Default()
	if err := viperInstance.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// LoadFromYAML loads config from YAML bytes - helper for tests
func LoadFromYAML(data []byte) (*Config, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigType("yaml")

	if err := viperInstance.ReadConfig(strings.NewReader(string(data))); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := Default()
	if err := viperInstance.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

var validLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// Validate performs config validation
func (c *Config) Validate() error {
	if c.LogLevel == "" {
		return nil
	}

	for _, level := range validLogLevels {
		if c.LogLevel == level {
			return nil
		}
	}

	return fmt.Errorf("invalid log level '%s': must be one of: %s",
		c.LogLevel, strings.Join(validLogLevels, ", "))
}
