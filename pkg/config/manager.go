package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	opterrors "github.com/ducminhle1904/portfolio-ga/internal/errors"
)

// Manager implements ConfigManager: defaults, then the JSON file, then the environment
type Manager struct {
	validator Validator
	lookup    LookupFunc
}

// NewManager creates a configuration manager reading the process environment
func NewManager() *Manager {
	return &Manager{
		validator: NewOptimizerValidator(),
		lookup:    os.LookupEnv,
	}
}

// WithLookup replaces the environment source
func (m *Manager) WithLookup(lookup LookupFunc) *Manager {
	m.lookup = lookup
	return m
}

// LoadConfig loads configuration from an optional file and the environment, then validates it
func (m *Manager) LoadConfig(configFile string) (*OptimizerConfig, error) {
	cfg, err := m.LoadUnvalidated(configFile)
	if err != nil {
		return nil, err
	}

	if err := m.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadUnvalidated is LoadConfig without the final validation, for callers that
// apply further overrides (command-line flags) before validating
func (m *Manager) LoadUnvalidated(configFile string) (*OptimizerConfig, error) {
	cfg := NewDefaultConfig()

	if configFile != "" {
		if err := m.loadFromFile(configFile, cfg); err != nil {
			return nil, err
		}
	}

	expandPlaceholders(cfg, m.lookup)
	if err := ApplyEnv(cfg, m.lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays a JSON file on cfg; fields absent from the file keep their values
func (m *Manager) loadFromFile(configFile string, cfg *OptimizerConfig) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return opterrors.WrapError(err, opterrors.ErrorCategoryConfiguration, "config", "LoadConfig").
			WithContext("file", configFile)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return opterrors.WrapError(err, opterrors.ErrorCategoryConfiguration, "config", "LoadConfig").
			WithContext("file", configFile)
	}
	return nil
}

// ValidateConfig validates a configuration using the validator
func (m *Manager) ValidateConfig(cfg *OptimizerConfig) error {
	return m.validator.Validate(cfg)
}

// SaveConfig writes the configuration as indented JSON with credentials redacted
func (m *Manager) SaveConfig(cfg *OptimizerConfig, path string) error {
	data, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}
