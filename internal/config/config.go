// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"contract-guard/internal/analyzer"
)

// Config represents the application configuration.
type Config struct {
	// Default settings applied when no flag overrides them
	Defaults struct {
		Format    string `yaml:"format"`
		Verbose   bool   `yaml:"verbose"`
		Debug     bool   `yaml:"debug"`
		NoColor   bool   `yaml:"no_color"`
		Recursive bool   `yaml:"recursive"`
		FailOn    string `yaml:"fail_on"`
	} `yaml:"defaults"`

	// Engine tunables: scoring constants live here, outside rule logic,
	// so they can be adjusted without touching the detector.
	Engine struct {
		SeverityWeights struct {
			High   int `yaml:"high"`
			Medium int `yaml:"medium"`
			Low    int `yaml:"low"`
		} `yaml:"severity_weights"`
		TierThresholds struct {
			High   int `yaml:"high"`
			Medium int `yaml:"medium"`
		} `yaml:"tier_thresholds"`
		ContextWindow int `yaml:"context_window"`
		MinTextLength int `yaml:"min_text_length"`
	} `yaml:"engine"`

	// Storage configures where analysis records are persisted
	Storage Storage `yaml:"storage"`

	// Entitlement configures the free-tier usage gate
	Entitlement Entitlement `yaml:"entitlement"`

	// Server configures the optional HTTP mode
	Server Server `yaml:"server"`

	// Profiles for different scanning scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Storage selects and configures the persistence backend.
type Storage struct {
	Backend string      `yaml:"backend"` // "filesystem" or "minio"
	Dir     string      `yaml:"dir"`
	Minio   MinioConfig `yaml:"minio"`
}

// MinioConfig holds object storage connection settings.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Entitlement configures the free-tier usage gate.
type Entitlement struct {
	FreeAnalyses int    `yaml:"free_analyses"`
	UsageFile    string `yaml:"usage_file"`
}

// Server configures the HTTP server mode.
type Server struct {
	Addr             string `yaml:"addr"`
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
	MaxUploadBytes   int64  `yaml:"max_upload_bytes"`
}

// Profile overrides the defaults for a named scanning scenario.
type Profile struct {
	Format      string `yaml:"format"`
	Verbose     bool   `yaml:"verbose"`
	Debug       bool   `yaml:"debug"`
	NoColor     bool   `yaml:"no_color"`
	Recursive   bool   `yaml:"recursive"`
	FailOn      string `yaml:"fail_on"`
	Description string `yaml:"description"`
}

// LoadConfig loads configuration from the specified file path. An empty path
// or a missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{Profiles: make(map[string]Profile)}
	config.applyDefaults()

	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	c.Defaults.Format = "text"

	opts := analyzer.DefaultOptions()
	c.Engine.SeverityWeights.High = opts.WeightHigh
	c.Engine.SeverityWeights.Medium = opts.WeightMedium
	c.Engine.SeverityWeights.Low = opts.WeightLow
	c.Engine.TierThresholds.High = opts.TierHighThreshold
	c.Engine.TierThresholds.Medium = opts.TierMediumThreshold
	c.Engine.ContextWindow = opts.ContextWindow
	c.Engine.MinTextLength = opts.MinTextLength

	c.Storage.Backend = "filesystem"
	c.Storage.Dir = defaultStorageDir()

	c.Entitlement.FreeAnalyses = 1
	c.Entitlement.UsageFile = defaultUsageFile()

	c.Server.Addr = ":8080"
	c.Server.TokenExpireHours = 24
	c.Server.MaxUploadBytes = 10 * 1024 * 1024
}

// Validate checks the loaded configuration for inconsistencies.
func (c *Config) Validate() error {
	if err := c.EngineOptions().Validate(); err != nil {
		return err
	}
	switch c.Storage.Backend {
	case "filesystem", "minio":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Entitlement.FreeAnalyses < 0 {
		return fmt.Errorf("free_analyses must be non-negative, got %d", c.Entitlement.FreeAnalyses)
	}
	return nil
}

// EngineOptions converts the engine section into analyzer options.
func (c *Config) EngineOptions() analyzer.Options {
	return analyzer.Options{
		WeightHigh:          c.Engine.SeverityWeights.High,
		WeightMedium:        c.Engine.SeverityWeights.Medium,
		WeightLow:           c.Engine.SeverityWeights.Low,
		TierHighThreshold:   c.Engine.TierThresholds.High,
		TierMediumThreshold: c.Engine.TierThresholds.Medium,
		ContextWindow:       c.Engine.ContextWindow,
		MinTextLength:       c.Engine.MinTextLength,
	}
}

// ApplyProfile overlays a named profile onto the defaults.
func (c *Config) ApplyProfile(name string) error {
	profile, ok := c.Profiles[name]
	if !ok {
		return fmt.Errorf("profile %q not found in configuration", name)
	}
	if profile.Format != "" {
		c.Defaults.Format = profile.Format
	}
	if profile.FailOn != "" {
		c.Defaults.FailOn = profile.FailOn
	}
	c.Defaults.Verbose = c.Defaults.Verbose || profile.Verbose
	c.Defaults.Debug = c.Defaults.Debug || profile.Debug
	c.Defaults.NoColor = c.Defaults.NoColor || profile.NoColor
	c.Defaults.Recursive = c.Defaults.Recursive || profile.Recursive
	return nil
}

// FindConfigFile searches standard locations for a configuration file and
// returns the first that exists, or the empty string.
func FindConfigFile() string {
	candidates := []string{".contract-guard.yaml", ".contract-guard.yml"}

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".config", "contract-guard", "config.yaml"),
			filepath.Join(home, ".contract-guard.yaml"),
		)
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func defaultStorageDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".contract-guard", "analyses")
	}
	return filepath.Join(os.TempDir(), "contract-guard", "analyses")
}

func defaultUsageFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".contract-guard", "usage.json")
	}
	return filepath.Join(os.TempDir(), "contract-guard", "usage.json")
}
