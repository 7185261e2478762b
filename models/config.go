package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the GraphQL endpoint of the Linear API
const DefaultAPIURL = "https://api.linear.app/graphql"

// Config represents the application configuration
type Config struct {
	// Server configuration
	Server struct {
		Port int `yaml:"port" envconfig:"PORT" default:"8080"`
	} `yaml:"server" envconfig:"SERVER"`

	// Linear configuration
	Linear struct {
		APIKey              string `yaml:"api_key" envconfig:"API_KEY"`
		APIURL              string `yaml:"api_url" envconfig:"API_URL" default:"https://api.linear.app/graphql"`
		TeamID              string `yaml:"team_id" envconfig:"TEAM_ID"`
		DefaultInitiativeID string `yaml:"default_initiative_id" envconfig:"DEFAULT_INITIATIVE_ID"`
		ProjectFilter       string `yaml:"project_filter" envconfig:"PROJECT_FILTER"`
		TimeoutSeconds      int    `yaml:"timeout_seconds" envconfig:"TIMEOUT_SECONDS" default:"30"`
		MaxRetries          int    `yaml:"max_retries" envconfig:"MAX_RETRIES" default:"3"`
	} `yaml:"linear" envconfig:"LINEAR"`

	// Verification thresholds
	Verify struct {
		// A description is considered present when it is strictly longer than this
		DescriptionMinLength int `yaml:"description_min_length" envconfig:"DESCRIPTION_MIN_LENGTH" default:"10"`
		IssuePageSize        int `yaml:"issue_page_size" envconfig:"ISSUE_PAGE_SIZE" default:"100"`
	} `yaml:"verify" envconfig:"VERIFY"`

	// Periodic verification
	Scanner struct {
		IntervalSeconds int `yaml:"interval_seconds" envconfig:"INTERVAL_SECONDS" default:"0"`
	} `yaml:"scanner" envconfig:"SCANNER"`
}

// NewDefaultConfig returns a Config with every default applied and no environment lookup
func NewDefaultConfig() *Config {
	config := &Config{}
	config.Server.Port = 8080
	config.Linear.APIURL = DefaultAPIURL
	config.Linear.TimeoutSeconds = 30
	config.Linear.MaxRetries = 3
	config.Verify.DescriptionMinLength = 10
	config.Verify.IssuePageSize = 100
	return config
}

// EnvFileCandidates returns the .env files consulted before reading the environment
func EnvFileCandidates() []string {
	candidates := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "linear", ".env"))
	}
	return candidates
}

// LoadEnvFiles loads the given .env files in order. Variables already present in the
// environment are left untouched, so earlier files and the real environment win.
func LoadEnvFiles(paths ...string) []string {
	var loaded []string
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			continue
		}
		loaded = append(loaded, path)
	}
	return loaded
}

// LoadConfig loads configuration from the environment and, when configPath is not empty,
// overlays the values found in the YAML file at configPath
func LoadConfig(configPath string) (*Config, error) {
	var config Config

	// Process environment variables using envconfig
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.validateLimits(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that the configuration can be used against the remote service
func (c *Config) Validate() error {
	if c.Linear.APIKey == "" {
		return errors.New("LINEAR_API_KEY is required (Linear -> Settings -> Security & access -> Personal API keys)")
	}
	return c.validateLimits()
}

// validateLimits ensures numeric settings are within usable ranges
func (c *Config) validateLimits() error {
	if c.Verify.IssuePageSize <= 0 || c.Verify.IssuePageSize > 250 {
		return errors.New("verify.issue_page_size must be between 1 and 250")
	}
	if c.Verify.DescriptionMinLength < 0 {
		return errors.New("verify.description_min_length cannot be negative")
	}
	if c.Linear.MaxRetries < 0 {
		return errors.New("linear.max_retries cannot be negative")
	}
	if c.Linear.APIURL == "" {
		return errors.New("linear.api_url cannot be empty")
	}
	return nil
}
