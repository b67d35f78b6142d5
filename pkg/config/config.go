// Package config holds the explicit settings struct passed into the
// client and server constructors. There is no ambient global lookup;
// callers load settings once at startup and hand them down.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Version is the version reported by the MCP server during
// initialization.
const Version = "0.4.0"

// envPrefix is prepended to every environment variable this package
// reads.
const envPrefix = "LOGSEQ_"

// Settings is the process-wide configuration.
type Settings struct {
	// APIToken authorizes requests against the Logseq HTTP API.
	APIToken string `yaml:"api_token"`
	// APIURL is the Logseq HTTP API base address.
	APIURL string `yaml:"api_url"`
	// APITimeoutSeconds bounds one request attempt.
	APITimeoutSeconds int `yaml:"api_timeout"`
	// APIMaxRetries is the attempt budget for transport failures.
	APIMaxRetries int `yaml:"api_max_retries"`

	ServerName    string `yaml:"server_name"`
	ServerVersion string `yaml:"server_version"`

	EnableAdvancedQueries bool `yaml:"enable_advanced_queries"`
	EnableGitOperations   bool `yaml:"enable_git_operations"`
	EnableAssetManagement bool `yaml:"enable_asset_management"`
}

// Default returns the settings used when neither file nor environment
// overrides them.
func Default() Settings {
	return Settings{
		APIURL:                "http://localhost:12315",
		APITimeoutSeconds:     10,
		APIMaxRetries:         3,
		ServerName:            "logseq-mcp",
		ServerVersion:         Version,
		EnableAdvancedQueries: true,
	}
}

// Load builds settings from defaults, an optional YAML file, and the
// LOGSEQ_* environment, in increasing precedence. Passing an empty
// path skips the file step.
func Load(path string) (Settings, error) {
	settings := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := settings.applyEnv(); err != nil {
		return Settings{}, err
	}

	settings.normalize()
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s *Settings) applyEnv() error {
	if v, ok := os.LookupEnv(envPrefix + "API_TOKEN"); ok {
		s.APIToken = v
	}
	if v, ok := os.LookupEnv(envPrefix + "API_URL"); ok {
		s.APIURL = v
	}
	if v, ok := os.LookupEnv(envPrefix + "API_TIMEOUT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOGSEQ_API_TIMEOUT must be an integer: %w", err)
		}
		s.APITimeoutSeconds = n
	}
	if v, ok := os.LookupEnv(envPrefix + "API_MAX_RETRIES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOGSEQ_API_MAX_RETRIES must be an integer: %w", err)
		}
		s.APIMaxRetries = n
	}
	for name, target := range map[string]*bool{
		"ENABLE_ADVANCED_QUERIES": &s.EnableAdvancedQueries,
		"ENABLE_GIT_OPERATIONS":   &s.EnableGitOperations,
		"ENABLE_ASSET_MANAGEMENT": &s.EnableAssetManagement,
	} {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s%s must be a boolean: %w", envPrefix, name, err)
			}
			*target = b
		}
	}
	return nil
}

// normalize strips the trailing slash so two profiles pointing at the
// same address compare equal.
func (s *Settings) normalize() {
	s.APIURL = strings.TrimRight(s.APIURL, "/")
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if s.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	if s.APITimeoutSeconds <= 0 {
		return fmt.Errorf("api_timeout must be positive")
	}
	if s.APIMaxRetries < 1 {
		return fmt.Errorf("api_max_retries must be at least 1")
	}
	return nil
}

// Timeout returns the per-attempt timeout as a duration.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.APITimeoutSeconds) * time.Second
}
