/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config loads suite configuration from the environment, an optional
// .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/unikorn-cloud/userapi/pkg/logging"
	"github.com/unikorn-cloud/userapi/pkg/retry"
)

const (
	// DefaultUsername is the account seeded into the in-process service.
	DefaultUsername = "qa.automation"
	// DefaultPassword is the password of DefaultUsername.
	DefaultPassword = "automation-pass"

	DefaultRequestTimeout = 30 * time.Second
	DefaultRetryBackoff   = 1.5
)

// ErrMissingConfiguration is returned when a remote run lacks required keys.
var ErrMissingConfiguration = errors.New("missing required configuration")

// Retry is the retry policy applied to every API call.
type Retry struct {
	MaxRetries int           `yaml:"maxRetries"`
	Delay      time.Duration `yaml:"delay"`
	Backoff    float64       `yaml:"backoff"`
}

// Config holds everything a run needs.
type Config struct {
	// BaseURL is the service under test.  Empty means run against the
	// in-process reference service.
	BaseURL        string        `yaml:"baseURL"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	AuthToken      string        `yaml:"authToken"`
	LogLevel       string        `yaml:"logLevel"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	Retry          Retry         `yaml:"retry"`
	LogRequests    bool          `yaml:"logRequests"`
	LogResponses   bool          `yaml:"logResponses"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		RequestTimeout: DefaultRequestTimeout,
		Retry: Retry{
			MaxRetries: retry.DefaultRetries,
			Delay:      retry.DefaultDelay,
			Backoff:    DefaultRetryBackoff,
		},
	}
}

// Load builds and validates the configuration.
func Load() (*Config, error) {
	config, err := Read()
	if err != nil {
		return nil, err
	}

	if err := config.Complete(); err != nil {
		return nil, err
	}

	return config, nil
}

// Read builds the configuration without validating it, so that callers can
// apply their own overrides first.  Defaults are overlaid by the YAML file
// named by USERAPI_CONFIG, if any, and then by environment variables, which
// may come from a .env file.
func Read() (*Config, error) {
	loadEnvFile()

	config := Default()

	if path := os.Getenv("USERAPI_CONFIG"); path != "" {
		if err := config.loadFile(path); err != nil {
			return nil, err
		}
	}

	config.BaseURL = getStringWithDefault("API_BASE_URL", config.BaseURL)
	config.Username = getStringWithDefault("API_USERNAME", config.Username)
	config.Password = getStringWithDefault("API_PASSWORD", config.Password)
	config.AuthToken = getStringWithDefault("API_AUTH_TOKEN", config.AuthToken)
	config.LogLevel = getStringWithDefault("LOG_LEVEL", config.LogLevel)
	config.RequestTimeout = getDurationWithDefault("REQUEST_TIMEOUT", config.RequestTimeout)
	config.Retry.MaxRetries = getIntWithDefault("RETRY_MAX", config.Retry.MaxRetries)
	config.Retry.Delay = getDurationWithDefault("RETRY_DELAY", config.Retry.Delay)
	config.Retry.Backoff = getFloatWithDefault("RETRY_BACKOFF", config.Retry.Backoff)
	config.LogRequests = getBoolWithDefault("LOG_REQUESTS", config.LogRequests)
	config.LogResponses = getBoolWithDefault("LOG_RESPONSES", config.LogResponses)

	return config, nil
}

// Complete fills in the seeded account credentials for local runs and then
// validates the result.
func (c *Config) Complete() error {
	if c.Local() {
		if c.Username == "" {
			c.Username = DefaultUsername
		}

		if c.Password == "" {
			c.Password = DefaultPassword
		}
	}

	return c.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.UnmarshalStrict([]byte(os.ExpandEnv(string(data))), c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// Local is true when the suite should start its own reference service.
func (c *Config) Local() bool {
	return c.BaseURL == ""
}

// Level is the parsed LOG_LEVEL.
func (c *Config) Level() slog.Level {
	// Validate has already rejected anything unparseable.
	level, _ := logging.ParseLevel(c.LogLevel)

	return level
}

// Policy is the retry policy for API calls.
func (c *Config) Policy() retry.Policy {
	return retry.Policy{
		Retries: c.Retry.MaxRetries,
		Delay:   c.Retry.Delay,
		Backoff: c.Retry.Backoff,
	}
}

// Validate checks that all required configuration values are set.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.Retry.MaxRetries < 1 {
		return fmt.Errorf("%w: RETRY_MAX must be at least 1, got %d", ErrMissingConfiguration, c.Retry.MaxRetries)
	}

	if c.Local() {
		return nil
	}

	var missing []string

	required := []struct {
		key   string
		value string
	}{
		{"API_USERNAME", c.Username},
		{"API_PASSWORD", c.Password},
	}

	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s. Please set these environment variables or add them to a .env file", ErrMissingConfiguration, strings.Join(missing, ", "))
	}

	return nil
}

func getStringWithDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return defaultValue
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		// Bare integers are milliseconds.
		ms, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}

		return time.Duration(ms) * time.Millisecond
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func getIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func getFloatWithDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatValue
}

func loadEnvFile() {
	envPaths := []string{
		".env",
		"test/.env",
		"../../test/.env",    // From test/api directory
		"../../../test/.env", // From test/api/suites directory
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}
