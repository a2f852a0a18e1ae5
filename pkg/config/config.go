/*
Copyright 2025-2026 the Wirecheck Authors.

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

// Package config loads test run configuration from defaults, an optional YAML
// file, an optional .env file and finally environment variables, in that
// order of precedence (later sources win). A Config is read-only once loaded.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingRequired is returned by Load and LoadFile when one or more
// required settings are absent after all sources have been merged.
var ErrMissingRequired = errors.New("missing required configuration")

// Config holds everything a test run needs to talk to the API under test.
type Config struct {
	// BaseURL is the root of the API under test. Required.
	BaseURL string

	// AuthToken, when set, is sent as an Authorization bearer token.
	AuthToken string

	// RequestTimeout bounds each individual HTTP request.
	RequestTimeout time.Duration `default:"30s"`

	// TestTimeout bounds a whole scenario, e.g. readiness polling.
	TestTimeout time.Duration `default:"5m"`

	// RetryCount is the number of readiness probe attempts.
	RetryCount int `default:"3"`

	// LogLevel selects the CLI log verbosity (debug, info, warn, error).
	LogLevel string `default:"info"`

	// LogRequests enables a log line per request with status and timing.
	LogRequests bool

	// LogResponses additionally logs response bodies.
	LogResponses bool

	// UserAgent is sent on every request unless overridden per request.
	UserAgent string `default:"wirecheck/1.0"`

	// DefaultHeaders are attached to every request before per-request
	// headers are applied.
	DefaultHeaders map[string]string
}

// fileConfig is the YAML schema. Durations are strings ("30s") and optional
// scalars are pointers so an absent key leaves the default untouched.
type fileConfig struct {
	BaseURL        string            `yaml:"base_url"`
	AuthToken      string            `yaml:"auth_token"`
	RequestTimeout string            `yaml:"request_timeout"`
	TestTimeout    string            `yaml:"test_timeout"`
	RetryCount     *int              `yaml:"retry_count"`
	LogLevel       string            `yaml:"log_level"`
	LogRequests    *bool             `yaml:"log_requests"`
	LogResponses   *bool             `yaml:"log_responses"`
	UserAgent      string            `yaml:"user_agent"`
	DefaultHeaders map[string]string `yaml:"default_headers"`
}

// Load builds a Config from defaults, a discoverable .env file and
// environment variables. Returns an error wrapping ErrMissingRequired if a
// required value is still unset afterwards.
func Load() (*Config, error) {
	config := &Config{}

	if err := defaults.Set(config); err != nil {
		return nil, fmt.Errorf("applying configuration defaults: %w", err)
	}

	loadEnvFile()

	if err := applyEnvironment(config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadFile is Load with a YAML configuration file merged in between the
// defaults and the environment, so environment variables still win.
func LoadFile(path string) (*Config, error) {
	config := &Config{}

	if err := defaults.Set(config); err != nil {
		return nil, fmt.Errorf("applying configuration defaults: %w", err)
	}

	if err := applyFile(config, path); err != nil {
		return nil, err
	}

	loadEnvFile()

	if err := applyEnvironment(config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyFile merges a YAML file into config.
func applyFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if file.BaseURL != "" {
		config.BaseURL = file.BaseURL
	}

	if file.AuthToken != "" {
		config.AuthToken = file.AuthToken
	}

	if file.RequestTimeout != "" {
		duration, err := time.ParseDuration(file.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout in %s: %w", path, err)
		}

		config.RequestTimeout = duration
	}

	if file.TestTimeout != "" {
		duration, err := time.ParseDuration(file.TestTimeout)
		if err != nil {
			return fmt.Errorf("invalid test_timeout in %s: %w", path, err)
		}

		config.TestTimeout = duration
	}

	if file.RetryCount != nil {
		config.RetryCount = *file.RetryCount
	}

	if file.LogLevel != "" {
		config.LogLevel = file.LogLevel
	}

	if file.LogRequests != nil {
		config.LogRequests = *file.LogRequests
	}

	if file.LogResponses != nil {
		config.LogResponses = *file.LogResponses
	}

	if file.UserAgent != "" {
		config.UserAgent = file.UserAgent
	}

	// Merge rather than replace so file entries extend the defaults.
	if len(file.DefaultHeaders) > 0 {
		if config.DefaultHeaders == nil {
			config.DefaultHeaders = map[string]string{}
		}

		for name, value := range file.DefaultHeaders {
			config.DefaultHeaders[name] = value
		}
	}

	return nil
}

// applyEnvironment overlays environment variables onto config.
func applyEnvironment(config *Config) error {
	if value := os.Getenv("API_BASE_URL"); value != "" {
		config.BaseURL = value
	}

	if value := os.Getenv("API_AUTH_TOKEN"); value != "" {
		config.AuthToken = value
	}

	if value := os.Getenv("USER_AGENT"); value != "" {
		config.UserAgent = value
	}

	if value := os.Getenv("LOG_LEVEL"); value != "" {
		config.LogLevel = value
	}

	if err := getDuration("REQUEST_TIMEOUT", &config.RequestTimeout); err != nil {
		return err
	}

	if err := getDuration("TEST_TIMEOUT", &config.TestTimeout); err != nil {
		return err
	}

	if err := getInt("RETRY_COUNT", &config.RetryCount); err != nil {
		return err
	}

	if err := getBool("LOG_REQUESTS", &config.LogRequests); err != nil {
		return err
	}

	if err := getBool("LOG_RESPONSES", &config.LogResponses); err != nil {
		return err
	}

	return nil
}

// getDuration parses an environment variable into a duration, leaving the
// target untouched when the variable is unset.
func getDuration(key string, into *time.Duration) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}

	*into = duration

	return nil
}

// getInt parses an environment variable into an int, leaving the target
// untouched when the variable is unset.
func getInt(key string, into *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}

	*into = parsed

	return nil
}

// getBool parses an environment variable into a bool, leaving the target
// untouched when the variable is unset.
func getBool(key string, into *bool) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}

	*into = parsed

	return nil
}

// loadEnvFile loads the first .env file found in the usual locations.
// Variables already present in the environment are never overridden. Not
// finding a file is fine, CI sets the environment directly.
func loadEnvFile() {
	envPaths := []string{
		".env",
		"test/.env",
		"../.env",
		"../../.env",
	}

	for _, path := range envPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", path, err)
		}

		return
	}
}

// validate checks that all required configuration values are set.
func (c *Config) validate() error {
	var missing []string

	required := map[string]string{
		"API_BASE_URL": c.BaseURL,
	}

	for envVar, value := range required {
		if value == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)

		return fmt.Errorf("%w: %s. Set these environment variables or add them to a .env or config file", ErrMissingRequired, strings.Join(missing, ", "))
	}

	return nil
}

// String renders the configuration with credentials redacted.
func (c *Config) String() string {
	token := c.AuthToken
	if token != "" {
		token = "***"
	}

	headers := make([]string, 0, len(c.DefaultHeaders))

	for name, value := range c.DefaultHeaders {
		if strings.EqualFold(name, "Authorization") {
			value = "***"
		}

		headers = append(headers, name+"="+value)
	}

	sort.Strings(headers)

	return fmt.Sprintf("Config{BaseURL:%s AuthToken:%s RequestTimeout:%s TestTimeout:%s RetryCount:%d LogLevel:%s UserAgent:%s DefaultHeaders:[%s]}",
		c.BaseURL, token, c.RequestTimeout, c.TestTimeout, c.RetryCount, c.LogLevel, c.UserAgent, strings.Join(headers, " "))
}
