/*
Copyright 2026 the Wirecheck Authors.

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

// wirecheck probes a deployed API for readiness and runs a handful of smoke
// checks against it, using the same client, config and checks the test
// suites use. Exit status 0 means the API is up and sane.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/wirecheck/wirecheck/pkg/client"
	"github.com/wirecheck/wirecheck/pkg/config"
	"github.com/wirecheck/wirecheck/pkg/expect"
	"github.com/wirecheck/wirecheck/pkg/logging"
	"github.com/wirecheck/wirecheck/pkg/probe"
)

// version is stamped by the build.
var version = "dev"

type options struct {
	configFile   string
	baseURL      string
	authToken    string
	timeout      time.Duration
	attempts     int
	logLevel     string
	printVersion bool
}

func (o *options) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.configFile, "config", "", "Path to a YAML configuration file.")
	flags.StringVar(&o.baseURL, "base-url", "", "Base URL of the API to check, overriding the configuration.")
	flags.StringVar(&o.authToken, "auth-token", "", "Bearer token to send, overriding the configuration.")
	flags.DurationVar(&o.timeout, "timeout", 0, "Overall run timeout, defaulting to the configured test timeout.")
	flags.IntVar(&o.attempts, "attempts", 0, "Readiness probe attempts, defaulting to the configured retry count.")
	flags.StringVar(&o.logLevel, "log-level", "", "Log verbosity: debug, info, warn or error.")
	flags.BoolVar(&o.printVersion, "version", false, "Print the version and exit.")
}

// loadConfig merges flags over the usual configuration sources. Flags win
// by winning the environment merge, which already beats files and defaults.
func (o *options) loadConfig() (*config.Config, error) {
	if o.baseURL != "" {
		os.Setenv("API_BASE_URL", o.baseURL)
	}

	if o.authToken != "" {
		os.Setenv("API_AUTH_TOKEN", o.authToken)
	}

	if o.logLevel != "" {
		os.Setenv("LOG_LEVEL", o.logLevel)
	}

	if o.configFile != "" {
		return config.LoadFile(o.configFile)
	}

	return config.Load()
}

func main() {
	var options options

	options.AddFlags(pflag.CommandLine)

	pflag.Parse()

	if options.printVersion {
		fmt.Println(version)
		return
	}

	if err := run(&options); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	logging.Setup(cfg.LogLevel)

	logger := slog.Default()
	logger.Info("wirecheck starting", "version", version, "target", cfg.BaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeout := cfg.TestTimeout
	if opts.timeout > 0 {
		timeout = opts.timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	api, err := client.New(cfg)
	if err != nil {
		return err
	}

	defer api.Close()

	attempts := cfg.RetryCount
	if opts.attempts > 0 {
		attempts = opts.attempts
	}

	if err := probe.Wait(ctx, api, attempts); err != nil {
		return err
	}

	logger.Info("api ready")

	return smoke(ctx, api, logger)
}

// smoke runs the cheap checks a freshly deployed API must pass.
func smoke(ctx context.Context, api *client.Client, logger *slog.Logger) error {
	resp, err := api.Get(ctx, "/health")
	if err != nil {
		return err
	}

	if err := expect.Status(resp, http.StatusOK); err != nil {
		return err
	}

	if err := expect.JSONContains(resp, map[string]any{"status": "ok"}); err != nil {
		return err
	}

	logger.Info("health ok", "duration", resp.Duration, "trace", resp.TraceID)

	// Version is informational: absence is worth a warning, not a failed
	// check, since not every deployment exposes it.
	resp, err = api.Get(ctx, "/version")
	if err != nil {
		return err
	}

	if resp.IsSuccess() {
		logger.Info("version", "body", strings.TrimSpace(resp.Text()))
	} else {
		logger.Warn("version endpoint answered", "status", resp.Status)
	}

	return nil
}
