// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that the configuration is internally consistent.
//
// Plex and Tautulli settings are deliberately NOT required here: a missing
// or placeholder source configuration is a normal runtime condition that the
// poll engine surfaces as a per-source "not configured" error, so the daemon
// must start without them. Validation only rejects values that would make
// the daemon itself misbehave.
func (c *Config) Validate() error {
	if err := c.validateSources(); err != nil {
		return err
	}

	if err := c.validateNotify(); err != nil {
		return err
	}

	if err := c.validatePoll(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateSources checks source URLs for well-formedness when present.
// Placeholder values from a template config file are left for the engine to
// classify; only a URL that cannot be parsed at all is rejected here.
func (c *Config) validateSources() error {
	if c.Notify.WebhookURL != "" {
		if err := validateHTTPURL(c.Notify.WebhookURL, "NOTIFY_WEBHOOK_URL"); err != nil {
			return fmt.Errorf("NOTIFY_WEBHOOK_URL is invalid: %w", err)
		}
	}

	if c.Tautulli.HistoryCount < 1 || c.Tautulli.HistoryCount > 100 {
		return fmt.Errorf("TAUTULLI_HISTORY_COUNT must be between 1 and 100")
	}

	return nil
}

// validateNotify validates the notification policy settings.
func (c *Config) validateNotify() error {
	if c.Notify.MinInterval < 0 {
		return fmt.Errorf("NOTIFY_MIN_INTERVAL must not be negative")
	}
	return nil
}

// validatePoll validates the poll scheduler settings.
func (c *Config) validatePoll() error {
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	return nil
}

// validateServer validates the HTTP server settings.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// validateLogging validates the logging settings.
func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "warning": true, "error": true,
		"fatal": true, "panic": true, "disabled": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic, disabled")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}

	return nil
}

// validateHTTPURL validates that a URL is properly formatted for an
// HTTP/HTTPS service base URL.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	return nil
}
