// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package config

import "time"

// Config is the root configuration for Menubarr.
//
// Values are loaded via Koanf v2 with layered sources (highest priority
// wins): environment variables, then an optional YAML config file, then the
// built-in defaults below. Credentials are opaque strings; Menubarr never
// acquires or stores them itself.
type Config struct {
	Plex     PlexConfig     `koanf:"plex"`
	Tautulli TautulliConfig `koanf:"tautulli"`
	Notify   NotifyConfig   `koanf:"notify"`
	Poll     PollConfig     `koanf:"poll"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// PlexConfig configures the session source.
type PlexConfig struct {
	// URL is the Plex Media Server base URL, e.g. http://localhost:32400.
	URL string `koanf:"url"`

	// Token is the X-Plex-Token used for authentication.
	Token string `koanf:"token"`
}

// TautulliConfig configures the history source.
type TautulliConfig struct {
	// URL is the Tautulli base URL, e.g. http://localhost:8181.
	URL string `koanf:"url"`

	// APIKey is the Tautulli API key (Settings > Web Interface).
	APIKey string `koanf:"api_key"`

	// HistoryCount is how many recent history items to request per poll.
	HistoryCount int `koanf:"history_count"`
}

// NotifyConfig configures the notification policy and notifiers.
type NotifyConfig struct {
	// Enabled gates all notifications regardless of event type.
	Enabled bool `koanf:"enabled"`

	// OnPlaying allows notifications for sessions entering "playing".
	OnPlaying bool `koanf:"on_playing"`

	// OnPaused allows notifications for sessions entering "paused".
	OnPaused bool `koanf:"on_paused"`

	// MinInterval is the per-throttle-key cooldown between notifications.
	// Non-positive values are raised to the enforced floor at decision time.
	MinInterval time.Duration `koanf:"min_interval"`

	// WebhookURL, when set, enables the webhook notifier in addition to
	// the log notifier.
	WebhookURL string `koanf:"webhook_url"`
}

// PollConfig configures the poll scheduler.
type PollConfig struct {
	// Interval between timer-driven refreshes.
	Interval time.Duration `koanf:"interval"`

	// HistoryEnabled mirrors the presentation layer's "show history"
	// preference: when false the history fetch is skipped entirely and any
	// prior history items and error are cleared from the snapshot.
	HistoryEnabled bool `koanf:"history_enabled"`
}

// ServerConfig configures the HTTP API that presentation layers consume.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// CORSOrigins lists allowed origins for browser-based menu widgets.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs requests per RateLimitWindow, per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig configures the zerolog global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Default returns a Config with all defaults applied and no sources
// configured. Callers that skip Load (tests, embedding) start from here.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with all defaults applied. These are
// overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Plex: PlexConfig{
			URL:   "",
			Token: "",
		},
		Tautulli: TautulliConfig{
			URL:          "",
			APIKey:       "",
			HistoryCount: 5,
		},
		Notify: NotifyConfig{
			Enabled:     true,
			OnPlaying:   true,
			OnPaused:    true,
			MinInterval: 60 * time.Second,
			WebhookURL:  "",
		},
		Poll: PollConfig{
			Interval:       30 * time.Second,
			HistoryEnabled: true,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            9494,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
