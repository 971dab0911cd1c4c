// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

// Package config loads and validates Menubarr configuration.
//
// Configuration is layered via Koanf v2: built-in defaults, then an optional
// YAML file (menubarr.yaml, or the path in MENUBARR_CONFIG), then environment
// variables. Source credentials (Plex token, Tautulli API key) are optional
// at load time; the engine reports unconfigured sources per poll instead of
// refusing to start.
package config
