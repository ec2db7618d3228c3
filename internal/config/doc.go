// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for noesis.
//
// Configuration is TOML with sensible defaults and environment variable
// overrides. File location: ~/.noesis/config.toml. The file may be edited
// while the application runs; Watch reloads it on change.
package config
