// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for rigsh.
//
// Settings come from three layers, later layers winning:
//   - Built-in defaults
//   - ~/.rigsh/config.toml
//   - RIGSH_* environment variables
package config
