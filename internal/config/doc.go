// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/catalint/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/catalint/config.cue on macOS, %APPDATA%\catalint\config.cue
// on Windows). The package provides type-safe configuration access and supports UI settings
// and policy extensions for the validation rules (deny-list entries, critical dependency
// substrings, and version incompatibility pairs).
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
