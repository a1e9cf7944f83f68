// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for catalint.
//
// This package implements the Cobra command hierarchy for the catalint CLI:
// the root command plus subcommands for catalog validation, policy
// inspection, and configuration management.
package cmd
