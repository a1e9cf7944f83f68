// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"catalint/internal/config"
	"catalint/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// NewRootCommand creates the catalint root command with all subcommands attached.
func NewRootCommand(app *App) *cobra.Command {
	var (
		verbose bool
		cfgFile string
	)

	rootCmd := &cobra.Command{
		Use:   "catalint",
		Short: "A version catalog validator",
		Long: TitleStyle.Render("catalint") + SubtitleStyle.Render(" - A version catalog validator") + `

catalint validates Gradle-style dependency version catalogs written in
TOML. It checks structure, version formats, module coordinates, plugin
IDs, bundle references, and cross-references between sections, and it
warns about known-vulnerable versions, incompatible tool combinations,
and unreferenced version entries.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Point catalint at your catalog file
  2. Fix reported errors until the catalog is valid
  3. Review warnings for advisory findings

` + SubtitleStyle.Render("Examples:") + `
  catalint validate gradle/libs.versions.toml   Validate a catalog
  catalint policy show                          Show the effective policy
  catalint config show                          Show current configuration`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/catalint/config.cue)")

	rootCmd.AddCommand(newValidateCommand(app, &cfgFile, &verbose))
	rootCmd.AddCommand(newPolicyCommand(app, &cfgFile))
	rootCmd.AddCommand(newConfigCommand(app, &cfgFile))

	return rootCmd
}

// setupLogging routes slog through a styled terminal logger. Verbose mode
// lowers the threshold to debug so rule-level diagnostics become visible.
func setupLogging(verbose bool) {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "catalint",
		Level:  level,
	})
	slog.SetDefault(slog.New(logger))
}

// Execute builds the production App and runs the root command.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// loadRuntimeConfig resolves configuration for a command invocation. Loading
// failures are surfaced as warnings and defaults are returned, so validation
// still runs when the config file is broken.
func loadRuntimeConfig(cmd *cobra.Command, app *App, cfgFile string) *config.Config {
	cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		verbose, _ := cmd.Flags().GetBool("verbose")
		fmt.Fprintln(cmd.ErrOrStderr(), WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		return config.DefaultConfig()
	}
	return cfg
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
