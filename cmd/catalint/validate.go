// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"catalint/internal/config"
	"catalint/internal/issue"
	"catalint/pkg/catalog"

	"github.com/spf13/cobra"
)

// newValidateCommand creates the `catalint validate` command.
func newValidateCommand(app *App, cfgFile *string, verbose *bool) *cobra.Command {
	var policyFile string

	validateCmd := &cobra.Command{
		Use:   "validate <catalog-file>",
		Short: "Validate a version catalog file",
		Long: `Validate a Gradle-style version catalog TOML file.

Validation reports errors (structural and semantic problems that make the
catalog invalid) and warnings (advisory findings such as known-vulnerable
versions or unreferenced version entries). Warnings never affect the exit
code; any error makes the command exit with status 1.

The advisory rules run against the built-in policy merged with the policy
section of the configuration file. A standalone policy file given via
--policy replaces the configuration extensions for this invocation.

Examples:
  catalint validate gradle/libs.versions.toml
  catalint validate --policy team-policy.cue libs.versions.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, app, args[0], *cfgFile, policyFile, *verbose)
		},
	}

	validateCmd.Flags().StringVar(&policyFile, "policy", "", "CUE policy file overriding the configured policy extensions")

	return validateCmd
}

// runValidate validates a single catalog file and renders styled results.
// It reports all errors and warnings in a single pass so users see every
// issue at once rather than having to fix-and-rerun iteratively.
func runValidate(cmd *cobra.Command, app *App, catalogPath, cfgFile, policyFile string, verbose bool) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	absPath, err := filepath.Abs(catalogPath)
	if err != nil {
		absPath = catalogPath
	}

	fmt.Fprintln(stdout, catalogTitleStyle.Render("Catalog Validation"))
	fmt.Fprintf(stdout, "%s Path: %s\n", catalogInfoIcon, catalogPathStyle.Render(absPath))
	fmt.Fprintln(stdout)

	pol, err := resolvePolicy(cmd, app, cfgFile, policyFile)
	if err != nil {
		svcErr := newServiceError(err, issue.PolicyLoadFailedId,
			fmt.Sprintf("%s Failed to load policy file: %s\n", catalogErrorIcon, formatErrorForDisplay(err, verbose)))
		renderServiceError(stderr, svcErr)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: svcErr}
	}

	if verbose {
		slog.Debug("running validation",
			"path", absPath,
			"vulnerableVersions", len(pol.VulnerableVersions),
			"criticalDependencies", len(pol.CriticalDependencies),
			"incompatibilities", len(pol.Incompatibilities),
		)
	}

	validator := catalog.NewValidator(catalog.WithPolicy(pol))
	result := validator.ValidateFile(catalogPath)

	renderWarnings(stderr, result.Warnings)

	if !result.Valid {
		renderErrors(stderr, result.Errors)
		fmt.Fprintln(stderr)
		fmt.Fprintf(stderr, "%s Validation failed with %d error(s)\n", catalogErrorIcon, len(result.Errors))

		if id := classifyFailure(result.Errors); id != 0 {
			if entry := issue.Get(id); entry != nil {
				if rendered, renderErr := entry.Render("dark"); renderErr == nil {
					fmt.Fprint(stderr, rendered)
				} else {
					slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
				}
			}
		}

		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1}
	}

	fmt.Fprintf(stdout, "%s Catalog is valid\n", catalogSuccessIcon)
	return nil
}

// resolvePolicy determines the policy data for this invocation: a standalone
// --policy file when given, otherwise the configuration's effective policy.
func resolvePolicy(cmd *cobra.Command, app *App, cfgFile, policyFile string) (catalog.Policy, error) {
	if policyFile != "" {
		return config.LoadPolicyFile(policyFile)
	}

	cfg := loadRuntimeConfig(cmd, app, cfgFile)
	return cfg.EffectivePolicy(), nil
}

// classifyFailure maps validation error text to the matching issue catalog
// entry for rendering extra help. Returns 0 when no entry applies.
func classifyFailure(errs []string) issue.Id {
	if len(errs) != 1 {
		return issue.CatalogInvalidId
	}
	switch {
	case errs[0] == catalog.MsgFileNotFound:
		return issue.CatalogNotFoundId
	case strings.HasPrefix(errs[0], "Syntax error"), errs[0] == "Empty or invalid TOML file",
		strings.HasPrefix(errs[0], "Invalid table definition"):
		return issue.CatalogParseFailedId
	default:
		return issue.CatalogInvalidId
	}
}

// renderErrors prints the error list in the numbered issue format.
func renderErrors(stderr io.Writer, errs []string) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintln(stderr)
	fmt.Fprintf(stderr, "%s %d error(s) found:\n", catalogErrorIcon, len(errs))
	fmt.Fprintln(stderr)
	for i, msg := range errs {
		issueNum := fmt.Sprintf("  %d.", i+1)
		issueType := catalogIssueTypeStyle.Render("[error]")
		fmt.Fprintf(stderr, "%s %s %s\n", catalogIssueStyle.Render(issueNum), issueType, msg)
	}
}

// renderWarnings prints the warning list in the numbered issue format.
func renderWarnings(stderr io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(stderr)
	fmt.Fprintf(stderr, "%s %d warning(s) found:\n", catalogWarningIcon, len(warnings))
	fmt.Fprintln(stderr)
	for i, msg := range warnings {
		issueNum := fmt.Sprintf("  %d.", i+1)
		issueType := catalogIssueTypeStyle.Render("[warning]")
		fmt.Fprintf(stderr, "%s %s %s\n", catalogIssueStyle.Render(issueNum), issueType, msg)
	}
}
