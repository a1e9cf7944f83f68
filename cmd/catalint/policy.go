// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"catalint/internal/issue"
	"catalint/pkg/catalog"

	"github.com/spf13/cobra"
)

// newPolicyCommand creates the `catalint policy` command tree.
func newPolicyCommand(app *App, cfgFile *string) *cobra.Command {
	policyCmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect the validation policy",
		Long: `Inspect the policy data behind the advisory validation rules.

The effective policy is the built-in curated data (known-vulnerable junit
releases and the agp/kotlin compatibility matrix) merged with the policy
section of the configuration file. A standalone policy file can be
previewed with --policy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var policyFile string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective validation policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPolicyShow(cmd, app, *cfgFile, policyFile)
		},
	}
	showCmd.Flags().StringVar(&policyFile, "policy", "", "CUE policy file to preview instead of the configured policy")

	policyCmd.AddCommand(showCmd)

	return policyCmd
}

// runPolicyShow prints the resolved policy in the styled key/value format.
func runPolicyShow(cmd *cobra.Command, app *App, cfgFile, policyFile string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	pol, err := resolvePolicy(cmd, app, cfgFile, policyFile)
	if err != nil {
		svcErr := newServiceError(err, issue.PolicyLoadFailedId,
			fmt.Sprintf("%s Failed to load policy file: %s\n", catalogErrorIcon, err))
		renderServiceError(stderr, svcErr)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: svcErr}
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(stdout, TitleStyle.Render("Effective Policy"))
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "%s:\n", keyStyle.Render("vulnerable_versions"))
	if len(pol.VulnerableVersions) == 0 {
		fmt.Fprintf(stdout, "  %s\n", SubtitleStyle.Render("(none)"))
	}
	for _, vv := range pol.VulnerableVersions {
		fmt.Fprintf(stdout, "  - %s %s\n", valueStyle.Render(vv.Label), valueStyle.Render(vv.Version))
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s:\n", keyStyle.Render("critical_dependencies"))
	if len(pol.CriticalDependencies) == 0 {
		fmt.Fprintf(stdout, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, dep := range pol.CriticalDependencies {
		fmt.Fprintf(stdout, "  - %s\n", valueStyle.Render(dep))
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s:\n", keyStyle.Render("incompatibilities"))
	if len(pol.Incompatibilities) == 0 {
		fmt.Fprintf(stdout, "  %s\n", SubtitleStyle.Render("(none)"))
	}
	for _, inc := range pol.Incompatibilities {
		fmt.Fprintf(stdout, "  - %s\n", valueStyle.Render(formatIncompatibility(inc)))
	}

	return nil
}

func formatIncompatibility(inc catalog.Incompatibility) string {
	return fmt.Sprintf("%s %s with %s %s", inc.ToolA, inc.VersionA, inc.ToolB, inc.VersionB)
}
