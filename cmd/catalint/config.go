// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"catalint/internal/config"
	"catalint/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `catalint config` command tree.
// Subcommands that read configuration use the App's config provider.
func newConfigCommand(app *App, cfgFile *string) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage catalint configuration",
		Long: `Manage catalint configuration.

Configuration is stored in:
  - Linux: ~/.config/catalint/config.cue
  - macOS: ~/Library/Application Support/catalint/config.cue
  - Windows: %APPDATA%\catalint\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app, *cfgFile)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd, app, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: *cfgFile})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, cfgFile string) error {
	stdout := cmd.OutOrStdout()

	cfg, resolvedPath, err := app.Config.LoadWithPath(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(cmd.ErrOrStderr(), rendered)
		return err
	}

	// Style definitions using shared color palette
	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(stdout, headerStyle.Render("Current Configuration"))
	fmt.Fprintln(stdout)

	if resolvedPath != "" {
		fmt.Fprintf(stdout, "%s: %s\n", keyStyle.Render("Config file"), resolvedPath)
	} else {
		fmt.Fprintf(stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(stdout, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(stdout, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s:\n", keyStyle.Render("policy"))

	fmt.Fprintf(stdout, "  vulnerable_versions:\n")
	if len(cfg.Policy.VulnerableVersions) == 0 {
		fmt.Fprintf(stdout, "    %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, vv := range cfg.Policy.VulnerableVersions {
		fmt.Fprintf(stdout, "    - %s %s\n", valueStyle.Render(vv.Label), valueStyle.Render(vv.Version))
	}

	fmt.Fprintf(stdout, "  critical_dependencies:\n")
	if len(cfg.Policy.CriticalDependencies) == 0 {
		fmt.Fprintf(stdout, "    %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, dep := range cfg.Policy.CriticalDependencies {
		fmt.Fprintf(stdout, "    - %s\n", valueStyle.Render(dep))
	}

	fmt.Fprintf(stdout, "  incompatibilities:\n")
	if len(cfg.Policy.Incompatibilities) == 0 {
		fmt.Fprintf(stdout, "    %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, inc := range cfg.Policy.Incompatibilities {
		fmt.Fprintf(stdout, "    - %s %s with %s %s\n",
			valueStyle.Render(inc.ToolA), valueStyle.Render(inc.VersionA),
			valueStyle.Render(inc.ToolB), valueStyle.Render(inc.VersionB))
	}

	return nil
}

func initConfig(cmd *cobra.Command) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n",
		SuccessStyle.Render("✓"),
		filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	return nil
}

func setConfigValue(cmd *cobra.Command, app *App, key, value string) error {
	cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{})
	if err != nil {
		return err
	}

	switch key {
	case "ui.color_scheme":
		scheme := config.ColorScheme(value)
		if ok, _ := scheme.IsValid(); !ok {
			return fmt.Errorf("invalid ui.color_scheme: must be 'auto', 'dark', or 'light'")
		}
		cfg.UI.ColorScheme = scheme

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: ui.color_scheme, ui.verbose", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

func showConfigPath(cmd *cobra.Command) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	cfgPath := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)

	fmt.Fprintf(stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(stdout, "Config file: %s", cfgPath)
	fmt.Fprintln(stdout)

	if _, statErr := os.Stat(cfgPath); os.IsNotExist(statErr) {
		fmt.Fprintf(stdout, "%s\n", SubtitleStyle.Render("(file does not exist yet; run 'catalint config init')"))
	}

	return nil
}
