// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"catalint/pkg/catalog"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidVulnerableVersionEntry is the sentinel error wrapped by InvalidVulnerableVersionEntryError.
	ErrInvalidVulnerableVersionEntry = errors.New("invalid vulnerable version entry")
	// ErrInvalidIncompatibilityEntry is the sentinel error wrapped by InvalidIncompatibilityEntryError.
	ErrInvalidIncompatibilityEntry = errors.New("invalid incompatibility entry")
	// ErrInvalidPolicyConfig is the sentinel error wrapped by InvalidPolicyConfigError.
	ErrInvalidPolicyConfig = errors.New("invalid policy config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// VulnerableVersionEntry adds a version to the deny list applied during
	// validation. Label is matched as a substring against library module
	// coordinates and version key names.
	VulnerableVersionEntry struct {
		// Label identifies the affected dependency (e.g., "junit").
		Label string `json:"label" mapstructure:"label"`
		// Version is the exact version string to flag.
		Version string `json:"version" mapstructure:"version"`
	}

	// InvalidVulnerableVersionEntryError is returned when a VulnerableVersionEntry
	// is missing its label or version. It wraps ErrInvalidVulnerableVersionEntry.
	InvalidVulnerableVersionEntryError struct {
		Entry VulnerableVersionEntry
	}

	// IncompatibilityEntry declares a pair of tool versions that must not
	// appear together in the same catalog.
	IncompatibilityEntry struct {
		ToolA    string `json:"tool_a" mapstructure:"tool_a"`
		VersionA string `json:"version_a" mapstructure:"version_a"`
		ToolB    string `json:"tool_b" mapstructure:"tool_b"`
		VersionB string `json:"version_b" mapstructure:"version_b"`
	}

	// InvalidIncompatibilityEntryError is returned when an IncompatibilityEntry
	// is missing any of its four fields. It wraps ErrInvalidIncompatibilityEntry.
	InvalidIncompatibilityEntryError struct {
		Entry IncompatibilityEntry
	}

	// PolicyConfig extends the built-in validation policy from the config file.
	// Entries are merged on top of the built-in policy; they never remove
	// built-in deny-list or incompatibility entries.
	PolicyConfig struct {
		// VulnerableVersions adds deny-list entries.
		VulnerableVersions []VulnerableVersionEntry `json:"vulnerable_versions" mapstructure:"vulnerable_versions"`
		// CriticalDependencies adds coordinate substrings that must match at
		// least one library, producing a warning when absent.
		CriticalDependencies []string `json:"critical_dependencies" mapstructure:"critical_dependencies"`
		// Incompatibilities adds version incompatibility pairs.
		Incompatibilities []IncompatibilityEntry `json:"incompatibilities" mapstructure:"incompatibilities"`
	}

	// InvalidPolicyConfigError is returned when a PolicyConfig has invalid entries.
	// It wraps ErrInvalidPolicyConfig for errors.Is() compatibility and collects
	// entry-level validation errors.
	InvalidPolicyConfigError struct {
		FieldErrors []error
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Policy extends the built-in validation policy
		Policy PolicyConfig `json:"policy" mapstructure:"policy"`
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// IsValid returns whether the entry names both a label and a version.
func (e VulnerableVersionEntry) IsValid() (bool, []error) {
	if strings.TrimSpace(e.Label) == "" || strings.TrimSpace(e.Version) == "" {
		return false, []error{&InvalidVulnerableVersionEntryError{Entry: e}}
	}
	return true, nil
}

// Error implements the error interface for InvalidVulnerableVersionEntryError.
func (e *InvalidVulnerableVersionEntryError) Error() string {
	return fmt.Sprintf("invalid vulnerable version entry {label: %q, version: %q}: both fields must be non-empty", e.Entry.Label, e.Entry.Version)
}

// Unwrap returns ErrInvalidVulnerableVersionEntry for errors.Is() compatibility.
func (e *InvalidVulnerableVersionEntryError) Unwrap() error { return ErrInvalidVulnerableVersionEntry }

// IsValid returns whether all four fields of the entry are non-empty.
func (e IncompatibilityEntry) IsValid() (bool, []error) {
	if strings.TrimSpace(e.ToolA) == "" || strings.TrimSpace(e.VersionA) == "" ||
		strings.TrimSpace(e.ToolB) == "" || strings.TrimSpace(e.VersionB) == "" {
		return false, []error{&InvalidIncompatibilityEntryError{Entry: e}}
	}
	return true, nil
}

// Error implements the error interface for InvalidIncompatibilityEntryError.
func (e *InvalidIncompatibilityEntryError) Error() string {
	return fmt.Sprintf("invalid incompatibility entry {%q %q / %q %q}: all four fields must be non-empty",
		e.Entry.ToolA, e.Entry.VersionA, e.Entry.ToolB, e.Entry.VersionB)
}

// Unwrap returns ErrInvalidIncompatibilityEntry for errors.Is() compatibility.
func (e *InvalidIncompatibilityEntryError) Unwrap() error { return ErrInvalidIncompatibilityEntry }

// IsValid returns whether the PolicyConfig has valid entries.
// It delegates to each entry's IsValid(); CriticalDependencies entries only
// need to be non-empty strings.
func (p PolicyConfig) IsValid() (bool, []error) {
	var errs []error
	for _, entry := range p.VulnerableVersions {
		if valid, fieldErrs := entry.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, dep := range p.CriticalDependencies {
		if strings.TrimSpace(dep) == "" {
			errs = append(errs, fmt.Errorf("critical dependency entries must be non-empty"))
		}
	}
	for _, entry := range p.Incompatibilities {
		if valid, fieldErrs := entry.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidPolicyConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPolicyConfigError.
func (e *InvalidPolicyConfigError) Error() string {
	return fmt.Sprintf("invalid policy config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidPolicyConfig for errors.Is() compatibility.
func (e *InvalidPolicyConfigError) Unwrap() error { return ErrInvalidPolicyConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to UI.IsValid() and Policy.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Policy.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// EffectivePolicy merges the configured policy extensions on top of the
// built-in policy. Extensions only add entries.
func (c Config) EffectivePolicy() catalog.Policy {
	policy := catalog.DefaultPolicy()
	for _, entry := range c.Policy.VulnerableVersions {
		policy.VulnerableVersions = append(policy.VulnerableVersions, catalog.VulnerableVersion{
			Label:   entry.Label,
			Version: entry.Version,
		})
	}
	policy.CriticalDependencies = append(policy.CriticalDependencies, c.Policy.CriticalDependencies...)
	for _, entry := range c.Policy.Incompatibilities {
		policy.Incompatibilities = append(policy.Incompatibilities, catalog.Incompatibility{
			ToolA:    entry.ToolA,
			VersionA: entry.VersionA,
			ToolB:    entry.ToolB,
			VersionB: entry.VersionB,
		})
	}
	return policy
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Policy: PolicyConfig{
			VulnerableVersions:   []VulnerableVersionEntry{},
			CriticalDependencies: []string{},
			Incompatibilities:    []IncompatibilityEntry{},
		},
	}
}
