// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"strings"
	"testing"
)

// runOn projects the input and runs the rule battery with the given policy.
func runOn(t *testing.T, input string, policy Policy) (errs, warnings []string) {
	t.Helper()

	doc, _ := mustParse(t, input)
	return runRules(projectCatalog(doc), doc.Empty(), policy)
}

func hasMessage(msgs []string, sub string) bool {
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

const validCatalog = `
[versions]
agp = "8.11.1"

[libraries]
core = { module = "androidx.core:core", version.ref = "agp" }
`

func TestRulesValidCatalogIsClean(t *testing.T) {
	t.Parallel()

	errs, warnings := runOn(t, validCatalog, DefaultPolicy())
	if len(errs) != 0 {
		t.Errorf("errors = %v, want none", errs)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestRulesRequiredSections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantSubs []string
		notSubs  []string
	}{
		{
			name:     "missing versions",
			input:    "[libraries]\na = { module = \"g:a\", version = \"1.0.0\" }\n",
			wantSubs: []string{"versions section is required"},
			notSubs:  []string{"libraries section is required"},
		},
		{
			name:     "missing libraries",
			input:    "[versions]\nagp = \"8.11.1\"\n",
			wantSubs: []string{"libraries section is required"},
			notSubs:  []string{"versions section is required"},
		},
		{
			name:     "both missing",
			input:    "[plugins]\np = { id = \"com.example.plugin\", version = \"1.0.0\" }\n",
			wantSubs: []string{"versions section is required", "libraries section is required"},
		},
		{
			name:     "empty document reports only the empty-file error",
			input:    "",
			wantSubs: []string{"Empty or invalid TOML file"},
			notSubs:  []string{"versions section is required", "libraries section is required"},
		},
		{
			name:     "comments-only document reports only the empty-file error",
			input:    "# nothing here\n",
			wantSubs: []string{"Empty or invalid TOML file"},
			notSubs:  []string{"versions section is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs, _ := runOn(t, tt.input, DefaultPolicy())
			for _, sub := range tt.wantSubs {
				if !hasMessage(errs, sub) {
					t.Errorf("errors %v missing %q", errs, sub)
				}
			}
			for _, sub := range tt.notSubs {
				if hasMessage(errs, sub) {
					t.Errorf("errors %v should not contain %q", errs, sub)
				}
			}
		})
	}
}

func TestRulesEmptySections(t *testing.T) {
	t.Parallel()

	errs, _ := runOn(t, "[versions]\n\n[libraries]\n", DefaultPolicy())
	if !hasMessage(errs, "versions section cannot be empty") {
		t.Errorf("errors %v missing empty-versions error", errs)
	}
	if !hasMessage(errs, "libraries section cannot be empty") {
		t.Errorf("errors %v missing empty-libraries error", errs)
	}
}

func TestRulesLibraryVersionSpecification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		library string
		wantSub string
	}{
		{
			name:    "conflicting version and ref",
			library: `a = { module = "g:a", version = "1.0.0", version.ref = "agp" }`,
			wantSub: "Conflicting version specification",
		},
		{
			name:    "missing version entirely",
			library: `a = { module = "g:a" }`,
			wantSub: "Missing version for library 'a'",
		},
		{
			name:    "unresolved reference",
			library: `a = { module = "g:a", version.ref = "missing" }`,
			wantSub: "Missing version reference: missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			input := "[versions]\nagp = \"8.11.1\"\n\n[libraries]\n" + tt.library + "\n"
			errs, _ := runOn(t, input, DefaultPolicy())
			if !hasMessage(errs, tt.wantSub) {
				t.Errorf("errors %v missing %q", errs, tt.wantSub)
			}
		})
	}
}

func TestRulesModuleFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		library string
		wantErr bool
	}{
		{name: "valid module", library: `a = { module = "g:a", version = "1.0.0" }`, wantErr: false},
		{name: "valid group and name", library: `a = { group = "g", name = "a", version = "1.0.0" }`, wantErr: false},
		{name: "no separator", library: `a = { module = "ga", version = "1.0.0" }`, wantErr: true},
		{name: "two separators", library: `a = { module = "g:a:1.0", version = "1.0.0" }`, wantErr: true},
		{name: "empty group side", library: `a = { module = ":a", version = "1.0.0" }`, wantErr: true},
		{name: "empty artifact side", library: `a = { module = "g:", version = "1.0.0" }`, wantErr: true},
		{name: "empty module string", library: `a = { module = "", version = "1.0.0" }`, wantErr: true},
		{name: "group without name", library: `a = { group = "g", version = "1.0.0" }`, wantErr: true},
		{name: "empty name", library: `a = { group = "g", name = "", version = "1.0.0" }`, wantErr: true},
		{name: "neither module nor group", library: `a = { version = "1.0.0" }`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			input := "[versions]\nagp = \"8.11.1\"\n\n[libraries]\n" + tt.library +
				"\nanchor = { module = \"g:anchor\", version.ref = \"agp\" }\n"
			errs, _ := runOn(t, input, DefaultPolicy())
			if got := hasMessage(errs, "Invalid module format"); got != tt.wantErr {
				t.Errorf("Invalid module format present = %v, want %v (errors: %v)", got, tt.wantErr, errs)
			}
		})
	}
}

func TestRulesEmptyModuleCitesEmptyString(t *testing.T) {
	t.Parallel()

	input := "[versions]\nagp = \"8.11.1\"\n\n[libraries]\na = { module = \"\", version.ref = \"agp\" }\n"
	errs, _ := runOn(t, input, DefaultPolicy())
	if !hasMessage(errs, "Invalid module format for library 'a': ''") {
		t.Errorf("errors %v should cite the empty module string", errs)
	}
}

func TestRulesPluginValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		plugin  string
		wantSub string
	}{
		{
			name:    "missing id",
			plugin:  `p = { version = "1.0.0" }`,
			wantSub: "missing plugin id",
		},
		{
			name:    "uppercase id",
			plugin:  `p = { id = "Com.Android.Application", version = "1.0.0" }`,
			wantSub: "Invalid plugin ID format",
		},
		{
			name:    "single segment id",
			plugin:  `p = { id = "application", version = "1.0.0" }`,
			wantSub: "Invalid plugin ID format",
		},
		{
			name:    "conflicting version",
			plugin:  `p = { id = "com.example.plugin", version = "1.0.0", version.ref = "agp" }`,
			wantSub: "Conflicting version specification",
		},
		{
			name:    "missing version",
			plugin:  `p = { id = "com.example.plugin" }`,
			wantSub: "Missing version for plugin 'p'",
		},
		{
			name:    "unresolved reference",
			plugin:  `p = { id = "com.example.plugin", version.ref = "nope" }`,
			wantSub: "Missing version reference: nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			input := "[versions]\nagp = \"8.11.1\"\n\n[libraries]\ncore = { module = \"g:a\", version.ref = \"agp\" }\n\n[plugins]\n" + tt.plugin + "\n"
			errs, _ := runOn(t, input, DefaultPolicy())
			if !hasMessage(errs, tt.wantSub) {
				t.Errorf("errors %v missing %q", errs, tt.wantSub)
			}
		})
	}
}

func TestRulesValidPluginIsClean(t *testing.T) {
	t.Parallel()

	input := "[versions]\nagp = \"8.11.1\"\n\n[libraries]\ncore = { module = \"g:a\", version.ref = \"agp\" }\n\n[plugins]\nandroid = { id = \"com.android.application\", version.ref = \"agp\" }\n"
	errs, warnings := runOn(t, input, DefaultPolicy())
	if len(errs) != 0 || len(warnings) != 0 {
		t.Errorf("errors=%v warnings=%v, want none", errs, warnings)
	}
}

func TestRulesVersionFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		valid   bool
	}{
		{version: "8.11.1", valid: true},
		{version: "4.12", valid: true},
		{version: "1.0.0-alpha01", valid: true},
		{version: "1.0.0-rc.1+build.5", valid: true},
		{version: "1.0.0+20250101", valid: true},
		{version: "1.2.+", valid: true},
		{version: "[1.0, 2.0)", valid: true},
		{version: "[1.0,)", valid: true},
		{version: "(1.0, 2.0]", valid: true},
		{version: "", valid: false},
		{version: "   ", valid: false},
		{version: "abc", valid: false},
		{version: "1", valid: false},
		{version: "1.0.0.0.0-", valid: false},
		{version: "[1.0", valid: false},
		{version: "[1.0 2.0]", valid: false},
		{version: "[,2.0]", valid: false},
		{version: "1.0-", valid: false},
	}

	for _, tt := range tests {
		t.Run("version "+tt.version, func(t *testing.T) {
			t.Parallel()

			if got := validVersionText(tt.version); got != tt.valid {
				t.Errorf("validVersionText(%q) = %v, want %v", tt.version, got, tt.valid)
			}
		})
	}
}

func TestRulesVersionFormatErrorNamesKey(t *testing.T) {
	t.Parallel()

	input := "[versions]\nagp = \"not-a-version\"\n\n[libraries]\ncore = { module = \"g:a\", version.ref = \"agp\" }\n"
	errs, _ := runOn(t, input, DefaultPolicy())
	if !hasMessage(errs, "Invalid version format for 'agp'") {
		t.Errorf("errors %v should name the offending key", errs)
	}
}

func TestRulesDirectVersionFormatChecked(t *testing.T) {
	t.Parallel()

	input := "[versions]\nagp = \"8.11.1\"\n\n[libraries]\ncore = { module = \"g:a\", version.ref = \"agp\" }\nbad = { module = \"g:b\", version = \"oops\" }\n"
	errs, _ := runOn(t, input, DefaultPolicy())
	if !hasMessage(errs, "Invalid version format for 'bad'") {
		t.Errorf("errors %v missing direct-version format error", errs)
	}
}

func TestRulesUnreferencedVersionWarning(t *testing.T) {
	t.Parallel()

	input := "[versions]\nagp = \"8.11.1\"\nunused = \"1.0.0\"\n\n[libraries]\ncore = { module = \"g:a\", version.ref = \"agp\" }\n"
	errs, warnings := runOn(t, input, DefaultPolicy())
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if !hasMessage(warnings, "Unreferenced version: unused") {
		t.Errorf("warnings %v missing unreferenced warning", warnings)
	}
	if hasMessage(warnings, "Unreferenced version: agp") {
		t.Errorf("warnings %v flag a referenced version", warnings)
	}
}

func TestRulesPluginReferenceCountsAsUse(t *testing.T) {
	t.Parallel()

	input := "[versions]\nagp = \"8.11.1\"\n\n[libraries]\ncore = { module = \"g:a\", version = \"1.0.0\" }\n\n[plugins]\nandroid = { id = \"com.android.application\", version.ref = \"agp\" }\n"
	_, warnings := runOn(t, input, DefaultPolicy())
	if hasMessage(warnings, "Unreferenced version") {
		t.Errorf("warnings %v flag a plugin-referenced version", warnings)
	}
}

func TestRulesBundleReferences(t *testing.T) {
	t.Parallel()

	input := validCatalog + "\n[bundles]\nui = [\"core\", \"zz\"]\nok = [\"core\"]\nempty = []\n"
	errs, _ := runOn(t, input, DefaultPolicy())

	if !hasMessage(errs, "Invalid bundle reference in bundle 'ui': 'zz'") {
		t.Errorf("errors %v missing bundle reference error", errs)
	}
	for _, e := range errs {
		if strings.Contains(e, "'core'") {
			t.Errorf("valid bundle element flagged: %v", e)
		}
	}
}

func TestRulesVulnerableVersionWarning(t *testing.T) {
	t.Parallel()

	input := "[versions]\njunit = \"4.12\"\n\n[libraries]\njunit = { module = \"junit:junit\", version.ref = \"junit\" }\n"
	errs, warnings := runOn(t, input, DefaultPolicy())
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if !hasMessage(warnings, "vulnerable version") {
		t.Errorf("warnings %v missing vulnerable-version warning", warnings)
	}
}

func TestRulesVulnerableVersionMonotonic(t *testing.T) {
	t.Parallel()

	withVulnerable := "[versions]\nagp = \"8.11.1\"\njunit = \"4.12\"\n\n[libraries]\ncore = { module = \"g:a\", version.ref = \"agp\" }\ntest = { module = \"junit:junit\", version.ref = \"junit\" }\n"
	without := "[versions]\nagp = \"8.11.1\"\n\n[libraries]\ncore = { module = \"g:a\", version.ref = \"agp\" }\n"

	_, warningsWith := runOn(t, withVulnerable, DefaultPolicy())
	_, warningsWithout := runOn(t, without, DefaultPolicy())

	if !hasMessage(warningsWith, "vulnerable version") {
		t.Fatalf("warnings %v missing vulnerable-version warning", warningsWith)
	}
	if hasMessage(warningsWithout, "vulnerable version") {
		t.Errorf("warnings %v still carry vulnerable-version warning", warningsWithout)
	}
	if len(warningsWith) != len(warningsWithout)+1 {
		t.Errorf("removing the vulnerable version changed more than its warning: %v vs %v",
			warningsWith, warningsWithout)
	}
}

func TestRulesCriticalDependency(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()
	policy.CriticalDependencies = []string{"junit"}

	errs, warnings := runOn(t, validCatalog, policy)
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if !hasMessage(warnings, "Missing critical dependency: junit") {
		t.Errorf("warnings %v missing critical-dependency warning", warnings)
	}

	withJunit := validCatalog + "junitLib = { module = \"junit:junit\", version = \"4.13.2\" }\n"
	_, warnings = runOn(t, withJunit, policy)
	if hasMessage(warnings, "Missing critical dependency") {
		t.Errorf("warnings %v still flag missing critical dependency", warnings)
	}
}

func TestRulesVersionIncompatibility(t *testing.T) {
	t.Parallel()

	incompatible := "[versions]\nagp = \"8.0.0\"\nkotlin = \"1.7.0\"\n\n[libraries]\ncore = { module = \"g:a\", version.ref = \"agp\" }\nstdlib = { module = \"k:s\", version.ref = \"kotlin\" }\n"
	errs, _ := runOn(t, incompatible, DefaultPolicy())
	if !hasMessage(errs, "Version incompatibility") {
		t.Errorf("errors %v missing incompatibility error", errs)
	}

	compatible := strings.Replace(incompatible, "1.7.0", "1.9.0", 1)
	errs, _ = runOn(t, compatible, DefaultPolicy())
	if hasMessage(errs, "Version incompatibility") {
		t.Errorf("errors %v flag a compatible combination", errs)
	}
}

func TestRulesIncompatibilityViaPluginRef(t *testing.T) {
	t.Parallel()

	input := "[versions]\nagp = \"8.0.0\"\n\n[libraries]\ncore = { module = \"g:a\", version.ref = \"agp\" }\n\n[plugins]\nkotlinAndroid = { id = \"org.jetbrains.kotlin.android\", version = \"1.7.0\" }\n"
	errs, _ := runOn(t, input, DefaultPolicy())
	if !hasMessage(errs, "Version incompatibility") {
		t.Errorf("errors %v missing incompatibility resolved through a plugin", errs)
	}
}

func TestRulesNoShortCircuit(t *testing.T) {
	t.Parallel()

	// One input, many independent defects: every rule contributes its own
	// message rather than masking later checks.
	input := `
[versions]
bad = "not-a-version"

[libraries]
noVersion = { module = "g:a" }
badModule = { module = "broken", version = "1.0.0" }
danglingRef = { module = "g:b", version.ref = "ghost" }

[bundles]
b = ["noVersion", "missingLib"]
`
	errs, _ := runOn(t, input, DefaultPolicy())

	for _, sub := range []string{
		"Missing version for library 'noVersion'",
		"Invalid module format for library 'badModule'",
		"Missing version reference: ghost",
		"Invalid version format for 'bad'",
		"Invalid bundle reference in bundle 'b': 'missingLib'",
	} {
		if !hasMessage(errs, sub) {
			t.Errorf("errors missing %q:\n%v", sub, errs)
		}
	}
}

func TestRulesDeterministicOrder(t *testing.T) {
	t.Parallel()

	input := "[versions]\nzz = \"bad\"\naa = \"also bad\"\n\n[libraries]\nx = { module = \"broken\", version = \"1.0.0\" }\n"
	first, _ := runOn(t, input, DefaultPolicy())
	second, _ := runOn(t, input, DefaultPolicy())

	if len(first) != len(second) {
		t.Fatalf("error counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("error[%d] differs: %q vs %q", i, first[i], second[i])
		}
	}
}
