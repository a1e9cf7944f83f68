// SPDX-License-Identifier: MPL-2.0

package catalog

type (
	// VulnerableVersion is one deny-list entry: a version string with a known
	// vulnerability, plus the label it is curated under.
	VulnerableVersion struct {
		// Label names the affected dependency, e.g. "junit".
		Label string
		// Version is the exact version text to match.
		Version string
	}

	// Incompatibility is one known-bad combination of two tool versions.
	// Tools are matched by substring against version keys and plugin IDs.
	Incompatibility struct {
		ToolA    string
		VersionA string
		ToolB    string
		VersionB string
	}

	// Policy is the externally curated data behind the advisory and
	// compatibility rules. It is plain data so callers can replace or extend
	// it wholesale; the rule logic never infers beyond the literal entries.
	Policy struct {
		// VulnerableVersions is the deny list for the vulnerable-version
		// warning rule.
		VulnerableVersions []VulnerableVersion
		// CriticalDependencies is a set of coordinate substrings; when none
		// of them matches any library coordinate, a missing-critical-
		// dependency warning is raised. An empty set disables the rule.
		CriticalDependencies []string
		// Incompatibilities is the static compatibility matrix.
		Incompatibilities []Incompatibility
	}
)

// DefaultPolicy returns the built-in curated data. The deny list carries the
// well-known vulnerable junit releases; the compatibility matrix carries the
// literal agp/kotlin pairs the validator is specified against. The critical
// dependency set starts empty so a minimal valid catalog produces no
// warnings; projects opt in through configuration.
func DefaultPolicy() Policy {
	return Policy{
		VulnerableVersions: []VulnerableVersion{
			{Label: "junit", Version: "4.12"},
			{Label: "junit", Version: "4.10"},
		},
		Incompatibilities: []Incompatibility{
			{ToolA: "agp", VersionA: "8.0.0", ToolB: "kotlin", VersionB: "1.7.0"},
			{ToolA: "agp", VersionA: "7.0.0", ToolB: "kotlin", VersionB: "1.4.0"},
		},
	}
}
