// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

// Version shapes accepted by the format rule: a semantic version with a two
// or three component core (the deny list itself carries two-component
// versions such as 4.12), a plus wildcard, and the bounds of a bracketed
// range.
var (
	semverRe       = regexp.MustCompile(`^\d+\.\d+(\.\d+)?(-[0-9A-Za-z][0-9A-Za-z.-]*)?(\+[0-9A-Za-z][0-9A-Za-z.-]*)?$`)
	plusWildcardRe = regexp.MustCompile(`^\d+(\.\d+)*\.\+$`)
	rangeBoundRe   = regexp.MustCompile(`^\d+(\.\d+)*$`)
	pluginIDRe     = regexp.MustCompile(`^[a-z][a-z0-9-]*(\.[a-z][a-z0-9-]*)+$`)
)

// ruleRunner accumulates the output of the semantic passes. Rules never
// short-circuit: every independently detectable condition contributes its
// own message, in a fixed pass order, so identical input always yields an
// identical Result.
type ruleRunner struct {
	model    *CatalogModel
	policy   Policy
	docEmpty bool

	errors   []string
	warnings []string
}

// runRules executes the full battery of semantic rules over a projected
// catalog.
func runRules(model *CatalogModel, docEmpty bool, policy Policy) (errs, warnings []string) {
	r := &ruleRunner{model: model, policy: policy, docEmpty: docEmpty}

	r.checkRequiredSections()
	r.checkNonEmptySections()
	r.errors = append(r.errors, model.shapeErrors...)
	r.checkLibraries()
	r.checkPlugins()
	r.checkVersionFormats()
	r.checkUnreferencedVersions()
	r.checkBundles()
	r.checkVulnerableVersions()
	r.checkCriticalDependencies()
	r.checkVersionCompatibility()

	return r.errors, r.warnings
}

func (r *ruleRunner) errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *ruleRunner) warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// checkRequiredSections enforces the two mandatory sections. A document with
// no content at all reports a single empty-file error in place of the two
// section errors.
func (r *ruleRunner) checkRequiredSections() {
	if r.docEmpty {
		r.errorf("Empty or invalid TOML file")
		return
	}
	if !r.model.HasVersions {
		r.errorf("versions section is required")
	}
	if !r.model.HasLibraries {
		r.errorf("libraries section is required")
	}
}

func (r *ruleRunner) checkNonEmptySections() {
	if r.model.HasVersions && r.model.versionsLen == 0 {
		r.errorf("versions section cannot be empty")
	}
	if r.model.HasLibraries && r.model.librariesLen == 0 {
		r.errorf("libraries section cannot be empty")
	}
}

// checkLibraries runs the per-library pass: exactly one version
// specification, a well-formed module coordinate, and a resolvable
// version reference.
func (r *ruleRunner) checkLibraries() {
	for _, lib := range r.model.Libraries {
		r.checkVersionSpec("library", lib.Name, lib.Spec.Version, lib.Spec.VersionRef)
		r.checkModuleCoordinate(lib)
	}
}

// checkVersionSpec enforces the exactly-one-of version/version.ref invariant
// shared by libraries and plugins, and resolves references against the
// versions table.
func (r *ruleRunner) checkVersionSpec(kind, name string, direct, ref StringAttr) {
	switch {
	case direct.Present && ref.Present:
		r.errorf("Conflicting version specification for %s '%s': both version and version.ref are set", kind, name)
	case !direct.Present && !ref.Present:
		r.errorf("Missing version for %s '%s'", kind, name)
	}

	if ref.Present {
		if _, ok := r.model.VersionText(ref.Value); !ok {
			r.errorf("Missing version reference: %s", ref.Value)
		}
	}
}

// checkModuleCoordinate verifies `module = "group:artifact"` or the
// equivalent group + name pair.
func (r *ruleRunner) checkModuleCoordinate(lib LibraryEntry) {
	spec := lib.Spec

	if spec.Module.Present {
		if !validCoordinate(spec.Module.Value) {
			r.errorf("Invalid module format for library '%s': '%s'", lib.Name, spec.Module.Value)
		}
		return
	}

	if spec.Group.Present || spec.Name.Present {
		if spec.Group.Value == "" || spec.Name.Value == "" {
			r.errorf("Invalid module format for library '%s': group and name must both be non-empty", lib.Name)
		}
		return
	}

	r.errorf("Invalid module format for library '%s': module or group/name is required", lib.Name)
}

// validCoordinate requires exactly one ':' separator with non-empty sides.
func validCoordinate(coord string) bool {
	group, artifact, ok := strings.Cut(coord, ":")
	if !ok {
		return false
	}
	return group != "" && artifact != "" && !strings.Contains(artifact, ":")
}

// checkPlugins runs the per-plugin pass: id presence and shape, then the
// same version rules as libraries.
func (r *ruleRunner) checkPlugins() {
	for _, p := range r.model.Plugins {
		if !p.Spec.ID.Present || p.Spec.ID.Value == "" {
			r.errorf("Plugin '%s' is missing plugin id", p.Name)
		} else if !pluginIDRe.MatchString(p.Spec.ID.Value) {
			r.errorf("Invalid plugin ID format for plugin '%s': '%s'", p.Name, p.Spec.ID.Value)
		}
		r.checkVersionSpec("plugin", p.Name, p.Spec.Version, p.Spec.VersionRef)
	}
}

// checkVersionFormats validates every declared version text: the versions
// table first, then library and plugin direct versions, in source order.
func (r *ruleRunner) checkVersionFormats() {
	for _, v := range r.model.Versions {
		if !validVersionText(v.Text) {
			r.errorf("Invalid version format for '%s': '%s'", v.Name, v.Text)
		}
	}
	for _, lib := range r.model.Libraries {
		if lib.Spec.Version.Present && !validVersionText(lib.Spec.Version.Value) {
			r.errorf("Invalid version format for '%s': '%s'", lib.Name, lib.Spec.Version.Value)
		}
	}
	for _, p := range r.model.Plugins {
		if p.Spec.Version.Present && !validVersionText(p.Spec.Version.Value) {
			r.errorf("Invalid version format for '%s': '%s'", p.Name, p.Spec.Version.Value)
		}
	}
}

// validVersionText accepts a semantic version, a plus wildcard, or a
// bracketed range. Blank text is always invalid.
func validVersionText(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if semverRe.MatchString(text) || plusWildcardRe.MatchString(text) {
		return true
	}
	return validVersionRange(text)
}

// validVersionRange accepts `[lower,upper]` style ranges with round or
// square brackets on either end and an optionally empty upper bound.
func validVersionRange(text string) bool {
	if len(text) < 3 {
		return false
	}
	opening, closing := text[0], text[len(text)-1]
	if (opening != '[' && opening != '(') || (closing != ']' && closing != ')') {
		return false
	}
	inner := text[1 : len(text)-1]
	lower, upper, ok := strings.Cut(inner, ",")
	if !ok || strings.Contains(upper, ",") {
		return false
	}
	lower = strings.TrimSpace(lower)
	upper = strings.TrimSpace(upper)
	if lower == "" || !rangeBoundRe.MatchString(lower) {
		return false
	}
	return upper == "" || rangeBoundRe.MatchString(upper)
}

// checkUnreferencedVersions warns about versions entries no library or
// plugin points at. Advisory only: unused versions never block validity.
func (r *ruleRunner) checkUnreferencedVersions() {
	referenced := make(map[string]bool)
	for _, lib := range r.model.Libraries {
		if lib.Spec.VersionRef.Present {
			referenced[lib.Spec.VersionRef.Value] = true
		}
	}
	for _, p := range r.model.Plugins {
		if p.Spec.VersionRef.Present {
			referenced[p.Spec.VersionRef.Value] = true
		}
	}
	for _, v := range r.model.Versions {
		if !referenced[v.Name] {
			r.warnf("Unreferenced version: %s", v.Name)
		}
	}
}

func (r *ruleRunner) checkBundles() {
	for _, b := range r.model.Bundles {
		for _, ref := range b.Refs {
			if !r.model.HasLibrary(ref) {
				r.errorf("Invalid bundle reference in bundle '%s': '%s'", b.Name, ref)
			}
		}
	}
}

// checkVulnerableVersions matches every resolved version against the deny
// list. The match is by literal version text; the policy data is curated
// externally and the rule infers nothing beyond it.
func (r *ruleRunner) checkVulnerableVersions() {
	for _, v := range r.model.Versions {
		r.warnVulnerable(v.Text)
	}
	for _, lib := range r.model.Libraries {
		if lib.Spec.Version.Present {
			r.warnVulnerable(lib.Spec.Version.Value)
		}
	}
	for _, p := range r.model.Plugins {
		if p.Spec.Version.Present {
			r.warnVulnerable(p.Spec.Version.Value)
		}
	}
}

func (r *ruleRunner) warnVulnerable(text string) {
	for _, entry := range r.policy.VulnerableVersions {
		if entry.Version == text {
			r.warnf("Known vulnerable version: %s (%s)", entry.Version, entry.Label)
		}
	}
}

// checkCriticalDependencies warns when none of the configured critical
// coordinate substrings matches any library. An empty set disables the rule.
func (r *ruleRunner) checkCriticalDependencies() {
	for _, critical := range r.policy.CriticalDependencies {
		if !r.anyLibraryMatches(critical) {
			r.warnf("Missing critical dependency: %s", critical)
		}
	}
}

func (r *ruleRunner) anyLibraryMatches(substr string) bool {
	needle := strings.ToLower(substr)
	for _, lib := range r.model.Libraries {
		if strings.Contains(strings.ToLower(libraryCoordinate(lib.Spec)), needle) {
			return true
		}
	}
	return false
}

// libraryCoordinate renders the coordinate a library declares, favoring the
// module attribute over the group/name pair.
func libraryCoordinate(spec LibrarySpec) string {
	if spec.Module.Present {
		return spec.Module.Value
	}
	if spec.Group.Present || spec.Name.Present {
		return spec.Group.Value + ":" + spec.Name.Value
	}
	return ""
}

// checkVersionCompatibility flags combinations the static matrix declares
// incompatible. Tools are located by substring over version keys and plugin
// IDs; the first declaration wins so output stays deterministic.
func (r *ruleRunner) checkVersionCompatibility() {
	for _, pair := range r.policy.Incompatibilities {
		va, okA := r.resolveToolVersion(pair.ToolA)
		vb, okB := r.resolveToolVersion(pair.ToolB)
		if okA && okB && va == pair.VersionA && vb == pair.VersionB {
			r.errorf("Version incompatibility: %s %s is not compatible with %s %s",
				pair.ToolA, pair.VersionA, pair.ToolB, pair.VersionB)
		}
	}
}

// resolveToolVersion finds the declared version for a tool name, first among
// version keys, then among plugin IDs (following version references).
func (r *ruleRunner) resolveToolVersion(tool string) (string, bool) {
	needle := strings.ToLower(tool)
	for _, v := range r.model.Versions {
		if strings.Contains(strings.ToLower(v.Name), needle) {
			return v.Text, true
		}
	}
	for _, p := range r.model.Plugins {
		if !p.Spec.ID.Present || !strings.Contains(strings.ToLower(p.Spec.ID.Value), needle) {
			continue
		}
		if p.Spec.Version.Present {
			return p.Spec.Version.Value, true
		}
		if p.Spec.VersionRef.Present {
			if text, ok := r.model.VersionText(p.Spec.VersionRef.Value); ok {
				return text, true
			}
		}
	}
	return "", false
}
