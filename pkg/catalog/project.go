// SPDX-License-Identifier: MPL-2.0

package catalog

import "fmt"

type (
	// StringAttr is an optional string attribute read off a catalog entry.
	// Present distinguishes "absent" from "present but empty", which matters
	// for diagnostics like the empty-module case.
	StringAttr struct {
		Value   string
		Present bool
	}

	// LibrarySpec is the typed shape of a `[libraries]` entry.
	LibrarySpec struct {
		Module     StringAttr
		Group      StringAttr
		Name       StringAttr
		Version    StringAttr
		VersionRef StringAttr
		// Extras holds attributes the catalog carries but the validator does
		// not interpret (classifier, type, and so on).
		Extras map[string]Value
	}

	// PluginSpec is the typed shape of a `[plugins]` entry.
	PluginSpec struct {
		ID         StringAttr
		Version    StringAttr
		VersionRef StringAttr
		Extras     map[string]Value
	}

	// VersionEntry is a named version declaration.
	VersionEntry struct {
		Name string
		Text string
	}

	// LibraryEntry pairs a library alias with its spec.
	LibraryEntry struct {
		Name string
		Spec LibrarySpec
	}

	// PluginEntry pairs a plugin alias with its spec.
	PluginEntry struct {
		Name string
		Spec PluginSpec
	}

	// BundleEntry is a named, ordered group of library references.
	BundleEntry struct {
		Name string
		Refs []string
	}

	// CatalogModel is the typed projection of a Document that the semantic
	// rules query without re-parsing. Entry order follows the source file so
	// diagnostics stay deterministic.
	CatalogModel struct {
		HasVersions  bool
		HasLibraries bool
		HasPlugins   bool
		HasBundles   bool

		Versions  []VersionEntry
		Libraries []LibraryEntry
		Plugins   []PluginEntry
		Bundles   []BundleEntry

		// shapeErrors are projection defects (wrong entry kind, malformed
		// nesting) reported as semantic errors ahead of the per-entry rules.
		shapeErrors []string

		// Raw section sizes, kept for the non-empty-section rule: a section
		// whose every entry was malformed is not an empty section.
		versionsLen  int
		librariesLen int

		versionIndex map[string]string
		libraryIndex map[string]bool
	}
)

// VersionText resolves a version name to its declared text.
func (m *CatalogModel) VersionText(name string) (string, bool) {
	v, ok := m.versionIndex[name]
	return v, ok
}

// HasLibrary reports whether a library alias is declared.
func (m *CatalogModel) HasLibrary(name string) bool {
	return m.libraryIndex[name]
}

// projectCatalog converts a Document into a CatalogModel. It is total:
// malformed entries become shape errors, never failures.
func projectCatalog(doc *Document) *CatalogModel {
	m := &CatalogModel{
		versionIndex: make(map[string]string),
		libraryIndex: make(map[string]bool),
	}

	if t, ok := doc.Table(TableVersions); ok {
		m.HasVersions = true
		m.versionsLen = t.Len()
		m.projectVersions(t)
	}
	if t, ok := doc.Table(TableLibraries); ok {
		m.HasLibraries = true
		m.librariesLen = t.Len()
		m.projectLibraries(t)
	}
	if t, ok := doc.Table(TablePlugins); ok {
		m.HasPlugins = true
		m.projectPlugins(t)
	}
	if t, ok := doc.Table(TableBundles); ok {
		m.HasBundles = true
		m.projectBundles(t)
	}
	return m
}

func (m *CatalogModel) shapeErrorf(format string, args ...any) {
	m.shapeErrors = append(m.shapeErrors, fmt.Sprintf(format, args...))
}

func (m *CatalogModel) projectVersions(t *Table) {
	for _, name := range t.Keys() {
		v, _ := t.Get(name)
		s, ok := v.(Scalar)
		if !ok {
			m.shapeErrorf("Invalid version format: '%s' must be a version string", name)
			continue
		}
		m.Versions = append(m.Versions, VersionEntry{Name: name, Text: s.Text})
		m.versionIndex[name] = s.Text
	}
}

func (m *CatalogModel) projectLibraries(t *Table) {
	for _, name := range t.Keys() {
		v, _ := t.Get(name)
		it, ok := v.(*InlineTable)
		if !ok {
			m.shapeErrorf("Invalid library definition: '%s' must be an inline table", name)
			continue
		}

		spec := LibrarySpec{}
		for _, key := range it.Keys() {
			attr, _ := it.Get(key)
			switch key {
			case "module":
				spec.Module = scalarAttr(attr)
			case "group":
				spec.Group = scalarAttr(attr)
			case "name":
				spec.Name = scalarAttr(attr)
			case "version":
				direct, ref := versionAttr(attr)
				spec.Version = direct
				if ref.Present {
					spec.VersionRef = ref
				}
			case "version.ref":
				spec.VersionRef = scalarAttr(attr)
			default:
				if spec.Extras == nil {
					spec.Extras = make(map[string]Value)
				}
				spec.Extras[key] = attr
			}
		}
		m.Libraries = append(m.Libraries, LibraryEntry{Name: name, Spec: spec})
		m.libraryIndex[name] = true
	}
}

func (m *CatalogModel) projectPlugins(t *Table) {
	for _, name := range t.Keys() {
		v, _ := t.Get(name)
		it, ok := v.(*InlineTable)
		if !ok {
			m.shapeErrorf("Invalid plugin definition: '%s' must be an inline table", name)
			continue
		}

		spec := PluginSpec{}
		for _, key := range it.Keys() {
			attr, _ := it.Get(key)
			switch key {
			case "id":
				spec.ID = scalarAttr(attr)
			case "version":
				direct, ref := versionAttr(attr)
				spec.Version = direct
				if ref.Present {
					spec.VersionRef = ref
				}
			case "version.ref":
				spec.VersionRef = scalarAttr(attr)
			default:
				if spec.Extras == nil {
					spec.Extras = make(map[string]Value)
				}
				spec.Extras[key] = attr
			}
		}
		m.Plugins = append(m.Plugins, PluginEntry{Name: name, Spec: spec})
	}
}

func (m *CatalogModel) projectBundles(t *Table) {
	for _, name := range t.Keys() {
		v, _ := t.Get(name)
		arr, ok := v.(*Array)
		if !ok {
			m.shapeErrorf("Invalid bundle reference: '%s' must be an array of library names", name)
			continue
		}

		entry := BundleEntry{Name: name, Refs: []string{}}
		for _, item := range arr.Items {
			s, isScalar := item.(Scalar)
			if !isScalar {
				m.shapeErrorf("Invalid bundle reference in bundle '%s': elements must be library names", name)
				continue
			}
			entry.Refs = append(entry.Refs, s.Text)
		}
		m.Bundles = append(m.Bundles, entry)
	}
}

// scalarAttr converts an attribute value to a StringAttr. A present but
// non-scalar value yields an empty present attr so downstream format checks
// can cite the (empty) offending string.
func scalarAttr(v Value) StringAttr {
	if s, ok := v.(Scalar); ok {
		return StringAttr{Value: s.Text, Present: true}
	}
	return StringAttr{Present: true}
}

// versionAttr handles the two accepted version spellings on an entry:
// a direct scalar (`version = "1.0.0"`) or a nested reference
// (`version = { ref = "agp" }`). The composite `version.ref` key is handled
// by the callers directly.
func versionAttr(v Value) (direct, ref StringAttr) {
	switch val := v.(type) {
	case Scalar:
		return StringAttr{Value: val.Text, Present: true}, StringAttr{}
	case *InlineTable:
		if inner, ok := val.Get("ref"); ok {
			return StringAttr{}, scalarAttr(inner)
		}
	}
	return StringAttr{}, StringAttr{}
}
