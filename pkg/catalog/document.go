// SPDX-License-Identifier: MPL-2.0

package catalog

import "fmt"

// Reserved table names: the four sections the catalog dialect interprets.
// Other tables are parsed but semantically ignored.
const (
	TableVersions  = "versions"
	TableLibraries = "libraries"
	TablePlugins   = "plugins"
	TableBundles   = "bundles"
)

type (
	// Document is the ordered collection of named tables produced by the
	// parser. Reopening a table name appends to the existing logical table,
	// so duplicate-key detection spans all occurrences of that name.
	Document struct {
		tables []*Table
		index  map[string]*Table
	}

	// Table is an ordered key → Value mapping. Inserting a key that is
	// already present is an error, never an overwrite.
	Table struct {
		Name   string
		keys   []string
		values map[string]Value
	}

	// Value is the closed union of catalog value shapes. Exactly the three
	// concrete types below implement it.
	Value interface {
		valueNode()
	}

	// Scalar is a literal value with escapes resolved and quotes removed.
	// Quoted records provenance (quoted vs bare) for diagnostics only.
	Scalar struct {
		Text   string
		Quoted bool
	}

	// InlineTable is a `{ k = v, … }` value. Duplicate keys inside an
	// inline table are detected the same way as in section tables.
	InlineTable struct {
		keys   []string
		values map[string]Value
	}

	// Array is an ordered list of values.
	Array struct {
		Items []Value
	}
)

func (Scalar) valueNode()       {}
func (*InlineTable) valueNode() {}
func (*Array) valueNode()       {}

func newDocument() *Document {
	return &Document{index: make(map[string]*Table)}
}

// openTable returns the table registered under name, creating it on first
// use. All `[name]` occurrences share one logical table.
func (d *Document) openTable(name string) *Table {
	if t, ok := d.index[name]; ok {
		return t
	}
	t := newTable(name)
	d.tables = append(d.tables, t)
	d.index[name] = t
	return t
}

// appendAnonymousTable adds a table that is not merged with same-named
// occurrences. Used for `[[name]]` elements on non-reserved names, where key
// repetition across elements is legitimate.
func (d *Document) appendAnonymousTable(name string) *Table {
	t := newTable(name)
	d.tables = append(d.tables, t)
	return t
}

// Table looks up a named section. Anonymous (array-of-tables) entries are
// not reachable through this method.
func (d *Document) Table(name string) (*Table, bool) {
	t, ok := d.index[name]
	return t, ok
}

// Empty reports whether the document contains no tables and no top-level
// keys, i.e. the input was empty or held only comments and whitespace.
func (d *Document) Empty() bool {
	return len(d.tables) == 0
}

// Tables returns the tables in definition order.
func (d *Document) Tables() []*Table {
	return d.tables
}

func newTable(name string) *Table {
	return &Table{Name: name, values: make(map[string]Value)}
}

// Insert adds key → value, failing when the key is already present.
func (t *Table) Insert(key string, v Value) error {
	if _, exists := t.values[key]; exists {
		return fmt.Errorf("Duplicate key '%s' in table [%s]", key, t.Name)
	}
	t.keys = append(t.keys, key)
	t.values[key] = v
	return nil
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string { return t.keys }

// Get returns the value for key.
func (t *Table) Get(key string) (Value, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Len returns the number of keys in the table.
func (t *Table) Len() int { return len(t.keys) }

func newInlineTable() *InlineTable {
	return &InlineTable{values: make(map[string]Value)}
}

// Insert adds key → value, failing when the key is already present.
func (t *InlineTable) Insert(key string, v Value) error {
	if _, exists := t.values[key]; exists {
		return fmt.Errorf("Duplicate key '%s' in inline table", key)
	}
	t.keys = append(t.keys, key)
	t.values[key] = v
	return nil
}

// Keys returns the keys in insertion order.
func (t *InlineTable) Keys() []string { return t.keys }

// Get returns the value for key.
func (t *InlineTable) Get(key string) (Value, bool) {
	v, ok := t.values[key]
	return v, ok
}
