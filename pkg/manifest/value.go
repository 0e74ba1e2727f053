package manifest

import (
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Kind identifies which variant a [Value] holds.
type Kind int

const (
	// KindAbsent is the zero Value: a field that does not exist.
	KindAbsent Kind = iota
	// KindTable is a TOML table (standard or inline).
	KindTable
	// KindArray is a TOML array, including arrays of tables.
	KindArray
	// KindString is a TOML string.
	KindString
	// KindScalar is any other TOML scalar (integer, float, bool, datetime).
	KindScalar
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindScalar:
		return "scalar"
	default:
		return "absent"
	}
}

// Value is a dynamically typed node of a parsed manifest.
//
// Accessors never panic. Looking up a field on something that is not a
// table, or a field that does not exist, yields the absent Value, so chains
// like v.Get("package").Get("name").String() are always safe.
type Value struct {
	kind   Kind
	table  *Table
	array  []Value
	str    string
	scalar any
}

// Table is an ordered string-keyed map of Values.
// Keys keep the order in which they appear in the source document.
type Table struct {
	keys   []string
	fields map[string]Value
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Exists reports whether v is anything other than absent.
func (v Value) Exists() bool { return v.kind != KindAbsent }

// Get returns the field key of a table value, or the absent Value when v is
// not a table or has no such field.
func (v Value) Get(key string) Value {
	if v.kind != KindTable {
		return Value{}
	}
	return v.table.Get(key)
}

// Lookup follows a path of keys through nested tables.
func (v Value) Lookup(keys ...string) Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
		if !cur.Exists() {
			return Value{}
		}
	}
	return cur
}

// String returns the string held by v.
func (v Value) String() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Table returns the table held by v.
func (v Value) Table() (*Table, bool) {
	if v.kind != KindTable {
		return nil, false
	}
	return v.table, true
}

// Array returns the elements held by v.
func (v Value) Array() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.array, true
}

// Strings returns the string elements of an array value, skipping elements
// of any other kind. It returns nil when v is not an array.
func (v Value) Strings() []string {
	items, ok := v.Array()
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.String(); ok {
			out = append(out, s)
		}
	}
	return out
}

// Scalar returns the raw decoded value of a non-string scalar.
func (v Value) Scalar() (any, bool) {
	if v.kind != KindScalar {
		return nil, false
	}
	return v.scalar, true
}

// Keys returns the table's keys in document order.
func (t *Table) Keys() []string { return slices.Clone(t.keys) }

// Len returns the number of fields.
func (t *Table) Len() int { return len(t.keys) }

// Get returns the named field, or the absent Value.
func (t *Table) Get(key string) Value {
	if t == nil {
		return Value{}
	}
	return t.fields[key]
}

// NewString returns a string Value.
func NewString(s string) Value { return Value{kind: KindString, str: s} }

// NewArray returns an array Value.
func NewArray(items ...Value) Value { return Value{kind: KindArray, array: items} }

// NewTable returns a table Value whose keys are ordered as given in keys.
// Fields absent from keys are appended in sorted order.
func NewTable(keys []string, fields map[string]Value) Value {
	t := &Table{fields: make(map[string]Value, len(fields))}
	for _, k := range keys {
		if f, ok := fields[k]; ok && !t.has(k) {
			t.keys = append(t.keys, k)
			t.fields[k] = f
		}
	}
	var rest []string
	for k := range fields {
		if !t.has(k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		t.keys = append(t.keys, k)
		t.fields[k] = fields[k]
	}
	return Value{kind: KindTable, table: t}
}

func (t *Table) has(key string) bool {
	_, ok := t.fields[key]
	return ok
}

// keyOrder records, for every table path in a document, the order in which
// the decoder saw that table's direct children.
type keyOrder map[string][]string

const pathSep = "\x00"

func newKeyOrder(md toml.MetaData) keyOrder {
	order := keyOrder{}
	seen := map[string]bool{}
	for _, key := range md.Keys() {
		if len(key) == 0 {
			continue
		}
		parent := strings.Join(key[:len(key)-1], pathSep)
		child := key[len(key)-1]
		id := parent + pathSep + pathSep + child
		if seen[id] {
			continue
		}
		seen[id] = true
		order[parent] = append(order[parent], child)
	}
	return order
}

// fromDecoded converts a value produced by the TOML decoder into a Value.
// Array elements share their array's path since the decoder's key metadata
// does not index into arrays.
func fromDecoded(raw any, path []string, order keyOrder) Value {
	switch x := raw.(type) {
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, item := range x {
			fields[k] = fromDecoded(item, append(slices.Clone(path), k), order)
		}
		return NewTable(order[strings.Join(path, pathSep)], fields)
	case []map[string]any:
		items := make([]Value, 0, len(x))
		for _, item := range x {
			items = append(items, fromDecoded(item, path, order))
		}
		return NewArray(items...)
	case []any:
		items := make([]Value, 0, len(x))
		for _, item := range x {
			items = append(items, fromDecoded(item, path, order))
		}
		return NewArray(items...)
	case string:
		return NewString(x)
	case nil:
		return Value{}
	default:
		return Value{kind: KindScalar, scalar: x}
	}
}
