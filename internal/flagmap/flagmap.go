// Package flagmap turns a raw GNU-style argument list ("--flag value" or a bare
// "--flag") into an order-preserving map of flag names to tri-state values.
//
// The harness accepts arbitrary flag names, so the standard flag package and
// pflag cannot be used: a flag is whatever follows "--", and its value is the
// next token unless that token is itself a flag.
package flagmap

import (
	"strings"
)

// Prefix marks a token as a flag.
const Prefix = "--"

// Value is the tri-state value of a flag: missing, present without a value,
// or present with a (possibly empty) string value.
type Value struct {
	present  bool
	hasValue bool
	value    string
}

// Missing is the zero Value: the flag was not supplied.
var Missing = Value{}

// Bare returns the value of a flag supplied without an argument.
func Bare() Value {
	return Value{present: true}
}

// Of returns the value of a flag supplied with argument s.
func Of(s string) Value {
	return Value{present: true, hasValue: true, value: s}
}

// Present reports whether the flag was supplied at all.
func (v Value) Present() bool { return v.present }

// HasValue reports whether the flag was supplied with an argument.
// An empty string argument still counts as a value.
func (v Value) HasValue() bool { return v.hasValue }

// Get returns the argument and whether there was one.
func (v Value) Get() (string, bool) { return v.value, v.hasValue }

// Ptr returns the argument as a pointer, nil when there is none.
func (v Value) Ptr() *string {
	if !v.hasValue {
		return nil
	}
	s := v.value
	return &s
}

// Or returns the argument, or def when there is none.
func (v Value) Or(def string) string {
	if v.hasValue {
		return v.value
	}
	return def
}

// Entry is one flag in a Map.
type Entry struct {
	Name  string
	Value Value
}

// Line renders the entry the way it was received: "--name" or "--name value".
func (e Entry) Line() string {
	if s, ok := e.Value.Get(); ok {
		return Prefix + e.Name + " " + s
	}
	return Prefix + e.Name
}

// Map is an order-preserving flag map. Each name appears once; the last
// occurrence of a repeated flag wins but keeps the position of the first.
type Map struct {
	index   map[string]int
	entries []Entry
}

// New returns an empty Map.
func New() *Map {
	return &Map{index: make(map[string]int)}
}

// Set records a flag, replacing the value of an earlier occurrence.
func (m *Map) Set(name string, v Value) {
	if i, ok := m.index[name]; ok {
		m.entries[i].Value = v
		return
	}
	m.index[name] = len(m.entries)
	m.entries = append(m.entries, Entry{Name: name, Value: v})
}

// Lookup returns the value of name, or Missing.
func (m *Map) Lookup(name string) Value {
	if m == nil {
		return Missing
	}
	if i, ok := m.index[name]; ok {
		return m.entries[i].Value
	}
	return Missing
}

// Has reports whether name was supplied.
func (m *Map) Has(name string) bool {
	return m.Lookup(name).Present()
}

// Len returns the number of distinct flags.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the flags in order of first appearance.
// The returned slice is a copy.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Lines renders every flag as it would appear on a command line, one per entry.
func (m *Map) Lines() []string {
	lines := make([]string, 0, m.Len())
	for _, e := range m.Entries() {
		lines = append(lines, e.Line())
	}
	return lines
}

// Parse tokenizes argv. Tokens that do not start with "--" and are not
// consumed as a value are ignored.
func Parse(argv []string) *Map {
	m := New()
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if !strings.HasPrefix(arg, Prefix) {
			continue
		}
		name := strings.TrimPrefix(arg, Prefix)
		if i+1 < len(argv) && !strings.HasPrefix(argv[i+1], Prefix) {
			m.Set(name, Of(argv[i+1]))
			i++
			continue
		}
		m.Set(name, Bare())
	}
	return m
}
