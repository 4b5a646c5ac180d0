// Package header provides a case-insensitive ordered header map and the
// HTTP/1.1 status text table used when rendering and parsing messages.
package header

import "strings"

// Map stores header fields once, keyed case-insensitively, while remembering
// the spelling and the order in which each field was first set. Lookups work
// with any casing; last write wins for the value.
type Map struct {
	keys   []string          // original spelling, insertion order
	values map[string]string // lowercased key -> value
}

func NewMap() *Map {
	return &Map{values: map[string]string{}}
}

// Set stores value under name. A field that already exists (under any
// casing) keeps its position and original spelling.
func (m *Map) Set(name, value string) {
	if m.values == nil {
		m.values = map[string]string{}
	}
	lower := strings.ToLower(name)
	if _, ok := m.values[lower]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[lower] = value
}

// Del removes name under any casing. Deleting an absent field is a no-op.
func (m *Map) Del(name string) {
	lower := strings.ToLower(name)
	if _, ok := m.values[lower]; !ok {
		return
	}
	delete(m.values, lower)
	for i, k := range m.keys {
		if strings.ToLower(k) == lower {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Get returns the value stored under name with any casing, or "".
func (m *Map) Get(name string) string {
	v, _ := m.Lookup(name)
	return v
}

// Lookup is Get with an explicit presence flag.
func (m *Map) Lookup(name string) (string, bool) {
	if m == nil || m.values == nil {
		return "", false
	}
	v, ok := m.values[strings.ToLower(name)]
	return v, ok
}

// Keys returns the field names in insertion order, original spelling.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Clone returns an independent copy of m.
func (m *Map) Clone() *Map {
	c := NewMap()
	if m == nil {
		return c
	}
	for _, k := range m.keys {
		c.Set(k, m.values[strings.ToLower(k)])
	}
	return c
}

// IsContinuation reports whether a physical header line continues the
// previous field, i.e. it does not start a new "name:" token. RFC 2616
// folded lines start with SP or HT; lines without a colon before any
// whitespace are treated the same way.
func IsContinuation(line string) bool {
	if line == "" {
		return false
	}
	if line[0] == ' ' || line[0] == '\t' {
		return true
	}
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return true
	}
	// a colon after a space means the "name" wasn't a single token
	if sp := strings.IndexAny(line[:colon], " \t"); sp >= 0 {
		return true
	}
	return false
}
