package markup

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Value is any node of a definition tree: a Scalar, a *Map or a *Sequence.
type Value any

// Scalar is a leaf value: string, float64 or bool.
type Scalar any

// Map is an insertion-ordered string-keyed map. Key order is significant:
// it drives property dispatch order and CSS emission order.
type Map struct {
	m *orderedmap.OrderedMap[string, Value]
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{m: orderedmap.New[string, Value]()}
}

// Set assigns value to key. Re-assigning an existing key keeps its position.
func (m *Map) Set(key string, value Value) {
	m.m.Set(key, value)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	return m.m.Get(key)
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return m.m.Len()
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, m.m.Len())
	for p := m.m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Each calls fn for every entry in insertion order.
func (m *Map) Each(fn func(key string, value Value)) {
	if m == nil {
		return
	}
	for p := m.m.Oldest(); p != nil; p = p.Next() {
		fn(p.Key, p.Value)
	}
}

// First returns the oldest entry. ok is false for an empty map.
func (m *Map) First() (key string, value Value, ok bool) {
	if m == nil {
		return "", nil, false
	}
	p := m.m.Oldest()
	if p == nil {
		return "", nil, false
	}
	return p.Key, p.Value, true
}

// Sequence is an ordered list of values, used for `children`.
type Sequence struct {
	Items []Value
}

// Append adds v at the end of the sequence.
func (s *Sequence) Append(v Value) {
	s.Items = append(s.Items, v)
}

// Len returns the number of items.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// Definitions is the parsed root of a document.
// Page is nil when the source declares no page element.
type Definitions struct {
	Page       *Map
	Components *Map
	Variables  *Map
	Styles     *Map
}

// NewDefinitions returns Definitions with empty sections and no page.
func NewDefinitions() *Definitions {
	return &Definitions{
		Components: NewMap(),
		Variables:  NewMap(),
		Styles:     NewMap(),
	}
}

// Section names accepted at the top level of a document.
const (
	SectionPage       = "page"
	SectionComponents = "components"
	SectionVariables  = "variables"
	SectionStyles     = "styles"
)

// section returns the container backing a top-level section.
// The page section is materialized lazily so an untouched page stays nil.
func (d *Definitions) section(name string) (*Map, bool) {
	switch name {
	case SectionPage:
		if d.Page == nil {
			d.Page = NewMap()
		}
		return d.Page, true
	case SectionComponents:
		return d.Components, true
	case SectionVariables:
		return d.Variables, true
	case SectionStyles:
		return d.Styles, true
	}
	return nil, false
}

// ElementDef is a single-key wrapper: the key names a tag or a component, the
// value holds its properties.
type ElementDef struct {
	Name  string
	Props Value
}

// AsElementDef interprets v as an ElementDef. It reports false unless v is a
// map with exactly one key.
func AsElementDef(v Value) (ElementDef, bool) {
	m, ok := v.(*Map)
	if !ok || m.Len() != 1 {
		return ElementDef{}, false
	}
	name, props, _ := m.First()
	return ElementDef{Name: name, Props: props}, true
}

// IsScalar reports whether v is a string, float64 or bool.
func IsScalar(v Value) bool {
	switch v.(type) {
	case string, float64, bool:
		return true
	}
	return false
}
