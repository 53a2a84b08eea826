package sval

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind identifies the variant of a decoded Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindVector
	KindList
	KindMapping
)

var kindNames = [...]string{
	KindNull:    "null",
	KindString:  "string",
	KindInt:     "int",
	KindFloat:   "float",
	KindBool:    "bool",
	KindVector:  "vector",
	KindList:    "list",
	KindMapping: "mapping",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Value is the untyped result of decoding one element. The set of
// implementations is closed: Null, String, Int, Float, Bool, Vector, List and
// *Mapping.
type Value interface {
	Kind() Kind
	sealed()
}

type (
	// Null is the explicit empty value.
	Null struct{}
	// String is a text scalar.
	String string
	// Int is a base-10 integer scalar (int and long tags).
	Int int64
	// Float is a floating point scalar.
	Float float64
	// Bool is a boolean scalar.
	Bool bool
	// Vector is a fixed-size integer tuple from vec2, vec3 or vec4.
	Vector []int64
	// List is an ordered array of values.
	List []Value
)

func (Null) Kind() Kind   { return KindNull }
func (String) Kind() Kind { return KindString }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (Bool) Kind() Kind   { return KindBool }
func (Vector) Kind() Kind { return KindVector }
func (List) Kind() Kind   { return KindList }

func (Null) sealed()   {}
func (String) sealed() {}
func (Int) sealed()    {}
func (Float) sealed()  {}
func (Bool) sealed()   {}
func (Vector) sealed() {}
func (List) sealed()   {}

// MarshalJSON encodes Null as JSON null.
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Mapping is a named collection of values. Keys are unique; iteration follows
// first-definition order.
type Mapping struct {
	keys []string
	vals map[string]Value
}

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{vals: make(map[string]Value)}
}

func (*Mapping) Kind() Kind { return KindMapping }
func (*Mapping) sealed()    {}

// Set stores v under key. Redefining a key replaces its value but keeps the
// key's original position.
//
// Precondition: v must not be nil.
func (m *Mapping) Set(key string, v Value) {
	if _, exists := m.vals[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Get returns the value stored under key and whether it was present.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in first-definition order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Class returns the string stored under "class", or "" when absent or not a string.
func (m *Mapping) Class() string {
	v, ok := m.Get("class")
	if !ok {
		return ""
	}
	s, ok := v.(String)
	if !ok {
		return ""
	}
	return string(s)
}

// MarshalJSON encodes the mapping as a JSON object in key order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Native converts v into plain Go values: nil, string, int64, float64, bool,
// []int64, []any and map[string]any.
func Native(v Value) any {
	switch v := v.(type) {
	case nil, Null:
		return nil
	case String:
		return string(v)
	case Int:
		return int64(v)
	case Float:
		return float64(v)
	case Bool:
		return bool(v)
	case Vector:
		return []int64(v)
	case List:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Native(e)
		}
		return out
	case *Mapping:
		if v == nil {
			return nil
		}
		out := make(map[string]any, v.Len())
		for _, k := range v.keys {
			out[k] = Native(v.vals[k])
		}
		return out
	}
	panic(fmt.Sprintf("sval: unhandled value type %T", v))
}
