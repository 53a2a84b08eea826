package entity

import (
	"math"

	"github.com/cory-johannsen/hwextract/internal/sval"
)

// reader reads typed fields from one mapping with per-field defaults. The
// first error sticks; later reads return their defaults.
type reader struct {
	c   *Context
	m   *sval.Mapping
	err error
}

func (c *Context) read(m *sval.Mapping) *reader {
	return &reader{c: c, m: m}
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Err returns the first error encountered.
func (r *reader) Err() error { return r.err }

// base returns the embedded Base carrying the mapping's class tag.
func (r *reader) base() Base { return Base{Class: r.m.Class()} }

func (r *reader) get(key string) (sval.Value, bool) {
	if r.err != nil {
		return nil, false
	}
	return r.m.Get(key)
}

func (r *reader) Int(key string, def int) int {
	v, ok := r.get(key)
	if !ok {
		return def
	}
	switch v := v.(type) {
	case sval.Int:
		return int(v)
	case sval.Float:
		if f := float64(v); f == math.Trunc(f) {
			return int(f)
		}
	}
	r.fail(&FieldError{Key: key, Want: "int", Got: v.Kind()})
	return def
}

func (r *reader) Float(key string, def float64) float64 {
	v, ok := r.get(key)
	if !ok {
		return def
	}
	switch v := v.(type) {
	case sval.Float:
		return float64(v)
	case sval.Int:
		return float64(v)
	}
	r.fail(&FieldError{Key: key, Want: "float", Got: v.Kind()})
	return def
}

func (r *reader) Bool(key string, def bool) bool {
	v, ok := r.get(key)
	if !ok {
		return def
	}
	if b, ok := v.(sval.Bool); ok {
		return bool(b)
	}
	r.fail(&FieldError{Key: key, Want: "bool", Got: v.Kind()})
	return def
}

func (r *reader) String(key string, def string) string {
	v, ok := r.get(key)
	if !ok {
		return def
	}
	if s, ok := v.(sval.String); ok {
		return string(s)
	}
	r.fail(&FieldError{Key: key, Want: "string", Got: v.Kind()})
	return def
}

// Native returns the field converted to plain Go values, or nil when absent.
func (r *reader) Native(key string) any {
	v, ok := r.get(key)
	if !ok {
		return nil
	}
	return sval.Native(v)
}

// NativeMap returns a dict field as map[string]any, or nil when absent.
func (r *reader) NativeMap(key string) map[string]any {
	v, ok := r.get(key)
	if !ok {
		return nil
	}
	m, ok := v.(*sval.Mapping)
	if !ok {
		r.fail(&FieldError{Key: key, Want: "dict", Got: v.Kind()})
		return nil
	}
	out, _ := sval.Native(m).(map[string]any)
	return out
}

// Count returns the number of entries in an array or vector field.
func (r *reader) Count(key string) int {
	v, ok := r.get(key)
	if !ok {
		return 0
	}
	switch v := v.(type) {
	case sval.List:
		return len(v)
	case sval.Vector:
		return len(v)
	}
	r.fail(&FieldError{Key: key, Want: "array", Got: v.Kind()})
	return 0
}

func (r *reader) Effects(prefix string) []Effect {
	if r.err != nil {
		return []Effect{}
	}
	out, err := r.c.LoadEffects(r.m, prefix)
	if err != nil {
		r.fail(err)
		return []Effect{}
	}
	return out
}

func (r *reader) Actions(prefix string) []Action {
	if r.err != nil {
		return []Action{}
	}
	out, err := r.c.LoadActions(r.m, prefix)
	if err != nil {
		r.fail(err)
		return []Action{}
	}
	return out
}

func (r *reader) Modifiers(prefix string) []Modifier {
	if r.err != nil {
		return []Modifier{}
	}
	out, err := r.c.LoadModifiers(r.m, prefix)
	if err != nil {
		r.fail(err)
		return []Modifier{}
	}
	return out
}

// Unit resolves the unit file named by a string field; absent yields nil.
func (r *reader) Unit(key string) Unit {
	path := r.String(key, "")
	if r.err != nil || !r.m.Has(key) {
		return nil
	}
	u, err := r.c.LoadUnit(path)
	if err != nil {
		r.fail(err)
		return nil
	}
	return u
}

// Buff resolves the "<file>:<key>" reference in a string field; absent yields nil.
func (r *reader) Buff(key string) *Buff {
	ref := r.String(key, "")
	if r.err != nil || !r.m.Has(key) {
		return nil
	}
	b, err := r.c.LoadBuff(ref)
	if err != nil {
		r.fail(err)
		return nil
	}
	return b
}
