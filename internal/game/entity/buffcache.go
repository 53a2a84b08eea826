package entity

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hwextract/internal/sval"
)

type buffState uint8

const (
	buffRaw buffState = iota
	buffBuilt
)

type buffEntry struct {
	state buffState
	raw   sval.Value
	built *Buff
}

type buffFile struct {
	once    sync.Once
	err     error
	mu      sync.Mutex
	entries map[string]*buffEntry
}

// BuffCache memoizes buff files and the buffs built from them. Each file is
// read and decoded at most once; each entry is built at most once and then
// shared by every reference to it.
//
// A BuffCache is safe for concurrent use.
type BuffCache struct {
	mu    sync.Mutex
	files map[string]*buffFile
}

// NewBuffCache returns an empty cache.
func NewBuffCache() *BuffCache {
	return &BuffCache{files: make(map[string]*buffFile)}
}

// Files returns the number of buff files loaded or attempted.
func (bc *BuffCache) Files() int {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return len(bc.files)
}

func (bc *BuffCache) file(name string) *buffFile {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	f, ok := bc.files[name]
	if !ok {
		f = &buffFile{}
		bc.files[name] = f
	}
	return f
}

func (bc *BuffCache) resolve(c *Context, ref, file, key string) (*Buff, error) {
	f := bc.file(file)
	f.once.Do(func() {
		c.logger.Debug("loading buff file", zap.String("file", file))
		f.entries, f.err = loadBuffFile(c.loader, file)
	})
	if f.err != nil {
		return nil, &ReferenceError{Kind: "buff", Ref: ref, Path: c.loader.Abs(file), Err: f.err}
	}

	f.mu.Lock()
	e, ok := f.entries[key]
	if !ok {
		f.mu.Unlock()
		return nil, &ReferenceError{
			Kind: "buff",
			Ref:  ref,
			Path: c.loader.Abs(file),
			Err:  &BuffNotFoundError{File: file, Key: key},
		}
	}
	if e.state == buffBuilt {
		b := e.built
		f.mu.Unlock()
		return b, nil
	}
	raw := e.raw
	f.mu.Unlock()

	next, err := c.enter("buff", ref)
	if err != nil {
		return nil, err
	}
	m, ok := raw.(*sval.Mapping)
	if !ok {
		return nil, &ReferenceError{
			Kind: "buff",
			Ref:  ref,
			Path: c.loader.Abs(file),
			Err:  &FieldError{Key: key, Want: "dict", Got: raw.Kind()},
		}
	}
	b, err := BuildBuff(next, m)
	if err != nil {
		return nil, &ReferenceError{Kind: "buff", Ref: ref, Path: c.loader.Abs(file), Err: err}
	}

	// Concurrent builders of the same entry race here; the first to publish wins
	// so every caller observes one instance.
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.state == buffRaw {
		e.state = buffBuilt
		e.built = b
		e.raw = nil
	}
	return e.built, nil
}

func loadBuffFile(loader FileLoader, file string) (map[string]*buffEntry, error) {
	vals, err := loader.LoadFile(file)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, errNoMapping
	}
	m, ok := vals[0].(*sval.Mapping)
	if !ok {
		return nil, fmt.Errorf("%w: first value is %s", errNoMapping, vals[0].Kind())
	}
	entries := make(map[string]*buffEntry, m.Len())
	for _, key := range m.Keys() {
		v, _ := m.Get(key)
		entries[key] = &buffEntry{state: buffRaw, raw: v}
	}
	return entries, nil
}
