package sval

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadError wraps any failure to read or decode a file with the absolute path attempted.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading SVAL file %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader reads and decodes SVAL files relative to a fixed root directory.
type Loader struct {
	root    string
	decoder *Decoder
}

// NewLoader returns a Loader rooted at root. A relative root is made absolute
// against the working directory.
//
// Postcondition: Root() returns a cleaned path.
func NewLoader(root string, opts ...DecoderOption) *Loader {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Loader{root: filepath.Clean(root), decoder: NewDecoder(opts...)}
}

// Root returns the directory every relative path is joined against.
func (l *Loader) Root() string { return l.root }

// Abs returns the cleaned absolute path for rel, which uses forward slashes as
// found in game data.
func (l *Loader) Abs(rel string) string {
	return filepath.Join(l.root, filepath.FromSlash(rel))
}

// LoadFile reads rel and returns its decoded top-level values.
//
// Postcondition: returns the values in file order, or a *LoadError naming the
// absolute path.
func (l *Loader) LoadFile(rel string) ([]Value, error) {
	path := l.Abs(rel)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	vals, err := l.decoder.DecodeText(string(data))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return vals, nil
}
