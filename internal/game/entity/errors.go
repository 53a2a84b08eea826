package entity

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/hwextract/internal/sval"
)

var (
	// ErrNotFound is the reason for a class tag missing from a family registry.
	ErrNotFound = errors.New("not found")
	// ErrInvalidConfig is the reason for a class tag that is declared but has no builder.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrBuffNotFound is returned when a buff file has no entry for the requested key.
	ErrBuffNotFound = errors.New("buff not found")
	// ErrReferenceCycle is returned when a reference resolves back to itself.
	ErrReferenceCycle = errors.New("reference cycle")
)

// DispatchError reports a class tag that a family registry could not build.
type DispatchError struct {
	Family string
	Class  string
	Reason error
}

func (e *DispatchError) Error() string {
	if errors.Is(e.Reason, ErrInvalidConfig) {
		return fmt.Sprintf("invalid %s config: %s", e.Family, e.Class)
	}
	return fmt.Sprintf("%s not found: %s", e.Family, e.Class)
}

func (e *DispatchError) Unwrap() error { return e.Reason }

// ReferenceError reports a file or buff reference that could not be resolved.
// Path is the absolute file path attempted.
type ReferenceError struct {
	Kind string
	Ref  string
	Path string
	Err  error
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("resolving %s reference %q (%s): %v", e.Kind, e.Ref, e.Path, e.Err)
}

func (e *ReferenceError) Unwrap() error { return e.Err }

// BuffNotFoundError names the file and key of a missing buff.
type BuffNotFoundError struct {
	File string
	Key  string
}

func (e *BuffNotFoundError) Error() string {
	return fmt.Sprintf("buff not found in file %s: %s", e.File, e.Key)
}

func (e *BuffNotFoundError) Unwrap() error { return ErrBuffNotFound }

// FieldError reports a present field whose decoded value has the wrong shape.
type FieldError struct {
	Key  string
	Want string
	Got  sval.Kind
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: want %s, got %s", e.Key, e.Want, e.Got)
}
