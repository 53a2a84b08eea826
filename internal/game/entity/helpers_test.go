package entity_test

import (
	"io/fs"
	"sync"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/hwextract/internal/game/entity"
	"github.com/cory-johannsen/hwextract/internal/sval"
)

// memLoader serves SVAL files from memory and counts decodes per path.
type memLoader struct {
	mu    sync.Mutex
	files map[string]string
	loads map[string]int
}

func newMemLoader(files map[string]string) *memLoader {
	return &memLoader{files: files, loads: make(map[string]int)}
}

func (l *memLoader) Abs(rel string) string { return "/data/" + rel }

func (l *memLoader) LoadFile(rel string) ([]sval.Value, error) {
	l.mu.Lock()
	l.loads[rel]++
	text, ok := l.files[rel]
	l.mu.Unlock()
	if !ok {
		return nil, &sval.LoadError{Path: l.Abs(rel), Err: fs.ErrNotExist}
	}
	vals, err := sval.Decode(text)
	if err != nil {
		return nil, &sval.LoadError{Path: l.Abs(rel), Err: err}
	}
	return vals, nil
}

func (l *memLoader) Loads(rel string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads[rel]
}

type helperT interface {
	require.TestingT
	Helper()
}

// mapping decodes text and returns its single top-level mapping.
func mapping(t helperT, text string) *sval.Mapping {
	t.Helper()
	vals, err := sval.Decode(text)
	require.NoError(t, err)
	require.Len(t, vals, 1)
	m, ok := vals[0].(*sval.Mapping)
	require.True(t, ok, "top-level value is %T", vals[0])
	return m
}

func newContext(files map[string]string) (*entity.Context, *memLoader) {
	l := newMemLoader(files)
	return entity.NewContext(l), l
}
