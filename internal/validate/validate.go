// Package validate sweeps a game data tree and decodes every SVAL file in it,
// reporting each failure without stopping at the first.
package validate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/hwextract/internal/sval"
)

// ErrCodebaseInvalid is returned by Sweep when at least one file failed to decode.
var ErrCodebaseInvalid = errors.New("errors detected in SVAL codebase")

// Extensions lists the file suffixes the sweep decodes.
var Extensions = []string{".sval", ".unit"}

// FileError records the decode failure of one file.
type FileError struct {
	// Path is root-relative with forward slashes.
	Path string
	Err  error
}

func (e *FileError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *FileError) Unwrap() error { return e.Err }

// Report summarizes a sweep.
type Report struct {
	Files    int
	Failures []*FileError
}

// OK reports whether every discovered file decoded.
func (r Report) OK() bool { return len(r.Failures) == 0 }

type options struct {
	workers int
	logger  *zap.Logger
	decoder []sval.DecoderOption
}

// Option configures Sweep.
type Option func(*options)

// WithWorkers bounds the number of files decoded concurrently. Values below 1
// are treated as 1.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = max(n, 1) }
}

// WithLogger receives one Error line per failing file and a summary line.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithDecoderOptions passes opts to every file decode.
func WithDecoderOptions(opts ...sval.DecoderOption) Option {
	return func(o *options) { o.decoder = append(o.decoder, opts...) }
}

// Sweep discovers every .sval and .unit file under root and decodes each one.
// A failing file is logged and recorded; it does not stop the sweep.
//
// Precondition: root must be a readable directory.
// Postcondition: Report.Files counts every discovered file. When any file
// failed, the error wraps ErrCodebaseInvalid and Report.Failures is sorted by
// path. A walk failure or cancelled ctx returns that error instead.
func Sweep(ctx context.Context, root string, opts ...Option) (Report, error) {
	o := options{workers: 1, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	loader := sval.NewLoader(root, o.decoder...)
	files, err := discover(loader.Root())
	if err != nil {
		return Report{}, err
	}

	var (
		mu       sync.Mutex
		failures []*FileError
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for _, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := loader.LoadFile(rel); err != nil {
				o.logger.Error("decoding file",
					zap.String("file", rel),
					zap.Error(err),
				)
				mu.Lock()
				failures = append(failures, &FileError{Path: rel, Err: err})
				mu.Unlock()
				return nil
			}
			o.logger.Debug("file ok", zap.String("file", rel))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	slices.SortFunc(failures, func(a, b *FileError) int { return strings.Compare(a.Path, b.Path) })
	report := Report{Files: len(files), Failures: failures}
	if !report.OK() {
		o.logger.Error("sweep failed",
			zap.Int("files", report.Files),
			zap.Int("failures", len(failures)),
		)
		return report, fmt.Errorf("%w: %d of %d files failed", ErrCodebaseInvalid, len(failures), report.Files)
	}
	o.logger.Info("sweep passed", zap.Int("files", report.Files))
	return report, nil
}

// discover returns the root-relative slash paths of every decodable file,
// sorted.
func discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !slices.Contains(Extensions, strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	slices.Sort(files)
	return files, nil
}
