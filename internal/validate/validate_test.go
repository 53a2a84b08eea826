package validate_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/hwextract/internal/sval"
	"github.com/cory-johannsen/hwextract/internal/testutil"
	"github.com/cory-johannsen/hwextract/internal/validate"
)

func TestSweep_CleanTree(t *testing.T) {
	root := testutil.WriteTree(t, testutil.GameTree())
	core, logs := observer.New(zapcore.InfoLevel)

	report, err := validate.Sweep(context.Background(), root,
		validate.WithWorkers(4),
		validate.WithLogger(zap.New(core)),
	)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, len(testutil.GameTree()), report.Files)
	require.Equal(t, 1, logs.FilterMessage("sweep passed").Len())
}

func TestSweep_ReportsEveryFailure(t *testing.T) {
	files := testutil.GameTree()
	files["broken/a.sval"] = `<svals><matrix name="m">1</matrix></svals>`
	files["broken/b.unit"] = `<unit><dict class="X">`
	files["notes.txt"] = `<not sval`
	root := testutil.WriteTree(t, files)
	core, logs := observer.New(zapcore.ErrorLevel)

	report, err := validate.Sweep(context.Background(), root, validate.WithLogger(zap.New(core)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, validate.ErrCodebaseInvalid))
	assert.Contains(t, err.Error(), "errors detected in SVAL codebase")
	assert.Contains(t, err.Error(), fmt.Sprintf("2 of %d files failed", len(files)-1))

	assert.False(t, report.OK())
	assert.Equal(t, len(files)-1, report.Files)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, "broken/a.sval", report.Failures[0].Path)
	assert.Equal(t, "broken/b.unit", report.Failures[1].Path)

	var uerr *sval.UnknownTagError
	assert.True(t, errors.As(report.Failures[0], &uerr))
	var serr *sval.SyntaxError
	assert.True(t, errors.As(report.Failures[1], &serr))

	perFile := logs.FilterMessage("decoding file")
	require.Equal(t, 2, perFile.Len())
	for _, entry := range perFile.All() {
		assert.Contains(t, entry.ContextMap(), "file")
		assert.Contains(t, entry.ContextMap(), "error")
	}
	assert.Equal(t, 1, logs.FilterMessage("sweep failed").Len())
}

func TestSweep_EmptyTree(t *testing.T) {
	report, err := validate.Sweep(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, report.Files)
	assert.True(t, report.OK())
}

func TestSweep_MissingRoot(t *testing.T) {
	_, err := validate.Sweep(context.Background(), t.TempDir()+"/absent")
	require.Error(t, err)
	assert.False(t, errors.Is(err, validate.ErrCodebaseInvalid))
}

func TestSweep_CancelledContext(t *testing.T) {
	root := testutil.WriteTree(t, testutil.GameTree())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := validate.Sweep(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweep_DecoderTrace(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"a.sval": `<svals><int name="cost">10</int></svals>`,
	})
	core, logs := observer.New(zapcore.DebugLevel)

	_, err := validate.Sweep(context.Background(), root,
		validate.WithDecoderOptions(sval.WithTrace(zap.New(core))),
	)
	require.NoError(t, err)
	assert.Positive(t, logs.Len())
}

// Property: the sweep fails exactly when some file is broken, and the
// failure count matches regardless of worker count.
func TestPropertySweep_FailureCount(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		good := rapid.IntRange(0, 6).Draw(rt, "good")
		bad := rapid.IntRange(0, 4).Draw(rt, "bad")
		workers := rapid.IntRange(0, 8).Draw(rt, "workers")

		files := make(map[string]string, good+bad)
		for i := range good {
			files[fmt.Sprintf("good/%d.sval", i)] = `<svals><int name="n">1</int></svals>`
		}
		for i := range bad {
			files[fmt.Sprintf("bad/%d.unit", i)] = `<svals><vec2 name="v">1 2 3</vec2></svals>`
		}
		root := testutil.WriteTree(t, files)

		report, err := validate.Sweep(context.Background(), root, validate.WithWorkers(workers))
		if report.Files != good+bad {
			rt.Fatalf("files = %d, want %d", report.Files, good+bad)
		}
		if len(report.Failures) != bad {
			rt.Fatalf("failures = %d, want %d", len(report.Failures), bad)
		}
		if (err != nil) != (bad > 0) {
			rt.Fatalf("err = %v with %d bad files", err, bad)
		}
	})
}
