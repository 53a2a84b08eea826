package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/hwextract/internal/storage/postgres"
)

// Output formats accepted by Encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Sink receives a finished Aggregate.
type Sink interface {
	Write(ctx context.Context, agg *Aggregate) error
}

// Sinks writes to each sink in order and stops at the first failure.
type Sinks []Sink

// Write implements Sink.
func (s Sinks) Write(ctx context.Context, agg *Aggregate) error {
	for _, sink := range s {
		if err := sink.Write(ctx, agg); err != nil {
			return err
		}
	}
	return nil
}

// Encode serializes agg as indented JSON or block-style YAML.
func Encode(agg *Aggregate, format string) ([]byte, error) {
	data, err := json.MarshalIndent(agg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding aggregate: %w", err)
	}
	switch format {
	case FormatJSON:
		return append(data, '\n'), nil
	case FormatYAML:
		return jsonToYAML(data)
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// jsonToYAML re-encodes a JSON document as YAML, keeping key order. JSON is
// valid YAML, so it parses into a node tree whose flow and quoting styles are
// then cleared.
func jsonToYAML(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("converting aggregate to yaml: %w", err)
	}
	blockStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("encoding aggregate as yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding aggregate as yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// FileSink writes the encoded aggregate to Path, or to Stdout when Path is "-".
type FileSink struct {
	Path   string
	Format string
	// Stdout receives output for Path "-"; nil means os.Stdout.
	Stdout io.Writer
}

// Write implements Sink.
//
// Postcondition: the file at Path holds the whole document, with parent
// directories created as needed.
func (s *FileSink) Write(_ context.Context, agg *Aggregate) error {
	data, err := Encode(agg, s.Format)
	if err != nil {
		return err
	}
	if s.Path == "-" {
		w := s.Stdout
		if w == nil {
			w = os.Stdout
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing aggregate to stdout: %w", err)
		}
		return nil
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing aggregate to %s: %w", s.Path, err)
	}
	return nil
}

// SnapshotStore persists snapshots. *postgres.SnapshotRepository satisfies it.
type SnapshotStore interface {
	Save(ctx context.Context, s *postgres.Snapshot) error
}

// SnapshotSink stores the aggregate as a JSON snapshot tagged with Root.
type SnapshotSink struct {
	Store  SnapshotStore
	Root   string
	Logger *zap.Logger
}

// Write implements Sink.
func (s *SnapshotSink) Write(ctx context.Context, agg *Aggregate) error {
	doc, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	snap := &postgres.Snapshot{
		Root:        s.Root,
		ItemCount:   agg.ItemCount(),
		PlayerCount: len(agg.Players),
		Document:    doc,
	}
	if err := s.Store.Save(ctx, snap); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("snapshot saved",
			zap.String("id", snap.ID.String()),
			zap.Int("items", snap.ItemCount),
			zap.Int("players", snap.PlayerCount),
		)
	}
	return nil
}
