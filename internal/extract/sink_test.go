package extract_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/hwextract/internal/extract"
	"github.com/cory-johannsen/hwextract/internal/game/entity"
	"github.com/cory-johannsen/hwextract/internal/storage/postgres"
	"github.com/cory-johannsen/hwextract/internal/testutil"
)

func runGameTree(t *testing.T) *extract.Aggregate {
	t.Helper()
	x, _ := newExtractor(t, testutil.GameTree(), extract.WithClasses("ranger"))
	agg, err := x.Run(context.Background())
	require.NoError(t, err)
	return agg
}

func TestFileSink_JSON(t *testing.T) {
	agg := runGameTree(t)
	path := filepath.Join(t.TempDir(), "out", "data.json")

	sink := &extract.FileSink{Path: path, Format: extract.FormatJSON}
	require.NoError(t, sink.Write(context.Background(), agg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Items   map[string]map[string]map[string]any `json:"items"`
		Players map[string]map[string]any            `json:"players"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Items, 5)
	assert.Equal(t, "epic ring", doc.Items["epic"]["epic-ring"]["name"])
	assert.Equal(t, 10.0, doc.Items["epic"]["epic-ring"]["cost"])
	assert.Equal(t, 80.0, doc.Players["ranger"]["baseHealth"])

	mods := doc.Items["epic"]["epic-ring"]["modifiers"].([]any)
	assert.Equal(t, "Armor", mods[0].(map[string]any)["class"])
}

func TestFileSink_YAMLToStdout(t *testing.T) {
	agg := runGameTree(t)
	var out bytes.Buffer

	sink := &extract.FileSink{Path: "-", Format: extract.FormatYAML, Stdout: &out}
	require.NoError(t, sink.Write(context.Background(), agg))

	text := out.String()
	assert.Contains(t, text, "items:\n")
	assert.Contains(t, text, "players:\n")
	assert.NotContains(t, text, `"name":`)

	var doc map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	common := doc["items"]["common"].(map[string]any)
	ring := common["common-ring"].(map[string]any)
	assert.Equal(t, "common ring", ring["name"])
	assert.Equal(t, 10, ring["cost"])
}

func TestEncode_YAMLQuotesAmbiguousStrings(t *testing.T) {
	agg := &extract.Aggregate{Items: map[string]map[string]*entity.Item{
		"common": {"x": {Name: "10", Description: "true", Quality: "yes"}},
	}}
	data, err := extract.Encode(agg, extract.FormatYAML)
	require.NoError(t, err)

	var doc map[string]map[string]map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	item := doc["items"]["common"]["x"]
	assert.Equal(t, "10", item["name"])
	assert.Equal(t, "true", item["description"])
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	_, err := extract.Encode(&extract.Aggregate{}, "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"toml"`)
}

type memStore struct {
	saved []*postgres.Snapshot
	err   error
}

func (s *memStore) Save(_ context.Context, snap *postgres.Snapshot) error {
	if s.err != nil {
		return s.err
	}
	snap.ID = uuid.New()
	s.saved = append(s.saved, snap)
	return nil
}

func TestSnapshotSink(t *testing.T) {
	agg := runGameTree(t)
	store := &memStore{}

	sink := &extract.SnapshotSink{Store: store, Root: "/games/hw"}
	require.NoError(t, sink.Write(context.Background(), agg))

	require.Len(t, store.saved, 1)
	snap := store.saved[0]
	assert.Equal(t, "/games/hw", snap.Root)
	assert.Equal(t, 10, snap.ItemCount)
	assert.Equal(t, 1, snap.PlayerCount)
	assert.True(t, json.Valid(snap.Document))
}

func TestSnapshotSink_StoreError(t *testing.T) {
	store := &memStore{err: postgres.ErrSnapshotExists}
	sink := &extract.SnapshotSink{Store: store}

	err := sink.Write(context.Background(), &extract.Aggregate{})
	assert.ErrorIs(t, err, postgres.ErrSnapshotExists)
	assert.Contains(t, err.Error(), "saving snapshot")
}

type failSink struct{ calls *int }

func (f failSink) Write(context.Context, *extract.Aggregate) error {
	*f.calls++
	return errors.New("disk full")
}

func TestSinks_StopAtFirstFailure(t *testing.T) {
	calls := 0
	store := &memStore{}
	sinks := extract.Sinks{failSink{&calls}, &extract.SnapshotSink{Store: store}}

	err := sinks.Write(context.Background(), &extract.Aggregate{})
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 1, calls)
	assert.Empty(t, store.saved)
}
