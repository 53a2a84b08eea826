// Package extract loads every item tier and character class of a game data
// tree into one aggregate document and hands it to sinks.
package extract

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/hwextract/internal/config"
	"github.com/cory-johannsen/hwextract/internal/game/entity"
	"github.com/cory-johannsen/hwextract/internal/sval"
)

// ErrNoMapping is returned when a data file holds no top-level mapping.
var ErrNoMapping = errors.New("file holds no top-level mapping")

// Aggregate is the exported document.
type Aggregate struct {
	// Items maps tier → item key → item.
	Items map[string]map[string]*entity.Item `json:"items"`
	// Players maps class name → character.
	Players map[string]*entity.Character `json:"players"`
}

// ItemCount returns the number of items across every tier.
func (a *Aggregate) ItemCount() int {
	n := 0
	for _, items := range a.Items {
		n += len(items)
	}
	return n
}

// ItemsPath returns the root-relative file holding a tier's items.
func ItemsPath(tier string) string { return "items/" + tier + ".sval" }

// CharacterPath returns the root-relative file describing a character class.
func CharacterPath(class string) string { return "players/" + class + "/char.sval" }

// Extractor builds Aggregates from one data tree.
type Extractor struct {
	ectx    *entity.Context
	logger  *zap.Logger
	tiers   []string
	classes []string
	workers int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger logs each loaded tier and class with counts and timings.
func WithLogger(logger *zap.Logger) Option {
	return func(x *Extractor) { x.logger = logger }
}

// WithTiers replaces the item tiers to extract.
func WithTiers(tiers ...string) Option {
	return func(x *Extractor) { x.tiers = tiers }
}

// WithClasses replaces the character classes to extract.
func WithClasses(classes ...string) Option {
	return func(x *Extractor) { x.classes = classes }
}

// WithWorkers bounds how many tiers and classes load concurrently.
func WithWorkers(n int) Option {
	return func(x *Extractor) { x.workers = max(n, 1) }
}

// New constructs an Extractor resolving every file through ectx.
//
// Precondition: ectx must be non-nil.
// Postcondition: extracts config.Tiers and config.Classes unless overridden.
func New(ectx *entity.Context, opts ...Option) *Extractor {
	x := &Extractor{
		ectx:    ectx,
		logger:  zap.NewNop(),
		tiers:   config.Tiers,
		classes: config.Classes,
		workers: 1,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// LoadItems builds every item in file, keyed as in the file.
//
// Postcondition: returns a non-nil map, or the first error wrapped with the
// file and item key.
func (x *Extractor) LoadItems(file string) (map[string]*entity.Item, error) {
	m, err := x.topLevel(file)
	if err != nil {
		return nil, err
	}
	items := make(map[string]*entity.Item, m.Len())
	for _, key := range m.Keys() {
		v, _ := m.Get(key)
		im, ok := v.(*sval.Mapping)
		if !ok {
			return nil, fmt.Errorf("item %q in %s: %w", key, file,
				&entity.FieldError{Key: key, Want: "dict", Got: v.Kind()})
		}
		it, err := entity.BuildItem(x.ectx, im)
		if err != nil {
			return nil, fmt.Errorf("item %q in %s: %w", key, file, err)
		}
		items[key] = it
	}
	return items, nil
}

// LoadCharacter builds the character described by players/<class>/char.sval.
func (x *Extractor) LoadCharacter(class string) (*entity.Character, error) {
	file := CharacterPath(class)
	m, err := x.topLevel(file)
	if err != nil {
		return nil, err
	}
	ch, err := entity.BuildCharacter(x.ectx, m)
	if err != nil {
		return nil, fmt.Errorf("character %s: %w", class, err)
	}
	return ch, nil
}

func (x *Extractor) topLevel(file string) (*sval.Mapping, error) {
	vals, err := x.ectx.Loader().LoadFile(file)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%s: %w", file, ErrNoMapping)
	}
	m, ok := vals[0].(*sval.Mapping)
	if !ok {
		return nil, fmt.Errorf("%s: %w", file, ErrNoMapping)
	}
	return m, nil
}

// Run loads every configured tier and class.
//
// Postcondition: returns an Aggregate holding one entry per tier and class, or
// the first error encountered.
func (x *Extractor) Run(ctx context.Context) (*Aggregate, error) {
	overall := time.Now()
	agg := &Aggregate{
		Items:   make(map[string]map[string]*entity.Item, len(x.tiers)),
		Players: make(map[string]*entity.Character, len(x.classes)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.workers)
	for _, tier := range x.tiers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t0 := time.Now()
			items, err := x.LoadItems(ItemsPath(tier))
			if err != nil {
				return fmt.Errorf("loading %s items: %w", tier, err)
			}
			mu.Lock()
			agg.Items[tier] = items
			mu.Unlock()
			x.logger.Info("loaded items",
				zap.String("tier", tier),
				zap.Int("count", len(items)),
				zap.Duration("elapsed", time.Since(t0).Round(time.Millisecond)),
			)
			return nil
		})
	}
	for _, class := range x.classes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t0 := time.Now()
			ch, err := x.LoadCharacter(class)
			if err != nil {
				return fmt.Errorf("loading %s: %w", class, err)
			}
			mu.Lock()
			agg.Players[class] = ch
			mu.Unlock()
			x.logger.Info("loaded character",
				zap.String("class", class),
				zap.Int("skills", len(ch.Skills)),
				zap.Duration("elapsed", time.Since(t0).Round(time.Millisecond)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	x.logger.Info("extraction complete",
		zap.Int("items", agg.ItemCount()),
		zap.Int("players", len(agg.Players)),
		zap.Int("buffFiles", x.ectx.BuffCache().Files()),
		zap.Duration("elapsed", time.Since(overall).Round(time.Millisecond)),
	)
	return agg, nil
}
