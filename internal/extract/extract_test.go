package extract_test

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/hwextract/internal/config"
	"github.com/cory-johannsen/hwextract/internal/extract"
	"github.com/cory-johannsen/hwextract/internal/game/entity"
	"github.com/cory-johannsen/hwextract/internal/sval"
	"github.com/cory-johannsen/hwextract/internal/testutil"
)

func newExtractor(t *testing.T, files map[string]string, opts ...extract.Option) (*extract.Extractor, string) {
	t.Helper()
	root := testutil.WriteTree(t, files)
	ectx := entity.NewContext(sval.NewLoader(root))
	return extract.New(ectx, opts...), root
}

func TestExtractor_Run(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	x, _ := newExtractor(t, testutil.GameTree(),
		extract.WithClasses("ranger"),
		extract.WithWorkers(3),
		extract.WithLogger(zap.New(core)),
	)

	agg, err := x.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, agg.Items, len(config.Tiers))
	assert.Equal(t, 2*len(config.Tiers), agg.ItemCount())
	ring := agg.Items["rare"]["rare-ring"]
	require.NotNil(t, ring)
	assert.Equal(t, "rare ring", ring.Name)
	assert.Equal(t, "rare", ring.Quality)
	assert.Equal(t, 10, ring.Cost)
	assert.True(t, ring.BuyInTown)
	require.Len(t, ring.Modifiers, 1)
	armor, ok := ring.Modifiers[0].(*entity.Armor)
	require.True(t, ok, "modifier is %T", ring.Modifiers[0])
	assert.Equal(t, 5, armor.Armor)

	require.Contains(t, agg.Players, "ranger")
	ranger := agg.Players["ranger"]
	assert.Equal(t, 80.0, ranger.BaseHealth)
	assert.Equal(t, 6.5, ranger.LevelHealth)
	require.Len(t, ranger.Skills, 2)
	assert.Equal(t, "Swing", ranger.Skills[0].Name)
	assert.Equal(t, "Shoot", ranger.Skills[1].Name)

	shoot, ok := ranger.Skills[1].Levels[0].(*entity.ShootProjectileSkill)
	require.True(t, ok, "level is %T", ranger.Skills[1].Levels[0])
	assert.Equal(t, 800, shoot.Cooldown)
	arrow, ok := shoot.Projectile.(*entity.Projectile)
	require.True(t, ok, "projectile is %T", shoot.Projectile)
	assert.Equal(t, 12.0, arrow.Speed)
	require.Len(t, arrow.Effects, 1)

	assert.Equal(t, len(config.Tiers), logs.FilterMessage("loaded items").Len())
	assert.Equal(t, 1, logs.FilterMessage("loaded character").Len())
	assert.Equal(t, 1, logs.FilterMessage("extraction complete").Len())
}

func TestExtractor_BuffSharedAcrossTiers(t *testing.T) {
	x, _ := newExtractor(t, testutil.GameTree(), extract.WithClasses(), extract.WithWorkers(5))
	agg, err := x.Run(context.Background())
	require.NoError(t, err)

	buffOf := func(tier string) *entity.Buff {
		amulet := agg.Items[tier][tier+"-amulet"]
		require.NotNil(t, amulet)
		trigger, ok := amulet.Modifiers[0].(*entity.TriggerEffect)
		require.True(t, ok)
		apply, ok := trigger.Effects[0].(*entity.ApplyBuff)
		require.True(t, ok)
		return apply.Buff
	}
	common := buffOf("common")
	assert.Equal(t, 1.5, common.SpeedMultiplier)
	assert.Equal(t, 3000, common.Duration)
	for _, tier := range config.Tiers[1:] {
		assert.Same(t, common, buffOf(tier))
	}
}

func TestExtractor_MissingClass(t *testing.T) {
	x, root := newExtractor(t, testutil.GameTree(), extract.WithTiers(), extract.WithClasses("ghost"))

	_, err := x.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), filepath.Join(root, "players", "ghost", "char.sval"))
}

func TestExtractor_LoadItems(t *testing.T) {
	files := testutil.GameTree()
	files["items/odd.sval"] = `<svals><int name="stray">3</int></svals>`
	files["items/none.sval"] = `%// no data here`
	files["items/bad.sval"] = `<svals><dict name="sword"><dict name="modifier"><string name="class">Nope</string></dict></dict></svals>`
	x, _ := newExtractor(t, files)

	t.Run("entries", func(t *testing.T) {
		items, err := x.LoadItems("items/common.sval")
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Contains(t, items, "common-ring")
		assert.Contains(t, items, "common-amulet")
	})
	t.Run("non-dict entry", func(t *testing.T) {
		_, err := x.LoadItems("items/odd.sval")
		var ferr *entity.FieldError
		require.True(t, errors.As(err, &ferr))
		assert.Equal(t, "stray", ferr.Key)
		assert.Contains(t, err.Error(), `item "stray"`)
	})
	t.Run("no mapping", func(t *testing.T) {
		_, err := x.LoadItems("items/none.sval")
		assert.ErrorIs(t, err, extract.ErrNoMapping)
	})
	t.Run("unknown modifier", func(t *testing.T) {
		_, err := x.LoadItems("items/bad.sval")
		assert.ErrorIs(t, err, entity.ErrNotFound)
		assert.Contains(t, err.Error(), "Nope")
		assert.Contains(t, err.Error(), `item "sword"`)
	})
}

func TestExtractor_ClassAttributeOnlyOnUnitChild(t *testing.T) {
	files := testutil.GameTree()
	files["items/attr.sval"] = `<svals>
	<dict name="ring"><dict name="modifier" class="Armor"><int name="armor">5</int></dict></dict>
</svals>`
	x, _ := newExtractor(t, files)

	_, err := x.LoadItems("items/attr.sval")
	var derr *entity.DispatchError
	require.True(t, errors.As(err, &derr), "err = %v", err)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.Empty(t, derr.Class)

	items, err := x.LoadItems("items/common.sval")
	require.NoError(t, err)
	armor, ok := items["common-ring"].Modifiers[0].(*entity.Armor)
	require.True(t, ok)
	assert.Equal(t, "Armor", armor.Tag())
}

func TestExtractor_CancelledContext(t *testing.T) {
	x, _ := newExtractor(t, testutil.GameTree(), extract.WithClasses("ranger"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := x.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "items/epic.sval", extract.ItemsPath("epic"))
	assert.Equal(t, "players/wizard/char.sval", extract.CharacterPath("wizard"))
}

// Property: ItemCount is the sum of every tier's item count.
func TestPropertyAggregate_ItemCount(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sizes := rapid.SliceOfN(rapid.IntRange(0, 5), 0, 6).Draw(rt, "sizes")
		agg := &extract.Aggregate{Items: map[string]map[string]*entity.Item{}}
		want := 0
		for i, n := range sizes {
			tier := make(map[string]*entity.Item, n)
			for j := range n {
				tier[string(rune('a'+j))] = &entity.Item{}
			}
			agg.Items[string(rune('A'+i))] = tier
			want += n
		}
		if got := agg.ItemCount(); got != want {
			rt.Fatalf("ItemCount = %d, want %d", got, want)
		}
	})
}
