package entity_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/hwextract/internal/game/entity"
)

const arrowUnit = `%// ranger arrow
<unit layer="projectile">
	<behavior class="Projectile">
		<float name="speed">8.5</float>
		<bool name="seeking">true</bool>
		<dict name="effect-params"><float name="scale">2</float></dict>
		<array name="effects">
			<dict><string name="class">Damage</string><int name="physical">12</int></dict>
		</array>
	</behavior>
</unit>`

func TestLoadUnit_Projectile(t *testing.T) {
	c, _ := newContext(map[string]string{"players/ranger/arrow.unit": arrowUnit})
	u, err := c.LoadUnit("players/ranger/arrow.unit")
	require.NoError(t, err)

	p, ok := u.(*entity.Projectile)
	require.True(t, ok, "got %T", u)
	assert.Equal(t, "Projectile", p.Tag())
	assert.Equal(t, 8.5, p.Speed)
	assert.True(t, p.Seeking)
	assert.Equal(t, 0.07, p.SeekingTurnspeed)
	assert.Equal(t, 5000, p.TTL)
	assert.Equal(t, -1, p.Range)
	assert.Equal(t, map[string]any{"scale": 2.0}, p.EffectParams)
	require.Len(t, p.Effects, 1)
	assert.Equal(t, 12, p.Effects[0].(*entity.Damage).Physical)

	var proj entity.ProjectileUnit = p
	assert.Equal(t, 8.5, proj.Motion().Speed)
}

func TestLoadUnit_ReDecodedPerReference(t *testing.T) {
	c, l := newContext(map[string]string{"players/ranger/arrow.unit": arrowUnit})
	a, err := c.LoadUnit("players/ranger/arrow.unit")
	require.NoError(t, err)
	b, err := c.LoadUnit("players/ranger/arrow.unit")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, l.Loads("players/ranger/arrow.unit"))
}

func TestLoadUnit_MissingFile(t *testing.T) {
	c, _ := newContext(nil)
	_, err := c.LoadUnit("units/ghost.unit")

	var rerr *entity.ReferenceError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "unit", rerr.Kind)
	assert.Equal(t, "/data/units/ghost.unit", rerr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "/data/units/ghost.unit")
}

func TestLoadUnit_RayFamily(t *testing.T) {
	c, _ := newContext(map[string]string{
		"orb.unit": `<unit><behavior class="SorcererOrbProjectile">
			<int name="bounces">2</int>
			<float name="penetration-intensity-mul">0.5</float>
		</behavior></unit>`,
		"shot.unit": `<unit><behavior class="PowershotProjectile">
			<float name="speed-min">1</float><float name="speed-max">4</float>
		</behavior></unit>`,
	})
	u, err := c.LoadUnit("orb.unit")
	require.NoError(t, err)
	orb := u.(*entity.SorcererOrbProjectile)
	assert.Equal(t, 2, orb.Bounces)
	assert.Equal(t, 0.5, orb.PenetrationIntensityMultiplier)
	assert.Equal(t, 500, orb.Delay)
	assert.Equal(t, 40, orb.ProjectileDelay)
	assert.NotNil(t, orb.Effects)

	u, err = c.LoadUnit("shot.unit")
	require.NoError(t, err)
	shot := u.(*entity.PowershotProjectile)
	assert.Equal(t, 1.0, shot.SpeedMin)
	assert.Equal(t, 4.0, shot.SpeedMax)
	assert.Implements(t, (*entity.ProjectileUnit)(nil), shot)
}

func TestLoadUnit_NestedReferences(t *testing.T) {
	c, l := newContext(map[string]string{
		"gargoyle.unit": `<unit><behavior class="GargoyleSpawner">
			<int name="delay">250</int>
			<string name="unit-bolt">bolt.unit</string>
			<string name="unit-area">area.unit</string>
		</behavior></unit>`,
		"bolt.unit": `<unit><behavior class="BoltShooter">
			<bool name="use-stormlash">false</bool>
			<dict name="link-effect"><string name="class">Damage</string></dict>
		</behavior></unit>`,
		"area.unit": `<unit><behavior class="PriestGroundCircle"><float name="heal-scale">0.3</float></behavior></unit>`,
	})
	u, err := c.LoadUnit("gargoyle.unit")
	require.NoError(t, err)
	g := u.(*entity.GargoyleSpawner)
	assert.Equal(t, 250, g.Delay)

	bolt := g.UnitBolt.(*entity.BoltShooter)
	assert.False(t, bolt.UseStormlash)
	assert.Equal(t, 2000, bolt.TTL)
	assert.Equal(t, 5, bolt.Bolts)
	assert.Len(t, bolt.LinkEffects, 1)
	assert.Empty(t, bolt.Effects)

	assert.Equal(t, 0.3, g.UnitArea.(*entity.PriestGroundCircle).HealScale)
	assert.Equal(t, 1, l.Loads("bolt.unit"))
}

func TestLoadUnit_Cycle(t *testing.T) {
	c, _ := newContext(map[string]string{
		"bomb.unit": `<unit><behavior class="BombBehavior">
			<array name="actions">
				<dict><string name="class">SpawnUnit</string><string name="unit">bomb.unit</string></dict>
			</array>
		</behavior></unit>`,
	})
	_, err := c.LoadUnit("bomb.unit")
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrReferenceCycle))
	assert.Contains(t, err.Error(), "bomb.unit -> bomb.unit")
}

func TestLoadUnit_BombDefaults(t *testing.T) {
	c, _ := newContext(map[string]string{
		"bomb.unit": `<unit><behavior class="BombBehavior">
			<bool name="delay-random">false</bool>
			<dict name="action"><string name="class">HwSpawnUnit</string><int name="count">3</int></dict>
		</behavior></unit>`,
	})
	u, err := c.LoadUnit("bomb.unit")
	require.NoError(t, err)
	b := u.(*entity.BombBehavior)
	assert.Equal(t, "enemy", b.Team)
	assert.Equal(t, 5, b.Delay)
	assert.False(t, b.DelayRandom)
	require.Len(t, b.Actions, 1)
	spawn := b.Actions[0].(*entity.HwSpawnUnit)
	assert.Equal(t, 3, spawn.Count)
	assert.Nil(t, spawn.Unit)
}

func TestLoadUnit_UnknownBehavior(t *testing.T) {
	c, _ := newContext(map[string]string{
		"odd.unit": `<unit><behavior class="Wobbler"></behavior></unit>`,
	})
	_, err := c.LoadUnit("odd.unit")
	var derr *entity.DispatchError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "unit not found: Wobbler", derr.Error())
	assert.True(t, errors.Is(err, entity.ErrNotFound))
}
