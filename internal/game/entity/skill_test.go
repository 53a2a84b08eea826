package entity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/hwextract/internal/game/entity"
)

func TestBuildSkill_Levels(t *testing.T) {
	c, _ := newContext(map[string]string{
		"players/paladin/swing.unit": `<unit><behavior class="Projectile"><int name="ttl">100</int></behavior></unit>`,
	})
	s, err := entity.BuildSkill(c, mapping(t, `<dict>
		<string name="name">Sword Swing</string>
		<array name="skills">
			<dict>
				<string name="class">Skills::MeleeSwing</string>
				<int name="cooldown">800</int>
				<array name="effects"><dict><string name="class">Damage</string><int name="physical">10</int></dict></array>
			</dict>
			<dict>
				<string name="class">Skills::ShootProjectile</string>
				<int name="mana-cost">15</int>
				<string name="projectile">players/paladin/swing.unit</string>
			</dict>
		</array>
	</dict>`))
	require.NoError(t, err)
	assert.Equal(t, "Sword Swing", s.Name)
	require.Len(t, s.Levels, 2)

	swing := s.Levels[0].(*entity.MeleeSwing)
	assert.Equal(t, 800, swing.Cooldown)
	assert.Equal(t, 0, swing.ManaCost)
	assert.False(t, swing.Blocking)

	shoot := s.Levels[1].(*entity.ShootProjectileSkill)
	assert.Equal(t, 1000, shoot.Cooldown)
	assert.Equal(t, 15, shoot.ManaCost)
	assert.Equal(t, 1, shoot.Projectiles)
	assert.Equal(t, 100, shoot.Projectile.(*entity.Projectile).TTL)

	level, ok := s.Level(1)
	require.True(t, ok)
	active, ok := level.(entity.ActiveSkillLevel)
	require.True(t, ok)
	assert.Equal(t, 15, active.Costs().ManaCost)

	_, ok = s.Level(2)
	assert.False(t, ok)
}

func TestBuildSkill_NoLevels(t *testing.T) {
	c, _ := newContext(nil)
	s, err := entity.BuildSkill(c, mapping(t, `<dict><string name="name">Idle</string></dict>`))
	require.NoError(t, err)
	assert.NotNil(t, s.Levels)
	assert.Empty(t, s.Levels)
}

func TestBuildSkill_UnknownLevelClass(t *testing.T) {
	c, _ := newContext(nil)
	_, err := entity.BuildSkill(c, mapping(t, `<dict>
		<string name="name">Broken</string>
		<array name="skills">
			<dict><string name="class">Skills::MeleeSwing</string></dict>
			<dict><string name="class">Skills::Teleport</string></dict>
		</array>
	</dict>`))
	var derr *entity.DispatchError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "skill not found: Skills::Teleport", derr.Error())
	// Levels are numbered from zero, as Skill.Level indexes them.
	assert.Contains(t, err.Error(), `skill "Broken" level 1:`)
}

func TestClassToSkillLevel_Defaults(t *testing.T) {
	c, _ := newContext(nil)
	cases := []struct {
		class string
		check func(t *testing.T, s entity.SkillLevel)
	}{
		{"Skills::Shatter", func(t *testing.T, s entity.SkillLevel) {
			v := s.(*entity.Shatter)
			assert.Equal(t, 0.5, v.Chance)
			assert.Equal(t, "kill", v.Trigger)
			assert.Equal(t, 1.0, v.RequiredHp)
			assert.NotNil(t, v.Actions)
		}},
		{"Skills::Stormlash", func(t *testing.T, s entity.SkillLevel) {
			v := s.(*entity.Stormlash)
			assert.Equal(t, 1.0, v.Chance)
			assert.Equal(t, 0.5, v.Intensity)
		}},
		{"Skills::TwinnedArrow", func(t *testing.T, s entity.SkillLevel) {
			assert.Equal(t, 0.1, s.(*entity.TwinnedArrow).Chance)
		}},
		{"Skills::ChargeUnit", func(t *testing.T, s entity.SkillLevel) {
			v := s.(*entity.ChargeUnit)
			assert.Equal(t, 2000, v.ChargeMax)
			assert.Equal(t, -1, v.HoldFrame)
			assert.Nil(t, v.Unit)
		}},
		{"Skills::SpewProjectiles", func(t *testing.T, s entity.SkillLevel) {
			v := s.(*entity.SpewProjectiles)
			assert.Equal(t, 1, v.Projectiles)
			assert.Equal(t, 100, v.Interval)
			assert.Equal(t, 30, v.SpewInterval)
			assert.Equal(t, 1000, v.EffectInterval)
		}},
		{"Skills::ArrowFlurry", func(t *testing.T, s entity.SkillLevel) {
			v := s.(*entity.ArrowFlurry)
			assert.Equal(t, 33, v.ProjDelay)
			assert.Equal(t, 16, v.PerRevolution)
			assert.Equal(t, "Skills::ArrowFlurry", v.Tag())
		}},
		{"Skills::ShootBeam", func(t *testing.T, s entity.SkillLevel) {
			v := s.(*entity.ShootBeam)
			assert.Equal(t, 100, v.Interval)
			assert.Equal(t, 1000, v.BuildupTime)
		}},
		{"Skills::GrappleHook", func(t *testing.T, s entity.SkillLevel) {
			v := s.(*entity.GrappleHook)
			assert.Equal(t, 3.0, v.Speed)
			assert.Equal(t, 10.0, v.Range)
		}},
		{"Skills::StackEvasion", func(t *testing.T, s entity.SkillLevel) {
			v := s.(*entity.StackEvasion)
			assert.Equal(t, 1000, v.Recharge)
			assert.Equal(t, 1.0, v.Chance)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.class, func(t *testing.T) {
			s, err := c.ClassToSkillLevel(classOnly(tc.class))
			require.NoError(t, err)
			tc.check(t, s)
		})
	}
}

func TestClassToSkillLevel_PassiveIsNotActive(t *testing.T) {
	c, _ := newContext(nil)
	s, err := c.ClassToSkillLevel(classOnly("Skills::PassiveSkill"))
	require.NoError(t, err)
	_, active := s.(entity.ActiveSkillLevel)
	assert.False(t, active)

	s, err = c.ClassToSkillLevel(classOnly("Skills::Charge"))
	require.NoError(t, err)
	_, active = s.(entity.ActiveSkillLevel)
	assert.True(t, active)
}

func TestClassToSkillLevel_StaggeredCountsPositions(t *testing.T) {
	c, _ := newContext(nil)
	s, err := c.ClassToSkillLevel(mapping(t, `<dict>
		<string name="class">Skills::StaggeredSpawnUnits</string>
		<array name="positions"><vec2>0 1</vec2><vec2>1 0</vec2><vec2>1 1</vec2></array>
	</dict>`))
	require.NoError(t, err)
	assert.Equal(t, 3, s.(*entity.StaggeredSpawnUnits).Count)
}

func TestClassToSkillLevel_TempBuffAoe(t *testing.T) {
	c, _ := newContext(map[string]string{"buffs/common.sval": commonBuffs})
	s, err := c.ClassToSkillLevel(mapping(t, `<dict>
		<string name="class">Skills::TempBuffAoe</string>
		<string name="buff">buffs/common.sval:Slow</string>
		<string name="buff-team">buffs/common.sval:Ward</string>
		<int name="active-time">4000</int>
		<array name="modifiers"><dict><string name="class">GoldGain</string><float name="scale">1.5</float></dict></array>
	</dict>`))
	require.NoError(t, err)
	v := s.(*entity.TempBuffAoe)
	assert.True(t, v.Buff.Debuff)
	assert.Equal(t, 1000, v.BuffTeam.Duration)
	assert.Equal(t, 4000, v.ActiveTime)
	require.Len(t, v.Modifiers, 1)
	assert.Equal(t, 1.5, v.Modifiers[0].(*entity.GoldGain).Scale)
}

func TestClassToSkillLevel_ExplodeSelfEffects(t *testing.T) {
	c, _ := newContext(nil)
	s, err := c.ClassToSkillLevel(mapping(t, `<dict>
		<string name="class">Skills::Explode</string>
		<dict name="effect"><string name="class">Damage</string></dict>
		<array name="self-effects">
			<dict><string name="class">Heal</string></dict>
			<dict><string name="class">GiveMana</string></dict>
		</array>
	</dict>`))
	require.NoError(t, err)
	v := s.(*entity.ExplodeSkill)
	assert.Len(t, v.Effects, 1)
	assert.Len(t, v.SelfEffects, 2)
}
