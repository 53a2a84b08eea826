// Package sim estimates the damage a skill level deals against a defender,
// averaging randomized evade rolls over many iterations.
package sim

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hwextract/internal/game/entity"
)

// ErrLevelOutOfRange is returned by Simulate for a level the skill does not have.
var ErrLevelOutOfRange = errors.New("skill level out of range")

// State describes the defender.
type State struct {
	// EnemyCount is the number of enemies an explosion reaches; values below
	// 1 count as 1. Single-target damage ignores it.
	EnemyCount       int
	EvadePhysical    float64
	EvadeMagical     float64
	Armor            float64
	Resistance       float64
	DamageMultiplier float64
}

// Result is an amount of physical and magical damage.
type Result struct {
	Physical float64 `json:"physical"`
	Magical  float64 `json:"magical"`
}

// Add returns the component-wise sum of r and o.
func (r Result) Add(o Result) Result {
	return Result{Physical: r.Physical + o.Physical, Magical: r.Magical + o.Magical}
}

// Scale returns r with both components multiplied by f.
func (r Result) Scale(f float64) Result {
	return Result{Physical: r.Physical * f, Magical: r.Magical * f}
}

// Rounded returns r with both components passed through RoundDamage.
func (r Result) Rounded() Result {
	return Result{Physical: RoundDamage(r.Physical), Magical: RoundDamage(r.Magical)}
}

// RoundDamage rounds half away from zero, except that any nonzero amount
// smaller than one in magnitude rounds to one.
func RoundDamage(d float64) float64 {
	switch {
	case d == 0:
		return 0
	case d > 0 && d < 1:
		return 1
	case d < 0 && d > -1:
		return -1
	case d < 0:
		return math.Ceil(d - 0.5)
	default:
		return math.Floor(d + 0.5)
	}
}

// ArmorFactor returns the share of damage that passes armor.
//
// Postcondition: the result is in (0, 1] for armor >= 0.
func ArmorFactor(armor float64) float64 {
	a := armor * 0.02
	return 1 - a/(1+math.Max(0, a))
}

// Simulator evaluates damage with evade rolls drawn from a Source.
type Simulator struct {
	src    Source
	logger *zap.Logger
}

// NewSimulator returns a Simulator that rolls with src and logs each run to logger.
//
// Precondition: src and logger must be non-nil.
func NewSimulator(src Source, logger *zap.Logger) *Simulator {
	return &Simulator{src: src, logger: logger}
}

// EffectDamage returns the damage of one application of e.
func (s *Simulator) EffectDamage(e entity.Effect, st State) Result {
	switch e := e.(type) {
	case *entity.Damage:
		return s.damage(*e, st)
	case *entity.LifestealDamage:
		return s.damage(e.Damage, st)
	case *entity.ExplodeEffect:
		return s.area(e.Effects, e.EnemyDamage, st)
	case *entity.ExplodeChainLimit:
		return s.area(e.Effects, e.EnemyDamage, st)
	}
	return Result{}
}

func (s *Simulator) damage(d entity.Damage, st State) Result {
	res := Result{Physical: float64(d.Physical), Magical: float64(d.Magical)}
	if !d.TrueStrike {
		if st.EvadePhysical >= s.src.Float64() {
			res.Physical = 0
		}
		if st.EvadeMagical >= s.src.Float64() {
			res.Magical = 0
		}
		if res.Physical == 0 && res.Magical == 0 {
			return res
		}
	}
	return Result{
		Physical: ArmorFactor(st.Armor*d.ArmorMul) * st.DamageMultiplier * res.Physical,
		Magical:  ArmorFactor(st.Resistance*d.ResistanceMul) * st.DamageMultiplier * res.Magical,
	}
}

// area applies effects once per enemy in range, each scaled by mul.
func (s *Simulator) area(effects []entity.Effect, mul float64, st State) Result {
	var total Result
	for range max(st.EnemyCount, 1) {
		total = total.Add(s.sum(effects, st).Scale(mul))
	}
	return total
}

func (s *Simulator) sum(effects []entity.Effect, st State) Result {
	var total Result
	for _, e := range effects {
		total = total.Add(s.EffectDamage(e, st))
	}
	return total
}

// SkillDamage returns the damage of one use of level. Levels that deal no
// direct damage yield a zero Result.
func (s *Simulator) SkillDamage(level entity.SkillLevel, st State) Result {
	switch l := level.(type) {
	case *entity.MeleeSwing:
		return s.sum(l.Effects, st)
	case *entity.ExplodeSkill:
		return s.sum(l.Effects, st)
	case *entity.Whirlwind:
		return s.sum(l.Effects, st)
	}
	return Result{}
}

// Simulate averages SkillDamage of the zero-based level over times iterations.
//
// Precondition: times > 0.
// Postcondition: returns ErrLevelOutOfRange when skill has no such level.
func (s *Simulator) Simulate(skill *entity.Skill, level int, st State, times int) (Result, error) {
	if times <= 0 {
		return Result{}, fmt.Errorf("sim: iterations must be positive, got %d", times)
	}
	lv, ok := skill.Level(level)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q has %d levels, requested %d", ErrLevelOutOfRange, skill.Name, len(skill.Levels), level)
	}
	var total Result
	for i := 0; i < times; i++ {
		total = total.Add(s.SkillDamage(lv, st))
	}
	avg := total.Scale(1 / float64(times))
	s.logger.Debug("skill simulated",
		zap.String("skill", skill.Name),
		zap.Int("level", level),
		zap.String("class", lv.Tag()),
		zap.Int("iterations", times),
		zap.Float64("physical", avg.Physical),
		zap.Float64("magical", avg.Magical),
	)
	return avg, nil
}
