package entity

import (
	"fmt"

	"github.com/cory-johannsen/hwextract/internal/sval"
)

// Skill is a named skill with one configuration per level.
type Skill struct {
	Name   string       `json:"name"`
	Levels []SkillLevel `json:"levels"`
}

// Level returns the configuration of the zero-based level n.
func (s *Skill) Level(n int) (SkillLevel, bool) {
	if n < 0 || n >= len(s.Levels) {
		return nil, false
	}
	return s.Levels[n], true
}

// BuildSkill builds a skill from its "name" and "skills" level list.
//
// Postcondition: Levels is non-nil and ordered as in the source list.
func BuildSkill(c *Context, m *sval.Mapping) (*Skill, error) {
	f := c.read(m)
	s := &Skill{Name: f.String("name", ""), Levels: []SkillLevel{}}
	if err := f.Err(); err != nil {
		return nil, err
	}
	v, ok := m.Get("skills")
	if !ok {
		return s, nil
	}
	list, ok := v.(sval.List)
	if !ok {
		return nil, &FieldError{Key: "skills", Want: "array", Got: v.Kind()}
	}
	for i, elem := range list {
		lm, ok := elem.(*sval.Mapping)
		if !ok {
			return nil, &FieldError{Key: fmt.Sprintf("skills[%d]", i), Want: "dict", Got: elem.Kind()}
		}
		level, err := c.ClassToSkillLevel(lm)
		if err != nil {
			return nil, fmt.Errorf("skill %q level %d: %w", s.Name, i, err)
		}
		s.Levels = append(s.Levels, level)
	}
	return s, nil
}

// ActiveSkill holds the costs shared by every triggered skill level.
type ActiveSkill struct {
	SkillBase
	Cooldown    int  `json:"cooldown"`
	ManaCost    int  `json:"manaCost"`
	StaminaCost int  `json:"staminaCost"`
	HealthCost  int  `json:"healthCost"`
	Blocking    bool `json:"blocking"`
}

// Costs returns the shared active fields.
func (a ActiveSkill) Costs() ActiveSkill { return a }

// ActiveSkillLevel is a skill level that is triggered and has costs.
type ActiveSkillLevel interface {
	SkillLevel
	Costs() ActiveSkill
}

func readActive(r *reader) ActiveSkill {
	return ActiveSkill{
		SkillBase:   SkillBase{r.base()},
		Cooldown:    r.Int("cooldown", 1000),
		ManaCost:    r.Int("mana-cost", 0),
		StaminaCost: r.Int("stamina-cost", 0),
		HealthCost:  r.Int("health-cost", 0),
		Blocking:    r.Bool("blocking", false),
	}
}

// Juggernaut applies effects while charging through enemies.
type Juggernaut struct {
	SkillBase
	Cooldown int      `json:"cooldown"`
	Effects  []Effect `json:"effects"`
}

// PassiveSkill grants modifiers permanently.
type PassiveSkill struct {
	SkillBase
	Modifiers []Modifier `json:"modifiers"`
}

// ScorchedEarth leaves units behind the player.
type ScorchedEarth struct {
	SkillBase
	DurationMul float64 `json:"durationMul"`
	Unit        Unit    `json:"unit"`
}

// Shatter triggers actions when an event fires and the target is below RequiredHp.
type Shatter struct {
	SkillBase
	Chance     float64  `json:"chance"`
	Trigger    string   `json:"trigger"`
	RequiredHp float64  `json:"requiredHp"`
	Actions    []Action `json:"actions"`
}

// Stormlash chains lightning from hits.
type Stormlash struct {
	SkillBase
	Chance    float64 `json:"chance"`
	Intensity float64 `json:"intensity"`
}

// TwinnedArrow has a chance to fire a second projectile.
type TwinnedArrow struct {
	SkillBase
	Chance float64 `json:"chance"`
}

// CelestialOrbs circles orbs around the player that apply effects.
type CelestialOrbs struct {
	SkillBase
	NumOrbs        int      `json:"numOrbs"`
	EffectInterval int      `json:"effectInterval"`
	Effects        []Effect `json:"effects"`
}

// StackSkill accumulates stacks up to MaxStacks.
type StackSkill struct {
	SkillBase
	MaxStacks int `json:"maxStacks"`
}

func readStack(r *reader) StackSkill {
	return StackSkill{SkillBase: SkillBase{r.base()}, MaxStacks: r.Int("max-stacks", 0)}
}

// StackDamage adds magic damage per stack.
type StackDamage struct {
	StackSkill
	MagicDamage int `json:"magicDamage"`
}

// StackProtection scales damage taken per stack.
type StackProtection struct {
	StackSkill
	DamageTakenMultiplier float64 `json:"damageTakenMultiplier"`
}

// StackEvasion grants evasion stacks that recharge over time.
type StackEvasion struct {
	StackSkill
	Recharge int     `json:"recharge"`
	Chance   float64 `json:"chance"`
}

// Fervor grants speed and evasion per stack.
type Fervor struct {
	StackSkill
	StackSpeed   float64 `json:"stackSpeed"`
	StackEvasion float64 `json:"stackEvasion"`
}

// ManaShield absorbs damage with mana.
type ManaShield struct {
	SkillBase
	ShieldDistr         float64 `json:"shieldDistr"`
	ShieldDamagePerMana float64 `json:"shieldDamagePerMana"`
}

// ExtendedDomain scales the range of other skills.
type ExtendedDomain struct {
	SkillBase
	RangeMultiplier float64    `json:"rangeMultiplier"`
	Modifiers       []Modifier `json:"modifiers"`
}

// BuffAoe periodically applies a buff around the player while active.
type BuffAoe struct {
	ActiveSkill
	ActiveTime int        `json:"activeTime"`
	Buff       *Buff      `json:"buff"`
	Interval   int        `json:"interval"`
	Modifiers  []Modifier `json:"modifiers"`
}

// Charge dashes forward.
type Charge struct {
	ActiveSkill
}

// ChargeUnit releases a unit after charging up to ChargeMax milliseconds.
type ChargeUnit struct {
	ActiveSkill
	ChargeMax int  `json:"chargeMax"`
	HoldFrame int  `json:"holdFrame"`
	Unit      Unit `json:"unit"`
}

// DropEffect applies effects at the player's position.
type DropEffect struct {
	ActiveSkill
	SelfDamage  float64  `json:"selfDamage"`
	TeamDamage  float64  `json:"teamDamage"`
	EnemyDamage float64  `json:"enemyDamage"`
	Effects     []Effect `json:"effects"`
}

// DropUnit places a unit, keeping at most MaxCount alive.
type DropUnit struct {
	ActiveSkill
	Unit     Unit `json:"unit"`
	MaxCount int  `json:"maxCount"`
}

// DropUnitWarlock is the warlock's DropUnit.
type DropUnitWarlock struct {
	DropUnit
}

// ExplodeSkill applies effects around the player and self effects to the player.
type ExplodeSkill struct {
	ActiveSkill
	Effects     []Effect `json:"effects"`
	SelfEffects []Effect `json:"selfEffects"`
}

// MeleeSwing applies effects to enemies in the swing arc.
type MeleeSwing struct {
	ActiveSkill
	Effects []Effect `json:"effects"`
}

// ShootProjectileSkill fires Projectiles copies of a projectile.
type ShootProjectileSkill struct {
	ActiveSkill
	Projectile  Unit `json:"projectile"`
	Projectiles int  `json:"projectiles"`
}

// ShootProjectileFanSkill fires projectiles spread over an arc.
type ShootProjectileFanSkill struct {
	ShootProjectileSkill
}

// ShootRay triggers actions along a ray.
type ShootRay struct {
	ActiveSkill
	Actions []Action `json:"actions"`
}

// SpawnUnitSkill spawns a unit.
type SpawnUnitSkill struct {
	ActiveSkill
	Unit Unit `json:"unit"`
}

// SpewProjectiles fires a stream of projectiles.
type SpewProjectiles struct {
	ActiveSkill
	Projectile     Unit     `json:"projectile"`
	Projectiles    int      `json:"projectiles"`
	Interval       int      `json:"interval"`
	SpewInterval   int      `json:"spewInterval"`
	EffectInterval int      `json:"effectInterval"`
	Effects        []Effect `json:"effects"`
}

// StaggeredSpawnUnits spawns one unit per configured position.
type StaggeredSpawnUnits struct {
	ActiveSkill
	Unit  Unit `json:"unit"`
	Count int  `json:"count"`
}

// TempBuffAoe applies one buff to enemies and another to allies while active.
type TempBuffAoe struct {
	ActiveSkill
	Buff       *Buff      `json:"buff"`
	BuffTeam   *Buff      `json:"buffTeam"`
	Interval   int        `json:"interval"`
	ActiveTime int        `json:"activeTime"`
	Modifiers  []Modifier `json:"modifiers"`
}

// Whirlnova fires projectiles in a spiral for Duration milliseconds.
type Whirlnova struct {
	ActiveSkill
	Duration      int `json:"duration"`
	ProjDelay     int `json:"projDelay"`
	PerRevolution int `json:"perRevolution"`
}

func readWhirlnova(r *reader) Whirlnova {
	return Whirlnova{
		ActiveSkill:   readActive(r),
		Duration:      r.Int("duration", 0),
		ProjDelay:     r.Int("proj-delay", 33),
		PerRevolution: r.Int("per-revolution", 16),
	}
}

// ArrowFlurry is the ranger's Whirlnova.
type ArrowFlurry struct {
	Whirlnova
}

// Whirlwind applies effects around the player every Frequency milliseconds.
type Whirlwind struct {
	ActiveSkill
	Effects   []Effect `json:"effects"`
	Duration  int      `json:"duration"`
	Frequency int      `json:"frequency"`
}

// ShootBeam applies effects to enemies and team effects to allies along a beam.
type ShootBeam struct {
	ActiveSkill
	Effects     []Effect `json:"effects"`
	TeamEffects []Effect `json:"teamEffects"`
	Interval    int      `json:"interval"`
	BuildupTime int      `json:"buildupTime"`
}

// GrappleHook pulls the player to the first target hit.
type GrappleHook struct {
	ActiveSkill
	Effects    []Effect `json:"effects"`
	HitEffects []Effect `json:"hitEffects"`
	Speed      float64  `json:"speed"`
	Range      float64  `json:"range"`
}

func readShootProjectileSkill(r *reader) ShootProjectileSkill {
	return ShootProjectileSkill{
		ActiveSkill: readActive(r),
		Projectile:  r.Unit("projectile"),
		Projectiles: r.Int("projectiles", 1),
	}
}

func readDropUnit(r *reader) DropUnit {
	return DropUnit{
		ActiveSkill: readActive(r),
		Unit:        r.Unit("unit"),
		MaxCount:    r.Int("max-count", 0),
	}
}

func skillRegistry() *Registry[SkillLevel] {
	r := NewRegistry[SkillLevel]("skill")
	reg := func(name string, read func(*reader) SkillLevel) {
		r.Register("Skills::"+name, func(c *Context, m *sval.Mapping) (SkillLevel, error) {
			f := c.read(m)
			s := read(f)
			if err := f.Err(); err != nil {
				return nil, err
			}
			return s, nil
		})
	}

	reg("Juggernaut", func(f *reader) SkillLevel {
		return &Juggernaut{
			SkillBase: SkillBase{f.base()},
			Cooldown:  f.Int("cooldown", 1000),
			Effects:   f.Effects(""),
		}
	})
	reg("PassiveSkill", func(f *reader) SkillLevel {
		return &PassiveSkill{SkillBase: SkillBase{f.base()}, Modifiers: f.Modifiers("")}
	})
	reg("ScorchedEarth", func(f *reader) SkillLevel {
		return &ScorchedEarth{
			SkillBase:   SkillBase{f.base()},
			DurationMul: f.Float("duration-mul", 1),
			Unit:        f.Unit("unit"),
		}
	})
	reg("Shatter", func(f *reader) SkillLevel {
		return &Shatter{
			SkillBase:  SkillBase{f.base()},
			Chance:     f.Float("chance", 0.5),
			Trigger:    f.String("trigger", "kill"),
			RequiredHp: f.Float("required-hp", 1),
			Actions:    f.Actions(""),
		}
	})
	reg("Stormlash", func(f *reader) SkillLevel {
		return &Stormlash{
			SkillBase: SkillBase{f.base()},
			Chance:    f.Float("chance", 1),
			Intensity: f.Float("intensity", 0.5),
		}
	})
	reg("TwinnedArrow", func(f *reader) SkillLevel {
		return &TwinnedArrow{SkillBase: SkillBase{f.base()}, Chance: f.Float("chance", 0.1)}
	})
	reg("CelestialOrbs", func(f *reader) SkillLevel {
		return &CelestialOrbs{
			SkillBase:      SkillBase{f.base()},
			NumOrbs:        f.Int("num-orbs", 0),
			EffectInterval: f.Int("effect-interval", 0),
			Effects:        f.Effects(""),
		}
	})
	reg("StackSkill", func(f *reader) SkillLevel {
		s := readStack(f)
		return &s
	})
	reg("StackDamage", func(f *reader) SkillLevel {
		return &StackDamage{StackSkill: readStack(f), MagicDamage: f.Int("magic-damage", 0)}
	})
	reg("StackProtection", func(f *reader) SkillLevel {
		return &StackProtection{
			StackSkill:            readStack(f),
			DamageTakenMultiplier: f.Float("dmg-taken-mul", 0),
		}
	})
	reg("StackEvasion", func(f *reader) SkillLevel {
		return &StackEvasion{
			StackSkill: readStack(f),
			Recharge:   f.Int("recharge", 1000),
			Chance:     f.Float("chance", 1),
		}
	})
	reg("Fervor", func(f *reader) SkillLevel {
		return &Fervor{
			StackSkill:   readStack(f),
			StackSpeed:   f.Float("stack-speed", 0),
			StackEvasion: f.Float("stack-evasion", 0),
		}
	})
	reg("ManaShield", func(f *reader) SkillLevel {
		return &ManaShield{
			SkillBase:           SkillBase{f.base()},
			ShieldDistr:         f.Float("shield-distr", 0),
			ShieldDamagePerMana: f.Float("shield-dmg-per-mana", 0),
		}
	})
	reg("ExtendedDomain", func(f *reader) SkillLevel {
		return &ExtendedDomain{
			SkillBase:       SkillBase{f.base()},
			RangeMultiplier: f.Float("range-mul", 1),
			Modifiers:       f.Modifiers(""),
		}
	})
	reg("BuffAoe", func(f *reader) SkillLevel {
		return &BuffAoe{
			ActiveSkill: readActive(f),
			ActiveTime:  f.Int("active-time", 0),
			Buff:        f.Buff("buff"),
			Interval:    f.Int("interval", 0),
			Modifiers:   f.Modifiers(""),
		}
	})
	reg("Charge", func(f *reader) SkillLevel {
		return &Charge{ActiveSkill: readActive(f)}
	})
	reg("ChargeUnit", func(f *reader) SkillLevel {
		return &ChargeUnit{
			ActiveSkill: readActive(f),
			ChargeMax:   f.Int("charge-max", 2000),
			HoldFrame:   f.Int("hold-frame", -1),
			Unit:        f.Unit("unit"),
		}
	})
	reg("DropEffect", func(f *reader) SkillLevel {
		return &DropEffect{
			ActiveSkill: readActive(f),
			SelfDamage:  f.Float("self-dmg", 0),
			TeamDamage:  f.Float("team-dmg", 0),
			EnemyDamage: f.Float("enemy-dmg", 0),
			Effects:     f.Effects(""),
		}
	})
	reg("DropUnit", func(f *reader) SkillLevel {
		d := readDropUnit(f)
		return &d
	})
	reg("DropUnitWarlock", func(f *reader) SkillLevel {
		return &DropUnitWarlock{DropUnit: readDropUnit(f)}
	})
	reg("Explode", func(f *reader) SkillLevel {
		return &ExplodeSkill{
			ActiveSkill: readActive(f),
			Effects:     f.Effects(""),
			SelfEffects: f.Effects("self-"),
		}
	})
	reg("MeleeSwing", func(f *reader) SkillLevel {
		return &MeleeSwing{ActiveSkill: readActive(f), Effects: f.Effects("")}
	})
	reg("ShootProjectile", func(f *reader) SkillLevel {
		s := readShootProjectileSkill(f)
		return &s
	})
	reg("ShootProjectileFan", func(f *reader) SkillLevel {
		return &ShootProjectileFanSkill{ShootProjectileSkill: readShootProjectileSkill(f)}
	})
	reg("ShootRay", func(f *reader) SkillLevel {
		return &ShootRay{ActiveSkill: readActive(f), Actions: f.Actions("")}
	})
	reg("SpawnUnit", func(f *reader) SkillLevel {
		return &SpawnUnitSkill{ActiveSkill: readActive(f), Unit: f.Unit("unit")}
	})
	reg("SpewProjectiles", func(f *reader) SkillLevel {
		return &SpewProjectiles{
			ActiveSkill:    readActive(f),
			Projectile:     f.Unit("projectile"),
			Projectiles:    f.Int("projectiles", 1),
			Interval:       f.Int("interval", 100),
			SpewInterval:   f.Int("spew-interval", 30),
			EffectInterval: f.Int("effect-interval", 1000),
			Effects:        f.Effects(""),
		}
	})
	reg("StaggeredSpawnUnits", func(f *reader) SkillLevel {
		return &StaggeredSpawnUnits{
			ActiveSkill: readActive(f),
			Unit:        f.Unit("unit"),
			Count:       f.Count("positions"),
		}
	})
	reg("TempBuffAoe", func(f *reader) SkillLevel {
		return &TempBuffAoe{
			ActiveSkill: readActive(f),
			Buff:        f.Buff("buff"),
			BuffTeam:    f.Buff("buff-team"),
			Interval:    f.Int("interval", 0),
			ActiveTime:  f.Int("active-time", 0),
			Modifiers:   f.Modifiers(""),
		}
	})
	reg("Whirlnova", func(f *reader) SkillLevel {
		w := readWhirlnova(f)
		return &w
	})
	reg("ArrowFlurry", func(f *reader) SkillLevel {
		return &ArrowFlurry{Whirlnova: readWhirlnova(f)}
	})
	reg("Whirlwind", func(f *reader) SkillLevel {
		return &Whirlwind{
			ActiveSkill: readActive(f),
			Effects:     f.Effects(""),
			Duration:    f.Int("duration", 0),
			Frequency:   f.Int("frequency", 0),
		}
	})
	reg("ShootBeam", func(f *reader) SkillLevel {
		return &ShootBeam{
			ActiveSkill: readActive(f),
			Effects:     f.Effects(""),
			TeamEffects: f.Effects("team-"),
			Interval:    f.Int("interval", 100),
			BuildupTime: f.Int("buildup-time", 1000),
		}
	})
	reg("GrappleHook", func(f *reader) SkillLevel {
		return &GrappleHook{
			ActiveSkill: readActive(f),
			Effects:     f.Effects(""),
			HitEffects:  f.Effects("hit-"),
			Speed:       f.Float("speed", 3),
			Range:       f.Float("range", 10),
		}
	})
	return r
}
