package entity

import "github.com/cory-johannsen/hwextract/internal/sval"

// ProjectileBase holds the movement fields shared by every projectile.
type ProjectileBase struct {
	UnitBase
	Penetrating      bool    `json:"penetrating"`
	Seeking          bool    `json:"seeking"`
	SeekingTurnspeed float64 `json:"seekingTurnspeed"`
	Speed            float64 `json:"speed"`
	SpeedDelta       float64 `json:"speedDelta"`
	SpeedDeltaMax    float64 `json:"speedDeltaMax"`
	Blockable        bool    `json:"blockable"`
	EffectParams     any     `json:"effectParams,omitempty"`
}

// Motion returns the shared projectile fields.
func (p ProjectileBase) Motion() ProjectileBase { return p }

// ProjectileUnit is a unit behavior that moves as a projectile.
type ProjectileUnit interface {
	Unit
	Motion() ProjectileBase
}

func readProjectileBase(r *reader) ProjectileBase {
	return ProjectileBase{
		UnitBase:         UnitBase{r.base()},
		Penetrating:      r.Bool("penetrating", false),
		Seeking:          r.Bool("seeking", false),
		SeekingTurnspeed: r.Float("seeking-turnspeed", 0.07),
		Speed:            r.Float("speed", 0),
		SpeedDelta:       r.Float("speed-delta", 0),
		SpeedDeltaMax:    r.Float("speed-delta-max", 0),
		Blockable:        r.Bool("blockable", false),
		EffectParams:     r.Native("effect-params"),
	}
}

// Projectile flies for TTL milliseconds or Range units and applies effects on hit.
type Projectile struct {
	ProjectileBase
	TTL        int      `json:"ttl"`
	Range      int      `json:"range"`
	SelfDamage float64  `json:"selfDamage"`
	TeamDamage float64  `json:"teamDamage"`
	Effects    []Effect `json:"effects"`
}

// RayProjectile is an instant projectile that may bounce and penetrate.
type RayProjectile struct {
	ProjectileBase
	Effects                        []Effect `json:"effects"`
	SelfDamage                     float64  `json:"selfDamage"`
	TeamDamage                     float64  `json:"teamDamage"`
	Bounces                        int      `json:"bounces"`
	PenetrationIntensityMultiplier float64  `json:"penetrationIntensityMultiplier"`
	PenetrateAll                   bool     `json:"penetrateAll"`
}

func readRay(r *reader) RayProjectile {
	return RayProjectile{
		ProjectileBase:                 readProjectileBase(r),
		Effects:                        r.Effects(""),
		SelfDamage:                     r.Float("self-dmg", 0),
		TeamDamage:                     r.Float("team-dmg", 0),
		Bounces:                        r.Int("bounces", 0),
		PenetrationIntensityMultiplier: r.Float("penetration-intensity-mul", 1),
		PenetrateAll:                   r.Bool("penetrate-all", false),
	}
}

// PowershotProjectile scales speed, penetration, range and intensity with charge.
type PowershotProjectile struct {
	RayProjectile
	SpeedMin           float64 `json:"speedMin"`
	SpeedMax           float64 `json:"speedMax"`
	PenetrationMin     float64 `json:"penetrationMin"`
	PenetrationMax     float64 `json:"penetrationMax"`
	RangeMin           float64 `json:"rangeMin"`
	RangeMax           float64 `json:"rangeMax"`
	EffectIntensityMin float64 `json:"effectIntensityMin"`
	EffectIntensityMax float64 `json:"effectIntensityMax"`
}

// RangerProjectile is the ranger's ray projectile.
type RangerProjectile struct {
	RayProjectile
}

// SorcererProjectile extends its lifetime with speed.
type SorcererProjectile struct {
	RayProjectile
	SpeedTTLAdd float64 `json:"speedTtlAdd"`
}

// SorcererOrbProjectile fires sub-projectiles every ProjectileDelay milliseconds
// after an initial Delay.
type SorcererOrbProjectile struct {
	RayProjectile
	Delay           int `json:"delay"`
	ProjectileDelay int `json:"projectileDelay"`
}

// BoltShooter fires Bolts lightning bolts over TTL milliseconds.
type BoltShooter struct {
	UnitBase
	TTL                   int      `json:"ttl"`
	Bolts                 int      `json:"bolts"`
	UseStormlash          bool     `json:"useStormlash"`
	ConsecutiveMultiplier float64  `json:"consecutiveMultiplier"`
	Effects               []Effect `json:"effects"`
	LinkEffects           []Effect `json:"linkEffects"`
}

// BombBehavior triggers actions after Delay.
type BombBehavior struct {
	UnitBase
	Team        string   `json:"team"`
	Delay       int      `json:"delay"`
	DelayRandom bool     `json:"delayRandom"`
	Actions     []Action `json:"actions"`
}

// DangerAreaBehavior applies effects to actors in the area every Frequency milliseconds.
type DangerAreaBehavior struct {
	UnitBase
	Frequency   int      `json:"frequency"`
	ActorFilter int      `json:"actorFilter"`
	TTL         int      `json:"ttl"`
	SelfDamage  float64  `json:"selfDamage"`
	TeamDamage  float64  `json:"teamDamage"`
	Effects     []Effect `json:"effects"`
}

// PriestGroundCircle damages enemies and heals allies inside a circle.
type PriestGroundCircle struct {
	UnitBase
	Interval  int     `json:"interval"`
	Damage    int     `json:"damage"`
	TTL       int     `json:"ttl"`
	HealScale float64 `json:"healScale"`
}

// GargoyleSpawner spawns a bolt unit and an area unit after Delay.
type GargoyleSpawner struct {
	UnitBase
	Delay    int  `json:"delay"`
	UnitBolt Unit `json:"unitBolt"`
	UnitArea Unit `json:"unitArea"`
}

func unitRegistry() *Registry[Unit] {
	r := NewRegistry[Unit]("unit")
	reg := func(class string, read func(*reader) Unit) {
		r.Register(class, func(c *Context, m *sval.Mapping) (Unit, error) {
			f := c.read(m)
			u := read(f)
			if err := f.Err(); err != nil {
				return nil, err
			}
			return u, nil
		})
	}

	reg("Projectile", func(f *reader) Unit {
		return &Projectile{
			ProjectileBase: readProjectileBase(f),
			TTL:            f.Int("ttl", 5000),
			Range:          f.Int("range", -1),
			SelfDamage:     f.Float("self-dmg", 0),
			TeamDamage:     f.Float("team-dmg", 0),
			Effects:        f.Effects(""),
		}
	})
	reg("RayProjectile", func(f *reader) Unit {
		p := readRay(f)
		return &p
	})
	reg("PowershotProjectile", func(f *reader) Unit {
		return &PowershotProjectile{
			RayProjectile:      readRay(f),
			SpeedMin:           f.Float("speed-min", 0),
			SpeedMax:           f.Float("speed-max", 0),
			PenetrationMin:     f.Float("penetration-min", 0),
			PenetrationMax:     f.Float("penetration-max", 0),
			RangeMin:           f.Float("range-min", 0),
			RangeMax:           f.Float("range-max", 0),
			EffectIntensityMin: f.Float("effect-intensity-min", 0),
			EffectIntensityMax: f.Float("effect-intensity-max", 0),
		}
	})
	reg("RangerProjectile", func(f *reader) Unit {
		return &RangerProjectile{RayProjectile: readRay(f)}
	})
	reg("SorcererProjectile", func(f *reader) Unit {
		return &SorcererProjectile{RayProjectile: readRay(f), SpeedTTLAdd: f.Float("speed-ttl-add", 0)}
	})
	reg("SorcererOrbProjectile", func(f *reader) Unit {
		return &SorcererOrbProjectile{
			RayProjectile:   readRay(f),
			Delay:           f.Int("delay", 500),
			ProjectileDelay: f.Int("projectile-delay", 40),
		}
	})
	reg("BoltShooter", func(f *reader) Unit {
		return &BoltShooter{
			UnitBase:              UnitBase{f.base()},
			TTL:                   f.Int("ttl", 2000),
			Bolts:                 f.Int("bolts", 5),
			UseStormlash:          f.Bool("use-stormlash", true),
			ConsecutiveMultiplier: f.Float("consecutive-mul", 1),
			Effects:               f.Effects(""),
			LinkEffects:           f.Effects("link-"),
		}
	})
	reg("BombBehavior", func(f *reader) Unit {
		return &BombBehavior{
			UnitBase:    UnitBase{f.base()},
			Team:        f.String("team", "enemy"),
			Delay:       f.Int("delay", 5),
			DelayRandom: f.Bool("delay-random", true),
			Actions:     f.Actions(""),
		}
	})
	reg("DangerAreaBehavior", func(f *reader) Unit {
		return &DangerAreaBehavior{
			UnitBase:    UnitBase{f.base()},
			Frequency:   f.Int("frequency", 500),
			ActorFilter: f.Int("actor-filter", 71),
			TTL:         f.Int("ttl", 1000),
			SelfDamage:  f.Float("self-dmg", 0),
			TeamDamage:  f.Float("team-dmg", 0),
			Effects:     f.Effects(""),
		}
	})
	reg("PriestGroundCircle", func(f *reader) Unit {
		return &PriestGroundCircle{
			UnitBase:  UnitBase{f.base()},
			Interval:  f.Int("interval", 0),
			Damage:    f.Int("damage", 0),
			TTL:       f.Int("ttl", 0),
			HealScale: f.Float("heal-scale", 0),
		}
	})
	reg("GargoyleSpawner", func(f *reader) Unit {
		return &GargoyleSpawner{
			UnitBase: UnitBase{f.base()},
			Delay:    f.Int("delay", 0),
			UnitBolt: f.Unit("unit-bolt"),
			UnitArea: f.Unit("unit-area"),
		}
	})
	return r
}
