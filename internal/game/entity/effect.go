package entity

import "github.com/cory-johannsen/hwextract/internal/sval"

// Damage deals physical and magical damage, scaled by the target's armor and
// resistance multipliers. Older data names the physical amount "dmg".
type Damage struct {
	EffectBase
	Physical      int     `json:"physical"`
	Magical       int     `json:"magical"`
	ArmorMul      float64 `json:"armorMul"`
	ResistanceMul float64 `json:"resistanceMul"`
	Melee         bool    `json:"melee"`
	TrueStrike    bool    `json:"trueStrike"`
}

func readDamage(r *reader) Damage {
	return Damage{
		EffectBase:    EffectBase{r.base()},
		Physical:      r.Int("physical", r.Int("dmg", 0)),
		Magical:       r.Int("magical", 0),
		ArmorMul:      r.Float("armor-mul", 1),
		ResistanceMul: r.Float("resistance-mul", 1),
		Melee:         r.Bool("melee", false),
		TrueStrike:    r.Bool("true-strike", false),
	}
}

// LifestealDamage is Damage that returns a share of the dealt damage as health
// and mana.
type LifestealDamage struct {
	Damage
	Lifesteal float64 `json:"lifesteal"`
	Manasteal float64 `json:"manasteal"`
}

// BogusDamage is Damage shown to the player but never applied.
type BogusDamage struct {
	Damage
}

// Decimate removes a fraction of the target's current health and mana, capped
// by the max fields.
type Decimate struct {
	EffectBase
	Amount    float64 `json:"amount"`
	AmountMax int     `json:"amountMax"`
	Mana      float64 `json:"mana"`
	ManaMax   int     `json:"manaMax"`
}

// GiveMana restores mana.
type GiveMana struct {
	EffectBase
	Mana int `json:"mana"`
}

// Heal restores health.
type Heal struct {
	EffectBase
	Heal int `json:"heal"`
}

// ApplyBuff applies a shared buff to the target.
type ApplyBuff struct {
	EffectBase
	Buff *Buff `json:"buff"`
}

// ExplodeEffect applies effects to every actor in range, with damage
// multipliers per relation to the source.
type ExplodeEffect struct {
	EffectBase
	Radius      int      `json:"radius"`
	SelfDamage  float64  `json:"selfDamage"`
	TeamDamage  float64  `json:"teamDamage"`
	EnemyDamage float64  `json:"enemyDamage"`
	Effects     []Effect `json:"effects"`
}

func readExplode(r *reader) ExplodeEffect {
	return ExplodeEffect{
		EffectBase:  EffectBase{r.base()},
		Radius:      r.Int("radius", 0),
		SelfDamage:  r.Float("self-damage", 0),
		TeamDamage:  r.Float("team-damage", 0),
		EnemyDamage: r.Float("enemy-damage", 0),
		Effects:     r.Effects(""),
	}
}

// ExplodeChainLimit is an explosion that stops chaining after Limit hops.
type ExplodeChainLimit struct {
	ExplodeEffect
	Limit int `json:"limit"`
}

// ScorchEarth leaves a trail of units. It is both an effect and an action.
type ScorchEarth struct {
	Base
	Unit     Unit `json:"unit"`
	Interval int  `json:"interval"`
	Distance int  `json:"distance"`
}

func (ScorchEarth) isEffect() {}
func (ScorchEarth) isAction() {}

func readScorchEarth(r *reader) ScorchEarth {
	return ScorchEarth{
		Base:     r.base(),
		Unit:     r.Unit("unit"),
		Interval: r.Int("interval", 100),
		Distance: r.Int("dist", 0),
	}
}

// PlaySound plays a sound at the target.
type PlaySound struct {
	EffectBase
	Sound string `json:"sound"`
}

// SpawnEffect spawns a visual effect at the target.
type SpawnEffect struct {
	EffectBase
	Effect string `json:"effect"`
}

// SpawnUnitEffect spawns a unit at the target.
type SpawnUnitEffect struct {
	EffectBase
	Unit      Unit `json:"unit"`
	SafeSpawn bool `json:"safeSpawn"`
}

// ToggleCombustion toggles the combustion state of the target.
type ToggleCombustion struct {
	EffectBase
}

// KillSameType kills every other unit of the target's type.
type KillSameType struct {
	EffectBase
}

// GiveCombo adds to the player's combo counter.
type GiveCombo struct {
	EffectBase
	Amount int `json:"amount"`
}

// ShootProjectileEffect fires projectiles from the target.
type ShootProjectileEffect struct {
	EffectBase
	Projectile  Unit `json:"projectile"`
	Projectiles int  `json:"projectiles"`
	Spread      int  `json:"spread"`
}

func readShootProjectileEffect(r *reader) ShootProjectileEffect {
	return ShootProjectileEffect{
		EffectBase:  EffectBase{r.base()},
		Projectile:  r.Unit("projectile"),
		Projectiles: r.Int("projectiles", 1),
		Spread:      r.Int("spread", 0),
	}
}

// ShootProjectileFanEffect fires projectiles spread evenly over an arc.
type ShootProjectileFanEffect struct {
	ShootProjectileEffect
}

// ShootBolt strikes the nearest enemy within range with effects.
type ShootBolt struct {
	EffectBase
	Range   int      `json:"range"`
	Effects []Effect `json:"effects"`
}

func effectRegistry() *Registry[Effect] {
	r := NewRegistry[Effect]("effect")
	r.Register("Damage", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		d := readDamage(f)
		return &d, f.Err()
	})
	r.Register("LifestealDamage", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		return &LifestealDamage{
			Damage:    readDamage(f),
			Lifesteal: f.Float("lifesteal", 0),
			Manasteal: f.Float("manasteal", 0),
		}, f.Err()
	})
	r.Register("BogusDamage", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		return &BogusDamage{Damage: readDamage(f)}, f.Err()
	})
	r.Register("Decimate", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		return &Decimate{
			EffectBase: EffectBase{f.base()},
			Amount:     f.Float("amount", 0),
			AmountMax:  f.Int("amount-max", 0),
			Mana:       f.Float("mana", 0),
			ManaMax:    f.Int("mana-max", 0),
		}, f.Err()
	})
	r.Register("GiveMana", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		return &GiveMana{EffectBase: EffectBase{f.base()}, Mana: f.Int("mana", 0)}, f.Err()
	})
	r.Register("Heal", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		return &Heal{EffectBase: EffectBase{f.base()}, Heal: f.Int("heal", 0)}, f.Err()
	})
	r.Register("ApplyBuff", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		return &ApplyBuff{EffectBase: EffectBase{f.base()}, Buff: f.Buff("buff")}, f.Err()
	})
	r.Register("Explode", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		e := readExplode(f)
		return &e, f.Err()
	})
	r.Register("ExplodeChainLimit", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		return &ExplodeChainLimit{ExplodeEffect: readExplode(f), Limit: f.Int("limit", 1)}, f.Err()
	})
	r.Register("Skills::ScorchEarth", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		s := readScorchEarth(f)
		return &s, f.Err()
	})
	r.Register("PlaySound", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		return &PlaySound{EffectBase: EffectBase{f.base()}, Sound: f.String("sound", "")}, f.Err()
	})
	r.Register("SpawnEffect", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		return &SpawnEffect{EffectBase: EffectBase{f.base()}, Effect: f.String("effect", "")}, f.Err()
	})
	r.Register("SpawnUnit", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		return &SpawnUnitEffect{
			EffectBase: EffectBase{f.base()},
			Unit:       f.Unit("unit"),
			SafeSpawn:  f.Bool("safe-spawn", false),
		}, f.Err()
	})
	r.Register("ToggleCombustion", func(c *Context, m *sval.Mapping) (Effect, error) {
		return &ToggleCombustion{EffectBase: EffectBase{c.read(m).base()}}, nil
	})
	r.Register("KillSameType", func(c *Context, m *sval.Mapping) (Effect, error) {
		return &KillSameType{EffectBase: EffectBase{c.read(m).base()}}, nil
	})
	r.Register("GiveCombo", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		return &GiveCombo{EffectBase: EffectBase{f.base()}, Amount: f.Int("amount", 1)}, f.Err()
	})
	r.Register("ShootProjectile", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		s := readShootProjectileEffect(f)
		return &s, f.Err()
	})
	r.Register("ShootProjectileFan", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		return &ShootProjectileFanEffect{ShootProjectileEffect: readShootProjectileEffect(f)}, f.Err()
	})
	r.Register("ShootBolt", func(c *Context, m *sval.Mapping) (Effect, error) {
		f := c.read(m)
		return &ShootBolt{
			EffectBase: EffectBase{f.base()},
			Range:      f.Int("range", 10),
			Effects:    f.Effects(""),
		}, f.Err()
	})
	r.Declare("Knockback")
	r.Declare("PlayEffect")
	return r
}
