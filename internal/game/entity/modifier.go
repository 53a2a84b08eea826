package entity

import "github.com/cory-johannsen/hwextract/internal/sval"

// BlockProjectile blocks incoming projectiles with a chance.
type BlockProjectile struct {
	ModifierBase
	Chance float64 `json:"chance"`
}

// TriggerEffect applies effects when its trigger event fires.
type TriggerEffect struct {
	ModifierBase
	Trigger     string   `json:"trigger"`
	Chance      float64  `json:"chance"`
	Timeout     int      `json:"timeout"`
	Effects     []Effect `json:"effects"`
	SelfEffects []Effect `json:"selfEffects"`
}

// HealthGain grants health and mana on kill.
type HealthGain struct {
	ModifierBase
	Health int `json:"health"`
	Mana   int `json:"mana"`
}

// WarlockCleaverModifier applies effects to enemies near a melee hit.
type WarlockCleaverModifier struct {
	ModifierBase
	Chance  float64  `json:"chance"`
	Effects []Effect `json:"effects"`
}

// FlameShield periodically applies effects around the wearer.
type FlameShield struct {
	ModifierBase
	Interval int      `json:"interval"`
	Radius   int      `json:"radius"`
	Effects  []Effect `json:"effects"`
}

// CleaveRange extends melee reach.
type CleaveRange struct {
	ModifierBase
	Range float64 `json:"range"`
}

// Combo configures the combo counter.
type Combo struct {
	ModifierBase
	ComboTime  int      `json:"comboTime"`
	ComboCount int      `json:"comboCount"`
	Effects    []Effect `json:"effects"`
}

// StatsBase adds flat amounts to base stats.
type StatsBase struct {
	ModifierBase
	Health      int     `json:"health"`
	Mana        int     `json:"mana"`
	HealthRegen float64 `json:"healthRegen"`
	ManaRegen   float64 `json:"manaRegen"`
	Speed       float64 `json:"speed"`
}

// Armor adds to and scales armor and resistance.
type Armor struct {
	ModifierBase
	Armor         int     `json:"armor"`
	Resistance    int     `json:"resistance"`
	ArmorMul      float64 `json:"armorMul"`
	ResistanceMul float64 `json:"resistanceMul"`
}

// SpellCost scales the cost of active skills.
type SpellCost struct {
	ModifierBase
	ManaMul    float64 `json:"manaMul"`
	StaminaMul float64 `json:"staminaMul"`
	HealthMul  float64 `json:"healthMul"`
}

// Lifestealing returns a share of dealt damage as health and mana.
type Lifestealing struct {
	ModifierBase
	Lifesteal float64 `json:"lifesteal"`
	Manasteal float64 `json:"manasteal"`
}

// Aura applies a buff to actors in range.
type Aura struct {
	ModifierBase
	Buff         *Buff  `json:"buff"`
	Range        int    `json:"range"`
	Frequency    int    `json:"frequency"`
	MaintainTime int    `json:"maintainTime"`
	Team         string `json:"team"`
}

// HealthFilter enables nested modifiers while health is within [Min, Max].
type HealthFilter struct {
	ModifierBase
	Min       float64    `json:"min"`
	Max       float64    `json:"max"`
	Modifiers []Modifier `json:"modifiers"`
}

// CriticalHit adds a chance for attacks and spells to deal extra damage.
type CriticalHit struct {
	ModifierBase
	Chance      float64 `json:"chance"`
	Mul         float64 `json:"mul"`
	SpellChance float64 `json:"spellChance"`
	SpellMul    float64 `json:"spellMul"`
}

// Markham applies effects to marked targets.
type Markham struct {
	ModifierBase
	Chance  float64  `json:"chance"`
	Effects []Effect `json:"effects"`
}

// GoldGain scales gold pickups.
type GoldGain struct {
	ModifierBase
	Scale float64 `json:"scale"`
}

// Block reduces incoming damage by flat amounts.
type Block struct {
	ModifierBase
	Physical int `json:"physical"`
	Magical  int `json:"magical"`
}

// ManaFromDamageTaken converts a share of damage taken into mana.
type ManaFromDamageTaken struct {
	ModifierBase
	Scale float64 `json:"scale"`
}

// SealOfMartyr trades maximum health for damage.
type SealOfMartyr struct {
	ModifierBase
	HealthMul float64 `json:"healthMul"`
	DamageMul float64 `json:"damageMul"`
}

// SealOfMana trades maximum mana for damage.
type SealOfMana struct {
	ModifierBase
	ManaMul   float64 `json:"manaMul"`
	DamageMul float64 `json:"damageMul"`
}

// DamageModifier adds attack and spell power and scales dealt damage.
type DamageModifier struct {
	ModifierBase
	AttackPower float64 `json:"attackPower"`
	SpellPower  float64 `json:"spellPower"`
	DamageMul   float64 `json:"damageMul"`
}

func modifierRegistry() *Registry[Modifier] {
	r := NewRegistry[Modifier]("modifier")
	r.Register("BlockProjectile", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &BlockProjectile{ModifierBase: ModifierBase{f.base()}, Chance: f.Float("chance", 1)}, f.Err()
	})
	r.Register("TriggerEffect", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &TriggerEffect{
			ModifierBase: ModifierBase{f.base()},
			Trigger:      f.String("trigger", "hit"),
			Chance:       f.Float("chance", 1),
			Timeout:      f.Int("timeout", 0),
			Effects:      f.Effects(""),
			SelfEffects:  f.Effects("self-"),
		}, f.Err()
	})
	r.Register("HealthGain", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &HealthGain{
			ModifierBase: ModifierBase{f.base()},
			Health:       f.Int("health", 0),
			Mana:         f.Int("mana", 0),
		}, f.Err()
	})
	r.Register("WarlockCleaverModifier", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &WarlockCleaverModifier{
			ModifierBase: ModifierBase{f.base()},
			Chance:       f.Float("chance", 1),
			Effects:      f.Effects(""),
		}, f.Err()
	})
	r.Register("FlameShield", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &FlameShield{
			ModifierBase: ModifierBase{f.base()},
			Interval:     f.Int("interval", 1000),
			Radius:       f.Int("radius", 0),
			Effects:      f.Effects(""),
		}, f.Err()
	})
	r.Register("CleaveRange", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &CleaveRange{ModifierBase: ModifierBase{f.base()}, Range: f.Float("range", 0)}, f.Err()
	})
	r.Register("Combo", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &Combo{
			ModifierBase: ModifierBase{f.base()},
			ComboTime:    f.Int("combo-time", 0),
			ComboCount:   f.Int("combo-count", 0),
			Effects:      f.Effects(""),
		}, f.Err()
	})
	r.Register("StatsBase", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &StatsBase{
			ModifierBase: ModifierBase{f.base()},
			Health:       f.Int("health", 0),
			Mana:         f.Int("mana", 0),
			HealthRegen:  f.Float("health-regen", 0),
			ManaRegen:    f.Float("mana-regen", 0),
			Speed:        f.Float("speed", 0),
		}, f.Err()
	})
	r.Register("Armor", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &Armor{
			ModifierBase:  ModifierBase{f.base()},
			Armor:         f.Int("armor", 0),
			Resistance:    f.Int("resistance", 0),
			ArmorMul:      f.Float("armor-mul", 1),
			ResistanceMul: f.Float("resistance-mul", 1),
		}, f.Err()
	})
	r.Register("SpellCost", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &SpellCost{
			ModifierBase: ModifierBase{f.base()},
			ManaMul:      f.Float("mana-mul", 1),
			StaminaMul:   f.Float("stamina-mul", 1),
			HealthMul:    f.Float("health-mul", 1),
		}, f.Err()
	})
	r.Register("Lifestealing", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &Lifestealing{
			ModifierBase: ModifierBase{f.base()},
			Lifesteal:    f.Float("lifesteal", 0),
			Manasteal:    f.Float("manasteal", 0),
		}, f.Err()
	})
	r.Register("Aura", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &Aura{
			ModifierBase: ModifierBase{f.base()},
			Buff:         f.Buff("buff"),
			Range:        f.Int("range", 0),
			Frequency:    f.Int("freq", 1000),
			// Upstream data spells this key "maintain=-time".
			MaintainTime: f.Int("maintain=-time", 0),
			Team:         f.String("team", "team"),
		}, f.Err()
	})
	r.Register("HealthFilter", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &HealthFilter{
			ModifierBase: ModifierBase{f.base()},
			Min:          f.Float("min", 0),
			Max:          f.Float("max", 1),
			Modifiers:    f.Modifiers(""),
		}, f.Err()
	})
	r.Register("CriticalHit", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &CriticalHit{
			ModifierBase: ModifierBase{f.base()},
			Chance:       f.Float("chance", 0),
			Mul:          f.Float("mul", 2),
			SpellChance:  f.Float("spell-chance", 0),
			SpellMul:     f.Float("spell-mul", 2),
		}, f.Err()
	})
	r.Register("Markham", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &Markham{
			ModifierBase: ModifierBase{f.base()},
			Chance:       f.Float("chance", 1),
			Effects:      f.Effects(""),
		}, f.Err()
	})
	r.Register("GoldGain", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &GoldGain{ModifierBase: ModifierBase{f.base()}, Scale: f.Float("scale", 1)}, f.Err()
	})
	r.Register("Block", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &Block{
			ModifierBase: ModifierBase{f.base()},
			Physical:     f.Int("physical", 0),
			Magical:      f.Int("magical", 0),
		}, f.Err()
	})
	r.Register("ManaFromDamageTaken", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &ManaFromDamageTaken{ModifierBase: ModifierBase{f.base()}, Scale: f.Float("scale", 0)}, f.Err()
	})
	r.Register("SealOfMartyr", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &SealOfMartyr{
			ModifierBase: ModifierBase{f.base()},
			HealthMul:    f.Float("health-mul", 1),
			DamageMul:    f.Float("dmg-mul", 1),
		}, f.Err()
	})
	r.Register("SealOfMana", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &SealOfMana{
			ModifierBase: ModifierBase{f.base()},
			ManaMul:      f.Float("mana-mul", 1),
			DamageMul:    f.Float("dmg-mul", 1),
		}, f.Err()
	})
	r.Register("DamageModifier", func(c *Context, m *sval.Mapping) (Modifier, error) {
		f := c.read(m)
		return &DamageModifier{
			ModifierBase: ModifierBase{f.base()},
			// Upstream data spells this key "attack-[ower".
			AttackPower: f.Float("attack-[ower", 0),
			SpellPower:  f.Float("spell-power", 0),
			DamageMul:   f.Float("dmg-mul", 1),
		}, f.Err()
	})
	return r
}
