package entity

import "github.com/cory-johannsen/hwextract/internal/sval"

// Buff is a timed set of combat modifiers applied to an actor.
type Buff struct {
	Duration              int            `json:"duration"`
	Debuff                bool           `json:"debuff"`
	SpeedMultiplier       float64        `json:"speedMultiplier"`
	SpeedDashMultiplier   float64        `json:"speedDashMultiplier"`
	DamageMultiplier      float64        `json:"damageMultiplier"`
	DamageTakenMultiplier float64        `json:"damageTakenMultiplier"`
	ExperienceMultiplier  float64        `json:"experienceMultiplier"`
	ArmorMultiplier       float64        `json:"armorMultiplier"`
	ResistanceMultiplier  float64        `json:"resistanceMultiplier"`
	MinimumSpeed          float64        `json:"minimumSpeed"`
	ReceiveCritChance     float64        `json:"receiveCritChance"`
	FreeMana              bool           `json:"freeMana"`
	Disarm                bool           `json:"disarm"`
	Confuse               bool           `json:"confuse"`
	AntiConfuse           bool           `json:"antiConfuse"`
	Drifting              bool           `json:"drifting"`
	InfiniteDodge         bool           `json:"infiniteDodge"`
	BuffDamageType        int            `json:"buffDamageType"`
	Tick                  *Tick          `json:"tick,omitempty"`
	Move                  *Move          `json:"move,omitempty"`
	DieEffects            []Effect       `json:"dieEffects"`
	Modifiers             []Modifier     `json:"modifiers"`
	Cleave                map[string]any `json:"cleave,omitempty"`
	Darkness              bool           `json:"darkness"`
	Shatterable           bool           `json:"shatterable"`
	WindScale             float64        `json:"windScale"`
}

// Tick applies effects every Frequency milliseconds while the buff lasts.
type Tick struct {
	Frequency int      `json:"frequency"`
	Effects   []Effect `json:"effects"`
	Immediate bool     `json:"immediate"`
	OnReapply bool     `json:"onReapply"`
}

// Move applies effects every Frequency milliseconds while the actor moves.
type Move struct {
	Frequency int      `json:"frequency"`
	Effects   []Effect `json:"effects"`
}

// BuildBuff builds a buff from its mapping. Nested "tick" and "move" mappings
// are optional; cleave parameters are carried through untyped.
func BuildBuff(c *Context, m *sval.Mapping) (*Buff, error) {
	f := c.read(m)
	b := &Buff{
		Duration:              f.Int("duration", 1000),
		Debuff:                f.Bool("debuff", false),
		SpeedMultiplier:       f.Float("speed-mul", 1),
		SpeedDashMultiplier:   f.Float("speed-dash-mul", 1),
		DamageMultiplier:      f.Float("dmg-mul", 1),
		DamageTakenMultiplier: f.Float("dmg-taken-mul", 1),
		ExperienceMultiplier:  f.Float("experience-mul", 1),
		ArmorMultiplier:       f.Float("armor-mul", 1),
		ResistanceMultiplier:  f.Float("resistance-mul", 1),
		MinimumSpeed:          f.Float("min-speed", 0),
		ReceiveCritChance:     f.Float("receive-crit-chance", 0),
		FreeMana:              f.Bool("free-mana", false),
		Disarm:                f.Bool("disarm", false),
		Confuse:               f.Bool("confuse", false),
		AntiConfuse:           f.Bool("anti-confuse", false),
		Drifting:              f.Bool("drifting", false),
		InfiniteDodge:         f.Bool("inf-dodge", false),
		BuffDamageType:        f.Int("buff-dmg-type", 0),
		DieEffects:            f.Effects("die-"),
		Modifiers:             f.Modifiers(""),
		Cleave:                f.NativeMap("cleave"),
		Darkness:              f.Bool("darkness", false),
		Shatterable:           f.Bool("shatterable", false),
		WindScale:             f.Float("wind-scale", 1),
	}
	if err := f.Err(); err != nil {
		return nil, err
	}

	tick, err := sub(m, "tick")
	if err != nil {
		return nil, err
	}
	if tick != nil {
		t := c.read(tick)
		b.Tick = &Tick{
			Frequency: t.Int("freq", 0),
			Effects:   t.Effects(""),
			Immediate: t.Bool("immediate", false),
			OnReapply: t.Bool("on-reapply", false),
		}
		if err := t.Err(); err != nil {
			return nil, err
		}
	}

	move, err := sub(m, "move")
	if err != nil {
		return nil, err
	}
	if move != nil {
		mv := c.read(move)
		b.Move = &Move{Frequency: mv.Int("freq", 0), Effects: mv.Effects("")}
		if err := mv.Err(); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// sub returns the dict stored under key, nil when absent.
func sub(m *sval.Mapping, key string) (*sval.Mapping, error) {
	v, ok := m.Get(key)
	if !ok {
		return nil, nil
	}
	s, ok := v.(*sval.Mapping)
	if !ok {
		return nil, &FieldError{Key: key, Want: "dict", Got: v.Kind()}
	}
	return s, nil
}
