// Package entity builds typed game entities from decoded SVAL mappings.
//
// Five families are dispatched on their "class" tag through a Registry:
// effects, actions, modifiers, skill levels and unit behaviors. Buffs, items,
// characters and skills have a single shape and are built directly. Unit and
// skill files are referenced by root-relative path; buffs are referenced as
// "<file>:<key>" and shared through a BuffCache.
package entity

// Base carries the class tag every dispatched entity was built from.
type Base struct {
	Class string `json:"class"`
}

// Tag returns the class tag.
func (b Base) Tag() string { return b.Class }

// Effect is an instantaneous outcome applied to a target.
type Effect interface {
	Tag() string
	isEffect()
}

// Action is an outcome triggered by a unit or skill event.
type Action interface {
	Tag() string
	isAction()
}

// Modifier is a persistent alteration of a stat or behavior.
type Modifier interface {
	Tag() string
	isModifier()
}

// SkillLevel is the configuration of one level of a skill.
type SkillLevel interface {
	Tag() string
	isSkillLevel()
}

// Unit is the behavior of a spawned unit or projectile.
type Unit interface {
	Tag() string
	isUnit()
}

// EffectBase is embedded by every effect.
type EffectBase struct{ Base }

func (EffectBase) isEffect() {}

// ActionBase is embedded by every action.
type ActionBase struct{ Base }

func (ActionBase) isAction() {}

// ModifierBase is embedded by every modifier.
type ModifierBase struct{ Base }

func (ModifierBase) isModifier() {}

// SkillBase is embedded by every skill level.
type SkillBase struct{ Base }

func (SkillBase) isSkillLevel() {}

// UnitBase is embedded by every unit behavior.
type UnitBase struct{ Base }

func (UnitBase) isUnit() {}
