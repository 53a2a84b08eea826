package entity

import (
	"fmt"

	"github.com/cory-johannsen/hwextract/internal/sval"
)

// Character is a playable class: base stats, per-level growth and skills.
type Character struct {
	Skills           []*Skill `json:"skills"`
	BaseHealth       float64  `json:"baseHealth"`
	BaseMana         float64  `json:"baseMana"`
	BaseHealthRegen  float64  `json:"baseHealthRegen"`
	BaseManaRegen    float64  `json:"baseManaRegen"`
	BaseArmor        float64  `json:"baseArmor"`
	BaseResistance   float64  `json:"baseResistance"`
	LevelHealth      float64  `json:"levelHealth"`
	LevelMana        float64  `json:"levelMana"`
	LevelHealthRegen float64  `json:"levelHealthRegen"`
	LevelManaRegen   float64  `json:"levelManaRegen"`
	LevelArmor       float64  `json:"levelArmor"`
	LevelResistance  float64  `json:"levelResistance"`
}

// BuildCharacter builds a character. Each "skills" entry is either a skill
// mapping or a root-relative path to a skill file.
//
// Postcondition: Skills is non-nil and ordered as in the source list.
func BuildCharacter(c *Context, m *sval.Mapping) (*Character, error) {
	f := c.read(m)
	ch := &Character{
		Skills:           []*Skill{},
		BaseHealth:       f.Float("base-health", 0),
		BaseMana:         f.Float("base-mana", 0),
		BaseHealthRegen:  f.Float("base-health-regen", 0),
		BaseManaRegen:    f.Float("base-mana-regen", 0),
		BaseArmor:        f.Float("base-armor", 0),
		BaseResistance:   f.Float("base-resistance", 0),
		LevelHealth:      f.Float("level-health", 0),
		LevelMana:        f.Float("level-mana", 0),
		LevelHealthRegen: f.Float("level-health-regen", 0),
		LevelManaRegen:   f.Float("level-mana-regen", 0),
		LevelArmor:       f.Float("level-armor", 0),
		LevelResistance:  f.Float("level-resistance", 0),
	}
	if err := f.Err(); err != nil {
		return nil, err
	}
	v, ok := m.Get("skills")
	if !ok {
		return ch, nil
	}
	list, ok := v.(sval.List)
	if !ok {
		return nil, &FieldError{Key: "skills", Want: "array", Got: v.Kind()}
	}
	for i, elem := range list {
		var (
			s   *Skill
			err error
		)
		switch elem := elem.(type) {
		case *sval.Mapping:
			s, err = BuildSkill(c, elem)
		case sval.String:
			s, err = c.LoadSkill(string(elem))
		default:
			return nil, &FieldError{Key: fmt.Sprintf("skills[%d]", i), Want: "dict or string", Got: elem.Kind()}
		}
		if err != nil {
			return nil, fmt.Errorf("skill %d: %w", i, err)
		}
		ch.Skills = append(ch.Skills, s)
	}
	return ch, nil
}
