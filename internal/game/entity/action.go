package entity

import "github.com/cory-johannsen/hwextract/internal/sval"

// ExplodeAction applies effects around the triggering unit.
type ExplodeAction struct {
	ActionBase
	Radius  int      `json:"radius"`
	Effects []Effect `json:"effects"`
}

// SpawnUnitAction spawns a unit at the triggering unit.
type SpawnUnitAction struct {
	ActionBase
	Unit Unit `json:"unit"`
}

// HwSpawnUnit spawns Count units with an optional spread.
type HwSpawnUnit struct {
	SpawnUnitAction
	Count  int `json:"count"`
	Spread int `json:"spread"`
}

func actionRegistry() *Registry[Action] {
	r := NewRegistry[Action]("action")
	r.Register("Explode", func(c *Context, m *sval.Mapping) (Action, error) {
		f := c.read(m)
		return &ExplodeAction{
			ActionBase: ActionBase{f.base()},
			Radius:     f.Int("radius", 0),
			Effects:    f.Effects(""),
		}, f.Err()
	})
	r.Register("SpawnUnit", func(c *Context, m *sval.Mapping) (Action, error) {
		f := c.read(m)
		return &SpawnUnitAction{ActionBase: ActionBase{f.base()}, Unit: f.Unit("unit")}, f.Err()
	})
	r.Register("HwSpawnUnit", func(c *Context, m *sval.Mapping) (Action, error) {
		f := c.read(m)
		return &HwSpawnUnit{
			SpawnUnitAction: SpawnUnitAction{ActionBase: ActionBase{f.base()}, Unit: f.Unit("unit")},
			Count:           f.Int("count", 1),
			Spread:          f.Int("spread", 0),
		}, f.Err()
	})
	r.Register("Skills::ScorchEarth", func(c *Context, m *sval.Mapping) (Action, error) {
		f := c.read(m)
		s := readScorchEarth(f)
		return &s, f.Err()
	})
	r.Declare("PlaySound")
	return r
}
