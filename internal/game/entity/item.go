package entity

import "github.com/cory-johannsen/hwextract/internal/sval"

// Item is a purchasable item with the modifiers it grants.
type Item struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Quality       string     `json:"quality"`
	Cost          int        `json:"cost"`
	RequiredFlag  string     `json:"requiredFlag"`
	BuyInTown     bool       `json:"buyInTown"`
	BuyInDungeon  bool       `json:"buyInDungeon"`
	HasBlueprints bool       `json:"hasBlueprints"`
	Modifiers     []Modifier `json:"modifiers"`
}

// BuildItem builds an item from its mapping.
func BuildItem(c *Context, m *sval.Mapping) (*Item, error) {
	f := c.read(m)
	it := &Item{
		Name:          f.String("name", "unknown"),
		Description:   f.String("desc", "unknown"),
		Quality:       f.String("quality", "common"),
		Cost:          f.Int("cost", 0),
		RequiredFlag:  f.String("required-flag", ""),
		BuyInTown:     f.Bool("buy-in-town", true),
		BuyInDungeon:  f.Bool("buy-in-dungeon", true),
		HasBlueprints: f.Bool("has-blueprints", false),
		Modifiers:     f.Modifiers(""),
	}
	if err := f.Err(); err != nil {
		return nil, err
	}
	return it, nil
}
