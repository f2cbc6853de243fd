package curriculum

import (
	"fmt"
	"slices"
)

// Curriculum is an ordered set of levels.
type Curriculum struct {
	levels []Level
	byID   map[string]Item
}

// New builds a Curriculum, assigning item ids from their position.
func New(levels []Level) *Curriculum {
	c := &Curriculum{byID: make(map[string]Item)}
	for _, l := range levels {
		lvl := Level{Number: l.Number, Title: l.Title}
		for si, s := range l.Sections {
			sec := Section{Title: s.Title}
			for ii, it := range s.Items {
				it.ID = ItemID{Level: l.Number, Section: si, Index: ii}
				it.SectionTitle = s.Title
				sec.Items = append(sec.Items, it)
				c.byID[it.ID.String()] = it
			}
			lvl.Sections = append(lvl.Sections, sec)
		}
		c.levels = append(c.levels, lvl)
	}
	slices.SortFunc(c.levels, func(a, b Level) int { return a.Number - b.Number })
	return c
}

// Levels returns all levels in ascending order.
func (c *Curriculum) Levels() []Level {
	return c.levels
}

// Level returns the level with the given number.
func (c *Curriculum) Level(n int) (Level, bool) {
	for _, l := range c.levels {
		if l.Number == n {
			return l, true
		}
	}
	return Level{}, false
}

// Item looks up an item by its string id.
func (c *Curriculum) Item(id string) (Item, error) {
	it, ok := c.byID[id]
	if !ok {
		return Item{}, fmt.Errorf("unknown item %q", id)
	}
	return it, nil
}
