// Package curriculum holds the static Iqro reading curriculum: levels made
// of sections, each section a short list of graphemes with transliteration.
package curriculum

import (
	"fmt"
	"strconv"
	"strings"
)

// ItemID addresses a single learning item by position.
type ItemID struct {
	Level   int
	Section int
	Index   int
}

// String renders the id as "<level>-<section>-<index>", the form used as a
// persistence key.
func (id ItemID) String() string {
	return fmt.Sprintf("%d-%d-%d", id.Level, id.Section, id.Index)
}

// ParseItemID parses the "<level>-<section>-<index>" form.
func ParseItemID(s string) (ItemID, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return ItemID{}, fmt.Errorf("item id %q: want <level>-<section>-<index>", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return ItemID{}, fmt.Errorf("item id %q: bad component %q", s, p)
		}
		nums[i] = n
	}
	return ItemID{Level: nums[0], Section: nums[1], Index: nums[2]}, nil
}

// Item is one unit of the curriculum.
type Item struct {
	ID              ItemID
	Arabic          string
	Transliteration string
	SectionTitle    string
}

// Section groups items practised together.
type Section struct {
	Title string
	Items []Item
}

// Level is one Iqro book.
type Level struct {
	Number   int
	Title    string
	Sections []Section
}

// Items flattens all sections of the level.
func (l Level) Items() []Item {
	var out []Item
	for _, s := range l.Sections {
		out = append(out, s.Items...)
	}
	return out
}

// ItemIDs returns the string ids of every item in the level.
func (l Level) ItemIDs() []string {
	items := l.Items()
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID.String()
	}
	return ids
}
