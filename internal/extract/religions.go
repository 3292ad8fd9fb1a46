package extract

import (
	"sort"
	"strconv"

	"github.com/perankh/perankh/internal/savexml"
)

// Religions aggregates religions by name. Saves never export religions as
// standalone elements; their state is scattered over four map containers
// under <Game>: ReligionFounded, ReligionHeadID, ReligionHolyCity, and
// ReligionFounder, each keyed by religion name.
func Religions(doc *savexml.Document) ([]ReligionRow, error) {
	game, ok := doc.Root().Child("Game")
	if !ok {
		return nil, nil
	}

	byName := map[string]*ReligionRow{}
	get := func(name string) *ReligionRow {
		if r, ok := byName[name]; ok {
			return r
		}
		r := &ReligionRow{Name: name}
		byName[name] = r
		return r
	}

	assign := func(container string, set func(*ReligionRow, int)) {
		c, ok := game.Child(container)
		if !ok {
			return
		}
		for _, entry := range c.Elements() {
			if v, err := strconv.Atoi(entry.Text()); err == nil {
				set(get(entry.Tag()), v)
			} else {
				// Register the name even when the value is unusable.
				get(entry.Tag())
			}
		}
	}

	assign("ReligionFounded", func(r *ReligionRow, v int) { r.FoundedTurn = &v })
	assign("ReligionHeadID", func(r *ReligionRow, v int) { r.HeadCharacterXMLID = &v })
	assign("ReligionHolyCity", func(r *ReligionRow, v int) { r.HolyCityXMLID = &v })
	assign("ReligionFounder", func(r *ReligionRow, v int) { r.FounderPlayerXMLID = &v })

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	religions := make([]ReligionRow, 0, len(names))
	for _, name := range names {
		religions = append(religions, *byName[name])
	}
	return religions, nil
}
