package extract

import (
	"sort"
	"strconv"

	"github.com/perankh/perankh/internal/savexml"
)

// Families assembles family rows from two places in the document: the
// global FamilyClass map (name to class) and the per-player containers
// FamilyHeadID, FamilySeatCityID, and FamilyTurnsNoLeader. A family
// belongs to a player if it appears in any of the three containers.
func Families(doc *savexml.Document) ([]FamilyRow, error) {
	root := doc.Root()
	classes := familyClasses(root)

	var families []FamilyRow
	for _, player := range root.Children("Player") {
		playerID, err := player.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}

		heads := familyMapping(player, "FamilyHeadID")
		seats := familyMapping(player, "FamilySeatCityID")
		leaderless := familyMapping(player, "FamilyTurnsNoLeader")

		names := map[string]struct{}{}
		for n := range heads {
			names[n] = struct{}{}
		}
		for n := range seats {
			names[n] = struct{}{}
		}
		for n := range leaderless {
			names[n] = struct{}{}
		}

		// Deterministic output keeps the importer's logs and tests stable.
		ordered := make([]string, 0, len(names))
		for n := range names {
			ordered = append(ordered, n)
		}
		sort.Strings(ordered)

		for _, name := range ordered {
			row := FamilyRow{
				Name:        name,
				Class:       classes[name],
				PlayerXMLID: playerID,
			}
			if head, ok := heads[name]; ok {
				row.HeadCharacterXMLID = &head
			}
			if seat, ok := seats[name]; ok {
				row.SeatCityXMLID = &seat
			}
			row.TurnsWithoutLeader = leaderless[name]
			families = append(families, row)
		}
	}

	return families, nil
}

// familyClasses reads the global FamilyClass container; saves usually put
// it directly under Root but some exports nest it deeper.
func familyClasses(root savexml.Node) map[string]string {
	classes := map[string]string{}

	container, ok := root.Child("FamilyClass")
	if !ok {
		container, ok = root.FindDescendant("FamilyClass")
	}
	if !ok {
		return classes
	}

	for _, entry := range container.Elements() {
		if text := entry.Text(); text != "" {
			classes[entry.Tag()] = text
		}
	}
	return classes
}

// familyMapping reads one family-keyed integer container of a player.
// Unparseable entries are skipped.
func familyMapping(player savexml.Node, tag string) map[string]int {
	mapping := map[string]int{}

	container, ok := player.Child(tag)
	if !ok {
		return mapping
	}
	for _, entry := range container.Elements() {
		if v, err := strconv.Atoi(entry.Text()); err == nil {
			mapping[entry.Tag()] = v
		}
	}
	return mapping
}
