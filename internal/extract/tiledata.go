package extract

import (
	"strconv"
	"strings"

	"github.com/perankh/perankh/internal/savexml"
)

// TileDataSet bundles the per-tile history containers: which team
// revealed a tile when, and how the tile itself changed over the game.
type TileDataSet struct {
	Visibility []TileVisibilityRow
	Changes    []TileChangeRow
}

// changeContainers maps each per-tile history container to the change
// type its entries record.
var changeContainers = []struct {
	tag        string
	changeType string
}{
	{"OwnerHistory", "owner"},
	{"TerrainHistory", "terrain"},
	{"VegetationHistory", "vegetation"},
}

// TileData extracts visibility and change history for every tile.
func TileData(doc *savexml.Document) (*TileDataSet, error) {
	set := &TileDataSet{}

	for _, node := range doc.Root().Children("Tile") {
		id, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		if err := set.visibility(node, id); err != nil {
			return nil, err
		}
		if err := set.changes(node, id); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// visibility merges the RevealedTurn and RevealedOwner containers, both
// keyed by TEAM_N tags. A team may appear in either one alone.
func (set *TileDataSet) visibility(tile savexml.Node, id int) error {
	turns := make(map[int]*int)
	owners := make(map[int]*int)
	var order []int

	collect := func(tag string, into map[int]*int) error {
		container, ok := tile.Child(tag)
		if !ok {
			return nil
		}
		for _, entry := range container.Elements() {
			team, ok := teamTag(entry.Tag())
			if !ok {
				continue
			}
			value, err := intText(entry)
			if err != nil {
				return err
			}
			if _, seen := turns[team]; !seen {
				if _, seen := owners[team]; !seen {
					order = append(order, team)
				}
			}
			into[team] = &value
		}
		return nil
	}

	if err := collect("RevealedTurn", turns); err != nil {
		return err
	}
	if err := collect("RevealedOwner", owners); err != nil {
		return err
	}

	for _, team := range order {
		var owner *int
		if o := owners[team]; o != nil && *o >= 0 {
			owner = o
		}
		set.Visibility = append(set.Visibility, TileVisibilityRow{
			TileXMLID:         id,
			TeamID:            team,
			RevealedTurn:      turns[team],
			VisibleOwnerXMLID: owner,
		})
	}
	return nil
}

func (set *TileDataSet) changes(tile savexml.Node, id int) error {
	for _, container := range changeContainers {
		node, ok := tile.Child(container.tag)
		if !ok {
			continue
		}
		for _, entry := range node.Elements() {
			turn, ok := turnTag(entry.Tag())
			if !ok {
				continue
			}
			value, err := reqText(entry)
			if err != nil {
				return err
			}
			set.Changes = append(set.Changes, TileChangeRow{
				TileXMLID:  id,
				Turn:       turn,
				ChangeType: container.changeType,
				Value:      value,
			})
		}
	}
	return nil
}

func teamTag(tag string) (int, bool) {
	s, ok := strings.CutPrefix(tag, "TEAM_")
	if !ok {
		return 0, false
	}
	team, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return team, true
}
