package extract

import (
	"strconv"
	"strings"

	"github.com/perankh/perankh/internal/savexml"
)

// Tiles extracts every <Tile> element under <Root>. Coordinates come from
// the sequential tile index: id = y*MapWidth + x.
func Tiles(doc *savexml.Document) ([]TileRow, error) {
	root := doc.Root()

	mapWidth, err := root.ReqAttrInt("MapWidth")
	if err != nil {
		return nil, err
	}

	var tiles []TileRow
	for _, node := range root.Children("Tile") {
		id, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}

		row := TileRow{
			XMLID:                id,
			X:                    id % mapWidth,
			Y:                    id / mapWidth,
			Terrain:              node.OptChildString("Terrain"),
			Height:               node.OptChildString("Height"),
			Vegetation:           node.OptChildString("Vegetation"),
			RiverW:               node.OptChildBool("RiverW", false),
			RiverSW:              node.OptChildBool("RiverSW", false),
			RiverSE:              node.OptChildBool("RiverSE", false),
			Resource:             node.OptChildString("Resource"),
			Improvement:          node.OptChildString("Improvement"),
			ImprovementPillaged:  node.OptChildBool("ImprovementPillaged", false),
			ImprovementDisabled:  node.OptChildBool("ImprovementDisabled", false),
			ImprovementTurnsLeft: node.OptChildIntPtr("ImprovementTurnsLeft"),
			Specialist:           node.OptChildString("Specialist"),
			HasRoad:              node.HasChild("Road"),
			OwnerPlayerXMLID:     currentOwner(node),
			CityTerritoryXMLID:   node.OptChildIntPtr("CityTerritory"),
			TribeSite:            node.OptChildString("TribeSite"),
			Religion:             node.OptChildString("Religion"),
			InitSeed:             node.OptChildInt64Ptr("InitSeed"),
			TurnSeed:             node.OptChildInt64Ptr("TurnSeed"),
		}
		tiles = append(tiles, row)
	}

	return tiles, nil
}

// currentOwner derives the present owner from the tile's OwnerHistory:
// the <Tn> entry with the highest turn wins, negative owners mean the
// tile reverted to unowned.
func currentOwner(tile savexml.Node) *int {
	history, ok := tile.Child("OwnerHistory")
	if !ok {
		return nil
	}

	maxTurn := -1
	var latest *int
	for _, entry := range history.Elements() {
		turnStr, found := strings.CutPrefix(entry.Tag(), "T")
		if !found {
			continue
		}
		turn, err := strconv.Atoi(turnStr)
		if err != nil {
			continue
		}
		owner, err := strconv.Atoi(entry.Text())
		if err != nil {
			continue
		}
		if turn > maxTurn {
			maxTurn = turn
			latest = &owner
		}
	}

	if latest != nil && *latest >= 0 {
		return latest
	}
	return nil
}
