package extract

import (
	"github.com/perankh/perankh/internal/savexml"
)

// Players extracts every <Player> element under <Root>.
func Players(doc *savexml.Document) ([]PlayerRow, error) {
	var players []PlayerRow

	for _, node := range doc.Root().Children("Player") {
		id, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		name, err := node.ReqAttr("Name")
		if err != nil {
			return nil, err
		}

		// AIControlledToTurn == 0 means a human played this seat; absent
		// means the seat was always human.
		isHuman := true
		if aiTurn, ok := node.OptAttrInt("AIControlledToTurn"); ok {
			isHuman = aiTurn == 0
		}

		row := PlayerRow{
			XMLID:                 id,
			Name:                  name,
			Nation:                optAttrString(node, "Nation"),
			Dynasty:               optAttrString(node, "Dynasty"),
			TeamID:                optAttrString(node, "Team"),
			IsHuman:               isHuman,
			OnlineID:              optAttrString(node, "OnlineID"),
			Email:                 optAttrString(node, "Email"),
			Difficulty:            optAttrString(node, "Difficulty"),
			LastTurnCompleted:     node.OptChildIntPtr("LastTurnCompleted"),
			TurnEnded:             node.OptChildBool("TurnEnded", false),
			Legitimacy:            node.OptChildIntPtr("Legitimacy"),
			TimeStockpile:         node.OptChildIntPtr("TimeStockpile"),
			StateReligion:         node.OptChildString("StateReligion"),
			SuccessionGender:      node.OptChildString("SuccessionGender"),
			FounderCharacterXMLID: refChild(node, "FounderCharacterID"),
			ChosenHeirXMLID:       refChild(node, "ChosenHeirID"),
			OriginalCapitalXMLID:  refChild(node, "OriginalCapitalCityID"),
			TechResearching:       node.OptChildString("TechResearching"),
			AmbitionDelay:         node.OptChildIntPtr("AmbitionDelay"),
			TilesPurchased:        node.OptChildInt("TilesPurchased", 0),
			StateReligionChanges:  node.OptChildInt("StateReligionChanges", 0),
			TribeMercenariesHired: node.OptChildInt("TribeMercenariesHired", 0),
		}
		players = append(players, row)
	}

	return players, nil
}

// PlayerProduction extracts per-player lifetime unit production counts
// from <Player>/<UnitsProduced>.
func PlayerProduction(doc *savexml.Document) ([]PlayerProductionRow, error) {
	var rows []PlayerProductionRow

	for _, node := range doc.Root().Children("Player") {
		id, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		produced, ok := node.Child("UnitsProduced")
		if !ok {
			continue
		}
		for _, entry := range produced.Elements() {
			count, err := intText(entry)
			if err != nil {
				return nil, err
			}
			rows = append(rows, PlayerProductionRow{
				PlayerXMLID: id,
				UnitType:    entry.Tag(),
				Count:       count,
			})
		}
	}

	return rows, nil
}

func optAttrString(node savexml.Node, name string) *string {
	if s, ok := node.OptAttr(name); ok && s != "" {
		return &s
	}
	return nil
}

// refChild reads an optional entity-reference child, treating the -1
// sentinel as absent.
func refChild(node savexml.Node, tag string) *int {
	v := node.OptChildIntPtr(tag)
	if v != nil && *v < 0 {
		return nil
	}
	return v
}
