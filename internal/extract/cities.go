package extract

import (
	"github.com/perankh/perankh/internal/oldworld"
	"github.com/perankh/perankh/internal/savexml"
)

// unknownCityName stands in when a save exports a city with no name
// element at all; it keeps the row insertable without inventing data.
const unknownCityName = "Unknown City"

// Cities extracts every <City> element under <Root>.
func Cities(doc *savexml.Document) ([]CityRow, error) {
	var cities []CityRow

	for _, node := range doc.Root().Children("City") {
		id, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}

		// The Player attribute is mandatory but holds -1 for razed or
		// neutral cities.
		playerAttr, err := node.ReqAttrInt("Player")
		if err != nil {
			return nil, err
		}
		playerID := oldworld.NormalizeID(playerAttr)

		tileID, err := node.ReqAttrInt("TileID")
		if err != nil {
			return nil, err
		}
		founded, err := node.ReqAttrInt("Founded")
		if err != nil {
			return nil, err
		}

		name := unknownCityName
		if s, ok := node.OptChildText("NameType"); ok && s != "" {
			name = s
		} else if s, ok := node.OptChildText("Name"); ok && s != "" {
			name = s
		}

		row := CityRow{
			XMLID:                id,
			PlayerXMLID:          playerID,
			TileXMLID:            tileID,
			Name:                 name,
			Family:               optAttrString(node, "Family"),
			FoundedTurn:          founded,
			IsCapital:            node.HasChild("Capital"),
			Citizens:             node.OptChildInt("Citizens", 1),
			GovernorXMLID:        refChild(node, "GovernorID"),
			GovernorTurn:         node.OptChildIntPtr("GovernorTurn"),
			HurryCivicsCount:     node.OptChildInt("HurryCivicsCount", 0),
			HurryMoneyCount:      node.OptChildInt("HurryMoneyCount", 0),
			HurryTrainingCount:   node.OptChildInt("HurryTrainingCount", 0),
			HurryPopulationCount: node.OptChildInt("HurryPopulationCount", 0),
			SpecialistCount:      node.OptChildInt("SpecialistProducedCount", 0),
			GrowthCount:          node.OptChildInt("GrowthCount", 0),
			UnitProductionCount:  node.OptChildInt("UnitProductionCount", 0),
			BuyTileCount:         node.OptChildInt("BuyTileCount", 0),
			FirstOwnerXMLID:      refChild(node, "FirstPlayer"),
			LastOwnerXMLID:       refChild(node, "LastPlayer"),
		}
		cities = append(cities, row)
	}

	return cities, nil
}

// CityProduction extracts per-city unit production counts from
// <City>/<UnitProductionCounts>.
func CityProduction(doc *savexml.Document) ([]CityProductionRow, error) {
	var rows []CityProductionRow

	for _, node := range doc.Root().Children("City") {
		id, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		counts, ok := node.Child("UnitProductionCounts")
		if !ok {
			continue
		}
		for _, entry := range counts.Elements() {
			count, err := intText(entry)
			if err != nil {
				return nil, err
			}
			rows = append(rows, CityProductionRow{
				CityXMLID: id,
				UnitType:  entry.Tag(),
				Count:     count,
			})
		}
	}

	return rows, nil
}
