package extract

import (
	"github.com/perankh/perankh/internal/savexml"
)

// CharacterRelationships extracts the RelationshipList of every
// character. An entry's Type is mandatory; an entry naming no subject
// character carries nothing and is skipped.
func CharacterRelationships(doc *savexml.Document) ([]RelationshipRow, error) {
	var rows []RelationshipRow

	for _, node := range doc.Root().Children("Character") {
		id, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		list, ok := node.Child("RelationshipList")
		if !ok {
			continue
		}
		for _, data := range list.Children("RelationshipData") {
			relType, err := data.ReqChildText("Type")
			if err != nil {
				return nil, err
			}
			related := refChild(data, "CharacterID")
			if related == nil {
				continue
			}
			rows = append(rows, RelationshipRow{
				CharacterXMLID:        id,
				RelatedCharacterXMLID: *related,
				Type:                  relType,
				Value:                 data.OptChildIntPtr("Value"),
				StartedTurn:           data.OptChildIntPtr("Turn"),
			})
		}
	}

	return rows, nil
}

// CharacterMarriages extracts each character's Spouses ID list. Saves
// record only the current set of spouses, not when each marriage
// happened.
func CharacterMarriages(doc *savexml.Document) ([]MarriageRow, error) {
	var rows []MarriageRow

	for _, node := range doc.Root().Children("Character") {
		id, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		spouses, ok := node.Child("Spouses")
		if !ok {
			continue
		}
		for _, entry := range spouses.Children("ID") {
			spouseID, err := intText(entry)
			if err != nil {
				return nil, err
			}
			rows = append(rows, MarriageRow{CharacterXMLID: id, SpouseXMLID: spouseID})
		}
	}

	return rows, nil
}
