package extract

import (
	"github.com/perankh/perankh/internal/savexml"
)

// Characters extracts every <Character> element under <Root>.
func Characters(doc *savexml.Document) ([]CharacterRow, error) {
	var characters []CharacterRow

	for _, node := range doc.Root().Children("Character") {
		id, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		birthTurn, err := node.ReqChildInt("BirthTurn")
		if err != nil {
			return nil, err
		}

		// Dead rulers of fallen nations keep Player="-1"; treat as no owner.
		var playerID *int
		if p, ok := node.OptAttrInt("Player"); ok && p >= 0 {
			playerID = &p
		}

		row := CharacterRow{
			XMLID:            id,
			FirstName:        optAttrString(node, "FirstName"),
			Gender:           optAttrString(node, "Gender"),
			PlayerXMLID:      playerID,
			BirthTurn:        birthTurn,
			Tribe:            node.OptChildString("Tribe"),
			DeathTurn:        node.OptChildIntPtr("DeathTurn"),
			DeathReason:      node.OptChildString("DeathReason"),
			BirthFatherXMLID: refChild(node, "BirthFatherID"),
			BirthMotherXMLID: refChild(node, "BirthMotherID"),
			BirthCityXMLID:   refChild(node, "BirthCityID"),
			Family:           node.OptChildString("Family"),
			Nation:           node.OptChildString("Nation"),
			Religion:         node.OptChildString("Religion"),
			Cognomen:         node.OptChildString("Cognomen"),
			Archetype:        node.OptChildString("Archetype"),
			Portrait:         node.OptChildString("Portrait"),
			XP:               node.OptChildInt("XP", 0),
			Level:            node.OptChildInt("Level", 1),
			IsRoyal:          node.OptChildBool("IsRoyal", false),
			IsInfertile:      node.OptChildBool("IsInfertile", false),
			BecameLeaderTurn: node.OptChildIntPtr("BecameLeaderTurn"),
		}
		characters = append(characters, row)
	}

	return characters, nil
}

// CharacterStats extracts the Rating and Stat containers of every
// character. Both flatten into the same stat table.
func CharacterStats(doc *savexml.Document) ([]CharacterStatRow, error) {
	var stats []CharacterStatRow

	for _, node := range doc.Root().Children("Character") {
		id, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		for _, container := range []string{"Rating", "Stat"} {
			c, ok := node.Child(container)
			if !ok {
				continue
			}
			for _, entry := range c.Elements() {
				value, err := intText(entry)
				if err != nil {
					return nil, err
				}
				stats = append(stats, CharacterStatRow{
					CharacterXMLID: id,
					StatName:       entry.Tag(),
					StatValue:      value,
				})
			}
		}
	}

	return stats, nil
}

// CharacterTraits extracts the TraitTurn container of every character.
func CharacterTraits(doc *savexml.Document) ([]CharacterTraitRow, error) {
	var traits []CharacterTraitRow

	for _, node := range doc.Root().Children("Character") {
		id, err := node.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}
		container, ok := node.Child("TraitTurn")
		if !ok {
			continue
		}
		for _, entry := range container.Elements() {
			turn, err := intText(entry)
			if err != nil {
				return nil, err
			}
			traits = append(traits, CharacterTraitRow{
				CharacterXMLID: id,
				TraitName:      entry.Tag(),
				AcquiredTurn:   turn,
			})
		}
	}

	return traits, nil
}
