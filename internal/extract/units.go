package extract

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/perankh/perankh/internal/savexml"
)

// UnitSet bundles units with their child collections so one document walk
// yields all four tables.
type UnitSet struct {
	Units      []UnitRow
	Promotions []UnitPromotionRow
	Effects    []UnitEffectRow
	Families   []UnitFamilyRow
}

// Units extracts every <Unit> element. Units live nested under the tile
// they stand on, so the walk goes Root > Tile > Unit.
func Units(doc *savexml.Document) (*UnitSet, error) {
	set := &UnitSet{}

	for _, tile := range doc.Root().Children("Tile") {
		tileID, err := tile.ReqAttrInt("ID")
		if err != nil {
			return nil, err
		}

		for _, node := range tile.Children("Unit") {
			id, err := node.ReqAttrInt("ID")
			if err != nil {
				return nil, err
			}
			unitType, err := node.ReqAttr("Type")
			if err != nil {
				return nil, err
			}

			var playerID *int
			if p, ok := node.OptAttrInt("Player"); ok && p >= 0 {
				playerID = &p
			}
			var originalPlayerID *int
			if p := node.OptChildIntPtr("OriginalPlayer"); p != nil && *p >= 0 {
				originalPlayerID = p
			}

			var seed *int64
			if s, ok := node.OptAttr("Seed"); ok {
				if v, err := strconv.ParseInt(s, 10, 64); err == nil {
					seed = &v
				}
			}

			set.Units = append(set.Units, UnitRow{
				XMLID:               id,
				TileXMLID:           tileID,
				Type:                unitType,
				PlayerXMLID:         playerID,
				Tribe:               optAttrString(node, "Tribe"),
				Seed:                seed,
				XP:                  node.OptChildInt("XP", 0),
				Level:               node.OptChildInt("Level", 1),
				CreateTurn:          node.OptChildIntPtr("CreateTurn"),
				Facing:              node.OptChildString("Facing"),
				OriginalPlayerXMLID: originalPlayerID,
				TurnsSinceLastMove:  node.OptChildIntPtr("TurnsSinceLastMove"),
				Gender:              node.OptChildString("Gender"),
				IsSleeping:          node.HasChild("Sleep"),
				CurrentFormation:    node.OptChildString("CurrentFormation"),
			})

			set.Promotions = append(set.Promotions, unitPromotions(node, id, "Promotions", true)...)
			set.Promotions = append(set.Promotions, unitPromotions(node, id, "PromotionsAvailable", false)...)
			set.Effects = append(set.Effects, unitEffects(node, id)...)
			set.Families = append(set.Families, unitFamilies(node, id)...)
		}
	}

	return set, nil
}

func unitPromotions(unit savexml.Node, unitID int, container string, acquired bool) []UnitPromotionRow {
	c, ok := unit.Child(container)
	if !ok {
		return nil
	}
	var rows []UnitPromotionRow
	for _, entry := range c.Elements() {
		rows = append(rows, UnitPromotionRow{
			UnitXMLID: unitID,
			Promotion: entry.Tag(),
			Acquired:  acquired,
		})
	}
	return rows
}

func unitEffects(unit savexml.Node, unitID int) []UnitEffectRow {
	c, ok := unit.Child("BonusEffectUnits")
	if !ok {
		return nil
	}
	var rows []UnitEffectRow
	for _, entry := range c.Elements() {
		stacks := 1
		if v, err := strconv.Atoi(entry.Text()); err == nil {
			stacks = v
		}
		rows = append(rows, UnitEffectRow{
			UnitXMLID: unitID,
			Effect:    entry.Tag(),
			Stacks:    stacks,
		})
	}
	return rows
}

// unitFamilies reads the PlayerFamily container, whose entries are keyed
// <P.N> with the family constant as text.
func unitFamilies(unit savexml.Node, unitID int) []UnitFamilyRow {
	c, ok := unit.Child("PlayerFamily")
	if !ok {
		return nil
	}
	var rows []UnitFamilyRow
	for _, entry := range c.Elements() {
		key := entry.Tag()
		playerStr, found := strings.CutPrefix(key, "P.")
		if !found {
			zap.L().Warn("invalid PlayerFamily key", zap.String("key", key))
			continue
		}
		player, err := strconv.Atoi(playerStr)
		if err != nil {
			zap.L().Warn("invalid PlayerFamily key", zap.String("key", key))
			continue
		}
		family := entry.Text()
		if family == "" {
			continue
		}
		rows = append(rows, UnitFamilyRow{
			UnitXMLID:   unitID,
			PlayerXMLID: player,
			Family:      family,
		})
	}
	return rows
}
