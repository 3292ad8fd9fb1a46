package importer

import (
	"fmt"
	"strconv"

	"github.com/huandu/go-sqlbuilder"
	"go.uber.org/zap"

	"github.com/perankh/perankh/internal/extract"
	"github.com/perankh/perankh/internal/oldworld"
)

// The reference pass runs after every entity row exists. Pass one left
// forward references NULL; these updates fill them in with resolved
// database IDs.

// playerRefs sets each player's founder, chosen heir and original
// capital. All three resolve leniently: a save can reference a
// character or city pruned from the document.
func (in *insertion) playerRefs(rows []extract.PlayerRow) error {
	updated := 0
	for _, r := range rows {
		founder := in.lenient(oldworld.KindCharacter, r.FounderCharacterXMLID)
		heir := in.lenient(oldworld.KindCharacter, r.ChosenHeirXMLID)
		capital := in.lenient(oldworld.KindCity, r.OriginalCapitalXMLID)
		if founder == nil && heir == nil && capital == nil {
			continue
		}

		id, err := in.ids.GetOrErr(oldworld.KindPlayer, r.XMLID, "player reference pass")
		if err != nil {
			return err
		}

		ub := sqlbuilder.SQLite.NewUpdateBuilder()
		ub.Update("players")
		var assigns []string
		if founder != nil {
			assigns = append(assigns, ub.Assign("founder_character_id", founder))
		}
		if heir != nil {
			assigns = append(assigns, ub.Assign("chosen_heir_id", heir))
		}
		if capital != nil {
			assigns = append(assigns, ub.Assign("original_capital_city_id", capital))
		}
		ub.Set(assigns...)
		ub.Where(ub.Equal("match_id", in.matchID), ub.Equal("player_id", id))

		query, args := ub.Build()
		if _, err := in.tx.Exec(query, args...); err != nil {
			return fmt.Errorf("update player %d references: %w", id, err)
		}
		updated++
	}
	in.log.Debug("player references resolved", zap.Int("updated", updated))
	return nil
}

// characterRefs sets parent and birth city references. Parents resolve
// leniently because a save can reference a character pruned from the
// document, same for the birth city.
func (in *insertion) characterRefs(rows []extract.CharacterRow) error {
	updated := 0
	for _, r := range rows {
		father := in.lenient(oldworld.KindCharacter, r.BirthFatherXMLID)
		mother := in.lenient(oldworld.KindCharacter, r.BirthMotherXMLID)
		city := in.lenient(oldworld.KindCity, r.BirthCityXMLID)
		if father == nil && mother == nil && city == nil {
			continue
		}

		id, err := in.ids.GetOrErr(oldworld.KindCharacter, r.XMLID, "character reference pass")
		if err != nil {
			return err
		}

		ub := sqlbuilder.SQLite.NewUpdateBuilder()
		ub.Update("characters")
		var assigns []string
		if father != nil {
			assigns = append(assigns, ub.Assign("birth_father_id", father))
		}
		if mother != nil {
			assigns = append(assigns, ub.Assign("birth_mother_id", mother))
		}
		if city != nil {
			assigns = append(assigns, ub.Assign("birth_city_id", city))
		}
		ub.Set(assigns...)
		ub.Where(ub.Equal("match_id", in.matchID), ub.Equal("character_id", id))

		query, args := ub.Build()
		if _, err := in.tx.Exec(query, args...); err != nil {
			return fmt.Errorf("update character %d references: %w", id, err)
		}
		updated++
	}
	in.log.Debug("character references resolved", zap.Int("updated", updated))
	return nil
}

// tileOwnership fills owner_city_id from each tile's CityTerritory
// claim. Cities resolve strictly: a territory claim naming an absent
// city means the document is inconsistent.
func (in *insertion) tileOwnership(rows []extract.TileRow) error {
	type claim struct{ tileID, cityID int }
	var claims []claim
	for _, r := range rows {
		if r.CityTerritoryXMLID == nil {
			continue
		}
		tileID, err := in.ids.GetOrErr(oldworld.KindTile, r.XMLID, "tile ownership pass")
		if err != nil {
			return err
		}
		cityID, err := in.ids.GetOrErr(oldworld.KindCity, *r.CityTerritoryXMLID,
			fmt.Sprintf("tile %d territory", r.XMLID))
		if err != nil {
			return err
		}
		claims = append(claims, claim{tileID: tileID, cityID: cityID})
	}
	claims = extract.LastWins(claims, func(c claim) int { return c.tileID })

	for _, c := range claims {
		ub := sqlbuilder.SQLite.NewUpdateBuilder()
		ub.Update("tiles")
		ub.Set(ub.Assign("owner_city_id", c.cityID))
		ub.Where(ub.Equal("match_id", in.matchID), ub.Equal("tile_id", c.tileID))

		query, args := ub.Build()
		if _, err := in.tx.Exec(query, args...); err != nil {
			return fmt.Errorf("update tile %d ownership: %w", c.tileID, err)
		}
	}
	in.log.Debug("tile ownership resolved", zap.Int("updated", len(claims)))
	return nil
}

// diplomacyRefs resolves each relation side to its database ID. Player
// sides parse as integers; tribe sides key by name. Unresolvable sides
// stay NULL, the textual identity columns remain authoritative.
func (in *insertion) diplomacyRefs(rows []extract.DiplomacyRow) error {
	for _, r := range rows {
		side1 := in.resolveDiplomat(r.Entity1Type, r.Entity1ID)
		side2 := in.resolveDiplomat(r.Entity2Type, r.Entity2ID)
		if side1 == nil && side2 == nil {
			continue
		}

		ub := sqlbuilder.SQLite.NewUpdateBuilder()
		ub.Update("diplomacy")
		ub.Set(ub.Assign("entity1_db_id", side1), ub.Assign("entity2_db_id", side2))
		ub.Where(
			ub.Equal("match_id", in.matchID),
			ub.Equal("entity1_type", r.Entity1Type),
			ub.Equal("entity1_id", r.Entity1ID),
			ub.Equal("entity2_type", r.Entity2Type),
			ub.Equal("entity2_id", r.Entity2ID),
		)

		query, args := ub.Build()
		if _, err := in.tx.Exec(query, args...); err != nil {
			return fmt.Errorf("update diplomacy references: %w", err)
		}
	}
	return nil
}

func (in *insertion) resolveDiplomat(entityType, entityID string) any {
	switch entityType {
	case "player":
		xmlID, err := strconv.Atoi(entityID)
		if err != nil {
			in.log.Warn("non-numeric player in diplomacy", zap.String("id", entityID))
			return nil
		}
		if dbID, ok := in.ids.Get(oldworld.KindPlayer, xmlID); ok {
			return dbID
		}
	case "tribe":
		if dbID, ok := in.ids.GetName(oldworld.KindTribe, entityID); ok {
			return dbID
		}
	}
	return nil
}
