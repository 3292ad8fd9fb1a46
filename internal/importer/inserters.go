package importer

import (
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/perankh/perankh/internal/extract"
	"github.com/perankh/perankh/internal/oldworld"
	"github.com/perankh/perankh/internal/store"
)

// insertion bundles everything the per-entity inserters share: the open
// transaction, the match's ID mapper, and the row counters reported back
// in the ImportResult.
type insertion struct {
	tx      *sqlx.Tx
	ids     *IDMapper
	matchID int64
	log     *zap.Logger
	counts  map[string]int64
}

func (in *insertion) count(table string, n int64) {
	in.counts[table] += n
}

// -----------------------------------------------------------------------------
// Players
// -----------------------------------------------------------------------------

func (in *insertion) players(rows []extract.PlayerRow) error {
	rows = extract.LastWins(rows, func(r extract.PlayerRow) int { return r.XMLID })

	app := store.NewAppender(in.tx, "players",
		"player_id", "match_id", "xml_id",
		"player_name", "player_name_normalized",
		"nation", "dynasty", "team_id", "is_human",
		"online_id", "email", "difficulty",
		"last_turn_completed", "turn_ended", "legitimacy", "time_stockpile",
		"state_religion", "succession_gender",
		"founder_character_id", "chosen_heir_id", "original_capital_city_id",
		"tech_researching", "ambition_delay",
		"tiles_purchased", "state_religion_changes", "tribe_mercenaries_hired").OrReplace()

	for _, r := range rows {
		id := in.ids.Map(oldworld.KindPlayer, r.XMLID)
		// Founder, heir and capital point at characters and cities not yet
		// inserted; the reference pass fills them once everything exists.
		err := app.Append(
			id, in.matchID, r.XMLID,
			r.Name, strings.ToLower(r.Name),
			r.Nation, r.Dynasty, r.TeamID, r.IsHuman,
			r.OnlineID, r.Email, r.Difficulty,
			r.LastTurnCompleted, r.TurnEnded, r.Legitimacy, r.TimeStockpile,
			r.StateReligion, r.SuccessionGender,
			nil, nil, nil,
			r.TechResearching, r.AmbitionDelay,
			r.TilesPurchased, r.StateReligionChanges, r.TribeMercenariesHired)
		if err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("players", app.Count())
	return nil
}

// -----------------------------------------------------------------------------
// Characters
// -----------------------------------------------------------------------------

// characters inserts every character with its parent and birth city
// references left NULL; those columns point at rows not yet inserted and
// are filled by the reference pass after all entities exist.
func (in *insertion) characters(rows []extract.CharacterRow) error {
	rows = extract.LastWins(rows, func(r extract.CharacterRow) int { return r.XMLID })

	app := store.NewAppender(in.tx, "characters",
		"character_id", "match_id", "xml_id", "player_id",
		"first_name", "gender", "birth_turn", "death_turn", "death_reason",
		"birth_father_id", "birth_mother_id", "birth_city_id",
		"family", "nation", "religion", "cognomen", "archetype", "portrait",
		"xp", "level", "is_royal", "is_infertile", "became_leader_turn", "tribe").OrReplace()

	for _, r := range rows {
		id := in.ids.Map(oldworld.KindCharacter, r.XMLID)
		err := app.Append(
			id, in.matchID, r.XMLID,
			in.lenient(oldworld.KindPlayer, r.PlayerXMLID),
			r.FirstName, r.Gender, r.BirthTurn, r.DeathTurn, r.DeathReason,
			nil, nil, nil,
			r.Family, r.Nation, r.Religion, r.Cognomen, r.Archetype, r.Portrait,
			r.XP, r.Level, r.IsRoyal, r.IsInfertile, r.BecameLeaderTurn, r.Tribe)
		if err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("characters", app.Count())
	return nil
}

func (in *insertion) characterStats(rows []extract.CharacterStatRow) error {
	rows = extract.FirstWins(rows, func(r extract.CharacterStatRow) [2]any {
		return [2]any{r.CharacterXMLID, r.StatName}
	})

	app := store.NewAppender(in.tx, "character_stats",
		"match_id", "character_id", "stat_name", "stat_value")
	for _, r := range rows {
		id, err := in.ids.GetOrErr(oldworld.KindCharacter, r.CharacterXMLID, "character stat")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.StatName, r.StatValue); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("character_stats", app.Count())
	return nil
}

func (in *insertion) characterTraits(rows []extract.CharacterTraitRow) error {
	rows = extract.FirstWins(rows, func(r extract.CharacterTraitRow) [2]any {
		return [2]any{r.CharacterXMLID, r.TraitName}
	})

	app := store.NewAppender(in.tx, "character_traits",
		"match_id", "character_id", "trait_name", "acquired_turn", "removed_turn")
	for _, r := range rows {
		id, err := in.ids.GetOrErr(oldworld.KindCharacter, r.CharacterXMLID, "character trait")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.TraitName, r.AcquiredTurn, nil); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("character_traits", app.Count())
	return nil
}

// -----------------------------------------------------------------------------
// Tiles
// -----------------------------------------------------------------------------

// tiles dedups on both keys the table carries: last-wins over the
// allocated (tile_id, match_id) primary key, then a bitmap over xml_id
// guarding the (match_id, xml_id) unique index. Either violated
// mid-transaction aborts the import.
func (in *insertion) tiles(rows []extract.TileRow) error {
	type tileRecord struct {
		dbID int
		row  extract.TileRow
	}
	records := make([]tileRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, tileRecord{
			dbID: in.ids.Map(oldworld.KindTile, r.XMLID),
			row:  r,
		})
	}
	records = extract.LastWins(records, func(r tileRecord) int { return r.dbID })

	seen := roaring.New()
	app := store.NewAppender(in.tx, "tiles",
		"tile_id", "match_id", "xml_id", "x", "y",
		"terrain", "height", "vegetation",
		"river_w", "river_sw", "river_se",
		"resource", "improvement", "improvement_pillaged", "improvement_disabled",
		"improvement_turns_left", "specialist", "has_road",
		"owner_player_id", "owner_city_id",
		"tribe_site", "religion", "init_seed", "turn_seed").OrReplace()

	for _, rec := range records {
		r := rec.row
		if r.XMLID >= 0 && !seen.CheckedAdd(uint32(r.XMLID)) {
			in.log.Debug("dropping duplicate tile", zap.Int("xml_id", r.XMLID))
			continue
		}
		err := app.Append(
			rec.dbID, in.matchID, r.XMLID, r.X, r.Y,
			r.Terrain, r.Height, r.Vegetation,
			r.RiverW, r.RiverSW, r.RiverSE,
			r.Resource, r.Improvement, r.ImprovementPillaged, r.ImprovementDisabled,
			r.ImprovementTurnsLeft, r.Specialist, r.HasRoad,
			in.lenient(oldworld.KindPlayer, r.OwnerPlayerXMLID), nil,
			r.TribeSite, r.Religion, r.InitSeed, r.TurnSeed)
		if err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("tiles", app.Count())
	return nil
}

// -----------------------------------------------------------------------------
// Cities
// -----------------------------------------------------------------------------

func (in *insertion) cities(rows []extract.CityRow) error {
	rows = extract.LastWins(rows, func(r extract.CityRow) int { return r.XMLID })

	app := store.NewAppender(in.tx, "cities",
		"city_id", "match_id", "xml_id", "player_id", "tile_id",
		"city_name", "family", "founded_turn", "is_capital", "citizens",
		"governor_id", "governor_turn",
		"hurry_civics_count", "hurry_money_count", "hurry_training_count",
		"hurry_population_count", "specialist_count", "growth_count",
		"unit_production_count", "buy_tile_count",
		"first_owner_player_id", "last_owner_player_id").OrReplace()

	for _, r := range rows {
		id := in.ids.Map(oldworld.KindCity, r.XMLID)

		// A city's tile must exist; a dangling tile reference means the
		// document is inconsistent.
		tileID, err := in.ids.GetOrErr(oldworld.KindTile, r.TileXMLID,
			fmt.Sprintf("city %d tile", r.XMLID))
		if err != nil {
			return err
		}

		var playerID any
		if r.PlayerXMLID != nil {
			playerID, err = in.ids.GetOrErr(oldworld.KindPlayer, *r.PlayerXMLID,
				fmt.Sprintf("city %d owner", r.XMLID))
			if err != nil {
				return err
			}
		}
		var governorID any
		if r.GovernorXMLID != nil {
			governorID, err = in.ids.GetOrErr(oldworld.KindCharacter, *r.GovernorXMLID,
				fmt.Sprintf("city %d governor", r.XMLID))
			if err != nil {
				return err
			}
		}

		err = app.Append(
			id, in.matchID, r.XMLID, playerID, tileID,
			r.Name, r.Family, r.FoundedTurn, r.IsCapital, r.Citizens,
			governorID, r.GovernorTurn,
			r.HurryCivicsCount, r.HurryMoneyCount, r.HurryTrainingCount,
			r.HurryPopulationCount, r.SpecialistCount, r.GrowthCount,
			r.UnitProductionCount, r.BuyTileCount,
			in.lenient(oldworld.KindPlayer, r.FirstOwnerXMLID),
			in.lenient(oldworld.KindPlayer, r.LastOwnerXMLID))
		if err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("cities", app.Count())
	return nil
}

// -----------------------------------------------------------------------------
// Families, religions, tribes
// -----------------------------------------------------------------------------

func (in *insertion) families(rows []extract.FamilyRow) error {
	rows = extract.LastWins(rows, func(r extract.FamilyRow) [2]any {
		return [2]any{r.PlayerXMLID, r.Name}
	})

	app := store.NewAppender(in.tx, "families",
		"family_id", "match_id", "xml_id", "player_id",
		"family_name", "family_class",
		"head_character_id", "seat_city_id", "turns_without_leader").OrReplace()

	for _, r := range rows {
		xmlID := StableNameID(r.Name)
		id := in.ids.Map(oldworld.KindFamily, xmlID)

		playerID, err := in.ids.GetOrErr(oldworld.KindPlayer, r.PlayerXMLID,
			fmt.Sprintf("family %s player", r.Name))
		if err != nil {
			return err
		}
		var headID any
		if r.HeadCharacterXMLID != nil {
			headID, err = in.ids.GetOrErr(oldworld.KindCharacter, *r.HeadCharacterXMLID,
				fmt.Sprintf("family %s head", r.Name))
			if err != nil {
				return err
			}
		}
		var seatID any
		if r.SeatCityXMLID != nil {
			seatID, err = in.ids.GetOrErr(oldworld.KindCity, *r.SeatCityXMLID,
				fmt.Sprintf("family %s seat", r.Name))
			if err != nil {
				return err
			}
		}

		err = app.Append(id, in.matchID, xmlID, playerID,
			r.Name, r.Class, headID, seatID, r.TurnsWithoutLeader)
		if err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("families", app.Count())
	return nil
}

func (in *insertion) religions(rows []extract.ReligionRow) error {
	rows = extract.LastWins(rows, func(r extract.ReligionRow) string { return r.Name })

	app := store.NewAppender(in.tx, "religions",
		"religion_id", "match_id", "xml_id", "religion_name",
		"founded_turn", "founder_player_id", "head_character_id", "holy_city_id").OrReplace()

	for _, r := range rows {
		id := in.ids.MapName(oldworld.KindReligion, r.Name)
		err := app.Append(id, in.matchID, nil, r.Name,
			r.FoundedTurn,
			in.lenient(oldworld.KindPlayer, r.FounderPlayerXMLID),
			in.lenient(oldworld.KindCharacter, r.HeadCharacterXMLID),
			in.lenient(oldworld.KindCity, r.HolyCityXMLID))
		if err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("religions", app.Count())
	return nil
}

func (in *insertion) tribes(rows []extract.TribeRow) error {
	rows = extract.LastWins(rows, func(r extract.TribeRow) string { return r.TribeID })

	app := store.NewAppender(in.tx, "tribes",
		"tribe_id", "match_id", "xml_id",
		"leader_character_id", "allied_player_id", "religion").OrReplace()

	for _, r := range rows {
		// Tribes carry a dense db id in id_mappings too, keyed by the
		// hash of their string ID, but the table's key stays the string.
		in.ids.MapName(oldworld.KindTribe, r.TribeID)
		err := app.Append(r.TribeID, in.matchID, nil,
			in.lenient(oldworld.KindCharacter, r.LeaderCharacterXMLID),
			in.lenient(oldworld.KindPlayer, r.AlliedPlayerXMLID),
			r.Religion)
		if err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("tribes", app.Count())
	return nil
}

// -----------------------------------------------------------------------------
// Diplomacy
// -----------------------------------------------------------------------------

// diplomacy inserts relations with counterpart database IDs left NULL;
// the reference pass resolves player sides once all entities exist.
func (in *insertion) diplomacy(rows []extract.DiplomacyRow) error {
	rows = extract.LastWins(rows, func(r extract.DiplomacyRow) [4]string {
		return [4]string{r.Entity1Type, r.Entity1ID, r.Entity2Type, r.Entity2ID}
	})

	app := store.NewAppender(in.tx, "diplomacy",
		"match_id", "entity1_type", "entity1_id", "entity2_type", "entity2_id",
		"relation", "entity1_db_id", "entity2_db_id",
		"war_score", "last_conflict_turn", "last_diplomacy_turn",
		"diplomacy_blocked_until_turn")

	for _, r := range rows {
		err := app.Append(in.matchID,
			r.Entity1Type, r.Entity1ID, r.Entity2Type, r.Entity2ID,
			r.Relation, nil, nil, nil, nil, nil, nil)
		if err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("diplomacy", app.Count())
	return nil
}

// -----------------------------------------------------------------------------
// Units
// -----------------------------------------------------------------------------

func (in *insertion) units(set *extract.UnitSet) error {
	units := extract.LastWins(set.Units, func(r extract.UnitRow) int { return r.XMLID })

	app := store.NewAppender(in.tx, "units",
		"unit_id", "match_id", "xml_id", "tile_id", "unit_type",
		"player_id", "original_player_id", "tribe",
		"xp", "level", "create_turn", "facing", "turns_since_last_move",
		"gender", "is_sleeping", "current_formation", "seed").OrReplace()

	for _, r := range units {
		id := in.ids.Map(oldworld.KindUnit, r.XMLID)
		tileID, err := in.ids.GetOrErr(oldworld.KindTile, r.TileXMLID,
			fmt.Sprintf("unit %d tile", r.XMLID))
		if err != nil {
			return err
		}
		err = app.Append(
			id, in.matchID, r.XMLID, tileID, r.Type,
			in.lenient(oldworld.KindPlayer, r.PlayerXMLID),
			in.lenient(oldworld.KindPlayer, r.OriginalPlayerXMLID),
			r.Tribe,
			r.XP, r.Level, r.CreateTurn, r.Facing, r.TurnsSinceLastMove,
			r.Gender, r.IsSleeping, r.CurrentFormation, r.Seed)
		if err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("units", app.Count())

	if err := in.unitPromotions(set.Promotions); err != nil {
		return err
	}
	if err := in.unitEffects(set.Effects); err != nil {
		return err
	}
	return in.unitFamilies(set.Families)
}

func (in *insertion) unitPromotions(rows []extract.UnitPromotionRow) error {
	rows = extract.FirstWins(rows, func(r extract.UnitPromotionRow) [2]any {
		return [2]any{r.UnitXMLID, r.Promotion}
	})
	app := store.NewAppender(in.tx, "unit_promotions",
		"match_id", "unit_id", "promotion", "acquired")
	for _, r := range rows {
		id, err := in.ids.GetOrErr(oldworld.KindUnit, r.UnitXMLID, "unit promotion")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.Promotion, r.Acquired); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("unit_promotions", app.Count())
	return nil
}

func (in *insertion) unitEffects(rows []extract.UnitEffectRow) error {
	rows = extract.FirstWins(rows, func(r extract.UnitEffectRow) [2]any {
		return [2]any{r.UnitXMLID, r.Effect}
	})
	app := store.NewAppender(in.tx, "unit_effects",
		"match_id", "unit_id", "effect", "stacks")
	for _, r := range rows {
		id, err := in.ids.GetOrErr(oldworld.KindUnit, r.UnitXMLID, "unit effect")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.Effect, r.Stacks); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("unit_effects", app.Count())
	return nil
}

func (in *insertion) unitFamilies(rows []extract.UnitFamilyRow) error {
	rows = extract.FirstWins(rows, func(r extract.UnitFamilyRow) [2]any {
		return [2]any{r.UnitXMLID, r.PlayerXMLID}
	})
	app := store.NewAppender(in.tx, "unit_families",
		"match_id", "unit_id", "player_id", "family")
	for _, r := range rows {
		unitID, err := in.ids.GetOrErr(oldworld.KindUnit, r.UnitXMLID, "unit family")
		if err != nil {
			return err
		}
		playerID, ok := in.ids.Get(oldworld.KindPlayer, r.PlayerXMLID)
		if !ok {
			in.log.Warn("unit family references unknown player",
				zap.Int("unit", r.UnitXMLID), zap.Int("player", r.PlayerXMLID))
			continue
		}
		if err := app.Append(in.matchID, unitID, playerID, r.Family); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("unit_families", app.Count())
	return nil
}

// -----------------------------------------------------------------------------
// Production counts
// -----------------------------------------------------------------------------

func (in *insertion) playerProduction(rows []extract.PlayerProductionRow) error {
	rows = extract.FirstWins(rows, func(r extract.PlayerProductionRow) [2]any {
		return [2]any{r.PlayerXMLID, r.UnitType}
	})
	app := store.NewAppender(in.tx, "player_units_produced",
		"match_id", "player_id", "unit_type", "count")
	for _, r := range rows {
		id, err := in.ids.GetOrErr(oldworld.KindPlayer, r.PlayerXMLID, "player production")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.UnitType, r.Count); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("player_units_produced", app.Count())
	return nil
}

func (in *insertion) cityProduction(rows []extract.CityProductionRow) error {
	rows = extract.FirstWins(rows, func(r extract.CityProductionRow) [2]any {
		return [2]any{r.CityXMLID, r.UnitType}
	})
	app := store.NewAppender(in.tx, "city_units_produced",
		"match_id", "city_id", "unit_type", "count")
	for _, r := range rows {
		id, err := in.ids.GetOrErr(oldworld.KindCity, r.CityXMLID, "city production")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.UnitType, r.Count); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("city_units_produced", app.Count())
	return nil
}

// -----------------------------------------------------------------------------
// Player gameplay data
// -----------------------------------------------------------------------------

func (in *insertion) playerGameplay(set *extract.PlayerGameplaySet) error {
	if err := in.playerResources(set.Resources); err != nil {
		return err
	}
	if err := in.technologies(set); err != nil {
		return err
	}
	if err := in.playerCouncil(set.Council); err != nil {
		return err
	}
	if err := in.laws(set.Laws); err != nil {
		return err
	}
	return in.playerGoals(set.Goals)
}

func (in *insertion) playerResources(rows []extract.PlayerResourceRow) error {
	rows = extract.LastWins(rows, func(r extract.PlayerResourceRow) [2]any {
		return [2]any{r.PlayerXMLID, r.Yield}
	})
	app := store.NewAppender(in.tx, "player_resources",
		"match_id", "player_id", "resource", "amount")
	for _, r := range rows {
		id, err := in.ids.GetOrErr(oldworld.KindPlayer, r.PlayerXMLID, "player resource")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.Yield, r.Amount); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("player_resources", app.Count())
	return nil
}

func (in *insertion) technologies(set *extract.PlayerGameplaySet) error {
	progress := extract.LastWins(set.TechProgress, func(r extract.TechProgressRow) [2]any {
		return [2]any{r.PlayerXMLID, r.Tech}
	})
	app := store.NewAppender(in.tx, "technology_progress",
		"match_id", "player_id", "technology", "progress")
	for _, r := range progress {
		id, err := in.ids.GetOrErr(oldworld.KindPlayer, r.PlayerXMLID, "tech progress")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.Tech, r.Progress); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("technology_progress", app.Count())

	// The save records which techs are finished but not when; the turn
	// column stays NULL.
	completed := extract.LastWins(set.TechCompleted, func(r extract.TechCompletedRow) [2]any {
		return [2]any{r.PlayerXMLID, r.Tech}
	})
	app = store.NewAppender(in.tx, "technologies_completed",
		"match_id", "player_id", "technology", "turn")
	for _, r := range completed {
		id, err := in.ids.GetOrErr(oldworld.KindPlayer, r.PlayerXMLID, "tech completed")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.Tech, nil); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("technologies_completed", app.Count())

	states := extract.LastWins(set.TechStates, func(r extract.TechStateRow) [2]any {
		return [2]any{r.PlayerXMLID, r.Tech}
	})
	app = store.NewAppender(in.tx, "technology_states",
		"match_id", "player_id", "technology", "state")
	for _, r := range states {
		id, err := in.ids.GetOrErr(oldworld.KindPlayer, r.PlayerXMLID, "tech state")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.Tech, r.State); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("technology_states", app.Count())
	return nil
}

func (in *insertion) playerCouncil(rows []extract.CouncilRow) error {
	rows = extract.LastWins(rows, func(r extract.CouncilRow) [2]any {
		return [2]any{r.PlayerXMLID, r.Seat}
	})
	app := store.NewAppender(in.tx, "player_council",
		"match_id", "player_id", "council_seat", "character_id", "appointed_turn")
	for _, r := range rows {
		playerID, err := in.ids.GetOrErr(oldworld.KindPlayer, r.PlayerXMLID, "council seat")
		if err != nil {
			return err
		}
		characterID, err := in.ids.GetOrErr(oldworld.KindCharacter, r.CharacterXMLID,
			fmt.Sprintf("council seat %s", r.Seat))
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, playerID, r.Seat, characterID, nil); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("player_council", app.Count())
	return nil
}

func (in *insertion) laws(rows []extract.LawRow) error {
	rows = extract.LastWins(rows, func(r extract.LawRow) [2]any {
		return [2]any{r.PlayerXMLID, r.LawClass}
	})
	app := store.NewAppender(in.tx, "laws",
		"match_id", "player_id", "law_class", "law", "enacted_turn")
	for _, r := range rows {
		id, err := in.ids.GetOrErr(oldworld.KindPlayer, r.PlayerXMLID, "law")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.LawClass, r.Law, nil); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("laws", app.Count())
	return nil
}

// playerGoals records ambitions. A <Finished/> marker only tells us the
// goal completed, not when; the started turn stands in for the
// completion turn.
func (in *insertion) playerGoals(rows []extract.PlayerGoalRow) error {
	rows = extract.LastWins(rows, func(r extract.PlayerGoalRow) [2]any {
		return [2]any{r.PlayerXMLID, r.XMLID}
	})
	app := store.NewAppender(in.tx, "player_goals",
		"match_id", "player_id", "xml_id", "goal_type", "leader_character_id",
		"started_turn", "completed_turn", "max_turns", "stats_json")
	for _, r := range rows {
		playerID, err := in.ids.GetOrErr(oldworld.KindPlayer, r.PlayerXMLID, "player goal")
		if err != nil {
			return err
		}
		var completedTurn any
		if r.Finished {
			completedTurn = r.StartedTurn
		}
		err = app.Append(in.matchID, playerID, r.XMLID, r.Type,
			in.lenient(oldworld.KindCharacter, r.LeaderCharacterXMLID),
			r.StartedTurn, completedTurn, r.MaxTurns, r.StatsJSON)
		if err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("player_goals", app.Count())
	return nil
}

// lenient resolves an optional reference, returning NULL both for an
// absent reference and for one pointing outside the document.
func (in *insertion) lenient(kind oldworld.EntityKind, xmlID *int) any {
	if xmlID == nil {
		return nil
	}
	if dbID, ok := in.ids.Get(kind, *xmlID); ok {
		return dbID
	}
	in.log.Debug("dangling reference resolved to NULL",
		zap.String("kind", string(kind)), zap.Int("xml_id", *xmlID))
	return nil
}
