package importer

import (
	"fmt"

	"github.com/perankh/perankh/internal/extract"
	"github.com/perankh/perankh/internal/oldworld"
	"github.com/perankh/perankh/internal/store"
)

// -----------------------------------------------------------------------------
// Character links
// -----------------------------------------------------------------------------

// characterLinks inserts relationships and marriages. Both sides resolve
// strictly: these containers only ever name characters present in the
// same document.
func (in *insertion) characterLinks(rels []extract.RelationshipRow, marriages []extract.MarriageRow) error {
	rels = extract.LastWins(rels, func(r extract.RelationshipRow) [3]any {
		return [3]any{r.CharacterXMLID, r.RelatedCharacterXMLID, r.Type}
	})

	app := store.NewAppender(in.tx, "character_relationships",
		"match_id", "character_id", "related_character_id",
		"relationship_type", "relationship_value", "started_turn")
	for _, r := range rels {
		id, err := in.ids.GetOrErr(oldworld.KindCharacter, r.CharacterXMLID, "relationship")
		if err != nil {
			return err
		}
		relatedID, err := in.ids.GetOrErr(oldworld.KindCharacter, r.RelatedCharacterXMLID,
			fmt.Sprintf("character %d relationship target", r.CharacterXMLID))
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, relatedID, r.Type, r.Value, r.StartedTurn); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("character_relationships", app.Count())

	marriages = extract.FirstWins(marriages, func(r extract.MarriageRow) [2]any {
		return [2]any{r.CharacterXMLID, r.SpouseXMLID}
	})

	app = store.NewAppender(in.tx, "character_marriages",
		"match_id", "character_id", "spouse_id", "married_turn")
	for _, r := range marriages {
		id, err := in.ids.GetOrErr(oldworld.KindCharacter, r.CharacterXMLID, "marriage")
		if err != nil {
			return err
		}
		spouseID, err := in.ids.GetOrErr(oldworld.KindCharacter, r.SpouseXMLID,
			fmt.Sprintf("character %d spouse", r.CharacterXMLID))
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, spouseID, nil); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("character_marriages", app.Count())
	return nil
}

// -----------------------------------------------------------------------------
// City build data
// -----------------------------------------------------------------------------

func (in *insertion) cityBuildData(set *extract.CityBuildSet) error {
	app := store.NewAppender(in.tx, "city_production_queue",
		"match_id", "city_id", "position", "item_type", "item", "progress", "is_repeat")
	for _, r := range set.Queue {
		id, err := in.ids.GetOrErr(oldworld.KindCity, r.CityXMLID, "build queue")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.Position, r.BuildType, r.Item,
			r.Progress, r.IsRepeat); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("city_production_queue", app.Count())

	app = store.NewAppender(in.tx, "city_projects_completed",
		"match_id", "city_id", "project", "count")
	for _, r := range set.Completed {
		id, err := in.ids.GetOrErr(oldworld.KindCity, r.CityXMLID, "completed build")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.Project, r.Count); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("city_projects_completed", app.Count())
	return nil
}

// -----------------------------------------------------------------------------
// Tile details
// -----------------------------------------------------------------------------

// tileDetails inserts visibility and change history. The visible owner
// resolves leniently; a team can remember a player who was eliminated
// and pruned from the save.
func (in *insertion) tileDetails(set *extract.TileDataSet) error {
	visibility := extract.LastWins(set.Visibility, func(r extract.TileVisibilityRow) [2]any {
		return [2]any{r.TileXMLID, r.TeamID}
	})

	app := store.NewAppender(in.tx, "tile_visibility",
		"match_id", "tile_id", "team_id", "revealed_turn", "visible_owner_player_id")
	for _, r := range visibility {
		id, err := in.ids.GetOrErr(oldworld.KindTile, r.TileXMLID, "tile visibility")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.TeamID, r.RevealedTurn,
			in.lenient(oldworld.KindPlayer, r.VisibleOwnerXMLID)); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("tile_visibility", app.Count())

	changes := extract.LastWins(set.Changes, func(r extract.TileChangeRow) [3]any {
		return [3]any{r.TileXMLID, r.Turn, r.ChangeType}
	})

	app = store.NewAppender(in.tx, "tile_changes",
		"match_id", "tile_id", "turn", "change_type", "value")
	for _, r := range changes {
		id, err := in.ids.GetOrErr(oldworld.KindTile, r.TileXMLID, "tile change")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.Turn, r.ChangeType, r.Value); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("tile_changes", app.Count())
	return nil
}

// -----------------------------------------------------------------------------
// Turn histories
// -----------------------------------------------------------------------------

func (in *insertion) timeseries(set *extract.TimeseriesSet) error {
	scalar := []struct {
		table  string
		column string
		points []extract.HistoryPoint
	}{
		{"military_history", "strength", set.Military},
		{"points_history", "points", set.Points},
		{"legitimacy_history", "legitimacy", set.Legitimacy},
	}
	for _, series := range scalar {
		points := extract.LastWins(series.points, func(p extract.HistoryPoint) [2]any {
			return [2]any{p.PlayerXMLID, p.Turn}
		})
		app := store.NewAppender(in.tx, series.table,
			"match_id", "player_id", "turn", series.column)
		for _, p := range points {
			id, err := in.ids.GetOrErr(oldworld.KindPlayer, p.PlayerXMLID, series.table)
			if err != nil {
				return err
			}
			if err := app.Append(in.matchID, id, p.Turn, p.Value); err != nil {
				return err
			}
		}
		if err := app.Flush(); err != nil {
			return err
		}
		in.count(series.table, app.Count())
	}

	rates := extract.LastWins(set.YieldRates, func(p extract.YieldHistoryPoint) [3]any {
		return [3]any{p.PlayerXMLID, p.Yield, p.Turn}
	})
	app := store.NewAppender(in.tx, "yield_history",
		"match_id", "player_id", "turn", "yield_type", "amount")
	for _, p := range rates {
		id, err := in.ids.GetOrErr(oldworld.KindPlayer, p.PlayerXMLID, "yield history")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, p.Turn, p.Yield, p.Amount); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("yield_history", app.Count())

	prices := extract.LastWins(set.YieldPrices, func(p extract.YieldPriceRow) [2]any {
		return [2]any{p.Yield, p.Turn}
	})
	app = store.NewAppender(in.tx, "yield_prices",
		"match_id", "turn", "yield_type", "price")
	for _, p := range prices {
		if err := app.Append(in.matchID, p.Turn, p.Yield, p.Price); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("yield_prices", app.Count())

	if err := in.opinionHistory("family_opinion_history", "family_name",
		set.FamilyOpinions); err != nil {
		return err
	}
	return in.opinionHistory("religion_opinion_history", "religion_name",
		set.ReligionOpinions)
}

// opinionHistory writes one of the two name-keyed opinion tables. The
// subjects key by name, so nothing beyond the player resolves.
func (in *insertion) opinionHistory(table, nameColumn string, points []extract.OpinionHistoryPoint) error {
	points = extract.LastWins(points, func(p extract.OpinionHistoryPoint) [3]any {
		return [3]any{p.PlayerXMLID, p.Name, p.Turn}
	})
	app := store.NewAppender(in.tx, table,
		"match_id", "player_id", nameColumn, "turn", "opinion")
	for _, p := range points {
		id, err := in.ids.GetOrErr(oldworld.KindPlayer, p.PlayerXMLID, table)
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, p.Name, p.Turn, p.Opinion); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count(table, app.Count())
	return nil
}

// -----------------------------------------------------------------------------
// Events
// -----------------------------------------------------------------------------

// events inserts the narrative record. Story events get a dense per-match
// event_id in encounter order; the save itself carries no event identity.
func (in *insertion) events(set *extract.EventSet) error {
	app := store.NewAppender(in.tx, "story_events",
		"match_id", "event_id", "event_type", "player_id", "character_id", "city_id", "turn")
	for i, r := range set.Stories {
		playerID, err := in.ids.GetOrErr(oldworld.KindPlayer, r.PlayerXMLID, "story event")
		if err != nil {
			return err
		}
		var characterID, cityID any
		if r.CharacterXMLID != nil {
			characterID, err = in.ids.GetOrErr(oldworld.KindCharacter, *r.CharacterXMLID,
				"story event character")
			if err != nil {
				return err
			}
		}
		if r.CityXMLID != nil {
			cityID, err = in.ids.GetOrErr(oldworld.KindCity, *r.CityXMLID, "story event city")
			if err != nil {
				return err
			}
		}
		if err := app.Append(in.matchID, i+1, r.EventType, playerID,
			characterID, cityID, r.Turn); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("story_events", app.Count())

	app = store.NewAppender(in.tx, "event_logs",
		"match_id", "player_id", "log_type", "turn",
		"description", "data1", "data2", "data3")
	for _, r := range set.Logs {
		id, err := in.ids.GetOrErr(oldworld.KindPlayer, r.PlayerXMLID, "event log")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.LogType, r.Turn,
			r.Text, r.Data1, r.Data2, r.Data3); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("event_logs", app.Count())

	app = store.NewAppender(in.tx, "memory_data",
		"match_id", "player_id", "memory_type", "turn",
		"target_player_id", "target_character_id",
		"target_family", "target_tribe", "target_religion")
	for _, r := range set.Memories {
		id, err := in.ids.GetOrErr(oldworld.KindPlayer, r.PlayerXMLID, "memory")
		if err != nil {
			return err
		}
		if err := app.Append(in.matchID, id, r.MemoryType, r.Turn,
			in.lenient(oldworld.KindPlayer, r.TargetPlayerXMLID),
			in.lenient(oldworld.KindCharacter, r.TargetCharacterXMLID),
			r.TargetFamily, r.TargetTribe, r.TargetReligion); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	in.count("memory_data", app.Count())
	return nil
}
