package importer

import (
	"context"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// derivedTables lists everything rebuilt from scratch on a re-import,
// children before parents. Core entity tables are not listed: their rows
// carry stable database IDs and are replaced in place.
var derivedTables = []string{
	"unit_promotions",
	"unit_effects",
	"unit_families",
	"character_traits",
	"character_stats",
	"character_relationships",
	"character_marriages",
	"city_production_queue",
	"city_units_produced",
	"city_projects_completed",
	"tile_changes",
	"tile_visibility",
	"player_resources",
	"player_units_produced",
	"player_council",
	"family_opinion_history",
	"religion_opinion_history",
	"technologies_completed",
	"technology_progress",
	"technology_states",
	"laws",
	"diplomacy",
	"player_goals",
	"story_events",
	"event_logs",
	"memory_data",
	"yield_history",
	"points_history",
	"military_history",
	"legitimacy_history",
	"yield_prices",
}

// deleteDerivedData clears a match's derived rows ahead of re-insertion.
func deleteDerivedData(ctx context.Context, tx *sqlx.Tx, matchID int64, log *zap.Logger) error {
	var total int64
	for _, table := range derivedTables {
		db := sqlbuilder.SQLite.NewDeleteBuilder()
		db.DeleteFrom(table)
		db.Where(db.Equal("match_id", matchID))

		query, args := db.Build()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("clear %s for match %d: %w", table, matchID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			total += n
		}
	}
	log.Info("cleared derived data for re-import",
		zap.Int64("match_id", matchID), zap.Int64("rows", total))
	return nil
}
