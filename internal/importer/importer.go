package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/perankh/perankh/internal/archive"
	"github.com/perankh/perankh/internal/extract"
	"github.com/perankh/perankh/internal/oldworld"
	"github.com/perankh/perankh/internal/savexml"
	"github.com/perankh/perankh/internal/store"
)

// ImportResult is the outcome of one save import.
type ImportResult struct {
	Success bool             `json:"success"`
	MatchID int64            `json:"match_id,omitempty"`
	GameID  string           `json:"game_id,omitempty"`
	IsNew   bool             `json:"is_new"`
	Counts  map[string]int64 `json:"counts,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Importer drives a save file through the full pipeline: archive load,
// document parse, lock, extraction, and two-pass insertion.
type Importer struct {
	store  *store.Store
	loader *archive.Loader
	log    *zap.Logger
}

func New(st *store.Store, loader *archive.Loader, log *zap.Logger) *Importer {
	return &Importer{store: st, loader: loader, log: log.Named("importer")}
}

// processLocks serializes imports of the same game within this process.
// The database lock row guards against other processes; this guards
// against concurrent calls sharing our connection.
var (
	processLocksMu sync.Mutex
	processLocks   = make(map[string]*sync.Mutex)
)

func processLock(gameID string) *sync.Mutex {
	processLocksMu.Lock()
	defer processLocksMu.Unlock()
	mu, ok := processLocks[gameID]
	if !ok {
		mu = &sync.Mutex{}
		processLocks[gameID] = mu
	}
	return mu
}

// Import ingests the save archive at path. The returned result is
// populated even on failure so callers can report what was attempted.
func (imp *Importer) Import(ctx context.Context, path string) (*ImportResult, error) {
	res, err := imp.run(ctx, path)
	if err != nil {
		if res == nil {
			res = &ImportResult{}
		}
		res.Success = false
		res.Error = err.Error()
		return res, err
	}
	res.Success = true
	return res, nil
}

func (imp *Importer) run(ctx context.Context, path string) (*ImportResult, error) {
	save, err := imp.loader.Load(path)
	if err != nil {
		return nil, err
	}

	doc, err := savexml.Parse(save.XML)
	if err != nil {
		return nil, err
	}
	root := doc.Root()

	gameID, err := root.ReqAttr("GameId")
	if err != nil {
		return nil, err
	}
	res := &ImportResult{GameID: gameID}
	imp.log.Info("importing save",
		zap.String("file", save.FileName), zap.String("game_id", gameID))

	mu := processLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	if err := imp.store.RequireSchema(ctx); err != nil {
		return res, err
	}

	token, err := imp.store.AcquireLock(ctx, gameID)
	if err != nil {
		return res, err
	}
	defer func() {
		if rerr := imp.store.ReleaseLock(context.WithoutCancel(ctx), gameID, token); rerr != nil {
			imp.log.Warn("failed to release import lock", zap.Error(rerr))
		}
	}()

	tx, err := imp.store.Begin(ctx)
	if err != nil {
		return res, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	matchID, isNew, err := resolveMatch(ctx, tx, gameID)
	if err != nil {
		return res, err
	}
	res.MatchID = matchID
	res.IsNew = isNew

	ids := NewIDMapper(matchID)
	if !isNew {
		if err := ids.Load(ctx, tx); err != nil {
			return res, err
		}
		if err := deleteDerivedData(ctx, tx, matchID, imp.log); err != nil {
			return res, err
		}
	}

	if err := upsertMatch(ctx, tx, matchID, gameID, save, root); err != nil {
		return res, err
	}

	ext, err := extractAll(ctx, doc)
	if err != nil {
		return res, err
	}

	in := &insertion{
		tx:      tx,
		ids:     ids,
		matchID: matchID,
		log:     imp.log,
		counts:  make(map[string]int64),
	}
	if err := in.insertAll(ext); err != nil {
		return res, err
	}

	// Reference pass: fill forward references now that every row exists.
	if err := in.playerRefs(ext.players); err != nil {
		return res, err
	}
	if err := in.characterRefs(ext.characters); err != nil {
		return res, err
	}
	if err := in.tileOwnership(ext.tiles); err != nil {
		return res, err
	}
	if err := in.diplomacyRefs(ext.diplomacy); err != nil {
		return res, err
	}
	if err := in.matchWinner(ctx, ext); err != nil {
		return res, err
	}

	if err := ids.Save(ctx, tx); err != nil {
		return res, err
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("commit import: %w", err)
	}
	committed = true
	res.Counts = in.counts

	imp.log.Info("import complete",
		zap.Int64("match_id", matchID), zap.Bool("new", isNew),
		zap.Int64("players", in.counts["players"]),
		zap.Int64("tiles", in.counts["tiles"]))
	return res, nil
}

// -----------------------------------------------------------------------------
// Match resolution
// -----------------------------------------------------------------------------

func resolveMatch(ctx context.Context, tx *sqlx.Tx, gameID string) (int64, bool, error) {
	var matchID int64
	err := tx.GetContext(ctx, &matchID,
		"SELECT match_id FROM matches WHERE game_id = ?", gameID)
	if err == nil {
		return matchID, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("resolve match for %s: %w", gameID, err)
	}

	if err := tx.GetContext(ctx, &matchID,
		"SELECT COALESCE(MAX(match_id), 0) + 1 FROM matches"); err != nil {
		return 0, false, fmt.Errorf("allocate match id: %w", err)
	}
	return matchID, true, nil
}

func upsertMatch(ctx context.Context, tx *sqlx.Tx, matchID int64, gameID string, save *archive.Save, root savexml.Node) error {
	gameName := root.OptChildString("GameName")
	totalTurns := root.OptChildInt("Turn", 0)

	_, err := tx.ExecContext(ctx, `
		INSERT INTO matches (match_id, file_name, file_hash, game_id, game_name, total_turns)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (match_id) DO UPDATE SET
			file_name = excluded.file_name,
			file_hash = excluded.file_hash,
			game_name = excluded.game_name,
			total_turns = excluded.total_turns,
			processed_date = datetime('now')`,
		matchID, save.FileName, save.SHA256, gameID, gameName, totalTurns)
	if err != nil {
		return fmt.Errorf("upsert match %d: %w", matchID, err)
	}
	return nil
}

// matchWinner records the game outcome on the match row. The winning
// team maps to the first player on that team. The update runs even when
// the save holds no outcome: re-importing an earlier autosave of a
// finished game must clear the stale winner, not keep it.
func (in *insertion) matchWinner(ctx context.Context, ext *extraction) error {
	var winnerID any
	if ext.winner.WinningTeam != nil {
		team := strconv.Itoa(*ext.winner.WinningTeam)
		for _, p := range ext.players {
			if p.TeamID != nil && *p.TeamID == team {
				if dbID, ok := in.ids.Get(oldworld.KindPlayer, p.XMLID); ok {
					winnerID = dbID
				}
				break
			}
		}
	}

	_, err := in.tx.ExecContext(ctx, `
		UPDATE matches SET winner_player_id = ?, winner_victory_type = ?
		WHERE match_id = ?`,
		winnerID, ext.winner.VictoryType, in.matchID)
	if err != nil {
		return fmt.Errorf("record match winner: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Extraction
// -----------------------------------------------------------------------------

// extraction carries every extractor's output between the parallel
// extract stage and the serial insert stage.
type extraction struct {
	players    []extract.PlayerRow
	characters []extract.CharacterRow
	cities     []extract.CityRow
	tiles      []extract.TileRow

	families  []extract.FamilyRow
	religions []extract.ReligionRow
	tribes    []extract.TribeRow

	diplomacy  []extract.DiplomacyRow
	units      *extract.UnitSet
	charStats  []extract.CharacterStatRow
	charTraits []extract.CharacterTraitRow
	charRels   []extract.RelationshipRow
	marriages  []extract.MarriageRow
	playerProd []extract.PlayerProductionRow
	cityProd   []extract.CityProductionRow
	gameplay   *extract.PlayerGameplaySet
	cityBuilds *extract.CityBuildSet
	tileData   *extract.TileDataSet
	timeseries *extract.TimeseriesSet
	events     *extract.EventSet
	winner     extract.Winner
}

// extractAll fans out twice: once over the foundation entities, once
// over the affiliations. The document tree is immutable, so workers
// share it without coordination. The detail extractors that remain run
// here on the orchestrating goroutine.
func extractAll(ctx context.Context, doc *savexml.Document) (*extraction, error) {
	ext := &extraction{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) { ext.players, err = extract.Players(doc); return })
	g.Go(func() (err error) { ext.characters, err = extract.Characters(doc); return })
	g.Go(func() (err error) { ext.cities, err = extract.Cities(doc); return })
	g.Go(func() (err error) { ext.tiles, err = extract.Tiles(doc); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	g, _ = errgroup.WithContext(ctx)
	g.Go(func() (err error) { ext.families, err = extract.Families(doc); return })
	g.Go(func() (err error) { ext.religions, err = extract.Religions(doc); return })
	g.Go(func() (err error) { ext.tribes, err = extract.Tribes(doc); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var err error
	if ext.diplomacy, err = extract.Diplomacy(doc); err != nil {
		return nil, err
	}
	if ext.units, err = extract.Units(doc); err != nil {
		return nil, err
	}
	if ext.charStats, err = extract.CharacterStats(doc); err != nil {
		return nil, err
	}
	if ext.charTraits, err = extract.CharacterTraits(doc); err != nil {
		return nil, err
	}
	if ext.charRels, err = extract.CharacterRelationships(doc); err != nil {
		return nil, err
	}
	if ext.marriages, err = extract.CharacterMarriages(doc); err != nil {
		return nil, err
	}
	if ext.playerProd, err = extract.PlayerProduction(doc); err != nil {
		return nil, err
	}
	if ext.cityProd, err = extract.CityProduction(doc); err != nil {
		return nil, err
	}
	if ext.gameplay, err = extract.PlayerGameplay(doc); err != nil {
		return nil, err
	}
	if ext.cityBuilds, err = extract.CityBuilds(doc); err != nil {
		return nil, err
	}
	if ext.tileData, err = extract.TileData(doc); err != nil {
		return nil, err
	}
	if ext.timeseries, err = extract.Timeseries(doc); err != nil {
		return nil, err
	}
	if ext.events, err = extract.Events(doc); err != nil {
		return nil, err
	}

	ext.winner = extract.GameWinner(doc)
	return ext, nil
}

// insertAll writes pass one in dependency order: entities before the
// detail tables that reference them, tiles before the cities standing
// on them.
func (in *insertion) insertAll(ext *extraction) error {
	if err := in.players(ext.players); err != nil {
		return err
	}
	if err := in.characters(ext.characters); err != nil {
		return err
	}
	if err := in.tiles(ext.tiles); err != nil {
		return err
	}
	if err := in.cities(ext.cities); err != nil {
		return err
	}
	if err := in.families(ext.families); err != nil {
		return err
	}
	if err := in.religions(ext.religions); err != nil {
		return err
	}
	if err := in.tribes(ext.tribes); err != nil {
		return err
	}
	if err := in.diplomacy(ext.diplomacy); err != nil {
		return err
	}
	if err := in.units(ext.units); err != nil {
		return err
	}
	if err := in.playerProduction(ext.playerProd); err != nil {
		return err
	}
	if err := in.cityProduction(ext.cityProd); err != nil {
		return err
	}
	if err := in.playerGameplay(ext.gameplay); err != nil {
		return err
	}
	if err := in.characterStats(ext.charStats); err != nil {
		return err
	}
	if err := in.characterTraits(ext.charTraits); err != nil {
		return err
	}
	if err := in.characterLinks(ext.charRels, ext.marriages); err != nil {
		return err
	}
	if err := in.cityBuildData(ext.cityBuilds); err != nil {
		return err
	}
	if err := in.tileDetails(ext.tileData); err != nil {
		return err
	}
	if err := in.timeseries(ext.timeseries); err != nil {
		return err
	}
	return in.events(ext.events)
}
