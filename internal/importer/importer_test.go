package importer

import (
	"archive/zip"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/perankh/perankh/internal/archive"
	"github.com/perankh/perankh/internal/oldworld"
	"github.com/perankh/perankh/internal/store"
)

const saveXML = `<Root GameId="game-e2e" MapWidth="2">
	<GameName>Punic Wars</GameName>
	<Turn>42</Turn>
	<FamilyClass>
		<FAMILY_BARCID>FAMILYCLASS_TRADERS</FAMILY_BARCID>
	</FamilyClass>
	<Player ID="0" Name="Hiram" Nation="NATION_CARTHAGE" Team="0" AIControlledToTurn="0">
		<FounderCharacterID>10</FounderCharacterID>
		<ChosenHeirID>11</ChosenHeirID>
		<OriginalCapitalCityID>2</OriginalCapitalCityID>
		<FamilyHeadID><FAMILY_BARCID>10</FAMILY_BARCID></FamilyHeadID>
		<FamilySeatCityID><FAMILY_BARCID>2</FAMILY_BARCID></FamilySeatCityID>
		<UnitsProduced><UNIT_WARRIOR>3</UNIT_WARRIOR></UnitsProduced>
		<YieldStockpile><YIELD_CIVICS>120</YIELD_CIVICS></YieldStockpile>
		<TechProgress><TECH_IRONWORKING>400</TECH_IRONWORKING></TechProgress>
		<TechCount><TECH_TRAPPING>1</TECH_TRAPPING></TechCount>
		<TechAvailable><TECH_FORESTRY/></TechAvailable>
		<CouncilCharacter><COUNCIL_CHANCELLOR>11</COUNCIL_CHANCELLOR></CouncilCharacter>
		<ActiveLaw><LAWCLASS_ORDER>LAW_PRIMOGENITURE</LAWCLASS_ORDER></ActiveLaw>
		<GoalList>
			<GoalData>
				<Type>GOAL_SIX_TECHS</Type>
				<ID>0</ID>
				<LeaderID>10</LeaderID>
				<Turn>37</Turn>
				<MaxTurns>20</MaxTurns>
			</GoalData>
		</GoalList>
		<MilitaryPowerHistory><T1>100</T1><T42>560</T42></MilitaryPowerHistory>
		<YieldRateHistory><YIELD_GROWTH><T10>30</T10></YIELD_GROWTH></YieldRateHistory>
		<FamilyOpinionHistory><FAMILY_BARCID><T40>25</T40></FAMILY_BARCID></FamilyOpinionHistory>
		<AllEventStoryTurn><EVENTSTORY_PLAGUE>14</EVENTSTORY_PLAGUE></AllEventStoryTurn>
		<PermanentLogList>
			<LogData>
				<Type>LOG_WAR_DECLARED</Type>
				<Turn>21</Turn>
				<Data1>TRIBE_GAULS</Data1>
				<Data2>None</Data2>
			</LogData>
		</PermanentLogList>
		<MemoryList>
			<MemoryData>
				<Type>MEMORYPLAYER_DECLARED_WAR</Type>
				<Turn>21</Turn>
				<Player>1</Player>
			</MemoryData>
		</MemoryList>
	</Player>
	<Player ID="1" Name="Rival" Team="1" AIControlledToTurn="42"/>
	<Character ID="10" FirstName="Hanno" Player="0">
		<BirthTurn>1</BirthTurn>
		<RelationshipList>
			<RelationshipData>
				<Type>RELATIONSHIP_HEIR</Type>
				<CharacterID>11</CharacterID>
				<Value>40</Value>
			</RelationshipData>
		</RelationshipList>
	</Character>
	<Character ID="11" FirstName="Mago" Player="0">
		<BirthTurn>9</BirthTurn>
		<BirthFatherID>10</BirthFatherID>
		<BirthCityID>2</BirthCityID>
		<EventStoryTurn><EVENTSTORY_ILLNESS>30</EVENTSTORY_ILLNESS></EventStoryTurn>
	</Character>
	<Tile ID="0">
		<Terrain>TERRAIN_LUSH</Terrain>
		<CityTerritory>2</CityTerritory>
		<RevealedTurn><TEAM_0>3</TEAM_0></RevealedTurn>
		<RevealedOwner><TEAM_0>0</TEAM_0></RevealedOwner>
	</Tile>
	<Tile ID="1">
		<CityTerritory>2</CityTerritory>
		<OwnerHistory><T3>0</T3></OwnerHistory>
		<Unit ID="7" Type="UNIT_WARRIOR" Player="0">
			<XP>10</XP>
			<Promotions><PROMOTION_FIERCE/></Promotions>
		</Unit>
	</Tile>
	<Tile ID="2"/>
	<Tile ID="3"/>
	<City ID="2" Player="0" TileID="0" Founded="3">
		<NameType>Carthage</NameType>
		<Capital/>
		<Citizens>4</Citizens>
		<UnitProductionCounts><UNIT_WARRIOR>2</UNIT_WARRIOR></UnitProductionCounts>
		<BuildQueue>
			<QueueInfo>
				<Build>UNIT_WARRIOR</Build>
				<Type>BUILD_UNIT</Type>
				<Progress>80</Progress>
			</QueueInfo>
		</BuildQueue>
		<CompletedBuild>
			<QueueInfo><Build>UNIT_WARRIOR</Build><Type>BUILD_UNIT</Type></QueueInfo>
			<QueueInfo><Build>UNIT_WARRIOR</Build><Type>BUILD_UNIT</Type></QueueInfo>
		</CompletedBuild>
	</City>
	<Tribe ID="TRIBE_GAULS">
		<Religion>RELIGION_PAGANISM</Religion>
	</Tribe>
	<Game>
		<WinningTeam>0</WinningTeam>
		<Victory>VICTORY_CONQUEST</Victory>
		<ReligionFounded><RELIGION_JUDAISM>12</RELIGION_JUDAISM></ReligionFounded>
		<TribeDiplomacy><TRIBE_GAULS.0>DIPLOMACY_WAR</TRIBE_GAULS.0></TribeDiplomacy>
		<TeamDiplomacy><T.0.1>DIPLOMACY_TRUCE</T.0.1></TeamDiplomacy>
		<YieldPriceHistory><YIELD_IRON><T1>8</T1></YIELD_IRON></YieldPriceHistory>
	</Game>
</Root>`

func writeSaveZip(t *testing.T, fs billy.Filesystem, path, xml string) {
	t.Helper()
	f, err := fs.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("OW-Save.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(xml))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func newTestImporter(t *testing.T, xml string) (*Importer, *store.Store, billy.Filesystem) {
	t.Helper()
	log := zaptest.NewLogger(t)

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), 0, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.EnsureReady(context.Background()))

	fs := memfs.New()
	writeSaveZip(t, fs, "/save.zip", xml)

	loader := archive.NewLoader(fs, archive.DefaultLimits(), log)
	return New(s, loader, log), s, fs
}

func TestImportNewMatch(t *testing.T) {
	imp, s, _ := newTestImporter(t, saveXML)
	ctx := context.Background()

	res, err := imp.Import(ctx, "/save.zip")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.IsNew)
	assert.Equal(t, int64(1), res.MatchID)
	assert.Equal(t, "game-e2e", res.GameID)
	assert.Equal(t, int64(2), res.Counts["players"])
	assert.Equal(t, int64(4), res.Counts["tiles"])
	assert.Equal(t, int64(1), res.Counts["units"])

	db := s.DB()

	var match struct {
		GameName       string  `db:"game_name"`
		TotalTurns     int     `db:"total_turns"`
		WinnerPlayerID *int    `db:"winner_player_id"`
		VictoryType    *string `db:"winner_victory_type"`
	}
	require.NoError(t, db.Get(&match, `
		SELECT game_name, total_turns, winner_player_id, winner_victory_type
		FROM matches WHERE match_id = 1`))
	assert.Equal(t, "Punic Wars", match.GameName)
	assert.Equal(t, 42, match.TotalTurns)
	require.NotNil(t, match.WinnerPlayerID)
	assert.Equal(t, 1, *match.WinnerPlayerID, "team 0 resolves to Hiram")
	require.NotNil(t, match.VictoryType)
	assert.Equal(t, "VICTORY_CONQUEST", *match.VictoryType)

	var human bool
	require.NoError(t, db.Get(&human,
		"SELECT is_human FROM players WHERE match_id = 1 AND player_name = 'Hiram'"))
	assert.True(t, human)
	var normalized string
	require.NoError(t, db.Get(&normalized,
		"SELECT player_name_normalized FROM players WHERE xml_id = 0"))
	assert.Equal(t, "hiram", normalized)

	// Reference pass: founder, heir and capital were NULL in pass one.
	var hiram struct {
		Founder *int `db:"founder_character_id"`
		Heir    *int `db:"chosen_heir_id"`
		Capital *int `db:"original_capital_city_id"`
	}
	require.NoError(t, db.Get(&hiram, `
		SELECT founder_character_id, chosen_heir_id, original_capital_city_id
		FROM players WHERE match_id = 1 AND xml_id = 0`))
	require.NotNil(t, hiram.Founder)
	assert.Equal(t, 1, *hiram.Founder, "Hanno is character db id 1")
	require.NotNil(t, hiram.Heir)
	assert.Equal(t, 2, *hiram.Heir, "Mago is character db id 2")
	require.NotNil(t, hiram.Capital)
	assert.Equal(t, 1, *hiram.Capital)

	// Reference pass: Mago's father and birth city were NULL in pass one.
	var mago struct {
		Father *int `db:"birth_father_id"`
		City   *int `db:"birth_city_id"`
	}
	require.NoError(t, db.Get(&mago,
		"SELECT birth_father_id, birth_city_id FROM characters WHERE xml_id = 11"))
	require.NotNil(t, mago.Father)
	assert.Equal(t, 1, *mago.Father, "Hanno is character db id 1")
	require.NotNil(t, mago.City)
	assert.Equal(t, 1, *mago.City)

	var ownedTiles int
	require.NoError(t, db.Get(&ownedTiles,
		"SELECT COUNT(*) FROM tiles WHERE match_id = 1 AND owner_city_id = 1"))
	assert.Equal(t, 2, ownedTiles, "both CityTerritory claims resolved")

	var dip struct {
		E1 *int `db:"entity1_db_id"`
		E2 *int `db:"entity2_db_id"`
	}
	require.NoError(t, db.Get(&dip, `
		SELECT entity1_db_id, entity2_db_id FROM diplomacy
		WHERE entity1_type = 'tribe' AND entity1_id = 'TRIBE_GAULS'`))
	require.NotNil(t, dip.E1)
	require.NotNil(t, dip.E2)
	assert.Equal(t, 1, *dip.E2, "player 0 is db id 1")

	var familyClass string
	require.NoError(t, db.Get(&familyClass,
		"SELECT family_class FROM families WHERE family_name = 'FAMILY_BARCID'"))
	assert.Equal(t, "FAMILYCLASS_TRADERS", familyClass)

	var religionXMLID *int
	require.NoError(t, db.Get(&religionXMLID,
		"SELECT xml_id FROM religions WHERE religion_name = 'RELIGION_JUDAISM'"))
	assert.Nil(t, religionXMLID, "religions have no document id")

	var promotions int
	require.NoError(t, db.Get(&promotions,
		"SELECT COUNT(*) FROM unit_promotions WHERE match_id = 1 AND acquired = 1"))
	assert.Equal(t, 1, promotions)

	var produced int
	require.NoError(t, db.Get(&produced, `
		SELECT count FROM player_units_produced
		WHERE match_id = 1 AND unit_type = 'UNIT_WARRIOR'`))
	assert.Equal(t, 3, produced)

	var law struct {
		Class string `db:"law_class"`
		Law   string `db:"law"`
	}
	require.NoError(t, db.Get(&law,
		"SELECT law_class, law FROM laws WHERE match_id = 1 AND player_id = 1"))
	assert.Equal(t, "LAWCLASS_ORDER", law.Class)
	assert.Equal(t, "LAW_PRIMOGENITURE", law.Law)

	var chancellor int
	require.NoError(t, db.Get(&chancellor, `
		SELECT character_id FROM player_council
		WHERE match_id = 1 AND council_seat = 'COUNCIL_CHANCELLOR'`))
	assert.Equal(t, 2, chancellor, "Mago is character db id 2")

	var techState string
	require.NoError(t, db.Get(&techState,
		"SELECT state FROM technology_states WHERE technology = 'TECH_FORESTRY'"))
	assert.Equal(t, "available", techState)

	var goal struct {
		Leader  *int `db:"leader_character_id"`
		Started int  `db:"started_turn"`
	}
	require.NoError(t, db.Get(&goal, `
		SELECT leader_character_id, started_turn FROM player_goals
		WHERE match_id = 1 AND goal_type = 'GOAL_SIX_TECHS'`))
	require.NotNil(t, goal.Leader)
	assert.Equal(t, 1, *goal.Leader, "Hanno leads the ambition")
	assert.Equal(t, 37, goal.Started)

	var strength int
	require.NoError(t, db.Get(&strength,
		"SELECT strength FROM military_history WHERE match_id = 1 AND turn = 42"))
	assert.Equal(t, 560, strength)

	var growth int
	require.NoError(t, db.Get(&growth, `
		SELECT amount FROM yield_history
		WHERE match_id = 1 AND yield_type = 'YIELD_GROWTH' AND turn = 10`))
	assert.Equal(t, 30, growth)

	var price int
	require.NoError(t, db.Get(&price,
		"SELECT price FROM yield_prices WHERE match_id = 1 AND yield_type = 'YIELD_IRON'"))
	assert.Equal(t, 8, price)

	var opinion struct {
		Family  string `db:"family_name"`
		Opinion int    `db:"opinion"`
	}
	require.NoError(t, db.Get(&opinion, `
		SELECT family_name, opinion FROM family_opinion_history
		WHERE match_id = 1 AND turn = 40`))
	assert.Equal(t, "FAMILY_BARCID", opinion.Family)
	assert.Equal(t, 25, opinion.Opinion)

	var rel struct {
		Related int  `db:"related_character_id"`
		Value   *int `db:"relationship_value"`
	}
	require.NoError(t, db.Get(&rel, `
		SELECT related_character_id, relationship_value FROM character_relationships
		WHERE match_id = 1 AND character_id = 1`))
	assert.Equal(t, 2, rel.Related, "Mago is character db id 2")
	require.NotNil(t, rel.Value)
	assert.Equal(t, 40, *rel.Value)

	var queue struct {
		Item     string `db:"item"`
		Progress int    `db:"progress"`
	}
	require.NoError(t, db.Get(&queue, `
		SELECT item, progress FROM city_production_queue
		WHERE match_id = 1 AND city_id = 1 AND position = 0`))
	assert.Equal(t, "UNIT_WARRIOR", queue.Item)
	assert.Equal(t, 80, queue.Progress)

	var completed int
	require.NoError(t, db.Get(&completed, `
		SELECT count FROM city_projects_completed
		WHERE match_id = 1 AND project = 'BUILD_UNIT.UNIT_WARRIOR'`))
	assert.Equal(t, 2, completed)

	var vis struct {
		RevealedTurn *int `db:"revealed_turn"`
		Owner        *int `db:"visible_owner_player_id"`
	}
	require.NoError(t, db.Get(&vis, `
		SELECT revealed_turn, visible_owner_player_id FROM tile_visibility
		WHERE match_id = 1 AND team_id = 0`))
	require.NotNil(t, vis.RevealedTurn)
	assert.Equal(t, 3, *vis.RevealedTurn)
	require.NotNil(t, vis.Owner)
	assert.Equal(t, 1, *vis.Owner)

	var change struct {
		Type  string `db:"change_type"`
		Value string `db:"value"`
	}
	require.NoError(t, db.Get(&change, `
		SELECT change_type, value FROM tile_changes
		WHERE match_id = 1 AND turn = 3`))
	assert.Equal(t, "owner", change.Type)
	assert.Equal(t, "0", change.Value)

	var stories int
	require.NoError(t, db.Get(&stories, "SELECT COUNT(*) FROM story_events WHERE match_id = 1"))
	assert.Equal(t, 2, stories)
	var illnessChar int
	require.NoError(t, db.Get(&illnessChar, `
		SELECT character_id FROM story_events
		WHERE match_id = 1 AND event_type = 'EVENTSTORY_ILLNESS'`))
	assert.Equal(t, 2, illnessChar, "Mago is character db id 2")

	var logRow struct {
		Data1 *string `db:"data1"`
		Data2 *string `db:"data2"`
	}
	require.NoError(t, db.Get(&logRow, `
		SELECT data1, data2 FROM event_logs
		WHERE match_id = 1 AND log_type = 'LOG_WAR_DECLARED'`))
	require.NotNil(t, logRow.Data1)
	assert.Equal(t, "TRIBE_GAULS", *logRow.Data1)
	assert.Nil(t, logRow.Data2, "the None filler is dropped")

	var memTarget *int
	require.NoError(t, db.Get(&memTarget, `
		SELECT target_player_id FROM memory_data
		WHERE match_id = 1 AND memory_type = 'MEMORYPLAYER_DECLARED_WAR'`))
	require.NotNil(t, memTarget)
	assert.Equal(t, 2, *memTarget, "Rival is player db id 2")

	// The lock row is gone after a successful import.
	var locks int
	require.NoError(t, db.Get(&locks, "SELECT COUNT(*) FROM match_locks"))
	assert.Zero(t, locks)
}

func TestReimportKeepsDatabaseIDs(t *testing.T) {
	imp, s, _ := newTestImporter(t, saveXML)
	ctx := context.Background()

	first, err := imp.Import(ctx, "/save.zip")
	require.NoError(t, err)
	require.True(t, first.IsNew)

	second, err := imp.Import(ctx, "/save.zip")
	require.NoError(t, err)
	assert.False(t, second.IsNew)
	assert.Equal(t, first.MatchID, second.MatchID)

	db := s.DB()

	var playerRows int
	require.NoError(t, db.Get(&playerRows, "SELECT COUNT(*) FROM players WHERE match_id = 1"))
	assert.Equal(t, 2, playerRows, "entities replaced, not duplicated")

	var hiramID int
	require.NoError(t, db.Get(&hiramID,
		"SELECT player_id FROM players WHERE match_id = 1 AND xml_id = 0"))
	assert.Equal(t, 1, hiramID, "database id stable across re-import")

	var promotions int
	require.NoError(t, db.Get(&promotions, "SELECT COUNT(*) FROM unit_promotions"))
	assert.Equal(t, 1, promotions, "derived rows rebuilt, not appended")

	var laws int
	require.NoError(t, db.Get(&laws, "SELECT COUNT(*) FROM laws"))
	assert.Equal(t, 1, laws)

	var military int
	require.NoError(t, db.Get(&military, "SELECT COUNT(*) FROM military_history"))
	assert.Equal(t, 2, military, "history rebuilt, not appended")

	var stories int
	require.NoError(t, db.Get(&stories, "SELECT COUNT(*) FROM story_events"))
	assert.Equal(t, 2, stories)

	var matches int
	require.NoError(t, db.Get(&matches, "SELECT COUNT(*) FROM matches"))
	assert.Equal(t, 1, matches)
}

// Importing the same save twice must produce identical player rows both
// times: forward references land on the first pass through the file,
// not only once id_mappings is warm.
func TestReimportKeepsPlayerReferences(t *testing.T) {
	imp, s, _ := newTestImporter(t, saveXML)
	ctx := context.Background()

	type refs struct {
		Founder *int `db:"founder_character_id"`
		Heir    *int `db:"chosen_heir_id"`
		Capital *int `db:"original_capital_city_id"`
	}
	query := `
		SELECT founder_character_id, chosen_heir_id, original_capital_city_id
		FROM players WHERE match_id = 1 AND xml_id = 0`

	_, err := imp.Import(ctx, "/save.zip")
	require.NoError(t, err)
	var first refs
	require.NoError(t, s.DB().Get(&first, query))
	require.NotNil(t, first.Founder, "founder resolved on the first import")
	require.NotNil(t, first.Heir)
	require.NotNil(t, first.Capital)

	_, err = imp.Import(ctx, "/save.zip")
	require.NoError(t, err)
	var second refs
	require.NoError(t, s.DB().Get(&second, query))
	assert.Equal(t, first, second)
}

// An earlier autosave of a finished game carries no outcome; importing
// it over the finished state must clear the recorded winner.
func TestReimportClearsStaleWinner(t *testing.T) {
	imp, s, fs := newTestImporter(t, saveXML)
	ctx := context.Background()

	_, err := imp.Import(ctx, "/save.zip")
	require.NoError(t, err)

	ongoing := strings.Replace(saveXML, "<WinningTeam>0</WinningTeam>", "", 1)
	ongoing = strings.Replace(ongoing, "<Victory>VICTORY_CONQUEST</Victory>", "", 1)
	writeSaveZip(t, fs, "/ongoing.zip", ongoing)

	_, err = imp.Import(ctx, "/ongoing.zip")
	require.NoError(t, err)

	var match struct {
		WinnerPlayerID *int    `db:"winner_player_id"`
		VictoryType    *string `db:"winner_victory_type"`
	}
	require.NoError(t, s.DB().Get(&match,
		"SELECT winner_player_id, winner_victory_type FROM matches WHERE match_id = 1"))
	assert.Nil(t, match.WinnerPlayerID)
	assert.Nil(t, match.VictoryType)
}

func TestImportCollapsesDuplicateTiles(t *testing.T) {
	imp, s, _ := newTestImporter(t, `<Root GameId="game-dupes" MapWidth="2">
		<Turn>5</Turn>
		<Tile ID="0">
			<Terrain>TERRAIN_LUSH</Terrain>
		</Tile>
		<Tile ID="0">
			<Terrain>TERRAIN_ARID</Terrain>
		</Tile>
		<Tile ID="1"/>
	</Root>`)

	res, err := imp.Import(context.Background(), "/save.zip")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Counts["tiles"])

	var terrain string
	require.NoError(t, s.DB().Get(&terrain,
		"SELECT terrain FROM tiles WHERE match_id = 1 AND xml_id = 0"))
	assert.Equal(t, "TERRAIN_ARID", terrain, "the later duplicate wins")
}

func TestImportFailsWhenLockHeld(t *testing.T) {
	imp, s, _ := newTestImporter(t, saveXML)
	ctx := context.Background()

	_, err := s.AcquireLock(ctx, "game-e2e")
	require.NoError(t, err)

	res, err := imp.Import(ctx, "/save.zip")
	assert.ErrorIs(t, err, oldworld.ErrLockHeld)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)

	var matches int
	require.NoError(t, s.DB().Get(&matches, "SELECT COUNT(*) FROM matches"))
	assert.Zero(t, matches, "nothing written when the lock is held")
}

func TestImportRequiresInitializedSchema(t *testing.T) {
	log := zaptest.NewLogger(t)
	s, err := store.Open(filepath.Join(t.TempDir(), "bare.db"), 0, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/save.zip", zipBytes(t), 0o644))
	imp := New(s, archive.NewLoader(fs, archive.DefaultLimits(), log), log)

	_, err = imp.Import(context.Background(), "/save.zip")
	assert.ErrorIs(t, err, oldworld.ErrSchemaNotInitialized)
}

func TestImportRejectsMissingGameID(t *testing.T) {
	imp, _, _ := newTestImporter(t, `<Root MapWidth="2"><Turn>1</Turn></Root>`)

	_, err := imp.Import(context.Background(), "/save.zip")
	var missing *oldworld.MissingAttributeError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Path, "GameId")
}

func zipBytes(t *testing.T) []byte {
	t.Helper()
	fs := memfs.New()
	writeSaveZip(t, fs, "/tmp.zip", saveXML)
	data, err := util.ReadFile(fs, "/tmp.zip")
	require.NoError(t, err)
	return data
}
