// Package extract turns a parsed save document into typed row values.
// Extractors are pure: they read the shared document tree, never touch the
// database, and carry in-document IDs only. The importer owns ID mapping.
package extract

// PlayerRow is one <Player> element.
type PlayerRow struct {
	XMLID                 int
	Name                  string
	Nation                *string
	Dynasty               *string
	TeamID                *string
	IsHuman               bool
	OnlineID              *string
	Email                 *string
	Difficulty            *string
	LastTurnCompleted     *int
	TurnEnded             bool
	Legitimacy            *int
	TimeStockpile         *int
	StateReligion         *string
	SuccessionGender      *string
	FounderCharacterXMLID *int
	ChosenHeirXMLID       *int
	OriginalCapitalXMLID  *int
	TechResearching       *string
	AmbitionDelay         *int
	TilesPurchased        int
	StateReligionChanges  int
	TribeMercenariesHired int
}

// CharacterRow is one <Character> element.
type CharacterRow struct {
	XMLID            int
	FirstName        *string
	Gender           *string
	PlayerXMLID      *int
	BirthTurn        int
	Tribe            *string
	DeathTurn        *int
	DeathReason      *string
	BirthFatherXMLID *int
	BirthMotherXMLID *int
	BirthCityXMLID   *int
	Family           *string
	Nation           *string
	Religion         *string
	Cognomen         *string
	Archetype        *string
	Portrait         *string
	XP               int
	Level            int
	IsRoyal          bool
	IsInfertile      bool
	BecameLeaderTurn *int
}

// CharacterStatRow is one entry of a character's Rating or Stat container.
type CharacterStatRow struct {
	CharacterXMLID int
	StatName       string
	StatValue      int
}

// CharacterTraitRow is one entry of a character's TraitTurn container.
type CharacterTraitRow struct {
	CharacterXMLID int
	TraitName      string
	AcquiredTurn   int
}

// CityRow is one <City> element.
type CityRow struct {
	XMLID                int
	PlayerXMLID          *int
	TileXMLID            int
	Name                 string
	Family               *string
	FoundedTurn          int
	IsCapital            bool
	Citizens             int
	GovernorXMLID        *int
	GovernorTurn         *int
	HurryCivicsCount     int
	HurryMoneyCount      int
	HurryTrainingCount   int
	HurryPopulationCount int
	SpecialistCount      int
	GrowthCount          int
	UnitProductionCount  int
	BuyTileCount         int
	FirstOwnerXMLID      *int
	LastOwnerXMLID       *int
}

// TileRow is one <Tile> element. X/Y are derived from the tile ID and the
// root MapWidth attribute.
type TileRow struct {
	XMLID                int
	X                    int
	Y                    int
	Terrain              *string
	Height               *string
	Vegetation           *string
	RiverW               bool
	RiverSW              bool
	RiverSE              bool
	Resource             *string
	Improvement          *string
	ImprovementPillaged  bool
	ImprovementDisabled  bool
	ImprovementTurnsLeft *int
	Specialist           *string
	HasRoad              bool
	OwnerPlayerXMLID     *int
	CityTerritoryXMLID   *int
	TribeSite            *string
	Religion             *string
	InitSeed             *int64
	TurnSeed             *int64
}

// FamilyRow is one family of one player, assembled from the global
// FamilyClass map and the per-player family containers.
type FamilyRow struct {
	Name               string
	Class              string
	PlayerXMLID        int
	HeadCharacterXMLID *int
	SeatCityXMLID      *int
	TurnsWithoutLeader int
}

// ReligionRow is one religion aggregated by name from the Game containers.
type ReligionRow struct {
	Name               string
	FoundedTurn        *int
	FounderPlayerXMLID *int
	HeadCharacterXMLID *int
	HolyCityXMLID      *int
}

// TribeRow is one <Tribe> element. Tribes carry string IDs, not numbers.
type TribeRow struct {
	TribeID              string
	LeaderCharacterXMLID *int
	AlliedPlayerXMLID    *int
	Religion             *string
}

// DiplomacyRow is one relation from TribeDiplomacy or TeamDiplomacy.
// Entity IDs stay as strings because one side may be a tribe name.
type DiplomacyRow struct {
	Entity1Type string
	Entity1ID   string
	Entity2Type string
	Entity2ID   string
	Relation    string
}

// UnitRow is one <Unit> element nested under a tile.
type UnitRow struct {
	XMLID               int
	TileXMLID           int
	Type                string
	PlayerXMLID         *int
	Tribe               *string
	Seed                *int64
	XP                  int
	Level               int
	CreateTurn          *int
	Facing              *string
	OriginalPlayerXMLID *int
	TurnsSinceLastMove  *int
	Gender              *string
	IsSleeping          bool
	CurrentFormation    *string
}

// UnitPromotionRow is one promotion held or available to a unit.
type UnitPromotionRow struct {
	UnitXMLID int
	Promotion string
	Acquired  bool
}

// UnitEffectRow is one bonus-effect stack on a unit.
type UnitEffectRow struct {
	UnitXMLID int
	Effect    string
	Stacks    int
}

// UnitFamilyRow binds a unit to a family for one player.
type UnitFamilyRow struct {
	UnitXMLID   int
	PlayerXMLID int
	Family      string
}

// PlayerProductionRow is one unit type's lifetime production count for a
// player.
type PlayerProductionRow struct {
	PlayerXMLID int
	UnitType    string
	Count       int
}

// CityProductionRow is one unit type's production count for a city.
type CityProductionRow struct {
	CityXMLID int
	UnitType  string
	Count     int
}

// PlayerResourceRow is one yield type's stockpile amount for a player.
type PlayerResourceRow struct {
	PlayerXMLID int
	Yield       string
	Amount      int
}

// TechProgressRow is one partially researched technology.
type TechProgressRow struct {
	PlayerXMLID int
	Tech        string
	Progress    int
}

// TechCompletedRow is one finished technology.
type TechCompletedRow struct {
	PlayerXMLID int
	Tech        string
}

// TechStateRow is one technology's research-queue state.
type TechStateRow struct {
	PlayerXMLID int
	Tech        string
	State       string
}

// CouncilRow is one filled council seat; the seat is the container
// entry's tag (COUNCIL_CHANCELLOR and friends).
type CouncilRow struct {
	PlayerXMLID    int
	Seat           string
	CharacterXMLID int
}

// LawRow is one active law keyed by its law-class slot.
type LawRow struct {
	PlayerXMLID int
	LawClass    string
	Law         string
}

// PlayerGoalRow is one ambition from a player's GoalList.
type PlayerGoalRow struct {
	PlayerXMLID          int
	XMLID                int
	Type                 string
	LeaderCharacterXMLID *int
	StartedTurn          int
	Finished             bool
	MaxTurns             *int
	StatsJSON            *string
}

// HistoryPoint is one turn sample of a per-player scalar history.
type HistoryPoint struct {
	PlayerXMLID int
	Turn        int
	Value       int
}

// YieldHistoryPoint is one turn sample of a per-player, per-yield rate.
type YieldHistoryPoint struct {
	PlayerXMLID int
	Yield       string
	Turn        int
	Amount      int
}

// OpinionHistoryPoint is one turn sample of a family's or religion's
// opinion of a player. The subject keys by name, matching the opinion
// tables.
type OpinionHistoryPoint struct {
	PlayerXMLID int
	Name        string
	Turn        int
	Opinion     int
}

// YieldPriceRow is one turn's market price for a yield.
type YieldPriceRow struct {
	Yield string
	Turn  int
	Price int
}

// RelationshipRow is one RelationshipData entry of a character.
type RelationshipRow struct {
	CharacterXMLID        int
	RelatedCharacterXMLID int
	Type                  string
	Value                 *int
	StartedTurn           *int
}

// MarriageRow binds a character to one spouse. The save does not record
// when the marriage happened.
type MarriageRow struct {
	CharacterXMLID int
	SpouseXMLID    int
}

// CityQueueRow is one pending entry of a city's build queue.
type CityQueueRow struct {
	CityXMLID int
	Position  int
	BuildType string
	Item      string
	Progress  int
	IsRepeat  bool
}

// CityProjectRow is one kind of completed build, aggregated to a count.
type CityProjectRow struct {
	CityXMLID int
	Project   string
	Count     int
}

// TileVisibilityRow is one team's reveal state for a tile.
type TileVisibilityRow struct {
	TileXMLID         int
	TeamID            int
	RevealedTurn      *int
	VisibleOwnerXMLID *int
}

// TileChangeRow is one historical change to a tile.
type TileChangeRow struct {
	TileXMLID  int
	Turn       int
	ChangeType string
	Value      string
}

// StoryEventRow is one event-story occurrence tied to a player and
// optionally a character or city.
type StoryEventRow struct {
	EventType      string
	Turn           int
	PlayerXMLID    int
	CharacterXMLID *int
	CityXMLID      *int
}

// EventLogRow is one PermanentLog entry of a player.
type EventLogRow struct {
	PlayerXMLID int
	LogType     string
	Turn        int
	Text        *string
	Data1       *string
	Data2       *string
	Data3       *string
}

// MemoryRow is one remembered deed from a player's MemoryList.
type MemoryRow struct {
	PlayerXMLID          int
	MemoryType           string
	Turn                 *int
	TargetPlayerXMLID    *int
	TargetCharacterXMLID *int
	TargetFamily         *string
	TargetTribe          *string
	TargetReligion       *string
}

// Winner captures the end-of-game outcome when the save holds one.
type Winner struct {
	WinningTeam *int
	VictoryType *string
}
