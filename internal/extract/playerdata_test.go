package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerGameplay(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Player ID="0" Name="Livia">
			<YieldStockpile>
				<YIELD_CIVICS>15595</YIELD_CIVICS>
				<YIELD_TRAINING>4874</YIELD_TRAINING>
			</YieldStockpile>
			<TechProgress>
				<TECH_IRONWORKING>1001</TECH_IRONWORKING>
			</TechProgress>
			<TechCount>
				<TECH_TRAPPING>1</TECH_TRAPPING>
				<TECH_SAILING>0</TECH_SAILING>
			</TechCount>
			<TechAvailable>
				<TECH_FORESTRY/>
			</TechAvailable>
			<TechTarget>
				<TECH_IRONWORKING/>
			</TechTarget>
			<CouncilCharacter>
				<COUNCIL_CHANCELLOR>5</COUNCIL_CHANCELLOR>
			</CouncilCharacter>
			<ActiveLaw>
				<LAWCLASS_ORDER>LAW_PRIMOGENITURE</LAWCLASS_ORDER>
				<LAWCLASS_SLAVERY>LAW_FREEDOM</LAWCLASS_SLAVERY>
			</ActiveLaw>
			<GoalList>
				<GoalData>
					<Type>GOAL_SIX_TECHS</Type>
					<ID>0</ID>
					<LeaderID>4</LeaderID>
					<Turn>37</Turn>
					<MaxTurns>20</MaxTurns>
					<Stats>
						<STAT_TECH_DISCOVERED>5</STAT_TECH_DISCOVERED>
					</Stats>
				</GoalData>
				<GoalData>
					<Type>GOAL_FOUR_CITIES</Type>
					<ID>1</ID>
					<Turn>12</Turn>
					<Finished/>
				</GoalData>
			</GoalList>
		</Player>
		<Player ID="1" Name="Empty"/>
	</Root>`)

	set, err := PlayerGameplay(doc)
	require.NoError(t, err)

	require.Len(t, set.Resources, 2)
	assert.Equal(t, PlayerResourceRow{PlayerXMLID: 0, Yield: "YIELD_CIVICS", Amount: 15595},
		set.Resources[0])

	require.Len(t, set.TechProgress, 1)
	assert.Equal(t, "TECH_IRONWORKING", set.TechProgress[0].Tech)
	assert.Equal(t, 1001, set.TechProgress[0].Progress)

	require.Len(t, set.TechCompleted, 1, "zero counts are not completed techs")
	assert.Equal(t, "TECH_TRAPPING", set.TechCompleted[0].Tech)

	require.Len(t, set.TechStates, 2)
	assert.Equal(t, TechStateRow{PlayerXMLID: 0, Tech: "TECH_FORESTRY", State: "available"},
		set.TechStates[0])
	assert.Equal(t, TechStateRow{PlayerXMLID: 0, Tech: "TECH_IRONWORKING", State: "targeted"},
		set.TechStates[1])

	require.Len(t, set.Council, 1)
	assert.Equal(t, CouncilRow{PlayerXMLID: 0, Seat: "COUNCIL_CHANCELLOR", CharacterXMLID: 5},
		set.Council[0])

	require.Len(t, set.Laws, 2)
	assert.Equal(t, LawRow{PlayerXMLID: 0, LawClass: "LAWCLASS_ORDER", Law: "LAW_PRIMOGENITURE"},
		set.Laws[0])

	require.Len(t, set.Goals, 2)
	six := set.Goals[0]
	assert.Equal(t, "GOAL_SIX_TECHS", six.Type)
	require.NotNil(t, six.LeaderCharacterXMLID)
	assert.Equal(t, 4, *six.LeaderCharacterXMLID)
	assert.Equal(t, 37, six.StartedTurn)
	require.NotNil(t, six.MaxTurns)
	assert.Equal(t, 20, *six.MaxTurns)
	assert.False(t, six.Finished)
	require.NotNil(t, six.StatsJSON)
	assert.Equal(t, `{"STAT_TECH_DISCOVERED":"5"}`, *six.StatsJSON)

	cities := set.Goals[1]
	assert.True(t, cities.Finished)
	assert.Nil(t, cities.LeaderCharacterXMLID)
	assert.Nil(t, cities.MaxTurns)
	assert.Nil(t, cities.StatsJSON)
}

func TestPlayerGameplayEmptyLawText(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Player ID="0" Name="Livia">
			<ActiveLaw>
				<LAWCLASS_ORDER/>
			</ActiveLaw>
		</Player>
	</Root>`)

	_, err := PlayerGameplay(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LAWCLASS_ORDER")
}

func TestPlayerGameplayGoalRequiresType(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Player ID="0" Name="Livia">
			<GoalList>
				<GoalData>
					<ID>0</ID>
					<Turn>3</Turn>
				</GoalData>
			</GoalList>
		</Player>
	</Root>`)

	_, err := PlayerGameplay(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/Type")
}
