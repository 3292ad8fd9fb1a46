package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvents(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Player ID="0" Name="Livia">
			<AllEventStoryTurn>
				<EVENTSTORY_PLAGUE>14</EVENTSTORY_PLAGUE>
			</AllEventStoryTurn>
			<PlayerEventStoryTurn>
				<EVENTSTORY_CORONATION>2</EVENTSTORY_CORONATION>
			</PlayerEventStoryTurn>
			<PermanentLogList>
				<LogData>
					<Type>LOG_WAR_DECLARED</Type>
					<Turn>21</Turn>
					<Text>War with the Gauls</Text>
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
				<MemoryData>
					<Turn>5</Turn>
				</MemoryData>
			</MemoryList>
		</Player>
		<Character ID="10" Player="0">
			<BirthTurn>1</BirthTurn>
			<EventStoryTurn>
				<EVENTSTORY_ILLNESS>30</EVENTSTORY_ILLNESS>
			</EventStoryTurn>
		</Character>
		<Character ID="11">
			<BirthTurn>1</BirthTurn>
			<EventStoryTurn>
				<EVENTSTORY_ORPHANED>4</EVENTSTORY_ORPHANED>
			</EventStoryTurn>
		</Character>
		<City ID="2" Player="0" TileID="0" Founded="3">
			<EventStoryTurn>
				<EVENTSTORY_FIRE>11</EVENTSTORY_FIRE>
			</EventStoryTurn>
		</City>
	</Root>`)

	set, err := Events(doc)
	require.NoError(t, err)

	require.Len(t, set.Stories, 4, "ownerless character events are skipped")
	assert.Equal(t, StoryEventRow{EventType: "EVENTSTORY_PLAGUE", Turn: 14, PlayerXMLID: 0},
		set.Stories[0])
	assert.Equal(t, "EVENTSTORY_CORONATION", set.Stories[1].EventType)

	illness := set.Stories[2]
	assert.Equal(t, "EVENTSTORY_ILLNESS", illness.EventType)
	require.NotNil(t, illness.CharacterXMLID)
	assert.Equal(t, 10, *illness.CharacterXMLID)
	assert.Nil(t, illness.CityXMLID)

	fire := set.Stories[3]
	assert.Equal(t, "EVENTSTORY_FIRE", fire.EventType)
	require.NotNil(t, fire.CityXMLID)
	assert.Equal(t, 2, *fire.CityXMLID)

	require.Len(t, set.Logs, 1)
	log := set.Logs[0]
	assert.Equal(t, "LOG_WAR_DECLARED", log.LogType)
	assert.Equal(t, 21, log.Turn)
	require.NotNil(t, log.Text)
	assert.Equal(t, "War with the Gauls", *log.Text)
	require.NotNil(t, log.Data1)
	assert.Equal(t, "TRIBE_GAULS", *log.Data1)
	assert.Nil(t, log.Data2, "the None filler is dropped")
	assert.Nil(t, log.Data3)

	require.Len(t, set.Memories, 1, "a memory without a type is skipped")
	mem := set.Memories[0]
	assert.Equal(t, "MEMORYPLAYER_DECLARED_WAR", mem.MemoryType)
	require.NotNil(t, mem.Turn)
	assert.Equal(t, 21, *mem.Turn)
	require.NotNil(t, mem.TargetPlayerXMLID)
	assert.Equal(t, 1, *mem.TargetPlayerXMLID)
	assert.Nil(t, mem.TargetFamily)
}

func TestEventsLogRequiresType(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<Player ID="0" Name="Livia">
			<PermanentLogList>
				<LogData>
					<Turn>21</Turn>
				</LogData>
			</PermanentLogList>
		</Player>
	</Root>`)

	_, err := Events(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/Type")
}
