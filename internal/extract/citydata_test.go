package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCityBuilds(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<City ID="2" Player="0" TileID="0" Founded="3">
			<NameType>Carthage</NameType>
			<BuildQueue>
				<QueueInfo>
					<Build>UNIT_WARRIOR</Build>
					<Type>BUILD_UNIT</Type>
					<Progress>80</Progress>
				</QueueInfo>
				<QueueInfo>
					<Build>PROJECT_FESTIVAL</Build>
					<Type>BUILD_PROJECT</Type>
					<IsRepeat>1</IsRepeat>
				</QueueInfo>
			</BuildQueue>
			<CompletedBuild>
				<QueueInfo>
					<Build>UNIT_WARRIOR</Build>
					<Type>BUILD_UNIT</Type>
				</QueueInfo>
				<QueueInfo>
					<Build>UNIT_WARRIOR</Build>
					<Type>BUILD_UNIT</Type>
				</QueueInfo>
				<QueueInfo>
					<Type>BUILD_PROJECT</Type>
				</QueueInfo>
			</CompletedBuild>
		</City>
	</Root>`)

	set, err := CityBuilds(doc)
	require.NoError(t, err)

	require.Len(t, set.Queue, 2)
	assert.Equal(t, CityQueueRow{
		CityXMLID: 2, Position: 0,
		BuildType: "BUILD_UNIT", Item: "UNIT_WARRIOR", Progress: 80,
	}, set.Queue[0])
	assert.Equal(t, 1, set.Queue[1].Position)
	assert.True(t, set.Queue[1].IsRepeat)

	require.Len(t, set.Completed, 2, "repeats aggregate to one count")
	assert.Equal(t, CityProjectRow{CityXMLID: 2, Project: "BUILD_UNIT.UNIT_WARRIOR", Count: 2},
		set.Completed[0])
	assert.Equal(t, CityProjectRow{CityXMLID: 2, Project: "BUILD_PROJECT.UNKNOWN", Count: 1},
		set.Completed[1])
}

func TestCityBuildsQueueRequiresBuild(t *testing.T) {
	doc := parseDoc(t, `<Root GameId="g">
		<City ID="2" Player="0" TileID="0" Founded="3">
			<BuildQueue>
				<QueueInfo>
					<Type>BUILD_UNIT</Type>
				</QueueInfo>
			</BuildQueue>
		</City>
	</Root>`)

	_, err := CityBuilds(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/Build")
}
