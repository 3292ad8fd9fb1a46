package savexml

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perankh/perankh/internal/oldworld"
)

func mustParse(t *testing.T, xml string) *Document {
	t.Helper()
	doc, err := Parse([]byte(xml))
	require.NoError(t, err)
	return doc
}

func TestParseRejectsMalformedXML(t *testing.T) {
	_, err := Parse([]byte(`<Root><Player ID="1"></Root>`))

	var malformed *oldworld.MalformedXMLError
	require.True(t, errors.As(err, &malformed))
	assert.NotEmpty(t, malformed.Context)
}

func TestParseRejectsWrongRoot(t *testing.T) {
	_, err := Parse([]byte(`<Save GameId="x"/>`))

	var malformed *oldworld.MalformedXMLError
	require.True(t, errors.As(err, &malformed))
	assert.Contains(t, malformed.Message, "<Root>")
}

func TestParseEmptyDocument(t *testing.T) {
	_, err := Parse([]byte(""))
	require.Error(t, err)
}

func TestNodePath(t *testing.T) {
	doc := mustParse(t, `<Root GameId="g">
		<Player ID="5">
			<Character ID="10"><FirstName>Hanno</FirstName></Character>
		</Player>
	</Root>`)

	player := doc.Root().Children("Player")[0]
	character := player.Children("Character")[0]

	assert.Equal(t, "/Root/Player[ID=5]", player.Path())
	assert.Equal(t, "/Root/Player[ID=5]/Character[ID=10]", character.Path())
}

func TestReqAttrMissing(t *testing.T) {
	doc := mustParse(t, `<Root><Player ID="5"/></Root>`)
	player := doc.Root().Children("Player")[0]

	_, err := player.ReqAttr("Name")
	var missing *oldworld.MissingAttributeError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "/Root/Player[ID=5].Name", missing.Path)
}

func TestReqChildTextMissing(t *testing.T) {
	doc := mustParse(t, `<Root><Player ID="5"/></Root>`)
	player := doc.Root().Children("Player")[0]

	_, err := player.ReqChildText("Legitimacy")
	var missing *oldworld.MissingElementError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "/Root/Player[ID=5]/Legitimacy", missing.Path)
}

func TestTypedHelpers(t *testing.T) {
	doc := mustParse(t, `<Root>
		<Tile ID="23">
			<RiverW>true</RiverW>
			<Citizens>4</Citizens>
			<InitSeed>123456789012</InitSeed>
			<Garbage>not-a-number</Garbage>
			<Road />
		</Tile>
	</Root>`)
	tile := doc.Root().Children("Tile")[0]

	t.Run("req attr int", func(t *testing.T) {
		id, err := tile.ReqAttrInt("ID")
		require.NoError(t, err)
		assert.Equal(t, 23, id)
	})

	t.Run("bool child", func(t *testing.T) {
		assert.True(t, tile.OptChildBool("RiverW", false))
		assert.False(t, tile.OptChildBool("RiverSW", false))
	})

	t.Run("int child default", func(t *testing.T) {
		assert.Equal(t, 4, tile.OptChildInt("Citizens", 1))
		assert.Equal(t, 1, tile.OptChildInt("Missing", 1))
		assert.Equal(t, 7, tile.OptChildInt("Garbage", 7))
	})

	t.Run("int64 child", func(t *testing.T) {
		seed := tile.OptChildInt64Ptr("InitSeed")
		require.NotNil(t, seed)
		assert.Equal(t, int64(123456789012), *seed)
		assert.Nil(t, tile.OptChildInt64Ptr("TurnSeed"))
	})

	t.Run("presence child", func(t *testing.T) {
		assert.True(t, tile.HasChild("Road"))
		assert.False(t, tile.HasChild("Capital"))
	})
}

func TestElementsIteratesMapContainers(t *testing.T) {
	doc := mustParse(t, `<Root>
		<FamilyClass>
			<FAMILY_FABIUS>FAMILYCLASS_CHAMPIONS</FAMILY_FABIUS>
			<FAMILY_VALERIUS>FAMILYCLASS_LANDOWNERS</FAMILY_VALERIUS>
		</FamilyClass>
	</Root>`)

	classes, ok := doc.Root().Child("FamilyClass")
	require.True(t, ok)

	got := map[string]string{}
	for _, el := range classes.Elements() {
		got[el.Tag()] = el.Text()
	}
	assert.Equal(t, map[string]string{
		"FAMILY_FABIUS":   "FAMILYCLASS_CHAMPIONS",
		"FAMILY_VALERIUS": "FAMILYCLASS_LANDOWNERS",
	}, got)
}

func TestContextAround(t *testing.T) {
	data := []byte(strings.Repeat("a", 400))

	t.Run("middle has both affixes", func(t *testing.T) {
		ctx := contextAround(data, 200)
		assert.True(t, strings.HasPrefix(ctx, "..."))
		assert.True(t, strings.HasSuffix(ctx, "..."))
		assert.Len(t, ctx, 2*contextRadius+6)
	})

	t.Run("start has only suffix", func(t *testing.T) {
		ctx := contextAround(data, 0)
		assert.False(t, strings.HasPrefix(ctx, "..."))
		assert.True(t, strings.HasSuffix(ctx, "..."))
	})

	t.Run("short document has no affixes", func(t *testing.T) {
		ctx := contextAround([]byte("tiny"), 2)
		assert.Equal(t, "tiny", ctx)
	})
}
