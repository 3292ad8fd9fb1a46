package oldworld

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&MissingAttributeError{Path: "/Root/Player[ID=5].Name"},
			"missing required attribute: /Root/Player[ID=5].Name"},
		{&MissingElementError{Path: "/Root/Character[ID=10]/BirthTurn"},
			"missing required element: /Root/Character[ID=10]/BirthTurn"},
		{&ArchiveStructureError{Reason: "no XML entry"},
			"invalid archive structure: no XML entry"},
		{&FileTooLargeError{Size: 200, Max: 100},
			"file too large: 200 bytes (max 100)"},
		{&SecurityViolationError{Reason: "path traversal in entry"},
			"security violation: path traversal in entry"},
		{&UnknownIDError{Kind: KindTile, ID: 7, Context: "city 2 tile"},
			`unknown tile ID 7 (city 2 tile)`},
		{&UnknownIDError{Kind: KindReligion, Name: "RELIGION_X", Context: "holy city"},
			`unknown religion "RELIGION_X" (holy city)`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Error())
	}
}

func TestInvalidFormatUnwraps(t *testing.T) {
	cause := errors.New("strconv failure")
	err := &InvalidFormatError{Path: "/Root/Tile[ID=1]/InitSeed", Value: "abc", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestSchemaUpgradeError(t *testing.T) {
	err := &SchemaUpgradeError{Found: "1.0.0", Want: "2.11.0"}
	assert.Contains(t, err.Error(), "1.0.0")
	assert.Contains(t, err.Error(), "2.11.0")

	wrapped := fmt.Errorf("ensure: %w", err)
	var target *SchemaUpgradeError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "2.11.0", target.Want)
}

func TestNormalizeID(t *testing.T) {
	assert.Nil(t, NormalizeID(IDNone))
	assert.Nil(t, NormalizeID(-7))
	v := NormalizeID(0)
	require.NotNil(t, v)
	assert.Equal(t, 0, *v)
}
