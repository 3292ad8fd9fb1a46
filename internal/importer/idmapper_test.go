package importer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/perankh/perankh/internal/oldworld"
	"github.com/perankh/perankh/internal/store"
)

func TestIDMapperDenseAllocation(t *testing.T) {
	m := NewIDMapper(1)

	assert.Equal(t, 1, m.Map(oldworld.KindPlayer, 100))
	assert.Equal(t, 2, m.Map(oldworld.KindPlayer, 7))
	assert.Equal(t, 1, m.Map(oldworld.KindPlayer, 100), "repeat lookup returns same id")

	// Counters are independent per kind.
	assert.Equal(t, 1, m.Map(oldworld.KindCity, 100))
	assert.Equal(t, 2, m.Map(oldworld.KindCity, 50))
}

func TestIDMapperGetOrErr(t *testing.T) {
	m := NewIDMapper(1)
	m.Map(oldworld.KindTile, 5)

	id, err := m.GetOrErr(oldworld.KindTile, 5, "test")
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	_, err = m.GetOrErr(oldworld.KindTile, 99, "test")
	var unknown *oldworld.UnknownIDError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, oldworld.KindTile, unknown.Kind)
	assert.Equal(t, 99, unknown.ID)
}

func TestStableNameID(t *testing.T) {
	a := StableNameID("FAMILY_BARCID")
	b := StableNameID("FAMILY_BARCID")
	c := StableNameID("FAMILY_MAGONID")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.GreaterOrEqual(t, a, 0)
	assert.GreaterOrEqual(t, c, 0)
}

func TestIDMapperPersistenceRoundtrip(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), 0, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	require.NoError(t, s.EnsureReady(ctx))

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	m := NewIDMapper(3)
	m.Map(oldworld.KindPlayer, 0)
	m.Map(oldworld.KindPlayer, 1)
	m.MapName(oldworld.KindReligion, "RELIGION_JUDAISM")
	require.NoError(t, m.Save(ctx, tx))
	require.NoError(t, tx.Commit())

	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	reloaded := NewIDMapper(3)
	require.NoError(t, reloaded.Load(ctx, tx))

	id, ok := reloaded.Get(oldworld.KindPlayer, 1)
	require.True(t, ok)
	assert.Equal(t, 2, id)
	relID, ok := reloaded.GetName(oldworld.KindReligion, "RELIGION_JUDAISM")
	require.True(t, ok)
	assert.Equal(t, 1, relID)

	// New entities continue past the persisted high-water mark.
	assert.Equal(t, 3, reloaded.Map(oldworld.KindPlayer, 42))
}

func TestIDMapperSaveIsIncremental(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), 0, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	require.NoError(t, s.EnsureReady(ctx))

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	m := NewIDMapper(1)
	m.Map(oldworld.KindCity, 9)
	require.NoError(t, m.Save(ctx, tx))
	// Saving again without new mappings writes nothing, so no duplicate
	// primary key violation.
	require.NoError(t, m.Save(ctx, tx))
	require.NoError(t, tx.Commit())

	var n int
	require.NoError(t, s.DB().Get(&n, "SELECT COUNT(*) FROM id_mappings"))
	assert.Equal(t, 1, n)
}
