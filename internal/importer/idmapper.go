// Package importer orchestrates a save import end to end: lock, match
// resolution, parallel extraction, ID mapping, and two-pass insertion.
package importer

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/jmoiron/sqlx"

	"github.com/perankh/perankh/internal/oldworld"
	"github.com/perankh/perankh/internal/store"
)

// IDMapper translates in-document IDs into dense per-match database IDs.
// Mappings persist in id_mappings so a re-imported save assigns the same
// database ID to the same entity.
type IDMapper struct {
	matchID int64
	ids     map[oldworld.EntityKind]map[int]int
	next    map[oldworld.EntityKind]int
	dirty   []mappingRow
}

type mappingRow struct {
	kind  oldworld.EntityKind
	xmlID int
	dbID  int
}

// NewIDMapper returns an empty mapper for one match. Counters start at 1;
// zero never appears as a database ID.
func NewIDMapper(matchID int64) *IDMapper {
	return &IDMapper{
		matchID: matchID,
		ids:     make(map[oldworld.EntityKind]map[int]int),
		next:    make(map[oldworld.EntityKind]int),
	}
}

// Load seeds the mapper from persisted mappings of a previous import of
// the same match. Counters resume past the highest assigned ID per kind.
func (m *IDMapper) Load(ctx context.Context, tx *sqlx.Tx) error {
	rows, err := tx.QueryContext(ctx,
		"SELECT entity_type, xml_id, db_id FROM id_mappings WHERE match_id = ?", m.matchID)
	if err != nil {
		return fmt.Errorf("load id mappings for match %d: %w", m.matchID, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			kind        string
			xmlID, dbID int
		)
		if err := rows.Scan(&kind, &xmlID, &dbID); err != nil {
			return fmt.Errorf("scan id mapping: %w", err)
		}
		k := oldworld.EntityKind(kind)
		if m.ids[k] == nil {
			m.ids[k] = make(map[int]int)
		}
		m.ids[k][xmlID] = dbID
		if dbID >= m.next[k] {
			m.next[k] = dbID + 1
		}
	}
	return rows.Err()
}

// Map returns the database ID for an in-document ID, assigning the next
// dense ID on first sight.
func (m *IDMapper) Map(kind oldworld.EntityKind, xmlID int) int {
	if dbID, ok := m.ids[kind][xmlID]; ok {
		return dbID
	}
	if m.ids[kind] == nil {
		m.ids[kind] = make(map[int]int)
	}
	if m.next[kind] == 0 {
		m.next[kind] = 1
	}
	dbID := m.next[kind]
	m.next[kind]++
	m.ids[kind][xmlID] = dbID
	m.dirty = append(m.dirty, mappingRow{kind: kind, xmlID: xmlID, dbID: dbID})
	return dbID
}

// Get looks up an existing mapping without assigning one.
func (m *IDMapper) Get(kind oldworld.EntityKind, xmlID int) (int, bool) {
	dbID, ok := m.ids[kind][xmlID]
	return dbID, ok
}

// GetOrErr resolves a reference that must already exist, for foreign keys
// where a dangling reference indicates a corrupt document.
func (m *IDMapper) GetOrErr(kind oldworld.EntityKind, xmlID int, context string) (int, error) {
	if dbID, ok := m.ids[kind][xmlID]; ok {
		return dbID, nil
	}
	return 0, &oldworld.UnknownIDError{Kind: kind, ID: xmlID, Context: context}
}

// MapName maps an entity keyed by name rather than numeric ID. Families
// and religions have no stable numeric identity in the document, so a
// deterministic hash of the name stands in as the xml_id.
func (m *IDMapper) MapName(kind oldworld.EntityKind, name string) int {
	return m.Map(kind, StableNameID(name))
}

// GetName looks up a name-keyed mapping without assigning one.
func (m *IDMapper) GetName(kind oldworld.EntityKind, name string) (int, bool) {
	return m.Get(kind, StableNameID(name))
}

// StableNameID hashes a name into a non-negative 31-bit integer. The
// value must never change between releases or re-imports would remap
// every family and religion.
func StableNameID(name string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int(h.Sum32() & 0x7FFFFFFF)
}

// Save persists every mapping assigned since the last Save or Load.
func (m *IDMapper) Save(ctx context.Context, tx *sqlx.Tx) error {
	if len(m.dirty) == 0 {
		return nil
	}
	app := store.NewAppender(tx, "id_mappings", "match_id", "entity_type", "xml_id", "db_id")
	for _, row := range m.dirty {
		if err := app.Append(m.matchID, string(row.kind), row.xmlID, row.dbID); err != nil {
			return err
		}
	}
	if err := app.Flush(); err != nil {
		return err
	}
	m.dirty = m.dirty[:0]
	return nil
}
