// Package oldworld holds the shared vocabulary of the save ingestion
// pipeline: entity kinds, sentinel values, and the error taxonomy every
// stage reports through.
package oldworld

import (
	"errors"
	"fmt"
)

// EntityKind identifies a mappable entity class. The string values double
// as the entity_type column in the id_mappings table, so they must stay
// stable across releases.
type EntityKind string

const (
	KindPlayer    EntityKind = "player"
	KindCharacter EntityKind = "character"
	KindCity      EntityKind = "city"
	KindUnit      EntityKind = "unit"
	KindTile      EntityKind = "tile"
	KindFamily    EntityKind = "family"
	KindReligion  EntityKind = "religion"
	KindTribe     EntityKind = "tribe"
)

// Sentinel errors for conditions callers branch on with errors.Is.
var (
	// ErrSchemaNotInitialized is returned when the database exists but the
	// ingestion tables are missing.
	ErrSchemaNotInitialized = errors.New("database schema not initialized")

	// ErrLockHeld is returned when another process holds a fresh import
	// lock for the same game.
	ErrLockHeld = errors.New("import already in progress for this game")
)

// InvalidZipError reports an archive that could not be opened as a ZIP.
type InvalidZipError struct {
	Path string
	Err  error
}

func (e *InvalidZipError) Error() string {
	return fmt.Sprintf("invalid zip file %s: %v", e.Path, e.Err)
}

func (e *InvalidZipError) Unwrap() error { return e.Err }

// ArchiveStructureError reports an archive whose layout violates the
// single-XML-entry contract.
type ArchiveStructureError struct {
	Reason string
}

func (e *ArchiveStructureError) Error() string {
	return fmt.Sprintf("invalid archive structure: %s", e.Reason)
}

// FileTooLargeError reports a compressed or uncompressed size over the
// configured limit.
type FileTooLargeError struct {
	Size int64
	Max  int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file too large: %d bytes (max %d)", e.Size, e.Max)
}

// SecurityViolationError reports an archive entry that looks like a path
// traversal or zip bomb attempt.
type SecurityViolationError struct {
	Reason string
}

func (e *SecurityViolationError) Error() string {
	return fmt.Sprintf("security violation: %s", e.Reason)
}

// MalformedXMLError carries the failure location plus a snippet of the
// surrounding document so save files can be debugged without re-parsing.
type MalformedXMLError struct {
	Location string
	Message  string
	Context  string
}

func (e *MalformedXMLError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("malformed XML at %s: %s", e.Location, e.Message)
	}
	return fmt.Sprintf("malformed XML at %s: %s\ncontext: %s", e.Location, e.Message, e.Context)
}

// MissingAttributeError names a required attribute as "element-path.attr".
type MissingAttributeError struct {
	Path string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("missing required attribute: %s", e.Path)
}

// MissingElementError names a required child element as "element-path/tag".
type MissingElementError struct {
	Path string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("missing required element: %s", e.Path)
}

// InvalidFormatError reports a value that failed to parse into its
// expected type.
type InvalidFormatError struct {
	Path  string
	Value string
	Err   error
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid value %q at %s: %v", e.Value, e.Path, e.Err)
}

func (e *InvalidFormatError) Unwrap() error { return e.Err }

// SchemaUpgradeError signals a database created by an older incompatible
// schema version that needs a reset before importing.
type SchemaUpgradeError struct {
	Found   string
	Want    string
	Message string
}

func (e *SchemaUpgradeError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("database schema version %s is incompatible with %s, reset required", e.Found, e.Want)
}

// UnknownIDError reports a reference to an entity the ID mapper has never
// seen. Kind selects the table, Context says who was asking.
type UnknownIDError struct {
	Kind    EntityKind
	ID      int
	Name    string // religions are keyed by name, not numeric ID
	Context string
}

func (e *UnknownIDError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unknown %s %q (%s)", e.Kind, e.Name, e.Context)
	}
	return fmt.Sprintf("unknown %s ID %d (%s)", e.Kind, e.ID, e.Context)
}
