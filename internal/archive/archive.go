// Package archive loads game save archives. A save is a ZIP file holding
// exactly one XML document; everything is extracted in memory under strict
// size and structure limits so a hostile archive cannot exhaust the host.
package archive

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"github.com/perankh/perankh/internal/oldworld"
)

// Limits bound how much work a single archive is allowed to cost.
type Limits struct {
	MaxCompressed   int64   // archive file size on disk
	MaxUncompressed int64   // extracted XML size
	MaxEntries      int     // entries in the archive
	MaxRatio        float64 // uncompressed/compressed per entry
}

// DefaultLimits match the sizes real saves stay well under.
func DefaultLimits() Limits {
	return Limits{
		MaxCompressed:   50 * 1024 * 1024,
		MaxUncompressed: 100 * 1024 * 1024,
		MaxEntries:      10,
		MaxRatio:        100.0,
	}
}

// Save is a fully extracted archive: the XML payload plus the identity of
// the file it came from.
type Save struct {
	FileName string
	XML      []byte
	SHA256   string
}

// Loader reads archives through a billy filesystem so tests can feed it
// in-memory fixtures.
type Loader struct {
	fs     billy.Filesystem
	limits Limits
	log    *zap.Logger
}

func NewLoader(fs billy.Filesystem, limits Limits, log *zap.Logger) *Loader {
	return &Loader{fs: fs, limits: limits, log: log.Named("archive")}
}

// Load opens, validates, and extracts a save archive.
func (l *Loader) Load(path string) (*Save, error) {
	fi, err := l.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat save file: %w", err)
	}
	if fi.Size() > l.limits.MaxCompressed {
		return nil, &oldworld.FileTooLargeError{Size: fi.Size(), Max: l.limits.MaxCompressed}
	}

	f, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open save file: %w", err)
	}
	defer func() { _ = f.Close() }()

	// The whole archive fits under MaxCompressed, so buffer it once and
	// hash the exact bytes we parse.
	data, err := io.ReadAll(io.LimitReader(f, l.limits.MaxCompressed+1))
	if err != nil {
		return nil, fmt.Errorf("read save file: %w", err)
	}
	if int64(len(data)) > l.limits.MaxCompressed {
		return nil, &oldworld.FileTooLargeError{Size: int64(len(data)), Max: l.limits.MaxCompressed}
	}
	sum := sha256.Sum256(data)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &oldworld.InvalidZipError{Path: path, Err: err}
	}

	if len(zr.File) > l.limits.MaxEntries {
		return nil, &oldworld.ArchiveStructureError{
			Reason: fmt.Sprintf("archive has %d entries (max %d)", len(zr.File), l.limits.MaxEntries),
		}
	}

	var xmlEntry *zip.File
	for _, zf := range zr.File {
		if err := validateEntryPath(zf.Name); err != nil {
			return nil, err
		}
		if int64(zf.UncompressedSize64) > l.limits.MaxUncompressed {
			return nil, &oldworld.FileTooLargeError{
				Size: int64(zf.UncompressedSize64),
				Max:  l.limits.MaxUncompressed,
			}
		}
		if zf.CompressedSize64 > 0 {
			ratio := float64(zf.UncompressedSize64) / float64(zf.CompressedSize64)
			if ratio > l.limits.MaxRatio {
				return nil, &oldworld.SecurityViolationError{
					Reason: fmt.Sprintf("suspicious compression ratio %.1f for entry %s", ratio, zf.Name),
				}
			}
		}
		if strings.HasSuffix(strings.ToLower(zf.Name), ".xml") {
			if xmlEntry != nil {
				return nil, &oldworld.ArchiveStructureError{Reason: "multiple XML files found"}
			}
			xmlEntry = zf
		}
	}
	if xmlEntry == nil {
		return nil, &oldworld.ArchiveStructureError{Reason: "no XML file found"}
	}

	rc, err := xmlEntry.Open()
	if err != nil {
		return nil, &oldworld.InvalidZipError{Path: path, Err: err}
	}
	defer func() { _ = rc.Close() }()

	// Declared sizes can lie; cap the actual read as well.
	xmlData, err := io.ReadAll(io.LimitReader(rc, l.limits.MaxUncompressed+1))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", xmlEntry.Name, err)
	}
	if int64(len(xmlData)) > l.limits.MaxUncompressed {
		return nil, &oldworld.FileTooLargeError{Size: int64(len(xmlData)), Max: l.limits.MaxUncompressed}
	}

	l.log.Debug("loaded save archive",
		zap.String("file", path),
		zap.String("entry", xmlEntry.Name),
		zap.Int("xml_bytes", len(xmlData)))

	return &Save{
		FileName: filepath.Base(path),
		XML:      xmlData,
		SHA256:   hex.EncodeToString(sum[:]),
	}, nil
}

// validateEntryPath rejects entry names that could escape an extraction
// directory or smuggle hostile names. Extraction is in-memory, but the
// hash and file name end up in the database, so the checks stay strict.
func validateEntryPath(name string) error {
	normalized := strings.ReplaceAll(name, `\`, "/")

	if normalized == "" {
		return &oldworld.SecurityViolationError{Reason: "empty entry name"}
	}
	if strings.HasPrefix(normalized, "/") || driveLetterPath(normalized) {
		return &oldworld.SecurityViolationError{Reason: fmt.Sprintf("absolute path in archive: %s", name)}
	}
	for _, r := range normalized {
		if r < 0x20 {
			return &oldworld.SecurityViolationError{Reason: fmt.Sprintf("control character in entry name: %q", name)}
		}
	}
	for _, part := range strings.Split(normalized, "/") {
		switch part {
		case "..":
			return &oldworld.SecurityViolationError{Reason: fmt.Sprintf("path traversal in archive: %s", name)}
		case "", ".":
			return &oldworld.SecurityViolationError{Reason: fmt.Sprintf("invalid path component in archive: %s", name)}
		}
	}
	return nil
}

func driveLetterPath(name string) bool {
	if len(name) < 2 || name[1] != ':' {
		return false
	}
	c := name[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
