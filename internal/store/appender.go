package store

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// SQLite caps bound parameters per statement; stay well under the
// historical 999 limit so the appender works on older builds too.
const maxParamsPerStatement = 900

// Appender accumulates rows for one table and flushes them as multi-row
// INSERTs inside the caller's transaction. Columns are named explicitly
// so schema column order can change without corrupting inserts.
type Appender struct {
	tx          *sqlx.Tx
	table       string
	cols        []string
	rowsPerStmt int
	replace     bool
	buf         []any
	buffered    int
	appended    int64
}

// NewAppender prepares an appender for table with the given columns.
func NewAppender(tx *sqlx.Tx, table string, cols ...string) *Appender {
	rowsPerStmt := maxParamsPerStatement / len(cols)
	if rowsPerStmt < 1 {
		rowsPerStmt = 1
	}
	return &Appender{
		tx:          tx,
		table:       table,
		cols:        cols,
		rowsPerStmt: rowsPerStmt,
		buf:         make([]any, 0, rowsPerStmt*len(cols)),
	}
}

// OrReplace switches the appender to INSERT OR REPLACE, for entity
// tables whose rows survive across re-imports of the same match.
func (a *Appender) OrReplace() *Appender {
	a.replace = true
	return a
}

// Append buffers one row. vals must match the column list.
func (a *Appender) Append(vals ...any) error {
	if len(vals) != len(a.cols) {
		return fmt.Errorf("append to %s: got %d values for %d columns",
			a.table, len(vals), len(a.cols))
	}
	a.buf = append(a.buf, vals...)
	a.buffered++
	a.appended++
	if a.buffered >= a.rowsPerStmt {
		return a.flushChunk()
	}
	return nil
}

// Flush writes any buffered rows. Call before committing.
func (a *Appender) Flush() error {
	if a.buffered == 0 {
		return nil
	}
	return a.flushChunk()
}

// Count reports how many rows have been appended since creation.
func (a *Appender) Count() int64 { return a.appended }

func (a *Appender) flushChunk() error {
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(a.cols)), ", ") + ")"
	rows := make([]string, a.buffered)
	for i := range rows {
		rows[i] = row
	}

	verb := "INSERT"
	if a.replace {
		verb = "INSERT OR REPLACE"
	}
	query := fmt.Sprintf("%s INTO %s (%s) VALUES %s",
		verb, a.table, strings.Join(a.cols, ", "), strings.Join(rows, ", "))
	if _, err := a.tx.Exec(query, a.buf...); err != nil {
		return fmt.Errorf("insert into %s: %w", a.table, err)
	}

	a.buf = a.buf[:0]
	a.buffered = 0
	return nil
}
