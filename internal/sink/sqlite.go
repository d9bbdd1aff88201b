// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// sqliteSink loads rows into a single TEXT-typed table. All inserts run in
// one transaction that is committed together with the file rename.
type sqliteSink struct {
	target  string
	tmpPath string
	table   string
	db      *sql.DB
	tx      *sql.Tx
	stmt    *sql.Stmt
	columns int
	done    bool
}

func newSQLiteSink(target, table string) (*sqliteSink, error) {
	f, err := createTemp(target, ".tmp")
	if err != nil {
		return nil, err
	}
	tmpPath := f.Name()
	f.Close()

	db, err := sql.Open("sqlite3", tmpPath+"?_journal_mode=OFF&_synchronous=OFF")
	if err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("opening database %s: %w", tmpPath, err)
	}

	return &sqliteSink{target: target, tmpPath: tmpPath, table: table, db: db}, nil
}

func (s *sqliteSink) WriteHeader(_ []byte, fields []string) error {
	if s.tx != nil {
		return fmt.Errorf("header already written")
	}
	if len(fields) == 0 {
		return fmt.Errorf("header has no columns")
	}
	names := columnNames(fields)

	defs := make([]string, len(names))
	marks := make([]string, len(names))
	for i, n := range names {
		defs[i] = quoteIdent(n) + " TEXT"
		marks[i] = "?"
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(s.table), strings.Join(defs, ", "))
	if _, err := s.db.Exec(create); err != nil {
		return fmt.Errorf("creating table %s: %w", s.table, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(s.table), strings.Join(marks, ", "))
	stmt, err := tx.Prepare(insert)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}

	s.tx = tx
	s.stmt = stmt
	s.columns = len(names)
	return nil
}

func (s *sqliteSink) WriteRow(fields []string) error {
	if s.stmt == nil {
		return fmt.Errorf("row written before header")
	}
	if len(fields) != s.columns {
		return fmt.Errorf("row has %d fields, table %s has %d columns", len(fields), s.table, s.columns)
	}
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	if _, err := s.stmt.Exec(args...); err != nil {
		return fmt.Errorf("inserting row: %w", err)
	}
	return nil
}

func (s *sqliteSink) Commit() error {
	if s.done {
		return fmt.Errorf("sink already finished")
	}
	if s.tx != nil {
		s.stmt.Close()
		if err := s.tx.Commit(); err != nil {
			return fmt.Errorf("committing rows: %w", err)
		}
		s.tx = nil
		s.stmt = nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	s.done = true
	return publish(s.tmpPath, s.target)
}

func (s *sqliteSink) Discard() error {
	if !s.done {
		if s.tx != nil {
			s.stmt.Close()
			s.tx.Rollback()
		}
		s.db.Close()
		s.done = true
	}
	if err := os.Remove(s.tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", s.tmpPath, err)
	}
	return nil
}

// columnNames turns header fields into unique, non-empty column names.
func columnNames(fields []string) []string {
	names := make([]string, len(fields))
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		base := strings.TrimSpace(f)
		if base == "" {
			base = "column_" + strconv.Itoa(i+1)
		}
		// SQLite identifiers are case-insensitive.
		n := base
		for k := 2; seen[strings.ToLower(n)]; k++ {
			n = base + "_" + strconv.Itoa(k)
		}
		seen[strings.ToLower(n)] = true
		names[i] = n
	}
	return names
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
