// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink writes tabular rows to CSV, SQLite, or XLSX files.
//
// Every sink builds its output at a temporary path next to the target and
// renames it into place on Commit. Discard removes the temporary file and
// leaves any existing target untouched.
package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/jet-salvage/pkg/types"
)

const (
	defaultTable = "rows"
	defaultSheet = "Sheet1"
)

// Sink receives a header and then data rows. Callers finish a sink with
// exactly one of Commit or Discard.
type Sink interface {
	// WriteHeader writes the column labels. raw, when non-nil, is the header
	// exactly as it appeared in the input (line ending included); sinks that
	// store text verbatim write raw instead of re-encoding fields.
	WriteHeader(raw []byte, fields []string) error

	// WriteRow appends one data row.
	WriteRow(fields []string) error

	// Commit flushes everything and publishes the output at its final path.
	Commit() error

	// Discard drops everything written so far. It is safe to call after a
	// failed Commit.
	Discard() error
}

// Open creates the sink selected by cfg.
func Open(cfg types.SinkConfig) (Sink, error) {
	if cfg.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}
	switch f := cfg.ResolvedFormat(); f {
	case types.FormatCSV:
		return newCSVSink(cfg.OutputPath, cfg.Delimiter)
	case types.FormatSQLite:
		table := cfg.Table
		if table == "" {
			table = defaultTable
		}
		return newSQLiteSink(cfg.OutputPath, table)
	case types.FormatXLSX:
		sheet := cfg.Sheet
		if sheet == "" {
			sheet = defaultSheet
		}
		return newXLSXSink(cfg.OutputPath, sheet)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", f)
	}
}

// createTemp creates an empty file next to target whose name ends in ext.
// The returned file is open for writing.
func createTemp(target, ext string) (*os.File, error) {
	dir := filepath.Dir(target)
	base := filepath.Base(target)
	f, err := os.CreateTemp(dir, "."+base+".*"+ext)
	if err != nil {
		return nil, fmt.Errorf("creating temp file for %s: %w", target, err)
	}
	return f, nil
}

// publish moves the finished temp file over target.
func publish(tmpPath, target string) error {
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, target, err)
	}
	return nil
}
