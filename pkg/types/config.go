// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// OutputFormat selects the sink that receives converted or recovered rows.
type OutputFormat string

const (
	FormatCSV    OutputFormat = "csv"
	FormatSQLite OutputFormat = "sqlite"
	FormatXLSX   OutputFormat = "xlsx"
)

// ParseOutputFormat maps a flag value to an OutputFormat. An empty value
// yields an empty format, which callers resolve with FormatForPath.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV, FormatSQLite, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be csv, sqlite, or xlsx)", s)
	}
}

// FormatForPath infers the output format from a file extension.
func FormatForPath(path string) OutputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// SinkConfig holds the destination settings shared by rewrite and recover.
type SinkConfig struct {
	// OutputPath is the file that is created or replaced on success.
	OutputPath string `json:"output" yaml:"output"`

	// Format selects csv, sqlite, or xlsx. Empty means infer from OutputPath.
	Format OutputFormat `json:"format" yaml:"format"`

	// Delimiter separates fields in CSV output (default ',').
	Delimiter rune `json:"delimiter" yaml:"delimiter"`

	// Table is the SQLite table name (default "rows").
	Table string `json:"table" yaml:"table"`

	// Sheet is the XLSX worksheet name (default "Sheet1").
	Sheet string `json:"sheet" yaml:"sheet"`
}

// ResolvedFormat returns Format, or the format implied by OutputPath.
func (c SinkConfig) ResolvedFormat() OutputFormat {
	if c.Format != "" {
		return c.Format
	}
	return FormatForPath(c.OutputPath)
}

// RewriteConfig holds settings for the date rewrite stage.
type RewriteConfig struct {
	SinkConfig `yaml:",inline"`

	// InputPath is the CSV file produced by the recover stage.
	InputPath string `json:"input" yaml:"input"`

	// Field is the zero-based index of the encoded date column (default 1).
	Field int `json:"field" yaml:"field"`

	// ProgressEvery is the number of data rows between progress lines (default 100000).
	ProgressEvery int `json:"progress_every" yaml:"progress_every"`
}

// Validate reports the first invalid setting.
func (c RewriteConfig) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	if c.Field < 0 {
		return fmt.Errorf("field index must not be negative: %d", c.Field)
	}
	if c.ProgressEvery < 1 {
		return fmt.Errorf("progress interval must be at least 1: %d", c.ProgressEvery)
	}
	return c.SinkConfig.validate()
}

// RecoverConfig holds settings for the Jet4 page scan stage.
type RecoverConfig struct {
	SinkConfig `yaml:",inline"`

	// InputPath is the damaged .mdb file.
	InputPath string `json:"input" yaml:"input"`

	// LayoutPath is an optional YAML table layout. Empty selects the built-in layout.
	LayoutPath string `json:"layout" yaml:"layout"`

	// TdefPage overrides the layout's table definition page when non-zero.
	TdefPage uint32 `json:"tdef_page" yaml:"tdef_page"`

	// KeepGoing skips malformed rows instead of aborting.
	KeepGoing bool `json:"keep_going" yaml:"keep_going"`
}

// Validate reports the first invalid setting.
func (c RecoverConfig) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	return c.SinkConfig.validate()
}

func (c SinkConfig) validate() error {
	if c.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if _, err := ParseOutputFormat(string(c.Format)); err != nil {
		return err
	}
	if c.Delimiter == '\r' || c.Delimiter == '\n' || c.Delimiter == '"' ||
		c.Delimiter == utf8.RuneError || !utf8.ValidRune(c.Delimiter) {
		return fmt.Errorf("invalid delimiter: %q", c.Delimiter)
	}
	return nil
}
