// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite converts a fractional-day date column in a delimited file
// into YYYY-MM-DD HH:MM:SS timestamps. The header row is copied unchanged
// and every other field passes through untouched.
package rewrite

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/jet-salvage/internal/sink"
	"github.com/pdiddy/jet-salvage/pkg/types"
)

const (
	// DefaultField is the column holding the encoded date.
	DefaultField = 1
	// DefaultProgressEvery is the number of rows between progress lines.
	DefaultProgressEvery = 100000
)

// Options configures a RowConverter.
type Options struct {
	Field         int
	Delimiter     rune
	ProgressEvery int

	// InputName and OutputName label IOErrors.
	InputName  string
	OutputName string
}

// Result holds the outcome of a rewrite run.
type Result struct {
	Rows int
}

// RowConverter reads rows from a delimited stream, converts the target
// field, and hands each row to a sink. It processes one row at a time.
type RowConverter struct {
	in     *bufio.Reader
	csv    *csv.Reader
	out    sink.Sink
	opts   Options
	status io.Writer
	rows   int
}

// NewRowConverter wraps r and s. Progress lines go to status.
func NewRowConverter(r io.Reader, s sink.Sink, opts Options, status io.Writer) *RowConverter {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	if status == nil {
		status = io.Discard
	}
	return &RowConverter{
		in:     bufio.NewReader(r),
		out:    s,
		opts:   opts,
		status: status,
	}
}

// Rows returns the number of data rows written so far.
func (c *RowConverter) Rows() int {
	return c.rows
}

// PassHeader copies the first line of input to the sink unchanged.
func (c *RowConverter) PassHeader() error {
	if c.csv != nil {
		return fmt.Errorf("header already passed")
	}
	raw, err := c.in.ReadBytes('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(raw) > 0) {
		return &IOError{Op: "read", Path: c.opts.InputName, Err: err}
	}

	hr := csv.NewReader(bytes.NewReader(raw))
	hr.Comma = c.opts.Delimiter
	hr.FieldsPerRecord = -1
	hr.LazyQuotes = true
	fields, err := hr.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return &IOError{Op: "read", Path: c.opts.InputName, Err: fmt.Errorf("parsing header: %w", err)}
	}

	if err := c.out.WriteHeader(raw, fields); err != nil {
		return &IOError{Op: "write", Path: c.opts.OutputName, Err: err}
	}

	c.csv = csv.NewReader(c.in)
	c.csv.Comma = c.opts.Delimiter
	c.csv.LazyQuotes = true
	c.csv.ReuseRecord = true
	return nil
}

// ConvertRow replaces the target field of row with its timestamp and writes
// the row. line is the input line used in a ParseError.
func (c *RowConverter) ConvertRow(row []string, line int) error {
	f := c.opts.Field
	if f >= len(row) {
		return &ParseError{Line: line, Field: f, Err: ErrMissingField}
	}
	ts, err := ConvertValue(row[f])
	if err != nil {
		return &ParseError{Line: line, Field: f, Value: row[f], Err: err}
	}
	row[f] = ts

	if err := c.out.WriteRow(row); err != nil {
		return &IOError{Op: "write", Path: c.opts.OutputName, Err: err}
	}
	return nil
}

// Run passes the header and converts every remaining row. After each
// ProgressEvery rows it prints "Processed <n> lines" to the status writer.
func (c *RowConverter) Run() (Result, error) {
	if err := c.PassHeader(); err != nil {
		return Result{}, err
	}

	for {
		row, err := c.csv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{Rows: c.rows}, &IOError{Op: "read", Path: c.opts.InputName, Err: err}
		}

		pos := 0
		if c.opts.Field < len(row) {
			pos = c.opts.Field
		}
		line, _ := c.csv.FieldPos(pos)
		// The data reader starts after the header line.
		line++

		if err := c.ConvertRow(row, line); err != nil {
			return Result{Rows: c.rows}, err
		}

		c.rows++
		if c.rows%c.opts.ProgressEvery == 0 {
			fmt.Fprintf(c.status, "Processed %d lines\n", c.rows)
		}
	}

	return Result{Rows: c.rows}, nil
}

// Rewrite converts cfg.InputPath into cfg.OutputPath. Input and output are
// both opened before any row is read. On failure the partial output is
// discarded and an existing file at OutputPath is left as it was.
func Rewrite(cfg types.RewriteConfig, status io.Writer) (Result, error) {
	in, err := os.Open(cfg.InputPath)
	if err != nil {
		return Result{}, &IOError{Op: "open", Path: cfg.InputPath, Err: err}
	}
	defer in.Close()

	out, err := sink.Open(cfg.SinkConfig)
	if err != nil {
		return Result{}, &IOError{Op: "open", Path: cfg.OutputPath, Err: err}
	}

	conv := NewRowConverter(in, out, Options{
		Field:         cfg.Field,
		Delimiter:     cfg.Delimiter,
		ProgressEvery: cfg.ProgressEvery,
		InputName:     cfg.InputPath,
		OutputName:    cfg.OutputPath,
	}, status)

	result, err := conv.Run()
	if err != nil {
		out.Discard()
		return result, err
	}
	if err := out.Commit(); err != nil {
		out.Discard()
		return result, &IOError{Op: "write", Path: cfg.OutputPath, Err: err}
	}
	return result, nil
}
