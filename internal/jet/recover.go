// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/jet-salvage/internal/sink"
	"github.com/pdiddy/jet-salvage/pkg/types"
)

// Result holds the outcome of a recovery scan.
type Result struct {
	Pages   int // data pages belonging to the table
	Rows    int // rows written
	Skipped int // malformed rows skipped with KeepGoing
	Deleted int // deleted or lookup rows ignored
}

// Options configures Extract.
type Options struct {
	// KeepGoing skips malformed rows instead of aborting.
	KeepGoing bool

	// Status receives per-page progress. Warn receives skipped-row dumps
	// and the partial-page notice. Nil writers discard output.
	Status io.Writer
	Warn   io.Writer
}

// Extract scans r for data pages owned by layout.TdefPage and writes every
// decoded row to s, header first.
func Extract(r io.Reader, layout *Layout, s sink.Sink, opts Options) (Result, error) {
	status, warn := opts.Status, opts.Warn
	if status == nil {
		status = io.Discard
	}
	if warn == nil {
		warn = io.Discard
	}

	var result Result
	if err := s.WriteHeader(nil, layout.Header()); err != nil {
		return result, fmt.Errorf("writing header: %w", err)
	}

	sc := NewScanner(r)
	for sc.Next() {
		h, err := ParsePageHeader(sc.Page())
		if err != nil || !h.IsDataFor(layout.TdefPage) {
			continue
		}
		result.Pages++
		fmt.Fprintf(status, "Data found page %d - Row count %d\n", sc.PageNum(), len(h.RowOffsets))

		floor := headerSize + 2*len(h.RowOffsets)
		for i, span := range h.Spans() {
			if span.Deleted || span.Lookup {
				result.Deleted++
				continue
			}
			if span.Start < floor || span.Start >= span.End {
				rerr := &RowError{Page: sc.PageNum(), Row: i,
					Reason: fmt.Sprintf("indexes out of bounds (start: %d length: %d)", span.Start, span.End-span.Start)}
				if !opts.KeepGoing {
					return result, rerr
				}
				fmt.Fprintf(warn, "%v\n", rerr)
				result.Skipped++
				continue
			}

			data := sc.Page()[span.Start:span.End]
			fields, err := DecodeRow(data, layout)
			if err != nil {
				rerr := &RowError{Page: sc.PageNum(), Row: i, Reason: err.Error(),
					Data: append([]byte(nil), data...)}
				if !opts.KeepGoing {
					return result, rerr
				}
				fmt.Fprintf(warn, "%v\n%s", rerr, hex.Dump(data))
				result.Skipped++
				continue
			}

			if err := s.WriteRow(fields); err != nil {
				return result, fmt.Errorf("writing row: %w", err)
			}
			result.Rows++
		}
	}
	if err := sc.Err(); err != nil {
		return result, fmt.Errorf("reading page %d: %w", sc.PageNum()+1, err)
	}
	if n := sc.Short(); n > 0 {
		fmt.Fprintf(warn, "Page %d incomplete read (%d of %d bytes)\n", sc.PageNum(), n, PageSize)
	}
	return result, nil
}

// Recover opens cfg.InputPath, extracts the table described by cfg, and
// commits the output only if the whole scan succeeds.
func Recover(cfg types.RecoverConfig, status, warn io.Writer) (Result, error) {
	layout, err := resolveLayout(cfg)
	if err != nil {
		return Result{}, err
	}

	in, err := os.Open(cfg.InputPath)
	if err != nil {
		return Result{}, fmt.Errorf("opening database: %w", err)
	}
	defer in.Close()

	out, err := sink.Open(cfg.SinkConfig)
	if err != nil {
		return Result{}, fmt.Errorf("opening output: %w", err)
	}

	result, err := Extract(in, layout, out, Options{KeepGoing: cfg.KeepGoing, Status: status, Warn: warn})
	if err != nil {
		out.Discard()
		return result, err
	}
	if err := out.Commit(); err != nil {
		out.Discard()
		return result, fmt.Errorf("writing %s: %w", cfg.OutputPath, err)
	}
	if status != nil {
		fmt.Fprintf(status, "Wrote %d rows to %s.\n", result.Rows, cfg.OutputPath)
	}
	return result, nil
}

func resolveLayout(cfg types.RecoverConfig) (*Layout, error) {
	var (
		l   *Layout
		err error
	)
	if cfg.LayoutPath != "" {
		l, err = LoadLayout(cfg.LayoutPath)
	} else {
		l, err = BuiltinLayout(DefaultLayout)
	}
	if err != nil {
		return nil, err
	}
	if cfg.TdefPage != 0 {
		l.TdefPage = cfg.TdefPage
	}
	return l, nil
}

// IsRowError reports whether err came from a malformed row.
func IsRowError(err error) bool {
	var re *RowError
	return errors.As(err, &re)
}
