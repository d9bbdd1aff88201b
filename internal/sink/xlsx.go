// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// xlsxSink streams rows into one worksheet. Every cell is written as a
// string so values survive exactly as they appear in the input.
type xlsxSink struct {
	target  string
	tmpPath string
	file    *excelize.File
	sw      *excelize.StreamWriter
	row     int
	done    bool
}

func newXLSXSink(target, sheet string) (*xlsxSink, error) {
	tmp, err := createTemp(target, ".xlsx")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	tmp.Close()

	f := excelize.NewFile()
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			f.Close()
			os.Remove(tmpPath)
			return nil, fmt.Errorf("naming sheet %q: %w", sheet, err)
		}
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("creating stream writer: %w", err)
	}

	return &xlsxSink{target: target, tmpPath: tmpPath, file: f, sw: sw}, nil
}

func (s *xlsxSink) WriteHeader(_ []byte, fields []string) error {
	if s.row != 0 {
		return fmt.Errorf("header already written")
	}
	return s.WriteRow(fields)
}

func (s *xlsxSink) WriteRow(fields []string) error {
	if s.row >= excelize.TotalRows {
		return fmt.Errorf("worksheet is full (%d rows)", excelize.TotalRows)
	}
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(fields))
	for i, f := range fields {
		values[i] = f
	}
	if err := s.sw.SetRow(cell, values); err != nil {
		return fmt.Errorf("writing row %d: %w", s.row, err)
	}
	return nil
}

func (s *xlsxSink) Commit() error {
	if s.done {
		return fmt.Errorf("sink already finished")
	}
	if err := s.sw.Flush(); err != nil {
		return fmt.Errorf("flushing worksheet: %w", err)
	}
	if err := s.file.SaveAs(s.tmpPath); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("closing workbook: %w", err)
	}
	s.done = true
	return publish(s.tmpPath, s.target)
}

func (s *xlsxSink) Discard() error {
	if !s.done {
		s.file.Close()
		s.done = true
	}
	if err := os.Remove(s.tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", s.tmpPath, err)
	}
	return nil
}
