// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
)

// csvSink writes delimited text. The raw header is copied byte for byte and
// its line ending is reused for every data row.
type csvSink struct {
	target string
	file   *os.File
	buf    *bufio.Writer
	w      *csv.Writer
	done   bool
}

func newCSVSink(target string, delim rune) (*csvSink, error) {
	f, err := createTemp(target, ".tmp")
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	w := csv.NewWriter(buf)
	if delim != 0 {
		w.Comma = delim
	}
	return &csvSink{target: target, file: f, buf: buf, w: w}, nil
}

func (s *csvSink) WriteHeader(raw []byte, fields []string) error {
	if raw == nil {
		return s.WriteRow(fields)
	}
	s.w.UseCRLF = bytes.HasSuffix(raw, []byte("\r\n"))
	if _, err := s.buf.Write(raw); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}

func (s *csvSink) WriteRow(fields []string) error {
	if err := s.w.Write(fields); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	return nil
}

func (s *csvSink) Commit() error {
	if s.done {
		return fmt.Errorf("sink already finished")
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", s.file.Name(), err)
	}
	if err := s.buf.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", s.file.Name(), err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", s.file.Name(), err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", s.file.Name(), err)
	}
	s.done = true
	return publish(s.file.Name(), s.target)
}

func (s *csvSink) Discard() error {
	if s.done {
		// A failed publish already removed the temp file.
		os.Remove(s.file.Name())
		return nil
	}
	s.done = true
	s.file.Close()
	if err := os.Remove(s.file.Name()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", s.file.Name(), err)
	}
	return nil
}
