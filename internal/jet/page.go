// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jet scans the raw pages of a Jet4 (Access 2000-2003 .mdb)
// database and decodes table rows without using the catalog. It works on
// files whose definition pages are destroyed, as long as the data pages of
// the table survive and its column layout is known.
package jet

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// PageSize is the Jet4 page size.
const PageSize = 4096

const (
	pageTypeData = 0x01
	headerSize   = 14

	rowOffsetMask = 0x1FFF
	rowLookupFlag = 0x8000
	rowDeleteFlag = 0x4000
)

// PageHeader is the fixed part of a Jet4 data page.
type PageHeader struct {
	Type       byte
	Flag       byte
	FreeSpace  uint16
	TdefPage   uint32
	RowOffsets []uint16
}

// IsDataFor reports whether the page is a data page owned by tdef.
func (h PageHeader) IsDataFor(tdef uint32) bool {
	return h.Type == pageTypeData && h.Flag == 0x01 && h.TdefPage == tdef
}

// ParsePageHeader decodes the header and row offset table of page.
func ParsePageHeader(page []byte) (PageHeader, error) {
	if len(page) < headerSize {
		return PageHeader{}, fmt.Errorf("page too short: %d bytes", len(page))
	}
	h := PageHeader{
		Type:      page[0],
		Flag:      page[1],
		FreeSpace: binary.LittleEndian.Uint16(page[2:]),
		TdefPage:  binary.LittleEndian.Uint32(page[4:]),
	}
	n := int(binary.LittleEndian.Uint16(page[12:]))
	if headerSize+2*n > len(page) {
		return h, fmt.Errorf("row count %d overflows page", n)
	}
	h.RowOffsets = make([]uint16, n)
	for i := range h.RowOffsets {
		h.RowOffsets[i] = binary.LittleEndian.Uint16(page[headerSize+2*i:])
	}
	return h, nil
}

// RowSpan locates row i inside a page. Rows are packed from the end of the
// page downwards, so a row ends where the previous one starts.
type RowSpan struct {
	Start, End int
	Deleted    bool
	Lookup     bool
}

// Spans returns the byte range of every row listed in the header.
func (h PageHeader) Spans() []RowSpan {
	spans := make([]RowSpan, len(h.RowOffsets))
	end := PageSize
	for i, off := range h.RowOffsets {
		start := int(off & rowOffsetMask)
		spans[i] = RowSpan{
			Start:   start,
			End:     end,
			Deleted: off&rowDeleteFlag != 0,
			Lookup:  off&rowLookupFlag != 0,
		}
		end = start
	}
	return spans
}

// Scanner walks a database file page by page.
type Scanner struct {
	r     io.Reader
	page  []byte
	num   int
	short int
	err   error
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: r, page: make([]byte, PageSize), num: -1}
}

// Next advances to the next page and reports whether one was read. A
// trailing partial page ends the scan; its length is available from Short.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}
	n, err := io.ReadFull(s.r, s.page)
	if err != nil {
		switch {
		case errors.Is(err, io.EOF):
		case errors.Is(err, io.ErrUnexpectedEOF):
			s.num++
			s.short = n
		default:
			s.err = err
		}
		return false
	}
	s.num++
	return true
}

// Page returns the current page. The slice is reused by Next.
func (s *Scanner) Page() []byte { return s.page }

// PageNum returns the zero-based number of the current page.
func (s *Scanner) PageNum() int { return s.num }

// Short returns the length of a trailing partial page, or 0.
func (s *Scanner) Short() int { return s.short }

// Err returns the first read error other than end of file.
func (s *Scanner) Err() error { return s.err }
