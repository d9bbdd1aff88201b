// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jet

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
)

// RowError reports a row that does not match the expected Jet4 structure.
type RowError struct {
	Page   int
	Row    int
	Reason string
	Data   []byte
}

func (e *RowError) Error() string {
	return fmt.Sprintf("page %d row %d: %s", e.Page, e.Row, e.Reason)
}

// DecodeRow decodes one Jet4 row into output fields following layout.
//
// A row is laid out as:
//
//	[ncols u16][fixed columns...][variable data...]
//	[eod u16][var offsets u16 x nvar][nvar u16][null bitmap]
//
// The returned error is a plain description; callers wrap it in a RowError.
func DecodeRow(data []byte, layout *Layout) ([]string, error) {
	n := len(data)
	if n < 2 {
		return nil, fmt.Errorf("row too short: %d bytes", n)
	}
	ncols := int(binary.LittleEndian.Uint16(data))
	nullSize := (ncols + 7) / 8

	pos := n - nullSize - 2
	if pos < 2 {
		return nil, fmt.Errorf("variable column count out of bounds")
	}
	nvar := int(binary.LittleEndian.Uint16(data[pos:]))

	eodPos := pos - 2*nvar - 2
	if eodPos < 2 {
		return nil, fmt.Errorf("EOD offset out of bounds (%d variable columns)", nvar)
	}
	eod := int(binary.LittleEndian.Uint16(data[eodPos:]))
	if eod != eodPos {
		return nil, fmt.Errorf("EOD mismatch: address %Xh, value %Xh", eodPos, eod)
	}
	if nvar != layout.VariableColumns {
		return nil, fmt.Errorf("has %d variable columns, want %d", nvar, layout.VariableColumns)
	}

	vars := make([]string, nvar)
	end := eod
	for i := range vars {
		off := int(binary.LittleEndian.Uint16(data[eodPos+2+2*i:]))
		if off < 2 || off > end {
			return nil, fmt.Errorf("variable column %d offset %d out of bounds", i, off)
		}
		vars[i] = DecodeText(data[off:end])
		end = off
	}

	fields := make([]string, len(layout.Columns))
	fixed := 2
	for i, c := range layout.Columns {
		if !c.Fixed() {
			fields[i] = vars[*c.Slot]
			continue
		}
		size := c.Type.Size()
		if fixed+size > end {
			return nil, fmt.Errorf("fixed column %s overruns fixed area", c.Name)
		}
		fields[i] = formatFixed(c.Type, data[fixed:fixed+size])
		fixed += size
	}
	return fields, nil
}

// formatFixed renders a fixed-width value. Floats use six decimals.
func formatFixed(t ColumnType, b []byte) string {
	switch t {
	case TypeInt16:
		return strconv.FormatInt(int64(int16(binary.LittleEndian.Uint16(b))), 10)
	case TypeUint16:
		return strconv.FormatUint(uint64(binary.LittleEndian.Uint16(b)), 10)
	case TypeInt32:
		return strconv.FormatInt(int64(int32(binary.LittleEndian.Uint32(b))), 10)
	case TypeUint32:
		return strconv.FormatUint(uint64(binary.LittleEndian.Uint32(b)), 10)
	case TypeFloat32:
		return strconv.FormatFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(b))), 'f', 6, 64)
	case TypeFloat64:
		return strconv.FormatFloat(math.Float64frombits(binary.LittleEndian.Uint64(b)), 'f', 6, 64)
	default:
		return ""
	}
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DecodeText decodes a Jet4 text value. Values starting with FF FE use
// Jet4 compression: single bytes are Latin-1 characters and a zero byte
// toggles to and from two-byte UTF-16LE units. Anything else is UTF-16LE.
// Trailing NULs are dropped.
func DecodeText(b []byte) string {
	var s string
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xFE {
		s = decodeCompressed(b[2:])
	} else {
		out, err := utf16le.NewDecoder().Bytes(b)
		if err != nil {
			return ""
		}
		s = string(out)
	}
	for len(s) > 0 && s[len(s)-1] == 0 {
		s = s[:len(s)-1]
	}
	return s
}

func decodeCompressed(b []byte) string {
	units := make([]uint16, 0, len(b))
	compressed := true
	for i := 0; i < len(b); {
		if b[i] == 0 {
			compressed = !compressed
			i++
			continue
		}
		if compressed {
			units = append(units, uint16(b[i]))
			i++
			continue
		}
		if i+1 >= len(b) {
			break
		}
		units = append(units, binary.LittleEndian.Uint16(b[i:]))
		i += 2
	}
	return string(utf16.Decode(units))
}
