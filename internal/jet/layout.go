// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jet

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed layouts/*.yaml
var builtinLayouts embed.FS

// DefaultLayout is the table recovered when no layout file is given.
const DefaultLayout = "tblResults"

// ColumnType is the on-disk encoding of a fixed-width column.
type ColumnType string

const (
	TypeInt16   ColumnType = "int16"
	TypeUint16  ColumnType = "uint16"
	TypeInt32   ColumnType = "int32"
	TypeUint32  ColumnType = "uint32"
	TypeFloat32 ColumnType = "float32"
	TypeFloat64 ColumnType = "float64"
)

// Size returns the width of t in bytes, or 0 for an unknown type.
func (t ColumnType) Size() int {
	switch t {
	case TypeInt16, TypeUint16:
		return 2
	case TypeInt32, TypeUint32, TypeFloat32:
		return 4
	case TypeFloat64:
		return 8
	default:
		return 0
	}
}

// Column is one output column. A fixed column has a Type and is read from
// the fixed area in declaration order. A variable column has a Slot that
// selects an entry of the row's variable offset table.
type Column struct {
	Name string     `yaml:"name"`
	Type ColumnType `yaml:"type,omitempty"`
	Slot *int       `yaml:"slot,omitempty"`
}

// Fixed reports whether c is read from the fixed-width area.
func (c Column) Fixed() bool {
	return c.Slot == nil
}

// Layout describes how to turn rows of one table into output columns.
type Layout struct {
	Name            string   `yaml:"name"`
	TdefPage        uint32   `yaml:"tdef_page"`
	VariableColumns int      `yaml:"variable_columns"`
	Columns         []Column `yaml:"columns"`
}

// Header returns the output column names.
func (l *Layout) Header() []string {
	names := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		names[i] = c.Name
	}
	return names
}

// FixedSize is the total width of the fixed columns.
func (l *Layout) FixedSize() int {
	n := 0
	for _, c := range l.Columns {
		if c.Fixed() {
			n += c.Type.Size()
		}
	}
	return n
}

// Validate checks that every column is well formed.
func (l *Layout) Validate() error {
	if len(l.Columns) == 0 {
		return fmt.Errorf("layout %q has no columns", l.Name)
	}
	if l.TdefPage == 0 {
		return fmt.Errorf("layout %q: tdef_page is required", l.Name)
	}
	if l.VariableColumns < 0 {
		return fmt.Errorf("layout %q: variable_columns must not be negative", l.Name)
	}
	for i, c := range l.Columns {
		if c.Name == "" {
			return fmt.Errorf("layout %q: column %d has no name", l.Name, i)
		}
		if c.Fixed() {
			if c.Type.Size() == 0 {
				return fmt.Errorf("layout %q: column %s has unknown type %q", l.Name, c.Name, c.Type)
			}
			continue
		}
		if c.Type != "" {
			return fmt.Errorf("layout %q: column %s sets both type and slot", l.Name, c.Name)
		}
		if *c.Slot < 0 || *c.Slot >= l.VariableColumns {
			return fmt.Errorf("layout %q: column %s slot %d outside 0..%d", l.Name, c.Name, *c.Slot, l.VariableColumns-1)
		}
	}
	return nil
}

// ParseLayout decodes and validates a YAML layout.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadLayout reads a layout file from disk.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout %s: %w", path, err)
	}
	l, err := ParseLayout(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// BuiltinLayout returns the embedded layout with the given name.
func BuiltinLayout(name string) (*Layout, error) {
	data, err := builtinLayouts.ReadFile("layouts/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown layout %q (available: %s)", name, strings.Join(BuiltinLayoutNames(), ", "))
	}
	return ParseLayout(data)
}

// BuiltinLayoutNames lists the embedded layouts.
func BuiltinLayoutNames() []string {
	entries, _ := builtinLayouts.ReadDir("layouts")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
