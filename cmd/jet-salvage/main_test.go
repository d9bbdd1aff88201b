package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/jet-salvage/internal/report"
)

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{in: ",", want: ','},
		{in: ";", want: ';'},
		{in: "tab", want: '\t'},
		{in: `\t`, want: '\t'},
		{in: "|", want: '|'},
		{in: "", wantErr: true},
		{in: ",,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDelimiter(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewriteCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "output.csv")
	out := filepath.Join(dir, "converted.csv")
	rep := filepath.Join(dir, "report.yaml")
	require.NoError(t, os.WriteFile(in, []byte("ID,DateTime\n1,0\n2,1.5\n"), 0o644))

	t.Setenv("JET_SALVAGE_REWRITE_PROGRESS_EVERY", "1")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"rewrite", in, "--output", out, "--report", rep})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ID,DateTime\n1,1899-12-30 00:00:00\n2,1899-12-31 12:00:00\n", string(data))
	assert.Equal(t, "Processed 1 lines\nProcessed 2 lines\n", stdout.String())

	r, err := report.Read(rep)
	require.NoError(t, err)
	assert.Equal(t, "rewrite", r.Command)
	assert.Equal(t, 2, r.Rows)
	assert.True(t, r.Succeeded())
}

func TestRewriteCommand_FailureReport(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "output.csv")
	out := filepath.Join(dir, "converted.csv")
	rep := filepath.Join(dir, "report.yaml")
	require.NoError(t, os.WriteFile(in, []byte("ID,DateTime\n1,abc\n"), 0o644))

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"rewrite", in, "--output", out, "--report", rep})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rewrite failed")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))

	raw, err := os.ReadFile(rep)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "error: ")

	r, err := report.Read(rep)
	require.NoError(t, err)
	assert.False(t, r.Succeeded())
	assert.Equal(t, 0, r.Rows)
	assert.Contains(t, r.Error, "line 2")
	assert.Contains(t, r.Error, `"abc"`)
}

// singleRowDatabase returns one Jet4 data page owned by tdef 7 holding a row
// with a single int32 column.
func singleRowDatabase(id int32) []byte {
	row := make([]byte, 11)
	binary.LittleEndian.PutUint16(row[0:], 1) // column count
	binary.LittleEndian.PutUint32(row[2:], uint32(id))
	binary.LittleEndian.PutUint16(row[6:], 6) // end of data
	binary.LittleEndian.PutUint16(row[8:], 0) // no variable columns
	row[10] = 0x01                            // null bitmap

	page := make([]byte, 4096)
	page[0], page[1] = 0x01, 0x01
	binary.LittleEndian.PutUint32(page[4:], 7)
	binary.LittleEndian.PutUint16(page[12:], 1)
	start := len(page) - len(row)
	binary.LittleEndian.PutUint16(page[14:], uint16(start))
	copy(page[start:], row)
	return page
}

func TestRecoverCommand(t *testing.T) {
	dir := t.TempDir()
	mdb := filepath.Join(dir, "calbad.mdb")
	layout := filepath.Join(dir, "ids.yaml")
	out := filepath.Join(dir, "ids.csv")
	rep := filepath.Join(dir, "report.yaml")
	require.NoError(t, os.WriteFile(mdb, singleRowDatabase(42), 0o644))
	require.NoError(t, os.WriteFile(layout, []byte(`name: ids
tdef_page: 7
variable_columns: 0
columns:
  - {name: ID, type: int32}
`), 0o644))

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"recover", mdb, "--layout", layout, "--output", out, "--report", rep})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ID\n42\n", string(data))
	assert.Equal(t, "Data found page 0 - Row count 1\nWrote 1 rows to "+out+".\n", stdout.String())
	assert.Empty(t, stderr.String())

	r, err := report.Read(rep)
	require.NoError(t, err)
	assert.Equal(t, "recover", r.Command)
	assert.Equal(t, 1, r.Rows)
	assert.True(t, r.Succeeded())
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "jet-salvage dev\n", stdout.String())
}
