// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatCSV, FormatForPath("converted.csv"))
	assert.Equal(t, FormatCSV, FormatForPath("converted"))
	assert.Equal(t, FormatSQLite, FormatForPath("results.DB"))
	assert.Equal(t, FormatSQLite, FormatForPath("results.sqlite"))
	assert.Equal(t, FormatXLSX, FormatForPath("results.xlsx"))
}

func TestParseOutputFormat(t *testing.T) {
	f, err := ParseOutputFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseOutputFormat("")
	require.NoError(t, err)
	assert.Equal(t, OutputFormat(""), f)

	_, err = ParseOutputFormat("parquet")
	assert.Error(t, err)
}

func TestRewriteConfig_Validate(t *testing.T) {
	valid := RewriteConfig{
		SinkConfig:    SinkConfig{OutputPath: "converted.csv", Delimiter: ','},
		InputPath:     "output.csv",
		Field:         1,
		ProgressEvery: 100000,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(c *RewriteConfig)
		wantErr string
	}{
		{name: "no input", mutate: func(c *RewriteConfig) { c.InputPath = "" }, wantErr: "input path"},
		{name: "no output", mutate: func(c *RewriteConfig) { c.OutputPath = "" }, wantErr: "output path"},
		{name: "negative field", mutate: func(c *RewriteConfig) { c.Field = -1 }, wantErr: "field index"},
		{name: "zero progress", mutate: func(c *RewriteConfig) { c.ProgressEvery = 0 }, wantErr: "progress interval"},
		{name: "quote delimiter", mutate: func(c *RewriteConfig) { c.Delimiter = '"' }, wantErr: "delimiter"},
		{name: "newline delimiter", mutate: func(c *RewriteConfig) { c.Delimiter = '\n' }, wantErr: "delimiter"},
		{name: "bad format", mutate: func(c *RewriteConfig) { c.Format = "json" }, wantErr: "invalid format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSinkConfig_ResolvedFormat(t *testing.T) {
	assert.Equal(t, FormatSQLite, SinkConfig{OutputPath: "out.db"}.ResolvedFormat())
	assert.Equal(t, FormatCSV, SinkConfig{OutputPath: "out.db", Format: FormatCSV}.ResolvedFormat())
}

func TestRecoverConfig_Validate(t *testing.T) {
	assert.NoError(t, RecoverConfig{SinkConfig: SinkConfig{OutputPath: "output.csv"}, InputPath: "calbad.mdb"}.Validate())
	assert.Error(t, RecoverConfig{SinkConfig: SinkConfig{OutputPath: "output.csv"}}.Validate())
}
