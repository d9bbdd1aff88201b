// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunReport summarizes one rewrite or recover run.
type RunReport struct {
	// RunID is a random UUID identifying this run.
	RunID string `json:"run_id" yaml:"run_id"`

	// Command is the subcommand that produced the report ("rewrite" or "recover").
	Command string `json:"command" yaml:"command"`

	Input  string       `json:"input" yaml:"input"`
	Output string       `json:"output" yaml:"output"`
	Format OutputFormat `json:"format" yaml:"format"`

	// Rows is the number of data rows written, header excluded.
	Rows int `json:"rows" yaml:"rows"`

	// Skipped counts rows that were not written (recover --keep-going only).
	Skipped int `json:"skipped" yaml:"skipped"`

	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	// Error is the failure message, empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Succeeded reports whether the run finished without error.
func (r RunReport) Succeeded() bool {
	return r.Error == ""
}
