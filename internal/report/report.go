// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report records the outcome of a run as a YAML file.
package report

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/jet-salvage/pkg/types"
)

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

// Start returns a report for command with a fresh run id and start time.
func Start(command, input string, sink types.SinkConfig) *types.RunReport {
	return &types.RunReport{
		RunID:     uuid.NewString(),
		Command:   command,
		Input:     input,
		Output:    sink.OutputPath,
		Format:    sink.ResolvedFormat(),
		StartedAt: now(),
	}
}

// Finish stamps the end time, row counts, and error (if any) on r.
func Finish(r *types.RunReport, rows, skipped int, err error) {
	r.FinishedAt = now()
	r.Rows = rows
	r.Skipped = skipped
	if err != nil {
		r.Error = err.Error()
	}
}

// Write saves r as YAML at path.
func Write(path string, r *types.RunReport) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// Read loads a report written by Write.
func Read(path string) (*types.RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report %s: %w", path, err)
	}
	var r types.RunReport
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &r, nil
}
