package model

import "time"

// RunStatus is the state of a batch enrichment run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one batch over an input file.
type Run struct {
	ID        string      `json:"id"`
	Input     string      `json:"input"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RunSummary holds the confidence buckets of a finished batch.
type RunSummary struct {
	RunID          string  `json:"run_id" yaml:"run_id"`
	Total          int     `json:"total" yaml:"total"`
	HighConfidence int     `json:"high_confidence" yaml:"high_confidence"`
	ReviewNeeded   int     `json:"review_needed" yaml:"review_needed"`
	Unresolved     int     `json:"unresolved" yaml:"unresolved"`
	MinConfidence  float64 `json:"min_confidence" yaml:"min_confidence"`
	OutputPath     string  `json:"output_path" yaml:"output_path"`
	ReviewPath     string  `json:"review_path,omitempty" yaml:"review_path,omitempty"`
	ReviewCount    int     `json:"review_count" yaml:"review_count"`
}
