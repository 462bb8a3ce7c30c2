package storage

import "github.com/pthm-cable/foodbots/telemetry"

// RunRecorder appends every finished generation of one run to the store.
type RunRecorder struct {
	store *Store
	runID int64
}

// NewRunRecorder creates a recorder for an existing run.
func NewRunRecorder(store *Store, runID int64) *RunRecorder {
	return &RunRecorder{store: store, runID: runID}
}

// RunID returns the run being recorded.
func (r *RunRecorder) RunID() int64 {
	return r.runID
}

// RecordGeneration saves one generation.
func (r *RunRecorder) RecordGeneration(stats telemetry.GenerationStats, bestGenome []string) error {
	return r.store.SaveGeneration(r.runID, stats, bestGenome)
}
