package model

import (
	"sync"
	"sync/atomic"
)

// Operation names the per-file action a batch applies.
type Operation string

// Batch operations.
const (
	OperationAnalyze Operation = "analyze"
	OperationFix     Operation = "fix"
)

// FileError is a per-file failure recorded by a batch.
type FileError struct {
	Path    Path
	Kind    string
	Message string
}

// FileOutcome is the per-file payload of a successful batch step.
// Exactly one of Analysis and Fix is set, depending on the operation.
type FileOutcome struct {
	Path     Path
	Analysis *AnalysisResult
	Fix      *FixResult
}

// BatchProgress is a point-in-time view of a running batch.
type BatchProgress struct {
	Operation Operation
	Total     int
	Processed int
	Succeeded int
	Failed    int
	Current   Path
}

// Percent returns processed/total in the range [0, 1].
func (p BatchProgress) Percent() float64 {
	if p.Total == 0 {
		return 1
	}

	return float64(p.Processed) / float64(p.Total)
}

// BatchResult aggregates a finished batch.
type BatchResult struct {
	Operation Operation
	Total     int
	Processed int
	Succeeded int
	Failed    int
	Errors    []FileError
	Outcomes  []FileOutcome
	Success   bool
	Cancelled bool
}

// BatchJobState holds the live counters of a batch. Counters are updated from
// concurrent workers, the error list is guarded by a mutex.
type BatchJobState struct {
	operation Operation
	total     int64
	processed atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64

	mu     sync.Mutex
	errors []FileError
}

// NewBatchJobState creates the state for a batch of total files.
func NewBatchJobState(op Operation, total int) *BatchJobState {
	return &BatchJobState{operation: op, total: int64(total)}
}

// RecordSuccess counts one processed file that succeeded.
func (s *BatchJobState) RecordSuccess() {
	s.succeeded.Add(1)
	s.processed.Add(1)
}

// RecordFailure counts one processed file that failed and keeps its error.
func (s *BatchJobState) RecordFailure(fileErr FileError) {
	s.mu.Lock()
	s.errors = append(s.errors, fileErr)
	s.mu.Unlock()

	s.failed.Add(1)
	s.processed.Add(1)
}

// Errors returns a copy of the recorded errors.
func (s *BatchJobState) Errors() []FileError {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]FileError, len(s.errors))
	copy(out, s.errors)

	return out
}

// Snapshot returns the current counters.
func (s *BatchJobState) Snapshot(current Path) BatchProgress {
	return BatchProgress{
		Operation: s.operation,
		Total:     int(s.total),
		Processed: int(s.processed.Load()),
		Succeeded: int(s.succeeded.Load()),
		Failed:    int(s.failed.Load()),
		Current:   current,
	}
}
