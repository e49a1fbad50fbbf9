package loader

import (
	"github.com/google/uuid"

	"cusipd/internal/cusip"
)

// Status is the final outcome of one load attempt.
type Status string

const (
	// StatusSucceeded means the file was parsed, staged, and merged.
	StatusSucceeded Status = "succeeded"
	// StatusFailed means the attempt aborted; master state is unchanged.
	StatusFailed Status = "failed"
	// StatusSkipped means no file existed for the date. Not a failure.
	StatusSkipped Status = "skipped"
)

// State tracks a load attempt through its stages. Exposed mainly for
// logging; the terminal states correspond to the Status values.
type State string

const (
	StatePending   State = "pending"
	StateFetching  State = "fetching"
	StateParsing   State = "parsing"
	StateStaging   State = "staging"
	StateMerging   State = "merging"
	StateSucceeded State = "succeeded"
	StateSkipped   State = "skipped"
	StateFailed    State = "failed"
)

// Result is the outcome of one (record type, date) load attempt.
type Result struct {
	RunID        uuid.UUID        `json:"run_id"`
	Type         cusip.RecordType `json:"type"`
	Date         string           `json:"date"`
	File         string           `json:"file,omitempty"`
	RowsRead     int              `json:"rows_read"`
	RowsUpserted int64            `json:"rows_upserted"`
	Status       Status           `json:"status"`
	Error        string           `json:"error,omitempty"`
}
