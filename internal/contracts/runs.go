package contracts

import "time"

// RunRecord is the durable summary of one ingestion run
type RunRecord struct {
	RunID          string    `json:"run_id"`
	SourceURL      string    `json:"source_url"`
	Entry          string    `json:"entry,omitempty"`
	Success        bool      `json:"success"`
	FailedStage    Stage     `json:"failed_stage,omitempty"`
	Attempts       int       `json:"attempts"`
	Rows           int       `json:"rows"`
	InvalidHire    int       `json:"invalid_hire_dates"`
	InvalidExit    int       `json:"invalid_exit_dates"`
	Error          string    `json:"error,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	DurationMillis int64     `json:"duration_ms"`
}
