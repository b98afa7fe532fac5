package contracts

import (
	"context"
	"time"
)

// Event types published on the pipeline event stream
const (
	EventIngestCompleted  = "ingest.completed"
	EventIngestFailed     = "ingest.failed"
	EventMetricsGenerated = "metrics.generated"
)

// Event is a pipeline notification
type Event struct {
	Type  string      `json:"type"`
	RunID string      `json:"run_id,omitempty"`
	Time  time.Time   `json:"time"`
	Data  interface{} `json:"data,omitempty"`
}

// EventPublisher receives pipeline events; implementations must not block
// ⭐ SSOT: 이벤트 발행 인터페이스
type EventPublisher interface {
	Publish(event Event)
}

// RunRecorder stores ingestion run summaries
type RunRecorder interface {
	SaveRun(ctx context.Context, run *RunRecord) error
}

// SnapshotRecorder stores metrics snapshot history
type SnapshotRecorder interface {
	SaveSnapshot(ctx context.Context, snap *MetricsSnapshot) error
}
