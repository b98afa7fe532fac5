package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/internal/dataset"
	"github.com/wonny/roster/internal/policy"
	"github.com/wonny/roster/internal/s0_ingest/fetcher"
	"github.com/wonny/roster/internal/s0_ingest/schema"
	"github.com/wonny/roster/internal/s1_clean"
	"github.com/wonny/roster/pkg/logger"
)

// ArchiveFetcher downloads the source archive (fetcher.Fetcher satisfies it)
type ArchiveFetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Download, error)
}

// StageError wraps the failure of one stage
type StageError struct {
	Stage contracts.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// RunConfig holds configuration for an ingestion run
type RunConfig struct {
	RunID string
	URL   string
}

// RunResult holds the outcome of an ingestion run
type RunResult struct {
	RunID           string                  `json:"run_id"`
	URL             string                  `json:"url"`
	Success         bool                    `json:"success"`
	CompletedStages []contracts.Stage       `json:"completed_stages"`
	Entry           string                  `json:"entry,omitempty"`
	Bytes           int                     `json:"bytes"`
	Attempts        []fetcher.Attempt       `json:"attempts,omitempty"`
	Encoding        string                  `json:"encoding,omitempty"`
	Rows            int                     `json:"rows"`
	Mapping         contracts.ColumnMapping `json:"mapping"`
	Diagnostics     s1_clean.Diagnostics    `json:"diagnostics"`
	StartedAt       time.Time               `json:"started_at"`
	Duration        time.Duration           `json:"duration_ns"`
	Error           error                   `json:"-"`
	ErrorMessage    string                  `json:"error,omitempty"`
}

// NewRunID returns a fresh run identifier
func NewRunID() string {
	return uuid.NewString()
}

// Orchestrator runs fetch → decode → map → validate → clean → persist
// ⭐ SSOT: 수집 파이프라인 조율은 여기서만
type Orchestrator struct {
	// 실행 직렬화: 데이터셋은 마지막 실행이 덮어씀
	mu sync.Mutex

	fetcher     ArchiveFetcher
	cleaner     *s1_clean.Cleaner
	policy      *policy.Policy
	datasetPath string
	recorder    contracts.RunRecorder
	publisher   contracts.EventPublisher
	logger      *logger.Logger
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(f ArchiveFetcher, p *policy.Policy, datasetPath string, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher:     f,
		cleaner:     s1_clean.NewCleaner(p, log),
		policy:      p,
		datasetPath: datasetPath,
		logger:      log.Stage("pipeline"),
	}
}

// WithRecorder stores every run summary
func (o *Orchestrator) WithRecorder(r contracts.RunRecorder) *Orchestrator {
	o.recorder = r
	return o
}

// WithPublisher announces run completion and failure
func (o *Orchestrator) WithPublisher(p contracts.EventPublisher) *Orchestrator {
	o.publisher = p
	return o
}

// Run executes one ingestion. Any stage failure halts the run; the returned error is
// a *StageError and the result is still populated up to the failing stage.
// Concurrent calls run one at a time.
func (o *Orchestrator) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if cfg.RunID == "" {
		cfg.RunID = NewRunID()
	}

	result := &RunResult{
		RunID:           cfg.RunID,
		URL:             cfg.URL,
		CompletedStages: make([]contracts.Stage, 0, len(contracts.AllStages())),
		StartedAt:       time.Now(),
	}
	log := o.logger.WithFields(map[string]interface{}{
		"run_id": cfg.RunID,
		"url":    cfg.URL,
	})
	log.Info("Starting ingestion run")

	err := o.run(ctx, cfg, result)
	result.Duration = time.Since(result.StartedAt)
	result.Success = err == nil
	if err != nil {
		result.Error = err
		result.ErrorMessage = err.Error()
		log.WithError(err).Error("Ingestion run failed")
	} else {
		log.WithFields(map[string]interface{}{
			"rows":     result.Rows,
			"entry":    result.Entry,
			"duration": result.Duration.String(),
		}).Info("Ingestion run completed")
	}

	o.record(ctx, result)
	o.publish(result)
	return result, err
}

func (o *Orchestrator) run(ctx context.Context, cfg RunConfig, result *RunResult) error {
	done := func(s contracts.Stage) { result.CompletedStages = append(result.CompletedStages, s) }

	// fetch
	dl, err := o.fetcher.Fetch(ctx, cfg.URL)
	var ferr *fetcher.FetchError
	if errors.As(err, &ferr) {
		result.Attempts = ferr.Attempts
	}
	if err != nil {
		return &StageError{Stage: contracts.StageFetch, Err: err}
	}
	result.Attempts = dl.Attempts
	result.Entry = dl.Entry
	result.Bytes = len(dl.Data)
	done(contracts.StageFetch)

	// decode
	raw, enc, err := dataset.Decode(dl.Data)
	if err != nil {
		return &StageError{Stage: contracts.StageDecode, Err: err}
	}
	result.Encoding = enc
	done(contracts.StageDecode)

	// map (best-effort, informational)
	result.Mapping = schema.MapColumns(raw.Columns, o.policy.ExpectedFields)
	if missing := result.Mapping.Missing(); len(missing) > 0 {
		o.logger.WithField("unmatched", missing).Info("Expected fields without a matching column")
	}
	done(contracts.StageMap)

	// validate (strict gate)
	index := schema.IndexColumns(raw.Columns)
	if err := schema.Validate(raw, index, o.policy.RequiredFields); err != nil {
		return &StageError{Stage: contracts.StageValidate, Err: err}
	}
	done(contracts.StageValidate)

	// clean
	cleaned, diag, err := o.cleaner.Clean(raw)
	if err != nil {
		return &StageError{Stage: contracts.StageClean, Err: err}
	}
	if cleaned.Len() != raw.Len() {
		return &StageError{
			Stage: contracts.StageClean,
			Err:   fmt.Errorf("row count changed from %d to %d", raw.Len(), cleaned.Len()),
		}
	}
	result.Diagnostics = diag
	result.Rows = cleaned.Len()
	done(contracts.StageClean)

	// persist
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: contracts.StagePersist, Err: err}
	}
	if err := dataset.WriteCanonical(o.datasetPath, cleaned); err != nil {
		return &StageError{Stage: contracts.StagePersist, Err: err}
	}
	done(contracts.StagePersist)

	return nil
}

// FailedStage returns the stage that failed, or "" for a successful run
func (r *RunResult) FailedStage() contracts.Stage {
	var serr *StageError
	if errors.As(r.Error, &serr) {
		return serr.Stage
	}
	return ""
}

// Record converts the result into its durable summary
func (r *RunResult) Record() *contracts.RunRecord {
	return &contracts.RunRecord{
		RunID:          r.RunID,
		SourceURL:      r.URL,
		Entry:          r.Entry,
		Success:        r.Success,
		FailedStage:    r.FailedStage(),
		Attempts:       len(r.Attempts),
		Rows:           r.Rows,
		InvalidHire:    r.Diagnostics.InvalidHireDates,
		InvalidExit:    r.Diagnostics.InvalidExitDates,
		Error:          r.ErrorMessage,
		StartedAt:      r.StartedAt,
		DurationMillis: r.Duration.Milliseconds(),
	}
}

func (o *Orchestrator) record(ctx context.Context, result *RunResult) {
	if o.recorder == nil {
		return
	}
	// 실행 기록 실패는 실행 결과에 영향 없음
	if err := o.recorder.SaveRun(context.WithoutCancel(ctx), result.Record()); err != nil {
		o.logger.WithError(err).WithField("run_id", result.RunID).Warn("Failed to record ingestion run")
	}
}

func (o *Orchestrator) publish(result *RunResult) {
	if o.publisher == nil {
		return
	}
	eventType := contracts.EventIngestCompleted
	if !result.Success {
		eventType = contracts.EventIngestFailed
	}
	o.publisher.Publish(contracts.Event{
		Type:  eventType,
		RunID: result.RunID,
		Time:  time.Now(),
		Data:  result.Record(),
	})
}
