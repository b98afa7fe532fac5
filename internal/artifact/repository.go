package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/roster/internal/contracts"
)

// ErrNoSnapshot is returned when the history table is empty
var ErrNoSnapshot = errors.New("no metrics snapshot recorded")

// Repository keeps snapshot history and ingestion runs in Postgres
// ⭐ SSOT: roster 스키마 저장/조회
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const schemaDDL = `
	CREATE SCHEMA IF NOT EXISTS roster;

	CREATE TABLE IF NOT EXISTS roster.metrics_snapshots (
		id              BIGSERIAL PRIMARY KEY,
		run_date        TIMESTAMPTZ NOT NULL,
		total_employees INTEGER NOT NULL,
		new_hires       INTEGER,
		avg_tenure_days INTEGER,
		top_roles       JSON NOT NULL,
		email_domains   JSON NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS roster.ingest_runs (
		run_id             TEXT PRIMARY KEY,
		source_url         TEXT NOT NULL,
		entry              TEXT NOT NULL DEFAULT '',
		success            BOOLEAN NOT NULL,
		failed_stage       TEXT NOT NULL DEFAULT '',
		attempts           INTEGER NOT NULL,
		rows               INTEGER NOT NULL,
		invalid_hire_dates INTEGER NOT NULL,
		invalid_exit_dates INTEGER NOT NULL,
		error              TEXT NOT NULL DEFAULT '',
		started_at         TIMESTAMPTZ NOT NULL,
		duration_ms        BIGINT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ingest_runs_started ON roster.ingest_runs (started_at DESC);
`

// EnsureSchema creates the roster schema and tables when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure roster schema: %w", err)
	}
	return nil
}

// SaveSnapshot appends a snapshot to the history
func (r *Repository) SaveSnapshot(ctx context.Context, snap *contracts.MetricsSnapshot) error {
	roles, err := json.Marshal(snap.Top5Roles)
	if err != nil {
		return fmt.Errorf("encode top roles: %w", err)
	}
	domains, err := json.Marshal(snap.EmailDomains)
	if err != nil {
		return fmt.Errorf("encode email domains: %w", err)
	}

	query := `
		INSERT INTO roster.metrics_snapshots (
			run_date, total_employees, new_hires, avg_tenure_days, top_roles, email_domains
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.pool.Exec(ctx, query,
		snap.RunDate,
		snap.TotalEmployees,
		snap.NewHiresLast30d,
		snap.AvgTenureDays,
		string(roles),
		string(domains),
	)
	if err != nil {
		return fmt.Errorf("save metrics snapshot: %w", err)
	}
	return nil
}

// GetLatestSnapshot returns the most recent snapshot by run date
func (r *Repository) GetLatestSnapshot(ctx context.Context) (*contracts.MetricsSnapshot, error) {
	query := `
		SELECT run_date, total_employees, new_hires, avg_tenure_days, top_roles, email_domains
		FROM roster.metrics_snapshots
		ORDER BY run_date DESC, id DESC
		LIMIT 1
	`

	var snap contracts.MetricsSnapshot
	var roles, domains []byte
	err := r.pool.QueryRow(ctx, query).Scan(
		&snap.RunDate,
		&snap.TotalEmployees,
		&snap.NewHiresLast30d,
		&snap.AvgTenureDays,
		&roles,
		&domains,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}

	if err := json.Unmarshal(roles, &snap.Top5Roles); err != nil {
		return nil, fmt.Errorf("decode top roles: %w", err)
	}
	if err := json.Unmarshal(domains, &snap.EmailDomains); err != nil {
		return nil, fmt.Errorf("decode email domains: %w", err)
	}
	return &snap, nil
}

// SaveRun records an ingestion run (upsert by run id)
func (r *Repository) SaveRun(ctx context.Context, run *contracts.RunRecord) error {
	query := `
		INSERT INTO roster.ingest_runs (
			run_id, source_url, entry, success, failed_stage, attempts, rows,
			invalid_hire_dates, invalid_exit_dates, error, started_at, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (run_id) DO UPDATE SET
			entry = EXCLUDED.entry,
			success = EXCLUDED.success,
			failed_stage = EXCLUDED.failed_stage,
			attempts = EXCLUDED.attempts,
			rows = EXCLUDED.rows,
			invalid_hire_dates = EXCLUDED.invalid_hire_dates,
			invalid_exit_dates = EXCLUDED.invalid_exit_dates,
			error = EXCLUDED.error,
			duration_ms = EXCLUDED.duration_ms
	`
	_, err := r.pool.Exec(ctx, query,
		run.RunID,
		run.SourceURL,
		run.Entry,
		run.Success,
		string(run.FailedStage),
		run.Attempts,
		run.Rows,
		run.InvalidHire,
		run.InvalidExit,
		run.Error,
		run.StartedAt,
		run.DurationMillis,
	)
	if err != nil {
		return fmt.Errorf("save ingest run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]contracts.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT run_id, source_url, entry, success, failed_stage, attempts, rows,
			invalid_hire_dates, invalid_exit_dates, error, started_at, duration_ms
		FROM roster.ingest_runs
		ORDER BY started_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingest runs: %w", err)
	}
	defer rows.Close()

	runs := make([]contracts.RunRecord, 0, limit)
	for rows.Next() {
		var run contracts.RunRecord
		var stage string
		if err := rows.Scan(
			&run.RunID,
			&run.SourceURL,
			&run.Entry,
			&run.Success,
			&stage,
			&run.Attempts,
			&run.Rows,
			&run.InvalidHire,
			&run.InvalidExit,
			&run.Error,
			&run.StartedAt,
			&run.DurationMillis,
		); err != nil {
			return nil, fmt.Errorf("scan ingest run: %w", err)
		}
		run.FailedStage = contracts.Stage(stage)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingest runs: %w", err)
	}
	return runs, nil
}
