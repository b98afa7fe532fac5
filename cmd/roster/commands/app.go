package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/roster/internal/artifact"
	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/internal/pipeline"
	"github.com/wonny/roster/internal/policy"
	"github.com/wonny/roster/internal/s0_ingest/fetcher"
	"github.com/wonny/roster/internal/s2_report/metrics"
	"github.com/wonny/roster/internal/s2_report/quality"
	"github.com/wonny/roster/pkg/config"
	"github.com/wonny/roster/pkg/database"
	"github.com/wonny/roster/pkg/httputil"
	"github.com/wonny/roster/pkg/logger"
	"github.com/wonny/roster/pkg/redis"
)

// app holds every dependency a command may need.
// Postgres and Redis are optional; without them runs and snapshots are simply not recorded.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	policy *policy.Policy

	redis *redis.Client
	cache *redis.Cache
	db    *database.DB
	repo  *artifact.Repository

	http   *httputil.Client
	store  *artifact.FileStore
	source fetcher.Source

	// Optional event sink (the API's websocket hub)
	publisher contracts.EventPublisher

	// One per process; Run calls serialize on it
	orch *pipeline.Orchestrator
}

// newApp loads config and connects the optional backends
func newApp(ctx context.Context) (*app, error) {
	// 1. Load config
	cfg, err := config.LoadWithEnvFile(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Load policy
	pol, err := policy.Resolve(cfg.PolicyFile)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	a := &app{
		cfg:    cfg,
		log:    log,
		policy: pol,
		store:  artifact.NewFileStore(cfg.Storage.MetricsPath),
	}

	// 4. Redis (optional)
	a.redis, err = redis.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.cache = redis.NewCache(a.redis, "roster")

	// 5. Postgres (optional)
	a.db, err = database.New(ctx, cfg.Database)
	switch {
	case errors.Is(err, database.ErrDisabled):
		log.Debug("DATABASE_URL not set, run history disabled")
	case err != nil:
		a.close()
		return nil, fmt.Errorf("connect to database: %w", err)
	default:
		a.repo = artifact.NewRepository(a.db.Pool)
		if err := a.repo.EnsureSchema(ctx); err != nil {
			a.close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}

	// 6. HTTP client: the fetcher owns the attempt budget
	a.http = httputil.New(cfg, log).DisableRetry()
	if a.redis.Enabled() {
		a.http.WithRateLimiter(redis.NewRateLimiter(a.redis, "roster"), redis.SourceRateLimit)
	}

	a.source = fetcher.Source{
		URL:     cfg.Source.URL,
		PageURL: cfg.Source.PageURL,
		Client:  a.http,
	}

	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	a.db.Close()
}

// orchestrator builds the ingestion pipeline once
func (a *app) orchestrator() *pipeline.Orchestrator {
	if a.orch != nil {
		return a.orch
	}

	f := fetcher.New(a.http, fetcher.Config{
		MaxAttempts: a.cfg.Source.MaxAttempts,
		RetryDelay:  a.cfg.Source.RetryDelay,
	}, a.log)

	o := pipeline.NewOrchestrator(f, a.policy, a.cfg.Storage.DatasetPath, a.log)
	if a.repo != nil {
		o.WithRecorder(a.repo)
	}
	if a.publisher != nil {
		o.WithPublisher(a.publisher)
	}
	a.orch = o
	return o
}

// generator builds the metrics generator with every configured sink
func (a *app) generator() *metrics.Generator {
	g := metrics.NewGenerator(a.cfg.Storage.DatasetPath, a.policy, a.store, a.log)
	if a.repo != nil {
		g.WithHistory(a.repo)
	}
	if a.redis.Enabled() {
		g.WithCache(a.cache)
	}
	if a.publisher != nil {
		g.WithPublisher(a.publisher)
	}
	return g
}

// reporter builds the quality reporter
func (a *app) reporter() *quality.Reporter {
	return quality.NewReporter(a.cfg.Storage.DatasetPath, a.policy, a.log)
}
