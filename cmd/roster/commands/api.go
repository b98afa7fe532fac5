package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/roster/internal/api"
	"github.com/wonny/roster/internal/api/handlers"
	"github.com/wonny/roster/internal/scheduler"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /            - Endpoint discovery
  GET  /health      - Health check
  GET  /metrics     - Metrics artifact (generated when absent)
  GET  /quality     - Fresh data quality report
  POST /ingest      - Trigger an ingestion run
  GET  /runs        - Recent ingestion runs (requires DATABASE_URL)
  GET  /ws/events   - Websocket stream of pipeline events

Example:
  go run ./cmd/roster api
  go run ./cmd/roster api --port 8080 --with-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort          string
	apiWithScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default PORT)")
	apiCmd.Flags().BoolVar(&apiWithScheduler, "with-scheduler", false, "also run the scheduled jobs in-process")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	hub := handlers.NewEventHub(a.log)
	defer hub.Close()
	a.publisher = hub

	h := api.Handlers{
		Metrics: handlers.NewMetricsHandler(a.store, a.generator(), a.log),
		Quality: handlers.NewQualityHandler(a.reporter(), a.log),
		Ingest:  handlers.NewIngestHandler(a.orchestrator(), a.source, a.log),
		Runs:    handlers.NewRunsHandler(nil, a.log),
		Events:  hub,
	}
	if a.redis.Enabled() {
		h.Metrics.WithCache(a.cache)
	}
	if a.repo != nil {
		h.Runs = handlers.NewRunsHandler(a.repo, a.log)
	}

	server := api.New(a.cfg, a.log, api.NewRouter(h, a.log))

	var sched *scheduler.Scheduler
	if apiWithScheduler {
		if sched, err = newScheduler(a); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	a.log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
