package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/roster/internal/pipeline"
	"github.com/wonny/roster/internal/s0_ingest/fetcher"
	"github.com/wonny/roster/internal/s0_ingest/schema"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Download, validate and clean the roster",
	Long: `Runs one ingestion: fetch → decode → map → validate → clean → persist.

The archive URL comes from --url, else SOURCE_PAGE_URL (first linked .zip),
else SOURCE_URL. The cleaned dataset is written to DATASET_PATH.

Example:
  go run ./cmd/roster ingest
  go run ./cmd/roster ingest --url https://example.com/EmployeeSampleData.zip`,
	RunE: runIngest,
}

var (
	ingestURL string
)

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestURL, "url", "", "archive URL (overrides SOURCE_URL and SOURCE_PAGE_URL)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	url := ingestURL
	if url == "" {
		if url, err = a.source.Resolve(ctx); err != nil {
			return fmt.Errorf("resolve source: %w", err)
		}
	}

	PrintHeader("Roster Ingestion")
	PrintKeyValue("Source", url, 8)
	PrintKeyValue("Dataset", a.cfg.Storage.DatasetPath, 8)
	PrintSeparator()

	result, runErr := a.orchestrator().Run(ctx, pipeline.RunConfig{URL: url})
	printRunResult(result, runErr)
	return runErr
}

func printRunResult(r *pipeline.RunResult, err error) {
	PrintKeyValue("Run ID", r.RunID, 8)
	if r.Entry != "" {
		PrintKeyValue("Entry", r.Entry, 8)
	}
	PrintKeyValue("Stages", joinStages(r), 8)

	if len(r.Attempts) > 0 {
		fmt.Println()
		printAttempts(r.Attempts)
	}
	fmt.Println()

	if err != nil {
		PrintError(fmt.Sprintf("Failed at %s: %v", r.FailedStage(), err))

		var verr *schema.ValidationError
		if errors.As(err, &verr) && len(verr.Missing) > 1 {
			PrintWarning("Missing fields: " + strings.Join(verr.Missing, ", "))
		}
		var ferr *fetcher.FetchError
		if errors.As(err, &ferr) {
			PrintWarning(fmt.Sprintf("Download budget exhausted after %d attempt(s)", len(ferr.Attempts)))
		}
		return
	}

	PrintKeyValue("Rows", fmt.Sprintf("%d", r.Rows), 8)
	PrintKeyValue("Encoding", r.Encoding, 8)
	if r.Diagnostics.InvalidHireDates > 0 {
		PrintWarning(fmt.Sprintf("%d rows have an unknown hire date", r.Diagnostics.InvalidHireDates))
	}
	if !r.Diagnostics.NameSplit {
		PrintWarning("Full name column absent, names not split")
	}
	PrintSuccess(fmt.Sprintf("Ingestion completed in %s", r.Duration.Round(time.Millisecond)))
}

func joinStages(r *pipeline.RunResult) string {
	if len(r.CompletedStages) == 0 {
		return "-"
	}
	names := make([]string, len(r.CompletedStages))
	for i, s := range r.CompletedStages {
		names[i] = s.String()
	}
	return strings.Join(names, " → ")
}
