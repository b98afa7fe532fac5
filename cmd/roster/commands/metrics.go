package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// metricsCmd represents the metrics command
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Generate the daily metrics artifact",
	Long: `Computes the metrics snapshot over the cleaned dataset and writes METRICS_PATH.

When DATABASE_URL is set the snapshot is also recorded in the history table;
when Redis is enabled the cached artifact is invalidated.

Example:
  go run ./cmd/roster metrics`,
	RunE: runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.generator().Generate(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("generate metrics: %w", err)
	}

	printMetrics(res.Snapshot)
	fmt.Println()

	if res.PersistErr != nil {
		PrintWarning(fmt.Sprintf("Metrics not fully persisted: %v", res.PersistErr))
		return res.PersistErr
	}
	PrintSuccess("Metrics written to " + a.store.Path())
	return nil
}
