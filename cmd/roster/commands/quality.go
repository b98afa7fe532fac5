package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// qualityCmd represents the quality command
var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Print the data quality report",
	Long: `Computes completeness, duplicate and email validity figures over the
cleaned dataset. The report is printed only; nothing is written.

Example:
  go run ./cmd/roster quality`,
	RunE: runQuality,
}

func init() {
	rootCmd.AddCommand(qualityCmd)
}

func runQuality(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.reporter().Generate(ctx)
	if err != nil {
		return fmt.Errorf("quality report: %w", err)
	}

	printQuality(report)
	if report.DuplicateKey != "" {
		fmt.Printf("  (duplicates counted on %q over %d records)\n", report.DuplicateKey, report.TotalRecords)
	}
	return nil
}
