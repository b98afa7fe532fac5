package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/roster/internal/dataset"
	"github.com/wonny/roster/internal/policy"
	"github.com/wonny/roster/internal/s0_ingest/fetcher"
	"github.com/wonny/roster/internal/s0_ingest/schema"
	"github.com/wonny/roster/pkg/config"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file.zip|file.csv>",
	Short: "Validate a local archive or CSV without writing anything",
	Long: `Runs decode → map → validate on a local file and prints the column mapping.

Use it to try a new export before pointing SOURCE_URL at it.

Example:
  go run ./cmd/roster check ./EmployeeSampleData.zip
  go run ./cmd/roster check ./employees.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := config.LoadWithEnvFile(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	pol, err := policy.Resolve(cfg.PolicyFile)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	PrintHeader("Roster Check")
	PrintKeyValue("File", filepath.Base(path), 8)

	if strings.EqualFold(filepath.Ext(path), ".zip") {
		entry, content, err := fetcher.ExtractEntry(data)
		if err != nil {
			PrintError(err.Error())
			return err
		}
		PrintKeyValue("Entry", entry, 8)
		data = content
	}

	set, enc, err := dataset.Decode(data)
	if err != nil {
		PrintError(err.Error())
		return err
	}
	PrintKeyValue("Encoding", enc, 8)
	PrintKeyValue("Rows", fmt.Sprintf("%d", set.Len()), 8)
	PrintKeyValue("Columns", fmt.Sprintf("%d", len(set.Columns)), 8)
	PrintSeparator()

	mapping := schema.MapColumns(set.Columns, pol.ExpectedFields)
	widths := []int{16, 24}
	PrintTableHeader([]string{"Field", "Column"}, widths)
	for _, field := range mapping.Fields() {
		column, ok := mapping.Get(field)
		if !ok {
			column = "-"
		}
		PrintTableRow([]string{field, column}, widths)
	}
	fmt.Println()

	if err := schema.Validate(set, schema.IndexColumns(set.Columns), pol.RequiredFields); err != nil {
		PrintError(err.Error())
		return err
	}
	PrintSuccess("File passes validation")
	return nil
}
