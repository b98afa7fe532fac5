package commands

import (
	"fmt"
	"strings"

	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/internal/s0_ingest/fetcher"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a titled double-line header
func PrintHeader(title string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// printMetrics prints the snapshot one key per line in artifact order
func printMetrics(snap *contracts.MetricsSnapshot) {
	fmt.Println("📊 DAILY METRICS GENERATED:")
	fmt.Printf("  run_date: %s\n", snap.RunDate.Format("2006-01-02T15:04:05"))
	fmt.Printf("  total_employees: %d\n", snap.TotalEmployees)
	fmt.Printf("  new_hires_last_30d: %s\n", intOrNull(snap.NewHiresLast30d))
	fmt.Printf("  top_5_roles: %s\n", formatFrequencies(snap.Top5Roles))
	fmt.Printf("  avg_tenure_days: %s\n", intOrNull(snap.AvgTenureDays))
	fmt.Printf("  email_domains: %s\n", formatFrequencies(snap.EmailDomains))
}

// printQuality prints a report: percentages with one decimal, absent values as MISSING
func printQuality(q *contracts.QualityReport) {
	fmt.Println("🔍 DATA QUALITY REPORT:")
	fmt.Printf("  completeness_email: %s\n", percentOrMissing(q.CompletenessEmail))
	fmt.Printf("  completeness_phone: %s\n", percentOrMissing(q.CompletenessPhone))
	if q.DuplicateEmps == nil {
		fmt.Println("  duplicate_emps: MISSING")
	} else {
		fmt.Printf("  duplicate_emps: %d\n", *q.DuplicateEmps)
	}
	fmt.Printf("  valid_emails: %s\n", percentOrMissing(q.ValidEmails))
	fmt.Printf("  quality_score: %.1f%%\n", q.QualityScore)
}

// printAttempts prints one table row per download attempt
func printAttempts(attempts []fetcher.Attempt) {
	widths := []int{7, 11, 6, 10}
	PrintTableHeader([]string{"Attempt", "Outcome", "Status", "Bytes"}, widths)
	for _, a := range attempts {
		status := "-"
		if a.StatusCode != 0 {
			status = fmt.Sprintf("%d", a.StatusCode)
		}
		PrintTableRow([]string{
			fmt.Sprintf("#%d", a.Index),
			string(a.Outcome),
			status,
			fmt.Sprintf("%d", a.Bytes),
		}, widths)
	}
}

func intOrNull(v *int) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *v)
}

func percentOrMissing(v *float64) string {
	if v == nil {
		return "MISSING"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func formatFrequencies(f contracts.Frequencies) string {
	parts := make([]string, len(f))
	for i, e := range f {
		parts[i] = fmt.Sprintf("%q: %d", e.Key, e.Count)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
