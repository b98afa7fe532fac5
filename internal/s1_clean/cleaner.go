package s1_clean

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/internal/policy"
	"github.com/wonny/roster/internal/s0_ingest/schema"
	"github.com/wonny/roster/pkg/logger"
)

// Diagnostics reports data-quality findings of a clean run; none of them fail the run
type Diagnostics struct {
	NameSplit        bool `json:"name_split"`
	InvalidHireDates int  `json:"invalid_hire_dates"`
	InvalidExitDates int  `json:"invalid_exit_dates"`
}

// Cleaner normalizes a validated RecordSet into the canonical dataset
// ⭐ SSOT: 이름 분리, 날짜 변환, 컬럼 정렬은 여기서만 수행
type Cleaner struct {
	policy *policy.Policy
	logger *logger.Logger
}

// NewCleaner creates a new Cleaner
func NewCleaner(p *policy.Policy, log *logger.Logger) *Cleaner {
	return &Cleaner{policy: p, logger: log.Stage("clean")}
}

// Clean never drops rows: the output has exactly set.Len() rows.
// It fails only when a row is wider than the header.
func (c *Cleaner) Clean(set *contracts.RecordSet) (*contracts.CleanedRecordSet, Diagnostics, error) {
	var diag Diagnostics

	columns := schema.NormalizeColumns(set.Columns)
	rows := make([][]string, len(set.Rows))
	for i, row := range set.Rows {
		if len(row) > len(columns) {
			return nil, diag, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), len(columns))
		}
		cp := make([]string, len(columns))
		copy(cp, row)
		rows[i] = cp
	}

	columns, rows, diag.NameSplit = c.splitNames(columns, rows)

	dates := make(map[string][]contracts.Date)
	index := schema.IndexColumns(columns)
	f := c.policy.Fields
	if n, ok := coerceDates(index, f.HireDate, rows, dates); ok {
		diag.InvalidHireDates = n
		if n > 0 {
			c.logger.WithField("column", f.HireDate).Warnf("%d rows have an unknown %s", n, f.HireDate)
		}
	}
	if n, ok := coerceDates(index, f.ExitDate, rows, dates); ok {
		diag.InvalidExitDates = n
		if n > 0 {
			c.logger.WithField("column", f.ExitDate).Infof("%d rows have an unknown %s", n, f.ExitDate)
		}
	}

	columns, rows = reorder(columns, rows, c.policy.CanonicalOrder)

	c.logger.WithFields(map[string]interface{}{
		"rows":       len(rows),
		"columns":    len(columns),
		"name_split": diag.NameSplit,
	}).Info("Dataset cleaned")

	return &contracts.CleanedRecordSet{Columns: columns, Rows: rows, Dates: dates}, diag, nil
}

// splitNames replaces the full-name column with first/last name columns
func (c *Cleaner) splitNames(columns []string, rows [][]string) ([]string, [][]string, bool) {
	f := c.policy.Fields
	index := schema.IndexColumns(columns)

	fullIdx, ok := index.Lookup(f.FullName)
	if !ok {
		c.logger.WithField("column", f.FullName).Warn("Full name column absent, names not split")
		return columns, rows, false
	}

	firstIdx, hasFirst := index.Lookup(f.FirstName)
	lastIdx, hasLast := index.Lookup(f.LastName)
	if !hasFirst {
		columns = append(columns, f.FirstName)
		firstIdx = len(columns) - 1
	}
	if !hasLast {
		columns = append(columns, f.LastName)
		lastIdx = len(columns) - 1
	}

	for i, row := range rows {
		for len(row) < len(columns) {
			row = append(row, "")
		}
		row[firstIdx], row[lastIdx] = SplitName(row[fullIdx])
		rows[i] = removeAt(row, fullIdx)
	}
	return removeAt(columns, fullIdx), rows, true
}

// SplitName splits at the first whitespace run. A single token yields an empty
// last name; a blank cell yields two empty names. Null spellings are kept as
// names since a single token like "Na" is a real first name.
func SplitName(full string) (string, string) {
	v := strings.TrimSpace(full)
	if v == "" {
		return "", ""
	}
	i := strings.IndexFunc(v, unicode.IsSpace)
	if i < 0 {
		return v, ""
	}
	return v[:i], strings.TrimLeftFunc(v[i:], unicode.IsSpace)
}

// coerceDates parses a date column into dates[name] and rewrites its text cells.
// Returns the unknown count and whether the column exists.
func coerceDates(index contracts.ColumnIndex, name string, rows [][]string, dates map[string][]contracts.Date) (int, bool) {
	idx, ok := index.Lookup(name)
	if !ok {
		return 0, false
	}

	unknown := 0
	col := make([]contracts.Date, len(rows))
	for i, row := range rows {
		d := ParseDate(row[idx])
		if !d.Valid {
			unknown++
		}
		col[i] = d
		row[idx] = d.String()
	}
	dates[name] = col
	return unknown, true
}

// reorder puts the canonical columns first (those present), then the rest in original order
func reorder(columns []string, rows [][]string, canonical []string) ([]string, [][]string) {
	index := schema.IndexColumns(columns)
	taken := make([]bool, len(columns))
	perm := make([]int, 0, len(columns))

	for _, name := range canonical {
		if i, ok := index.Lookup(name); ok && !taken[i] {
			perm = append(perm, i)
			taken[i] = true
		}
	}
	for i := range columns {
		if !taken[i] {
			perm = append(perm, i)
		}
	}

	outCols := make([]string, len(perm))
	for j, i := range perm {
		outCols[j] = columns[i]
	}
	outRows := make([][]string, len(rows))
	for r, row := range rows {
		out := make([]string, len(perm))
		for j, i := range perm {
			out[j] = row[i]
		}
		outRows[r] = out
	}
	return outCols, outRows
}

func removeAt(s []string, i int) []string {
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}
