package contracts

import (
	"strings"
	"time"
)

// DateLayout is how known dates are written to the canonical dataset
const DateLayout = "2006-01-02"

// RecordSet is a table exactly as extracted from the source archive
// ⭐ SSOT: fetch/decode → schema/clean 데이터 전달
type RecordSet struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows
func (r *RecordSet) Len() int {
	return len(r.Rows)
}

// Date is a coerced date cell. Valid=false is the unknown marker.
type Date struct {
	Time  time.Time
	Valid bool
}

// KnownDate wraps a parsed date
func KnownDate(t time.Time) Date {
	return Date{Time: t, Valid: true}
}

// UnknownDate returns the unknown marker
func UnknownDate() Date {
	return Date{}
}

// String renders the canonical cell text; unknown dates render empty
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DateLayout)
}

// CleanedRecordSet is the normalized canonical dataset.
// Rows hold the text view; Dates holds the typed view of every date column, row-aligned.
type CleanedRecordSet struct {
	Columns []string
	Rows    [][]string
	Dates   map[string][]Date
}

// Len returns the number of data rows
func (c *CleanedRecordSet) Len() int {
	return len(c.Rows)
}

// Column returns the index of a canonical column name, or -1
func (c *CleanedRecordSet) Column(name string) int {
	for i, col := range c.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Values returns the cells of a column, or nil if the column is absent
func (c *CleanedRecordSet) Values(name string) []string {
	idx := c.Column(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(c.Rows))
	for i, row := range c.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// missingSpellings are the null spellings treated as missing cells.
// Matching is exact and case-sensitive: "Na" or "none" are real values.
var missingSpellings = map[string]struct{}{
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
	"#N/A": {},
	"<NA>": {},
}

// IsMissing reports whether a cell carries no value
func IsMissing(cell string) bool {
	v := strings.TrimSpace(cell)
	if v == "" {
		return true
	}
	_, ok := missingSpellings[v]
	return ok
}
