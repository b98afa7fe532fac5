package schema

import (
	"strings"

	"github.com/wonny/roster/internal/contracts"
)

// Normalize trims and lower-cases a column name
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeColumns normalizes every column name, keeping order
func NormalizeColumns(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = Normalize(c)
	}
	return out
}

// MapColumns discovers, for each expected field, the first column whose normalized
// name contains any token of the field as a substring. Unmatched fields stay absent.
// Best-effort only: nothing downstream addresses cells through this mapping.
func MapColumns(columns []string, expected []string) contracts.ColumnMapping {
	normalized := NormalizeColumns(columns)
	mapping := contracts.NewColumnMapping(expected)

	for _, field := range expected {
		tokens := strings.Fields(field)
	scan:
		for _, col := range normalized {
			for _, tok := range tokens {
				if strings.Contains(col, tok) {
					mapping.Set(field, col)
					break scan
				}
			}
		}
	}
	return mapping
}

// IndexColumns builds the strict lookup table: normalized name → position.
// When two columns normalize to the same name the first one wins.
func IndexColumns(columns []string) contracts.ColumnIndex {
	ix := make(contracts.ColumnIndex, len(columns))
	for i, c := range columns {
		name := Normalize(c)
		if _, dup := ix[name]; !dup {
			ix[name] = i
		}
	}
	return ix
}
