package s1_clean

import (
	"strings"
	"time"

	"github.com/wonny/roster/internal/contracts"
)

// dateLayouts are tried in order; the first that parses wins
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/06",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// ParseDate coerces a cell to a date; missing or unparseable cells are unknown
func ParseDate(cell string) contracts.Date {
	if contracts.IsMissing(cell) {
		return contracts.UnknownDate()
	}
	v := strings.TrimSpace(cell)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return contracts.KnownDate(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
		}
	}
	return contracts.UnknownDate()
}
