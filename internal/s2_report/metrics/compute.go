package metrics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/internal/policy"
)

// Compute derives the snapshot from the canonical dataset. Pure: the same set and
// reference time always give the same snapshot.
func Compute(set *contracts.CleanedRecordSet, ref time.Time, p *policy.Policy) *contracts.MetricsSnapshot {
	snap := &contracts.MetricsSnapshot{
		RunDate:        ref,
		TotalEmployees: set.Len(),
		Top5Roles:      contracts.Frequencies{},
		EmailDomains:   contracts.Frequencies{},
	}

	if hires, ok := set.Dates[p.Fields.HireDate]; ok {
		day := calendarDay(ref)
		n := NewHires(hires, day, p.NewHireWindowDays)
		snap.NewHiresLast30d = &n
		snap.AvgTenureDays = AverageTenure(hires, day)
	}

	if titles := set.Values(p.Fields.JobTitle); titles != nil {
		snap.Top5Roles = TopN(count(titles, trimmed), p.TopRolesLimit)
	}

	if emails := set.Values(p.Fields.Email); emails != nil {
		snap.EmailDomains = count(emails, emailDomain)
	}

	return snap
}

// NewHires counts known hire dates within [day - window, day]
func NewHires(hires []contracts.Date, day time.Time, windowDays int) int {
	lower := day.AddDate(0, 0, -windowDays)
	n := 0
	for _, d := range hires {
		if !d.Valid {
			continue
		}
		if !d.Time.Before(lower) && !d.Time.After(day) {
			n++
		}
	}
	return n
}

// AverageTenure is the rounded mean of whole days between each known hire date and
// day; nil when no hire date is known
func AverageTenure(hires []contracts.Date, day time.Time) *int {
	total, known := 0, 0
	for _, d := range hires {
		if !d.Valid {
			continue
		}
		total += int(math.Floor(day.Sub(d.Time).Hours() / 24))
		known++
	}
	if known == 0 {
		return nil
	}
	avg := int(math.Round(float64(total) / float64(known)))
	return &avg
}

// TopN keeps the first n entries of a frequency table
func TopN(f contracts.Frequencies, n int) contracts.Frequencies {
	if len(f) > n {
		return f[:n]
	}
	return f
}

// count builds a frequency table in descending count order, ties in first-seen order.
// Cells that are missing or rejected by key are skipped.
func count(values []string, key func(string) (string, bool)) contracts.Frequencies {
	out := contracts.Frequencies{}
	pos := make(map[string]int)
	for _, v := range values {
		if contracts.IsMissing(v) {
			continue
		}
		k, ok := key(v)
		if !ok {
			continue
		}
		if i, seen := pos[k]; seen {
			out[i].Count++
			continue
		}
		pos[k] = len(out)
		out = append(out, contracts.Frequency{Key: k, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func trimmed(v string) (string, bool) {
	return strings.TrimSpace(v), true
}

// emailDomain returns the text after the first '@'. "user@" counts under the
// empty domain; values without '@' have no domain.
func emailDomain(v string) (string, bool) {
	v = strings.TrimSpace(v)
	i := strings.Index(v, "@")
	if i < 0 {
		return "", false
	}
	return v[i+1:], true
}

// calendarDay truncates t to midnight UTC of its own calendar date, the form
// hire dates are stored in
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
