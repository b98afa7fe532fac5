package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// MetricsSnapshot is the point-in-time aggregate over the canonical dataset.
// nil pointer fields are "not computed" (source column absent) and encode as null.
// ⭐ SSOT: pipeline_metrics.json 스키마
type MetricsSnapshot struct {
	RunDate         time.Time   `json:"run_date"`
	TotalEmployees  int         `json:"total_employees"`
	NewHiresLast30d *int        `json:"new_hires_last_30d"`
	Top5Roles       Frequencies `json:"top_5_roles"`
	AvgTenureDays   *int        `json:"avg_tenure_days"`
	EmailDomains    Frequencies `json:"email_domains"`
}

// QualityReport holds completeness and validity scores. Never persisted.
type QualityReport struct {
	CompletenessEmail *float64 `json:"completeness_email"`
	CompletenessPhone *float64 `json:"completeness_phone"`
	DuplicateEmps     *int     `json:"duplicate_emps"`
	DuplicateKey      string   `json:"duplicate_key,omitempty"`
	ValidEmails       *float64 `json:"valid_emails"`
	QualityScore      float64  `json:"quality_score"`
	TotalRecords      int      `json:"total_records"`
}

// Frequency is one key/count pair of a frequency table
type Frequency struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Frequencies is an ordered frequency table. It encodes as a JSON object in slice order.
type Frequencies []Frequency

// Get returns the count for key
func (f Frequencies) Get(key string) (int, bool) {
	for _, e := range f {
		if e.Key == key {
			return e.Count, true
		}
	}
	return 0, false
}

// MarshalJSON encodes {"key": count, ...} preserving order; nil encodes as {}
func (f Frequencies) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", e.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keeping document order
func (f *Frequencies) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("frequencies: expected object, got %v", tok)
	}

	out := Frequencies{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("frequencies: expected key, got %v", keyTok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("frequencies[%s]: %w", key, err)
		}
		out = append(out, Frequency{Key: key, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = out
	return nil
}
