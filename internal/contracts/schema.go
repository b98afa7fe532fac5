package contracts

import (
	"bytes"
	"encoding/json"
)

// ColumnMapping maps each expected field to the first column that matched it (best-effort).
// Informational only: logged and reported in run results, never used to address cells.
type ColumnMapping struct {
	fields  []string
	matched map[string]string
}

// NewColumnMapping creates an empty mapping over the given field vocabulary
func NewColumnMapping(fields []string) ColumnMapping {
	return ColumnMapping{
		fields:  append([]string(nil), fields...),
		matched: make(map[string]string, len(fields)),
	}
}

// Set records the column that matched a field
func (m *ColumnMapping) Set(field, column string) {
	m.matched[field] = column
}

// Get returns the matched column for a field
func (m ColumnMapping) Get(field string) (string, bool) {
	col, ok := m.matched[field]
	return col, ok
}

// Fields returns the vocabulary in order
func (m ColumnMapping) Fields() []string {
	return m.fields
}

// Missing returns the fields with no match, in vocabulary order
func (m ColumnMapping) Missing() []string {
	var out []string
	for _, f := range m.fields {
		if _, ok := m.matched[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}

// MarshalJSON writes fields in vocabulary order; unmatched fields are null
func (m ColumnMapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		col, ok := m.matched[f]
		if !ok {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ColumnIndex maps normalized column names to their positions (strict equality).
// Authoritative for validation, cleaning and the report stages.
type ColumnIndex map[string]int

// Lookup returns the position of a normalized column name
func (ix ColumnIndex) Lookup(name string) (int, bool) {
	i, ok := ix[name]
	return i, ok
}

// Has reports whether a normalized column name is present
func (ix ColumnIndex) Has(name string) bool {
	_, ok := ix[name]
	return ok
}
