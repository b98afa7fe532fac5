package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/wonny/roster/internal/contracts"
)

// ErrDatasetNotFound is returned when the canonical dataset has not been written yet
var ErrDatasetNotFound = errors.New("canonical dataset not found")

// WriteCanonical writes the cleaned set as CSV with a header row.
// The file is replaced atomically; date columns are written from their typed view.
// ⭐ SSOT: canonical dataset 쓰기는 여기서만 수행
func WriteCanonical(path string, set *contracts.CleanedRecordSet) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".roster-*.csv")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(set.Columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}

	dateCols := make(map[int][]contracts.Date, len(set.Dates))
	for name, dates := range set.Dates {
		if idx := set.Column(name); idx >= 0 {
			dateCols[idx] = dates
		}
	}

	record := make([]string, len(set.Columns))
	for i, row := range set.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row) {
				record[j] = row[j]
			}
			if dates, ok := dateCols[j]; ok && i < len(dates) {
				record[j] = dates[i].String()
			}
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp dataset: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}

// LoadCanonical reads the persisted dataset and re-coerces the named date columns
func LoadCanonical(path string, dateColumns []string) (*contracts.CleanedRecordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	raw, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	set := &contracts.CleanedRecordSet{
		Columns: raw.Columns,
		Rows:    raw.Rows,
		Dates:   make(map[string][]contracts.Date),
	}

	for _, name := range dateColumns {
		idx := set.Column(name)
		if idx < 0 {
			continue
		}
		dates := make([]contracts.Date, len(set.Rows))
		for i, row := range set.Rows {
			if t, err := time.Parse(contracts.DateLayout, row[idx]); err == nil {
				dates[i] = contracts.KnownDate(t)
			}
		}
		set.Dates[name] = dates
	}

	return set, nil
}
