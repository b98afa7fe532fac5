package schema

import (
	"fmt"
	"strings"

	"github.com/wonny/roster/internal/contracts"
)

// Reason classifies a validation failure
type Reason string

const (
	ReasonEmptyDataset  Reason = "empty_dataset"
	ReasonTooFewColumns Reason = "too_few_columns"
	ReasonMissingField  Reason = "missing_field"
)

// ValidationError is a structural fault; the pipeline halts before cleaning
type ValidationError struct {
	Reason  Reason
	Field   string   // first missing field (missing_field only)
	Missing []string // every missing field, in required order
	Columns int
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmptyDataset:
		return "validation failed: dataset has no rows"
	case ReasonTooFewColumns:
		return fmt.Sprintf("validation failed: dataset has %d column(s), need at least 2", e.Columns)
	case ReasonMissingField:
		return fmt.Sprintf("validation failed: missing required field(s): %s", strings.Join(e.Missing, ", "))
	default:
		return "validation failed: " + string(e.Reason)
	}
}

// Validate checks the structural gate in order: rows, column count, required presence.
// Presence is normalized-name equality against the strict index.
func Validate(set *contracts.RecordSet, index contracts.ColumnIndex, required []string) error {
	if set.Len() == 0 {
		return &ValidationError{Reason: ReasonEmptyDataset, Columns: len(set.Columns)}
	}
	if len(set.Columns) <= 1 {
		return &ValidationError{Reason: ReasonTooFewColumns, Columns: len(set.Columns)}
	}

	var missing []string
	for _, field := range required {
		if !index.Has(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{
			Reason:  ReasonMissingField,
			Field:   missing[0],
			Missing: missing,
			Columns: len(set.Columns),
		}
	}
	return nil
}
