package quality

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/internal/dataset"
	"github.com/wonny/roster/internal/policy"
	"github.com/wonny/roster/pkg/logger"
)

func TestReport_NoComputableFieldsScoresPolicyDefault(t *testing.T) {
	set := &contracts.CleanedRecordSet{
		Columns: []string{"first name"},
		Rows:    [][]string{{"Jane"}},
	}

	report := Report(set, policy.Default())

	assert.Equal(t, 100.0, report.QualityScore)
	assert.Nil(t, report.CompletenessEmail)
	assert.Nil(t, report.CompletenessPhone)
	assert.Nil(t, report.ValidEmails)
	assert.Nil(t, report.DuplicateEmps)

	p := policy.Default()
	p.EmptyQualityScore = 0
	assert.Equal(t, 0.0, Report(set, p).QualityScore)
}

func TestReport_DuplicatesOnIdentifier(t *testing.T) {
	// 10 rows, 3 distinct ids → 7 duplicates; emails are unique
	set := &contracts.CleanedRecordSet{Columns: []string{"eeid", "email"}}
	for i := 0; i < 10; i++ {
		set.Rows = append(set.Rows, []string{
			fmt.Sprintf("E%d", i%3),
			fmt.Sprintf("user%d@corp.com", i),
		})
	}

	report := Report(set, policy.Default())

	require.NotNil(t, report.DuplicateEmps)
	assert.Equal(t, 7, *report.DuplicateEmps)
	assert.Equal(t, "eeid", report.DuplicateKey)
}

func TestReport_DuplicateKeyPreference(t *testing.T) {
	set := &contracts.CleanedRecordSet{
		Columns: []string{"emp id", "eeid"},
		Rows:    [][]string{{"A", "1"}, {"A", "2"}, {"B", "2"}},
	}

	report := Report(set, policy.Default())
	assert.Equal(t, "eeid", report.DuplicateKey)
	assert.Equal(t, 1, *report.DuplicateEmps)

	p := policy.Default()
	p.DuplicateKeys = []string{"emp id", "eeid"}
	report = Report(set, p)
	assert.Equal(t, "emp id", report.DuplicateKey)
	assert.Equal(t, 1, *report.DuplicateEmps)

	set.Columns = []string{"emp id", "other"}
	report = Report(set, policy.Default())
	assert.Equal(t, "emp id", report.DuplicateKey)
}

func TestReport_Percentages(t *testing.T) {
	set := &contracts.CleanedRecordSet{
		Columns: []string{"email", "phone number"},
		Rows: [][]string{
			{"a@corp.com", "555-0100"},
			{"broken", ""},
			{"", ""},
			{"b@corp.com", "NA"},
		},
	}

	report := Report(set, policy.Default())

	require.NotNil(t, report.CompletenessEmail)
	assert.InDelta(t, 75.0, *report.CompletenessEmail, 1e-9)
	require.NotNil(t, report.CompletenessPhone)
	assert.InDelta(t, 25.0, *report.CompletenessPhone, 1e-9)
	require.NotNil(t, report.ValidEmails)
	assert.InDelta(t, 200.0/3, *report.ValidEmails, 1e-9)
	assert.InDelta(t, (75.0+25.0+200.0/3)/3, report.QualityScore, 1e-9)
	assert.Equal(t, 4, report.TotalRecords)
}

func TestCompleteness_ZeroPercentDiffersFromAbsent(t *testing.T) {
	got := Completeness([]string{"", "NaN"})
	require.NotNil(t, got)
	assert.Equal(t, 0.0, *got)

	assert.Nil(t, Completeness(nil))
}

func TestValidEmails_AllMissing(t *testing.T) {
	assert.Nil(t, ValidEmails([]string{"", "null"}))
}

func TestDuplicates_SkipsMissing(t *testing.T) {
	assert.Equal(t, 1, Duplicates([]string{"", "", "E1", "E1 ", "N/A"}))
}

func TestReporter_Generate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "employees_cleaned.csv")
	require.NoError(t, dataset.WriteCanonical(path, &contracts.CleanedRecordSet{
		Columns: []string{"eeid", "email"},
		Rows:    [][]string{{"E1", "a@x.com"}, {"E1", ""}},
	}))

	report, err := NewReporter(path, policy.Default(), logger.Nop()).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, *report.DuplicateEmps)
	assert.InDelta(t, 50.0, *report.CompletenessEmail, 1e-9)
	assert.InDelta(t, 100.0, *report.ValidEmails, 1e-9)
}

func TestReporter_MissingDataset(t *testing.T) {
	_, err := NewReporter(filepath.Join(t.TempDir(), "none.csv"), policy.Default(), logger.Nop()).
		Generate(context.Background())
	assert.True(t, errors.Is(err, dataset.ErrDatasetNotFound))
}
