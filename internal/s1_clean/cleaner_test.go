package s1_clean

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/internal/policy"
	"github.com/wonny/roster/pkg/logger"
)

func newCleaner() *Cleaner {
	return NewCleaner(policy.Default(), logger.Nop())
}

func sourceSet() *contracts.RecordSet {
	return &contracts.RecordSet{
		Columns: []string{"Full Name", "Notes", "EEID", "Hire Date", "Exit Date", "Job Title"},
		Rows: [][]string{
			{"Jane Doe", "n1", "E1", "2019-07-01", "", "Analyst"},
			{"Madonna", "n2", "E2", "not a date", "3/15/2023", "Director"},
			{"  Mary   Ann Smith ", "n3", "E3", "1/2/2006", "NaN", "Analyst"},
			{"", "n4", "E4", "", "", ""},
		},
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in          string
		first, last string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Madonna", "Madonna", ""},
		{"Mary Ann Smith", "Mary", "Ann Smith"},
		{"  Jane\tDoe ", "Jane", "Doe"},
		{"", "", ""},
		{"   ", "", ""},
		{"Na", "Na", ""},
		{"None", "None", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			first, last := SplitName(tt.in)
			assert.Equal(t, tt.first, first)
			assert.Equal(t, tt.last, last)
		})
	}
}

func TestClean_PreservesRowCount(t *testing.T) {
	in := sourceSet()

	out, _, err := newCleaner().Clean(in)
	require.NoError(t, err)
	assert.Equal(t, in.Len(), out.Len())

	empty := &contracts.RecordSet{Columns: in.Columns}
	out, _, err = newCleaner().Clean(empty)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestClean_SplitsNamesAndReorders(t *testing.T) {
	out, diag, err := newCleaner().Clean(sourceSet())
	require.NoError(t, err)

	assert.True(t, diag.NameSplit)
	assert.Equal(t,
		[]string{"eeid", "first name", "last name", "job title", "hire date", "exit date", "notes"},
		out.Columns)
	assert.Equal(t, -1, out.Column("full name"))

	assert.Equal(t, []string{"Jane", "Madonna", "Mary", ""}, out.Values("first name"))

	// 단일 토큰 이름의 성은 빈 문자열 (unknown 아님)
	last := out.Values("last name")
	require.NotNil(t, last)
	assert.Equal(t, []string{"Doe", "", "Ann Smith", ""}, last)

	assert.Equal(t, []string{"n1", "n2", "n3", "n4"}, out.Values("notes"))
}

func TestClean_CoercesDates(t *testing.T) {
	out, diag, err := newCleaner().Clean(sourceSet())
	require.NoError(t, err)

	hire := out.Dates["hire date"]
	require.Len(t, hire, 4)
	assert.True(t, hire[0].Valid)
	assert.Equal(t, time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC), hire[0].Time)
	assert.False(t, hire[1].Valid)
	assert.Equal(t, time.Date(2006, 1, 2, 0, 0, 0, 0, time.UTC), hire[2].Time)
	assert.False(t, hire[3].Valid)

	assert.Equal(t, 2, diag.InvalidHireDates)
	assert.Equal(t, 3, diag.InvalidExitDates)

	// text view follows the typed view
	assert.Equal(t, []string{"2019-07-01", "", "2006-01-02", ""}, out.Values("hire date"))
	assert.Equal(t, "2023-03-15", out.Values("exit date")[1])
}

func TestClean_WithoutFullName(t *testing.T) {
	in := &contracts.RecordSet{
		Columns: []string{"First Name", "EEID"},
		Rows:    [][]string{{"Jane", "E1"}},
	}

	out, diag, err := newCleaner().Clean(in)
	require.NoError(t, err)

	assert.False(t, diag.NameSplit)
	assert.Equal(t, []string{"eeid", "first name"}, out.Columns)
	assert.Empty(t, out.Dates)
}

func TestClean_OverwritesExistingNameColumns(t *testing.T) {
	in := &contracts.RecordSet{
		Columns: []string{"EEID", "Last Name", "Full Name"},
		Rows:    [][]string{{"E1", "stale", "Jane Doe"}},
	}

	out, _, err := newCleaner().Clean(in)
	require.NoError(t, err)

	assert.Equal(t, []string{"eeid", "first name", "last name"}, out.Columns)
	assert.Equal(t, []string{"E1", "Jane", "Doe"}, out.Rows[0])
}

func TestClean_DoesNotMutateInput(t *testing.T) {
	in := sourceSet()
	_, _, err := newCleaner().Clean(in)
	require.NoError(t, err)

	assert.Equal(t, sourceSet(), in)
}

func TestClean_WideRowIsStructural(t *testing.T) {
	in := &contracts.RecordSet{
		Columns: []string{"EEID", "Full Name"},
		Rows:    [][]string{{"E1", "Jane", "extra"}},
	}

	_, _, err := newCleaner().Clean(in)
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
		want  string
	}{
		{"2021-03-09", true, "2021-03-09"},
		{"2021-03-09 08:30:00", true, "2021-03-09"},
		{"2021-03-09T08:30:00Z", true, "2021-03-09"},
		{"3/9/2021", true, "2021-03-09"},
		{"3/9/21", true, "2021-03-09"},
		{"2021/03/09", true, "2021-03-09"},
		{"Mar 9, 2021", true, "2021-03-09"},
		{"9 Mar 2021", true, "2021-03-09"},
		{"March 9, 2021", true, "2021-03-09"},
		{"", false, ""},
		{"N/A", false, ""},
		{"31/31/2021", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d := ParseDate(tt.in)
			assert.Equal(t, tt.valid, d.Valid)
			assert.Equal(t, tt.want, d.String())
		})
	}
}
