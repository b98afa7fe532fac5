package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/internal/policy"
)

var sourceHeader = []string{
	"EEID", " Full Name", "Job Title", "Department", "Business Unit", "Gender", "Ethnicity",
	"Age", "Hire Date", "Annual Salary", "Bonus %", "Country", "City", "Exit Date ",
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hire date", Normalize("  Hire Date "))
	assert.Equal(t, []string{"eeid", "bonus %"}, NormalizeColumns([]string{"EEID", "Bonus %"}))
}

func TestMapColumns_FirstMatchWins(t *testing.T) {
	mapping := MapColumns(sourceHeader, policy.Default().ExpectedFields)

	col, ok := mapping.Get("job title")
	require.True(t, ok)
	assert.Equal(t, "job title", col)

	// "first name" 토큰 "name" 은 "full name" 에 먼저 걸린다
	col, ok = mapping.Get("first name")
	require.True(t, ok)
	assert.Equal(t, "full name", col)

	// "hire date" 토큰 "date" 는 순서상 먼저 오는 "hire date" 에 걸린다
	col, ok = mapping.Get("exit date")
	require.True(t, ok)
	assert.Equal(t, "hire date", col)

	_, ok = mapping.Get("email")
	assert.False(t, ok)
	assert.Contains(t, mapping.Missing(), "email")
}

func TestMapColumns_NoColumns(t *testing.T) {
	mapping := MapColumns(nil, []string{"eeid"})
	assert.Equal(t, []string{"eeid"}, mapping.Missing())
}

func TestIndexColumns(t *testing.T) {
	ix := IndexColumns([]string{"EEID", "Full Name", "eeid "})

	i, ok := ix.Lookup("eeid")
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.True(t, ix.Has("full name"))
	assert.False(t, ix.Has("Full Name"))
}

func record(columns []string, rows int) *contracts.RecordSet {
	set := &contracts.RecordSet{Columns: columns}
	for i := 0; i < rows; i++ {
		set.Rows = append(set.Rows, make([]string, len(columns)))
	}
	return set
}

func validate(set *contracts.RecordSet) error {
	return Validate(set, IndexColumns(set.Columns), policy.Default().RequiredFields)
}

func TestValidate_Passes(t *testing.T) {
	assert.NoError(t, validate(record(sourceHeader, 3)))
}

func TestValidate_ZeroRows(t *testing.T) {
	err := validate(record(sourceHeader, 0))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ReasonEmptyDataset, verr.Reason)
}

func TestValidate_OneColumn(t *testing.T) {
	// 필수 필드 여부와 무관하게 단일 컬럼은 거부
	err := Validate(record([]string{"eeid"}, 5), IndexColumns([]string{"eeid"}), []string{"eeid"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ReasonTooFewColumns, verr.Reason)
	assert.Equal(t, 1, verr.Columns)
}

func TestValidate_MissingFields(t *testing.T) {
	header := append([]string{}, sourceHeader[:len(sourceHeader)-1]...)
	header[1] = "Name"

	err := validate(record(header, 2))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ReasonMissingField, verr.Reason)
	assert.Equal(t, "full name", verr.Field)
	assert.Equal(t, []string{"full name", "exit date"}, verr.Missing)
	assert.Contains(t, verr.Error(), "full name, exit date")
}

func TestValidate_StrictWhereMapperIsLoose(t *testing.T) {
	header := append([]string{}, sourceHeader...)
	header[0] = "Employee EEID"

	// the mapper still discovers it
	col, ok := MapColumns(header, []string{"eeid"}).Get("eeid")
	require.True(t, ok)
	assert.Equal(t, "employee eeid", col)

	var verr *ValidationError
	require.True(t, errors.As(validate(record(header, 1)), &verr))
	assert.Equal(t, "eeid", verr.Field)
}
