package policy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := Default()
	require.NoError(t, Validate(p))

	assert.Equal(t, 100.0, p.EmptyQualityScore)
	assert.Equal(t, 30, p.NewHireWindowDays)
	assert.Equal(t, 5, p.TopRolesLimit)
	assert.Equal(t, []string{"eeid", "emp id"}, p.DuplicateKeys)

	// 두 목록은 독립적으로 유지
	assert.Contains(t, p.RequiredFields, "full name")
	assert.NotContains(t, p.RequiredFields, "first name")
	assert.Contains(t, p.ExpectedFields, "first name")
	assert.Equal(t, []string{"hire date", "exit date"}, p.DateFields())
}

func TestParse_OverridesOnlyGivenKeys(t *testing.T) {
	p, err := Parse([]byte("duplicate_keys: [\"emp id\", \"eeid\"]\nempty_quality_score: 0\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"emp id", "eeid"}, p.DuplicateKeys)
	assert.Equal(t, 0.0, p.EmptyQualityScore)
	assert.Equal(t, Default().RequiredFields, p.RequiredFields)
}

func TestParse_UnknownKeyFails(t *testing.T) {
	_, err := Parse([]byte("top_role_limit: 3\n"))
	assert.Error(t, err)
}

func TestParse_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"empty required list", "required_fields: []\n", "required_fields"},
		{"zero window", "new_hire_window_days: 0\n", "new_hire_window_days"},
		{"negative limit", "top_roles_limit: -1\n", "top_roles_limit"},
		{"score above max", "empty_quality_score: 101\n", "empty_quality_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)

			var verr ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestResolve(t *testing.T) {
	p, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, Default(), p)

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top_roles_limit: 3\n"), 0o644))

	p, err = Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, 3, p.TopRolesLimit)

	_, err = Resolve(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_EmptyDocumentKeepsDefaults(t *testing.T) {
	p, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}
