package policy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ValidationError 정책 검증 실패
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("policy %s: %s", e.Field, e.Message)
}

// Load reads a YAML policy on top of Default.
// Keys omitted from the file keep their default values; unknown keys fail.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes on top of Default and validates the result
func Parse(data []byte) (*Policy, error) {
	p := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode policy: %w", err)
	}

	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Resolve returns Default when path is empty, otherwise the loaded file
func Resolve(path string) (*Policy, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the policy's constraints
func Validate(p *Policy) error {
	lists := []struct {
		name   string
		values []string
	}{
		{"expected_fields", p.ExpectedFields},
		{"required_fields", p.RequiredFields},
		{"canonical_order", p.CanonicalOrder},
		{"duplicate_keys", p.DuplicateKeys},
	}
	for _, l := range lists {
		if len(l.values) == 0 {
			return ValidationError{l.name, "must not be empty"}
		}
		for i, v := range l.values {
			if v == "" {
				return ValidationError{fmt.Sprintf("%s[%d]", l.name, i), "must not be blank"}
			}
		}
	}

	if p.Fields.HireDate == "" || p.Fields.ExitDate == "" {
		return ValidationError{"fields", "hire_date and exit_date are required"}
	}
	if p.NewHireWindowDays <= 0 {
		return ValidationError{"new_hire_window_days", "must be > 0"}
	}
	if p.TopRolesLimit <= 0 {
		return ValidationError{"top_roles_limit", "must be > 0"}
	}
	if p.EmptyQualityScore < 0 || p.EmptyQualityScore > 100 {
		return ValidationError{"empty_quality_score", "must be in [0, 100]"}
	}
	return nil
}
