package policy

// Policy carries every tunable decision of the ingestion and report stages.
// ⭐ SSOT: 필드 목록, 중복 키 우선순위, 기본 점수는 여기서만 정의
type Policy struct {
	// Mapper vocabulary (best-effort discovery)
	ExpectedFields []string `yaml:"expected_fields" json:"expected_fields"`
	// Validator gate (strict presence)
	RequiredFields []string `yaml:"required_fields" json:"required_fields"`
	// Cleaner output order; extra columns follow in original order
	CanonicalOrder []string `yaml:"canonical_order" json:"canonical_order"`
	// Ordered preference for duplicate counting
	DuplicateKeys []string `yaml:"duplicate_keys" json:"duplicate_keys"`

	Fields Fields `yaml:"fields" json:"fields"`

	NewHireWindowDays int     `yaml:"new_hire_window_days" json:"new_hire_window_days"`
	TopRolesLimit     int     `yaml:"top_roles_limit" json:"top_roles_limit"`
	EmptyQualityScore float64 `yaml:"empty_quality_score" json:"empty_quality_score"`
}

// Fields names the canonical columns each computation reads
type Fields struct {
	FullName  string `yaml:"full_name" json:"full_name"`
	FirstName string `yaml:"first_name" json:"first_name"`
	LastName  string `yaml:"last_name" json:"last_name"`
	JobTitle  string `yaml:"job_title" json:"job_title"`
	HireDate  string `yaml:"hire_date" json:"hire_date"`
	ExitDate  string `yaml:"exit_date" json:"exit_date"`
	Email     string `yaml:"email" json:"email"`
	Phone     string `yaml:"phone" json:"phone"`
}

// DateFields returns the columns coerced to dates
func (p *Policy) DateFields() []string {
	return []string{p.Fields.HireDate, p.Fields.ExitDate}
}

// Default returns the policy the source dataset was built against
func Default() *Policy {
	return &Policy{
		ExpectedFields: []string{
			"eeid", "first name", "last name", "full name", "job title", "department",
			"business unit", "gender", "ethnicity", "age", "hire date", "exit date",
			"annual salary", "bonus %", "country", "city", "email", "phone number",
		},
		RequiredFields: []string{
			"eeid", "full name", "job title", "department", "business unit", "gender",
			"ethnicity", "age", "hire date", "annual salary", "bonus %", "country",
			"city", "exit date",
		},
		CanonicalOrder: []string{
			"eeid", "first name", "last name", "job title", "department", "business unit",
			"gender", "ethnicity", "age", "hire date", "annual salary", "bonus %",
			"country", "city", "exit date",
		},
		DuplicateKeys: []string{"eeid", "emp id"},
		Fields: Fields{
			FullName:  "full name",
			FirstName: "first name",
			LastName:  "last name",
			JobTitle:  "job title",
			HireDate:  "hire date",
			ExitDate:  "exit date",
			Email:     "email",
			Phone:     "phone number",
		},
		NewHireWindowDays: 30,
		TopRolesLimit:     5,
		EmptyQualityScore: 100,
	}
}
