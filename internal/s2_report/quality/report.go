package quality

import (
	"context"
	"strings"

	"github.com/wonny/roster/internal/contracts"
	"github.com/wonny/roster/internal/dataset"
	"github.com/wonny/roster/internal/policy"
	"github.com/wonny/roster/pkg/logger"
)

// Report computes completeness and validity scores. Pure function of its input.
// ⭐ SSOT: 품질 점수 계산은 여기서만 수행
func Report(set *contracts.CleanedRecordSet, p *policy.Policy) *contracts.QualityReport {
	report := &contracts.QualityReport{TotalRecords: set.Len()}

	emails := set.Values(p.Fields.Email)
	report.CompletenessEmail = Completeness(emails)
	report.CompletenessPhone = Completeness(set.Values(p.Fields.Phone))
	report.ValidEmails = ValidEmails(emails)

	for _, key := range p.DuplicateKeys {
		if ids := set.Values(key); ids != nil {
			n := Duplicates(ids)
			report.DuplicateEmps = &n
			report.DuplicateKey = key
			break
		}
	}

	report.QualityScore = Score(p.EmptyQualityScore,
		report.CompletenessEmail, report.CompletenessPhone, report.ValidEmails)
	return report
}

// Completeness is 100 * non-missing / total; nil when the column is absent or empty
func Completeness(values []string) *float64 {
	if len(values) == 0 {
		return nil
	}
	present := 0
	for _, v := range values {
		if !contracts.IsMissing(v) {
			present++
		}
	}
	pct := 100 * float64(present) / float64(len(values))
	return &pct
}

// Duplicates counts rows whose identifier repeats an earlier one; missing ids are skipped
func Duplicates(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	dups := 0
	for _, id := range ids {
		if contracts.IsMissing(id) {
			continue
		}
		id = strings.TrimSpace(id)
		if _, ok := seen[id]; ok {
			dups++
			continue
		}
		seen[id] = struct{}{}
	}
	return dups
}

// ValidEmails is the share of non-missing emails containing '@'; nil when none are present
func ValidEmails(values []string) *float64 {
	present, valid := 0, 0
	for _, v := range values {
		if contracts.IsMissing(v) {
			continue
		}
		present++
		if strings.Contains(v, "@") {
			valid++
		}
	}
	if present == 0 {
		return nil
	}
	pct := 100 * float64(valid) / float64(present)
	return &pct
}

// Score is the mean of the computed percentages, or fallback when none were computed
func Score(fallback float64, pcts ...*float64) float64 {
	sum, n := 0.0, 0
	for _, p := range pcts {
		if p != nil {
			sum += *p
			n++
		}
	}
	if n == 0 {
		return fallback
	}
	return sum / float64(n)
}

// Reporter reads the canonical dataset and reports on it. Nothing is persisted.
type Reporter struct {
	datasetPath string
	policy      *policy.Policy
	logger      *logger.Logger
}

// NewReporter creates a Reporter over the dataset at datasetPath
func NewReporter(datasetPath string, p *policy.Policy, log *logger.Logger) *Reporter {
	return &Reporter{datasetPath: datasetPath, policy: p, logger: log.Stage("quality")}
}

// Generate loads the dataset and computes a fresh report
func (r *Reporter) Generate(ctx context.Context) (*contracts.QualityReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set, err := dataset.LoadCanonical(r.datasetPath, r.policy.DateFields())
	if err != nil {
		return nil, err
	}

	report := Report(set, r.policy)
	r.logger.WithFields(map[string]interface{}{
		"total_records": report.TotalRecords,
		"quality_score": report.QualityScore,
		"duplicate_key": report.DuplicateKey,
	}).Info("Quality report generated")
	return report, nil
}
