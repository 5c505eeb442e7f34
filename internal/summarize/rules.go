package summarize

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/jobcorpus/models"
	"github.com/dtnitsch/jobcorpus/pkg/summarizer"
)

// FieldRules decides which job fields are summarized.
//
// A field whose name ends in Suffix and holds a string longer than
// Threshold runes is summarized in place. For each Derived entry, a string
// Source longer than Threshold produces Target when Target is absent.
type FieldRules struct {
	Suffix    string
	Derived   []models.DerivedField
	Threshold int
	MaxLength int
}

// RulesFromConfig builds rules from the summarize config section.
func RulesFromConfig(cfg models.SummarizeConfig) FieldRules {
	return FieldRules{
		Suffix:    cfg.Suffix,
		Derived:   cfg.Derived,
		Threshold: cfg.Threshold,
		MaxLength: cfg.MaxLength,
	}
}

// FieldChange records one summarized field.
type FieldChange struct {
	Job       int
	Field     string
	Source    string
	OldLength int
	NewLength int
	Derived   bool
}

// CompanyResult is the outcome for one company.
type CompanyResult struct {
	Jobs    int
	Changes []FieldChange
}

// SummarizeJob applies rules to job and reports what it touched. jobIndex
// is only used for the report.
func SummarizeJob(job *models.Document, jobIndex int, rules FieldRules) []FieldChange {
	var changes []FieldChange

	if rules.Suffix != "" {
		for _, key := range job.Keys() {
			if !strings.HasSuffix(key, rules.Suffix) {
				continue
			}
			text, ok := job.String(key)
			if !ok {
				continue
			}
			oldLen := utf8.RuneCountInString(text)
			if oldLen <= rules.Threshold {
				continue
			}
			summary := summarizer.Summarize(text, rules.MaxLength)
			job.SetString(key, summary)
			changes = append(changes, FieldChange{
				Job:       jobIndex,
				Field:     key,
				Source:    key,
				OldLength: oldLen,
				NewLength: utf8.RuneCountInString(summary),
			})
		}
	}

	for _, d := range rules.Derived {
		if job.Has(d.Target) {
			continue
		}
		text, ok := job.String(d.Source)
		if !ok {
			continue
		}
		oldLen := utf8.RuneCountInString(text)
		if oldLen <= rules.Threshold {
			continue
		}
		summary := summarizer.Summarize(text, rules.MaxLength)
		job.SetString(d.Target, summary)
		changes = append(changes, FieldChange{
			Job:       jobIndex,
			Field:     d.Target,
			Source:    d.Source,
			OldLength: oldLen,
			NewLength: utf8.RuneCountInString(summary),
			Derived:   true,
		})
	}

	return changes
}

// SummarizeCompany applies rules to every job of company. The jobs field is
// only rewritten when something changed; companies without jobs pass
// through untouched.
func SummarizeCompany(company *models.Document, rules FieldRules) (CompanyResult, error) {
	jobs, err := company.Docs("jobs")
	if err != nil {
		return CompanyResult{}, fmt.Errorf("failed to read jobs: %w", err)
	}

	res := CompanyResult{Jobs: len(jobs)}
	for i, job := range jobs {
		if job == nil {
			continue
		}
		res.Changes = append(res.Changes, SummarizeJob(job, i, rules)...)
	}

	if len(res.Changes) > 0 {
		if err := company.SetDocs("jobs", jobs); err != nil {
			return res, err
		}
	}
	return res, nil
}
