// Package schema maps crawled company records onto the import schema.
package schema

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dtnitsch/jobcorpus/models"
)

// Options adjusts the transform.
type Options struct {
	// DefaultSource fills job.source when it is missing or empty.
	DefaultSource string
	// NormalizeDates converts dd/mm/yyyy and yyyy-mm-dd deadline and
	// posted dates to epoch milliseconds.
	NormalizeDates bool
}

// Source field names. Target names live on the struct tags in models.
const (
	srcCompanyName  = "companyName"
	srcCompanyURL   = "companyUrl"
	srcCompanyEmail = "companyEmail"
	srcCompanyPhone = "companyPhone"

	srcWorkArrangement     = "work_arrangement"
	srcJobType             = "job_type"
	srcJobURL              = "job_url"
	srcApplicationDeadline = "application_deadline"
	srcJobCreatedAt        = "jobCreatedAt"
	srcBudgetRaw           = "budgetRaw"
	srcBudget              = "budget"
)

var (
	rawDefaultDeadline = json.RawMessage(strconv.FormatInt(models.DefaultApplicationDeadline, 10))
	rawDefaultPosted   = json.RawMessage(strconv.FormatInt(models.DefaultPostedDate, 10))
)

// TransformCompany builds the target company from a source record. Missing
// fields take their defaults; string fields holding a non-string value
// also take the default.
func TransformCompany(src *models.Document, opts Options) (models.Company, error) {
	company := models.Company{
		Name:          src.StringOr(srcCompanyName, ""),
		NameEmbedding: models.EmptyEmbedding(),
		Website:       src.StringOr(srcCompanyURL, ""),
		Description:   src.StringOr("description", ""),
		Size:          src.StringOr("size", ""),
		Industry:      src.StringOr("industry", ""),
		Location:      src.RawOr("location", models.RawEmptyArray),
		Email:         src.StringOr(srcCompanyEmail, ""),
		Phone:         src.StringOr(srcCompanyPhone, ""),
		Jobs:          []models.Job{},
	}

	jobs, err := src.Docs("jobs")
	if err != nil {
		return company, fmt.Errorf("company %q: %w", company.Name, err)
	}
	for _, job := range jobs {
		if job == nil {
			continue
		}
		company.Jobs = append(company.Jobs, TransformJob(job, opts))
	}
	return company, nil
}

// TransformJob builds the target job from a source job record.
func TransformJob(src *models.Document, opts Options) models.Job {
	job := models.Job{
		Title:           src.StringOr("title", ""),
		Source:          src.StringOr("source", ""),
		Location:        src.RawOr("location", models.RawEmptyString),
		WorkArrangement: src.StringOr(srcWorkArrangement, ""),
		JobType:         src.StringOr(srcJobType, ""),
		Description:     src.StringOr("description", ""),
		Budget:          src.RawOr(srcBudgetRaw, models.RawEmptyString),
		BudgetMin:       models.RawEmptyString,
		BudgetMax:       models.RawEmptyString,
		Skills:          src.RawOr("skills", models.RawEmptyArray),
		Requirements:    src.RawOr("requirements", models.RawEmptyArray),
		Status:          src.StringOr("status", ""),
		JobURL:          src.StringOr(srcJobURL, ""),

		ApplicationDeadline: src.RawOr(srcApplicationDeadline, rawDefaultDeadline),
		DescriptionRaw:      src.StringOr("descriptionRaw", ""),
		PostedDate:          src.RawOr(srcJobCreatedAt, rawDefaultPosted),

		TitleSum:        src.StringOr("titleSum", ""),
		LocationSum:     src.StringOr("locationSum", ""),
		SkillsSum:       src.StringOr("skillsSum", ""),
		RequirementsSum: src.StringOr("requirementsSum", ""),
		DescriptionSum:  src.StringOr("descriptionSum", ""),

		TitleEmbedding:        models.EmptyEmbedding(),
		LocationEmbedding:     models.EmptyEmbedding(),
		SkillsEmbedding:       models.EmptyEmbedding(),
		RequirementsEmbedding: models.EmptyEmbedding(),
		DescriptionEmbedding:  models.EmptyEmbedding(),
	}

	if budget, ok := src.Object(srcBudget); ok {
		job.BudgetMin = budget.RawOr("min", models.RawEmptyString)
		job.BudgetMax = budget.RawOr("max", models.RawEmptyString)
	}

	if job.Source == "" && opts.DefaultSource != "" {
		job.Source = opts.DefaultSource
	}
	if opts.NormalizeDates {
		job.ApplicationDeadline = NormalizeDate(job.ApplicationDeadline)
		job.PostedDate = NormalizeDate(job.PostedDate)
	}
	return job
}

// TransformAll transforms every company in order.
func TransformAll(companies []*models.Document, opts Options) ([]models.Company, error) {
	out := make([]models.Company, 0, len(companies))
	for i, c := range companies {
		if c == nil {
			return nil, fmt.Errorf("record %d is null", i+1)
		}
		company, err := TransformCompany(c, opts)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		out = append(out, company)
	}
	return out, nil
}
