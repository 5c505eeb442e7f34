// Package models defines the corpus record types and runtime configuration.
package models

import "encoding/json"

// Default epoch-millisecond timestamps used when a source job carries no
// deadline or creation date.
const (
	DefaultApplicationDeadline int64 = 1758067200000
	DefaultPostedDate          int64 = 1701369600000
)

// Embedding is a vector placeholder. The pipeline only ever writes empty
// ones; vectors are filled in downstream.
type Embedding []float32

// EmptyEmbedding returns a non-nil empty embedding so it encodes as [].
func EmptyEmbedding() Embedding {
	return Embedding{}
}

// Company is a company record in the target schema. Field order matches
// the order the downstream importer expects.
type Company struct {
	Name          string          `json:"name"`
	NameEmbedding Embedding       `json:"nameEmbedding"`
	Website       string          `json:"website"`
	Description   string          `json:"description"`
	Size          string          `json:"size"`
	Industry      string          `json:"industry"`
	Location      json.RawMessage `json:"location"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Jobs          []Job           `json:"jobs"`
}

// Job is a job record in the target schema.
type Job struct {
	Title               string          `json:"title"`
	Source              string          `json:"source"`
	Location            json.RawMessage `json:"location"`
	WorkArrangement     string          `json:"workArrangement"`
	JobType             string          `json:"jobType"`
	Description         string          `json:"description"`
	Budget              json.RawMessage `json:"budget"`
	BudgetMin           json.RawMessage `json:"budgetMin"`
	BudgetMax           json.RawMessage `json:"budgetMax"`
	Skills              json.RawMessage `json:"skills"`
	Requirements        json.RawMessage `json:"requirements"`
	Status              string          `json:"status"`
	JobURL              string          `json:"jobUrl"`
	ApplicationDeadline json.RawMessage `json:"applicationDeadline"`
	DescriptionRaw      string          `json:"descriptionRaw"`
	PostedDate          json.RawMessage `json:"postedDate"`

	TitleSum        string `json:"titleSum"`
	LocationSum     string `json:"locationSum"`
	SkillsSum       string `json:"skillsSum"`
	RequirementsSum string `json:"requirementsSum"`
	DescriptionSum  string `json:"descriptionSum"`

	TitleEmbedding        Embedding `json:"titleEmbedding"`
	LocationEmbedding     Embedding `json:"locationEmbedding"`
	SkillsEmbedding       Embedding `json:"skillsEmbedding"`
	RequirementsEmbedding Embedding `json:"requirementsEmbedding"`
	DescriptionEmbedding  Embedding `json:"descriptionEmbedding"`
}

// Raw defaults for polymorphic fields.
var (
	RawEmptyString = json.RawMessage(`""`)
	RawEmptyArray  = json.RawMessage(`[]`)
)

// CompanyName returns the display name of a source company record,
// falling back to the already-transformed "name" field.
func CompanyName(doc *Document, fallback string) string {
	if name, ok := doc.String("companyName"); ok && name != "" {
		return name
	}
	if name, ok := doc.String("name"); ok && name != "" {
		return name
	}
	return fallback
}

// JobCount returns the number of entries in the document's jobs array.
// Non-array values count as zero.
func JobCount(doc *Document) int {
	raw, ok := doc.Get("jobs")
	if !ok || kindOf(raw) != '[' {
		return 0
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0
	}
	return len(items)
}
