package transform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/jobcorpus/models"
	"github.com/dtnitsch/jobcorpus/pkg/checkpoint"
	"github.com/dtnitsch/jobcorpus/pkg/schema"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeCompanies(t *testing.T, dir string, n int) string {
	t.Helper()
	records := make([]string, n)
	for i := range records {
		records[i] = fmt.Sprintf(`{"companyName": "Company %d", "companyUrl": "c%d.vn", "jobs": [{"title": "Dev", "job_type": "full-time", "budget": {"min": 10, "max": 20}}]}`, i+1, i+1)
	}
	path := filepath.Join(dir, "summarized_companies.json")
	if err := os.WriteFile(path, []byte("["+strings.Join(records, ",")+"]"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readCompanies(t *testing.T, path string) []models.Company {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out []models.Company
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := writeCompanies(t, dir, 25)
	output := filepath.Join(dir, "transformed_companies.json")

	report, err := Run(context.Background(), Options{
		Input:      input,
		Output:     output,
		Checkpoint: checkpoint.PathFor(output),
		BatchSize:  10,
	}, discardLogger(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Total != 25 || report.Jobs != 25 || report.Sample == nil || report.Sample.Name != "Company 1" {
		t.Errorf("report = %+v", report)
	}

	got := readCompanies(t, output)
	if len(got) != 25 {
		t.Fatalf("output has %d companies, want 25", len(got))
	}
	last := got[24]
	if last.Name != "Company 25" || last.Website != "c25.vn" || last.Jobs[0].JobType != "full-time" {
		t.Errorf("last company = %+v", last)
	}
	if string(last.Jobs[0].BudgetMax) != "20" {
		t.Errorf("budgetMax = %s, want 20", last.Jobs[0].BudgetMax)
	}
}

func TestRunResumesMidBatch(t *testing.T) {
	dir := t.TempDir()
	input := writeCompanies(t, dir, 12)
	output := filepath.Join(dir, "out.json")
	cp := checkpoint.PathFor(output)

	// A checkpoint from an earlier run that stopped after the first batch.
	prior := make([]models.Company, 10)
	for i := range prior {
		prior[i] = models.Company{Name: fmt.Sprintf("Earlier %d", i+1), NameEmbedding: models.EmptyEmbedding(), Location: models.RawEmptyArray, Jobs: []models.Job{}}
	}
	if err := checkpoint.NewStore[models.Company](cp, nil).Save(prior); err != nil {
		t.Fatal(err)
	}

	report, err := Run(context.Background(), Options{Input: input, Output: output, Checkpoint: cp, BatchSize: 10}, discardLogger(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.ResumedFrom != 10 || report.Processed != 2 {
		t.Errorf("report = %+v, want resume at 10 with 2 processed", report)
	}

	got := readCompanies(t, output)
	if len(got) != 12 || got[9].Name != "Earlier 10" || got[10].Name != "Company 11" {
		t.Errorf("output names: %q, %q (len %d)", got[9].Name, got[10].Name, len(got))
	}
}

func TestRunAppliesSchemaOptions(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.json")
	if err := os.WriteFile(input, []byte(`[{"companyName": "A", "jobs": [{"application_deadline": "17/09/2025"}]}]`), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out.json")

	_, err := Run(context.Background(), Options{
		Input:      input,
		Output:     output,
		Checkpoint: checkpoint.PathFor(output),
		BatchSize:  10,
		Schema:     schema.Options{DefaultSource: "jobsgo", NormalizeDates: true},
	}, discardLogger(), nil)
	if err != nil {
		t.Fatal(err)
	}
	job := readCompanies(t, output)[0].Jobs[0]
	if job.Source != "jobsgo" || string(job.ApplicationDeadline) != "1758067200000" {
		t.Errorf("job = source %q deadline %s", job.Source, job.ApplicationDeadline)
	}
}

func TestPrintSample(t *testing.T) {
	var buf bytes.Buffer
	PrintSample(&buf, nil)
	PrintSample(&buf, &models.Company{Name: "NoJobs"})
	if buf.Len() != 0 {
		t.Errorf("PrintSample() printed %q for companies without jobs", buf.String())
	}

	company := models.Company{
		Name: "Acme",
		Jobs: []models.Job{{JobType: "part-time", BudgetMin: json.RawMessage(`5`)}},
	}
	PrintSample(&buf, &company)
	out := buf.String()
	for _, want := range []string{"- name: Acme", "- jobType: part-time", "- budgetMin: 5"} {
		if !strings.Contains(out, want) {
			t.Errorf("sample missing %q:\n%s", want, out)
		}
	}
}
