package mapreduce

import (
	"testing"

	"github.com/dtnitsch/jobcorpus/pkg/analytics"
	"github.com/google/go-cmp/cmp"
)

func TestMapReduce(t *testing.T) {
	a := &analytics.Analytics{}
	texts := []string{
		"Golang backend developer",
		"Senior golang engineer",
		"Backend engineer, golang",
	}

	var intermediate []map[string]int
	for _, text := range texts {
		intermediate = append(intermediate, Map(text, a))
	}
	got := Reduce(intermediate)

	want := map[string]int{
		"golang":    3,
		"backend":   2,
		"engineer":  2,
		"developer": 1,
		"senior":    1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Reduce() mismatch (-want +got):\n%s", diff)
	}
}

func TestIsValidKeyword(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"golang", true},
		{"c++", true},
		{"node.js", true},
		{"f(x)", true},
		{"f(x", false},
		{"key:", false},
		{"a=", false},
		{`"quoted`, false},
		{"it's", false},
		{"[ok]", true},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := isValidKeyword(tt.word); got != tt.want {
				t.Errorf("isValidKeyword(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestTopKeywords(t *testing.T) {
	counts := map[string]int{
		"golang": 5,
		"rust":   3,
		"java":   3,
		"f(x":    9,
		"sql":    1,
	}

	got := TopKeywords(counts, 3)
	want := []string{"golang:5", "java:3", "rust:3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TopKeywords() mismatch (-want +got):\n%s", diff)
	}

	if all := TopN(counts, -1); len(all) != 4 {
		t.Errorf("TopN(-1) returned %d keywords, want 4", len(all))
	}
}
