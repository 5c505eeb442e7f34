package htmltext

import (
	"strings"
	"testing"
)

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"<p>Mô tả công việc</p>", true},
		{"Line<br/>break", true},
		{"<DIV class=\"jd\">x</DIV>", true},
		{"Salary <15 triệu> negotiable", false},
		{"plain text only", false},
		{"a < b and c > d", false},
	}
	for _, tt := range tests {
		if got := LooksLikeHTML(tt.in); got != tt.want {
			t.Errorf("LooksLikeHTML(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExtractFragments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text is trimmed",
			in:   "  Build APIs in Go.  \n",
			want: "Build APIs in Go.",
		},
		{
			name: "paragraph and list",
			in:   "<p>Build   APIs</p><ul><li>Go</li><li>SQL</li></ul>",
			want: "Build APIs\nGo\nSQL",
		},
		{
			name: "br keeps words apart",
			in:   "<p>Line one<br>Line two</p>",
			want: "Line one Line two",
		},
		{
			name: "nested blocks are emitted once",
			in:   "<ul><li><p>Yêu cầu</p></li><li>Kinh nghiệm 2 năm</li></ul>",
			want: "Yêu cầu\nKinh nghiệm 2 năm",
		},
		{
			name: "inline only markup",
			in:   "<div>Hello <b>world</b></div>",
			want: "Hello world",
		},
		{
			name: "scripts dropped",
			in:   "<div><script>var tracking = 1;</script><p>Apply now</p></div>",
			want: "Apply now",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.in)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractFullDocument(t *testing.T) {
	body := strings.Repeat("<p>We are hiring a backend engineer to build and operate the services behind our job search platform, working with Go, PostgreSQL and Kubernetes every day.</p>", 4)
	html := `<html><head><title>Backend Engineer</title><script>var tracking = 1;</script></head>
<body><nav><a href="/">Home</a></nav><article><h1>Backend Engineer</h1>` + body + `</article></body></html>`

	got, err := ExtractFrom(html, "https://jobsgo.vn/viec-lam/backend-engineer")
	if err != nil {
		t.Fatalf("ExtractFrom() error = %v", err)
	}
	if !strings.Contains(got, "We are hiring a backend engineer") {
		t.Errorf("main content missing from %q", got)
	}
	if strings.Contains(got, "tracking") || strings.Contains(got, "<p>") {
		t.Errorf("markup or script leaked into %q", got)
	}
}
