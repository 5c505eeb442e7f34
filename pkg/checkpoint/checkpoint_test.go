package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/jobcorpus/pkg/storage"
)

type record struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestLoadMissing(t *testing.T) {
	store := NewStore[record](filepath.Join(t.TempDir(), "cp.json"), nil)

	res := store.Load()
	if res.Status != StatusMissing {
		t.Errorf("Load().Status = %v, want missing", res.Status)
	}
	if res.Records != nil {
		t.Errorf("Load().Records = %v, want nil", res.Records)
	}
}

func TestSaveThenLoad(t *testing.T) {
	store := NewStore[record](filepath.Join(t.TempDir(), "cp.json"), &storage.Storage{})

	want := []record{{1, "a"}, {2, "b"}}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	res := store.Load()
	if res.Status != StatusLoaded {
		t.Fatalf("Load().Status = %v (err %v), want loaded", res.Status, res.Err)
	}
	if len(res.Records) != len(want) {
		t.Fatalf("len(Records) = %d, want %d", len(res.Records), len(want))
	}
	for i := range want {
		if res.Records[i] != want[i] {
			t.Errorf("Records[%d] = %+v, want %+v", i, res.Records[i], want[i])
		}
	}
}

func TestSaveOverwritesInsteadOfAppending(t *testing.T) {
	store := NewStore[record](filepath.Join(t.TempDir(), "cp.json"), nil)

	if err := store.Save([]record{{1, "a"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save([]record{{1, "a"}, {2, "b"}}); err != nil {
		t.Fatal(err)
	}

	res := store.Load()
	if len(res.Records) != 2 {
		t.Errorf("len(Records) = %d after two saves, want 2", len(res.Records))
	}
}

func TestEmptySaveLoadsAsEmpty(t *testing.T) {
	store := NewStore[record](filepath.Join(t.TempDir(), "cp.json"), nil)
	if err := store.Save(nil); err != nil {
		t.Fatal(err)
	}
	res := store.Load()
	if res.Status != StatusLoaded || len(res.Records) != 0 || res.Records == nil {
		t.Errorf("Load() = %+v, want loaded with empty records", res)
	}
}

func TestLoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `[{"id": 1}, {"id":`},
		{"object", `{"id": 1}`},
		{"null", `null`},
		{"wrong element type", `["x"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cp.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			res := NewStore[record](path, nil).Load()
			if res.Status != StatusCorrupt {
				t.Errorf("Load().Status = %v, want corrupt", res.Status)
			}
			if res.Err == nil {
				t.Error("Load().Err = nil, want parse error")
			}
		})
	}
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.json")
	store := NewStore[record](path, nil)
	if err := store.Save([]record{{1, "a"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("checkpoint still exists after Remove(): %v", err)
	}
	if err := store.Remove(); err != nil {
		t.Errorf("second Remove() error = %v, want nil", err)
	}
}

func TestPathFor(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"summarized_companies.json", "summarized_companies_temp.json"},
		{filepath.Join("out", "transformed_companies.json"), filepath.Join("out", "transformed_companies_temp.json")},
		{"noext", "noext_temp.json"},
	}
	for _, tt := range tests {
		if got := PathFor(tt.output); got != tt.want {
			t.Errorf("PathFor(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}
