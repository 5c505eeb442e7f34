package manifest

// SplitManifest describes the chunk files written by one split run. It lets
// downstream jobs pick up chunks without opening every file.
type SplitManifest struct {
	GeneratedAt    string         `yaml:"generated_at"`
	Input          string         `yaml:"input"`
	ChunkSize      int            `yaml:"chunk_size"`
	TotalCompanies int            `yaml:"total_companies"`
	TotalJobs      int            `yaml:"total_jobs"`
	Chunks         []ChunkSummary `yaml:"chunks"`
}

// ChunkSummary describes a single chunk file. Record numbers are 1-based
// and inclusive, matching the progress messages.
type ChunkSummary struct {
	File         string `yaml:"file"`
	FirstRecord  int    `yaml:"first_record"`
	LastRecord   int    `yaml:"last_record"`
	Companies    int    `yaml:"companies"`
	Jobs         int    `yaml:"jobs"`
	SizeBytes    int64  `yaml:"size_bytes,omitempty"`
	FirstCompany string `yaml:"first_company,omitempty"`
}
