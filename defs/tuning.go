package defs

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Tuning holds the engine constants. Zero values in a tuning file keep the defaults.
type Tuning struct {
	DownloadCeiling  time.Duration `yaml:"download_ceiling"`
	ChunkSize        int           `yaml:"chunk_size"`
	ThreadsPerURL    int           `yaml:"threads_per_url"`
	Dimensions       []int         `yaml:"dimensions"`
	UploadSizes      []int64       `yaml:"upload_sizes"`
	UploadBudget     time.Duration `yaml:"upload_budget"`
	MaxChunkCount    int           `yaml:"max_chunk_count"`
	PingAttempts     int           `yaml:"ping_attempts"`
	ProbeConcurrency int           `yaml:"probe_concurrency"`
	MaxCandidates    int           `yaml:"max_candidates"`
	ConfigRetries    int           `yaml:"config_retries"`
	ConfigRetryDelay time.Duration `yaml:"config_retry_delay"`
	HTTPTimeout      time.Duration `yaml:"http_timeout"`
}

// DefaultTuning returns the canonical constants
func DefaultTuning() Tuning {
	return Tuning{
		DownloadCeiling:  10 * time.Second,
		ChunkSize:        8192,
		ThreadsPerURL:    4,
		Dimensions:       []int{350, 500, 750, 1000, 1500, 2000, 2500, 3000, 3500, 4000},
		UploadSizes:      []int64{32768, 65536, 131072, 262144, 524288, 1048576, 7340032},
		UploadBudget:     10 * time.Second,
		MaxChunkCount:    50,
		PingAttempts:     3,
		ProbeConcurrency: 4,
		MaxCandidates:    5,
		ConfigRetries:    10,
		ConfigRetryDelay: time.Second,
		HTTPTimeout:      30 * time.Second,
	}
}

// LoadTuning reads a YAML tuning file on top of the defaults
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return t, errors.Wrapf(err, "failed to read tuning file %s", path)
	}

	var override Tuning
	if err := yaml.Unmarshal(b, &override); err != nil {
		return t, errors.Wrapf(err, "failed to parse tuning file %s", path)
	}

	t.merge(override)
	return t, nil
}

func (t *Tuning) merge(o Tuning) {
	if o.DownloadCeiling > 0 {
		t.DownloadCeiling = o.DownloadCeiling
	}
	if o.ChunkSize > 0 {
		t.ChunkSize = o.ChunkSize
	}
	if o.ThreadsPerURL > 0 {
		t.ThreadsPerURL = o.ThreadsPerURL
	}
	if len(o.Dimensions) > 0 {
		t.Dimensions = o.Dimensions
	}
	if len(o.UploadSizes) > 0 {
		t.UploadSizes = o.UploadSizes
	}
	if o.UploadBudget > 0 {
		t.UploadBudget = o.UploadBudget
	}
	if o.MaxChunkCount > 0 {
		t.MaxChunkCount = o.MaxChunkCount
	}
	if o.PingAttempts > 0 {
		t.PingAttempts = o.PingAttempts
	}
	if o.ProbeConcurrency > 0 {
		t.ProbeConcurrency = o.ProbeConcurrency
	}
	if o.MaxCandidates > 0 {
		t.MaxCandidates = o.MaxCandidates
	}
	if o.ConfigRetries > 0 {
		t.ConfigRetries = o.ConfigRetries
	}
	if o.ConfigRetryDelay > 0 {
		t.ConfigRetryDelay = o.ConfigRetryDelay
	}
	if o.HTTPTimeout > 0 {
		t.HTTPTimeout = o.HTTPTimeout
	}
}
