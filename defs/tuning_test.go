package defs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTuning_Defaults(t *testing.T) {
	tuning, err := LoadTuning("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tuning)
	assert.Equal(t, 10*time.Second, tuning.DownloadCeiling)
	assert.Equal(t, 8192, tuning.ChunkSize)
}

func TestLoadTuning_Override(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
download_ceiling: 5s
chunk_size: 10240
dimensions: [350, 500]
max_candidates: 8
`), 0o644))

	tuning, err := LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(5*time.Second, tuning.DownloadCeiling)
	assert.Equal(10240, tuning.ChunkSize)
	assert.Equal([]int{350, 500}, tuning.Dimensions)
	assert.Equal(8, tuning.MaxCandidates)
	assert.Equal(3, tuning.PingAttempts, "unset values keep their default")
}

func TestLoadTuning_Errors(t *testing.T) {
	_, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunk_size: [1"), 0o644))
	_, err = LoadTuning(path)
	assert.Error(t, err)
}
