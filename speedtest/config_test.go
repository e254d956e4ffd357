package speedtest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ztelliot/stest-cli/defs"
)

func TestParseConfig(t *testing.T) {
	assert := assert.New(t)
	cfg, err := ParseConfig([]byte(configXML))
	require.NoError(t, err)

	assert.Equal("203.0.113.7", cfg.Client.IP)
	assert.Equal("Example ISP", cfg.Client.ISP)
	assert.Equal(map[int]struct{}{3: {}, 99: {}}, cfg.Hints.IgnoreIDs)
	assert.Equal(4, cfg.Hints.ThreadCount)
	assert.Equal(2, cfg.Upload.Ratio)
	assert.Equal(4, cfg.Upload.MaxChunkCount)
	assert.Equal(10, cfg.Download.TestLength)
}

func TestParseConfig_Empty(t *testing.T) {
	_, err := ParseConfig(nil)
	assert.ErrorIs(t, err, defs.ErrEmptyConfig)

	_, err = ParseConfig([]byte("<settings><upload ratio=\"3\"/></settings>"))
	assert.ErrorIs(t, err, defs.ErrEmptyConfig)
}

func TestParseConfig_TruncatedDocument(t *testing.T) {
	cfg, err := ParseConfig([]byte(`<settings><client ip="1.2.3.4" lat="1" lon="2"/><server-config ignoreids="5"/><download`))
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", cfg.Client.IP)
	assert.Contains(t, cfg.Hints.IgnoreIDs, 5)
}

type scriptedConfig struct {
	calls   int
	succeed int
}

func (s *scriptedConfig) Fetch(ctx context.Context) (*defs.Config, error) {
	s.calls++
	if s.calls >= s.succeed {
		return &defs.Config{Client: defs.ClientProfile{IP: "1.2.3.4"}}, nil
	}
	return nil, defs.ErrEmptyConfig
}

func TestFetchConfig_RetriesUntilData(t *testing.T) {
	f := &scriptedConfig{succeed: 3}
	cfg, err := FetchConfig(context.Background(), f, 5, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", cfg.Client.IP)
	assert.Equal(t, 3, f.calls)
}

func TestFetchConfig_Exhausted(t *testing.T) {
	f := &scriptedConfig{succeed: 100}
	_, err := FetchConfig(context.Background(), f, 4, time.Millisecond)
	assert.ErrorIs(t, err, ErrNoUsableData)
	assert.Equal(t, 4, f.calls)
}

func TestFetchConfig_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &scriptedConfig{succeed: 100}
	_, err := FetchConfig(ctx, f, 10, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.calls)
}

func TestHTTPConfig_Fetch(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			return
		}
		w.Write([]byte(configXML))
	}))
	defer ts.Close()

	fetcher := &HTTPConfig{Client: http.DefaultClient, URL: ts.URL + "/speedtest-config.php"}
	_, err := fetcher.Fetch(context.Background())
	assert.ErrorIs(t, err, defs.ErrEmptyConfig)

	cfg, err := FetchConfig(context.Background(), fetcher, 3, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", cfg.Client.IP)
}
