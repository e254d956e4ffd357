package speedtest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ztelliot/stest-cli/defs"
)

func newFakeSpeedtestNet(t *testing.T) *httptest.Server {
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/speedtest-config.php":
			w.Write([]byte(configXML))
		case r.URL.Path == "/speedtest-servers.php":
			upload := ts.URL + "/speedtest/upload.php"
			fmt.Fprintf(w, `<settings><servers>
<server url="%s" lat="0" lon="0.5" name="Far" country="Germany" cc="DE" id="1" host="x"/>
<server url="%s" lat="0" lon="0.1" name="Near" country="Germany" cc="DE" id="2" host="x"/>
<server url="%s" lat="0" lon="0" name="Ignored" country="Germany" cc="DE" id="3" host="x"/>
</servers></settings>`, upload, upload, upload)
		case r.URL.Path == "/speedtest/latency.txt":
			w.Write([]byte("test=test"))
		case strings.HasPrefix(r.URL.Path, "/speedtest/random"):
			w.Write(make([]byte, 1000))
		case r.URL.Path == "/speedtest/upload.php":
			io.Copy(io.Discard, r.Body)
			w.Write([]byte("size=0"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestRunner(ts *httptest.Server, trials int) *Runner {
	tuning := defs.DefaultTuning()
	tuning.Dimensions = []int{350}
	tuning.ThreadsPerURL = 2
	tuning.UploadSizes = []int64{1000, 2000}
	tuning.ConfigRetries = 2
	tuning.ConfigRetryDelay = time.Millisecond

	client := &http.Client{Timeout: 5 * time.Second}
	return &Runner{
		Config:   &HTTPConfig{Client: client, URL: ts.URL + "/speedtest-config.php"},
		Catalog:  &HTTPCatalog{Client: client, Mirrors: []string{ts.URL + "/speedtest-servers.php"}},
		Probe:    &LatencyProbe{Client: client, Attempts: tuning.PingAttempts},
		Download: &Downloader{Client: client, Dimensions: tuning.Dimensions, ThreadsPerURL: tuning.ThreadsPerURL, Ceiling: tuning.DownloadCeiling, ChunkSize: tuning.ChunkSize},
		Upload:   &Uploader{Client: client, Ladder: tuning.UploadSizes, Budget: tuning.UploadBudget, MaxChunkCount: tuning.MaxChunkCount, ChunkSize: tuning.ChunkSize},
		Filter:   Filter{MaxCandidates: tuning.MaxCandidates},
		Trials:   trials,
		Tuning:   tuning,
		Silent:   true,
	}
}

func TestRunner_Run(t *testing.T) {
	assert := assert.New(t)
	ts := newFakeSpeedtestNet(t)
	runner := newTestRunner(ts, 2)

	out, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(PathDistance, out.Selection.Path)
	assert.Equal(3, out.Selection.Catalog)
	assert.Equal(2, out.Selection.AfterIgnore)
	assert.Equal([]int{2, 1}, ids(out.Selection.Servers))
	assert.Contains([]int{1, 2}, out.Best.Server.ID)
	assert.Less(out.Best.Millis, BadStatusPenalty)

	require.Len(t, out.Records, 2)
	host := strings.TrimPrefix(ts.URL, "http://")
	for i, rec := range out.Records {
		assert.Equal(i+1, rec.TestNumber)
		assert.Equal(host, rec.ServerURL)
		assert.Equal(uint64(2000), rec.RxBytes)
		assert.Equal(uint64(4*2000), rec.TxBytes)
		assert.False(rec.RxEnd.Before(rec.RxStart))
		assert.False(rec.TxStart.Before(rec.RxEnd))
		assert.False(rec.TxEnd.Before(rec.TxStart))
	}
}

func TestRunner_NoServersMatched(t *testing.T) {
	ts := newFakeSpeedtestNet(t)
	runner := newTestRunner(ts, 1)
	runner.Filter.Country = "Atlantis"

	out, err := runner.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoServersMatched)
	assert.NotNil(t, out.Records)
	assert.Empty(t, out.Records)
	assert.Equal(t, PathCountry, out.Selection.Path)
}

func TestRunner_NoUsableConfig(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()
	runner := newTestRunner(ts, 1)

	out, err := runner.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoUsableData)
	assert.Empty(t, out.Records)
	assert.Nil(t, out.Config)
}

// newProbeLimitNet serves four candidates whose latency endpoint is slow and records
// the highest number of requests in flight
func newProbeLimitNet(t *testing.T, threadCount string, peak *int) *httptest.Server {
	var mu sync.Mutex
	inFlight := 0
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/speedtest-config.php":
			w.Write([]byte(strings.Replace(configXML, `threadcount="4"`, `threadcount="`+threadCount+`"`, 1)))
		case r.URL.Path == "/speedtest-servers.php":
			upload := ts.URL + "/speedtest/upload.php"
			w.Write([]byte("<settings><servers>"))
			for id := 5; id <= 8; id++ {
				fmt.Fprintf(w, `<server url="%s" lat="0" lon="0.%d" name="S%d" country="Germany" cc="DE" id="%d" host="x"/>`, upload, id, id, id)
			}
			w.Write([]byte("</servers></settings>"))
		case r.URL.Path == "/speedtest/latency.txt":
			mu.Lock()
			inFlight++
			if inFlight > *peak {
				*peak = inFlight
			}
			mu.Unlock()
			time.Sleep(100 * time.Millisecond)
			mu.Lock()
			inFlight--
			mu.Unlock()
			w.Write([]byte("test=test"))
		case r.URL.Path == "/speedtest/upload.php":
			io.Copy(io.Discard, r.Body)
		default:
			w.Write(make([]byte, 100))
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestRunner_ProbeConcurrencyPrefersThreadCountHint(t *testing.T) {
	cases := []struct {
		name        string
		threadCount string
		tuning      int
		check       func(assert *assert.Assertions, peak int)
	}{
		{"hint below tuning", "1", 4, func(assert *assert.Assertions, peak int) { assert.Equal(1, peak) }},
		{"hint above tuning", "4", 1, func(assert *assert.Assertions, peak int) { assert.Greater(peak, 1) }},
		{"no hint uses tuning", "", 1, func(assert *assert.Assertions, peak int) { assert.Equal(1, peak) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			peak := 0
			ts := newProbeLimitNet(t, tc.threadCount, &peak)
			runner := newTestRunner(ts, 1)
			runner.Probe.Attempts = 1
			runner.Probe.Concurrency = tc.tuning

			_, err := runner.Run(context.Background())
			require.NoError(t, err)
			ts.Close()
			tc.check(assert.New(t), peak)
			assert.Equal(t, tc.tuning, runner.Probe.Concurrency, "the runner's probe is not modified")
		})
	}
}
