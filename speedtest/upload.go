package speedtest

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ztelliot/stest-cli/defs"
)

// UploadGrace is how long a request may outlive its budget before it is cancelled
const UploadGrace = time.Second

// Uploader runs the parallel upload test. Budget and MaxChunkCount are used when the
// server configuration leaves them unset.
type Uploader struct {
	Client        *http.Client
	Ladder        []int64
	Budget        time.Duration
	MaxChunkCount int
	ChunkSize     int
}

// UploadSizes picks the payload size of every upload worker: the smallest ratio-1
// ladder entries are skipped, each remaining size is repeated and the list is cut
// to maxChunkCount entries.
func UploadSizes(t defs.UploadTuning, ladder []int64, fallbackCount int) []int64 {
	maxCount := t.MaxChunkCount
	if maxCount <= 0 {
		maxCount = fallbackCount
	}

	skip := t.Ratio - 1
	if skip < 0 {
		skip = 0
	}
	if skip >= len(ladder) {
		return nil
	}
	remaining := ladder[skip:]

	repeat := maxCount * 2 / len(remaining)
	if repeat < 1 {
		repeat = 1
	}

	sizes := make([]int64, 0, len(remaining)*repeat)
	for _, size := range remaining {
		for i := 0; i < repeat; i++ {
			sizes = append(sizes, size)
		}
	}
	if len(sizes) > maxCount {
		sizes = sizes[:maxCount]
	}
	return sizes
}

// Run posts one synthetic body per selected size to the server URL
func (u *Uploader) Run(ctx context.Context, s defs.Server, t defs.UploadTuning) defs.Transfer {
	sizes := UploadSizes(t, u.Ladder, u.MaxChunkCount)
	budget := t.Budget(u.Budget)
	counts := make([]uint64, len(sizes))

	start := time.Now()
	var wg sync.WaitGroup
	for i, size := range sizes {
		wg.Add(1)
		go func(i int, size int64) {
			defer wg.Done()
			counts[i] = u.post(ctx, s.URL, size, budget)
		}(i, size)
	}
	wg.Wait()

	return newTransfer(start, time.Now(), sum(counts))
}

// post counts what the body produced whether or not the request succeeded. A
// receiver that drains slowly keeps the write blocked past the body's own time
// check, so the request itself is cancelled shortly after the budget.
func (u *Uploader) post(ctx context.Context, url string, size int64, budget time.Duration) uint64 {
	ctx, cancel := context.WithTimeout(ctx, budget+UploadGrace)
	defer cancel()

	body := NewUploadData(size, budget, u.ChunkSize)

	req, err := newRequest(ctx, http.MethodPost, url, body)
	if err != nil {
		return 0
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := u.Client.Do(req)
	if err != nil {
		if !errors.Is(err, ErrTimesUp) && !errors.Is(err, context.DeadlineExceeded) {
			log.Debugf("Upload request to %s failed: %s", url, err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	return uint64(body.Sent())
}
