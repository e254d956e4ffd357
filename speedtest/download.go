package speedtest

import (
	"context"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ztelliot/stest-cli/defs"
)

// Downloader runs the parallel, time bounded download test
type Downloader struct {
	Client        *http.Client
	Dimensions    []int
	ThreadsPerURL int
	Ceiling       time.Duration
	ChunkSize     int
}

// URLs returns one cache-busted URL per worker
func (d *Downloader) URLs(s defs.Server) []string {
	stamp := time.Now().UnixNano()
	urls := make([]string, 0, len(d.Dimensions)*d.ThreadsPerURL)
	for _, dim := range d.Dimensions {
		for i := 0; i < d.ThreadsPerURL; i++ {
			urls = append(urls, s.DownloadURL(dim, stamp, len(urls)))
		}
	}
	return urls
}

// Run fetches every URL concurrently and sums the bytes read before the ceiling
func (d *Downloader) Run(ctx context.Context, s defs.Server) defs.Transfer {
	urls := d.URLs(s)
	counts := make([]uint64, len(urls))

	start := time.Now()
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			counts[i] = d.fetch(ctx, u, start)
		}(i, u)
	}
	wg.Wait()

	return newTransfer(start, time.Now(), sum(counts))
}

// fetch streams one body in fixed size chunks. start is shared by every worker of
// the run; once the ceiling measured from it passes, the worker stops reading and
// keeps what it has. The request carries the same deadline so a stalled body
// cannot hold the worker.
func (d *Downloader) fetch(ctx context.Context, url string, start time.Time) uint64 {
	ctx, cancel := context.WithDeadline(ctx, start.Add(d.Ceiling))
	defer cancel()

	req, err := newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		log.Debugf("Download request to %s failed: %s", url, err)
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debugf("Download request to %s returned %s", url, resp.Status)
		return 0
	}

	buf := make([]byte, d.ChunkSize)
	var read uint64
	for time.Since(start) < d.Ceiling {
		n, err := resp.Body.Read(buf)
		read += uint64(n)
		if err != nil {
			break
		}
	}
	return read
}
