package speedtest

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// MaxUploadChunk caps the bytes produced by a single Read when no chunk size is given
const MaxUploadChunk = 8192

// ErrTimesUp ends an upload body whose time budget ran out. It is the normal way a
// time bounded upload stops, not a failure of the worker.
var ErrTimesUp = errors.New("send aborted: time's up")

// UploadData is an upload body that generates filler bytes on demand. It stops with
// io.EOF once total bytes were produced, or with ErrTimesUp once budget elapsed.
type UploadData struct {
	total  int64
	budget time.Duration
	chunk  int64
	start  time.Time
	now    func() time.Time
	sent   atomic.Int64
}

// NewUploadData starts the budget clock immediately. chunk caps a single Read,
// MaxUploadChunk is used when it is not positive.
func NewUploadData(total int64, budget time.Duration, chunk int) *UploadData {
	return newUploadData(total, budget, chunk, time.Now)
}

func newUploadData(total int64, budget time.Duration, chunk int, now func() time.Time) *UploadData {
	if chunk <= 0 {
		chunk = MaxUploadChunk
	}
	return &UploadData{
		total:  total,
		budget: budget,
		chunk:  int64(chunk),
		start:  now(),
		now:    now,
	}
}

func (u *UploadData) Read(p []byte) (int, error) {
	if u.now().Sub(u.start) >= u.budget {
		return 0, ErrTimesUp
	}

	remaining := u.total - u.sent.Load()
	if remaining <= 0 {
		return 0, io.EOF
	}

	n := int64(len(p))
	if n > u.chunk {
		n = u.chunk
	}
	if n > remaining {
		n = remaining
	}
	clear(p[:n])
	u.sent.Add(n)
	return int(n), nil
}

// Sent returns the bytes produced so far, safe to call while the body is being read
func (u *UploadData) Sent() int64 {
	return u.sent.Load()
}

// Total returns the target size
func (u *UploadData) Total() int64 {
	return u.total
}
