package speedtest

import (
	"time"

	"github.com/ztelliot/stest-cli/defs"
)

// ComputeSpeedMbps converts a byte count over a duration in milliseconds to megabits per second
func ComputeSpeedMbps(totalBytes uint64, totalMillis int64) float64 {
	if totalMillis <= 0 {
		return 0
	}
	seconds := float64(totalMillis) / 1000
	return float64(totalBytes) * 8 / seconds / 1000000
}

func newTransfer(start, end time.Time, bytes uint64) defs.Transfer {
	elapsed := end.Sub(start)
	return defs.Transfer{
		Start:   start,
		End:     end,
		Bytes:   bytes,
		Elapsed: elapsed,
		Mbps:    ComputeSpeedMbps(bytes, elapsed.Milliseconds()),
	}
}

func sum(counts []uint64) uint64 {
	var total uint64
	for _, c := range counts {
		total += c
	}
	return total
}
