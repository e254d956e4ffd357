package speedtest

import (
	"context"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/go-ping/ping"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ztelliot/stest-cli/defs"
)

// penalties in milliseconds for failed attempts
const (
	BadStatusPenalty        = 360000.0
	TransportFailurePenalty = 3600000.0
)

// Latency is the probe score of one server
type Latency struct {
	Server defs.Server
	Millis float64
}

// LatencyProbe scores servers by the mean round trip of a few sequential requests
type LatencyProbe struct {
	Client      *http.Client
	Attempts    int
	Concurrency int

	// ICMP replaces the HTTP requests with ICMP echoes
	ICMP   bool
	Source string
}

func (p *LatencyProbe) attempts() int {
	if p.Attempts < 1 {
		return 3
	}
	return p.Attempts
}

// Score runs the attempts against s one after another and averages them
func (p *LatencyProbe) Score(ctx context.Context, s defs.Server) float64 {
	if p.ICMP {
		return averageLatency(p.icmpSamples(s))
	}

	samples := make([]float64, 0, p.attempts())
	target := s.LatencyURL()
	for i := 0; i < p.attempts(); i++ {
		samples = append(samples, p.httpAttempt(ctx, target))
	}
	return averageLatency(samples)
}

func (p *LatencyProbe) httpAttempt(ctx context.Context, target string) float64 {
	req, err := newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return TransportFailurePenalty
	}

	start := time.Now()
	resp, err := p.Client.Do(req)
	if err != nil {
		log.Debugf("Latency request to %s failed: %s", target, err)
		return TransportFailurePenalty
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	elapsed := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		log.Debugf("Latency request to %s returned %s", target, resp.Status)
		return BadStatusPenalty
	}
	return float64(elapsed.Microseconds()) / 1000
}

// icmpSamples sends the attempts as ICMP echoes, lost echoes count as transport failures
func (p *LatencyProbe) icmpSamples(s defs.Server) []float64 {
	samples := make([]float64, 0, p.attempts())
	pad := func() []float64 {
		for len(samples) < p.attempts() {
			samples = append(samples, TransportFailurePenalty)
		}
		return samples
	}

	pinger, err := ping.NewPinger(s.Hostname())
	if err != nil {
		log.Debugf("ICMP ping to %s failed: %s", s.Hostname(), err)
		return pad()
	}
	if runtime.GOOS == "windows" {
		pinger.SetPrivileged(true)
	}
	pinger.Count = p.attempts()
	pinger.Timeout = time.Duration(p.attempts()+1) * time.Second
	if p.Source != "" {
		pinger.Source = p.Source
	}

	if err := pinger.Run(); err != nil {
		log.Debugf("ICMP ping to %s failed: %s", s.Hostname(), err)
		return pad()
	}

	for _, rtt := range pinger.Statistics().Rtts {
		if len(samples) == p.attempts() {
			break
		}
		samples = append(samples, float64(rtt.Microseconds())/1000)
	}
	return pad()
}

func averageLatency(samples []float64) float64 {
	if len(samples) == 0 {
		return TransportFailurePenalty
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	return sum / float64(len(samples))
}

// Best probes every server and returns the lowest score together with all scores in
// input order. Servers are probed concurrently, ties go to the earlier server.
func (p *LatencyProbe) Best(ctx context.Context, servers []defs.Server) (Latency, []Latency, error) {
	if len(servers) == 0 {
		return Latency{}, nil, ErrNoServersMatched
	}

	scores := make([]Latency, len(servers))
	var g errgroup.Group
	if p.Concurrency > 0 {
		g.SetLimit(p.Concurrency)
	}
	for i, s := range servers {
		i, s := i, s
		g.Go(func() error {
			scores[i] = Latency{Server: s, Millis: p.Score(ctx, s)}
			log.Debugf("Server %s scored %.2f ms", s.String(), scores[i].Millis)
			return nil
		})
	}
	g.Wait()

	best := scores[0]
	for _, l := range scores[1:] {
		if l.Millis < best.Millis {
			best = l
		}
	}
	return best, scores, nil
}
