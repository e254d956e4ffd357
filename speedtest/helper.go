package speedtest

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"github.com/ztelliot/stest-cli/defs"
)

// Runner wires the pipeline: configuration, catalog, selection, latency probe and
// the bandwidth trials
type Runner struct {
	Config   ConfigFetcher
	Catalog  CatalogFetcher
	Probe    *LatencyProbe
	Download *Downloader
	Upload   *Uploader
	Filter   Filter
	Trials   int
	Tuning   defs.Tuning
	Silent   bool
}

// Outcome is what a run produced; Records is never nil
type Outcome struct {
	Config    *defs.Config
	Selection Selection
	Best      Latency
	Records   []defs.TestRecord
}

// Prepare fetches the configuration and the catalog and selects the candidates
func (r *Runner) Prepare(ctx context.Context) (*defs.Config, Selection, error) {
	cfg, err := FetchConfig(ctx, r.Config, r.Tuning.ConfigRetries, r.Tuning.ConfigRetryDelay)
	if err != nil {
		return nil, Selection{}, err
	}
	log.Infof("Client:\t\t%s (%s)", cfg.Client.IP, cfg.Client.ISP)

	catalog, err := r.Catalog.Fetch(ctx)
	if err != nil {
		return cfg, Selection{}, err
	}

	sel := Select(catalog, cfg.Client.Location(), cfg.Hints, r.Filter)
	log.Infof("Servers:\t%d available, %d after ignore list, %d selected by %s",
		sel.Catalog, sel.AfterIgnore, len(sel.Servers), sel.Path)
	if len(sel.Servers) == 0 {
		return cfg, sel, ErrNoServersMatched
	}
	return cfg, sel, nil
}

// Run executes the whole pipeline. Remote failures end the run early with an error
// but the outcome is still returned with the records gathered so far.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	out := &Outcome{Records: []defs.TestRecord{}}

	cfg, sel, err := r.Prepare(ctx)
	out.Config, out.Selection = cfg, sel
	if err != nil {
		return out, err
	}

	probe := *r.Probe
	if cfg.Hints.ThreadCount > 0 {
		probe.Concurrency = cfg.Hints.ThreadCount
	}

	pb := startSpinner(r.Silent, "Pinging...  ")
	best, _, err := probe.Best(ctx, sel.Servers)
	if err != nil {
		stopSpinner(pb, "")
		return out, err
	}
	out.Best = best
	stopSpinner(pb, fmt.Sprintf("Server:\t\t%s\nLatency:\t%.2f ms\n", best.Server.String(), best.Millis))

	for n := 1; n <= r.Trials; n++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out.Records = append(out.Records, r.trial(ctx, n, best.Server, cfg))
	}
	return out, nil
}

func (r *Runner) trial(ctx context.Context, n int, s defs.Server, cfg *defs.Config) defs.TestRecord {
	if r.Trials > 1 {
		log.Infof("Test %d/%d", n, r.Trials)
	}

	pb := startSpinner(r.Silent, "Downloading...  ")
	rx := r.Download.Run(ctx, s)
	stopSpinner(pb, fmt.Sprintf("Download:\t%.2f Mbps (data used: %s)\n", rx.Mbps, humanize.Bytes(rx.Bytes)))

	pb = startSpinner(r.Silent, "Uploading...  ")
	tx := r.Upload.Run(ctx, s, cfg.Upload)
	stopSpinner(pb, fmt.Sprintf("Upload:\t\t%.2f Mbps (data used: %s)\n", tx.Mbps, humanize.Bytes(tx.Bytes)))

	return defs.NewTestRecord(n, s.BaseHost(), rx, tx)
}

func startSpinner(silent bool, prefix string) *spinner.Spinner {
	if silent {
		return nil
	}
	pb := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	pb.Prefix = prefix
	started := time.Now()
	pb.PostUpdate = func(s *spinner.Spinner) {
		s.Suffix = fmt.Sprintf("  %.0fs", time.Since(started).Seconds())
	}
	pb.Start()
	return pb
}

func stopSpinner(pb *spinner.Spinner, final string) {
	if pb == nil {
		return
	}
	pb.FinalMSG = final
	pb.Stop()
}
