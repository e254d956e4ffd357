package speedtest

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ztelliot/stest-cli/defs"
	"github.com/ztelliot/stest-cli/report"
)

// SpeedTest is the actual main function that handles the speed test(s)
func SpeedTest(c *cli.Context) error {
	// check for suppressed output flags
	silent := c.Bool(defs.OptionJSON)
	if silent {
		log.SetLevel(log.WarnLevel)
	}

	// check for debug flag
	if c.Bool(defs.OptionDebug) {
		log.SetLevel(log.DebugLevel)
	}

	// print help
	if c.Bool(defs.OptionHelp) {
		return cli.ShowAppHelp(c)
	}

	// print version
	if c.Bool(defs.OptionVersion) {
		log.SetOutput(os.Stdout)
		log.Warnf("%s %s (built on %s)", defs.ProgName, defs.ProgVersion, defs.BuildDate)
		return nil
	}

	trials := c.Int(defs.OptionNumberTests)
	if trials <= 0 {
		log.Errorf("Number of tests cannot be lower than 1: %d is given", trials)
		return errors.New("invalid number of tests")
	}

	tuning, err := defs.LoadTuning(c.String(defs.OptionTuning))
	if err != nil {
		log.Errorf("Error when loading tuning: %s", err)
		return err
	}
	if n := c.Int(defs.OptionMaxCandidates); n > 0 {
		tuning.MaxCandidates = n
	}
	if t := c.Int(defs.OptionTimeout); t > 0 {
		tuning.HTTPTimeout = time.Duration(t) * time.Second
	}

	client, err := newHTTPClient(c.String(defs.OptionSource), c.String(defs.OptionInterface), tuning.HTTPTimeout)
	if err != nil {
		log.Errorf("Error when setting up the HTTP client: %s", err)
		return err
	}

	catalog, closeCache := newCatalog(c, client)
	defer closeCache()

	if c.String(defs.OptionCountry) != "" && c.String(defs.OptionCountryCode) != "" {
		log.Warnf("Both --%s and --%s given, using --%s", defs.OptionCountry, defs.OptionCountryCode, defs.OptionCountry)
	}

	runner := &Runner{
		Config:  &HTTPConfig{Client: client, URL: defs.ConfigURL},
		Catalog: catalog,
		Probe: &LatencyProbe{
			Client:      client,
			Attempts:    tuning.PingAttempts,
			Concurrency: tuning.ProbeConcurrency,
			ICMP:        c.Bool(defs.OptionICMP),
			Source:      c.String(defs.OptionSource),
		},
		Download: &Downloader{
			Client:        client,
			Dimensions:    tuning.Dimensions,
			ThreadsPerURL: tuning.ThreadsPerURL,
			Ceiling:       tuning.DownloadCeiling,
			ChunkSize:     tuning.ChunkSize,
		},
		Upload: &Uploader{
			Client:        client,
			Ladder:        tuning.UploadSizes,
			Budget:        tuning.UploadBudget,
			MaxChunkCount: tuning.MaxChunkCount,
			ChunkSize:     tuning.ChunkSize,
		},
		Filter: Filter{
			Country:       c.String(defs.OptionCountry),
			CountryCode:   c.String(defs.OptionCountryCode),
			MaxCandidates: tuning.MaxCandidates,
		},
		Trials: trials,
		Tuning: tuning,
		Silent: silent,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	// if --list is given, list the selected servers and exit
	if c.Bool(defs.OptionList) {
		cfg, sel, err := runner.Prepare(ctx)
		if err != nil {
			log.Errorf("No servers to list: %s", err)
			return nil
		}
		for _, s := range sel.Servers {
			fmt.Printf("%d: %s (%s, %s) %.0f km\n", s.ID, s.Name, s.Country, s.BaseHost(),
				defs.Distance(cfg.Client.Location(), s.Location()))
		}
		return nil
	}

	out, err := runner.Run(ctx)
	switch {
	case errors.Is(err, ErrNoServersMatched):
		log.Errorf("No servers matched the given filters, nothing to test")
	case errors.Is(err, ErrNoUsableData):
		log.Errorf("No usable data: %s", err)
	case err != nil:
		log.Errorf("Speed test stopped: %s", err)
	}

	return writeReports(c, out)
}

// writeReports hands the records to the sinks requested on the command line
func writeReports(c *cli.Context, out *Outcome) error {
	if path := c.String(defs.OptionCSV); path != "" {
		delim := []rune(c.String(defs.OptionCSVDelimiter))
		if len(delim) != 1 {
			log.Errorf("CSV delimiter must be a single character: %q is given", c.String(defs.OptionCSVDelimiter))
			return errors.New("invalid csv delimiter")
		}

		sink := &report.CSVFile{Path: path, Delimiter: delim[0]}
		if err := sink.WriteRecords(out.Records); err != nil {
			log.Errorf("Error writing CSV report: %s", err)
			return err
		}
		log.Infof("Results written to %s", sink.FileName())
	}

	if c.Bool(defs.OptionJSON) {
		sink := report.NewJSONWriter(os.Stdout, out.Config, out.Best.Server, out.Best.Millis)
		if err := sink.WriteRecords(out.Records); err != nil {
			log.Errorf("Error generating JSON report: %s", err)
			return err
		}
	}
	return nil
}

// newCatalog picks the server list source. With --use-cached the sqlite snapshot is
// read first and the mirrors are only used when it is empty.
func newCatalog(c *cli.Context, client *http.Client) (CatalogFetcher, func()) {
	remote := &HTTPCatalog{Client: client, Mirrors: defs.CatalogMirrors}

	path := c.String(defs.OptionCache)
	if path == "" {
		var err error
		if path, err = DefaultSnapshotPath(); err != nil {
			log.Warnf("Server list cache disabled: %s", err)
			return remote, func() {}
		}
	}

	store, err := OpenSnapshotStore(path)
	if err != nil {
		log.Warnf("Server list cache disabled: %s", err)
		return remote, func() {}
	}
	closer := func() { store.Close() }

	cached := &cachingCatalog{inner: remote, store: store}
	if c.Bool(defs.OptionUseCached) {
		return CatalogChain{store, cached}, closer
	}
	return cached, closer
}

func newHTTPClient(source, iface string, timeout time.Duration) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	dialer := baseDialer()
	if iface != "" {
		dialer = newInterfaceDialer(iface)
	}

	// bind to source IP address if given
	if source != "" {
		ip := net.ParseIP(source)
		if ip == nil {
			return nil, errors.Errorf("invalid source IP address %s", source)
		}
		dialer.LocalAddr = &net.TCPAddr{IP: ip}
	}

	// set the client's Transport to one that uses our dialer
	// this is modified from http.DefaultTransport
	transport.DialContext = dialer.DialContext

	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

func baseDialer() *net.Dialer {
	return &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
}
