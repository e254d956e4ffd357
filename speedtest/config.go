package speedtest

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ztelliot/stest-cli/defs"
)

// ErrNoUsableData is returned when every attempt or mirror came back empty
var ErrNoUsableData = errors.New("no usable data")

// ConfigFetcher supplies the configuration document
type ConfigFetcher interface {
	Fetch(ctx context.Context) (*defs.Config, error)
}

// HTTPConfig fetches the configuration document over HTTP
type HTTPConfig struct {
	Client *http.Client
	URL    string
}

func (h *HTTPConfig) Fetch(ctx context.Context) (*defs.Config, error) {
	b, err := fetchBody(ctx, h.Client, h.URL)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, defs.ErrEmptyConfig
	}
	return ParseConfig(b)
}

// ParseConfig decodes a configuration document. Only the first element of each
// section is used.
func ParseConfig(b []byte) (*defs.Config, error) {
	elements, err := parseElements(bytes.NewReader(b), defs.SectionNames()...)
	if err != nil {
		log.Debugf("Configuration document is malformed: %s", err)
	}

	sections := make(map[string]defs.Attributes, len(elements))
	for name, list := range elements {
		sections[name] = list[0]
	}
	return defs.ConfigFromSections(sections)
}

// FetchConfig retries the fetcher up to retries times with a fixed delay in between
func FetchConfig(ctx context.Context, fetcher ConfigFetcher, retries int, delay time.Duration) (*defs.Config, error) {
	if retries < 1 {
		retries = 1
	}

	for attempt := 1; attempt <= retries; attempt++ {
		cfg, err := fetcher.Fetch(ctx)
		if err == nil {
			return cfg, nil
		}
		log.Debugf("Configuration attempt %d/%d failed: %s", attempt, retries, err)

		if attempt == retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "configuration fetch cancelled")
		case <-time.After(delay):
		}
	}

	return nil, errors.Wrapf(ErrNoUsableData, "configuration unavailable after %d attempts", retries)
}
