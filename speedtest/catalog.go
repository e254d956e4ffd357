package speedtest

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ztelliot/stest-cli/defs"
)

// CatalogFetcher supplies the list of candidate servers
type CatalogFetcher interface {
	Fetch(ctx context.Context) ([]defs.Server, error)
}

// HTTPCatalog fails over across mirrors; the first non-empty list wins
type HTTPCatalog struct {
	Client  *http.Client
	Mirrors []string
}

func (h *HTTPCatalog) Fetch(ctx context.Context) ([]defs.Server, error) {
	for _, mirror := range h.Mirrors {
		b, err := fetchBody(ctx, h.Client, mirror)
		if err != nil {
			log.Debugf("Server list mirror %s failed: %s", mirror, err)
			continue
		}

		servers, err := ParseCatalog(bytes.NewReader(b))
		if err != nil {
			log.Debugf("Server list from %s is malformed: %s", mirror, err)
		}
		if len(servers) > 0 {
			log.Debugf("Fetched %d servers from %s", len(servers), mirror)
			return servers, nil
		}
	}

	return nil, errors.Wrap(ErrNoUsableData, "no server list mirror responded")
}

// ParseCatalog decodes every <server> element. Servers repeating an earlier ID are dropped.
func ParseCatalog(r io.Reader) ([]defs.Server, error) {
	elements, err := parseElements(r, "server")

	seen := make(map[int]bool)
	servers := make([]defs.Server, 0, len(elements["server"]))
	for _, attrs := range elements["server"] {
		var s defs.Server
		s.ParseAttributes(attrs)
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		servers = append(servers, s)
	}
	return servers, err
}

// cachingCatalog stores every successful fetch of the inner catalog as the new snapshot
type cachingCatalog struct {
	inner CatalogFetcher
	store *SnapshotStore
}

func (c *cachingCatalog) Fetch(ctx context.Context) ([]defs.Server, error) {
	servers, err := c.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store.Save(ctx, servers); err != nil {
		log.Warnf("Failed to update the server list cache: %s", err)
	}
	return servers, nil
}

// CatalogChain returns the list of the first fetcher that succeeds
type CatalogChain []CatalogFetcher

func (c CatalogChain) Fetch(ctx context.Context) ([]defs.Server, error) {
	err := errors.Wrap(ErrNoUsableData, "no server list source configured")
	for _, f := range c {
		var servers []defs.Server
		if servers, err = f.Fetch(ctx); err == nil {
			return servers, nil
		}
		log.Debugf("Server list source failed: %s", err)
	}
	return nil, err
}
