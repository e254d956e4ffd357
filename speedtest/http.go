package speedtest

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ztelliot/stest-cli/defs"
)

func newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		log.Debugf("Failed when creating HTTP request: %s", err)
		return nil, errors.Wrap(err, "failed to create http request")
	}
	req.Header.Set("User-Agent", defs.UserAgent)
	return req, nil
}

// fetchBody GETs url and returns the whole body of a 200 response
func fetchBody(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Debugf("Failed when making HTTP request: %s", err)
		return nil, errors.Wrapf(err, "failed to fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %s from %s", resp.Status, url)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Debugf("Failed when reading HTTP response: %s", err)
		return nil, errors.Wrapf(err, "failed to read response from %s", url)
	}
	return b, nil
}
