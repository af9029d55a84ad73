package imaging

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const maxImageBytes = 10 << 20

// Fetcher downloads images over HTTP. A failed download yields no image;
// there are no retries and nothing is cached.
type Fetcher struct {
	client *http.Client
	logger *logrus.Logger
}

// NewFetcher creates a fetcher whose requests time out after timeout.
func NewFetcher(timeout time.Duration, logger *logrus.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch performs a single GET. It returns nil when url is empty, the request
// fails or the response status is not 2xx.
func (f *Fetcher) Fetch(ctx context.Context, url string) []byte {
	if url == "" {
		return nil
	}
	data, err := f.get(ctx, url)
	if err != nil {
		if f.logger != nil {
			f.logger.WithError(err).WithField("url", url).Warn("Signature image unavailable")
		}
		return nil
	}
	return data
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	return data, nil
}
