package model

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/patrickkwang/bmt-lite/errors"
	"github.com/patrickkwang/bmt-lite/internal/httpclient"
	"github.com/patrickkwang/bmt-lite/logger"
	"github.com/patrickkwang/bmt-lite/taxonomy"
)

// FetcherOptions bound remote model downloads.
type FetcherOptions struct {
	Timeout           time.Duration // per-request; 0 means 30s
	MaxBytes          int64         // response size cap; 0 means 32 MiB
	RequestsPerMinute int           // 0 means 30
	Client            *httpclient.SaferClient
}

// Fetcher downloads schema documents over HTTP with a size cap and a
// client-side rate limit. The zero options give sane bounds for the
// published model, which is a few megabytes of YAML.
type Fetcher struct {
	client   *httpclient.SaferClient
	limiter  *rate.Limiter
	maxBytes int64
}

// NewFetcher builds a fetcher from options, filling unset fields with
// defaults.
func NewFetcher(opts FetcherOptions) *Fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	perMinute := opts.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	client := opts.Client
	if client == nil {
		client = httpclient.NewSaferClient(timeout)
	}
	return &Fetcher{
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
		maxBytes: maxBytes,
	}
}

// Fetch downloads raw schema bytes from url, waiting on the rate limiter
// first and refusing responses larger than the configured cap.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s", url)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("fetching %s: unexpected status %s", url, resp.Status)
	}
	if resp.ContentLength > f.maxBytes {
		return nil, errors.Newf("fetching %s: response size %d exceeds cap %d", url, resp.ContentLength, f.maxBytes)
	}

	// Read one byte past the cap so truncated-at-cap and over-cap are
	// distinguishable when Content-Length is absent.
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, errors.Wrapf(err, "reading response from %s", url)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, errors.Newf("fetching %s: response exceeds cap %d", url, f.maxBytes)
	}

	logger.Debugw("Fetched model",
		"url", url,
		"bytes", len(data),
		"duration", time.Since(start).Round(time.Millisecond).String())
	return data, nil
}

// FetchDocument downloads and parses a schema document in one step.
func (f *Fetcher) FetchDocument(ctx context.Context, url string) (taxonomy.Document, error) {
	data, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
