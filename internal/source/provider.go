// Package source holds the candidate-record providers the aggregator fans
// out to. Each provider is an independent fetch source; a failing provider
// contributes zero records for that cycle and never aborts the others.
package source

import (
	"context"
	"net/http"
	"time"

	"github.com/jobpulse/jobpulse/internal/model"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Provider supplies one unordered batch of raw records per invocation.
type Provider interface {
	Name() string
	Fetch(ctx context.Context) ([]model.RawRecord, error)
}

func newHTTPClient(timeoutMs int) *http.Client {
	if timeoutMs <= 0 {
		timeoutMs = 10000
	}
	return &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond}
}

func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return &statusError{url: url, status: res.StatusCode}
	}
	return decodeJSON(res.Body, out)
}
