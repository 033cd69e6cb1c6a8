package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poiesic/searchbox/core"
)

const defaultTimeout = 10 * time.Second

// API is a thin HTTP client for the search service endpoints. It is the
// server side of both client caches and can also run ad-hoc queries.
type API struct {
	baseURL    string
	httpClient *http.Client
}

// APIOption configures an API client.
type APIOption func(*API)

// WithHTTPClient sets a custom http.Client.
// Default uses a 10 second timeout.
func WithHTTPClient(httpClient *http.Client) APIOption {
	return func(a *API) {
		if httpClient != nil {
			a.httpClient = httpClient
		}
	}
}

// NewAPI creates a client for the service at baseURL.
func NewAPI(baseURL string, opts ...APIOption) (*API, error) {
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}
	a := &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Search runs a query and returns the ranked result.
// A 422 response maps back to core.ErrTermTooShort.
func (a *API) Search(ctx context.Context, term, mode string) (*core.RankedResult, error) {
	query := url.Values{"term": {term}}
	if mode != "" {
		query.Set("mode", mode)
	}
	var result core.RankedResult
	if err := a.getJSON(ctx, "/api/search?"+query.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Dataset fetches the full live dataset.
func (a *API) Dataset(ctx context.Context) (*core.Dataset, error) {
	var dataset core.Dataset
	if err := a.getJSON(ctx, "/api/dataset", &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

// SnapshotMeta fetches the current snapshot's freshness stamp and
// document location.
func (a *API) SnapshotMeta(ctx context.Context) (core.SnapshotMeta, error) {
	var meta core.SnapshotMeta
	if err := a.getJSON(ctx, "/api/snapshot/meta", &meta); err != nil {
		return core.SnapshotMeta{}, err
	}
	return meta, nil
}

// SnapshotDocument fetches the snapshot document body from documentURL,
// which may be a path relative to the client's base URL.
func (a *API) SnapshotDocument(ctx context.Context, documentURL string) (*core.Dataset, error) {
	path := documentURL
	if path == "" {
		path = "/api/snapshot/document"
	}
	var dataset core.Dataset
	if err := a.getJSON(ctx, path, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

func (a *API) getJSON(ctx context.Context, path string, out any) error {
	target := path
	if !strings.Contains(target, "://") {
		target = a.baseURL + path
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnprocessableEntity:
		return core.ErrTermTooShort
	default:
		return fmt.Errorf("%w: GET %s: %d", ErrUnexpectedStatus, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
