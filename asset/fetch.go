package asset

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
)

// Fetcher retrieves the raw bytes of an asset.
// The caller closes the returned reader.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (io.ReadCloser, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, src string) (io.ReadCloser, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, src string) (io.ReadCloser, error) {
	return f(ctx, src)
}

// HTTPFetcher fetches assets over HTTP(S).
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns an HTTPFetcher using client, or http.DefaultClient
// when client is nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{Client: client}
}

// Fetch implements Fetcher. Non-2xx responses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, src string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// FSFetcher reads assets from a file system. Leading slashes are stripped so
// site-absolute paths like "/assets/images/card.jpg" resolve inside FS.
type FSFetcher struct {
	FS fs.FS
}

// Fetch implements Fetcher.
func (f FSFetcher) Fetch(_ context.Context, src string) (io.ReadCloser, error) {
	return f.FS.Open(strings.TrimLeft(src, "/"))
}

// MuxFetcher routes http(s) sources to Remote and everything else to Local.
// A nil branch makes the matching sources fail with ErrUnsupportedScheme.
type MuxFetcher struct {
	Remote Fetcher
	Local  Fetcher
}

// Fetch implements Fetcher.
func (m MuxFetcher) Fetch(ctx context.Context, src string) (io.ReadCloser, error) {
	next := m.Local
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		next = m.Remote
	}
	if next == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, src)
	}
	return next.Fetch(ctx, src)
}
