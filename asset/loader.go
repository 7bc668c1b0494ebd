// Package asset loads and memoizes decoded raster images by source id.
//
// A Loader issues at most one fetch per distinct source for its whole
// lifetime. Concurrent requests for the same source share the in-flight load
// and every later request observes the same outcome, failures included.
package asset

import (
	"context"
	"log/slog"
	"time"

	"github.com/gogpu/gg"
)

// DefaultTimeout bounds a single fetch+decode.
const DefaultTimeout = 30 * time.Second

// Stats reports loader activity.
type Stats struct {
	Entries int    // distinct sources seen
	Hits    uint64 // requests served by an existing entry
	Misses  uint64 // requests that started a fetch
}

// Loader fetches, decodes and memoizes images.
type Loader struct {
	fetcher Fetcher
	timeout time.Duration
	log     *slog.Logger
	memo    *memo
}

// Option configures a Loader.
type Option func(*Loader)

// WithTimeout bounds each fetch+decode. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.timeout = d
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLoader creates a Loader backed by fetcher.
func NewLoader(fetcher Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher: fetcher,
		timeout: DefaultTimeout,
		log:     slog.New(slog.DiscardHandler),
		memo:    newMemo(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the decoded image for src.
//
// An empty src yields (nil, nil), the "no image" sentinel. Otherwise the
// first caller installs a pending entry and starts the fetch; every caller
// then waits for that entry. The fetch itself is detached from ctx so that a
// caller giving up does not poison the shared entry; ctx only bounds how long
// this caller waits.
//
// Failures are returned as *LoadError and stay cached.
func (l *Loader) Load(ctx context.Context, src string) (*gg.ImageBuf, error) {
	if src == "" {
		return nil, nil
	}

	e, created := l.memo.getOrInstall(src)
	if created {
		go l.fill(context.WithoutCancel(ctx), src, e)
	}

	select {
	case <-e.done:
		return e.img, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result is a settled load outcome.
type Result struct {
	Image *gg.ImageBuf
	Err   error
}

// Peek returns the settled outcome for src without starting a load.
// ok is false when src was never requested or is still in flight.
func (l *Loader) Peek(src string) (r Result, ok bool) {
	e, found := l.memo.lookup(src)
	if !found || !e.settled() {
		return Result{}, false
	}
	return Result{Image: e.img, Err: e.err}, true
}

// Stats returns current loader statistics.
func (l *Loader) Stats() Stats {
	return Stats{
		Entries: l.memo.len(),
		Hits:    l.memo.hits.Load(),
		Misses:  l.memo.misses.Load(),
	}
}

func (l *Loader) fill(ctx context.Context, src string, e *entry) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	img, err := l.fetchDecode(ctx, src)
	if err != nil {
		err = &LoadError{Source: src, Err: err}
		l.log.Debug("asset load failed", "src", src, "error", err)
	} else {
		l.log.Debug("asset loaded", "src", src, "elapsed", time.Since(start))
	}
	e.settle(img, err)
}

func (l *Loader) fetchDecode(ctx context.Context, src string) (*gg.ImageBuf, error) {
	rc, err := l.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return Decode(rc)
}
