// Package assets warms the browser-facing asset cache before a game starts.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Preloader resolves when every URL is cache-warm and fails on the first
// error. Callers treat it as best effort.
type Preloader interface {
	Preload(ctx context.Context, urls []string) error
}

type PreloaderFunc func(ctx context.Context, urls []string) error

func (f PreloaderFunc) Preload(ctx context.Context, urls []string) error {
	return f(ctx, urls)
}

// HTTPPreloader fetches each URL with GET and discards the body, so any
// caching proxy or CDN in front of the assets is primed.
type HTTPPreloader struct {
	Client      *http.Client
	Concurrency int
	Log         *log.Entry
}

func NewHTTPPreloader(logger *log.Entry) *HTTPPreloader {
	return &HTTPPreloader{
		Client:      http.DefaultClient,
		Concurrency: 4,
		Log:         logger,
	}
}

func (p *HTTPPreloader) Preload(ctx context.Context, urls []string) error {
	g, ctx := errgroup.WithContext(ctx)
	if p.Concurrency > 0 {
		g.SetLimit(p.Concurrency)
	}

	for _, url := range urls {
		g.Go(func() error {
			return p.fetch(ctx, url)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("preload assets: %w", err)
	}
	if p.Log != nil {
		p.Log.Debugf("[HTTPPreloader.Preload] warmed %d assets", len(urls))
	}
	return nil
}

func (p *HTTPPreloader) fetch(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: status %d", url, resp.StatusCode)
	}
	return nil
}
