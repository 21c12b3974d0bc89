// Package preview serves the output directory locally and rebuilds the site
// when content changes or on a fixed interval.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/folio/internal/logfields"
	"git.home.luguber.info/inful/folio/internal/site"
)

// Options configures Run.
type Options struct {
	Addr string
	// RebuildEvery schedules periodic rebuilds; zero disables them.
	RebuildEvery time.Duration
	// Debounce is the quiet period after a content change; zero uses DefaultDebounce.
	Debounce time.Duration
	// Registry backs /metrics; nil serves the default registry.
	Registry *prom.Registry
}

// BuildFunc performs one build.
type BuildFunc func(ctx context.Context) error

// Rebuilder serializes builds. Requests that arrive while a build runs are
// coalesced into exactly one follow-up build.
type Rebuilder struct {
	build  BuildFunc
	status *Status
	now    func() time.Time

	mu      sync.Mutex
	running bool
	pending bool
	wg      sync.WaitGroup
}

func NewRebuilder(build BuildFunc, status *Status) *Rebuilder {
	return &Rebuilder{build: build, status: status, now: time.Now}
}

// Request starts a build in the background, or queues one if a build is running.
func (r *Rebuilder) Request(ctx context.Context, reason string) {
	r.mu.Lock()
	if r.running {
		r.pending = true
		r.mu.Unlock()
		return
	}
	r.running = true
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		for {
			r.runOnce(ctx, reason)

			r.mu.Lock()
			if !r.pending || ctx.Err() != nil {
				r.running = false
				r.pending = false
				r.mu.Unlock()
				return
			}
			r.pending = false
			r.mu.Unlock()
			reason = "coalesced"
		}
	}()
}

// RunNow builds synchronously.
func (r *Rebuilder) RunNow(ctx context.Context, reason string) error {
	return r.runOnce(ctx, reason)
}

// Wait blocks until no build is running.
func (r *Rebuilder) Wait() { r.wg.Wait() }

func (r *Rebuilder) runOnce(ctx context.Context, reason string) error {
	slog.Info("Rebuilding site", slog.String("reason", reason))
	err := r.build(ctx)
	if err != nil {
		slog.Warn("rebuild failed", logfields.Error(err))
		r.status.setError(err, r.now())
		return err
	}
	r.status.setSuccess(r.now())
	return nil
}

// Run builds once, then serves outDir and rebuilds from contentDir changes
// until ctx is canceled. A failing build keeps the server up.
func Run(ctx context.Context, b *site.Builder, opts Options) error {
	cfg := b.Config()
	status := &Status{}
	rb := NewRebuilder(func(ctx context.Context) error {
		_, err := b.Build(ctx, site.BuildOptions{})
		return err
	}, status)

	_ = rb.RunNow(ctx, "startup")

	var sched *scheduler
	if opts.RebuildEvery > 0 {
		var err error
		sched, err = newScheduler(opts.RebuildEvery, func(reason string) { rb.Request(ctx, reason) })
		if err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		if sched != nil {
			_ = sched.stop()
		}
		return fmt.Errorf("listen %s: %w", opts.Addr, err)
	}
	srv := &http.Server{
		Handler:           NewHandler(cfg.OutputDir(), opts.Registry, status),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	slog.Info("Preview server listening", logfields.URL("http://"+ln.Addr().String()), logfields.Path(cfg.OutputDir()))

	deb := NewDebouncer(opts.Debounce, func() { rb.Request(ctx, "content change") })

	watchErr := make(chan error, 1)
	go func() { watchErr <- watchContent(ctx, cfg.ContentDir(), deb.Trigger) }()

	if sched != nil {
		sched.start()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = err
	case err := <-watchErr:
		if err != nil {
			runErr = err
		}
	}

	slog.Info("Shutting down preview server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	if sched != nil {
		if err := sched.stop(); err != nil {
			slog.Warn("scheduler shutdown error", logfields.Error(err))
		}
	}
	deb.Stop()
	rb.Wait()
	return runErr
}
