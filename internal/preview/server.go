// Package preview serves a built site locally and rebuilds it when the
// content tree changes.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docsite/internal/config"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// SiteBuilder produces the site served by the preview server.
type SiteBuilder interface {
	Build(ctx context.Context) (*site.Result, error)
}

// Server serves the output directory and rebuilds on content changes.
type Server struct {
	cfg      *config.Config
	builder  SiteBuilder
	registry *prom.Registry
	logger   *slog.Logger
	status   buildStatus
	window   time.Duration

	buildMu sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics exposes reg on /metrics.
func WithMetrics(reg *prom.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a preview server for cfg.
func New(cfg *config.Config, builder SiteBuilder, opts ...Option) *Server {
	s := &Server{cfg: cfg, builder: builder, logger: slog.Default(), window: DebounceWindow}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler routes /health, /metrics (when enabled) and the static site.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.registry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(s.registry))
	}
	mux.Handle("GET /{$}", http.RedirectHandler("/"+s.cfg.Site.Category, http.StatusFound))
	mux.Handle("GET /", http.FileServer(http.Dir(s.cfg.Output.Directory)))
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := s.status.health()
	code := http.StatusOK
	if resp.Status == HealthStatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

// outputIntact reports whether the output directory still holds a complete
// site. Builds write the manifest last and cleaning removes it.
func (s *Server) outputIntact() bool {
	_, err := os.Stat(filepath.Join(s.cfg.Output.Directory, manifest.FileName))
	return err == nil
}

// Rebuild runs one build and records its outcome. Concurrent calls are serialized.
func (s *Server) Rebuild(ctx context.Context) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	res, err := s.builder.Build(ctx)
	if err != nil {
		intact := s.outputIntact()
		s.status.setError(err, intact)
		s.logger.Warn("Rebuild failed", logfields.Error(err), slog.Bool("previous_site_served", intact))
		return err
	}
	s.status.setSuccess(res.Manifest.ID, len(res.Manifest.Pages), res.Manifest.FinishedAt)
	if !res.Changes.Empty() {
		s.logger.Info("Pages updated",
			logfields.BuildID(res.Manifest.ID),
			slog.Any("added", res.Changes.Added),
			slog.Any("changed", res.Changes.Changed),
			slog.Any("removed", res.Changes.Removed))
	}
	return nil
}

// Run builds once, serves on addr and rebuilds on changes until ctx is done.
// A failing initial build is reported through /health, not returned.
func (s *Server) Run(ctx context.Context, addr string) error {
	_ = s.Rebuild(ctx)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "listen").
			WithContext("addr", addr).
			Build()
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	s.logger.Info("Preview server listening",
		slog.String("addr", ln.Addr().String()),
		logfields.URL(fmt.Sprintf("http://%s/%s", ln.Addr().String(), s.cfg.Site.Category)))

	watcher, err := newWatcher(s.watchRoots(), s.logger)
	if err != nil {
		_ = srv.Close()
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "start file watcher").Build()
	}
	defer func() { _ = watcher.Close() }()

	sched, err := s.startScheduler(ctx)
	if err != nil {
		_ = srv.Close()
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "start rebuild scheduler").Build()
	}
	if sched != nil {
		defer func() { _ = sched.stop() }()
	}

	deb := newDebouncer(s.window)
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return s.shutdown(srv)
		case err, ok := <-serveErr:
			if ok && err != nil {
				return ferrors.WrapError(err, ferrors.CategoryRuntime, "serve").Build()
			}
			serveErr = nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return s.shutdown(srv)
			}
			s.handleEvent(watcher, ev, deb)
		case err, ok := <-watcher.Errors:
			if !ok {
				return s.shutdown(srv)
			}
			s.logger.Warn("Watcher error", logfields.Error(err))
		case <-deb.C:
			s.logger.Info("Change detected; rebuilding site")
			_ = s.Rebuild(ctx)
		}
	}
}

func (s *Server) shutdown(srv *http.Server) error {
	s.logger.Info("Shutting down preview server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}

func (s *Server) handleEvent(w *fsnotify.Watcher, ev fsnotify.Event, deb *debouncer) {
	if shouldIgnoreEvent(ev.Name) || s.inOutput(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(w, ev.Name, s.logger)
		}
	}
	s.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	deb.trigger()
}

// watchRoots are the page tree, the partials and the order file's directory.
func (s *Server) watchRoots() []string {
	roots := []string{s.cfg.DocsRoot(), s.cfg.PartialsRoot()}
	if p := s.cfg.OrderPath(); p != "" {
		roots = append(roots, filepath.Dir(p))
	}
	return roots
}

func (s *Server) inOutput(p string) bool {
	out, err := filepath.Abs(s.cfg.Output.Directory)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	return within(out, abs)
}
