// Package preview serves the rendered site locally and rebuilds it when the
// narrative sources change, either through filesystem notification or on a
// fixed schedule.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/soasis/docgen/internal/config"
	"github.com/soasis/docgen/internal/logfields"
	"github.com/soasis/docgen/internal/metrics"
)

// RebuildFunc performs one full documentation build.
type RebuildFunc func(ctx context.Context) error

// Server hosts the preview: static site serving, optional /metrics, source
// watching and periodic rebuilds.
type Server struct {
	cfg       *config.PreviewConfig
	outputDir string
	watchDir  string
	rebuild   RebuildFunc
	recorder  metrics.Recorder
	registry  *prom.Registry
}

// NewServer creates a preview server. watchDir is the narrative source
// directory to watch; rebuild is invoked on change and on schedule.
func NewServer(cfg *config.PreviewConfig, outputDir, watchDir string, rebuild RebuildFunc) *Server {
	return &Server{
		cfg:       cfg,
		outputDir: outputDir,
		watchDir:  watchDir,
		rebuild:   rebuild,
		recorder:  metrics.NoopRecorder{},
	}
}

// WithMetrics wires a recorder and the Prometheus registry behind /metrics.
func (s *Server) WithMetrics(rec metrics.Recorder, reg *prom.Registry) *Server {
	if rec != nil {
		s.recorder = rec
	}
	s.registry = reg
	return s
}

// Run serves until ctx is canceled. It performs an initial build before
// accepting requests so the first page load never sees an empty tree.
func (s *Server) Run(ctx context.Context) error {
	if err := s.doRebuild(ctx, "initial"); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	watcher, err := NewWatcher(s.watchDir, func() {
		_ = s.doRebuild(ctx, "watch")
	})
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()
	go watcher.Run(ctx)

	scheduler, err := s.startScheduler(ctx)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer func() { _ = scheduler.Shutdown() }()
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.outputDir)))
	if s.cfg.Metrics {
		mux.Handle("/metrics", metrics.HTTPHandler(s.registry))
	}

	addr := net.JoinHostPort("", fmt.Sprintf("%d", s.cfg.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening",
			logfields.Port(s.cfg.Port), logfields.Dir(s.outputDir))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown preview server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startScheduler sets up the periodic rebuild when an interval is configured.
func (s *Server) startScheduler(ctx context.Context) (gocron.Scheduler, error) {
	interval := s.cfg.RebuildIntervalDuration()
	if interval <= 0 {
		return nil, nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			_ = s.doRebuild(ctx, "schedule")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule periodic rebuild: %w", err)
	}
	scheduler.Start()
	slog.Info("Periodic rebuild scheduled", slog.Duration("interval", interval))
	return scheduler, nil
}

func (s *Server) doRebuild(ctx context.Context, trigger string) error {
	t0 := time.Now()
	err := s.rebuild(ctx)
	s.recorder.IncPreviewRebuild(trigger)
	if err != nil {
		slog.Warn("Rebuild failed",
			slog.String("trigger", trigger), logfields.Error(err))
		return err
	}
	slog.Info("Rebuilt",
		slog.String("trigger", trigger),
		logfields.DurationMS(float64(time.Since(t0).Milliseconds())))
	return nil
}
