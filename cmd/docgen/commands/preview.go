package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/soasis/docgen/internal/config"
	"github.com/soasis/docgen/internal/metrics"
	"github.com/soasis/docgen/internal/pipeline"
	"github.com/soasis/docgen/internal/preview"
)

// PreviewCmd implements the 'preview' command: serve the rendered site
// locally, rebuilding when narrative sources change. Reference extraction is
// never triggered from preview; it is a narrative-only loop.
type PreviewCmd struct {
	Port int `short:"p" help:"HTTP port (overrides config)"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configureLogging(cfg, root.Verbose)

	if cfg.Preview == nil {
		cfg.Preview = &config.PreviewConfig{Port: 1808}
	}
	if p.Port != 0 {
		cfg.Preview.Port = p.Port
	}
	cfg.Reference.HostedCI = false

	workDir := workingDir(root.Config)
	outputDir := ResolveOutputDir("", cfg)

	builder, err := pipeline.NewBuilder(cfg, workDir, outputDir)
	if err != nil {
		return err
	}

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)
	builder.WithObserver(pipeline.RecorderObserver{Rec: recorder})

	rebuild := func(ctx context.Context) error {
		_, err := builder.Run(ctx)
		return err
	}

	srv := preview.NewServer(cfg.Preview, outputDir, builder.DocsDir(), rebuild)
	srv.WithMetrics(recorder, registry)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return srv.Run(ctx)
}
