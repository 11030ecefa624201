package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/soasis/docgen/internal/config"
	"github.com/soasis/docgen/internal/events"
	"github.com/soasis/docgen/internal/logfields"
	"github.com/soasis/docgen/internal/pipeline"
	"github.com/soasis/docgen/internal/state"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output   string `short:"o" help:"Output directory for the rendered site (overrides config)"`
	HostedCI bool   `name:"hosted-ci" help:"Force the hosted-CI reference extraction (defaults to environment detection)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configureLogging(cfg, root.Verbose)

	// Extraction runs when any of the three sources asks for it: the flag,
	// the config file, or the hosting environment.
	if b.HostedCI || config.HostedCIFromEnv() {
		cfg.Reference.HostedCI = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	workDir := workingDir(root.Config)
	outputDir := ResolveOutputDir(b.Output, cfg)

	builder, err := pipeline.NewBuilder(cfg, workDir, outputDir)
	if err != nil {
		return err
	}

	report, buildErr := builder.Run(ctx)
	recordBuild(ctx, cfg, report)
	publishBuild(cfg, report)
	builder.FireBuildFinished(ctx, report.Release)

	if buildErr != nil {
		return fmt.Errorf("build failed: %w", buildErr)
	}
	fmt.Printf("Documentation built to %s (%s)\n", outputDir, report.Outcome)
	return nil
}

// recordBuild persists the build record when the state store is configured.
func recordBuild(ctx context.Context, cfg *config.Config, report *pipeline.BuildReport) {
	if cfg.State == nil || cfg.State.Path == "" {
		return
	}
	store, err := state.Open(cfg.State.Path)
	if err != nil {
		slog.Warn("Could not open build state store", logfields.Error(err))
		return
	}
	defer store.Close()

	rec := &state.BuildRecord{
		ID:              report.BuildID,
		Project:         cfg.Project.Name,
		Release:         report.Release,
		Outcome:         report.Outcome,
		DurationMS:      report.Duration().Milliseconds(),
		ReferenceXMLDir: report.ReferenceXMLDir,
	}
	if err := store.Record(ctx, rec); err != nil {
		slog.Warn("Could not record build", logfields.Error(err))
	}
}

// publishBuild emits the build-completed event when events are enabled.
// Publishing problems never fail the build.
func publishBuild(cfg *config.Config, report *pipeline.BuildReport) {
	if cfg.Events == nil || !cfg.Events.Enabled {
		return
	}
	pub, err := events.NewPublisher(cfg.Events)
	if err != nil {
		slog.Warn("Could not connect event publisher", logfields.Error(err))
		return
	}
	defer pub.Close()

	ev := events.BuildEvent{
		BuildID:         report.BuildID,
		Project:         cfg.Project.Name,
		Release:         report.Release,
		Outcome:         report.Outcome,
		DurationMS:      report.Duration().Milliseconds(),
		ReferenceXMLDir: report.ReferenceXMLDir,
		CompletedAt:     time.Now(),
	}
	if err := pub.Publish(ev); err != nil {
		slog.Warn("Could not publish build event", logfields.Error(err))
	}
}
