// Package pipeline orchestrates the documentation build: it wires the
// configuration surface, lifecycle hooks, the reference-extraction trigger
// and the site generator into an ordered, observable stage sequence.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/soasis/docgen/internal/config"
	"github.com/soasis/docgen/internal/doxygen"
	docerr "github.com/soasis/docgen/internal/errors"
	"github.com/soasis/docgen/internal/gitmeta"
	"github.com/soasis/docgen/internal/hooks"
	"github.com/soasis/docgen/internal/linkcheck"
	"github.com/soasis/docgen/internal/logfields"
	"github.com/soasis/docgen/internal/sitegen"
)

// BuildState is the mutable per-build payload shared by stages.
type BuildState struct {
	BuildID   string
	Config    *config.Config
	Generator *sitegen.Generator
	Hooks     *hooks.Registry
	Extractor *doxygen.Extractor
	Observer  BuildObserver
	Release   string
	Pages     int
	Labels    map[string]string
	Issues    []linkcheck.Issue
	Report    *BuildReport
}

// Builder assembles and runs the documentation build pipeline.
type Builder struct {
	cfg       *config.Config
	workDir   string
	outputDir string
	registry  *hooks.Registry
	extractor *doxygen.Extractor
	observer  BuildObserver
}

// NewBuilder creates a builder for the given configuration. workDir is the
// documentation working directory. The reference-extraction callback is
// registered on the builder-inited extension point exactly once here.
func NewBuilder(cfg *config.Config, workDir, outputDir string) (*Builder, error) {
	extractor, err := doxygen.New(&cfg.Reference, workDir)
	if err != nil {
		return nil, fmt.Errorf("create extractor: %w", err)
	}

	b := &Builder{
		cfg:       cfg,
		workDir:   workDir,
		outputDir: outputDir,
		registry:  hooks.NewRegistry(),
		extractor: extractor,
		observer:  NoopObserver{},
	}

	b.registry.Connect(hooks.BuilderInited, b.extractReference)
	return b, nil
}

// Hooks exposes the registry so callers can attach further callbacks.
func (b *Builder) Hooks() *hooks.Registry { return b.registry }

// DocsDir returns the narrative source directory.
func (b *Builder) DocsDir() string {
	return filepath.Join(b.workDir, b.cfg.Site.DocsDir)
}

// WithObserver injects a build observer (metrics, notifications).
func (b *Builder) WithObserver(o BuildObserver) *Builder {
	if o != nil {
		b.observer = o
	}
	return b
}

// WithExtractorRunner injects a custom toolchain runner (for testing).
func (b *Builder) WithExtractorRunner(r doxygen.Runner) *Builder {
	b.extractor.WithRunner(r)
	return b
}

// extractReference is the builder-inited callback: it triggers reference
// extraction and records the XML directory into the configuration surface
// under the default project name. Extraction failures are tolerated; the
// narrative build proceeds with whatever reference data already exists.
func (b *Builder) extractReference(ctx context.Context, hb *hooks.Build) error {
	xmlDir, err := b.extractor.Run(ctx)
	if err != nil {
		slog.Warn("Reference extraction failed; continuing without reference XML",
			logfields.Error(err))
		return nil
	}
	if xmlDir == "" {
		return nil
	}
	hb.ReferenceProjects[b.cfg.Site.DefaultProject] = xmlDir
	slog.Info("Reference XML recorded",
		logfields.Project(b.cfg.Site.DefaultProject), logfields.Dir(xmlDir))
	return nil
}

// Run executes the full pipeline and returns the build report. The returned
// error is non-nil only for fatal stage failures or cancellation.
func (b *Builder) Run(ctx context.Context) (*BuildReport, error) {
	buildID := uuid.NewString()
	bs := &BuildState{
		BuildID:   buildID,
		Config:    b.cfg,
		Generator: sitegen.NewGenerator(b.cfg, b.workDir, b.outputDir),
		Hooks:     b.registry,
		Extractor: b.extractor,
		Observer:  b.observer,
		Report:    NewBuildReport(buildID),
	}

	slog.Info("Starting documentation build",
		logfields.BuildID(buildID),
		logfields.Project(b.cfg.Project.Name),
		logfields.Dir(b.outputDir),
		slog.Bool("hosted_ci", b.extractor.Enabled()))

	stages := []StageDef{
		{Name: StagePrepareOutput, Fn: stagePrepareOutput},
		{Name: StageResolveRelease, Fn: stageResolveRelease},
		{Name: StageBuilderInited, Fn: stageBuilderInited},
		{Name: StageRenderPages, Fn: stageRenderPages},
		{Name: StageCopyAssets, Fn: stageCopyAssets},
		{Name: StageWriteSnapshot, Fn: stageWriteSnapshot},
		{Name: StageVerifyLinks, Fn: stageVerifyLinks},
	}

	err := RunStages(ctx, bs, stages)
	report := bs.Report
	report.Release = bs.Release
	report.ReferenceXMLDir = b.cfg.Site.ReferenceProjects[b.cfg.Site.DefaultProject]
	if err != nil {
		return report, err
	}

	slog.Info("Documentation build finished",
		logfields.BuildID(buildID),
		slog.String("outcome", report.Outcome),
		slog.Int("pages", bs.Pages),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))
	return report, nil
}

func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	return bs.Generator.PrepareOutput()
}

func stageResolveRelease(_ context.Context, bs *BuildState) error {
	if bs.Config.Project.Release != "" {
		bs.Release = bs.Config.Project.Release
		return nil
	}
	rel, err := gitmeta.ResolveRelease(bs.Generator.DocsDir())
	if err != nil {
		bs.Release = gitmeta.FallbackRelease
		return docerr.Wrap(err, docerr.CategoryGit, docerr.SeverityWarning,
			"release not configured and not resolvable from git; using fallback")
	}
	bs.Release = rel
	slog.Info("Release resolved from git tags", logfields.Release(rel))
	return nil
}

func stageBuilderInited(ctx context.Context, bs *BuildState) error {
	hb := &hooks.Build{
		Project:           bs.Config.Project.Name,
		Release:           bs.Release,
		ReferenceProjects: bs.Config.Site.ReferenceProjects,
	}
	if err := bs.Hooks.Fire(ctx, hooks.BuilderInited, hb); err != nil {
		return docerr.Wrap(err, docerr.CategoryBuild, docerr.SeverityWarning,
			"builder-inited hook failed")
	}
	return nil
}

func stageRenderPages(ctx context.Context, bs *BuildState) error {
	result, err := bs.Generator.RenderPages(ctx)
	if err != nil {
		return docerr.Wrap(err, docerr.CategoryRender, docerr.SeverityFatal, "page rendering failed")
	}
	bs.Pages = len(result.Pages)
	bs.Labels = result.Labels
	return nil
}

func stageCopyAssets(_ context.Context, bs *BuildState) error {
	return bs.Generator.CopyAssets()
}

func stageWriteSnapshot(_ context.Context, bs *BuildState) error {
	return bs.Generator.WriteSnapshot(bs.Release)
}

func stageVerifyLinks(_ context.Context, bs *BuildState) error {
	issues, err := linkcheck.VerifyDir(bs.Generator.OutputDir(), "")
	if err != nil {
		return docerr.Wrap(err, docerr.CategoryValidation, docerr.SeverityWarning,
			"link verification could not complete")
	}
	bs.Issues = issues
	if len(issues) > 0 {
		return docerr.New(docerr.CategoryValidation, docerr.SeverityWarning,
			fmt.Sprintf("%d broken internal links", len(issues)))
	}
	return nil
}

// FireBuildFinished notifies build-finished hooks; callers invoke it after
// persisting/reporting so hooks observe the final state.
func (b *Builder) FireBuildFinished(ctx context.Context, release string) {
	hb := &hooks.Build{
		Project:           b.cfg.Project.Name,
		Release:           release,
		ReferenceProjects: b.cfg.Site.ReferenceProjects,
	}
	if err := b.registry.Fire(ctx, hooks.BuildFinished, hb); err != nil {
		slog.Warn("build-finished hook failed", logfields.Error(err))
	}
}
