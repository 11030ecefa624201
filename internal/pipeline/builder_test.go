package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soasis/docgen/internal/config"
	"github.com/soasis/docgen/internal/hooks"
)

type scriptedRunner struct {
	calls []runnerCall
	errs  []error
}

type runnerCall struct {
	dir  string
	name string
	args []string
}

func (r *scriptedRunner) Run(_ context.Context, dir, name string, args ...string) error {
	r.calls = append(r.calls, runnerCall{dir: dir, name: name, args: args})
	if len(r.errs) >= len(r.calls) {
		return r.errs[len(r.calls)-1]
	}
	return nil
}

func buildConfig(t *testing.T, hostedCI bool) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Project: config.ProjectConfig{Name: "ztd.text", Release: "3.1.0"},
		Reference: config.ReferenceConfig{
			HostedCI:      hostedCI,
			ConfigureArgs: []string{"-DZTD_TEXT_DOCUMENTATION:BOOL=TRUE"},
		},
	}
	require.NoError(t, config.ApplyDefaults(cfg))
	return cfg
}

func writeNarrative(t *testing.T, workDir string) {
	t.Helper()
	docs := filepath.Join(workDir, "source")
	require.NoError(t, os.MkdirAll(docs, 0o750))
	index := "# ztd.text\n\nSee [design](design.html).\n"
	design := "# Design\n\n## Error Handling\n"
	require.NoError(t, os.WriteFile(filepath.Join(docs, "index.md"), []byte(index), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "design.md"), []byte(design), 0o644))
	writeThemeCSS(t, workDir)
}

// writeThemeCSS provides the stylesheet every rendered page links, so link
// verification sees a complete site.
func writeThemeCSS(t *testing.T, workDir string) {
	t.Helper()
	static := filepath.Join(workDir, "_static")
	require.NoError(t, os.MkdirAll(static, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(static, "rtd.css"), []byte("body {}"), 0o644))
}

func TestNewBuilderRegistersSingleExtractionHook(t *testing.T) {
	cfg := buildConfig(t, true)
	b, err := NewBuilder(cfg, t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 1, b.Hooks().Count(hooks.BuilderInited))
}

func TestRunHostedCIRecordsReferenceXML(t *testing.T) {
	cfg := buildConfig(t, true)
	workDir := t.TempDir()
	writeNarrative(t, workDir)

	runner := &scriptedRunner{}
	b, err := NewBuilder(cfg, workDir, filepath.Join(workDir, "out"))
	require.NoError(t, err)
	b.WithExtractorRunner(runner)

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, report.Outcome)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, "cmake", runner.calls[0].name)
	assert.Equal(t, []string{"--build", "."}, runner.calls[1].args)

	wantXML := filepath.Join(workDir, config.DefaultReferenceBuildDir, config.ReferenceXMLSubdir)
	assert.Equal(t, wantXML, cfg.Site.ReferenceProjects["ztd.text"])

	assert.FileExists(t, filepath.Join(workDir, "out", "index.html"))
	assert.FileExists(t, filepath.Join(workDir, "out", "design.html"))
}

func TestRunLocalBuildSkipsExtraction(t *testing.T) {
	cfg := buildConfig(t, false)
	workDir := t.TempDir()
	writeNarrative(t, workDir)

	runner := &scriptedRunner{}
	b, err := NewBuilder(cfg, workDir, filepath.Join(workDir, "out"))
	require.NoError(t, err)
	b.WithExtractorRunner(runner)

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, report.Outcome)

	assert.Empty(t, runner.calls, "local builds never invoke the toolchain")
	assert.NotContains(t, cfg.Site.ReferenceProjects, "ztd.text")
	assert.NoDirExists(t, filepath.Join(workDir, "_build", "cmake-build"))
}

func TestRunSnapshotCarriesRecordedReference(t *testing.T) {
	cfg := buildConfig(t, true)
	workDir := t.TempDir()
	writeNarrative(t, workDir)

	b, err := NewBuilder(cfg, workDir, filepath.Join(workDir, "out"))
	require.NoError(t, err)
	b.WithExtractorRunner(&scriptedRunner{})

	_, err = b.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(workDir, "out", "_docgen.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "documentation/doxygen/xml")
}

func TestRunBrokenLinkDegradesToWarning(t *testing.T) {
	cfg := buildConfig(t, false)
	workDir := t.TempDir()
	docs := filepath.Join(workDir, "source")
	require.NoError(t, os.MkdirAll(docs, 0o750))
	page := "# Home\n\n[missing](nowhere.html)\n"
	require.NoError(t, os.WriteFile(filepath.Join(docs, "index.md"), []byte(page), 0o644))
	writeThemeCSS(t, workDir)

	b, err := NewBuilder(cfg, workDir, filepath.Join(workDir, "out"))
	require.NoError(t, err)

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeWarning, report.Outcome)
	assert.NotEmpty(t, report.Warnings)
}

func TestRunUsesConfiguredReleaseInSnapshot(t *testing.T) {
	cfg := buildConfig(t, false)
	workDir := t.TempDir()
	writeNarrative(t, workDir)

	b, err := NewBuilder(cfg, workDir, filepath.Join(workDir, "out"))
	require.NoError(t, err)

	_, err = b.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(workDir, "out", "_docgen.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "release: 3.1.0")
}

func TestRunExtraHookObservesRecordedReference(t *testing.T) {
	cfg := buildConfig(t, true)
	workDir := t.TempDir()
	writeNarrative(t, workDir)

	b, err := NewBuilder(cfg, workDir, filepath.Join(workDir, "out"))
	require.NoError(t, err)
	b.WithExtractorRunner(&scriptedRunner{})

	var seen string
	b.Hooks().Connect(hooks.BuilderInited, func(_ context.Context, hb *hooks.Build) error {
		seen = hb.ReferenceProjects["ztd.text"]
		return nil
	})

	_, err = b.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, seen, "hooks connected after the extraction callback see its result")
}
