// Package sitegen renders the documentation site: narrative Markdown pages,
// static assets, and a snapshot of the effective configuration surface for
// downstream consumers (reference-page generation, preview serving).
package sitegen

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/soasis/docgen/internal/config"
	"github.com/soasis/docgen/internal/logfields"
)

// SnapshotFileName is the effective-configuration snapshot written into the
// output root.
const SnapshotFileName = "_docgen.yaml"

// Generator builds the site output tree from a configuration surface.
type Generator struct {
	cfg       *config.Config
	workDir   string // documentation working directory (holds docs_dir, asset dirs)
	outputDir string
}

// NewGenerator creates a generator. workDir is the documentation working
// directory; outputDir is where the rendered site is written.
func NewGenerator(cfg *config.Config, workDir, outputDir string) *Generator {
	return &Generator{cfg: cfg, workDir: workDir, outputDir: outputDir}
}

// OutputDir returns the site output root.
func (g *Generator) OutputDir() string { return g.outputDir }

// DocsDir returns the absolute narrative-source directory.
func (g *Generator) DocsDir() string {
	return filepath.Join(g.workDir, g.cfg.Site.DocsDir)
}

// PrepareOutput creates (and optionally cleans) the output structure.
func (g *Generator) PrepareOutput() error {
	if g.cfg.Output.Clean {
		if err := os.RemoveAll(g.outputDir); err != nil {
			return fmt.Errorf("clean output directory: %w", err)
		}
	}
	if err := os.MkdirAll(g.outputDir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	slog.Debug("Output directory ready", logfields.Dir(g.outputDir))
	return nil
}

// CopyAssets copies static asset directories into _static/ under the output
// root and extra asset directories directly into the output root. Missing
// source directories are skipped; ztd.text only grew a resources/ directory
// partway through its life and older checkouts must still build.
func (g *Generator) CopyAssets() error {
	for _, static := range g.cfg.Site.HTMLStaticPath {
		src := filepath.Join(g.workDir, static)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			slog.Debug("Static path absent, skipping", logfields.Path(src))
			continue
		}
		dst := filepath.Join(g.outputDir, "_static")
		if err := copyTree(src, dst); err != nil {
			return fmt.Errorf("copy static assets from %s: %w", static, err)
		}
	}

	for _, extra := range g.cfg.Site.HTMLExtraPath {
		src := filepath.Join(g.workDir, extra)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			slog.Debug("Extra path absent, skipping", logfields.Path(src))
			continue
		}
		if err := copyTree(src, g.outputDir); err != nil {
			return fmt.Errorf("copy extra assets from %s: %w", extra, err)
		}
	}
	return nil
}

// Snapshot is the configuration surface as consumed by downstream tooling.
type Snapshot struct {
	Project           string            `yaml:"project"`
	Copyright         string            `yaml:"copyright,omitempty"`
	Author            string            `yaml:"author,omitempty"`
	Release           string            `yaml:"release"`
	Extensions        []string          `yaml:"extensions,omitempty"`
	TemplatesPath     []string          `yaml:"templates_path,omitempty"`
	ExcludePatterns   []string          `yaml:"exclude_patterns,omitempty"`
	HTMLTheme         string            `yaml:"html_theme"`
	HTMLStaticPath    []string          `yaml:"html_static_path,omitempty"`
	HTMLExtraPath     []string          `yaml:"html_extra_path,omitempty"`
	PageProlog        string            `yaml:"page_prolog,omitempty"`
	ReferenceProjects map[string]string `yaml:"reference_projects"`
	DefaultProject    string            `yaml:"default_project"`
	PrefixLabels      bool              `yaml:"prefix_section_labels"`
}

// WriteSnapshot records the effective configuration surface (including any
// reference-XML directory recorded by the builder-inited hooks) into the
// output root.
func (g *Generator) WriteSnapshot(release string) error {
	snap := Snapshot{
		Project:           g.cfg.Project.Name,
		Copyright:         g.cfg.Project.Copyright,
		Author:            g.cfg.Project.Author,
		Release:           release,
		Extensions:        g.cfg.Site.Extensions,
		TemplatesPath:     g.cfg.Site.TemplatesPath,
		ExcludePatterns:   g.cfg.Site.ExcludePatterns,
		HTMLTheme:         g.cfg.Site.HTMLTheme,
		HTMLStaticPath:    g.cfg.Site.HTMLStaticPath,
		HTMLExtraPath:     g.cfg.Site.HTMLExtraPath,
		PageProlog:        g.cfg.Site.PageProlog,
		ReferenceProjects: g.cfg.Site.ReferenceProjects,
		DefaultProject:    g.cfg.Site.DefaultProject,
		PrefixLabels:      g.cfg.Site.PrefixLabels(),
	}

	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("marshal configuration snapshot: %w", err)
	}
	path := filepath.Join(g.outputDir, SnapshotFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write configuration snapshot: %w", err)
	}
	slog.Debug("Configuration snapshot written", logfields.Path(path))
	return nil
}

// copyTree copies src directory contents into dst, creating dst as needed.
func copyTree(src, dst string) error {
	return filepath.Walk(src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode().Perm())
	})
}
