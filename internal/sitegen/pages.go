package sitegen

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/soasis/docgen/internal/logfields"
)

// Page is one rendered narrative document.
type Page struct {
	RelPath    string // source path relative to the docs dir, forward slashes
	OutputPath string // rendered file path
	Title      string // first heading, or the file stem
	Labels     []string
}

// RenderResult summarizes a page-rendering pass.
type RenderResult struct {
	Pages  []Page
	Labels map[string]string // label -> page relative output path
}

// RenderPages walks the docs directory, renders every Markdown page and
// returns the collected section labels. The configured prolog is prepended to
// each page before rendering so global substitution patterns apply everywhere.
func (g *Generator) RenderPages(ctx context.Context) (*RenderResult, error) {
	docsDir := g.DocsDir()
	if _, err := os.Stat(docsDir); err != nil {
		return nil, fmt.Errorf("docs directory %s: %w", docsDir, err)
	}

	md := goldmark.New()
	result := &RenderResult{Labels: map[string]string{}}

	err := filepath.WalkDir(docsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, relErr := filepath.Rel(docsDir, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if g.excluded(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		page, renderErr := g.renderPage(md, p, rel)
		if renderErr != nil {
			return fmt.Errorf("render %s: %w", rel, renderErr)
		}

		result.Pages = append(result.Pages, *page)
		outRel := strings.TrimSuffix(rel, ".md") + ".html"
		for _, label := range page.Labels {
			result.Labels[label] = outRel
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Narrative pages rendered",
		slog.Int("pages", len(result.Pages)), slog.Int("labels", len(result.Labels)))
	return result, nil
}

func (g *Generator) renderPage(md goldmark.Markdown, srcPath, rel string) (*Page, error) {
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, err
	}

	body := raw
	if g.cfg.Site.PageProlog != "" {
		body = append([]byte(g.cfg.Site.PageProlog), raw...)
	}

	headings := extractHeadings(md, body)

	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return nil, err
	}

	title := strings.TrimSuffix(path.Base(rel), ".md")
	if len(headings) > 0 {
		title = headings[0]
	}

	labels := make([]string, 0, len(headings))
	for _, h := range headings {
		labels = append(labels, SectionLabel(rel, h, g.cfg.Site.PrefixLabels()))
	}

	outPath := filepath.Join(g.outputDir, filepath.FromSlash(strings.TrimSuffix(rel, ".md")+".html"))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return nil, err
	}

	doc := g.wrapHTML(title, buf.Bytes())
	if err := os.WriteFile(outPath, doc, 0o644); err != nil {
		return nil, err
	}

	slog.Debug("Page rendered", logfields.Path(rel), slog.String("title", title))
	return &Page{RelPath: rel, OutputPath: outPath, Title: title, Labels: labels}, nil
}

// excluded reports whether a relative path matches any exclusion pattern.
// Patterns match against the full relative path and against each component,
// so "drafts" excludes the whole drafts/ subtree.
func (g *Generator) excluded(rel string) bool {
	if rel == "." {
		return false
	}
	for _, pattern := range g.cfg.Site.ExcludePatterns {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		for _, part := range strings.Split(rel, "/") {
			if ok, _ := path.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}

// extractHeadings collects heading text in document order.
func extractHeadings(md goldmark.Markdown, body []byte) []string {
	root := md.Parser().Parse(text.NewReader(body))

	var headings []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			var sb strings.Builder
			for c := h.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*gmast.Text); ok {
					sb.Write(t.Segment.Value(body))
				}
			}
			if sb.Len() > 0 {
				headings = append(headings, sb.String())
			}
		}
		return gmast.WalkContinue, nil
	})
	return headings
}

func (g *Generator) wrapHTML(title string, body []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s - %s</title>\n",
		html.EscapeString(title), html.EscapeString(g.cfg.Project.Name))
	fmt.Fprintf(&buf, "<link rel=\"stylesheet\" href=\"/_static/%s.css\">\n</head>\n<body class=\"theme-%s\">\n",
		g.cfg.Site.HTMLTheme, g.cfg.Site.HTMLTheme)
	buf.Write(body)
	buf.WriteString("\n</body>\n</html>\n")
	return buf.Bytes()
}
