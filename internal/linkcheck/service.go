package linkcheck

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/soasis/docgen/internal/logfields"
)

// Issue describes one broken internal link.
type Issue struct {
	Page   string // Page the link appears on, relative to the output root
	URL    string // The offending link target
	Reason string
}

// VerifyDir walks the rendered output directory and checks that every
// internal link resolves to a file inside it. External links are not fetched;
// verifying them requires the network and belongs to a separate tool.
func VerifyDir(outputDir, baseURL string) ([]Issue, error) {
	var issues []Issue

	err := filepath.WalkDir(outputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, relErr := filepath.Rel(outputDir, p)
		if relErr != nil {
			return relErr
		}

		links, extractErr := ExtractLinks(p, baseURL)
		if extractErr != nil {
			return fmt.Errorf("extract links from %s: %w", rel, extractErr)
		}

		for _, link := range links {
			if !link.IsInternal {
				continue
			}
			if reason := checkInternal(outputDir, rel, link.URL); reason != "" {
				issues = append(issues, Issue{Page: rel, URL: link.URL, Reason: reason})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(issues) > 0 {
		slog.Warn("Link verification found broken internal links",
			slog.Int("count", len(issues)), logfields.Dir(outputDir))
	}
	return issues, nil
}

// checkInternal resolves target against the page location and reports why it
// does not resolve, or "" when it does.
func checkInternal(outputDir, page, target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "unparseable URL"
	}
	clean := u.Path
	if clean == "" {
		// Fragment-only or query-only link; nothing to resolve on disk.
		return ""
	}

	var resolved string
	if path.IsAbs(clean) {
		resolved = filepath.Join(outputDir, filepath.FromSlash(clean))
	} else {
		resolved = filepath.Join(outputDir, filepath.Dir(page), filepath.FromSlash(clean))
	}

	info, statErr := os.Stat(resolved)
	if statErr == nil {
		if info.IsDir() {
			// Directory link resolves via its index page.
			if _, idxErr := os.Stat(filepath.Join(resolved, "index.html")); idxErr != nil {
				return "directory has no index.html"
			}
		}
		return ""
	}
	return "target not found"
}
