// Package linkcheck verifies links in rendered HTML output.
package linkcheck

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	docerr "github.com/soasis/docgen/internal/errors"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL        string // The URL or path
	Tag        string // HTML tag (a, img, script, link)
	Attribute  string // Attribute containing the link (href, src)
	IsInternal bool   // True if link is internal to the site
}

// linkAttributes maps tags to the attribute that carries their target.
var linkAttributes = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
}

// ExtractLinks extracts all links from an HTML file.
func ExtractLinks(htmlPath string, baseURL string) ([]*Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, docerr.Wrap(err, docerr.CategoryFileSystem, docerr.SeverityError, "failed to open HTML file").
			WithContext("html_path", htmlPath)
	}
	defer func() {
		_ = file.Close() // Ignore close errors on read-only operation
	}()

	return ExtractLinksFromReader(file, baseURL)
}

// ExtractLinksFromReader extracts all links from an HTML reader.
func ExtractLinksFromReader(r io.Reader, baseURL string) ([]*Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, docerr.Wrap(err, docerr.CategoryValidation, docerr.SeverityError, "failed to parse HTML")
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docerr.Wrap(err, docerr.CategoryValidation, docerr.SeverityError, "invalid base URL").
			WithContext("base_url", baseURL)
	}

	var links []*Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attrName, ok := linkAttributes[n.Data]; ok {
				if target := getAttr(n, attrName); target != "" && !ignoredTarget(target) {
					links = append(links, &Link{
						URL:        target,
						Tag:        n.Data,
						Attribute:  attrName,
						IsInternal: isInternal(target, base),
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func getAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// ignoredTarget filters pseudo-links that never resolve to site content.
func ignoredTarget(target string) bool {
	return strings.HasPrefix(target, "#") ||
		strings.HasPrefix(target, "mailto:") ||
		strings.HasPrefix(target, "tel:") ||
		strings.HasPrefix(target, "javascript:") ||
		strings.HasPrefix(target, "data:")
}

func isInternal(target string, base *url.URL) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return true
	}
	return base.Host != "" && u.Host == base.Host
}
