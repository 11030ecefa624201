package sitegen

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugTransformer strips diacritics so headings like "Schöne Grüße" produce
// stable ASCII-ish anchors.
var slugTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a heading title into an anchor slug.
func Slugify(title string) string {
	folded, _, err := transform.String(slugTransformer, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	lastDash := true // suppress leading dashes
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SectionLabel builds the global label for a heading. When prefixing is
// enabled the label is qualified by the document path so identical headings
// in different documents stay unambiguous.
func SectionLabel(docPath, heading string, prefix bool) string {
	slug := Slugify(heading)
	if !prefix {
		return slug
	}
	doc := strings.TrimSuffix(docPath, ".md")
	return doc + ":" + slug
}
