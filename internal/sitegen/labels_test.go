package sitegen

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Getting Started", "getting-started"},
		{"Encoding & Decoding", "encoding-decoding"},
		{"  spaced   out  ", "spaced-out"},
		{"Café Déjà Vu", "cafe-deja-vu"},
		{"C++23 support?", "c-23-support"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSectionLabel(t *testing.T) {
	if got := SectionLabel("design/errors.md", "Error Handling", true); got != "design/errors:error-handling" {
		t.Errorf("prefixed label = %q", got)
	}
	if got := SectionLabel("design/errors.md", "Error Handling", false); got != "error-handling" {
		t.Errorf("unprefixed label = %q", got)
	}
}
