// Package gitmeta derives project metadata from the enclosing git repository.
package gitmeta

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/soasis/docgen/internal/logfields"
)

// FallbackRelease is used when no repository or no version tag is found.
const FallbackRelease = "0.0.0"

var versionTagPattern = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(?:[-.].*)?$`)

type versionTag struct {
	name  string
	parts [3]int
}

// ResolveRelease returns the release string for the repository enclosing
// startDir: the highest version-shaped tag, stripped of any leading "v".
// Pre-release suffixes are kept (e.g. "1.2.0-rc1"). When the directory is not
// inside a git repository an error is returned so the caller can fall back.
func ResolveRelease(startDir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(startDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repository at %s: %w", startDir, err)
	}

	tags, err := repo.Tags()
	if err != nil {
		return "", fmt.Errorf("list tags: %w", err)
	}

	var best *versionTag
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		vt, ok := parseVersionTag(name)
		if !ok {
			return nil
		}
		if best == nil || newer(vt, *best) {
			best = &vt
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("iterate tags: %w", err)
	}

	if best == nil {
		slog.Debug("No version tags found", logfields.Dir(startDir))
		return FallbackRelease, nil
	}
	return strings.TrimPrefix(best.name, "v"), nil
}

func parseVersionTag(name string) (versionTag, bool) {
	m := versionTagPattern.FindStringSubmatch(name)
	if m == nil {
		return versionTag{}, false
	}
	var vt versionTag
	vt.name = name
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return versionTag{}, false
		}
		vt.parts[i] = n
	}
	return vt, true
}

func newer(a, b versionTag) bool {
	for i := 0; i < 3; i++ {
		if a.parts[i] != b.parts[i] {
			return a.parts[i] > b.parts[i]
		}
	}
	// Same numeric version: prefer the plain tag over a pre-release suffix.
	return len(a.name) < len(b.name)
}
