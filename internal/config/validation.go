package config

import (
	"fmt"
	"time"

	docerr "github.com/soasis/docgen/internal/errors"
)

// Validate checks the configuration for structural problems after defaults
// have been applied. It returns the first error found.
func (c *Config) Validate() error {
	if c.Project.Name == "" {
		return docerr.New(docerr.CategoryConfig, docerr.SeverityFatal, "project.name is required")
	}
	if c.Site.DocsDir == "" {
		return docerr.New(docerr.CategoryConfig, docerr.SeverityFatal, "site.docs_dir is required")
	}
	if c.Site.DefaultProject != "" {
		// A preseeded reference project must not collide with the path the
		// extraction trigger records for the default project.
		if dir, ok := c.Site.ReferenceProjects[c.Site.DefaultProject]; ok && dir == "" {
			return docerr.New(docerr.CategoryValidation, docerr.SeverityFatal,
				fmt.Sprintf("site.reference_projects[%q] must not be empty", c.Site.DefaultProject))
		}
	}
	if c.Preview != nil {
		if c.Preview.Port < 0 || c.Preview.Port > 65535 {
			return docerr.New(docerr.CategoryValidation, docerr.SeverityFatal,
				fmt.Sprintf("preview.port %d out of range", c.Preview.Port))
		}
		if c.Preview.RebuildInterval != "" {
			if _, err := time.ParseDuration(c.Preview.RebuildInterval); err != nil {
				return docerr.Wrap(err, docerr.CategoryValidation, docerr.SeverityFatal,
					"preview.rebuild_interval is not a valid duration")
			}
		}
	}
	if c.Events != nil && c.Events.Enabled && c.Events.NATSURL == "" {
		return docerr.New(docerr.CategoryValidation, docerr.SeverityFatal,
			"events.nats_url is required when events.enabled is true")
	}
	return nil
}

// RebuildInterval returns the parsed preview rebuild interval, or zero when
// the periodic rebuild is disabled.
func (p *PreviewConfig) RebuildIntervalDuration() time.Duration {
	if p == nil || p.RebuildInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(p.RebuildInterval)
	if err != nil {
		return 0
	}
	return d
}
