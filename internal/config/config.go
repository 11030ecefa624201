package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. It is constructed once by
// Load (or assembled in-memory by callers such as preview mode) and passed by
// pointer; nothing in docgen keeps process-global configuration state.
type Config struct {
	Project   ProjectConfig   `yaml:"project"`
	Site      SiteConfig      `yaml:"site"`
	Reference ReferenceConfig `yaml:"reference,omitempty"`
	Output    OutputConfig    `yaml:"output,omitempty"`
	Preview   *PreviewConfig  `yaml:"preview,omitempty"`
	Events    *EventsConfig   `yaml:"events,omitempty"`
	State     *StateConfig    `yaml:"state,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

// ProjectConfig identifies the documented project.
type ProjectConfig struct {
	Name      string `yaml:"name"`
	Copyright string `yaml:"copyright,omitempty"`
	Author    string `yaml:"author,omitempty"`
	// Release is the full version string including alpha/beta/rc tags.
	// Empty means "resolve from the enclosing git repository's tags".
	Release string `yaml:"release,omitempty"`
}

// SiteConfig is the rendering surface read by the site generator.
type SiteConfig struct {
	DocsDir         string   `yaml:"docs_dir,omitempty"`
	Extensions      []string `yaml:"extensions,omitempty"`
	TemplatesPath   []string `yaml:"templates_path,omitempty"`
	ExcludePatterns []string `yaml:"exclude_patterns,omitempty"`
	HTMLTheme       string   `yaml:"html_theme,omitempty"`
	HTMLStaticPath  []string `yaml:"html_static_path,omitempty"`
	HTMLExtraPath   []string `yaml:"html_extra_path,omitempty"`
	// PageProlog is prepended to every narrative page before rendering.
	// Useful for global substitution patterns.
	PageProlog string `yaml:"page_prolog,omitempty"`
	// ReferenceProjects maps a project name to the directory holding its
	// extracted reference XML. Populated by the builder-inited hook when
	// extraction runs; may also be preseeded from the config file.
	ReferenceProjects map[string]string `yaml:"reference_projects,omitempty"`
	DefaultProject    string            `yaml:"default_project,omitempty"`
	// PrefixSectionLabels prefixes generated section labels with the document
	// path (nil means the default, which is enabled).
	PrefixSectionLabels *bool `yaml:"prefix_section_labels,omitempty"`
}

// PrefixLabels reports the effective section-label prefixing toggle.
func (s *SiteConfig) PrefixLabels() bool {
	if s.PrefixSectionLabels == nil {
		return true
	}
	return *s.PrefixSectionLabels
}

// ReferenceConfig controls the external reference-extraction toolchain.
type ReferenceConfig struct {
	// HostedCI enables the extraction trigger. It is an explicit decision by
	// the caller (config file or --hosted-ci flag); HostedCIFromEnv offers
	// the ambient detection for callers that want it.
	HostedCI      bool     `yaml:"hosted_ci,omitempty"`
	BuildDir      string   `yaml:"build_dir,omitempty"`
	SourceDir     string   `yaml:"source_dir,omitempty"`
	ConfigureArgs []string `yaml:"configure_args,omitempty"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory,omitempty"`
	Clean     bool   `yaml:"clean,omitempty"` // Clean output directory before build
}

// PreviewConfig tunes the local preview server.
type PreviewConfig struct {
	Port            int    `yaml:"port,omitempty"`
	RebuildInterval string `yaml:"rebuild_interval,omitempty"` // Go duration; empty disables the periodic rebuild
	Metrics         bool   `yaml:"metrics,omitempty"`
}

// EventsConfig enables publishing build-completed events to NATS.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// StateConfig enables the SQLite build-record store.
type StateConfig struct {
	Path string `yaml:"path,omitempty"` // ":memory:" allowed; empty disables
}

// LoggingConfig controls log verbosity and format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Project: ProjectConfig{
			Name:      "ztd.text",
			Copyright: "2021, ThePhD & Shepherd's Oasis, LLC",
			Author:    "ThePhD & Shepherd's Oasis, LLC",
			Release:   "0.0.0",
		},
		Site: SiteConfig{
			DocsDir:        "source",
			Extensions:     []string{"reference", "autosectionlabel"},
			TemplatesPath:  []string{"_templates"},
			HTMLTheme:      "rtd",
			HTMLStaticPath: []string{"_static"},
			HTMLExtraPath:  []string{"resources"},
			PageProlog:     "<!-- built with docgen -->\n",
		},
		Reference: ReferenceConfig{
			BuildDir:  DefaultReferenceBuildDir,
			SourceDir: DefaultReferenceSourceDir,
			ConfigureArgs: []string{
				"-DZTD_TEXT_DOCUMENTATION:BOOL=TRUE",
				"-DZTD_TEXT_DOCUMENTATION_NO_SPHINX:BOOL=TRUE",
			},
		},
		Output: OutputConfig{
			Directory: "./_build/html",
			Clean:     true,
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
