package config

// Default locations for the reference-extraction toolchain, relative to the
// documentation working directory. The XML output lands under
// <build_dir>/documentation/doxygen/xml.
const (
	DefaultReferenceBuildDir  = "_build/cmake-build"
	DefaultReferenceSourceDir = "../../../.."
)

// ReferenceXMLSubdir is the fixed path from the configure build directory to
// the generated reference XML.
const ReferenceXMLSubdir = "documentation/doxygen/xml"

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// SiteDefaultApplier handles Site configuration defaults.
type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.DocsDir == "" {
		cfg.Site.DocsDir = "source"
	}
	if len(cfg.Site.Extensions) == 0 {
		cfg.Site.Extensions = []string{"reference", "autosectionlabel"}
	}
	if len(cfg.Site.TemplatesPath) == 0 {
		cfg.Site.TemplatesPath = []string{"_templates"}
	}
	if cfg.Site.HTMLTheme == "" {
		cfg.Site.HTMLTheme = "rtd"
	}
	if len(cfg.Site.HTMLStaticPath) == 0 {
		cfg.Site.HTMLStaticPath = []string{"_static"}
	}
	if cfg.Site.ReferenceProjects == nil {
		cfg.Site.ReferenceProjects = map[string]string{}
	}
	if cfg.Site.DefaultProject == "" {
		cfg.Site.DefaultProject = cfg.Project.Name
	}
	return nil
}

// ReferenceDefaultApplier handles reference-extraction defaults.
type ReferenceDefaultApplier struct{}

func (ReferenceDefaultApplier) Domain() string { return "reference" }

func (ReferenceDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Reference.BuildDir == "" {
		cfg.Reference.BuildDir = DefaultReferenceBuildDir
	}
	if cfg.Reference.SourceDir == "" {
		cfg.Reference.SourceDir = DefaultReferenceSourceDir
	}
	return nil
}

// OutputDefaultApplier handles output defaults.
type OutputDefaultApplier struct{}

func (OutputDefaultApplier) Domain() string { return "output" }

func (OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./_build/html"
		cfg.Output.Clean = true
	}
	return nil
}

// LoggingDefaultApplier normalizes logging settings.
type LoggingDefaultApplier struct{}

func (LoggingDefaultApplier) Domain() string { return "logging" }

func (LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = string(NormalizeLogLevel(cfg.Logging.Level))
	cfg.Logging.Format = string(NormalizeLogFormat(cfg.Logging.Format))
	return nil
}

// PreviewDefaultApplier handles preview server defaults.
type PreviewDefaultApplier struct{}

func (PreviewDefaultApplier) Domain() string { return "preview" }

func (PreviewDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Preview == nil {
		return nil
	}
	if cfg.Preview.Port == 0 {
		cfg.Preview.Port = 1808
	}
	return nil
}

// EventsDefaultApplier handles event publishing defaults.
type EventsDefaultApplier struct{}

func (EventsDefaultApplier) Domain() string { return "events" }

func (EventsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Events == nil || !cfg.Events.Enabled {
		return nil
	}
	if cfg.Events.Subject == "" {
		cfg.Events.Subject = "docgen.builds"
	}
	return nil
}

// ApplyDefaults runs all domain appliers in order.
func ApplyDefaults(cfg *Config) error {
	appliers := []DefaultApplier{
		SiteDefaultApplier{},
		ReferenceDefaultApplier{},
		OutputDefaultApplier{},
		LoggingDefaultApplier{},
		PreviewDefaultApplier{},
		EventsDefaultApplier{},
	}
	for _, a := range appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
