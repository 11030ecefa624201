package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyProject    = "project"
	KeyRelease    = "release"
	KeyPath       = "path"
	KeyDir        = "dir"
	KeyURL        = "url"
	KeyPort       = "port"
	KeyDurationMS = "duration_ms"
	KeyEvent      = "event"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Project(name string) slog.Attr    { return slog.String(KeyProject, name) }
func Release(rel string) slog.Attr     { return slog.String(KeyRelease, rel) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Dir(d string) slog.Attr           { return slog.String(KeyDir, d) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Port(p int) slog.Attr             { return slog.Int(KeyPort, p) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Event(name string) slog.Attr      { return slog.String(KeyEvent, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
