package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySlug       = "slug"
	KeyURL        = "url"
	KeyPath       = "path"
	KeyStage      = "stage"
	KeyComponent  = "component"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyBuildID    = "build_id"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Component(n string) slog.Attr    { return slog.String(KeyComponent, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
