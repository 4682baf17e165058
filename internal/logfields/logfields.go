package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyCollection = "collection"
	KeyPath       = "path"
	KeyStage      = "stage"
	KeyField      = "field"
	KeyUsername   = "username"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyOutput     = "output"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr        { return slog.String(KeyBuildID, id) }
func Collection(name string) slog.Attr   { return slog.String(KeyCollection, name) }
func Path(p string) slog.Attr            { return slog.String(KeyPath, p) }
func Stage(name string) slog.Attr        { return slog.String(KeyStage, name) }
func Field(name string) slog.Attr        { return slog.String(KeyField, name) }
func Username(u string) slog.Attr        { return slog.String(KeyUsername, u) }
func Count(n int) slog.Attr              { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr    { return slog.Float64(KeyDurationMS, ms) }
func Output(dir string) slog.Attr        { return slog.String(KeyOutput, dir) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
