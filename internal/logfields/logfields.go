package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyMode       = "mode"
	KeyRoot       = "root"
	KeyDirectory  = "directory"
	KeyKind       = "kind"
	KeyMarker     = "marker"
	KeyCommit     = "commit"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyStatus     = "status"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Mode(m string) slog.Attr         { return slog.String(KeyMode, m) }
func Root(p string) slog.Attr         { return slog.String(KeyRoot, p) }
func Directory(p string) slog.Attr    { return slog.String(KeyDirectory, p) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Marker(name string) slog.Attr    { return slog.String(KeyMarker, name) }
func Commit(hash string) slog.Attr    { return slog.String(KeyCommit, hash) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Duration converts d into the canonical millisecond field.
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d) / float64(time.Millisecond))
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
