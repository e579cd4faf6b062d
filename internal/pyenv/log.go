package pyenv

import (
	"log/slog"
	"sync/atomic"
)

// logger holds the package-level logger. A nil pointer means no custom
// logger is set and Logger falls back to slog.Default with a component
// attribute. Stored atomically so SetLogger is safe alongside provisioning.
var logger atomic.Pointer[slog.Logger]

// Logger returns the package-level logger used for provisioning messages.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default().With("component", "pyenv")
}

// SetLogger replaces the package-level logger. Pass nil to restore the
// default derived from slog.Default().
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}
