package pyenv

import "time"

// ConfigSnapshot copies envConfig fields for test assertions. Exported only
// to the _test package so option closures can be verified without reaching
// into internals from production code.
type ConfigSnapshot struct {
	Root         string
	Python       string
	Requirements string
	LockRetry    time.Duration
}

// SnapshotForTesting applies opts on top of the defaults and returns the
// resulting configuration.
func SnapshotForTesting(opts ...Option) ConfigSnapshot {
	e := New(opts...)
	return ConfigSnapshot{
		Root:         e.cfg.root,
		Python:       e.cfg.python,
		Requirements: e.cfg.requirements,
		LockRetry:    e.cfg.lockRetry,
	}
}
