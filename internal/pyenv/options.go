package pyenv

import (
	"fmt"
	"io"
	"time"
)

// Default configuration values for New. Exported so callers can build
// custom configurations relative to them.
const (
	// DefaultRootDir is the conventional environment root, relative to the
	// working directory.
	DefaultRootDir = ".venv"

	// DefaultPythonBinary is the base interpreter used to create the
	// environment, located via PATH.
	DefaultPythonBinary = "python3"

	// DefaultRequirementsFile is the dependency manifest passed to pip.
	// Its contents are opaque to this package.
	DefaultRequirementsFile = "requirements.txt"

	// DefaultLockRetryInterval is the polling interval while waiting for
	// the provisioning lock held by another process.
	DefaultLockRetryInterval = 50 * time.Millisecond
)

// envConfig holds the resolved configuration of an Environment.
// All fields are immutable after New returns.
type envConfig struct {
	root         string
	python       string
	requirements string
	stdout       io.Writer
	stderr       io.Writer
	lockRetry    time.Duration
}

// Option configures an Environment during construction via New.
//
// With* functions panic on invalid input (empty paths, non-positive
// durations). Option values are typically compile-time constants or flag
// defaults, so an invalid value is a programmer error rather than a runtime
// condition, in the spirit of [regexp.MustCompile].
type Option func(*envConfig)

// requireNonEmpty panics if s is empty.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("pyenv: %s must not be empty", name))
	}
}

// requirePositive panics if d <= 0.
func requirePositive(name string, d time.Duration) {
	if d <= 0 {
		panic(fmt.Sprintf("pyenv: %s must be greater than 0, got %v", name, d))
	}
}

// WithRoot sets the environment root directory. Relative paths are resolved
// against the working directory at provisioning time.
//
// Default: ".venv". Panics if dir is empty.
func WithRoot(dir string) Option {
	requireNonEmpty("root directory", dir)
	return func(c *envConfig) {
		c.root = dir
	}
}

// WithPython sets the base interpreter used to create the environment.
//
// Default: "python3" from PATH. Panics if binPath is empty.
func WithPython(binPath string) Option {
	requireNonEmpty("python binary path", binPath)
	return func(c *envConfig) {
		c.python = binPath
	}
}

// WithRequirements sets the dependency manifest path passed to
// pip install -r. The file is never parsed by this package.
//
// Default: "requirements.txt". Panics if path is empty.
func WithRequirements(path string) Option {
	requireNonEmpty("requirements path", path)
	return func(c *envConfig) {
		c.requirements = path
	}
}

// WithStdout redirects the standard output of provisioning steps and the
// entry program. Defaults to the process stdout. Panics if w is nil.
func WithStdout(w io.Writer) Option {
	if w == nil {
		panic("pyenv: stdout writer must not be nil")
	}
	return func(c *envConfig) {
		c.stdout = w
	}
}

// WithStderr redirects the standard error of provisioning steps and the
// entry program. Defaults to the process stderr. Panics if w is nil.
func WithStderr(w io.Writer) Option {
	if w == nil {
		panic("pyenv: stderr writer must not be nil")
	}
	return func(c *envConfig) {
		c.stderr = w
	}
}

// WithLockRetryInterval sets the polling interval used while waiting for
// the cross-process provisioning lock.
//
// Default: 50ms. Panics if d <= 0.
func WithLockRetryInterval(d time.Duration) Option {
	requirePositive("lock retry interval", d)
	return func(c *envConfig) {
		c.lockRetry = d
	}
}
