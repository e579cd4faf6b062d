package pyenv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"discogsrec/internal/fileutil"
	"discogsrec/internal/sentinel"

	"golang.org/x/sync/singleflight"
)

// stampName is the completion marker written inside the root after the
// final provisioning step succeeds. Its presence distinguishes a fully
// provisioned environment from the leftovers of an aborted attempt.
const stampName = ".provisioned"

// ErrLaunch wraps failures to start the entry program at all, as opposed to
// the program starting and exiting non-zero, which Run reports through the
// exit code instead.
const ErrLaunch = sentinel.Error("entry program could not be started")

// Environment is a handle to an isolated Python environment rooted at a
// fixed directory. The zero value is not usable; construct with New.
//
// Environment is safe for concurrent use. Provisioning is deduplicated
// in-process and serialized across processes; see EnsureReady.
type Environment struct {
	cfg   envConfig
	group singleflight.Group
}

// New creates an Environment handle. No filesystem I/O happens here; the
// environment is provisioned lazily by EnsureReady.
//
// Panics if any option receives an invalid value. See the With* functions
// for constraints.
func New(opts ...Option) *Environment {
	cfg := envConfig{
		root:         DefaultRootDir,
		python:       DefaultPythonBinary,
		requirements: DefaultRequirementsFile,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		lockRetry:    DefaultLockRetryInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Environment{cfg: cfg}
}

// Root returns the environment root directory as configured.
func (e *Environment) Root() string {
	return e.cfg.root
}

// Interpreter returns the path of the environment's interpreter binary.
// The binary exists only once the environment has been provisioned.
func (e *Environment) Interpreter() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.cfg.root, "Scripts", "python.exe")
	}
	return filepath.Join(e.cfg.root, "bin", "python")
}

// stampPath returns the path of the completion stamp.
func (e *Environment) stampPath() string {
	return filepath.Join(e.cfg.root, stampName)
}

// IsReady reports whether the environment is fully provisioned: the
// interpreter binary exists and the completion stamp was written. An
// interpreter without a stamp means provisioning was interrupted, and the
// environment is treated as not ready.
func (e *Environment) IsReady() bool {
	return fileutil.FileExists(e.Interpreter()) && fileutil.FileExists(e.stampPath())
}

// EnsureReady provisions the environment if it is not ready, and is a
// side-effect-free no-op otherwise. Provisioning runs, strictly in order:
//
//  1. create the venv with the base interpreter
//  2. upgrade pip inside the environment
//  3. install wheel
//  4. install the requirements manifest
//
// and finally writes the completion stamp. Any step failing aborts the
// sequence with the step's error; the partial tree is left in place and a
// later EnsureReady (or Destroy followed by EnsureReady) starts over.
//
// Concurrent calls for the same root are collapsed to one provisioning run
// in-process and serialized across processes via a file lock placed next to
// the root directory.
func (e *Environment) EnsureReady(ctx context.Context) error {
	if e.IsReady() {
		Logger().Debug("environment ready, skipping provisioning", "root", e.cfg.root)
		return nil
	}

	_, err, _ := e.group.Do(e.cfg.root, func() (any, error) {
		return nil, e.provision(ctx)
	})
	return err
}

// Run executes the entry program with the environment's interpreter,
// inheriting the caller's standard input and working directory. Stdout and
// stderr go to the configured writers (the process streams by default).
//
// The returned code is the entry program's exit code, propagated verbatim.
// A non-zero exit is not an error; err is non-nil only when the program
// could not be started or was interrupted by the context, in which case it
// wraps ErrLaunch or the context error.
func (e *Environment) Run(ctx context.Context, entry string, args ...string) (int, error) {
	argv := append([]string{entry}, args...)
	cmd := exec.CommandContext(ctx, e.Interpreter(), argv...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = e.cfg.stdout
	cmd.Stderr = e.cfg.stderr

	Logger().Debug("launching entry program", "interpreter", e.Interpreter(), "entry", entry)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		if ctx.Err() != nil {
			return exitErr.ExitCode(), ctx.Err()
		}
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("%w: %s: %v", ErrLaunch, entry, err)
}

// Destroy deletes the environment root recursively. Destroying an
// environment that does not exist is a no-op success. The provisioning lock
// file next to the root is intentionally left on disk; removing it could
// invalidate a lock concurrently held by another process.
func (e *Environment) Destroy() error {
	Logger().Info("destroying environment", "root", e.cfg.root)
	return fileutil.RemoveTree(e.cfg.root)
}
