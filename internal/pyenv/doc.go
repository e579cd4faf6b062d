// Package pyenv provisions and launches an isolated Python environment.
//
// An Environment is a handle to a virtualenv-style directory tree rooted at a
// configurable path. EnsureReady provisions it on first use (create the
// venv, upgrade pip, install wheel, install the requirements manifest, in
// that order) and is a no-op once the environment is ready. Run executes an
// entry program with the environment's interpreter, inheriting the caller's
// standard streams and working directory. Destroy deletes the whole tree.
//
// # Readiness
//
// A completion stamp is written inside the root only after every
// provisioning step has succeeded. Readiness requires both the interpreter
// binary and the stamp, so an environment left behind by a failed or
// interrupted provisioning attempt is classified as not ready rather than
// silently trusted.
//
// # Concurrency
//
// Provisioning for the same root is serialized across processes with a file
// lock next to the root directory, and deduplicated within a process via
// singleflight. Whichever caller loses the race re-checks readiness under
// the lock and no-ops.
//
// # Basic usage
//
//	env := pyenv.New(pyenv.WithRoot(".venv"))
//	if err := env.EnsureReady(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	code, err := env.Run(ctx, "discogs.py")
package pyenv
