package pyenv

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"discogsrec/internal/fileutil"

	"github.com/gofrs/flock"
)

// lockPath returns the provisioning lock file path. The lock lives next to
// the root rather than inside it so Destroy cannot delete a held lock.
func (e *Environment) lockPath() string {
	return e.cfg.root + ".lock"
}

// provision runs the full installation sequence under the cross-process
// lock. It re-checks readiness after acquiring the lock, since another
// process may have finished provisioning while this one waited.
func (e *Environment) provision(ctx context.Context) error {
	if err := fileutil.EnsureDirForFile(e.lockPath()); err != nil {
		return err
	}

	fl, err := acquireLock(ctx, e.lockPath(), e.cfg.lockRetry)
	if err != nil {
		return err
	}
	defer releaseLock(Logger(), fl)

	if e.IsReady() {
		Logger().Debug("environment provisioned by concurrent caller", "root", e.cfg.root)
		return nil
	}

	log := Logger().With("root", e.cfg.root)
	log.Info("provisioning environment", "python", e.cfg.python, "requirements", e.cfg.requirements)

	python := e.Interpreter()
	steps := []struct {
		name string
		bin  string
		args []string
	}{
		{"create venv", e.cfg.python, []string{"-m", "venv", e.cfg.root}},
		{"upgrade pip", python, []string{"-m", "pip", "install", "--upgrade", "pip"}},
		{"install wheel", python, []string{"-m", "pip", "install", "wheel"}},
		{"install requirements", python, []string{"-m", "pip", "install", "-r", e.cfg.requirements}},
	}

	for _, step := range steps {
		log.Info("provisioning step", "step", step.name)
		if err := e.runStep(ctx, step.bin, step.args); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	if err := e.writeStamp(); err != nil {
		return err
	}

	log.Info("environment provisioned")
	return nil
}

// runStep executes one provisioning command, streaming its output to the
// configured writers so the underlying tool's own messages surface
// unchanged.
func (e *Environment) runStep(ctx context.Context, bin string, args []string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = e.cfg.stdout
	cmd.Stderr = e.cfg.stderr
	return cmd.Run()
}

// writeStamp records provisioning completion. The stamp content is the
// completion time, for humans poking at the directory; only the file's
// existence matters to IsReady.
func (e *Environment) writeStamp() error {
	content := time.Now().UTC().Format(time.RFC3339) + "\n"
	if err := os.WriteFile(e.stampPath(), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write completion stamp: %w", err)
	}
	return nil
}

// acquireLock takes an exclusive lock on lockPath, polling at the given
// interval and honoring context cancellation.
func acquireLock(ctx context.Context, lockPath string, retry time.Duration) (*flock.Flock, error) {
	fl := flock.New(lockPath)

	locked, err := fl.TryLockContext(ctx, retry)
	if err != nil {
		return nil, fmt.Errorf("acquire provisioning lock %s: %w", lockPath, err)
	}
	if !locked {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquire provisioning lock %s: %w", lockPath, ctx.Err())
		}
		return nil, fmt.Errorf("acquire provisioning lock %s: lock not acquired", lockPath)
	}
	return fl, nil
}

// releaseLock unlocks and closes the lock. The lock file stays on disk;
// deleting it would race with another process acquiring the same path.
// Best-effort cleanup, so errors are only logged.
func releaseLock(log *slog.Logger, fl *flock.Flock) {
	if fl == nil {
		return
	}
	if err := fl.Close(); err != nil {
		log.Debug("release provisioning lock", "path", fl.Path(), "err", err)
	}
}
