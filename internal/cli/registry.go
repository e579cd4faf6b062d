package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"discogsrec/internal/registry"
)

// registryPath returns the per-user environments database location.
func registryPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "discogsrec", "envs.db"), nil
}

// withRegistry opens the registry, runs fn, and closes it. Registry
// bookkeeping is best-effort: failures are logged at debug level and never
// fail the surrounding command.
func withRegistry(ctx context.Context, fn func(ctx context.Context, r *registry.Registry, root string) error, root string) {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	path, err := registryPath()
	if err != nil {
		slog.Debug("registry unavailable", "err", err)
		return
	}
	r, err := registry.Open(path)
	if err != nil {
		slog.Debug("registry unavailable", "path", path, "err", err)
		return
	}
	defer r.Close() //nolint:errcheck // best-effort bookkeeping

	if err := fn(ctx, r, abs); err != nil {
		slog.Debug("registry update failed", "root", abs, "err", err)
	}
}

// recordEnvironment notes that root is provisioned and in use.
func recordEnvironment(ctx context.Context, root string) {
	withRegistry(ctx, func(ctx context.Context, r *registry.Registry, abs string) error {
		return r.Record(ctx, abs)
	}, root)
}

// forgetEnvironment drops root from the registry after a clean.
func forgetEnvironment(ctx context.Context, root string) {
	withRegistry(ctx, func(ctx context.Context, r *registry.Registry, abs string) error {
		return r.Remove(ctx, abs)
	}, root)
}
