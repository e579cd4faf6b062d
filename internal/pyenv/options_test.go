package pyenv_test

import (
	"io"
	"testing"
	"time"

	"discogsrec/internal/pyenv"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := pyenv.SnapshotForTesting()

	if cfg.Root != pyenv.DefaultRootDir {
		t.Errorf("Root = %q, want %q", cfg.Root, pyenv.DefaultRootDir)
	}
	if cfg.Python != pyenv.DefaultPythonBinary {
		t.Errorf("Python = %q, want %q", cfg.Python, pyenv.DefaultPythonBinary)
	}
	if cfg.Requirements != pyenv.DefaultRequirementsFile {
		t.Errorf("Requirements = %q, want %q", cfg.Requirements, pyenv.DefaultRequirementsFile)
	}
	if cfg.LockRetry != pyenv.DefaultLockRetryInterval {
		t.Errorf("LockRetry = %v, want %v", cfg.LockRetry, pyenv.DefaultLockRetryInterval)
	}
}

func TestOptionsOverrideDefaults(t *testing.T) {
	t.Parallel()

	cfg := pyenv.SnapshotForTesting(
		pyenv.WithRoot("/srv/app/.venv"),
		pyenv.WithPython("/usr/local/bin/python3.12"),
		pyenv.WithRequirements("deps/requirements.txt"),
		pyenv.WithLockRetryInterval(200*time.Millisecond),
	)

	if cfg.Root != "/srv/app/.venv" {
		t.Errorf("Root = %q", cfg.Root)
	}
	if cfg.Python != "/usr/local/bin/python3.12" {
		t.Errorf("Python = %q", cfg.Python)
	}
	if cfg.Requirements != "deps/requirements.txt" {
		t.Errorf("Requirements = %q", cfg.Requirements)
	}
	if cfg.LockRetry != 200*time.Millisecond {
		t.Errorf("LockRetry = %v", cfg.LockRetry)
	}
}

func TestOptionsPanicOnInvalidInput(t *testing.T) {
	t.Parallel()

	tests := map[string]func(){
		"empty root":             func() { pyenv.WithRoot("") },
		"empty python":           func() { pyenv.WithPython("") },
		"empty requirements":     func() { pyenv.WithRequirements("") },
		"nil stdout":             func() { pyenv.WithStdout(nil) },
		"nil stderr":             func() { pyenv.WithStderr(nil) },
		"zero lock interval":     func() { pyenv.WithLockRetryInterval(0) },
		"negative lock interval": func() { pyenv.WithLockRetryInterval(-time.Second) },
	}

	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			fn()
		})
	}
}

func TestWriterOptionsAcceptNonNil(t *testing.T) {
	t.Parallel()

	// Valid writers must not panic.
	pyenv.SnapshotForTesting(
		pyenv.WithStdout(io.Discard),
		pyenv.WithStderr(io.Discard),
	)
}
