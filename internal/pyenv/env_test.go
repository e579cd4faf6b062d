package pyenv_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"discogsrec/internal/pyenv"
)

// newTestEnv builds an Environment backed by a stub interpreter, returning
// the environment and the stub invocation log path.
func newTestEnv(t *testing.T) (*pyenv.Environment, string) {
	t.Helper()
	dir := t.TempDir()
	logPath := filepath.Join(dir, "calls.log")
	stub := newStubPython(t, logPath)
	env := pyenv.New(
		pyenv.WithRoot(filepath.Join(dir, ".venv")),
		pyenv.WithPython(stub),
		pyenv.WithRequirements(writeRequirements(t, dir)),
		pyenv.WithStdout(io.Discard),
		pyenv.WithStderr(io.Discard),
	)
	return env, logPath
}

func TestEnsureReadyProvisionsInOrder(t *testing.T) {
	t.Parallel()

	env, logPath := newTestEnv(t)
	if env.IsReady() {
		t.Fatal("fresh environment must not report ready")
	}

	if err := env.EnsureReady(context.Background()); err != nil {
		t.Fatalf("EnsureReady: %v", err)
	}

	calls := invocations(t, logPath)
	if len(calls) != 4 {
		t.Fatalf("expected 4 provisioning steps, got %d: %v", len(calls), calls)
	}
	wantPrefixes := []string{
		"-m venv ",
		"-m pip install --upgrade pip",
		"-m pip install wheel",
		"-m pip install -r ",
	}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(calls[i], prefix) {
			t.Errorf("step %d = %q, want prefix %q", i, calls[i], prefix)
		}
	}

	if !env.IsReady() {
		t.Error("environment must report ready after provisioning")
	}
	if !fileExists(env.Interpreter()) {
		t.Errorf("interpreter missing at %s", env.Interpreter())
	}
}

func TestEnsureReadyIsIdempotent(t *testing.T) {
	t.Parallel()

	env, logPath := newTestEnv(t)
	if err := env.EnsureReady(context.Background()); err != nil {
		t.Fatalf("first EnsureReady: %v", err)
	}

	firstCalls := len(invocations(t, logPath))
	before, err := os.Stat(env.Interpreter())
	if err != nil {
		t.Fatal(err)
	}

	if err := env.EnsureReady(context.Background()); err != nil {
		t.Fatalf("second EnsureReady: %v", err)
	}

	if got := len(invocations(t, logPath)); got != firstCalls {
		t.Errorf("second EnsureReady ran installer steps: %d calls, want %d", got, firstCalls)
	}
	after, err := os.Stat(env.Interpreter())
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("interpreter mtime changed by a no-op EnsureReady")
	}
}

func TestEnsureReadyAbortsOnStepFailure(t *testing.T) {
	// Uses t.Setenv, so no t.Parallel.
	t.Setenv("STUB_FAIL_ON", "--upgrade")

	env, logPath := newTestEnv(t)
	err := env.EnsureReady(context.Background())
	if err == nil {
		t.Fatal("EnsureReady should fail when a step fails")
	}
	if !strings.Contains(err.Error(), "upgrade pip") {
		t.Errorf("error %q should name the failing step", err)
	}

	calls := invocations(t, logPath)
	if len(calls) != 2 {
		t.Errorf("steps after the failure must not run, got %d calls: %v", len(calls), calls)
	}
	if env.IsReady() {
		t.Error("a partially provisioned environment must not report ready")
	}
}

func TestInterpreterAloneIsNotReady(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t)
	if err := env.EnsureReady(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Simulate a provisioning run interrupted after venv creation.
	if err := os.Remove(filepath.Join(env.Root(), ".provisioned")); err != nil {
		t.Fatal(err)
	}
	if env.IsReady() {
		t.Error("interpreter without completion stamp must not count as ready")
	}
}

func TestRunPropagatesExitCode(t *testing.T) {
	t.Setenv("STUB_RUN_EXIT", "3")

	env, _ := newTestEnv(t)
	if err := env.EnsureReady(context.Background()); err != nil {
		t.Fatal(err)
	}

	code, err := env.Run(context.Background(), "discogs.py")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
}

func TestRunSuccessReturnsZero(t *testing.T) {
	t.Parallel()

	env, logPath := newTestEnv(t)
	if err := env.EnsureReady(context.Background()); err != nil {
		t.Fatal(err)
	}

	code, err := env.Run(context.Background(), "discogs.py", "--debug")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	calls := invocations(t, logPath)
	last := calls[len(calls)-1]
	if last != "discogs.py --debug" {
		t.Errorf("entry invocation = %q, want %q", last, "discogs.py --debug")
	}
}

func TestRunWithoutEnvironmentIsLaunchFailure(t *testing.T) {
	t.Parallel()

	env := pyenv.New(pyenv.WithRoot(filepath.Join(t.TempDir(), "never-provisioned")))
	_, err := env.Run(context.Background(), "discogs.py")
	if !errors.Is(err, pyenv.ErrLaunch) {
		t.Errorf("Run with missing interpreter: err = %v, want ErrLaunch", err)
	}
}

func TestDestroy(t *testing.T) {
	t.Parallel()

	t.Run("removes provisioned environment", func(t *testing.T) {
		t.Parallel()

		env, _ := newTestEnv(t)
		if err := env.EnsureReady(context.Background()); err != nil {
			t.Fatal(err)
		}
		if err := env.Destroy(); err != nil {
			t.Fatalf("Destroy: %v", err)
		}
		if fileExists(env.Interpreter()) {
			t.Error("interpreter still present after Destroy")
		}
		if env.IsReady() {
			t.Error("destroyed environment must not report ready")
		}
	})

	t.Run("absent environment is a no-op success", func(t *testing.T) {
		t.Parallel()

		env := pyenv.New(pyenv.WithRoot(filepath.Join(t.TempDir(), "absent")))
		if err := env.Destroy(); err != nil {
			t.Fatalf("Destroy on absent environment: %v", err)
		}
	})
}

func TestDestroyThenEnsureReprovisions(t *testing.T) {
	t.Parallel()

	env, logPath := newTestEnv(t)
	if err := env.EnsureReady(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := env.Destroy(); err != nil {
		t.Fatal(err)
	}
	if err := env.EnsureReady(context.Background()); err != nil {
		t.Fatalf("EnsureReady after Destroy: %v", err)
	}
	if got := len(invocations(t, logPath)); got != 8 {
		t.Errorf("expected two full provisioning sequences (8 calls), got %d", got)
	}
}

func TestConcurrentEnsureReadyProvisionsOnce(t *testing.T) {
	t.Parallel()

	env, logPath := newTestEnv(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = env.EnsureReady(context.Background())
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("EnsureReady #%d: %v", i, err)
		}
	}
	if got := len(invocations(t, logPath)); got != 4 {
		t.Errorf("concurrent EnsureReady ran %d steps, want 4", got)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
