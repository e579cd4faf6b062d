package pyenv_test

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// newStubPython writes an executable shell script that stands in for the
// base interpreter. Every invocation is appended to logPath. The script
// understands the two verbs the provisioner uses:
//
//   - "-m venv <dir>" copies itself to <dir>/bin/python so the environment
//     interpreter exists afterwards, like a real venv creation.
//   - anything else exits 0.
//
// Behavior is steered through environment variables:
//
//	STUB_FAIL_ON   substring; any invocation containing it exits STUB_EXIT (default 7)
//	STUB_RUN_EXIT  exit code for non "-m" invocations (entry program runs)
func newStubPython(t *testing.T, logPath string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub interpreter requires /bin/sh")
	}

	script := fmt.Sprintf(`#!/bin/sh
echo "$@" >> %q
if [ -n "$STUB_FAIL_ON" ]; then
	case "$*" in
	*"$STUB_FAIL_ON"*) exit "${STUB_EXIT:-7}" ;;
	esac
fi
if [ "$1" = "-m" ] && [ "$2" = "venv" ]; then
	mkdir -p "$3/bin"
	cp "$0" "$3/bin/python"
	exit 0
fi
if [ "$1" != "-m" ] && [ -n "$STUB_RUN_EXIT" ]; then
	exit "$STUB_RUN_EXIT"
fi
exit 0
`, logPath)

	bin := filepath.Join(t.TempDir(), "python3")
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub interpreter: %v", err)
	}
	return bin
}

// invocations returns the logged stub invocations, one per line.
func invocations(t *testing.T, logPath string) []string {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read invocation log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}

// writeRequirements creates an opaque manifest file and returns its path.
func writeRequirements(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(path, []byte("flask\nrequests\n"), 0o644); err != nil {
		t.Fatalf("write requirements: %v", err)
	}
	return path
}
