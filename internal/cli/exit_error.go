package cli

import "fmt"

// ExitError carries a child process exit code through the cobra error path
// so Execute can terminate with the same status instead of a generic 1.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
