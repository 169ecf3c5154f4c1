// In file: internal/tools/errors.go
package tools

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrInvalidArgument marks a call whose arguments can never succeed as given.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutsideWorkspace marks a path that resolves outside the call's workspace.
	ErrOutsideWorkspace = errors.New("path is outside the workspace")
)

// ExitError reports a shell command that ran to completion with a non-zero status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// IsPermanent reports whether retrying the same call cannot change its outcome.
// Bad arguments, confinement violations, missing files and failed commands are
// permanent; anything else (I/O hiccups, cancelled contexts excluded) is transient.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	var exitErr *ExitError
	switch {
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrOutsideWorkspace),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.As(err, &exitErr):
		return true
	}
	return false
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
