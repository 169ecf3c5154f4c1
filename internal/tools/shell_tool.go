// In file: internal/tools/shell_tool.go
package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
	"unicode/utf8"
)

const (
	DefaultShellTimeout   = 120 * time.Second
	DefaultMaxOutputBytes = 64 * 1024
)

// ShellTool runs a command through `sh -c` inside the workspace.
type ShellTool struct {
	timeout        time.Duration
	maxOutputBytes int
}

var _ ToolExecutor = (*ShellTool)(nil)

// NewShellTool creates the run_shell_command tool. Zero values select the defaults.
func NewShellTool(timeout time.Duration, maxOutputBytes int) *ShellTool {
	if timeout <= 0 {
		timeout = DefaultShellTimeout
	}
	if maxOutputBytes <= 0 {
		maxOutputBytes = DefaultMaxOutputBytes
	}
	return &ShellTool{timeout: timeout, maxOutputBytes: maxOutputBytes}
}

func (st *ShellTool) Definition() Tool {
	return NewTool(
		"run_shell_command",
		"Executes a shell command within a secure, sandboxed environment",
		map[string]*JSONSchema{
			"command": {Type: "string", Description: "The shell command to execute"},
		},
		"command",
	)
}

// Execute runs the command and reports stdout, stderr and the exit code. A non-zero
// exit is returned as an *ExitError together with the captured output.
func (st *ShellTool) Execute(ctx context.Context, call Call) (map[string]any, error) {
	command, err := requiredString(call.Arguments, "command")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, st.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = workspaceRoot(call.Workspace)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	payload := map[string]any{
		"command":   command,
		"stdout":    st.truncate(stdout.String()),
		"stderr":    st.truncate(stderr.String()),
		"exit_code": 0,
	}
	if runErr == nil {
		return payload, nil
	}

	if ctx.Err() != nil {
		payload["exit_code"] = -1
		return payload, fmt.Errorf("command timed out or was cancelled: %w", ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		payload["exit_code"] = exitErr.ExitCode()
		return payload, &ExitError{Code: exitErr.ExitCode()}
	}
	return nil, fmt.Errorf("failed to start command: %w", runErr)
}

func (st *ShellTool) truncate(s string) string {
	if len(s) <= st.maxOutputBytes {
		return s
	}
	// Never cut through a multi-byte character.
	n := st.maxOutputBytes
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "\n... (output truncated)"
}
