// In file: internal/tools/executor.go
package tools

import "context"

// Call carries everything a tool needs for one run.
type Call struct {
	// Workspace is the directory the tool operates in. Relative paths in the
	// arguments are resolved against it and may not escape it. An empty workspace
	// means the process working directory, without confinement.
	Workspace string
	// Arguments are the decoded tool arguments. Never nil.
	Arguments map[string]any
}

// ToolExecutor is the contract every locally implemented tool satisfies.
//
// Definition feeds the registry, and therefore the list-tools response; Execute
// performs the action and returns a JSON-serializable payload. A payload may be
// returned together with an error (for instance the output of a failed shell
// command), in which case both are reported to the caller.
type ToolExecutor interface {
	Definition() Tool
	Execute(ctx context.Context, call Call) (map[string]any, error)
}
