// In file: internal/tools/args.go
package tools

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// requiredString returns a non-blank string argument or an ErrInvalidArgument.
func requiredString(args map[string]any, key string) (string, error) {
	value := optionalString(args, key)
	if strings.TrimSpace(value) == "" {
		return "", invalidArgument("missing argument: %s", key)
	}
	return value, nil
}

// optionalString returns the argument as a string. Non-string values are rendered
// as JSON so that, e.g., a numeric file content is written verbatim.
func optionalString(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// optionalInt reads an integer argument, accepting JSON numbers and numeric strings.
func optionalInt(args map[string]any, key string, fallback int) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback, nil
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, invalidArgument("%s must be an integer", key)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, invalidArgument("%s must be an integer", key)
		}
		return int(i), nil
	case string:
		var i int
		if err := json.Unmarshal([]byte(n), &i); err != nil {
			return 0, invalidArgument("%s must be an integer", key)
		}
		return i, nil
	}
	return 0, invalidArgument("%s must be an integer", key)
}

// resolvePath resolves path against the workspace and rejects traversal out of it.
func resolvePath(workspace, path string) (string, error) {
	path = strings.TrimSpace(path)
	if !filepath.IsAbs(path) && workspace != "" {
		path = filepath.Join(workspace, path)
	}
	resolved, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", invalidArgument("resolve path %q: %v", path, err)
	}
	if workspace == "" {
		return resolved, nil
	}
	root, err := filepath.Abs(workspace)
	if err != nil {
		return "", invalidArgument("resolve workspace %q: %v", workspace, err)
	}
	if !within(resolved, root) {
		return "", &pathError{path: resolved, root: root}
	}

	// Symlinks are followed so that a link inside the workspace cannot reach outside it.
	realRoot, err := evalExisting(root)
	if err != nil {
		return "", invalidArgument("resolve workspace %q: %v", workspace, err)
	}
	realPath, err := evalExisting(resolved)
	if err != nil || !within(realPath, realRoot) {
		return "", &pathError{path: resolved, root: root}
	}
	return resolved, nil
}

func within(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+string(os.PathSeparator))
}

// evalExisting resolves symlinks in the longest existing prefix of path and appends
// the part that does not exist yet. An existing entry that cannot be resolved, such
// as a dangling link, is an error.
func evalExisting(path string) (string, error) {
	var missing []string
	current := path
	for {
		real, err := filepath.EvalSymlinks(current)
		if err == nil {
			return filepath.Join(append([]string{real}, missing...)...), nil
		}
		if _, lerr := os.Lstat(current); lerr == nil {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return path, nil
		}
		missing = append([]string{filepath.Base(current)}, missing...)
		current = parent
	}
}

type pathError struct {
	path, root string
}

func (e *pathError) Error() string {
	return "path " + e.path + " is outside workspace " + e.root
}

func (e *pathError) Unwrap() error { return ErrOutsideWorkspace }

// workspaceRoot is the directory relative results are reported against.
func workspaceRoot(workspace string) string {
	if workspace == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
		return "."
	}
	if abs, err := filepath.Abs(workspace); err == nil {
		return abs
	}
	return workspace
}
