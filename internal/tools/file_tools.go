// In file: internal/tools/file_tools.go
package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// --- write_file ---

// WriteFileTool writes content to a file, creating parent directories as needed.
type WriteFileTool struct{}

func (WriteFileTool) Definition() Tool {
	return NewTool(
		"write_file",
		"Writes content to a file",
		map[string]*JSONSchema{
			"file_path": {Type: "string", Description: "Path to the file"},
			"content":   {Type: "string", Description: "Content to write"},
		},
		"file_path", "content",
	)
}

func (WriteFileTool) Execute(ctx context.Context, call Call) (map[string]any, error) {
	path, err := requiredString(call.Arguments, "file_path")
	if err != nil {
		return nil, err
	}
	if _, ok := call.Arguments["content"]; !ok {
		return nil, invalidArgument("missing argument: content")
	}
	content := optionalString(call.Arguments, "content")

	resolved, err := resolvePath(call.Workspace, path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}
	return map[string]any{"file_path": resolved, "bytes_written": len(content)}, nil
}

// --- read_file ---

// ReadFileTool returns the content of a file.
type ReadFileTool struct{}

func (ReadFileTool) Definition() Tool {
	return NewTool(
		"read_file",
		"Reads content from a file",
		map[string]*JSONSchema{
			"file_path": {Type: "string", Description: "Path to the file"},
		},
		"file_path",
	)
}

func (ReadFileTool) Execute(ctx context.Context, call Call) (map[string]any, error) {
	path, err := requiredString(call.Arguments, "file_path")
	if err != nil {
		return nil, err
	}
	resolved, err := resolvePath(call.Workspace, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return map[string]any{"file_path": resolved, "content": string(data)}, nil
}

// --- replace ---

// ReplaceTool substitutes text in a file, checking the number of occurrences first so
// that an ambiguous edit is rejected rather than applied partially.
type ReplaceTool struct{}

func (ReplaceTool) Definition() Tool {
	return NewTool(
		"replace",
		"Replaces text in a file",
		map[string]*JSONSchema{
			"file_path":             {Type: "string", Description: "Path to the file"},
			"old_string":            {Type: "string", Description: "Text to replace"},
			"new_string":            {Type: "string", Description: "Replacement text"},
			"expected_replacements": {Type: "integer", Description: "Number of replacements expected. Defaults to 1."},
		},
		"file_path", "old_string", "new_string",
	)
}

func (ReplaceTool) Execute(ctx context.Context, call Call) (map[string]any, error) {
	path, err := requiredString(call.Arguments, "file_path")
	if err != nil {
		return nil, err
	}
	oldString := optionalString(call.Arguments, "old_string")
	if oldString == "" {
		return nil, invalidArgument("missing argument: old_string")
	}
	if _, ok := call.Arguments["new_string"]; !ok {
		return nil, invalidArgument("missing argument: new_string")
	}
	newString := optionalString(call.Arguments, "new_string")
	expected, err := optionalInt(call.Arguments, "expected_replacements", 1)
	if err != nil {
		return nil, err
	}
	if expected < 1 {
		return nil, invalidArgument("expected_replacements must be at least 1")
	}

	resolved, err := resolvePath(call.Workspace, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	content := string(data)
	found := strings.Count(content, oldString)
	if found != expected {
		return map[string]any{"file_path": resolved, "occurrences": found},
			invalidArgument("expected %d occurrence(s) of old_string, found %d", expected, found)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	updated := strings.ReplaceAll(content, oldString, newString)
	if err := os.WriteFile(resolved, []byte(updated), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}
	return map[string]any{"file_path": resolved, "replacements": found}, nil
}

// --- list_directory ---

// ListDirectoryTool lists the entries of a directory.
type ListDirectoryTool struct{}

func (ListDirectoryTool) Definition() Tool {
	return NewTool(
		"list_directory",
		"Lists directory contents",
		map[string]*JSONSchema{
			"path": {Type: "string", Description: "Directory path"},
		},
		"path",
	)
}

func (ListDirectoryTool) Execute(ctx context.Context, call Call) (map[string]any, error) {
	path := optionalString(call.Arguments, "path")
	if strings.TrimSpace(path) == "" {
		path = "."
	}
	resolved, err := resolvePath(call.Workspace, path)
	if err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(resolved)
	if err != nil {
		return nil, fmt.Errorf("list directory: %w", err)
	}

	entries := make([]map[string]any, 0, len(dirEntries))
	for _, e := range dirEntries {
		entry := map[string]any{"name": e.Name(), "type": "file"}
		if e.IsDir() {
			entry["type"] = "directory"
		} else if info, err := e.Info(); err == nil {
			entry["size"] = info.Size()
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i]["name"].(string) < entries[j]["name"].(string)
	})
	return map[string]any{"path": resolved, "entries": entries}, nil
}

var (
	_ ToolExecutor = WriteFileTool{}
	_ ToolExecutor = ReadFileTool{}
	_ ToolExecutor = ReplaceTool{}
	_ ToolExecutor = ListDirectoryTool{}
)
