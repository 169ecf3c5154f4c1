// In file: internal/tools/search_tools.go
package tools

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	DefaultMaxSearchMatches = 500
	maxSearchFileBytes      = 1 << 20
)

var errSearchLimit = errors.New("search match limit reached")

// --- glob ---

// GlobTool finds files under the workspace matching a doublestar pattern.
type GlobTool struct{}

func (GlobTool) Definition() Tool {
	return NewTool(
		"glob",
		"Find files matching a pattern",
		map[string]*JSONSchema{
			"pattern": {Type: "string", Description: "Glob pattern"},
		},
		"pattern",
	)
}

func (GlobTool) Execute(ctx context.Context, call Call) (map[string]any, error) {
	pattern, err := requiredString(call.Arguments, "pattern")
	if err != nil {
		return nil, err
	}
	root := workspaceRoot(call.Workspace)
	rel, err := relativePattern(root, pattern)
	if err != nil {
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(root), rel, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob: %w", err)
	}
	sort.Strings(matches)
	for i, m := range matches {
		matches[i] = filepath.FromSlash(m)
	}
	return map[string]any{"pattern": pattern, "matches": matches}, nil
}

// relativePattern turns a user pattern into one rooted at the workspace, in the
// slash-separated form io/fs expects.
func relativePattern(root, pattern string) (string, error) {
	if filepath.IsAbs(pattern) {
		rel, err := filepath.Rel(root, pattern)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", &pathError{path: pattern, root: root}
		}
		pattern = rel
	}
	pattern = filepath.ToSlash(pattern)
	pattern = strings.TrimPrefix(pattern, "./")
	if strings.HasPrefix(pattern, "../") || pattern == ".." {
		return "", &pathError{path: pattern, root: root}
	}
	if !doublestar.ValidatePattern(pattern) {
		return "", invalidArgument("malformed glob pattern %q", pattern)
	}
	return pattern, nil
}

// --- search_file_content ---

// SearchTool searches file contents for a regular expression.
type SearchTool struct {
	maxMatches int
}

var _ ToolExecutor = (*SearchTool)(nil)

// NewSearchTool creates the search_file_content tool; maxMatches <= 0 selects the default.
func NewSearchTool(maxMatches int) *SearchTool {
	if maxMatches <= 0 {
		maxMatches = DefaultMaxSearchMatches
	}
	return &SearchTool{maxMatches: maxMatches}
}

func (st *SearchTool) Definition() Tool {
	return NewTool(
		"search_file_content",
		"Search for patterns in files",
		map[string]*JSONSchema{
			"pattern": {Type: "string", Description: "Search pattern"},
			"path":    {Type: "string", Description: "Optional search path"},
			"include": {Type: "string", Description: "Optional glob pattern to filter files"},
		},
		"pattern",
	)
}

func (st *SearchTool) Execute(ctx context.Context, call Call) (map[string]any, error) {
	pattern, err := requiredString(call.Arguments, "pattern")
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, invalidArgument("invalid search pattern: %v", err)
	}

	root := workspaceRoot(call.Workspace)
	searchRoot := root
	if p := optionalString(call.Arguments, "path"); strings.TrimSpace(p) != "" {
		if searchRoot, err = resolvePath(call.Workspace, p); err != nil {
			return nil, err
		}
	}
	include := optionalString(call.Arguments, "include")
	if strings.TrimSpace(include) == "" {
		include = "**/*"
	}
	if !doublestar.ValidatePattern(include) {
		return nil, invalidArgument("malformed include pattern %q", include)
	}

	matches := make([]map[string]any, 0)
	truncated := false
	walkErr := doublestar.GlobWalk(os.DirFS(searchRoot), include, func(path string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		full := filepath.Join(searchRoot, filepath.FromSlash(path))
		reported, relErr := filepath.Rel(root, full)
		if relErr != nil {
			reported = full
		}
		found, err := searchFile(full, re, st.maxMatches-len(matches))
		if err != nil {
			return nil // unreadable files are skipped
		}
		for _, m := range found {
			m["file"] = reported
			matches = append(matches, m)
		}
		if len(matches) >= st.maxMatches {
			truncated = true
			return errSearchLimit
		}
		return nil
	}, doublestar.WithFilesOnly())
	if walkErr != nil && !errors.Is(walkErr, errSearchLimit) {
		return nil, fmt.Errorf("search: %w", walkErr)
	}

	payload := map[string]any{"pattern": pattern, "matches": matches}
	if truncated {
		payload["truncated"] = true
	}
	return payload, nil
}

// searchFile returns up to limit matching lines of a text file.
func searchFile(path string, re *regexp.Regexp, limit int) ([]map[string]any, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxSearchFileBytes {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, nil
	}

	var found []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxSearchFileBytes)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if !re.MatchString(text) {
			continue
		}
		found = append(found, map[string]any{"line": line, "text": text})
		if len(found) >= limit {
			break
		}
	}
	return found, scanner.Err()
}
