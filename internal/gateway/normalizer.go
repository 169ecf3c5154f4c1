// In file: internal/gateway/normalizer.go
package gateway

import (
	"errors"
	"strings"

	"github.com/dileep-u-k/tool-gateway/internal/executor"
)

// MissingToolNameMessage is the text clients receive when no tool name was found.
const MissingToolNameMessage = "Missing tool name in request"

// ErrMissingToolName is returned by Normalize when no candidate field carries a tool
// name. It is a protocol outcome, rendered as an error envelope, not a fault.
var ErrMissingToolName = errors.New(MissingToolNameMessage)

// Invocation is the canonical form of a tool call, whatever dialect it arrived in.
type Invocation struct {
	ToolName  string
	Arguments map[string]any
}

// NewInvocation validates the tool name and defaults the arguments to an empty map.
func NewInvocation(toolName string, arguments map[string]any) (Invocation, error) {
	if toolName == "" {
		return Invocation{}, ErrMissingToolName
	}
	if arguments == nil {
		arguments = map[string]any{}
	}
	return Invocation{ToolName: toolName, Arguments: arguments}, nil
}

// rule extracts a value from a raw request, reporting whether it found one.
type rule[T any] func(raw map[string]any) (T, bool)

// firstMatch applies rules left to right and returns the first value found.
func firstMatch[T any](raw map[string]any, rules []rule[T]) (T, bool) {
	for _, r := range rules {
		if v, ok := r(raw); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// lookup walks a path of object keys, e.g. lookup(raw, "function", "name").
func lookup(raw map[string]any, path ...string) (any, bool) {
	var current any = raw
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = obj[key]; !ok {
			return nil, false
		}
	}
	return current, true
}

// nameAt matches a non-blank string at path.
func nameAt(path ...string) rule[string] {
	return func(raw map[string]any) (string, bool) {
		v, _ := lookup(raw, path...)
		s, ok := v.(string)
		s = strings.TrimSpace(s)
		return s, ok && s != ""
	}
}

// argumentsAt matches a non-empty object at path. A string holding a JSON object is
// accepted too, which is how OpenAI-style clients send function.arguments.
func argumentsAt(path ...string) rule[map[string]any] {
	return func(raw map[string]any) (map[string]any, bool) {
		v, _ := lookup(raw, path...)
		switch args := v.(type) {
		case map[string]any:
			return args, len(args) > 0
		case string:
			var decoded map[string]any
			if err := executor.DecodeJSON([]byte(args), &decoded); err != nil {
				return nil, false
			}
			return decoded, len(decoded) > 0
		}
		return nil, false
	}
}

var toolNameRules = []rule[string]{
	nameAt("name"),
	nameAt("tool"),
	nameAt("tool_name"),
	nameAt("toolName"),
	nameAt("function", "name"),
	nameAt("tool", "name"),
}

var argumentRules = []rule[map[string]any]{
	argumentsAt("arguments"),
	argumentsAt("args"),
	argumentsAt("parameters"),
	argumentsAt("input"),
	argumentsAt("function", "arguments"),
	argumentsAt("tool", "arguments"),
	argumentsAt("tool", "input"),
}

// Normalize extracts the canonical invocation from a request of unknown shape.
// raw is only read, never modified.
func Normalize(raw map[string]any) (Invocation, error) {
	name, found := firstMatch(raw, toolNameRules)
	if !found {
		return Invocation{}, ErrMissingToolName
	}
	name = stripNamespace(name)

	args, _ := firstMatch(raw, argumentRules)
	return NewInvocation(name, args)
}

// stripNamespace keeps the last path segment: "claudable-tools/read_file" → "read_file".
func stripNamespace(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return strings.TrimSpace(name[i+1:])
	}
	return name
}
