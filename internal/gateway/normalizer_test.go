package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToolNameLocations(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"name", map[string]any{"name": "read_file"}},
		{"tool", map[string]any{"tool": "read_file"}},
		{"tool_name", map[string]any{"tool_name": "read_file"}},
		{"toolName", map[string]any{"toolName": "read_file"}},
		{"function.name", map[string]any{"function": map[string]any{"name": "read_file"}}},
		{"tool.name", map[string]any{"tool": map[string]any{"name": "read_file"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "read_file", inv.ToolName)
			assert.NotNil(t, inv.Arguments)
			assert.Empty(t, inv.Arguments)
		})
	}
}

func TestNormalizeFirstMatchWins(t *testing.T) {
	inv, err := Normalize(map[string]any{
		"toolName": "glob",
		"name":     "read_file",
		"function": map[string]any{"name": "write_file"},
	})
	require.NoError(t, err)
	assert.Equal(t, "read_file", inv.ToolName)

	inv, err = Normalize(map[string]any{
		"name":     "",
		"toolName": "glob",
	})
	require.NoError(t, err)
	assert.Equal(t, "glob", inv.ToolName, "empty candidates are skipped")

	inv, err = Normalize(map[string]any{
		"name": 42,
		"tool": map[string]any{"name": "replace"},
	})
	require.NoError(t, err)
	assert.Equal(t, "replace", inv.ToolName, "non-string candidates are skipped")
}

func TestNormalizeStripsNamespace(t *testing.T) {
	inv, err := Normalize(map[string]any{"name": "claudable-tools/run_shell_command"})
	require.NoError(t, err)
	assert.Equal(t, "run_shell_command", inv.ToolName)

	inv, err = Normalize(map[string]any{"toolName": "a/b/glob"})
	require.NoError(t, err)
	assert.Equal(t, "glob", inv.ToolName)

	_, err = Normalize(map[string]any{"name": "claudable-tools/"})
	assert.ErrorIs(t, err, ErrMissingToolName)
}

func TestNormalizeMissingToolName(t *testing.T) {
	for _, raw := range []map[string]any{
		{},
		{"name": "   "},
		{"arguments": map[string]any{"command": "ls"}},
		{"function": "read_file"},
		{"tool": map[string]any{"arguments": map[string]any{}}},
	} {
		_, err := Normalize(raw)
		assert.ErrorIs(t, err, ErrMissingToolName, "%v", raw)
	}
}

func TestNormalizeArgumentLocations(t *testing.T) {
	want := map[string]any{"file_path": "a.txt"}
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"arguments", map[string]any{"name": "read_file", "arguments": want}},
		{"args", map[string]any{"name": "read_file", "args": want}},
		{"parameters", map[string]any{"name": "read_file", "parameters": want}},
		{"input", map[string]any{"name": "read_file", "input": want}},
		{"function.arguments", map[string]any{"function": map[string]any{"name": "read_file", "arguments": want}}},
		{"function.arguments as JSON string", map[string]any{"function": map[string]any{"name": "read_file", "arguments": `{"file_path":"a.txt"}`}}},
		{"tool.arguments", map[string]any{"tool": map[string]any{"name": "read_file", "arguments": want}}},
		{"tool.input", map[string]any{"tool": map[string]any{"name": "read_file", "input": want}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "read_file", inv.ToolName)
			assert.Equal(t, want, inv.Arguments)
		})
	}
}

func TestNormalizeArgumentPrecedence(t *testing.T) {
	inv, err := Normalize(map[string]any{
		"name":      "read_file",
		"arguments": map[string]any{},
		"args":      map[string]any{"file_path": "from-args"},
		"input":     map[string]any{"file_path": "from-input"},
	})
	require.NoError(t, err)
	assert.Equal(t, "from-args", inv.Arguments["file_path"], "an empty object does not count as a match")

	inv, err = Normalize(map[string]any{"name": "read_file", "arguments": "not json"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, inv.Arguments)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := map[string]any{"name": "srv/read_file"}
	_, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "srv/read_file"}, raw)
}

func TestNewInvocation(t *testing.T) {
	_, err := NewInvocation("", nil)
	assert.ErrorIs(t, err, ErrMissingToolName)

	inv, err := NewInvocation("glob", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, inv.Arguments)
}

func TestNormalizeStringArgumentsKeepIntegers(t *testing.T) {
	inv, err := Normalize(map[string]any{
		"function": map[string]any{"name": "x", "arguments": `{"n": 9007199254740993}`},
	})
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), inv.Arguments["n"])
}
