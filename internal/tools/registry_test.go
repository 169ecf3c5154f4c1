package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct{ name string }

func (s stubTool) Definition() Tool {
	return NewTool(s.name, "stub", map[string]*JSONSchema{"x": {Type: "string"}}, "x")
}

func (s stubTool) Execute(ctx context.Context, call Call) (map[string]any, error) {
	return map[string]any{"name": s.name}, nil
}

func TestDefaultCatalogueOrder(t *testing.T) {
	reg, err := Default(Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"run_shell_command",
		"write_file",
		"read_file",
		"replace",
		"list_directory",
		"glob",
		"search_file_content",
	}, reg.Names())
	assert.Equal(t, DefaultServerName, reg.ServerName())
	assert.Equal(t, 7, reg.ToolCount())

	defs := reg.List()
	require.Len(t, defs, 7)
	assert.Equal(t, []string{"file_path", "old_string", "new_string"}, defs[3].RequiredParameters())
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry("srv", stubTool{"a"}, stubTool{"a"})
	require.Error(t, err)

	_, err = NewRegistry("srv", stubTool{""})
	require.Error(t, err)
}

func TestListingCarriesEverySchemaAlias(t *testing.T) {
	reg, err := NewRegistry("srv", stubTool{"alpha"}, stubTool{"beta"})
	require.NoError(t, err)

	body, err := json.Marshal(reg.Listing())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "srv", decoded["server"])
	assert.Equal(t, "srv", decoded["serverName"])

	listed := decoded["tools"].([]any)
	require.Len(t, listed, 2)
	first := listed[0].(map[string]any)
	assert.Equal(t, "alpha", first["name"])
	assert.Equal(t, "srv/alpha", first["fullName"])
	assert.Equal(t, "srv", first["server"])
	assert.Equal(t, "srv", first["serverName"])
	assert.Equal(t, first["input_schema"], first["inputSchema"])
	assert.Equal(t, []any{"x"}, first["input_schema"].(map[string]any)["required"])
	assert.Equal(t, "beta", listed[1].(map[string]any)["name"])
}

func TestListingIsACopy(t *testing.T) {
	reg, err := NewRegistry("srv", stubTool{"alpha"})
	require.NoError(t, err)

	listing := reg.Listing()
	listing.Tools[0].Name = "mutated"

	assert.Equal(t, "alpha", reg.Listing().Tools[0].Name)
}

func TestFingerprintTracksDefinitions(t *testing.T) {
	a, err := NewRegistry("srv", stubTool{"alpha"})
	require.NoError(t, err)
	b, err := NewRegistry("srv", stubTool{"alpha"})
	require.NoError(t, err)
	c, err := NewRegistry("srv", stubTool{"gamma"})
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestLookup(t *testing.T) {
	reg, err := NewRegistry("", stubTool{"alpha"})
	require.NoError(t, err)

	tool, ok := reg.Lookup("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", tool.Definition().Name)

	_, ok = reg.Lookup("srv/alpha")
	assert.False(t, ok, "lookup takes bare names only")
	assert.Equal(t, DefaultServerName, reg.ServerName())
}
