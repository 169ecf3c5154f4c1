package executor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONKeepsIntegerPrecision(t *testing.T) {
	var out map[string]any
	require.NoError(t, DecodeJSON([]byte(`{"n":9007199254740993,"f":1.5}`), &out))
	assert.Equal(t, json.Number("9007199254740993"), out["n"])
	assert.Equal(t, json.Number("1.5"), out["f"])

	encoded, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":9007199254740993,"f":1.5}`, string(encoded))
	assert.Contains(t, string(encoded), "9007199254740993")
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	var out map[string]any
	assert.Error(t, DecodeJSON([]byte(`{"a":1} {"b":2}`), &out))
	assert.Error(t, DecodeJSON([]byte(`{"a":1`), &out))
	assert.NoError(t, DecodeJSON([]byte("  {\"a\":1}\n"), &out))
}
