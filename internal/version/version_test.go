package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	a := Fingerprint("tools", []byte(`{"tools":[]}`))
	b := Fingerprint("tools", []byte(`{"tools":[]}`))
	c := Fingerprint("tools", []byte(`{"tools":[{}]}`))

	assert.Equal(t, a, b, "fingerprint must be deterministic")
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "tools:"))
	assert.True(t, strings.HasSuffix(a, ":cv"+ComponentVersions.Catalogue+"_pv"+ComponentVersions.Protocol))
}
