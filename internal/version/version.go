// In file: internal/version/version.go

// Package version centralizes version strings for the logical parts of the gateway
// and derives stable fingerprints from them.
//
// Clients cache tool listings. Mixing the catalogue version into the listing
// fingerprint (served as an ETag) means that a change to tool definitions or to the
// rendering logic invalidates those caches even when the listing bytes happen to be
// identical.
package version

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComponentVersions holds the version strings for different logical parts of the
// application. Bump a value before deploying a change to that component.
var ComponentVersions = struct {
	// Catalogue changes whenever a tool definition or its schema changes.
	Catalogue string
	// Protocol changes whenever the request normalization or envelope format changes.
	Protocol string
}{
	Catalogue: "v1.0",
	Protocol:  "v1.0",
}

// Fingerprint returns a version-aware identifier for payload.
//
// Example output: "tools:a1b2c3d4e5f60718:cv1.0_pv1.0"
func Fingerprint(prefix string, payload []byte) string {
	sum := sha256.Sum256(payload)
	digest := hex.EncodeToString(sum[:8])

	versionString := fmt.Sprintf("cv%s_pv%s",
		ComponentVersions.Catalogue,
		ComponentVersions.Protocol,
	)
	return fmt.Sprintf("%s:%s:%s", prefix, digest, versionString)
}
