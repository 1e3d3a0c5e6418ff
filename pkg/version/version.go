// Package version exposes the xtemp build version.
package version

// version is the xtemp release version. Overridden at build time via
// -ldflags "-X github.com/aromatt/xtemp/pkg/version.version=vX.Y.Z".
//
//nolint:gochecknoglobals // Set once by the linker, read-only afterwards.
var version = "0.3.0-dev"

// GetVersion returns the xtemp version string.
func GetVersion() string {
	return version
}
