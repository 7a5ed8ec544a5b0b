package version

// version is set at build time with
// -ldflags "-X github.com/cbodonnell/instalose/pkg/version.version=..."
var version = "dev"

// Get returns the build version of the server.
func Get() string {
	return version
}
