package version

// Version is the current application version, injected at build time
// via -ldflags.
var Version = "dev"

// GetVersion returns the current application version
func GetVersion() string {
	return Version
}
