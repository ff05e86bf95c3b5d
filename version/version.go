// Package version exposes build information, set at link time with -ldflags -X.
package version

//nolint:gochecknoglobals // overridden by the linker
var (
	name    = "audiosync"
	version = "dev"
	commit  = "unknown"
)

// Name of the binary.
func Name() string {
	return name
}

// Version is the release tag, "dev" for local builds.
func Version() string {
	return version
}

// Commit is the VCS revision the binary was built from.
func Commit() string {
	return commit
}
