// Package version carries the build identity stamped at link time.
package version

// Injected via -ldflags "-X" at release build. The defaults identify a
// from-source development build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the build identity for display.
func String() string {
	if Version == "dev" {
		return Version + " (development build)"
	}
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
