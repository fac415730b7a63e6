package version

// Application version information, overridden at build time via ldflags.
var (
	Version = "dev"
	Commit  = ""
)

// String returns the version with the commit appended when known.
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
