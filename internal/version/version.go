package version

// Build-time variables (set via ldflags)
var (
	Version = "dev"
	Commit  = "none"
)

// GetVersion returns the current version
func GetVersion() string {
	if Commit == "none" || Commit == "" {
		return Version
	}

	return Version + " (" + Commit + ")"
}
