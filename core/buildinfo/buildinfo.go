package buildinfo

// Set at link time:
//
//	-X 'github.com/commedeschamps/KieliSan/core/buildinfo.Version=v0.3.0'
//	-X 'github.com/commedeschamps/KieliSan/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/commedeschamps/KieliSan/core/buildinfo.Date=2026-10-01T12:00:00Z'
var (
	// Version reports the semantic version or tag of the build.
	Version = "dev"
	// Commit reports the source control commit used for the build.
	Commit = "local"
	// Date reports the build timestamp in RFC3339 format.
	Date = ""
)

// String renders a one-line build description for `kielisan version`.
func String() string {
	s := Version + " (" + Commit
	if Date != "" {
		s += ", " + Date
	}
	return s + ")"
}
