// Package buildconfig carries the version metadata stamped into the binary
// at link time. Defaults apply to a plain `go build` with no ldflags.
package buildconfig

var (
	version = "dev"
	commit  = "unknown"
)

func Version() string { return version }

func Commit() string { return commit }

// VersionInfo is what the metrics endpoint reports about the running build.
func VersionInfo() map[string]string {
	return map[string]string{
		"version": version,
		"commit":  commit,
	}
}
