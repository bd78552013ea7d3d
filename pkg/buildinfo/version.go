// Package buildinfo holds the version stamped into evdash builds.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/evdash/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/evdash/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/evdash
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", Version, short(Commit), Date)
}

// UserAgent identifies evdash to the station data API.
func UserAgent() string {
	return "evdash/" + Version
}

func short(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
