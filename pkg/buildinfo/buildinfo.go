// Package buildinfo holds version information stamped in at build time:
//
//	go build -ldflags "-X github.com/sruja-ai/sruja-sub008/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/sruja-ai/sruja-sub008/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/sruja-ai/sruja-sub008/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/sruja-layout
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the build information on three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// Short identifies the build in one token, e.g. "v1.0.0+3f2a1bc". Layout
// cache keys include it so that a new build never reads entries written by
// an older engine.
func Short() string {
	if Commit == "" || Commit == "none" {
		return Version
	}
	return Version + "+" + Commit
}
