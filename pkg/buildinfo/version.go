// Package buildinfo carries the version stamped into gridkit builds.
//
// The variables are set with ldflags:
//
//	go build -ldflags "-X github.com/speedui/gridkit/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/speedui/gridkit/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/speedui/gridkit/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/gridkit
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build stamp as reported by the API health check.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"built"`
}

// Get returns the current build stamp.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%s, built %s)", i.Version, i.Commit, i.Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + Get().String() + "\n"
}
