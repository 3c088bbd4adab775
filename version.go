package weave

import "fmt"

// Release version. Suffix is empty for tagged releases.
const (
	Maj    = 0
	Min    = 1
	Fix    = 0
	Suffix = "-dev"
)

// GitCommit is set at build time with
//
//	-ldflags "-X github.com/iov-one/timelock.GitCommit=$(git rev-parse --short HEAD)"
var GitCommit = ""

// Version returns the release version followed by the commit, if known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)
	if GitCommit == "" {
		return v
	}
	return v + " " + GitCommit
}
